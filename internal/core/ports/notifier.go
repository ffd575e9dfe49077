package ports

import "context"

// Notifier delivers outbound email. Implementations are resolved once at
// startup (real SMTP or a sandbox transport) and injected; nothing is built
// lazily on first send.
//
// Transactional sends (verification and reset codes) must report failure so
// the enclosing request can fail — the client needs to know no code arrived.
// The welcome message is best-effort and may be dropped by the caller.
type Notifier interface {
	SendVerificationCode(ctx context.Context, email, code string) error
	SendResetCode(ctx context.Context, email, code string) error
	SendWelcome(ctx context.Context, email, firstName string) error
}

// WelcomeEnqueuer hands best-effort mail to a background dispatcher so it
// never blocks or fails the request that triggered it.
type WelcomeEnqueuer interface {
	EnqueueWelcome(email, firstName string)
}
