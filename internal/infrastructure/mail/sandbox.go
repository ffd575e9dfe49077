package mail

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/artisan-avenue/auth-service/internal/api/metrics"
)

// SandboxNotifier logs messages instead of sending them. Used in development
// when no SMTP credentials are configured; codes show up in the log so the
// flows stay testable end to end.
type SandboxNotifier struct {
	log zerolog.Logger
}

func NewSandboxNotifier(log zerolog.Logger) *SandboxNotifier {
	return &SandboxNotifier{log: log}
}

func (n *SandboxNotifier) SendVerificationCode(_ context.Context, email, code string) error {
	n.log.Info().Str("to", email).Str("code", code).Msg("sandbox mail: verification code")
	metrics.MailSentTotal.WithLabelValues("verification", "sandbox").Inc()
	return nil
}

func (n *SandboxNotifier) SendResetCode(_ context.Context, email, code string) error {
	n.log.Info().Str("to", email).Str("code", code).Msg("sandbox mail: reset code")
	metrics.MailSentTotal.WithLabelValues("reset", "sandbox").Inc()
	return nil
}

func (n *SandboxNotifier) SendWelcome(_ context.Context, email, firstName string) error {
	n.log.Info().Str("to", email).Str("first_name", firstName).Msg("sandbox mail: welcome")
	metrics.MailSentTotal.WithLabelValues("welcome", "sandbox").Inc()
	return nil
}
