// Package mail provides the Notifier implementations. The transport is
// resolved once at construction time: real SMTP when credentials are
// configured, otherwise a sandbox that only logs. Nothing is built lazily on
// first send.
package mail

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/artisan-avenue/auth-service/internal/core/ports"
)

// Config captures the SMTP settings. From is used as the sender for every
// message.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

const defaultFrom = "Artisan Avenue <no-reply@artisan-avenue.local>"

// New resolves a Notifier from the configuration. When Host, Username, and
// Password are all present it returns the SMTP notifier; otherwise the
// sandbox notifier, which logs instead of sending.
func New(cfg Config, log zerolog.Logger) ports.Notifier {
	if cfg.From == "" {
		cfg.From = defaultFrom
	}
	if cfg.Host != "" && cfg.Username != "" && cfg.Password != "" {
		if cfg.Port == 0 {
			cfg.Port = 587
		}
		log.Info().Str("host", cfg.Host).Int("port", cfg.Port).Msg("mail: SMTP transport configured")
		return NewSMTPNotifier(cfg)
	}
	log.Info().Msg("mail: no SMTP credentials, using sandbox transport")
	return NewSandboxNotifier(log)
}

type message struct {
	subject string
	text    string
	html    string
}

func verificationMessage(code string) message {
	return message{
		subject: "Your Artisan Avenue verification code",
		text:    fmt.Sprintf("Use this code to verify your email: %s\nThis code expires in 10 minutes.", code),
		html: fmt.Sprintf(`<p>Use this code to verify your email:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:3px">%s</p>
<p>This code expires in <b>10 minutes</b>.</p>`, code),
	}
}

func resetMessage(code string) message {
	return message{
		subject: "Your Artisan Avenue reset code",
		text:    fmt.Sprintf("Use this code to reset your password: %s\nThis code expires in 10 minutes.", code),
		html: fmt.Sprintf(`<p>Use this code to reset your password:</p>
<p style="font-size:24px;font-weight:bold;letter-spacing:3px">%s</p>
<p>This code expires in <b>10 minutes</b>.</p>`, code),
	}
}

func welcomeMessage(firstName string) message {
	return message{
		subject: "Welcome to Artisan Avenue",
		text:    fmt.Sprintf("Hi %s,\n\nYour email is verified and your account is ready. Happy browsing!", firstName),
		html: fmt.Sprintf(`<p>Hi %s,</p>
<p>Your email is verified and your account is ready. Happy browsing!</p>`, firstName),
	}
}
