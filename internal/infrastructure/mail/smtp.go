package mail

import (
	"context"
	"fmt"

	"gopkg.in/gomail.v2"

	"github.com/artisan-avenue/auth-service/internal/api/metrics"
)

// SMTPNotifier delivers mail over SMTP using gomail. Each send dials a fresh
// connection; delivery is at-most-once with no retry.
type SMTPNotifier struct {
	cfg    Config
	dialer *gomail.Dialer
}

func NewSMTPNotifier(cfg Config) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
	}
}

func (n *SMTPNotifier) SendVerificationCode(ctx context.Context, email, code string) error {
	return n.send(ctx, "verification", email, verificationMessage(code))
}

func (n *SMTPNotifier) SendResetCode(ctx context.Context, email, code string) error {
	return n.send(ctx, "reset", email, resetMessage(code))
}

func (n *SMTPNotifier) SendWelcome(ctx context.Context, email, firstName string) error {
	return n.send(ctx, "welcome", email, welcomeMessage(firstName))
}

func (n *SMTPNotifier) send(ctx context.Context, kind, to string, msg message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	m := gomail.NewMessage()
	m.SetHeader("From", n.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.subject)
	m.SetBody("text/plain", msg.text)
	m.AddAlternative("text/html", msg.html)

	if err := n.dialer.DialAndSend(m); err != nil {
		metrics.MailSentTotal.WithLabelValues(kind, "error").Inc()
		return fmt.Errorf("send %s mail: %w", kind, err)
	}
	metrics.MailSentTotal.WithLabelValues(kind, "ok").Inc()
	return nil
}
