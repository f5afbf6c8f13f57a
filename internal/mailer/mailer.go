// Package mailer delivers verification codes to the admin mailbox over SMTP.
package mailer

import (
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/minedex/minedex/internal/logger"
)

// Config holds the SMTP account and the destination mailbox.
type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string // defaults to Username when empty
	To       string // the admin mailbox receiving codes
}

// Mailer sends verification-code mails. It implements verify.Sender.
type Mailer struct {
	client *mail.Client
	from   string
	to     string
	log    logger.Logger
}

// New builds the SMTP client. Implicit TLS on the submission port, PLAIN auth.
func New(cfg Config, log logger.Logger) (*Mailer, error) {
	client, err := mail.NewClient(cfg.Host,
		mail.WithPort(cfg.Port),
		mail.WithSSL(),
		mail.WithSMTPAuth(mail.SMTPAuthPlain),
		mail.WithUsername(cfg.Username),
		mail.WithPassword(cfg.Password),
	)
	if err != nil {
		return nil, fmt.Errorf("build smtp client: %w", err)
	}
	from := cfg.From
	if from == "" {
		from = cfg.Username
	}
	return &Mailer{client: client, from: from, to: cfg.To, log: log}, nil
}

// CheckConnection dials the SMTP server once. Advisory: a broken mailbox
// should be visible in the logs, not keep the directory down.
func (m *Mailer) CheckConnection(ctx context.Context) error {
	if err := m.client.DialWithContext(ctx); err != nil {
		return fmt.Errorf("smtp dial: %w", err)
	}
	return m.client.Close()
}

// Send mails one verification code to the admin mailbox.
func (m *Mailer) Send(ctx context.Context, code string) error {
	msg := mail.NewMsg()
	if err := msg.From(m.from); err != nil {
		return fmt.Errorf("invalid sender address: %w", err)
	}
	if err := msg.To(m.to); err != nil {
		return fmt.Errorf("invalid admin address: %w", err)
	}
	msg.Subject("Server directory admin verification code")
	msg.SetBodyString(mail.TypeTextHTML, codeBody(code))

	if err := m.client.DialAndSendWithContext(ctx, msg); err != nil {
		return fmt.Errorf("send verification mail: %w", err)
	}
	m.log.Info("verification code mailed", logger.String("to", m.to))
	return nil
}

func codeBody(code string) string {
	return fmt.Sprintf(`
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h2 style="color: #4a6cf7;">Server directory admin</h2>
  <p>Your verification code is:</p>
  <div style="background: #f8fafc; padding: 20px; text-align: center; margin: 20px 0;">
    <h1 style="color: #4a6cf7; font-size: 32px; margin: 0; letter-spacing: 5px;">%s</h1>
  </div>
  <p>The code is valid for 10 minutes.</p>
  <p style="color: #94a3b8; font-size: 12px;">If you did not request this, ignore this mail.</p>
</div>`, code)
}
