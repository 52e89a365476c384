package mail

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	gomail "github.com/wneessen/go-mail"
)

const sendTimeout = 30 * time.Second

// SMTPMailer sends through one SMTP account. A client is dialled per message.
type SMTPMailer struct {
	client *gomail.Client
	from   string
	log    zerolog.Logger
}

func NewSMTPMailer(cfg Config, log zerolog.Logger) (*SMTPMailer, error) {
	opts := []gomail.Option{
		gomail.WithPort(cfg.Port),
		gomail.WithSMTPAuth(gomail.SMTPAuthPlain),
		gomail.WithUsername(cfg.User),
		gomail.WithPassword(cfg.Pass),
		gomail.WithTimeout(sendTimeout),
	}
	if cfg.Secure {
		opts = append(opts, gomail.WithSSL())
	} else {
		opts = append(opts, gomail.WithTLSPolicy(gomail.TLSOpportunistic))
	}

	client, err := gomail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("smtp client: %w", err)
	}

	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	return &SMTPMailer{client: client, from: from, log: log}, nil
}

func (m *SMTPMailer) SendVerificationOTP(ctx context.Context, to, name, otp string, validFor time.Duration) error {
	msg, err := verificationMessage(name, otp, validFor)
	if err != nil {
		return err
	}
	return m.send(ctx, to, msg)
}

func (m *SMTPMailer) SendPasswordReset(ctx context.Context, to, name, resetURL string, validFor time.Duration) error {
	msg, err := resetMessage(name, resetURL, validFor)
	if err != nil {
		return err
	}
	return m.send(ctx, to, msg)
}

func (m *SMTPMailer) Console() bool { return false }

func (m *SMTPMailer) send(ctx context.Context, to string, msg message) error {
	gm := gomail.NewMsg()
	if err := gm.From(m.from); err != nil {
		return fmt.Errorf("set from: %w", err)
	}
	if err := gm.To(to); err != nil {
		return fmt.Errorf("set to: %w", err)
	}
	gm.Subject(msg.Subject)
	gm.SetBodyString(gomail.TypeTextHTML, msg.HTML)
	gm.AddAlternativeString(gomail.TypeTextPlain, msg.Text)

	if err := m.client.DialAndSendWithContext(ctx, gm); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	m.log.Info().Str("to", to).Str("subject", msg.Subject).Msg("email sent")
	return nil
}
