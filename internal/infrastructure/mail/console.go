package mail

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// ConsoleMailer writes codes and links to the log instead of sending them.
type ConsoleMailer struct {
	log zerolog.Logger
}

func NewConsoleMailer(log zerolog.Logger) *ConsoleMailer {
	return &ConsoleMailer{log: log}
}

func (m *ConsoleMailer) SendVerificationOTP(_ context.Context, to, _, otp string, validFor time.Duration) error {
	m.log.Warn().
		Str("to", to).
		Str("otp", otp).
		Str("expires_in", humanDuration(validFor)).
		Msg("email verification code")
	return nil
}

func (m *ConsoleMailer) SendPasswordReset(_ context.Context, to, _, resetURL string, validFor time.Duration) error {
	m.log.Warn().
		Str("to", to).
		Str("reset_url", resetURL).
		Str("expires_in", humanDuration(validFor)).
		Msg("password reset link")
	return nil
}

func (m *ConsoleMailer) Console() bool { return true }
