package ports

import (
	"context"
	"time"
)

// Mailer delivers account emails.
type Mailer interface {
	SendVerificationOTP(ctx context.Context, to, name, otp string, validFor time.Duration) error
	SendPasswordReset(ctx context.Context, to, name, resetURL string, validFor time.Duration) error
	// Console reports whether messages are only written to the log.
	Console() bool
}
