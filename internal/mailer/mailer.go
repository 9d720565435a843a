// Package mailer delivers one-time passcodes to users. The core only
// depends on the Mailer interface; delivery transport is pluggable.
package mailer

import (
	"context"
	"log"
)

// Mailer sends an OTP email to a recipient.
type Mailer interface {
	SendOTP(ctx context.Context, email, name string, otp int) error
}

// LogMailer logs instead of sending. Used in development, where the OTP is
// returned in the API response anyway.
type LogMailer struct{}

// SendOTP logs the delivery and succeeds.
func (LogMailer) SendOTP(_ context.Context, email, name string, _ int) error {
	log.Printf("dev mailer: suppressed OTP email to %s (%s)", email, name)
	return nil
}
