// Package mailer delivers transactional email. The production implementation
// talks to the Brevo HTTP API; everything else in the application depends
// only on the Sender interface so tests can swap in a fake.
package mailer

import "context"

// Sender is the cross-package contract for sending email.
type Sender interface {
	// Send delivers one HTML email to a single recipient.
	Send(ctx context.Context, to, subject, htmlBody string) error

	// IsConfigured reports whether the provider credential is present.
	// Callers surface a configuration error instead of attempting a send.
	IsConfigured() bool
}
