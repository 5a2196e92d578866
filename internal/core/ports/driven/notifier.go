package driven

import "context"

// Notifier delivers outbound summary notifications.
// The processor sends at most one notification per processed document.
type Notifier interface {
	// Send delivers a message body to the recipient.
	Send(ctx context.Context, recipient, body string) error
}
