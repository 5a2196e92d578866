package memory

import (
	"context"
	"sync"

	"github.com/handeliew/hugin/internal/core/ports/driven"
)

// Ensure Notifier implements the interface.
var _ driven.Notifier = (*Notifier)(nil)

// Message is one recorded notification.
type Message struct {
	Recipient string
	Body      string
}

// Notifier is an in-memory implementation of driven.Notifier that records
// sent messages for inspection.
type Notifier struct {
	mu       sync.RWMutex
	messages []Message
}

// NewNotifier creates a new in-memory notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Send records the message.
func (n *Notifier) Send(_ context.Context, recipient, body string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.messages = append(n.messages, Message{Recipient: recipient, Body: body})
	return nil
}

// Messages returns all recorded messages in send order.
func (n *Notifier) Messages() []Message {
	n.mu.RLock()
	defer n.mu.RUnlock()
	out := make([]Message, len(n.messages))
	copy(out, n.messages)
	return out
}
