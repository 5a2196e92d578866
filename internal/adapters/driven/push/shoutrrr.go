// Package push delivers summary notifications over shoutrrr service URLs
// (Telegram, Pushover, email and friends). An alternative to iMessage
// delivery for hosts that are not running macOS.
package push

import (
	"context"
	"fmt"
	"io"
	"log"
	"time"

	"github.com/nicholas-fedor/shoutrrr"
	"github.com/nicholas-fedor/shoutrrr/pkg/router"
	stypes "github.com/nicholas-fedor/shoutrrr/pkg/types"

	"github.com/handeliew/hugin/internal/core/ports/driven"
)

const defaultTimeout = 30 * time.Second

// Notifier implements the Notifier port over a shoutrrr service URL.
type Notifier struct {
	sender *router.ServiceRouter
}

var _ driven.Notifier = (*Notifier)(nil)

// NewNotifier creates a notifier for the given shoutrrr URL, e.g.
// "telegram://token@telegram?chats=id". The URL is validated up front.
func NewNotifier(serviceURL string) (*Notifier, error) {
	if serviceURL == "" {
		return nil, fmt.Errorf("push service URL is required")
	}

	sender, err := shoutrrr.CreateSender(serviceURL)
	if err != nil {
		return nil, fmt.Errorf("invalid push service URL: %w", err)
	}
	sender.Timeout = defaultTimeout
	sender.SetLogger(log.New(io.Discard, "", 0))

	return &Notifier{sender: sender}, nil
}

// Send delivers the body through the configured service. The recipient is
// encoded in the service URL, so the parameter only names the title.
func (n *Notifier) Send(ctx context.Context, recipient, body string) error {
	_ = ctx // the router handles its own timeouts

	params := stypes.Params{}
	if recipient != "" {
		params.SetTitle(recipient)
	}

	for _, err := range n.sender.Send(body, &params) {
		if err != nil {
			return fmt.Errorf("push notification failed: %w", err)
		}
	}
	return nil
}
