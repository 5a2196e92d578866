package imessage

import (
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/handeliew/hugin/internal/core/ports/driven"
)

const sendTimeout = 10 * time.Second

// Notifier sends iMessages through the Messages app via AppleScript.
type Notifier struct{}

var _ driven.Notifier = (*Notifier)(nil)

// NewNotifier creates an AppleScript-backed notifier.
func NewNotifier() *Notifier {
	return &Notifier{}
}

// Send delivers the body to the recipient as an iMessage.
func (n *Notifier) Send(ctx context.Context, recipient, body string) error {
	script := fmt.Sprintf(`
	tell application "Messages"
		set targetService to 1st account whose service type = iMessage
		set targetBuddy to participant "%s" of targetService
		send "%s" to targetBuddy
	end tell`, escapeAppleScript(recipient), escapeAppleScript(body))

	ctx, cancel := context.WithTimeout(ctx, sendTimeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "osascript", "-e", script)
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("sending imessage to %s: %w: %s", recipient, err, strings.TrimSpace(string(output)))
	}
	return nil
}

// escapeAppleScript escapes a string for embedding in an AppleScript
// string literal. Backslashes must be escaped before quotes.
func escapeAppleScript(s string) string {
	replacer := strings.NewReplacer(
		`\`, `\\`,
		`"`, `\"`,
		"\n", `\n`,
		"\r", `\r`,
		"\t", `\t`,
	)
	return replacer.Replace(s)
}
