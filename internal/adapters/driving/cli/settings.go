package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	"golang.org/x/term"
	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/handeliew/hugin/internal/adapters/driven/ticktick"
	"github.com/handeliew/hugin/internal/adapters/driving/oauth"
)

// Configuration keys the settings commands manage.
const (
	keyMessagesSender   = "messages.sender"
	keyNotifyRecipient  = "notify.recipient"
	keyNotifyPushURL    = "notify.push_url"
	keyPlanProject      = "plan.project"
	keyPlanCalendar     = "plan.calendar"
	keyPlanTimezone     = "plan.timezone"
	keyScanHoursBack    = "scan.hours_back"
	keyTickTickClientID = "ticktick.client_id"
	keyTickTickSecret   = "ticktick.client_secret"
	keyTickTickToken    = "ticktick.access_token"
	keyGoogleClientID   = "google.client_id"
	keyGoogleSecret     = "google.client_secret"
	keyGoogleRefresh    = "google.refresh_token"
)

const authTimeout = 5 * time.Minute

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure the message sender, notification delivery, task and
calendar targets, and service credentials.

Use 'settings ticktick' and 'settings google' to run the authorisation
flows for the task and calendar services.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> [value]",
	Short: "Set a configuration value",
	Long: `Set a configuration value by key. When the value is omitted for a
credential key, it is read from the terminal without echo.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runSettingsSet,
}

var settingsTickTickCmd = &cobra.Command{
	Use:   "ticktick",
	Short: "Authorise access to TickTick",
	RunE:  runSettingsTickTick,
}

var settingsGoogleCmd = &cobra.Command{
	Use:   "google",
	Short: "Authorise access to Google Calendar",
	RunE:  runSettingsGoogle,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsTickTickCmd)
	settingsCmd.AddCommand(settingsGoogleCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	cmd.Println("[Messages]")
	cmd.Printf("  Sender: %s\n", orUnset(configStore.GetString(keyMessagesSender)))
	cmd.Println()

	cmd.Println("[Notifications]")
	cmd.Printf("  Recipient: %s\n", orUnset(configStore.GetString(keyNotifyRecipient)))
	cmd.Printf("  Push URL: %s\n", orUnset(maskSecret(configStore.GetString(keyNotifyPushURL))))
	cmd.Println()

	cmd.Println("[Plan]")
	cmd.Printf("  Project: %s\n", orDefault(configStore.GetString(keyPlanProject), "Homework"))
	cmd.Printf("  Calendar: %s\n", orDefault(configStore.GetString(keyPlanCalendar), "Family events"))
	cmd.Printf("  Timezone: %s\n", orDefault(configStore.GetString(keyPlanTimezone), "Europe/Oslo"))
	cmd.Println()

	cmd.Println("[TickTick]")
	cmd.Printf("  Client ID: %s\n", orUnset(configStore.GetString(keyTickTickClientID)))
	cmd.Printf("  Status: %s\n", authStatus(configStore.GetString(keyTickTickToken)))
	cmd.Println()

	cmd.Println("[Google Calendar]")
	cmd.Printf("  Client ID: %s\n", orUnset(configStore.GetString(keyGoogleClientID)))
	cmd.Printf("  Status: %s\n", authStatus(configStore.GetString(keyGoogleRefresh)))
	cmd.Println()

	cmd.Printf("Config file: %s\n", configStore.Path())
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	key := args[0]

	var value string
	switch {
	case len(args) == 2:
		value = args[1]
	case isSecretKey(key):
		cmd.Printf("Enter value for %s: ", key)
		value = readPassword()
		cmd.Println()
	default:
		return errors.New("a value is required for this key")
	}

	if value == "" {
		return errors.New("empty value")
	}

	if err := configStore.Set(key, value); err != nil {
		return fmt.Errorf("saving %s: %w", key, err)
	}
	cmd.Printf("Set %s.\n", key)
	return nil
}

func runSettingsTickTick(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	clientID, clientSecret, err := requireCredentials(cmd, keyTickTickClientID, keyTickTickSecret)
	if err != nil {
		return err
	}

	state := oauth.GenerateCodeVerifier()
	server := oauth.NewCallbackServer(0, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck // Best-effort shutdown

	authURL := ticktick.BuildAuthURL(clientID, server.RedirectURI(), state)
	cmd.Println("Opening browser for TickTick authorisation...")
	cmd.Printf("If the browser does not open, visit:\n%s\n\n", authURL)
	if err := oauth.OpenBrowser(authURL); err != nil {
		cmd.Printf("Could not open browser: %v\n", err)
	}

	code, err := server.WaitForCode(authTimeout)
	if err != nil {
		return fmt.Errorf("waiting for authorisation: %w", err)
	}

	tokens, err := ticktick.ExchangeCodeForTokens(context.Background(), clientID, clientSecret, code, server.RedirectURI())
	if err != nil {
		return fmt.Errorf("exchanging authorisation code: %w", err)
	}

	if err := configStore.Set(keyTickTickToken, tokens.AccessToken); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	cmd.Println("TickTick authorised.")
	return nil
}

func runSettingsGoogle(cmd *cobra.Command, _ []string) error {
	if configStore == nil {
		return errors.New("config store not configured")
	}

	clientID, clientSecret, err := requireCredentials(cmd, keyGoogleClientID, keyGoogleSecret)
	if err != nil {
		return err
	}

	state := oauth.GenerateCodeVerifier()
	server := oauth.NewCallbackServer(0, state)
	if err := server.Start(); err != nil {
		return fmt.Errorf("starting callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck // Best-effort shutdown

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleoauth.Endpoint,
		RedirectURL:  server.RedirectURI(),
		Scopes:       []string{calendarapi.CalendarScope},
	}

	authURL := conf.AuthCodeURL(state, oauth2.AccessTypeOffline, oauth2.ApprovalForce)
	cmd.Println("Opening browser for Google authorisation...")
	cmd.Printf("If the browser does not open, visit:\n%s\n\n", authURL)
	if err := oauth.OpenBrowser(authURL); err != nil {
		cmd.Printf("Could not open browser: %v\n", err)
	}

	code, err := server.WaitForCode(authTimeout)
	if err != nil {
		return fmt.Errorf("waiting for authorisation: %w", err)
	}

	token, err := conf.Exchange(context.Background(), code)
	if err != nil {
		return fmt.Errorf("exchanging authorisation code: %w", err)
	}
	if token.RefreshToken == "" {
		return errors.New("no refresh token received; revoke access and try again")
	}

	if err := configStore.Set(keyGoogleRefresh, token.RefreshToken); err != nil {
		return fmt.Errorf("saving token: %w", err)
	}

	cmd.Println("Google Calendar authorised.")
	return nil
}

// requireCredentials loads the client ID and secret for a provider,
// prompting for any that are missing and persisting what was entered.
func requireCredentials(cmd *cobra.Command, idKey, secretKey string) (string, string, error) {
	clientID := configStore.GetString(idKey)
	if clientID == "" {
		cmd.Print("Enter client ID: ")
		reader := bufio.NewReader(os.Stdin)
		clientID = readLine(reader)
		if clientID == "" {
			return "", "", errors.New("client ID is required")
		}
		if err := configStore.Set(idKey, clientID); err != nil {
			return "", "", fmt.Errorf("saving client ID: %w", err)
		}
	}

	clientSecret := configStore.GetString(secretKey)
	if clientSecret == "" {
		cmd.Print("Enter client secret: ")
		clientSecret = readPassword()
		cmd.Println()
		if clientSecret == "" {
			return "", "", errors.New("client secret is required")
		}
		if err := configStore.Set(secretKey, clientSecret); err != nil {
			return "", "", fmt.Errorf("saving client secret: %w", err)
		}
	}

	return clientID, clientSecret, nil
}

// Helper functions.

func orUnset(value string) string {
	if value == "" {
		return "(not set)"
	}
	return value
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback + " (default)"
	}
	return value
}

func authStatus(token string) string {
	if token == "" {
		return "not authorised"
	}
	return "authorised"
}

// isSecretKey reports whether a key holds a credential that should not be
// echoed.
func isSecretKey(key string) bool {
	return strings.HasSuffix(key, "secret") ||
		strings.HasSuffix(key, "token") ||
		strings.HasSuffix(key, "push_url")
}

// maskSecret hides all but the edges of a credential.
func maskSecret(value string) string {
	if len(value) <= 8 {
		if value == "" {
			return ""
		}
		return "****"
	}
	return value[:4] + "..." + value[len(value)-4:]
}

//nolint:errcheck // CLI helper, error ignored for UX
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}

//nolint:errcheck // CLI helper, error ignored for UX
func readPassword() string {
	// Try to read password without echo
	if term.IsTerminal(int(os.Stdin.Fd())) {
		password, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return string(password)
		}
	}
	// Fallback to regular input
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n')
	return strings.TrimSpace(input)
}
