// Command hugin extracts homework and events from weekly school plans.
package main

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2"
	googleoauth "golang.org/x/oauth2/google"
	calendarapi "google.golang.org/api/calendar/v3"

	"github.com/handeliew/hugin/internal/adapters/driven/config/file"
	"github.com/handeliew/hugin/internal/adapters/driven/googlecal"
	"github.com/handeliew/hugin/internal/adapters/driven/imessage"
	"github.com/handeliew/hugin/internal/adapters/driven/ocr"
	"github.com/handeliew/hugin/internal/adapters/driven/push"
	"github.com/handeliew/hugin/internal/adapters/driven/storage/sqlite"
	"github.com/handeliew/hugin/internal/adapters/driven/ticktick"
	"github.com/handeliew/hugin/internal/adapters/driving/cli"
	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/core/ports/driven"
	"github.com/handeliew/hugin/internal/core/services"
	"github.com/handeliew/hugin/internal/logger"
)

// version is overridden at build time via -ldflags.
var version = "dev"

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	configStore, err := file.NewConfigStore("")
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}

	store, err := sqlite.NewStore("")
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer store.Close() //nolint:errcheck // Best-effort close on exit

	ctx := context.Background()

	planCfg := services.DefaultPlanConfig()
	if v := configStore.GetString("plan.project"); v != "" {
		planCfg.ProjectName = v
	}
	if v := configStore.GetString("plan.calendar"); v != "" {
		planCfg.CalendarName = v
	}
	if v := configStore.GetString("plan.timezone"); v != "" {
		planCfg.Timezone = v
	}
	planCfg.Recipient = configStore.GetString("notify.recipient")

	processor := services.NewPlanProcessor(
		buildTaskStore(configStore),
		buildCalendarStore(ctx, configStore),
		buildNotifier(configStore),
		buildMessageSource(),
		ocr.NewExtractor(),
		store.ScanStore(),
		planCfg,
	)

	hoursBack := configStore.GetInt("scan.hours_back")
	if hoursBack <= 0 {
		hoursBack = 48
	}
	scheduler := services.NewScheduler(
		domain.DefaultSchedulerConfig(),
		store.SchedulerStore(),
		processor,
		configStore.GetString("messages.sender"),
		hoursBack,
	)

	cli.SetVersion(version)
	cli.SetServices(processor, scheduler, configStore)
	return cli.Execute()
}

// buildTaskStore returns the TickTick adapter when a token is configured,
// nil otherwise. The processor reports missing stores per operation.
func buildTaskStore(config driven.ConfigStore) driven.TaskStore {
	token := config.GetString("ticktick.access_token")
	if token == "" {
		logger.Debug("ticktick not authorised, task creation disabled")
		return nil
	}
	return ticktick.NewStore(ticktick.NewClient(token))
}

// buildCalendarStore returns the Google Calendar adapter when a refresh
// token is configured, nil otherwise.
func buildCalendarStore(ctx context.Context, config driven.ConfigStore) driven.CalendarStore {
	refreshToken := config.GetString("google.refresh_token")
	clientID := config.GetString("google.client_id")
	clientSecret := config.GetString("google.client_secret")
	if refreshToken == "" || clientID == "" || clientSecret == "" {
		logger.Debug("google calendar not authorised, event creation disabled")
		return nil
	}

	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     googleoauth.Endpoint,
		Scopes:       []string{calendarapi.CalendarScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})

	svc, err := googlecal.NewCalendarService(ctx, ts)
	if err != nil {
		logger.Warn("google calendar unavailable: %v", err)
		return nil
	}
	return googlecal.NewStore(svc)
}

// buildNotifier prefers a shoutrrr push URL when configured and falls
// back to iMessage delivery.
func buildNotifier(config driven.ConfigStore) driven.Notifier {
	if url := config.GetString("notify.push_url"); url != "" {
		notifier, err := push.NewNotifier(url)
		if err != nil {
			logger.Warn("invalid push URL, falling back to imessage: %v", err)
		} else {
			return notifier
		}
	}
	return imessage.NewNotifier()
}

// buildMessageSource returns the iMessage source when the Messages
// archive is present.
func buildMessageSource() driven.MessageSource {
	path, err := imessage.DefaultDatabasePath()
	if err != nil {
		return nil
	}
	source := imessage.NewSource(path)
	if !source.Available() {
		logger.Debug("messages database not found at %s", path)
	}
	return source
}
