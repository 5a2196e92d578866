package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/handeliew/hugin/internal/core/domain"
	"github.com/handeliew/hugin/internal/logger"
)

var (
	scanChild     string
	scanWeekStart string
	scanHours     int
	scanSender    string
)

var scanCmd = &cobra.Command{
	Use:   "scan <image-or-pdf>",
	Short: "Extract homework and events from a plan document",
	Long: `Runs OCR on a plan image or PDF, extracts homework tasks, events and
preparation items, creates the ones that do not already exist, and sends
a summary notification.

The child is inferred from the filename unless --child is given. The week
defaults to next Monday unless --week-start is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runScanFile,
}

var scanRecentCmd = &cobra.Command{
	Use:   "recent",
	Short: "Scan recent message attachments for plan documents",
	Long: `Looks through recent iMessage attachments from the configured sender,
picks out plan documents that have not been processed yet, and processes
each one.`,
	Args: cobra.NoArgs,
	RunE: runScanRecent,
}

var scanWatchCmd = &cobra.Command{
	Use:   "watch <directory>",
	Short: "Watch a directory and process plan documents as they appear",
	Args:  cobra.ExactArgs(1),
	RunE:  runScanWatch,
}

func init() {
	scanCmd.Flags().StringVar(&scanChild, "child", "", "child the plan belongs to (default: inferred from filename)")
	scanCmd.Flags().StringVar(&scanWeekStart, "week-start", "", "Monday of the plan week, YYYY-MM-DD (default: next Monday)")
	scanRecentCmd.Flags().IntVar(&scanHours, "hours", 48, "how many hours back to look")
	scanRecentCmd.Flags().StringVar(&scanSender, "sender", "", "sender to scan (default: messages.sender from config)")
	scanWatchCmd.Flags().StringVar(&scanChild, "child", "", "child the plans belong to (default: inferred from filenames)")

	scanCmd.AddCommand(scanRecentCmd)
	scanCmd.AddCommand(scanWatchCmd)
	rootCmd.AddCommand(scanCmd)
}

func runScanFile(cmd *cobra.Command, args []string) error {
	if planService == nil {
		return errors.New("plan service not configured")
	}

	path := args[0]
	child := resolveChild(path)

	var weekStart time.Time
	if scanWeekStart != "" {
		parsed, err := time.Parse("2006-01-02", scanWeekStart)
		if err != nil {
			return fmt.Errorf("invalid --week-start %q, expected YYYY-MM-DD: %w", scanWeekStart, err)
		}
		weekStart = parsed
	}

	cmd.Printf("Processing %s for %s...\n", path, child)

	result, err := planService.ProcessFile(context.Background(), path, child, weekStart)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	printResult(cmd, result)
	return nil
}

func runScanRecent(cmd *cobra.Command, _ []string) error {
	if planService == nil {
		return errors.New("plan service not configured")
	}

	sender := scanSender
	if sender == "" && configStore != nil {
		sender = configStore.GetString("messages.sender")
	}
	if sender == "" {
		return errors.New("no sender configured; set messages.sender or pass --sender")
	}

	cmd.Printf("Scanning attachments from %s over the last %d hours...\n", sender, scanHours)

	result, err := planService.ProcessRecent(context.Background(), sender, scanHours)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}

	cmd.Printf("Checked %d attachments.\n", result.MessagesChecked)
	printResult(cmd, result)
	return nil
}

func runScanWatch(cmd *cobra.Command, args []string) error {
	if planService == nil {
		return errors.New("plan service not configured")
	}

	dir := args[0]

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watching %s: %w", dir, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd.Printf("Watching %s for plan documents. Press Ctrl+C to stop.\n", dir)

	for {
		select {
		case <-ctx.Done():
			cmd.Println("\nStopped watching.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Create) || !isPlanFile(event.Name) {
				continue
			}
			// Give the writer a moment to finish the file.
			time.Sleep(500 * time.Millisecond)

			cmd.Printf("Processing %s...\n", event.Name)
			result, err := planService.ProcessFile(ctx, event.Name, resolveChild(event.Name), time.Time{})
			if err != nil {
				logger.Warn("processing %s failed: %v", event.Name, err)
				continue
			}
			printResult(cmd, result)
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error: %v", err)
		}
	}
}

// resolveChild returns the --child flag value when set, otherwise infers
// the child from the filename.
func resolveChild(path string) domain.Child {
	if scanChild != "" {
		lower := strings.ToLower(scanChild)
		return domain.Child(strings.ToUpper(lower[:1]) + lower[1:])
	}
	return domain.ChildFromFilename(filepath.Base(path))
}

// isPlanFile reports whether the path looks like a scannable document.
func isPlanFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jpg", ".jpeg", ".png", ".heic", ".pdf":
		return true
	default:
		return false
	}
}

// printResult writes a short summary of what a scan changed.
func printResult(cmd *cobra.Command, result *domain.ProcessResult) {
	cmd.Printf("Processed %d document(s): %d homework, %d events, %d preparation items added.\n",
		result.ImagesProcessed, result.HomeworkAdded, result.EventsAdded, result.PreparationAdded)
	if result.RemindersSent > 0 {
		cmd.Println("Summary notification sent.")
	}
	for _, errMsg := range result.Errors {
		cmd.Printf("Warning: %s\n", errMsg)
	}
}
