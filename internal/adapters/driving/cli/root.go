// Package cli implements the hugin command line interface.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/handeliew/hugin/internal/core/ports/driven"
	"github.com/handeliew/hugin/internal/core/ports/driving"
	"github.com/handeliew/hugin/internal/core/services"
	"github.com/handeliew/hugin/internal/logger"
)

// version is set from main at startup.
var version = "dev"

// Services the commands depend on. Wired by SetServices before Execute;
// commands nil-check so a partially wired binary degrades with a clear
// error instead of a panic.
var (
	planService driving.PlanService
	scheduler   *services.Scheduler
	configStore driven.ConfigStore
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "hugin",
	Short: "School plan extraction pipeline",
	Long: `Hugin watches for weekly school plans ("Ukeplan") arriving as photos,
extracts homework and events from them with OCR, and files the results
into your task list and family calendar.

Typical flow: a plan photo arrives over iMessage, hugin OCRs it, creates
homework tasks and calendar events that do not already exist, and sends
one summary message about what was added.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// SetVersion sets the version string printed by the version command.
func SetVersion(v string) {
	version = v
}

// SetServices wires the core services into the command tree.
func SetServices(plans driving.PlanService, sched *services.Scheduler, config driven.ConfigStore) {
	planService = plans
	scheduler = sched
	configStore = config
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
