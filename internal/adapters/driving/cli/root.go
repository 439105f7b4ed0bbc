// Package cli provides the cobra command tree for proofcheck.
// It implements a driving adapter following hexagonal architecture principles.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// version is set at build time with -ldflags "-X ...cli.version=...".
var version = "dev"

var verbose bool

// Services used by the commands. Set by SetServices before Execute.
var (
	compareService    driving.CompareService
	locateService     driving.LocateService
	historyService    driving.HistoryService
	settingsService   driving.SettingsService
	capabilityService driving.CapabilityService
	fileWatcher       driven.FileWatcher
)

// Services groups the dependencies injected into the command tree.
type Services struct {
	Compare      driving.CompareService
	Locate       driving.LocateService
	History      driving.HistoryService
	Settings     driving.SettingsService
	Capabilities driving.CapabilityService

	// Watcher enables compare --watch. Optional.
	Watcher driven.FileWatcher
}

var rootCmd = &cobra.Command{
	Use:   "proofcheck",
	Short: "Compare document proofs and locate leaflet terms",
	Long: `proofcheck compares an expected master document against a printed or
control rendering, page by page, across pixel, structural, colour, feature and
text signals. It also locates the terms of a rule table inside a PDF.

Run without arguments in a terminal to get the interactive UI.`,
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if isTerminal(cmd.OutOrStdout()) {
			return runTUI(cmd, args)
		}
		return cmd.Help()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "print pipeline progress to stderr")
}

// SetServices wires the core services into the commands.
func SetServices(s Services) {
	compareService = s.Compare
	locateService = s.Locate
	historyService = s.History
	settingsService = s.Settings
	capabilityService = s.Capabilities
	fileWatcher = s.Watcher
}

// SetVersion sets the version printed by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// ExecuteContext runs the root command with ctx. Cancelling ctx stops a
// running compare, locate or watch.
func ExecuteContext(ctx context.Context) error {
	return rootCmd.ExecuteContext(ctx)
}
