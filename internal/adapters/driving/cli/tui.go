package cli

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive terminal UI",
	Long: `Open the terminal UI: compare with live page progress, browse per page
signals and text diffs, locate rule terms and resolve their highlights on
demand, and review past runs.

Running proofcheck with no arguments in a terminal does the same.
Press ? inside the UI for the key bindings.`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

// tuiPorts builds the TUI ports from the configured services.
func tuiPorts() (*tui.Ports, error) {
	ports := tui.NewPorts(compareService, locateService)
	ports.History = historyService
	ports.Settings = settingsService
	ports.Capabilities = capabilityService
	if settingsService != nil {
		if dir, err := settingsService.Value("report.dir"); err == nil {
			ports.ReportDir = dir
		}
	}
	return ports, ports.Validate()
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	ports, err := tuiPorts()
	if err != nil {
		return fmt.Errorf("starting TUI: %w", err)
	}
	app, err := tui.NewApp(ports)
	if err != nil {
		return fmt.Errorf("starting TUI: %w", err)
	}

	// The alternate screen hides a panic message, so report it as an error
	// once bubbletea has restored the terminal.
	defer func() {
		if r := recover(); r != nil {
			logger.Debug("TUI panic stack:\n%s", debug.Stack())
			err = fmt.Errorf("TUI crashed: %v", r)
		}
	}()

	return app.WithContext(cmd.Context()).Run()
}
