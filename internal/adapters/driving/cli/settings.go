package cli

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Manage application settings",
	Long: `View and configure render, comparison, OCR and locator settings.

Settings are stored in a TOML file. Use 'settings keys' to list every key and
'settings set <key> <value>' to change one. Lists are comma-separated.`,
	RunE: runSettingsShow,
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current settings",
	RunE:  runSettingsShow,
}

var settingsSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a setting",
	Args:  cobra.ExactArgs(2),
	RunE:  runSettingsSet,
}

var settingsKeysCmd = &cobra.Command{
	Use:   "keys",
	Short: "List setting keys",
	RunE:  runSettingsKeys,
}

var settingsPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the configuration file path",
	RunE:  runSettingsPath,
}

var settingsWizardCmd = &cobra.Command{
	Use:   "wizard",
	Short: "Interactive setup wizard",
	Long:  `Walk through every setting, keeping the current value when the answer is empty.`,
	RunE:  runSettingsWizard,
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd)
	settingsCmd.AddCommand(settingsSetCmd)
	settingsCmd.AddCommand(settingsKeysCmd)
	settingsCmd.AddCommand(settingsPathCmd)
	settingsCmd.AddCommand(settingsWizardCmd)
	rootCmd.AddCommand(settingsCmd)
}

func runSettingsShow(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}

	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("failed to get settings: %w", err)
	}

	cmd.Println("Current Settings")
	cmd.Println("================")
	cmd.Println()

	section := ""
	for _, key := range settingsService.Keys() {
		if prefix, _, ok := strings.Cut(key, "."); ok && prefix != section {
			if section != "" {
				cmd.Println()
			}
			section = prefix
			cmd.Printf("[%s]\n", prefix)
		}
		value, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}
		cmd.Printf("  %-28s %s\n", key, value)
	}
	cmd.Println()

	if err := settings.Validate(); err != nil {
		cmd.Printf("Warning: %v\n", err)
		cmd.Println("Run 'proofcheck settings wizard' to fix configuration issues.")
	} else {
		cmd.Println("Configuration is valid.")
	}
	return nil
}

func runSettingsSet(cmd *cobra.Command, args []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if err := settingsService.Set(args[0], args[1]); err != nil {
		return fmt.Errorf("failed to set %s: %w", args[0], err)
	}
	value, err := settingsService.Value(args[0])
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", args[0], err)
	}
	cmd.Printf("%s = %s\n", args[0], value)
	return nil
}

func runSettingsKeys(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	for _, key := range settingsService.Keys() {
		cmd.Println(key)
	}
	return nil
}

func runSettingsPath(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	cmd.Println(settingsService.ConfigPath())
	return nil
}

func runSettingsWizard(cmd *cobra.Command, _ []string) error {
	if settingsService == nil {
		return errors.New("settings service not configured")
	}
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("the wizard needs an interactive terminal; use 'settings set'")
	}

	cmd.Println("proofcheck Settings Wizard")
	cmd.Println("==========================")
	cmd.Println("Press enter to keep the current value.")
	cmd.Println()

	reader := bufio.NewReader(os.Stdin)
	changed := 0
	for _, key := range settingsService.Keys() {
		current, err := settingsService.Value(key)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", key, err)
		}

		value := ""
		if opts := domain.SettingChoices(key); len(opts) > 0 {
			cmd.Printf("%s\n", key)
			def := 1
			for i, o := range opts {
				cmd.Printf("  %d. %s\n", i+1, o)
				if o == current {
					def = i + 1
				}
			}
			cmd.Printf("Enter choice [%d]: ", def)
			value = opts[parseChoice(readLine(reader), len(opts), def)-1]
		} else {
			cmd.Printf("%s [%s]: ", key, current)
			value = readLine(reader)
		}

		if value == "" || value == current {
			continue
		}
		if err := settingsService.Set(key, value); err != nil {
			cmd.Printf("  not saved: %v\n", err)
			continue
		}
		changed++
	}

	cmd.Println()
	cmd.Printf("Saved %d changes to %s\n", changed, settingsService.ConfigPath())
	return nil
}

// readLine returns the next trimmed line; EOF reads as empty.
func readLine(reader *bufio.Reader) string {
	input, _ := reader.ReadString('\n') //nolint:errcheck
	return strings.TrimSpace(input)
}

// parseChoice maps a 1-based menu answer to an index, keeping current
// when the answer is empty or out of range.
func parseChoice(input string, n, current int) int {
	val, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil || val < 1 || val > n {
		return current
	}
	return val
}
