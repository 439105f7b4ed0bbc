package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

var (
	locateResolve bool
	locateJSON    bool
)

var locateCmd = &cobra.Command{
	Use:   "locate <rules.xlsx|rules.csv> <document>",
	Short: "Find rule table terms in a document",
	Long: `Reads the rule table (reference in column A, hint in column B and
historical examples in column C) and searches the document for each rule.

Phases run in order: direct keyword, historical examples, hint text and
keyword scan. A rule found by an earlier phase is not searched again.

Both files are checked for locks first; close them in Excel or your PDF
viewer if the check fails.

Use --resolve to compute the highlight rectangle of every match.`,
	Args: cobra.ExactArgs(2),
	RunE: runLocate,
}

func init() {
	locateCmd.Flags().BoolVar(&locateResolve, "resolve", false, "resolve the rectangle of every match")
	locateCmd.Flags().BoolVar(&locateJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(locateCmd)
}

func runLocate(cmd *cobra.Command, args []string) error {
	if locateService == nil {
		return errors.New("locate service not configured")
	}

	req := driving.LocateRequest{RulePath: args[0], DocumentPath: args[1]}
	run, err := locateService.Locate(cmd.Context(), req, locateResolve)
	if err != nil {
		return fmt.Errorf("locate failed: %w", err)
	}

	if locateJSON {
		return outputJSON(cmd, run)
	}
	outputLocateTable(cmd, run)
	return nil
}

func outputLocateTable(cmd *cobra.Command, run *domain.LocateRun) {
	for i := range run.Rules {
		r := &run.Rules[i]
		if !r.Found {
			cmd.Printf("  %3d  %-40s  not found\n", r.RowIndex, domain.TruncateRunes(r.Reference, 40))
			continue
		}
		pages := make([]string, 0, len(r.Locations))
		for _, loc := range r.Locations {
			p := fmt.Sprintf("%d", loc.PageIndex+1)
			if rect, ok := loc.Resolved(); ok {
				p += fmt.Sprintf(" [%.0f,%.0f %.0fx%.0f]", rect.X0, rect.Y0, rect.Width(), rect.Height())
			}
			pages = append(pages, p)
		}
		cmd.Printf("  %3d  %-40s  %-15s page %s\n",
			r.RowIndex, domain.TruncateRunes(r.Reference, 40), r.Phase, strings.Join(pages, ", "))
	}

	cmd.Println()
	cmd.Printf("%d of %d rules found\n", run.FoundCount(), len(run.Rules))
	for _, phase := range domain.AllPhases() {
		if n := run.PhaseCounts()[phase]; n > 0 {
			cmd.Printf("  %s: %d\n", phase, n)
		}
	}
}
