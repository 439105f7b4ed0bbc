package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

var (
	historyKind  string
	historyLimit int
	historyJSON  bool
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List and inspect past runs",
	RunE:  runHistoryList,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List past runs, newest first",
	RunE:  runHistoryList,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a past run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a past run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryDelete,
}

func init() {
	for _, c := range []*cobra.Command{historyCmd, historyListCmd} {
		c.Flags().StringVar(&historyKind, "kind", "", "only list compare or locate runs")
		c.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum number of runs")
	}
	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "output as JSON")
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)
	rootCmd.AddCommand(historyCmd)
}

func runHistoryList(cmd *cobra.Command, _ []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	kind := domain.RunKind(historyKind)
	if kind != "" && !kind.IsValid() {
		return fmt.Errorf("%w: kind must be compare or locate", domain.ErrInvalidInput)
	}

	records, err := historyService.List(cmd.Context(), kind, historyLimit)
	if err != nil {
		return fmt.Errorf("list runs: %w", err)
	}
	if historyJSON {
		return outputJSON(cmd, records)
	}
	if len(records) == 0 {
		cmd.Println("No runs recorded.")
		return nil
	}
	for i := range records {
		r := &records[i]
		cmd.Printf("%s  %s  %-7s  %s\n", r.ID, r.StartedAt.Format("2006-01-02 15:04"), r.Kind, r.Summary)
	}
	return nil
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	rec, err := historyService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("get run: %w", err)
	}
	if historyJSON {
		return outputJSON(cmd, rec)
	}

	cmd.Printf("%s run %s\n", rec.Kind, rec.ID)
	cmd.Printf("Started:  %s\n", rec.StartedAt.Format("2006-01-02 15:04:05"))
	cmd.Printf("Duration: %s\n", rec.Duration().Round(time.Millisecond))
	if rec.Kind == domain.RunKindLocate {
		cmd.Printf("Rules:    %s\nDocument: %s\n", rec.Left, rec.Right)
	} else {
		cmd.Printf("Left:     %s\nRight:    %s\n", rec.Left, rec.Right)
	}
	cmd.Printf("Summary:  %s\n\n", rec.Summary)

	for _, p := range rec.Pages {
		cmd.Printf("Page %d: %d differences, text %.1f%%, SSIM %s, colour %s, features %s\n",
			p.PageNumber, p.Regions, p.TextRatio*100,
			percent(p.SSIMValid, p.SSIM), percent(p.ColorValid, p.Color), percent(p.FeatureOK, p.Feature))
		if p.Failure != "" {
			cmd.Printf("    failed: %s\n", p.Failure)
		}
	}
	for _, r := range rec.Rules {
		if r.Found {
			cmd.Printf("  %3d  %s: %s on page %d\n", r.RowIndex, r.Reference, r.Phase, r.PageIndex+1)
		} else {
			cmd.Printf("  %3d  %s: not found\n", r.RowIndex, r.Reference)
		}
	}
	return nil
}

func runHistoryDelete(cmd *cobra.Command, args []string) error {
	if historyService == nil {
		return errors.New("history service not configured")
	}
	if err := historyService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	cmd.Printf("Deleted run %s\n", args[0])
	return nil
}
