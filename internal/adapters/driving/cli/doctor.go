package cli

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

var doctorJSON bool

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Show which optional backends are available",
	Long: `Lists the document, OCR, feature and rule table backends and whether
each one can be used in this build and on this machine.

Native backends (MuPDF, Tesseract, OpenCV) are only present in builds made
with the matching build tags.`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	doctorCmd.Flags().BoolVar(&doctorJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(doctorCmd)
}

func runDoctor(cmd *cobra.Command, _ []string) error {
	if capabilityService == nil {
		return errors.New("capability service not configured")
	}
	statuses := capabilityService.List()
	if doctorJSON {
		return outputJSON(cmd, statuses)
	}

	missing := 0
	kind := domain.CapabilityKind("")
	for _, st := range statuses {
		if st.Kind != kind {
			kind = st.Kind
			cmd.Printf("[%s]\n", kind)
		}
		mark := "ok"
		if !st.Available {
			mark = "--"
			missing++
		}
		cmd.Printf("  %s  %-18s %s\n", mark, st.Name, st.Detail)
		if !st.Available && st.Install != "" {
			cmd.Printf("        install: %s\n", st.Install)
		}
	}

	cmd.Println()
	if missing == 0 {
		cmd.Println("All backends available.")
	} else {
		cmd.Printf("%d backends unavailable. Signals that need them are reported as n/a.\n", missing)
	}
	return nil
}
