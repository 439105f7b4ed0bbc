package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

var (
	compareROILeft     string
	compareROIRight    string
	compareRotateLeft  int
	compareRotateRight int
	compareSwap        bool
	compareWatch       bool
	compareJSON        bool
	compareReport      string
)

var compareCmd = &cobra.Command{
	Use:   "compare <left> <right>",
	Short: "Compare two documents page by page",
	Long: `Compares the expected (left) document against the control (right) document.

Each page pair is scored by the pixel difference detector, structural
similarity, colour histograms, keypoint matching and OCR text similarity.
A comparator that fails marks its signal unavailable; the run continues.

PDFs, images (PNG, JPEG, GIF, BMP, TIFF) and one-page rasters can be mixed.

Examples:
  proofcheck compare master.pdf print.pdf
  proofcheck compare master.pdf scan.png --rotate-right 90 --roi-right 40,40,1600,2300
  proofcheck compare master.pdf print.pdf --report ./report --json
  proofcheck compare master.pdf print.pdf --watch`,
	Args: cobra.ExactArgs(2),
	RunE: runCompare,
}

func init() {
	f := compareCmd.Flags()
	f.StringVar(&compareROILeft, "roi-left", "", "crop every left page to x,y,w,h pixels")
	f.StringVar(&compareROIRight, "roi-right", "", "crop every right page to x,y,w,h pixels")
	f.IntVar(&compareRotateLeft, "rotate-left", 0, "rotate left pages clockwise by 0, 90, 180 or 270 degrees")
	f.IntVar(&compareRotateRight, "rotate-right", 0, "rotate right pages clockwise by 0, 90, 180 or 270 degrees")
	f.BoolVar(&compareSwap, "swap", false, "exchange left and right")
	f.BoolVarP(&compareWatch, "watch", "w", false, "compare again whenever either file changes")
	f.BoolVar(&compareJSON, "json", false, "output the run as JSON")
	f.StringVar(&compareReport, "report", "", "export a report bundle to this directory")
	rootCmd.AddCommand(compareCmd)
}

func runCompare(cmd *cobra.Command, args []string) error {
	if compareService == nil {
		return errors.New("compare service not configured")
	}

	req, err := buildCompareRequest(args[0], args[1])
	if err != nil {
		return err
	}

	if compareWatch && fileWatcher == nil {
		return errors.New("watch mode not available")
	}

	if err := compareOnce(cmd, req); err != nil {
		if !compareWatch {
			return err
		}
		cmd.PrintErrln(err)
	}
	if !compareWatch {
		return nil
	}

	cmd.PrintErrln("Watching for changes. Press Ctrl+C to stop.")
	return fileWatcher.Watch(cmd.Context(), []string{req.Left.Path, req.Right.Path}, func(path string) {
		logger.Info("%s changed, comparing again", path)
		if err := compareOnce(cmd, req); err != nil {
			cmd.PrintErrln(err)
		}
	})
}

// buildCompareRequest turns the positional paths and flags into a request.
func buildCompareRequest(left, right string) (domain.CompareRequest, error) {
	roiLeft, err := domain.ParseROI(compareROILeft)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	roiRight, err := domain.ParseROI(compareROIRight)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	rotLeft, rotRight := domain.Rotation(compareRotateLeft), domain.Rotation(compareRotateRight)
	if !rotLeft.IsValid() || !rotRight.IsValid() {
		return domain.CompareRequest{}, fmt.Errorf("%w: rotation must be 0, 90, 180 or 270", domain.ErrInvalidInput)
	}

	req := domain.CompareRequest{
		Left:  domain.SideOptions{Path: left, ROI: roiLeft, Rotation: rotLeft},
		Right: domain.SideOptions{Path: right, ROI: roiRight, Rotation: rotRight},
	}
	if compareSwap {
		req = req.Swapped()
	}
	return req, nil
}

func compareOnce(cmd *cobra.Command, req domain.CompareRequest) error {
	errOut := cmd.ErrOrStderr()
	showProgress := !compareJSON && isTerminal(errOut)

	run, err := compareService.Compare(cmd.Context(), req, func(page, total int) {
		if showProgress {
			fmt.Fprintf(errOut, "\rComparing page %d/%d", page, total)
		}
	})
	if showProgress {
		fmt.Fprint(errOut, "\r\033[K")
	}
	if err != nil {
		return fmt.Errorf("compare failed: %w", err)
	}

	var files *domain.ReportFiles
	if compareReport != "" {
		files, err = compareService.ExportReport(cmd.Context(), run, compareReport)
		if err != nil {
			return fmt.Errorf("export report: %w", err)
		}
	}

	if compareJSON {
		return outputJSON(cmd, run)
	}
	outputCompareTable(cmd, run)
	if files != nil {
		cmd.Printf("\nReport written to %s (%d images)\n", files.Dir, len(files.Images))
		if files.PDF != "" {
			cmd.Printf("PDF: %s\n", files.PDF)
		}
	}
	return nil
}

func outputCompareTable(cmd *cobra.Command, run *domain.ComparisonRun) {
	cmd.Printf("%s  vs  %s\n\n", run.LeftPath, run.RightPath)

	for i := range run.Pages {
		p := &run.Pages[i]
		cmd.Printf("Page %d: %d differences, text %.1f%%", p.PageNumber, len(p.Regions), p.Text.Ratio*100)
		cmd.Printf(", SSIM %s", percent(p.Structural.Available, p.Structural.Score))
		cmd.Printf(", colour %s", percent(p.Color.Available, p.Color.Overall))
		cmd.Printf(", features %s", percent(p.Feature.Available, p.Feature.Score))
		cmd.Println()
		if p.Text.HasNote() {
			cmd.Printf("    note: %s\n", p.Text.Note)
		}
		if p.Degraded() {
			cmd.Printf("    failed: %s\n", p.Failure)
		}
	}
	if len(run.Skipped) > 0 {
		cmd.Printf("\nSkipped pages: %v\n", run.Skipped)
	}

	s := run.Summary
	cmd.Println()
	cmd.Printf("Pages compared: %d, skipped: %d, degraded: %d\n", s.PagesCompared, s.PagesSkipped, s.PagesFailed)
	cmd.Printf("Differences: %d\n", s.TotalRegions)
	cmd.Printf("Mean SSIM %.1f%%, text %.1f%%, colour %.1f%%, features %.1f%%\n",
		s.MeanSSIM*100, s.MeanText*100, s.MeanColor*100, s.MeanFeature*100)
}

func percent(ok bool, v float64) string {
	if !ok {
		return "n/a"
	}
	return fmt.Sprintf("%.1f%%", v*100)
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

// isTerminal returns true if w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
