// Package report writes a comparison run to a directory: a text
// summary, PNG images per page and a PDF bundling a summary page with
// the overlays.
package report

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/disintegration/imaging"
	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/logger"
	"github.com/custodia-labs/proofcheck/internal/textsim"
	"github.com/custodia-labs/proofcheck/internal/vision"
)

// Ensure Exporter implements the interface.
var _ driven.ReportExporter = (*Exporter)(nil)

// File names inside the report directory.
const (
	SummaryFile = "summary.txt"
	PDFFile     = "report.pdf"
)

const (
	// maxDiffLines is the number of text diff lines listed per page.
	maxDiffLines = 10
	diffWidth    = 100

	// summary page geometry, A4 at 150 dpi
	pageWidth  = 1240
	pageHeight = 1754
	margin     = 60
	lineHeight = 16
)

// Exporter writes report directories.
type Exporter struct {
	pdf bool
	log *logger.Logger
}

// New creates an exporter. When pdf is false only the summary and
// images are written.
func New(pdf bool, log *logger.Logger) *Exporter {
	return &Exporter{pdf: pdf, log: log}
}

// Export writes run into dir, creating it when needed.
func (e *Exporter) Export(ctx context.Context, run *domain.ComparisonRun, dir string) (*domain.ReportFiles, error) {
	if run == nil {
		return nil, fmt.Errorf("%w: no run to export", domain.ErrInvalidInput)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create report directory: %w", err)
	}

	files := &domain.ReportFiles{Dir: dir, Summary: filepath.Join(dir, SummaryFile)}
	lines := SummaryLines(run)
	if err := os.WriteFile(files.Summary, []byte(strings.Join(lines, "\n")+"\n"), 0o644); err != nil {
		return nil, fmt.Errorf("write summary: %w", err)
	}

	var overlays []string
	for i := range run.Pages {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		p := &run.Pages[i]
		for _, img := range pageImages(p) {
			path := filepath.Join(dir, fmt.Sprintf("page-%03d-%s.png", p.PageNumber, img.kind))
			if err := imaging.Save(img.img, path); err != nil {
				return nil, fmt.Errorf("write page %d %s: %w", p.PageNumber, img.kind, err)
			}
			files.Images = append(files.Images, path)
			if img.kind == kindOverlay {
				overlays = append(overlays, path)
			}
		}
	}
	e.log.Debug("report: wrote %d images to %s", len(files.Images), dir)

	if !e.pdf {
		return files, nil
	}
	pdfPath, err := e.writePDF(dir, lines, overlays)
	if err != nil {
		e.log.Warn("report: pdf not written: %v", err)
		return files, nil
	}
	files.PDF = pdfPath
	return files, nil
}

const (
	kindOverlay = "overlay"
	kindSSIM    = "ssim"
	kindMatches = "matches"
)

type pageImage struct {
	kind string
	img  image.Image
}

func pageImages(p *domain.PageComparison) []pageImage {
	var out []pageImage
	if p.Overlay != nil {
		out = append(out, pageImage{kindOverlay, p.Overlay})
	}
	if p.Structural.DiffImage != nil {
		out = append(out, pageImage{kindSSIM, p.Structural.DiffImage})
	}
	if p.Feature.Visualization != nil {
		out = append(out, pageImage{kindMatches, p.Feature.Visualization})
	}
	return out
}

// writePDF renders the summary onto an image page and imports it with
// every overlay into one PDF.
func (e *Exporter) writePDF(dir string, lines, overlays []string) (string, error) {
	summaryPage := filepath.Join(dir, "summary.png")
	if err := imaging.Save(renderLines(lines), summaryPage); err != nil {
		return "", err
	}
	defer os.Remove(summaryPage)

	out := filepath.Join(dir, PDFFile)
	os.Remove(out)

	imgs := append([]string{summaryPage}, overlays...)
	if err := api.ImportImagesFile(imgs, out, pdfcpu.DefaultImportConfig(), model.NewDefaultConfiguration()); err != nil {
		return "", err
	}
	return out, nil
}

func renderLines(lines []string) *image.NRGBA {
	img := imaging.New(pageWidth, pageHeight, color.White)
	y := margin
	for _, l := range lines {
		if y > pageHeight-margin {
			vision.DrawText(img, image.Pt(margin, y), "...", color.Black)
			break
		}
		vision.DrawText(img, image.Pt(margin, y), l, color.Black)
		y += lineHeight
	}
	return img
}

// SummaryLines formats the run as the text summary: global counts
// followed by one block per page.
func SummaryLines(run *domain.ComparisonRun) []string {
	s := run.Summary
	lines := []string{
		"Comparison report",
		"Left:  " + run.LeftPath,
		"Right: " + run.RightPath,
		"Date:  " + run.StartedAt.Format("2006-01-02 15:04:05"),
		"",
		fmt.Sprintf("Pages compared: %d", s.PagesCompared),
		fmt.Sprintf("Pages skipped:  %d", s.PagesSkipped),
		fmt.Sprintf("Pages degraded: %d", s.PagesFailed),
		fmt.Sprintf("Differences:    %d", s.TotalRegions),
		fmt.Sprintf("Mean SSIM:      %s", percent(s.MeanSSIM)),
		fmt.Sprintf("Mean color:     %s", percent(s.MeanColor)),
		fmt.Sprintf("Mean features:  %s", percent(s.MeanFeature)),
		fmt.Sprintf("Mean text:      %s", percent(s.MeanText)),
	}
	if len(run.Skipped) > 0 {
		lines = append(lines, fmt.Sprintf("Skipped pages:  %s", joinInts(run.Skipped)))
	}

	for i := range run.Pages {
		lines = append(lines, "", pageLine(&run.Pages[i]))
		p := &run.Pages[i]
		if p.Text.Note != "" {
			lines = append(lines, "  note: "+p.Text.Note)
		}
		if p.Failure != "" {
			lines = append(lines, "  failed: "+p.Failure)
		}
		for _, d := range textsim.DiffLines(p.Text.UnifiedDiff, maxDiffLines, diffWidth) {
			lines = append(lines, "  "+d)
		}
	}
	return lines
}

func pageLine(p *domain.PageComparison) string {
	return fmt.Sprintf("Page %d: %d differences, SSIM %s, color %s, features %s, text %s",
		p.PageNumber, len(p.Regions),
		signal(p.Structural.Available, p.Structural.Score),
		signal(p.Color.Available, p.Color.Overall),
		signal(p.Feature.Available, p.Feature.Score),
		percent(p.Text.Ratio))
}

func signal(ok bool, v float64) string {
	if !ok {
		return "n/a"
	}
	return percent(v)
}

func percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

func joinInts(v []int) string {
	parts := make([]string, len(v))
	for i, n := range v {
		parts[i] = fmt.Sprint(n)
	}
	return strings.Join(parts, ", ")
}

// WriteSummary writes the text summary of run to w.
func WriteSummary(w io.Writer, run *domain.ComparisonRun) error {
	for _, l := range SummaryLines(run) {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}
