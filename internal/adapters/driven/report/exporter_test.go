package report

import (
	"bytes"
	"context"
	"image/color"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/logger"
	"github.com/custodia-labs/proofcheck/internal/textsim"
)

func sampleRun(t *testing.T) *domain.ComparisonRun {
	t.Helper()
	text := textsim.Compare(domain.SomeText("Etkin madde\n500 mg"), domain.SomeText("Etkin madde\n250 mg"))

	run := &domain.ComparisonRun{
		ID:        "run-1",
		LeftPath:  "control.pdf",
		RightPath: "proof.pdf",
		StartedAt: time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC),
		Pages: []domain.PageComparison{
			{
				PageNumber: 1,
				Overlay:    imaging.New(40, 30, color.White),
				Regions:    []domain.DifferenceRegion{{Label: 1, X: 2, Y: 2, Width: 5, Height: 5}},
				Text:       text,
				Structural: domain.StructuralResult{Available: true, Score: 0.9, DiffImage: imaging.New(40, 30, color.Black)},
				Color:      domain.ColorResult{Available: true, Overall: 1},
				Feature:    domain.FeatureResult{Unavailable: "disabled"},
			},
			{
				PageNumber: 2,
				Text:       textsim.Compare(domain.NoText(), domain.NoText()),
				Failure:    "render right: boom",
			},
		},
		Skipped: []int{3},
	}
	run.Summary = run.Summarise()
	return run
}

func TestSummaryLines(t *testing.T) {
	lines := SummaryLines(sampleRun(t))
	joined := bytes.NewBufferString("")
	for _, l := range lines {
		joined.WriteString(l + "\n")
	}
	out := joined.String()

	assert.Contains(t, out, "Left:  control.pdf")
	assert.Contains(t, out, "Pages compared: 2")
	assert.Contains(t, out, "Skipped pages:  3")
	assert.Contains(t, out, "Page 1: 1 differences, SSIM 90.0%, color 100.0%, features n/a")
	assert.Contains(t, out, "-500 mg")
	assert.Contains(t, out, "+250 mg")
	assert.Contains(t, out, "failed: render right: boom")
	assert.Contains(t, out, "note: ")
}

func TestSummaryLines_DiffLimit(t *testing.T) {
	var left, right bytes.Buffer
	for i := 0; i < 30; i++ {
		left.WriteString("left line\n")
		right.WriteString("right line\n")
	}
	run := &domain.ComparisonRun{Pages: []domain.PageComparison{{
		PageNumber: 1,
		Text:       textsim.Compare(domain.SomeText(left.String()), domain.SomeText(right.String())),
	}}}

	diffs := 0
	for _, l := range SummaryLines(run) {
		if len(l) > 3 && (l[:3] == "  +" || l[:3] == "  -") {
			diffs++
		}
	}
	assert.Equal(t, maxDiffLines, diffs)
}

func TestExport_WithoutPDF(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")

	files, err := New(false, logger.Nop()).Export(context.Background(), sampleRun(t), dir)
	require.NoError(t, err)

	assert.Equal(t, dir, files.Dir)
	assert.FileExists(t, files.Summary)
	assert.Empty(t, files.PDF)
	assert.Equal(t, []string{
		filepath.Join(dir, "page-001-overlay.png"),
		filepath.Join(dir, "page-001-ssim.png"),
	}, files.Images)
	for _, f := range files.Images {
		assert.FileExists(t, f)
	}
}

func TestExport_PDF(t *testing.T) {
	dir := t.TempDir()

	files, err := New(true, logger.Nop()).Export(context.Background(), sampleRun(t), dir)
	require.NoError(t, err)
	require.NotEmpty(t, files.PDF)

	data, err := os.ReadFile(files.PDF)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("%PDF")))
	assert.NoFileExists(t, filepath.Join(dir, "summary.png"))
}

func TestExport_Errors(t *testing.T) {
	_, err := New(false, nil).Export(context.Background(), nil, t.TempDir())
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = New(false, nil).Export(ctx, sampleRun(t), t.TempDir())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriteSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteSummary(&buf, sampleRun(t)))
	assert.Contains(t, buf.String(), "Comparison report\n")
}
