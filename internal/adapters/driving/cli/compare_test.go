package cli

import (
	"errors"
	"image"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func resetCompareFlags() {
	compareROILeft, compareROIRight = "", ""
	compareRotateLeft, compareRotateRight = 0, 0
	compareSwap, compareWatch, compareJSON = false, false, false
	compareReport = ""
}

func TestCompareCmd_RequiresTwoArgs(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "compare", "a.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "accepts 2 arg(s)")
}

func TestCompareCmd_ServiceNotConfigured(t *testing.T) {
	SetServices(Services{})

	_, err := execute(t, "compare", "a.pdf", "b.pdf")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compare service not configured")
}

func TestCompareCmd_Table(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()

	out, err := execute(t, "compare", "a.pdf", "b.pdf")

	require.NoError(t, err)
	assert.Contains(t, out, "a.pdf  vs  b.pdf")
	assert.Contains(t, out, "Page 1: 1 differences, text 50.0%, SSIM 90.0%, colour n/a, features n/a")
	assert.Contains(t, out, "failed: features: no keypoints")
	assert.Contains(t, out, "Skipped pages: [2]")
	assert.Contains(t, out, "Pages compared: 1, skipped: 1, degraded: 1")
	require.Len(t, ts.compare.requests, 1)
	assert.Equal(t, "a.pdf", ts.compare.requests[0].Left.Path)
}

func TestCompareCmd_FlagsBuildRequest(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()

	_, err := execute(t, "compare", "a.pdf", "b.png",
		"--roi-right", "10,20,100,200", "--rotate-right", "90", "--swap")

	require.NoError(t, err)
	req := ts.compare.requests[0]
	assert.Equal(t, "b.png", req.Left.Path)
	assert.Equal(t, image.Rect(10, 20, 110, 220), req.Left.ROI)
	assert.Equal(t, domain.Rotate90, req.Left.Rotation)
	assert.Equal(t, "a.pdf", req.Right.Path)
	assert.False(t, req.Right.HasROI())
}

func TestCompareCmd_InvalidFlags(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()

	_, err := execute(t, "compare", "a.pdf", "b.pdf", "--rotate-left", "45")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	resetCompareFlags()
	_, err = execute(t, "compare", "a.pdf", "b.pdf", "--roi-left", "1,2,3")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCompareCmd_JSONAndReport(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()

	out, err := execute(t, "compare", "a.pdf", "b.pdf", "--json", "--report", "/tmp/out")

	require.NoError(t, err)
	assert.Equal(t, "/tmp/out", ts.compare.exportDir)
	assert.Contains(t, out, `"page_number": 1`)
	assert.Contains(t, out, `"ssim_result"`)
	assert.NotContains(t, out, "Report written")
}

func TestCompareCmd_ReportSummary(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()

	out, err := execute(t, "compare", "a.pdf", "b.pdf", "--report", "/tmp/out")

	require.NoError(t, err)
	assert.Contains(t, out, "Report written to /tmp/out (1 images)")
	assert.Contains(t, out, "PDF: /tmp/out/report.pdf")
}

func TestCompareCmd_Failure(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()
	ts.compare.err = domain.ErrFileLocked

	_, err := execute(t, "compare", "a.pdf", "b.pdf")

	assert.ErrorIs(t, err, domain.ErrFileLocked)
}

func TestCompareCmd_Watch(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()

	out, err := execute(t, "compare", "a.pdf", "b.pdf", "--watch")

	require.NoError(t, err)
	assert.Equal(t, []string{"a.pdf", "b.pdf"}, ts.watcher.paths)
	assert.Len(t, ts.compare.requests, 2)
	assert.Contains(t, out, "Watching for changes")
}

func TestCompareCmd_WatchKeepsGoingAfterFailure(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetCompareFlags()
	ts.compare.err = errors.New("render failed")

	out, err := execute(t, "compare", "a.pdf", "b.pdf", "--watch")

	require.NoError(t, err)
	assert.Len(t, ts.compare.requests, 2)
	assert.Contains(t, out, "render failed")
}

func TestCompareCmd_WatchUnavailable(t *testing.T) {
	SetServices(Services{Compare: &mockCompareService{}})
	defer SetServices(Services{})
	defer resetCompareFlags()

	_, err := execute(t, "compare", "a.pdf", "b.pdf", "--watch")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "watch mode not available")
}

func TestPercent(t *testing.T) {
	assert.Equal(t, "n/a", percent(false, 0.5))
	assert.Equal(t, "97.5%", percent(true, 0.975))
}
