package services

import (
	"context"
	"fmt"
	"image"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
	"github.com/custodia-labs/proofcheck/internal/logger"
	"github.com/custodia-labs/proofcheck/internal/textsim"
	"github.com/custodia-labs/proofcheck/internal/vision"
)

// Ensure CompareService implements the interface.
var _ driving.CompareService = (*CompareService)(nil)

const signalDisabled = "disabled"

// CompareService runs every comparator over each page pair of two documents.
type CompareService struct {
	documents driven.DocumentRegistry
	matcher   driven.FeatureMatcher
	extractor driven.TextExtractor
	settings  driving.SettingsService
	runStore  driven.RunStore
	exporter  driven.ReportExporter
	log       *logger.Logger
	now       func() time.Time
}

// NewCompareService creates a new compare service.
// The matcher, extractor and settings parameters are optional (can be nil).
// Without settings the defaults are used.
func NewCompareService(
	documents driven.DocumentRegistry,
	matcher driven.FeatureMatcher,
	extractor driven.TextExtractor,
	settings driving.SettingsService,
) *CompareService {
	return &CompareService{
		documents: documents,
		matcher:   matcher,
		extractor: extractor,
		settings:  settings,
		now:       time.Now,
	}
}

// SetRunStore sets the store that completed runs are saved to.
func (s *CompareService) SetRunStore(store driven.RunStore) {
	s.runStore = store
}

// SetReportExporter sets the exporter used by ExportReport.
func (s *CompareService) SetReportExporter(exporter driven.ReportExporter) {
	s.exporter = exporter
}

// SetLogger sets the logger. A nil logger writes to the default logger.
func (s *CompareService) SetLogger(log *logger.Logger) {
	s.log = log
}

// Compare renders both documents page by page and runs every enabled
// comparator on each pair. A comparator that fails marks its signal
// unavailable and the page as degraded; the run continues.
func (s *CompareService) Compare(
	ctx context.Context, req domain.CompareRequest, progress driving.ProgressFunc,
) (*domain.ComparisonRun, error) {
	if err := validateRequest(req); err != nil {
		return nil, err
	}
	cfg, err := loadSettings(s.settings)
	if err != nil {
		return nil, err
	}

	s.log.Section("Compare")
	s.log.Debug("Left: %s (rotate %d, roi %v)", req.Left.Path, req.Left.Rotation, req.Left.ROI)
	s.log.Debug("Right: %s (rotate %d, roi %v)", req.Right.Path, req.Right.Rotation, req.Right.ROI)

	left, err := s.documents.Open(ctx, req.Left.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", req.Left.Path, err)
	}
	defer left.Close()

	right, err := s.documents.Open(ctx, req.Right.Path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", req.Right.Path, err)
	}
	defer right.Close()

	run := &domain.ComparisonRun{
		ID:        uuid.New().String(),
		LeftPath:  req.Left.Path,
		RightPath: req.Right.Path,
		StartedAt: s.now(),
	}

	nL, nR := left.PageCount(), right.PageCount()
	total := max(nL, nR)
	s.log.Debug("Pages: left=%d right=%d policy=%s", nL, nR, cfg.Compare.PageMismatch)

	compared := 0
	for i := 0; i < total; i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		pageNum := i + 1
		page, outcome := s.pagePair(ctx, left, right, i, req, cfg)
		switch outcome {
		case pageSkipped:
			s.log.Debug("Page %d: missing on one side, skipped", pageNum)
			run.Skipped = append(run.Skipped, pageNum)
		case pageUnrendered:
			run.Pages = append(run.Pages, page)
		case pageCompared:
			run.Pages = append(run.Pages, page)
			compared++
		}

		if progress != nil {
			progress(pageNum, total)
		}
	}

	run.FinishedAt = s.now()
	if compared == 0 {
		return nil, fmt.Errorf("%w: %d pages, %d skipped", domain.ErrNoPagesCompared, total, len(run.Skipped))
	}
	run.Summary = run.Summarise()
	s.log.Info("Compared %d pages, %d skipped, %d degraded, %d differences",
		run.Summary.PagesCompared, run.Summary.PagesSkipped, run.Summary.PagesFailed, run.Summary.TotalRegions)

	if s.runStore != nil {
		rec := domain.RecordFromComparison(run)
		if err := s.runStore.Save(ctx, &rec); err != nil {
			s.log.Warn("Failed to save run %s: %v", run.ID, err)
		}
	}

	return run, nil
}

type pageOutcome int

const (
	pageCompared pageOutcome = iota
	pageSkipped
	pageUnrendered
)

// pagePair renders one page index from both documents and compares it.
func (s *CompareService) pagePair(
	ctx context.Context, left, right driven.Document, index int, req domain.CompareRequest, cfg domain.Settings,
) (domain.PageComparison, pageOutcome) {
	pageNum := index + 1
	hasLeft := index < left.PageCount()
	hasRight := index < right.PageCount()
	if (!hasLeft || !hasRight) && cfg.Compare.PageMismatch == domain.PageMismatchSkip {
		return domain.PageComparison{}, pageSkipped
	}

	var limg, rimg image.Image
	var renderErrs []string
	if hasLeft {
		img, err := renderSide(ctx, left, index, req.Left, cfg.Render.DPI)
		if err != nil {
			renderErrs = append(renderErrs, "render left: "+err.Error())
		}
		limg = img
	}
	if hasRight {
		img, err := renderSide(ctx, right, index, req.Right, cfg.Render.DPI)
		if err != nil {
			renderErrs = append(renderErrs, "render right: "+err.Error())
		}
		rimg = img
	}
	if len(renderErrs) > 0 {
		s.log.Warn("Page %d: %s", pageNum, strings.Join(renderErrs, "; "))
		return failedPage(pageNum, strings.Join(renderErrs, "; ")), pageUnrendered
	}

	// Blank policy: stand in a white page the size of the other side.
	if limg == nil {
		limg = vision.Blank(rimg)
	}
	if rimg == nil {
		rimg = vision.Blank(limg)
	}

	return s.comparePage(ctx, pageNum, limg, rimg, cfg), pageCompared
}

// comparePage runs each enabled comparator under its own guard.
func (s *CompareService) comparePage(
	ctx context.Context, pageNum int, left, right image.Image, cfg domain.Settings,
) domain.PageComparison {
	page := domain.PageComparison{PageNumber: pageNum}
	var failures []string
	guard := func(name string, fn func() error) error {
		err := safely(fn)
		if err != nil {
			s.log.Warn("Page %d: %s failed: %v", pageNum, name, err)
			failures = append(failures, fmt.Sprintf("%s: %v", name, err))
		}
		return err
	}

	var lc, rc image.Image
	if cfg.Compare.SignalEnabled(domain.SignalDiff) {
		_ = guard("diff", func() error {
			res, err := vision.DetectDifferences(left, right, vision.DiffOptions{
				Threshold: cfg.Diff.Threshold,
				MinArea:   cfg.Diff.MinArea,
			})
			if err != nil {
				return err
			}
			page.Overlay = res.Overlay
			page.Regions = res.Regions
			page.NormalizedLeft, page.NormalizedRight = res.NormalizedLeft, res.NormalizedRight
			lc, rc = res.NormalizedLeft, res.NormalizedRight
			return nil
		})
	}
	if lc == nil {
		_ = guard("normalize", func() error {
			l, r := vision.NormalizedCanvases(left, right)
			page.NormalizedLeft, page.NormalizedRight = l, r
			lc, rc = l, r
			return nil
		})
	}
	s.log.Debug("Page %d: %d regions", pageNum, len(page.Regions))

	switch {
	case !cfg.Compare.SignalEnabled(domain.SignalSSIM):
		page.Structural.Unavailable = signalDisabled
	case lc == nil:
		page.Structural.Unavailable = "no normalised canvases"
	default:
		if err := guard("ssim", func() error {
			res, err := vision.SSIM(lc, rc)
			if err != nil {
				return err
			}
			page.Structural = domain.StructuralResult{Available: true, Score: res.Score, DiffImage: res.DiffMap}
			return nil
		}); err != nil {
			page.Structural.Unavailable = err.Error()
		}
	}

	if !cfg.Compare.SignalEnabled(domain.SignalColor) {
		page.Color.Unavailable = signalDisabled
	} else if err := guard("color", func() error {
		res, err := vision.CompareColors(left, right)
		if err != nil {
			return err
		}
		page.Color = domain.ColorResult{Available: true, Overall: res.Overall, Channels: res.Channels}
		return nil
	}); err != nil {
		page.Color.Unavailable = err.Error()
	}

	switch {
	case !cfg.Compare.SignalEnabled(domain.SignalFeatures):
		page.Feature.Unavailable = signalDisabled
	case s.matcher == nil:
		page.Feature.Unavailable = domain.ErrCapabilityUnavailable.Error()
	default:
		if err := guard("features", func() error {
			res, err := s.matcher.Match(ctx, left, right)
			if err != nil {
				return err
			}
			page.Feature = res
			return nil
		}); err != nil {
			page.Feature = domain.FeatureResult{Unavailable: err.Error()}
		}
	}

	switch {
	case !cfg.Compare.SignalEnabled(domain.SignalText):
		page.Text.Note = "text comparison " + signalDisabled
	default:
		if err := guard("text", func() error {
			lt, rt := domain.NoText(), domain.NoText()
			if s.extractor != nil {
				lt = s.extractor.Extract(ctx, left)
				rt = s.extractor.Extract(ctx, right)
			}
			page.Text = textsim.Compare(lt, rt)
			return nil
		}); err != nil {
			page.Text = domain.TextComparison{Note: err.Error()}
		}
	}
	s.log.Debug("Page %d: ssim=%.4f color=%.4f features=%.4f text=%.4f",
		pageNum, page.Structural.Score, page.Color.Overall, page.Feature.Score, page.Text.Ratio)

	page.Failure = strings.Join(failures, "; ")
	return page
}

// ExportReport writes the run to dir, or to report.dir when dir is empty.
func (s *CompareService) ExportReport(
	ctx context.Context, run *domain.ComparisonRun, dir string,
) (*domain.ReportFiles, error) {
	if run == nil {
		return nil, fmt.Errorf("%w: nil run", domain.ErrInvalidInput)
	}
	if s.exporter == nil {
		return nil, fmt.Errorf("%w: no report exporter configured", domain.ErrCapabilityUnavailable)
	}
	if dir == "" {
		cfg, err := loadSettings(s.settings)
		if err != nil {
			return nil, err
		}
		dir = cfg.Report.Dir
	}
	s.log.Debug("Exporting run %s to %s", run.ID, dir)
	return s.exporter.Export(ctx, run, dir)
}

func validateRequest(req domain.CompareRequest) error {
	for _, side := range []struct {
		name string
		opts domain.SideOptions
	}{{"left", req.Left}, {"right", req.Right}} {
		switch {
		case strings.TrimSpace(side.opts.Path) == "":
			return fmt.Errorf("%w: %s document path is required", domain.ErrInvalidInput, side.name)
		case !side.opts.Rotation.IsValid():
			return fmt.Errorf("%w: %s rotation %d is not a multiple of 90", domain.ErrInvalidInput, side.name, side.opts.Rotation)
		case side.opts.HasROI() && (side.opts.ROI.Min.X < 0 || side.opts.ROI.Min.Y < 0):
			return fmt.Errorf("%w: %s region %v has negative origin", domain.ErrInvalidInput, side.name, side.opts.ROI)
		}
	}
	return nil
}

// renderSide rasterises a page, rotates it, then applies the crop.
func renderSide(ctx context.Context, doc driven.Document, index int, opts domain.SideOptions, dpi int) (image.Image, error) {
	img, err := doc.RenderPage(ctx, index, dpi)
	if err != nil {
		return nil, err
	}
	if img, err = vision.Rotate(img, opts.Rotation); err != nil {
		return nil, err
	}
	if opts.HasROI() {
		return vision.Crop(img, opts.ROI)
	}
	return img, nil
}

func failedPage(pageNum int, reason string) domain.PageComparison {
	return domain.PageComparison{
		PageNumber: pageNum,
		Text:       domain.TextComparison{Note: reason},
		Structural: domain.StructuralResult{Unavailable: reason},
		Color:      domain.ColorResult{Unavailable: reason},
		Feature:    domain.FeatureResult{Unavailable: reason},
		Failure:    reason,
	}
}

// safely runs fn and turns a panic into an error.
func safely(fn func() error) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("panic: %v", r)
		}
	}()
	return fn()
}

func loadSettings(svc driving.SettingsService) (domain.Settings, error) {
	if svc == nil {
		return domain.DefaultSettings(), nil
	}
	cfg, err := svc.Get()
	if err != nil {
		return domain.Settings{}, fmt.Errorf("load settings: %w", err)
	}
	return *cfg, nil
}
