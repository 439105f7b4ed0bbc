// Command proofcheck compares document proofs and locates leaflet terms.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/custodia-labs/proofcheck/cgo/fitz"
	"github.com/custodia-labs/proofcheck/cgo/opencv"
	gosseract "github.com/custodia-labs/proofcheck/cgo/tesseract"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/config/file"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/document"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/document/docx"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/document/plaintext"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/document/poppler"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/document/raster"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/exec"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/ocr/tesseract"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/report"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/ruletable"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/ruletable/csv"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/ruletable/xlsx"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/storage/sqlite"
	"github.com/custodia-labs/proofcheck/internal/adapters/driven/watch"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/cli"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/core/services"
	"github.com/custodia-labs/proofcheck/internal/locator"
	"github.com/custodia-labs/proofcheck/internal/logger"
	"github.com/custodia-labs/proofcheck/internal/ocr"
	"github.com/custodia-labs/proofcheck/internal/vision/features"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = ""

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log := logger.Default()

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("getting home directory: %w", err)
	}
	baseDir := filepath.Join(home, ".proofcheck")

	// Configuration
	var configStore driven.ConfigStore
	fileConfig, err := file.NewConfigStore(baseDir)
	if err != nil {
		log.Warn("config file unavailable, using in-memory settings: %v", err)
		configStore = memory.NewConfigStore()
	} else {
		configStore = fileConfig
	}
	settingsService := services.NewSettingsService(configStore)
	settings, err := settingsService.Get()
	if err != nil {
		return fmt.Errorf("loading settings: %w", err)
	}

	// History
	var runStore driven.RunStore
	store, err := sqlite.NewStore(filepath.Join(baseDir, "data"))
	if err != nil {
		log.Warn("history database unavailable, runs will not persist: %v", err)
		runStore = memory.NewRunStore()
	} else {
		defer store.Close()
		runStore = store.RunStore()
	}

	runner := exec.NewRunner()

	// OCR
	extractor := ocr.NewExtractor(ocrBackends(settings.OCR, runner), preprocessOptions(settings.OCR), log.Named("ocr"))
	defer extractor.Close()

	// Documents
	pdfText := poppler.New(runner)
	documents := document.NewRegistry(log.Named("documents"),
		fitz.New(pdfText),
		pdfText,
		raster.New(extractor),
		docx.New(),
		plaintext.New(),
	)

	// Features
	matcher := featureMatcher(settings.Features)

	// Locator
	phases := locator.NewRegistry()
	locator.RegisterDefaults(phases)
	pipeline, err := locator.Build(phases, settings.Locator, log.Named("locator"))
	if err != nil {
		return fmt.Errorf("building locator pipeline: %w", err)
	}

	xlsxReader, csvReader := xlsx.New(), csv.New()

	compareService := services.NewCompareService(documents, matcher, extractor, settingsService)
	compareService.SetRunStore(runStore)
	compareService.SetReportExporter(report.New(true, log.Named("report")))
	compareService.SetLogger(log.Named("compare"))

	locateService := services.NewLocateService(documents, pipeline, xlsxReader, csvReader)
	locateService.SetLockChecker(ruletable.NewLockChecker())
	locateService.SetRunStore(runStore)
	locateService.SetLogger(log.Named("locate"))

	capabilities := services.NewCapabilityService(
		[]services.CapabilitySource{documents, extractor},
		append(matcherStatuses(settings.Features), xlsxReader.Capability(), csvReader.Capability())...,
	)

	cli.SetVersion(version)
	cli.SetServices(cli.Services{
		Compare:      compareService,
		Locate:       locateService,
		History:      services.NewHistoryService(runStore),
		Settings:     settingsService,
		Capabilities: capabilities,
		Watcher:      watch.New(0, 0, log.Named("watch")),
	})

	return cli.ExecuteContext(ctx)
}

// ocrBackends builds the configured backends in fallback order.
// Unknown names are skipped with a warning.
func ocrBackends(cfg domain.OCRSettings, runner driven.CommandRunner) []driven.OCRBackend {
	var backends []driven.OCRBackend
	for _, name := range cfg.Backends {
		switch name {
		case gosseract.Name:
			backends = append(backends, gosseract.New(cfg.Languages, cfg.FallbackLanguage))
		case tesseract.Name:
			backends = append(backends, tesseract.New(runner, cfg.Languages, cfg.FallbackLanguage))
		default:
			logger.Warn("unknown OCR backend %q in ocr.backends", name)
		}
	}
	return backends
}

func preprocessOptions(cfg domain.OCRSettings) ocr.PreprocessOptions {
	opts := ocr.DefaultPreprocessOptions()
	opts.MinLongEdge = cfg.MinLongEdge
	return opts
}

// featureMatcher picks the ORB implementation. auto prefers OpenCV when
// it is compiled in.
func featureMatcher(cfg domain.FeatureSettings) driven.FeatureMatcher {
	switch cfg.Backend {
	case domain.FeatureBackendOpenCV:
		return opencv.New(cfg.MaxKeypoints, cfg.Ratio)
	case domain.FeatureBackendPure:
		return features.New(cfg.MaxKeypoints, cfg.Ratio)
	default:
		if opencv.Available() {
			return opencv.New(cfg.MaxKeypoints, cfg.Ratio)
		}
		return features.New(cfg.MaxKeypoints, cfg.Ratio)
	}
}

// matcherStatuses reports both matchers so doctor shows what auto can pick.
func matcherStatuses(cfg domain.FeatureSettings) []domain.CapabilityStatus {
	return []domain.CapabilityStatus{
		opencv.New(cfg.MaxKeypoints, cfg.Ratio).Capability(),
		features.New(cfg.MaxKeypoints, cfg.Ratio).Capability(),
	}
}
