package services

import (
	"context"
	"errors"
	"image"
	"image/color"
	"sync"

	"github.com/disintegration/imaging"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
)

// --- Mock implementations shared by the service tests ---

// mockDocument implements driven.Document over in-memory pages.
type mockDocument struct {
	path       string
	images     []image.Image
	texts      []string
	words      map[int][]domain.PageWord
	renderErr  map[int]error
	wordsCalls int
	closed     bool
}

func (m *mockDocument) Info() domain.DocumentInfo {
	return domain.DocumentInfo{Path: m.path, PageCount: m.PageCount(), Renderable: m.images != nil, HasWords: m.words != nil}
}

func (m *mockDocument) PageCount() int {
	return max(len(m.images), len(m.texts))
}

func (m *mockDocument) RenderPage(_ context.Context, index, _ int) (image.Image, error) {
	if err := m.renderErr[index]; err != nil {
		return nil, err
	}
	if m.images == nil {
		return nil, domain.ErrNotImplemented
	}
	if index < 0 || index >= len(m.images) {
		return nil, domain.ErrPageOutOfRange
	}
	return m.images[index], nil
}

func (m *mockDocument) PageText(_ context.Context, index int) (string, error) {
	if index < 0 || index >= len(m.texts) {
		return "", domain.ErrPageOutOfRange
	}
	return m.texts[index], nil
}

func (m *mockDocument) PageWords(_ context.Context, index int) ([]domain.PageWord, error) {
	m.wordsCalls++
	if m.words == nil {
		return nil, domain.ErrNotImplemented
	}
	return m.words[index], nil
}

func (m *mockDocument) Close() error {
	m.closed = true
	return nil
}

// mockRegistry implements driven.DocumentRegistry with fixed documents.
type mockRegistry struct {
	docs    map[string]*mockDocument
	openErr error
}

func (m *mockRegistry) Open(_ context.Context, path string) (driven.Document, error) {
	if m.openErr != nil {
		return nil, m.openErr
	}
	doc, ok := m.docs[path]
	if !ok {
		return nil, domain.ErrDocumentLoad
	}
	return doc, nil
}

func (m *mockRegistry) Register(_ driven.DocumentOpener) {}

func (m *mockRegistry) Capabilities() []domain.CapabilityStatus {
	return []domain.CapabilityStatus{{Name: "mock", Kind: domain.CapabilityDocument, Available: true}}
}

// mockMatcher implements driven.FeatureMatcher.
type mockMatcher struct {
	result domain.FeatureResult
	err    error
	panics bool
}

func (m *mockMatcher) Name() string { return "mock" }

func (m *mockMatcher) Match(_ context.Context, _, _ image.Image) (domain.FeatureResult, error) {
	if m.panics {
		panic("matcher exploded")
	}
	return m.result, m.err
}

func (m *mockMatcher) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{Name: "mock", Kind: domain.CapabilityFeatures, Available: true}
}

// mockExtractor implements driven.TextExtractor, returning texts in call order.
type mockExtractor struct {
	mu    sync.Mutex
	texts []domain.OptionalText
	calls int
}

func (m *mockExtractor) Extract(_ context.Context, _ image.Image) domain.OptionalText {
	m.mu.Lock()
	defer m.mu.Unlock()
	defer func() { m.calls++ }()
	if m.calls < len(m.texts) {
		return m.texts[m.calls]
	}
	return domain.NoText()
}

// mockRunStore implements driven.RunStore and records saves.
type mockRunStore struct {
	saved   []domain.RunRecord
	saveErr error
}

func (m *mockRunStore) Save(_ context.Context, run *domain.RunRecord) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.saved = append(m.saved, *run)
	return nil
}

func (m *mockRunStore) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	for i := range m.saved {
		if m.saved[i].ID == id {
			return &m.saved[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockRunStore) List(_ context.Context, _ domain.RunKind, _ int) ([]domain.RunRecord, error) {
	return m.saved, nil
}

func (m *mockRunStore) Delete(_ context.Context, _ string) error {
	return nil
}

// mockExporter implements driven.ReportExporter.
type mockExporter struct {
	dir string
}

func (m *mockExporter) Export(_ context.Context, _ *domain.ComparisonRun, dir string) (*domain.ReportFiles, error) {
	m.dir = dir
	return &domain.ReportFiles{Dir: dir}, nil
}

// mockReader implements driven.RuleTableReader.
type mockReader struct {
	rules []domain.Rule
	err   error
}

func (m *mockReader) SupportedExtensions() []string { return []string{".xlsx"} }

func (m *mockReader) Read(_ context.Context, _ string) ([]domain.Rule, error) {
	if m.err != nil {
		return nil, m.err
	}
	out := make([]domain.Rule, len(m.rules))
	copy(out, m.rules)
	return out, nil
}

// mockLocks implements driven.LockChecker.
type mockLocks struct {
	locked map[string]bool
}

func (m *mockLocks) Check(path string) error {
	if m.locked[path] {
		return errors.Join(domain.ErrFileLocked, errors.New(path))
	}
	return nil
}

// page returns a white page with a black block at x.
func page(w, h, x int) image.Image {
	img := imaging.New(w, h, color.White)
	for yy := 10; yy < 20 && yy < h; yy++ {
		for xx := x; xx < x+10 && xx < w; xx++ {
			img.Set(xx, yy, color.Black)
		}
	}
	return img
}
