package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
	"github.com/custodia-labs/proofcheck/internal/locator/resolve"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

// Ensure LocateService implements the interface.
var _ driving.LocateService = (*LocateService)(nil)

// LocateService reads a rule table and finds each rule in a document.
type LocateService struct {
	documents driven.DocumentRegistry
	pipeline  driven.LocatorPipeline
	readers   []driven.RuleTableReader
	locks     driven.LockChecker
	runStore  driven.RunStore
	log       *logger.Logger
	now       func() time.Time
}

// NewLocateService creates a new locate service.
func NewLocateService(
	documents driven.DocumentRegistry,
	pipeline driven.LocatorPipeline,
	readers ...driven.RuleTableReader,
) *LocateService {
	return &LocateService{
		documents: documents,
		pipeline:  pipeline,
		readers:   readers,
		now:       time.Now,
	}
}

// SetLockChecker enables the open-in-another-program check that runs
// before any file is read.
func (s *LocateService) SetLockChecker(locks driven.LockChecker) {
	s.locks = locks
}

// SetRunStore sets the store that completed runs are saved to.
func (s *LocateService) SetRunStore(store driven.RunStore) {
	s.runStore = store
}

// SetLogger sets the logger. A nil logger writes to the default logger.
func (s *LocateService) SetLogger(log *logger.Logger) {
	s.log = log
}

// Start runs every locator phase and returns a session that keeps the
// document open so rectangles can be resolved on demand.
func (s *LocateService) Start(ctx context.Context, req driving.LocateRequest) (driving.LocateSession, error) {
	return s.start(ctx, req)
}

// Locate runs the locator, optionally resolves every rectangle, and
// closes the document.
func (s *LocateService) Locate(ctx context.Context, req driving.LocateRequest, resolveAll bool) (*domain.LocateRun, error) {
	sess, err := s.start(ctx, req)
	if err != nil {
		return nil, err
	}
	defer sess.Close()

	if resolveAll {
		for _, rule := range sess.run.Rules {
			for i := range rule.Locations {
				if _, err := sess.Resolve(ctx, rule.RowIndex, i); err != nil {
					return nil, err
				}
			}
		}
	}
	return sess.Run(), nil
}

func (s *LocateService) start(ctx context.Context, req driving.LocateRequest) (*locateSession, error) {
	if strings.TrimSpace(req.RulePath) == "" || strings.TrimSpace(req.DocumentPath) == "" {
		return nil, fmt.Errorf("%w: rule table and document paths are required", domain.ErrInvalidInput)
	}
	if s.pipeline == nil {
		return nil, fmt.Errorf("%w: no locator pipeline configured", domain.ErrCapabilityUnavailable)
	}

	s.log.Section("Locate")
	s.log.Debug("Rules: %s", req.RulePath)
	s.log.Debug("Document: %s", req.DocumentPath)

	// Both files are checked before any work so the user can close them.
	if s.locks != nil {
		for _, path := range []string{req.RulePath, req.DocumentPath} {
			if err := s.locks.Check(path); err != nil {
				return nil, err
			}
		}
	}

	reader, err := s.readerFor(req.RulePath)
	if err != nil {
		return nil, err
	}
	rules, err := reader.Read(ctx, req.RulePath)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", req.RulePath, err)
	}
	if len(rules) == 0 {
		return nil, fmt.Errorf("%w in %s", domain.ErrNoRules, req.RulePath)
	}
	s.log.Debug("Read %d rules", len(rules))

	doc, err := s.documents.Open(ctx, req.DocumentPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", req.DocumentPath, err)
	}

	run := &domain.LocateRun{
		ID:           uuid.New().String(),
		RulePath:     req.RulePath,
		DocumentPath: req.DocumentPath,
		StartedAt:    s.now(),
		Rules:        rules,
	}

	pages := make([]string, doc.PageCount())
	for i := range pages {
		text, err := doc.PageText(ctx, i)
		if err != nil {
			_ = doc.Close()
			return nil, fmt.Errorf("read page %d of %s: %w", i+1, req.DocumentPath, err)
		}
		pages[i] = text
	}

	changed, err := s.pipeline.Run(ctx, pages, run.Rules)
	if err != nil {
		_ = doc.Close()
		return nil, err
	}
	run.FinishedAt = s.now()

	for _, phase := range domain.AllPhases() {
		if idx, ok := changed[phase.String()]; ok {
			s.log.Debug("%s: %d rules", phase, len(idx))
		}
	}
	s.log.Info("Located %d/%d rules in %d pages", run.FoundCount(), len(run.Rules), len(pages))

	if s.runStore != nil {
		rec := domain.RecordFromLocate(run)
		if err := s.runStore.Save(ctx, &rec); err != nil {
			s.log.Warn("Failed to save run %s: %v", run.ID, err)
		}
	}

	return &locateSession{
		doc:   doc,
		run:   run,
		pages: pages,
		words: make(map[int][]domain.PageWord),
		log:   s.log,
	}, nil
}

func (s *LocateService) readerFor(path string) (driven.RuleTableReader, error) {
	ext := strings.ToLower(filepath.Ext(path))
	for _, r := range s.readers {
		if slices.Contains(r.SupportedExtensions(), ext) {
			return r, nil
		}
	}
	return nil, fmt.Errorf("%w: rule table %q", domain.ErrUnsupportedType, ext)
}

// locateSession owns the document of one locate run.
type locateSession struct {
	mu     sync.Mutex
	doc    driven.Document
	run    *domain.LocateRun
	pages  []string
	words  map[int][]domain.PageWord
	closed bool
	log    *logger.Logger
}

// Ensure locateSession implements the interface.
var _ driving.LocateSession = (*locateSession)(nil)

var errSessionClosed = errors.New("locate session closed")

func (s *locateSession) Run() *domain.LocateRun {
	return s.run
}

// Resolve computes the rectangle of one location on first use. Later
// calls return the recorded result, including a recorded failure.
func (s *locateSession) Resolve(ctx context.Context, row, location int) (domain.Location, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	rule, ok := s.run.Rule(row)
	if !ok {
		return domain.Location{}, fmt.Errorf("%w: row %d", domain.ErrNotFound, row)
	}
	if location < 0 || location >= len(rule.Locations) {
		return domain.Location{}, fmt.Errorf("%w: row %d has no location %d", domain.ErrNotFound, row, location)
	}
	loc := &rule.Locations[location]
	if !loc.IsPending() {
		return *loc, nil
	}
	if s.closed {
		return domain.Location{}, errSessionClosed
	}

	words, err := s.pageWords(ctx, loc.PageIndex)
	switch {
	case errors.Is(err, domain.ErrNotImplemented):
		s.log.Debug("Row %d: document has no word boxes", row)
		loc.MarkFailed()
		return *loc, nil
	case err != nil:
		return domain.Location{}, err
	}

	method, ok := resolve.Location(loc, words)
	if ok {
		s.log.Debug("Row %d page %d: resolved by %s", row, loc.PageIndex+1, method)
	} else {
		s.log.Debug("Row %d page %d: no rectangle for %q", row, loc.PageIndex+1, loc.MatchedText)
	}
	return *loc, nil
}

func (s *locateSession) pageWords(ctx context.Context, page int) ([]domain.PageWord, error) {
	if words, ok := s.words[page]; ok {
		return words, nil
	}
	words, err := s.doc.PageWords(ctx, page)
	if err != nil {
		return nil, err
	}
	s.words[page] = words
	return words, nil
}

func (s *locateSession) PageText(_ context.Context, page int) (string, error) {
	if page < 0 || page >= len(s.pages) {
		return "", fmt.Errorf("%w: page %d of %d", domain.ErrPageOutOfRange, page+1, len(s.pages))
	}
	return s.pages[page], nil
}

func (s *locateSession) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	return s.doc.Close()
}
