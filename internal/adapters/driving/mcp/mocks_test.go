package mcp

import (
	"context"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// mockCompareService is a mock implementation of driving.CompareService.
type mockCompareService struct {
	run      *domain.ComparisonRun
	err      error
	lastReq  domain.CompareRequest
	exported string
}

func (m *mockCompareService) Compare(
	_ context.Context,
	req domain.CompareRequest,
	_ driving.ProgressFunc,
) (*domain.ComparisonRun, error) {
	m.lastReq = req
	return m.run, m.err
}

func (m *mockCompareService) ExportReport(
	_ context.Context,
	_ *domain.ComparisonRun,
	dir string,
) (*domain.ReportFiles, error) {
	m.exported = dir
	return &domain.ReportFiles{Dir: dir, Summary: dir + "/summary.txt"}, nil
}

// mockSession is a mock implementation of driving.LocateSession.
type mockSession struct {
	run    *domain.LocateRun
	loc    domain.Location
	err    error
	closed bool
}

func (m *mockSession) Run() *domain.LocateRun { return m.run }

func (m *mockSession) Resolve(_ context.Context, _, _ int) (domain.Location, error) {
	return m.loc, m.err
}

func (m *mockSession) PageText(_ context.Context, _ int) (string, error) { return "", nil }

func (m *mockSession) Close() error {
	m.closed = true
	return nil
}

// mockLocateService is a mock implementation of driving.LocateService.
type mockLocateService struct {
	sessions []*mockSession
	err      error
	started  int
}

func (m *mockLocateService) Start(_ context.Context, _ driving.LocateRequest) (driving.LocateSession, error) {
	if m.err != nil {
		return nil, m.err
	}
	s := m.sessions[m.started%len(m.sessions)]
	m.started++
	return s, nil
}

func (m *mockLocateService) Locate(_ context.Context, _ driving.LocateRequest, _ bool) (*domain.LocateRun, error) {
	return m.sessions[0].run, m.err
}

// mockHistoryService is a mock implementation of driving.HistoryService.
type mockHistoryService struct {
	runs     []domain.RunRecord
	err      error
	lastKind domain.RunKind
	limit    int
}

func (m *mockHistoryService) List(_ context.Context, kind domain.RunKind, limit int) ([]domain.RunRecord, error) {
	m.lastKind, m.limit = kind, limit
	return m.runs, m.err
}

func (m *mockHistoryService) Get(_ context.Context, id string) (*domain.RunRecord, error) {
	for i := range m.runs {
		if m.runs[i].ID == id {
			return &m.runs[i], nil
		}
	}
	return nil, domain.ErrNotFound
}

func (m *mockHistoryService) Delete(_ context.Context, _ string) error { return m.err }

// mockCapabilities is a mock implementation of driving.CapabilityService.
type mockCapabilities struct {
	list []domain.CapabilityStatus
}

func (m *mockCapabilities) List() []domain.CapabilityStatus { return m.list }
