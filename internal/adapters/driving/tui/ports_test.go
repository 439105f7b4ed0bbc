package tui

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// MockCompareService implements driving.CompareService for testing.
type MockCompareService struct {
	CompareFunc func(ctx context.Context, req domain.CompareRequest, progress driving.ProgressFunc) (*domain.ComparisonRun, error)
}

func (m *MockCompareService) Compare(
	ctx context.Context, req domain.CompareRequest, progress driving.ProgressFunc,
) (*domain.ComparisonRun, error) {
	if m.CompareFunc != nil {
		return m.CompareFunc(ctx, req, progress)
	}
	return &domain.ComparisonRun{}, nil
}

func (m *MockCompareService) ExportReport(_ context.Context, _ *domain.ComparisonRun, dir string) (*domain.ReportFiles, error) {
	return &domain.ReportFiles{Dir: dir}, nil
}

// MockLocateService implements driving.LocateService for testing.
type MockLocateService struct {
	StartFunc func(ctx context.Context, req driving.LocateRequest) (driving.LocateSession, error)
}

func (m *MockLocateService) Start(ctx context.Context, req driving.LocateRequest) (driving.LocateSession, error) {
	if m.StartFunc != nil {
		return m.StartFunc(ctx, req)
	}
	return nil, domain.ErrNotImplemented
}

func (m *MockLocateService) Locate(context.Context, driving.LocateRequest, bool) (*domain.LocateRun, error) {
	return &domain.LocateRun{}, nil
}

// MockLocateSession implements driving.LocateSession for testing.
type MockLocateSession struct {
	Closed bool
}

func (m *MockLocateSession) Run() *domain.LocateRun { return &domain.LocateRun{} }

func (m *MockLocateSession) Resolve(context.Context, int, int) (domain.Location, error) {
	return domain.Location{}, nil
}

func (m *MockLocateSession) PageText(context.Context, int) (string, error) { return "", nil }

func (m *MockLocateSession) Close() error {
	m.Closed = true
	return nil
}

func TestNewPorts(t *testing.T) {
	compare := &MockCompareService{}
	locate := &MockLocateService{}

	ports := NewPorts(compare, locate)

	require.NotNil(t, ports)
	assert.Equal(t, compare, ports.Compare)
	assert.Equal(t, locate, ports.Locate)
	assert.Nil(t, ports.History)
}

func TestPorts_Validate(t *testing.T) {
	compare, locate := &MockCompareService{}, &MockLocateService{}

	for _, tc := range []struct {
		name  string
		ports *Ports
		want  error
	}{
		{"required set", NewPorts(compare, locate), nil},
		{"nil", nil, ErrInvalidPorts},
		{"no compare", &Ports{Locate: locate}, ErrMissingCompareService},
		{"no locate", &Ports{Compare: compare}, ErrMissingLocateService},
	} {
		t.Run(tc.name, func(t *testing.T) {
			if tc.want == nil {
				assert.NoError(t, tc.ports.Validate())
				return
			}
			assert.ErrorIs(t, tc.ports.Validate(), tc.want)
		})
	}
}
