package document

import (
	"context"
	"errors"
	"image"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driven"
	"github.com/custodia-labs/proofcheck/internal/logger"
)

type stubDocument struct{ backend string }

func (d *stubDocument) Info() domain.DocumentInfo { return domain.DocumentInfo{Backend: d.backend} }
func (d *stubDocument) PageCount() int            { return 1 }
func (d *stubDocument) RenderPage(context.Context, int, int) (image.Image, error) {
	return nil, domain.ErrNotImplemented
}
func (d *stubDocument) PageText(context.Context, int) (string, error) { return "", nil }
func (d *stubDocument) PageWords(context.Context, int) ([]domain.PageWord, error) {
	return nil, domain.ErrNotImplemented
}
func (d *stubDocument) Close() error { return nil }

type stubOpener struct {
	name      string
	formats   []domain.DocumentFormat
	priority  int
	available bool
	err       error
	opened    int
}

func (o *stubOpener) Name() string                              { return o.name }
func (o *stubOpener) SupportedFormats() []domain.DocumentFormat { return o.formats }
func (o *stubOpener) Priority() int                             { return o.priority }
func (o *stubOpener) Capability() domain.CapabilityStatus {
	return domain.CapabilityStatus{Name: o.name, Kind: domain.CapabilityDocument, Available: o.available}
}

func (o *stubOpener) Open(_ context.Context, _ string) (driven.Document, error) {
	o.opened++
	if o.err != nil {
		return nil, o.err
	}
	return &stubDocument{backend: o.name}, nil
}

func tempFile(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte("x"), 0600))
	return path
}

func TestRegistry_PicksHighestPriority(t *testing.T) {
	low := &stubOpener{name: "low", formats: []domain.DocumentFormat{domain.FormatPDF}, priority: 50, available: true}
	high := &stubOpener{name: "high", formats: []domain.DocumentFormat{domain.FormatPDF}, priority: 95, available: true}
	reg := NewRegistry(logger.Nop(), low, high)

	doc, err := reg.Open(context.Background(), tempFile(t, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "high", doc.Info().Backend)
	assert.Zero(t, low.opened)
}

func TestRegistry_SkipsUnavailable(t *testing.T) {
	native := &stubOpener{name: "native", formats: []domain.DocumentFormat{domain.FormatPDF}, priority: 95}
	cli := &stubOpener{name: "cli", formats: []domain.DocumentFormat{domain.FormatPDF}, priority: 50, available: true}
	reg := NewRegistry(logger.Nop(), native, cli)

	doc, err := reg.Open(context.Background(), tempFile(t, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "cli", doc.Info().Backend)
	assert.Zero(t, native.opened)
}

func TestRegistry_FallsBackOnError(t *testing.T) {
	broken := &stubOpener{name: "broken", formats: []domain.DocumentFormat{domain.FormatPDF}, priority: 95, available: true, err: errors.New("bad xref")}
	cli := &stubOpener{name: "cli", formats: []domain.DocumentFormat{domain.FormatPDF}, priority: 50, available: true}
	reg := NewRegistry(logger.Nop(), broken, cli)

	doc, err := reg.Open(context.Background(), tempFile(t, "a.pdf"))
	require.NoError(t, err)
	assert.Equal(t, "cli", doc.Info().Backend)
	assert.Equal(t, 1, broken.opened)
}

func TestRegistry_Errors(t *testing.T) {
	pdf := &stubOpener{name: "pdf", formats: []domain.DocumentFormat{domain.FormatPDF}, priority: 50, available: true, err: domain.ErrDocumentLoad}
	reg := NewRegistry(logger.Nop(), pdf)

	_, err := reg.Open(context.Background(), "sheet.xlsx")
	assert.ErrorIs(t, err, domain.ErrUnsupportedType)

	_, err = reg.Open(context.Background(), filepath.Join(t.TempDir(), "missing.pdf"))
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)

	_, err = reg.Open(context.Background(), tempFile(t, "scan.png"))
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)

	_, err = reg.Open(context.Background(), tempFile(t, "a.pdf"))
	assert.ErrorIs(t, err, domain.ErrDocumentLoad)
	assert.Contains(t, err.Error(), "pdf:")
}

func TestRegistry_Capabilities(t *testing.T) {
	reg := NewRegistry(logger.Nop())
	reg.Register(nil)
	reg.Register(&stubOpener{name: "a", priority: 1, available: true})
	reg.Register(&stubOpener{name: "b", priority: 9})

	caps := reg.Capabilities()
	require.Len(t, caps, 2)
	assert.Equal(t, "b", caps[0].Name)
	assert.False(t, caps[0].Available)
}
