//go:build !cgo || !tesseract

package tesseract

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestStub(t *testing.T) {
	assert.False(t, Available())

	b := New("tur+eng", "eng")
	assert.Equal(t, Name, b.Name())
	assert.ErrorIs(t, b.Init(context.Background()), domain.ErrCapabilityUnavailable)
	_, err := b.Recognize(context.Background(), nil)
	assert.ErrorIs(t, err, domain.ErrCapabilityUnavailable)
	assert.False(t, b.Capability().Available)
	assert.NoError(t, b.Close())
}
