package exec

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestRunner_Run(t *testing.T) {
	r := NewRunner()
	if _, err := r.LookPath("echo"); err != nil {
		t.Skip("echo not available")
	}

	out, err := r.Run(context.Background(), "echo", "hello")
	require.NoError(t, err)
	assert.Equal(t, "hello\n", string(out))
}

func TestRunner_Failure(t *testing.T) {
	r := NewRunner()
	if _, err := r.LookPath("sh"); err != nil {
		t.Skip("sh not available")
	}

	_, err := r.Run(context.Background(), "sh", "-c", "echo broken >&2; exit 3")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "sh failed")
	assert.Contains(t, err.Error(), "broken")
}

func TestRunner_NotFound(t *testing.T) {
	r := NewRunner()

	_, err := r.Run(context.Background(), "proofcheck-no-such-tool")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)

	_, err = r.LookPath("proofcheck-no-such-tool")
	assert.ErrorIs(t, err, domain.ErrToolNotFound)
}
