package cli

import (
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestVersionCmd_PrintsVersion(t *testing.T) {
	original := version
	version = "1.4.0"
	defer func() { version = original }()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "proofcheck version 1.4.0")
	assert.Contains(t, out, runtime.Version())
	assert.NotContains(t, out, "backends:")
}

func TestVersionCmd_ListsAvailableBackends(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "version")

	require.NoError(t, err)
	assert.Contains(t, out, "backends: poppler")
	assert.NotContains(t, out, "gosseract")
}

func TestAvailableBackends_None(t *testing.T) {
	SetServices(Services{Capabilities: mockCapabilities{
		{Name: "orb-opencv", Kind: domain.CapabilityFeatures},
	}})
	defer SetServices(Services{})

	assert.Equal(t, "none", availableBackends())
}
