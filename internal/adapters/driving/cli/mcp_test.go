package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMCPServeCmd_Flags(t *testing.T) {
	port := mcpServeCmd.Flags().Lookup("port")
	require.NotNil(t, port)
	assert.Equal(t, "p", port.Shorthand)
	assert.Equal(t, "0", port.DefValue)

	host := mcpServeCmd.Flags().Lookup("host")
	require.NotNil(t, host)
	assert.Equal(t, "127.0.0.1", host.DefValue)
}

func TestMCPServeCmd_Long(t *testing.T) {
	assert.Contains(t, mcpServeCmd.Long, "compare_documents")
	assert.Contains(t, mcpServeCmd.Long, "proofcheck://runs")
}

func TestMCPServeCmd_RequiresCompareService(t *testing.T) {
	SetServices(Services{})

	_, err := execute(t, "mcp", "serve")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "compare service not configured")
}

func TestMCPServeCmd_InvalidPort(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer func() { mcpPort = 0 }()

	_, err := execute(t, "mcp", "serve", "--port", "70000")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid port 70000")
}
