package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestParseChoice(t *testing.T) {
	// Menus are 1-based; anything unusable keeps the current choice.
	for _, tc := range []struct {
		in        string
		max, curr int
		want      int
	}{
		{"", 2, 1, 1},
		{"2", 2, 1, 2},
		{" 2 ", 3, 1, 2},
		{"1", 3, 3, 1},
		{"3", 2, 2, 2},
		{"0", 2, 2, 2},
		{"-2", 2, 1, 1},
		{"skip", 2, 2, 2},
		{"\t", 3, 3, 3},
	} {
		assert.Equal(t, tc.want, parseChoice(tc.in, tc.max, tc.curr), "input %q", tc.in)
	}
}

func TestSettingsCmd_Show(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "[render]")
	assert.Contains(t, out, "[compare]")
	assert.Contains(t, out, "render.dpi")
	assert.Contains(t, out, "216")
	assert.Contains(t, out, "Configuration is valid.")
}

func TestSettingsCmd_Set(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "set", "render.dpi", "300")

	require.NoError(t, err)
	assert.Equal(t, "300", ts.settings.values["render.dpi"])
	assert.Contains(t, out, "render.dpi = 300")
}

func TestSettingsCmd_SetUnknownKey(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "settings", "set", "search.mode", "hybrid")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsCmd_KeysAndPath(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "settings", "keys")
	require.NoError(t, err)
	assert.Contains(t, out, "compare.page_mismatch\n")

	out, err = execute(t, "settings", "path")
	require.NoError(t, err)
	assert.Contains(t, out, "/home/u/.proofcheck/config.toml")
}

func TestSettingsCmd_NotConfigured(t *testing.T) {
	SetServices(Services{})

	for _, args := range [][]string{{"settings"}, {"settings", "keys"}, {"settings", "path"}, {"settings", "set", "a", "b"}} {
		_, err := execute(t, args...)
		require.Error(t, err, args)
		assert.Contains(t, err.Error(), "settings service not configured")
	}
}
