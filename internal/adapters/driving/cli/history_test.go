package cli

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func resetHistoryFlags() {
	historyKind, historyLimit, historyJSON = "", 20, false
}

func TestHistoryCmd_List(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()
	defer resetHistoryFlags()

	out, err := execute(t, "history", "list", "--kind", "compare")

	require.NoError(t, err)
	assert.Equal(t, domain.RunKindCompare, ts.history.kind)
	assert.Contains(t, out, "c1  2026-03-01 09:30  compare")
}

func TestHistoryCmd_InvalidKind(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetHistoryFlags()

	_, err := execute(t, "history", "--kind", "sync")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistoryCmd_Empty(t *testing.T) {
	SetServices(Services{History: &mockHistoryService{}})
	defer SetServices(Services{})

	out, err := execute(t, "history")

	require.NoError(t, err)
	assert.Contains(t, out, "No runs recorded.")
}

func TestHistoryCmd_ShowCompare(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetHistoryFlags()

	out, err := execute(t, "history", "show", "c1")

	require.NoError(t, err)
	assert.Contains(t, out, "compare run c1")
	assert.Contains(t, out, "Duration: 2s")
	assert.Contains(t, out, "Page 1: 3 differences, text 100.0%, SSIM 97.0%, colour n/a, features n/a")
}

func TestHistoryCmd_ShowLocate(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()
	defer resetHistoryFlags()

	out, err := execute(t, "history", "show", "l1")

	require.NoError(t, err)
	assert.Contains(t, out, "Rules:    rules.xlsx")
	assert.Contains(t, out, "Etkin madde: examples on page 1")
	assert.Contains(t, out, "Saklama: not found")
}

func TestHistoryCmd_ShowMissing(t *testing.T) {
	_, cleanup := setupTestServices()
	defer cleanup()

	_, err := execute(t, "history", "show", "nope")

	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryCmd_Delete(t *testing.T) {
	ts, cleanup := setupTestServices()
	defer cleanup()

	out, err := execute(t, "history", "delete", "l1")

	require.NoError(t, err)
	assert.Equal(t, "l1", ts.history.deleted)
	assert.Contains(t, out, "Deleted run l1")
}
