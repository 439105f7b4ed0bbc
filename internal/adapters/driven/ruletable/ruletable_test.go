package ruletable

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func TestRulesFromRows(t *testing.T) {
	rows := [][]string{
		{"Reference", "Hint", "Examples"},
		{" Active substance ", "", "paracetamol"},
		{},
		{"", "orphan hint"},
		{"Storage", "Saklama koşulları", "", "extra"},
	}

	rules := RulesFromRows(rows)
	require.Len(t, rules, 2)

	assert.Equal(t, 2, rules[0].RowIndex)
	assert.Equal(t, "Active substance", rules[0].Reference)
	assert.Equal(t, "paracetamol", rules[0].Examples)
	assert.Equal(t, domain.PhaseNone, rules[0].Phase)

	assert.Equal(t, 5, rules[1].RowIndex)
	assert.Equal(t, "Saklama koşulları", rules[1].Hint)
	assert.Equal(t, []string{"Storage", "Saklama koşulları", "", "extra"}, rules[1].Values)
}

func TestRulesFromRows_EmptyRun(t *testing.T) {
	rows := [][]string{{"header"}, {"first"}}
	for i := 0; i < MaxEmptyRun; i++ {
		rows = append(rows, []string{"", " "})
	}
	rows = append(rows, []string{"after twenty"})
	for i := 0; i <= MaxEmptyRun; i++ {
		rows = append(rows, nil)
	}
	rows = append(rows, []string{"ignored"})

	rules := RulesFromRows(rows)
	require.Len(t, rules, 2)
	assert.Equal(t, "after twenty", rules[1].Reference)
	assert.Equal(t, MaxEmptyRun+3, rules[1].RowIndex)
}

func TestBuilder_StopsAfterEmptyRun(t *testing.T) {
	var b Builder
	require.True(t, b.Add([]string{"Reference"}))
	require.True(t, b.Add([]string{"Dosage"}))

	for i := 0; i < MaxEmptyRun; i++ {
		require.True(t, b.Add(nil), "empty row %d", i+1)
	}
	assert.False(t, b.Add([]string{""}))
	assert.False(t, b.Add([]string{"late"}))

	require.Len(t, b.Rules(), 1)
	assert.Equal(t, 2, b.Rules()[0].RowIndex)
}

func TestRulesFromRows_HeaderOnly(t *testing.T) {
	assert.Empty(t, RulesFromRows([][]string{{"Reference"}}))
	assert.Empty(t, RulesFromRows(nil))
}

func TestLockChecker(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.xlsx")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o600))

	c := NewLockChecker()
	assert.NoError(t, c.Check(path))

	t.Run("missing", func(t *testing.T) {
		err := c.Check(filepath.Join(dir, "none.xlsx"))
		assert.ErrorIs(t, err, domain.ErrNotFound)
	})

	t.Run("office owner file", func(t *testing.T) {
		owner := filepath.Join(dir, "~$rules.xlsx")
		require.NoError(t, os.WriteFile(owner, nil, 0o600))
		defer os.Remove(owner)

		err := c.Check(path)
		assert.ErrorIs(t, err, domain.ErrFileLocked)
		assert.Contains(t, err.Error(), "rules.xlsx")
	})

	t.Run("shortened owner file", func(t *testing.T) {
		long := filepath.Join(dir, "leaflet-v2.docx")
		require.NoError(t, os.WriteFile(long, []byte("x"), 0o600))
		require.NoError(t, os.WriteFile(filepath.Join(dir, "~$aflet-v2.docx"), nil, 0o600))

		assert.ErrorIs(t, c.Check(long), domain.ErrFileLocked)
	})

	t.Run("read only", func(t *testing.T) {
		if runtime.GOOS == "windows" || os.Geteuid() == 0 {
			t.Skip("permission bits are not enforced")
		}
		ro := filepath.Join(dir, "ro.xlsx")
		require.NoError(t, os.WriteFile(ro, []byte("x"), 0o400))

		assert.ErrorIs(t, c.Check(ro), domain.ErrFileLocked)
	})
}
