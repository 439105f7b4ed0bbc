package csv

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

func writeCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "rules.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRead(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"comma", "Reference,Hint,Examples\nEtkin madde,,\"parasetamol-paracetamol\"\nSaklama,25 derece,\n"},
		{"semicolon", "Reference;Hint;Examples\nEtkin madde;;parasetamol-paracetamol\nSaklama;25 derece;\n"},
		{"bom", "\ufeffReference,Hint,Examples\r\nEtkin madde,,parasetamol-paracetamol\r\nSaklama,25 derece\r\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rules, err := New().Read(context.Background(), writeCSV(t, tt.content))
			require.NoError(t, err)
			require.Len(t, rules, 2)
			assert.Equal(t, "Etkin madde", rules[0].Reference)
			assert.Equal(t, 2, rules[0].RowIndex)
			assert.Equal(t, "parasetamol-paracetamol", rules[0].Examples)
			assert.Equal(t, "25 derece", rules[1].Hint)
		})
	}
}

func TestRead_Errors(t *testing.T) {
	_, err := New().Read(context.Background(), filepath.Join(t.TempDir(), "none.csv"))
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDelimiter(t *testing.T) {
	assert.Equal(t, ',', delimiter([]byte("a,b;c")))
	assert.Equal(t, ';', delimiter([]byte("a;b;c,d\nx,y,z,w,v")))
	assert.Equal(t, ',', delimiter(nil))
}

func TestCapability(t *testing.T) {
	st := New().Capability()
	assert.Equal(t, "csv", st.Name)
	assert.Equal(t, domain.CapabilityRules, st.Kind)
}
