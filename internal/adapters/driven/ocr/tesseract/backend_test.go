package tesseract

import (
	"context"
	"errors"
	"image/color"
	"os"
	"testing"

	"github.com/disintegration/imaging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// mockRunner answers --list-langs and OCR calls per language.
type mockRunner struct {
	missing bool
	langs   string
	texts   map[string]string
	calls   [][]string
}

func (m *mockRunner) Run(_ context.Context, name string, args ...string) ([]byte, error) {
	m.calls = append(m.calls, append([]string{name}, args...))
	if len(args) == 1 && args[0] == "--list-langs" {
		return []byte(m.langs), nil
	}
	if _, err := os.Stat(args[0]); err != nil {
		return nil, err
	}
	lang := args[len(args)-1]
	text, ok := m.texts[lang]
	if !ok {
		return nil, errors.New("Failed loading language " + lang)
	}
	return []byte(text), nil
}

func (m *mockRunner) LookPath(name string) (string, error) {
	if m.missing {
		return "", domain.ErrToolNotFound
	}
	return "/usr/bin/" + name, nil
}

const listLangs = "List of available languages in \"/usr/share/tessdata/\" (3):\neng\nosd\ntur\n"

func TestInit_PicksLanguage(t *testing.T) {
	tests := []struct {
		name  string
		langs string
		want  string
	}{
		{"primary installed", listLangs, "tur+eng"},
		{"fallback only", "List of available languages (1):\neng\n", "eng"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := New(&mockRunner{langs: tt.langs}, "tur+eng", "eng")
			require.NoError(t, b.Init(context.Background()))
			assert.Equal(t, tt.want, b.Language())
		})
	}
}

func TestInit_Errors(t *testing.T) {
	b := New(&mockRunner{missing: true}, "tur+eng", "eng")
	assert.ErrorIs(t, b.Init(context.Background()), domain.ErrToolNotFound)

	b = New(&mockRunner{langs: "List of available languages (1):\nosd\n"}, "tur+eng", "eng")
	assert.ErrorIs(t, b.Init(context.Background()), domain.ErrCapabilityUnavailable)
}

func TestRecognize(t *testing.T) {
	runner := &mockRunner{langs: listLangs, texts: map[string]string{"tur+eng": "Etkin madde\n"}}
	b := New(runner, "tur+eng", "eng")
	require.NoError(t, b.Init(context.Background()))

	text, err := b.Recognize(context.Background(), imaging.New(20, 20, color.White))
	require.NoError(t, err)
	assert.Equal(t, "Etkin madde\n", text)

	last := runner.calls[len(runner.calls)-1]
	assert.Equal(t, "stdout", last[2])
	_, err = os.Stat(last[1])
	assert.True(t, os.IsNotExist(err), "temporary page image is removed")
}

func TestRecognize_FallbackLanguage(t *testing.T) {
	runner := &mockRunner{langs: listLangs, texts: map[string]string{"eng": "Active substance"}}
	b := New(runner, "tur+eng", "eng")
	require.NoError(t, b.Init(context.Background()))

	text, err := b.Recognize(context.Background(), imaging.New(20, 20, color.White))
	require.NoError(t, err)
	assert.Equal(t, "Active substance", text)
}

func TestRecognize_Fails(t *testing.T) {
	b := New(&mockRunner{langs: listLangs}, "tur+eng", "eng")
	_, err := b.Recognize(context.Background(), imaging.New(5, 5, color.White))
	assert.Error(t, err)
}

func TestCapability(t *testing.T) {
	st := New(&mockRunner{}, "eng", "").Capability()
	assert.True(t, st.Available)
	assert.Equal(t, domain.CapabilityOCR, st.Kind)

	st = New(&mockRunner{missing: true}, "eng", "").Capability()
	assert.False(t, st.Available)
	assert.Contains(t, st.Install, "tesseract-ocr-tur")
}

func TestParseLanguages(t *testing.T) {
	langs := parseLanguages(listLangs)
	assert.Len(t, langs, 3)
	assert.True(t, hasAll(langs, "tur+eng"))
	assert.False(t, hasAll(langs, "deu+eng"))
	assert.False(t, hasAll(langs, ""))
}
