package settings

import (
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
)

// MockSettingsService is a mock implementation of driving.SettingsService.
type MockSettingsService struct {
	mock.Mock
}

func (m *MockSettingsService) Get() (*domain.Settings, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Settings), args.Error(1)
}

func (m *MockSettingsService) Save(settings *domain.Settings) error {
	return m.Called(settings).Error(0)
}

func (m *MockSettingsService) Set(key, value string) error {
	return m.Called(key, value).Error(0)
}

func (m *MockSettingsService) Value(key string) (string, error) {
	args := m.Called(key)
	return args.String(0), args.Error(1)
}

func (m *MockSettingsService) Keys() []string {
	return m.Called().Get(0).([]string)
}

func (m *MockSettingsService) GetDefaults() domain.Settings {
	return m.Called().Get(0).(domain.Settings)
}

func (m *MockSettingsService) ConfigPath() string {
	return m.Called().String(0)
}

func newMock() *MockSettingsService {
	m := new(MockSettingsService)
	m.On("Keys").Return([]string{"render.dpi", "ocr.languages", "ocr.backends"})
	m.On("Value", "render.dpi").Return("216", nil)
	m.On("Value", "ocr.languages").Return("tur+eng", nil)
	m.On("Value", "ocr.backends").Return("gosseract,tesseract-cli", nil)
	m.On("ConfigPath").Return("/home/u/.proofcheck/config.toml")
	return m
}

func load(t *testing.T, v *View) {
	t.Helper()
	cmd := v.Init()
	require.NotNil(t, cmd)
	v.Update(cmd())
}

func TestNewView(t *testing.T) {
	v := NewView(styles.DefaultStyles(), nil)

	require.NotNil(t, v)
	assert.NotNil(t, v.styles)
	assert.False(t, v.Editing())
}

func TestNewView_NilStyles(t *testing.T) {
	v := NewView(nil, nil)
	assert.NotNil(t, v.styles)
}

func TestView_Init_NoService(t *testing.T) {
	v := NewView(nil, nil)
	load(t, v)
	require.Error(t, v.Err())
	assert.Contains(t, v.Err().Error(), "not available")
}

func TestView_Init_LoadsValues(t *testing.T) {
	m := newMock()
	v := NewView(nil, m)
	load(t, v)

	require.NoError(t, v.Err())
	view := v.View()
	assert.Contains(t, view, "/home/u/.proofcheck/config.toml")
	assert.Contains(t, view, "render")
	assert.Contains(t, view, "ocr")
	assert.Contains(t, view, "render.dpi")
	assert.Contains(t, view, "tur+eng")
	m.AssertExpectations(t)
}

func TestView_Init_ValueError(t *testing.T) {
	m := new(MockSettingsService)
	m.On("Keys").Return([]string{"render.dpi"})
	m.On("Value", "render.dpi").Return("", errors.New("corrupt config"))
	v := NewView(nil, m)

	load(t, v)

	assert.EqualError(t, v.Err(), "reading render.dpi: corrupt config")
}

func TestView_Navigate(t *testing.T) {
	v := NewView(nil, newMock())
	load(t, v)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, v.Selected())

	v.Update(tea.KeyMsg{Type: tea.KeyUp})
	assert.Equal(t, 1, v.Selected())
}

func TestView_EditAndSave(t *testing.T) {
	m := newMock()
	m.On("Set", "ocr.languages", "eng").Return(nil)
	v := NewView(nil, m)
	load(t, v)

	v.Update(tea.KeyMsg{Type: tea.KeyDown})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.True(t, v.Editing())
	assert.Equal(t, "tur+eng", v.editor.Value())

	v.editor.SetValue("eng")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.False(t, v.Editing())

	saved := cmd()
	assert.Equal(t, messages.SettingSaved{Key: "ocr.languages"}, saved)

	_, reload := v.Update(saved)
	assert.NotNil(t, reload)
	assert.Contains(t, v.View(), "Saved ocr.languages")
	m.AssertCalled(t, "Set", "ocr.languages", "eng")
}

func TestView_SaveRejected(t *testing.T) {
	m := newMock()
	m.On("Set", "render.dpi", "5").Return(domain.ErrInvalidInput)
	v := NewView(nil, m)
	load(t, v)

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.editor.SetValue("5")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(cmd())

	assert.ErrorIs(t, v.Err(), domain.ErrInvalidInput)
	assert.Contains(t, v.View(), "Error")
}

func TestView_EditCancel(t *testing.T) {
	v := NewView(nil, newMock())
	load(t, v)

	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	assert.Nil(t, cmd)
	assert.False(t, v.Editing())
}

func TestView_EscGoesToMenu(t *testing.T) {
	v := NewView(nil, newMock())
	load(t, v)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEsc})

	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewChanged{View: messages.ViewMenu}, cmd())
}

func TestView_Reset(t *testing.T) {
	v := NewView(nil, newMock())
	load(t, v)
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	v.Reset()

	assert.False(t, v.Editing())
}

func TestView_WindowSize(t *testing.T) {
	v := NewView(nil, nil)

	v.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	assert.Equal(t, 120, v.width)
	assert.Equal(t, 84, v.editor.Width)
}

func newChoiceMock() *MockSettingsService {
	m := new(MockSettingsService)
	m.On("Keys").Return([]string{"compare.page_mismatch", "features.backend"})
	m.On("Value", "compare.page_mismatch").Return("skip", nil)
	m.On("Value", "features.backend").Return("auto", nil)
	m.On("ConfigPath").Return("/home/u/.proofcheck/config.toml")
	return m
}

func TestView_CycleChoices(t *testing.T) {
	tests := []struct {
		name string
		keys []tea.KeyMsg
		key  string
		want string
	}{
		{"enter advances", []tea.KeyMsg{{Type: tea.KeyEnter}}, "compare.page_mismatch", "blank"},
		{"right advances", []tea.KeyMsg{{Type: tea.KeyRight}}, "compare.page_mismatch", "blank"},
		{"left wraps", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyLeft}}, "features.backend", "opencv"},
		{"l advances", []tea.KeyMsg{{Type: tea.KeyDown}, {Type: tea.KeyRunes, Runes: []rune{'l'}}}, "features.backend", "pure"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newChoiceMock()
			m.On("Set", tt.key, tt.want).Return(nil)
			v := NewView(nil, m)
			load(t, v)

			var cmd tea.Cmd
			for _, k := range tt.keys {
				_, cmd = v.Update(k)
			}
			require.NotNil(t, cmd)
			assert.False(t, v.Editing())
			assert.Equal(t, messages.SettingSaved{Key: tt.key}, cmd())
			m.AssertCalled(t, "Set", tt.key, tt.want)
		})
	}
}

func TestView_CycleIgnoresFreeForm(t *testing.T) {
	m := newMock()
	v := NewView(nil, m)
	load(t, v)

	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyRight})

	assert.Nil(t, cmd)
	m.AssertNotCalled(t, "Set", mock.Anything, mock.Anything)
}

func TestView_ChoiceRowHint(t *testing.T) {
	v := NewView(nil, newChoiceMock())
	load(t, v)

	view := v.View()
	assert.Contains(t, view, "‹ skip ›")
	assert.Contains(t, view, "change")
}
