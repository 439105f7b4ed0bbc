// Package settings lets the user browse and change config.toml values.
package settings

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// ErrServiceUnavailable is reported when no settings service is wired.
var ErrServiceUnavailable = errors.New("settings service not available")

const keyColumn = 28

// View lists every settings key grouped by section. Keys with a fixed set
// of values cycle in place; the rest open a text editor.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	service driving.SettingsService

	names  []string
	values map[string]string
	path   string
	err    error
	saved  string

	selected int
	editing  bool
	editor   textinput.Model

	width  int
	height int
}

// NewView creates a settings view.
func NewView(s *styles.Styles, service driving.SettingsService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	editor := textinput.New()
	editor.CharLimit = 512
	editor.Width = 50

	return &View{
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		service: service,
		editor:  editor,
	}
}

// Init loads every value.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// Reset leaves edit mode and clears the saved notice.
func (v *View) Reset() {
	v.editing = false
	v.editor.Blur()
	v.saved = ""
}

func (v *View) load() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingsLoaded{Err: ErrServiceUnavailable}
		}
		names := service.Keys()
		values := make(map[string]string, len(names))
		for _, name := range names {
			val, err := service.Value(name)
			if err != nil {
				return messages.SettingsLoaded{Err: fmt.Errorf("reading %s: %w", name, err)}
			}
			values[name] = val
		}
		return messages.SettingsLoaded{Keys: names, Values: values, Path: service.ConfigPath()}
	}
}

func (v *View) save(name, value string) tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.SettingSaved{Key: name, Err: ErrServiceUnavailable}
		}
		return messages.SettingSaved{Key: name, Err: service.Set(name, value)}
	}
}

// Update handles messages for the settings view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)

	case messages.SettingsLoaded:
		v.err = msg.Err
		if msg.Err == nil {
			v.names, v.values, v.path = msg.Keys, msg.Values, msg.Path
			v.selected = min(v.selected, max(len(v.names)-1, 0))
		}

	case messages.SettingSaved:
		v.err = msg.Err
		if msg.Err != nil {
			return v, nil
		}
		v.saved = msg.Key
		return v, v.load()

	case tea.KeyMsg:
		if v.editing {
			return v.editKey(msg)
		}
		return v.listKey(msg)
	}
	return v, nil
}

func (v *View) listKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(k, v.keys.Up):
		v.selected = max(v.selected-1, 0)
	case keymap.Matches(k, v.keys.Down):
		v.selected = min(v.selected+1, max(len(v.names)-1, 0))
	case len(v.names) == 0:
	case k == "left" || k == "h":
		return v, v.cycle(-1)
	case k == "right" || k == "l":
		return v, v.cycle(1)
	case keymap.Matches(k, v.keys.Open):
		if domain.SettingChoices(v.current()) != nil {
			return v, v.cycle(1)
		}
		v.editing = true
		v.saved = ""
		v.editor.SetValue(v.values[v.current()])
		v.editor.CursorEnd()
		return v, v.editor.Focus()
	}
	return v, nil
}

func (v *View) editKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Back):
		v.editing = false
		v.editor.Blur()
		return v, nil
	case keymap.Matches(k, v.keys.Open):
		v.editing = false
		v.editor.Blur()
		return v, v.save(v.current(), v.editor.Value())
	}
	var cmd tea.Cmd
	v.editor, cmd = v.editor.Update(msg)
	return v, cmd
}

// cycle saves the next (step 1) or previous (step -1) allowed value of the
// selected key. Free-form keys are left alone.
func (v *View) cycle(step int) tea.Cmd {
	name := v.current()
	opts := domain.SettingChoices(name)
	if len(opts) == 0 {
		return nil
	}
	i := slices.Index(opts, v.values[name])
	next := opts[(i+step+len(opts))%len(opts)]
	if i < 0 {
		next = opts[0]
	}
	v.saved = ""
	return v.save(name, next)
}

func (v *View) current() string {
	if v.selected >= len(v.names) {
		return ""
	}
	return v.names[v.selected]
}

// View renders the settings list.
func (v *View) View() string {
	var b strings.Builder
	s := v.styles

	b.WriteString(s.Title.Render("Settings") + "\n")
	if v.path != "" {
		b.WriteString(s.Muted.Render(v.path))
	}
	b.WriteString("\n\n")

	section := ""
	for i, name := range v.names {
		if prefix, _, ok := strings.Cut(name, "."); ok && prefix != section {
			section = prefix
			b.WriteString(s.Subtitle.Render(prefix) + "\n")
		}
		b.WriteString(v.row(i, name) + "\n")
	}

	b.WriteString("\n")
	switch {
	case v.editing:
		b.WriteString(s.Help.Render("[enter] save  [esc] cancel  lists are comma-separated"))
	case domain.SettingChoices(v.current()) != nil:
		b.WriteString(s.Help.Render("[←/→] change  [j/k] move  [esc] back"))
	default:
		b.WriteString(s.Help.Render("[enter] edit  [j/k] move  [esc] back"))
	}

	if v.err != nil {
		b.WriteString("\n\n" + s.Error.Render("Error: "+v.err.Error()))
	} else if v.saved != "" {
		b.WriteString("\n\n" + s.Success.Render("Saved "+v.saved))
	}
	return b.String()
}

func (v *View) row(i int, name string) string {
	s := v.styles
	label := fmt.Sprintf("%-*s", keyColumn, name)
	value := v.values[name]
	if opts := domain.SettingChoices(name); opts != nil {
		value = "‹ " + value + " ›"
	}

	if i != v.selected {
		return "  " + s.Normal.Render(label) + " " + s.Muted.Render(value)
	}
	if v.editing {
		return "> " + s.Selected.Render(label) + " " + v.editor.View()
	}
	return "> " + s.Selected.Render(label) + " " + s.Normal.Render(value)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	if w := width - keyColumn - 8; w > 20 {
		v.editor.Width = w
	}
}

// Selected returns the selected key index.
func (v *View) Selected() int {
	return v.selected
}

// Editing returns true while a value is being edited.
func (v *View) Editing() bool {
	return v.editing
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
