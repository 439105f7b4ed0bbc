// Package input provides text input components for the TUI.
package input

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
)

// Field is a labelled single-line input such as a document path or ROI.
type Field struct {
	textinput textinput.Model
	styles    *styles.Styles
	label     string
	width     int
}

// NewField creates an unfocused field.
func NewField(s *styles.Styles, label, placeholder string) *Field {
	if s == nil {
		s = styles.DefaultStyles()
	}

	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.CharLimit = 1024
	ti.Width = 50

	return &Field{
		textinput: ti,
		styles:    s,
		label:     label,
		width:     50,
	}
}

// Init initialises the field.
func (f *Field) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles input messages.
func (f *Field) Update(msg tea.Msg) (*Field, tea.Cmd) {
	var cmd tea.Cmd
	f.textinput, cmd = f.textinput.Update(msg)
	return f, cmd
}

// View renders the label and the framed input.
func (f *Field) View() string {
	label := f.styles.Subtitle.Width(labelWidth).Render(f.label)
	frame := f.styles.InputField
	if f.textinput.Focused() {
		frame = f.styles.FocusedField
	}
	//nolint:misspell // lipgloss.Center is the correct constant from the library
	return lipgloss.JoinHorizontal(lipgloss.Center, label, frame.Render(f.textinput.View()))
}

const labelWidth = 14

// Label returns the field label.
func (f *Field) Label() string {
	return f.label
}

// Value returns the trimmed input value.
func (f *Field) Value() string {
	return strings.TrimSpace(f.textinput.Value())
}

// SetValue sets the input value.
func (f *Field) SetValue(value string) {
	f.textinput.SetValue(value)
	f.textinput.CursorEnd()
}

// Focus sets focus on the input.
func (f *Field) Focus() tea.Cmd {
	return f.textinput.Focus()
}

// Blur removes focus from the input.
func (f *Field) Blur() {
	f.textinput.Blur()
}

// Focused returns whether the input is focused.
func (f *Field) Focused() bool {
	return f.textinput.Focused()
}

// SetWidth sets the total width including the label.
func (f *Field) SetWidth(width int) {
	f.width = width
	inputWidth := width - labelWidth - 6
	if inputWidth < 20 {
		inputWidth = 20
	}
	f.textinput.Width = inputWidth
}

// Width returns the current width.
func (f *Field) Width() int {
	return f.width
}

// Reset clears the input.
func (f *Field) Reset() {
	f.textinput.Reset()
}

// Form is an ordered group of fields with one focused at a time.
type Form struct {
	fields  []*Field
	focused int
}

// NewForm creates a form and focuses the first field.
func NewForm(fields ...*Field) *Form {
	f := &Form{fields: fields}
	if len(fields) > 0 {
		fields[0].Focus()
	}
	return f
}

// Fields returns the fields in order.
func (f *Form) Fields() []*Field {
	return f.fields
}

// Focused returns the index of the focused field.
func (f *Form) Focused() int {
	return f.focused
}

// FocusNext moves focus forward, or backward when reverse is set, wrapping around.
func (f *Form) FocusNext(reverse bool) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	f.fields[f.focused].Blur()
	step := 1
	if reverse {
		step = len(f.fields) - 1
	}
	f.focused = (f.focused + step) % len(f.fields)
	return f.fields[f.focused].Focus()
}

// Update forwards msg to the focused field.
func (f *Form) Update(msg tea.Msg) tea.Cmd {
	if len(f.fields) == 0 {
		return nil
	}
	var cmd tea.Cmd
	f.fields[f.focused], cmd = f.fields[f.focused].Update(msg)
	return cmd
}

// View renders every field on its own line.
func (f *Form) View() string {
	lines := make([]string, len(f.fields))
	for i, field := range f.fields {
		lines[i] = field.View()
	}
	return strings.Join(lines, "\n")
}

// SetWidth sets the width of every field.
func (f *Form) SetWidth(width int) {
	for _, field := range f.fields {
		field.SetWidth(width)
	}
}
