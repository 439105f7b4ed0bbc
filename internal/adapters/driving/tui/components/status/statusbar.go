// Package status renders the footer line of the TUI.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
)

// State is what the footer currently reports.
type State string

const (
	StateReady   State = "ready"
	StateWorking State = "working"
	StateError   State = "error"
	StateHelp    State = "help"
	StateResults State = "results"
)

// gaugeWidth is the number of cells in the page progress gauge.
const gaugeWidth = 20

// Bar shows the run state on the left and key hints on the right.
// It holds no tea state; the app sets it before each render.
type Bar struct {
	styles *styles.Styles
	keymap *keymap.KeyMap
	cancel key.Binding

	state   State
	message string
	done    int
	total   int
	count   int
	noun    string
	width   int
}

// NewBar creates a footer in the ready state.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{
		styles: s,
		keymap: km,
		cancel: key.NewBinding(key.WithKeys("esc"), key.WithHelp("esc", "cancel")),
		state:  StateReady,
		width:  80,
	}
}

// Ready clears everything.
func (b *Bar) Ready() {
	*b = Bar{styles: b.styles, keymap: b.keymap, cancel: b.cancel, state: StateReady, width: b.width}
}

// Working reports a running job. total is zero while the page count is
// not yet known.
func (b *Bar) Working(message string, done, total int) {
	b.Ready()
	b.state = StateWorking
	b.message = message
	b.done, b.total = done, total
}

// Results reports a finished run of count items, such as "12 pages".
func (b *Bar) Results(count int, noun string) {
	b.Ready()
	b.state = StateResults
	b.count, b.noun = count, noun
}

// Fail reports err. It keeps the result count so the hints still match
// the list on screen.
func (b *Bar) Fail(err error) {
	b.state = StateError
	b.message = err.Error()
}

// ShowHelp marks the help screen as open.
func (b *Bar) ShowHelp() {
	b.Ready()
	b.state = StateHelp
}

// View renders the footer padded to the bar width.
func (b *Bar) View() string {
	left, right := b.renderLeft(), b.renderRight()
	inner := b.width - b.styles.StatusBar.GetHorizontalFrameSize()
	padding := max(inner-lipgloss.Width(left)-lipgloss.Width(right), 1)
	return b.styles.StatusBar.Width(b.width).Render(left + strings.Repeat(" ", padding) + right)
}

func (b *Bar) renderLeft() string {
	switch b.state {
	case StateWorking:
		msg := b.message
		if msg == "" {
			msg = "Working..."
		}
		if b.total > 0 {
			msg += "  " + gauge(b.done, b.total)
		}
		return b.styles.Muted.Render(msg)
	case StateError:
		return b.styles.Error.Render("Error: " + b.message)
	case StateHelp:
		return b.styles.Normal.Render("Help")
	case StateResults:
		return b.styles.Normal.Render(fmt.Sprintf("%d %s", b.count, b.noun))
	case StateReady:
	}
	return b.styles.Muted.Render("Ready")
}

func (b *Bar) renderRight() string {
	var bindings []key.Binding
	switch {
	case b.state == StateWorking:
		bindings = []key.Binding{b.cancel}
	case b.count > 0:
		bindings = b.keymap.ResultsHelp()
	default:
		bindings = b.keymap.ShortHelp()
	}

	hints := make([]string, 0, len(bindings))
	for _, binding := range bindings {
		h := binding.Help()
		hints = append(hints, h.Key+": "+h.Desc)
	}
	return b.styles.Muted.Render(strings.Join(hints, " | "))
}

// gauge draws "[#####.....] 5/10".
func gauge(done, total int) string {
	done = min(max(done, 0), total)
	filled := done * gaugeWidth / total
	return fmt.Sprintf("[%s%s] %d/%d",
		strings.Repeat("#", filled), strings.Repeat(".", gaugeWidth-filled), done, total)
}

// State returns the current state.
func (b *Bar) State() State { return b.state }

// Message returns the working or error message.
func (b *Bar) Message() string { return b.message }

// Count returns the result count.
func (b *Bar) Count() int { return b.count }

// SetWidth sets the bar width.
func (b *Bar) SetWidth(width int) { b.width = width }

// Width returns the bar width.
func (b *Bar) Width() int { return b.width }
