// Package menu is the start screen of the TUI.
package menu

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
)

// Item is one menu entry. Key selects it directly.
type Item struct {
	Key   string
	Label string
	Hint  string
	View  messages.ViewType
	Quit  bool
}

// DefaultItems returns the entries of the start screen.
func DefaultItems() []Item {
	return []Item{
		{Key: "c", Label: "Compare documents", Hint: "diff, SSIM, colour, features and text per page", View: messages.ViewCompare},
		{Key: "l", Label: "Locate terms", Hint: "find rule table entries in a leaflet", View: messages.ViewLocate},
		{Key: "h", Label: "History", Hint: "reopen or delete earlier runs", View: messages.ViewHistory},
		{Key: "s", Label: "Settings", Hint: "render, OCR and locator options", View: messages.ViewSettings},
		{Key: "d", Label: "Doctor", Hint: "which backends this build can use", View: messages.ViewDoctor},
		{Key: "?", Label: "Help", View: messages.ViewHelp},
		{Key: "q", Label: "Quit", Quit: true},
	}
}

// View lists the items with a cursor.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	width    int
	height   int
	ready    bool
}

// NewView creates the menu with DefaultItems.
func NewView(s *styles.Styles) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles: s,
		items:  DefaultItems(),
		width:  80,
		height: 24,
	}
}

// Init has nothing to load.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update moves the cursor or opens an item. Up and down wrap around.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case tea.KeyMsg:
		switch k := msg.String(); k {
		case "up", "k":
			v.selected = (v.selected - 1 + len(v.items)) % len(v.items)
		case "down", "j":
			v.selected = (v.selected + 1) % len(v.items)
		case "enter":
			return v, v.open(v.selected)
		default:
			for i, item := range v.items {
				if item.Key == k {
					v.selected = i
					return v, v.open(i)
				}
			}
		}
	}
	return v, nil
}

func (v *View) open(i int) tea.Cmd {
	item := v.items[i]
	if item.Quit {
		return tea.Quit
	}
	return func() tea.Msg {
		return messages.ViewChanged{View: item.View}
	}
}

// View renders the title, the entries and their hints.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	labelWidth := 0
	for _, item := range v.items {
		labelWidth = max(labelWidth, len(item.Label))
	}

	var b strings.Builder
	b.WriteString(v.styles.Title.Render("proofcheck"))
	b.WriteString("\n")
	b.WriteString(v.styles.Subtitle.Render("Artwork and leaflet proofing"))
	b.WriteString("\n\n")

	for i, item := range v.items {
		label := fmt.Sprintf("%-*s", labelWidth, item.Label)
		line := fmt.Sprintf("  [%s] %s", item.Key, v.styles.Normal.Render(label))
		if i == v.selected {
			line = v.styles.Selected.Render(fmt.Sprintf("> [%s] %s", item.Key, label))
		}
		if item.Hint != "" && v.width >= labelWidth+len(item.Hint)+12 {
			line += "  " + v.styles.Muted.Render(item.Hint)
		}
		b.WriteString(line)
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("j/k move  enter open  letter jumps"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Items returns the menu entries.
func (v *View) Items() []Item {
	return v.items
}

// Selected returns the cursor index.
func (v *View) Selected() int {
	return v.selected
}
