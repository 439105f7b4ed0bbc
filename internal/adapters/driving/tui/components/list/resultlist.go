// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
)

var keys = keymap.DefaultKeyMap()

// Level colours an item's meta column.
type Level int

// Item levels.
const (
	LevelNormal Level = iota
	LevelGood
	LevelWarn
	LevelBad
)

// Item is one row: a title, a right-hand meta column and an optional preview line.
type Item struct {
	Title   string
	Meta    string
	Preview string
	Level   Level
}

// ItemList displays items in a navigable, scrolling list.
type ItemList struct {
	title    string
	items    []Item
	selected int
	styles   *styles.Styles
	width    int
	height   int
}

// NewItemList creates a new list component with a header title.
func NewItemList(s *styles.Styles, title string) *ItemList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &ItemList{
		title:  title,
		styles: s,
		width:  80,
		height: 10,
	}
}

// Init initialises the list.
func (r *ItemList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *ItemList) Update(msg tea.Msg) (*ItemList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch k := msg.String(); {
		case keymap.Matches(k, keys.Up):
			r.MoveUp()
		case keymap.Matches(k, keys.Down):
			r.MoveDown()
		case keymap.Matches(k, keys.Top):
			r.selected = 0
		case keymap.Matches(k, keys.Bottom):
			if len(r.items) > 0 {
				r.selected = len(r.items) - 1
			}
		}
	}
	return r, nil
}

// View renders the list.
func (r *ItemList) View() string {
	if len(r.items) == 0 {
		return r.styles.Muted.Render("Nothing to show")
	}

	lines := make([]string, 0, len(r.items)*2+2)
	lines = append(lines, r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.title, len(r.items))), "")

	// Items take up to two lines each.
	visibleCount := (r.height - 3) / 2
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.items) {
		end = len(r.items)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderItem(i, &r.items[i]))
	}

	return strings.Join(lines, "\n")
}

func (r *ItemList) renderItem(index int, item *Item) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	maxTitle := r.width - lipgloss.Width(item.Meta) - 6
	if maxTitle < 10 {
		maxTitle = 10
	}
	title := truncate(item.Title, maxTitle)

	var line string
	if index == r.selected {
		line = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitle, title, item.Meta))
	} else {
		line = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitle, title)) +
			r.metaStyle(item.Level).Render(item.Meta)
	}

	if item.Preview == "" {
		return line
	}
	return line + "\n" + r.styles.Muted.Render("    "+truncate(item.Preview, r.width-6))
}

func (r *ItemList) metaStyle(l Level) lipgloss.Style {
	switch l {
	case LevelGood:
		return r.styles.Success
	case LevelWarn:
		return r.styles.Warning
	case LevelBad:
		return r.styles.Error
	default:
		return r.styles.Muted
	}
}

// truncate cuts s to n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	if n < 4 {
		n = 4
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n-3]) + "..."
}

// SetItems replaces the items and resets the selection.
func (r *ItemList) SetItems(items []Item) {
	r.items = items
	r.selected = 0
}

// Items returns the current items.
func (r *ItemList) Items() []Item {
	return r.items
}

// Selected returns the index of the selected item.
func (r *ItemList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *ItemList) SetSelected(index int) {
	if index >= 0 && index < len(r.items) {
		r.selected = index
	}
}

// MoveUp moves selection up.
func (r *ItemList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *ItemList) MoveDown() {
	if r.selected < len(r.items)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *ItemList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *ItemList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *ItemList) Height() int {
	return r.height
}

// Count returns the number of items.
func (r *ItemList) Count() int {
	return len(r.items)
}

// IsEmpty returns whether the list is empty.
func (r *ItemList) IsEmpty() bool {
	return len(r.items) == 0
}
