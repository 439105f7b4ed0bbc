package list

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleItems() []Item {
	return []Item{
		{Title: "Page 1", Meta: "SSIM 99.0%", Level: LevelGood},
		{Title: "Page 2", Meta: "SSIM 81.0%", Preview: "3 differences", Level: LevelWarn},
		{Title: "Page 3", Meta: "failed", Level: LevelBad},
	}
}

func TestNewItemList(t *testing.T) {
	l := NewItemList(nil, "Pages")

	require.NotNil(t, l)
	assert.True(t, l.IsEmpty())
	assert.Equal(t, 80, l.Width())
	assert.Equal(t, 10, l.Height())
	assert.Contains(t, l.View(), "Nothing to show")
}

func TestItemList_Navigation(t *testing.T) {
	l := NewItemList(nil, "Pages")
	l.SetItems(sampleItems())

	l.MoveUp()
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, 1, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'j'}})
	assert.Equal(t, 2, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'g'}})
	assert.Equal(t, 0, l.Selected())

	l, _ = l.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'G'}})
	assert.Equal(t, 2, l.Selected())
}

func TestItemList_SetSelectedBounds(t *testing.T) {
	l := NewItemList(nil, "Pages")
	l.SetItems(sampleItems())

	l.SetSelected(2)
	assert.Equal(t, 2, l.Selected())
	l.SetSelected(5)
	assert.Equal(t, 2, l.Selected())
	l.SetSelected(-1)
	assert.Equal(t, 2, l.Selected())

	l.SetItems(sampleItems()[:1])
	assert.Equal(t, 0, l.Selected())
	assert.Equal(t, 1, l.Count())
}

func TestItemList_View(t *testing.T) {
	l := NewItemList(nil, "Pages")
	l.SetDimensions(80, 20)
	l.SetItems(sampleItems())

	view := l.View()
	assert.Contains(t, view, "Pages (3)")
	assert.Contains(t, view, "Page 1")
	assert.Contains(t, view, "3 differences")
	assert.Contains(t, view, "failed")
}

func TestItemList_ViewScrolls(t *testing.T) {
	l := NewItemList(nil, "Rules")
	l.SetDimensions(80, 5)
	l.SetItems(sampleItems())
	l.SetSelected(2)

	view := l.View()
	assert.Contains(t, view, "Page 3")
	assert.NotContains(t, view, "Page 1")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 10))
	assert.Equal(t, "abcdef...", truncate("abcdefghijklmnop", 9))
	assert.Equal(t, "ışı...", truncate("ışıklarımız", 6))
}
