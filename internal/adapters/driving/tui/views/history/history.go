// Package history provides the run history view for the TUI.
package history

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// ErrServiceUnavailable is returned when no history service is wired.
var ErrServiceUnavailable = errors.New("history service not available")

// Limit is the number of runs loaded.
const Limit = 100

// View lists stored runs and shows their details.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	service driving.HistoryService
	ctx     context.Context

	runs    *list.ItemList
	detail  viewport.Model
	records []domain.RunRecord
	kind    domain.RunKind
	showing bool
	status  string
	err     error

	width  int
	height int
}

// NewView creates a new history view.
func NewView(s *styles.Styles, service driving.HistoryService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		service: service,
		ctx:     context.Background(),
		runs:    list.NewItemList(s, "Runs"),
		detail:  viewport.New(80, 20),
		width:   80,
		height:  24,
	}
}

// SetContext sets the parent context.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// Init loads the run list.
func (v *View) Init() tea.Cmd {
	v.showing = false
	return v.load()
}

func (v *View) load() tea.Cmd {
	service, ctx, kind := v.service, v.ctx, v.kind
	return func() tea.Msg {
		if service == nil {
			return messages.HistoryLoaded{Err: ErrServiceUnavailable}
		}
		records, err := service.List(ctx, kind, Limit)
		return messages.HistoryLoaded{Records: records, Err: err}
	}
}

// Update handles messages for the history view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.HistoryLoaded:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.setRecords(msg.Records)
		return v, nil

	case messages.RunDeleted:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.status = "Deleted " + msg.ID
		return v, v.load()

	case tea.KeyMsg:
		return v.handleKey(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	if v.showing {
		if keymap.Matches(k, v.keys.Back, v.keys.Details, v.keys.Open) {
			v.showing = false
			return v, nil
		}
		var cmd tea.Cmd
		v.detail, cmd = v.detail.Update(msg)
		return v, cmd
	}

	switch {
	case keymap.Matches(k, v.keys.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(k, v.keys.Open, v.keys.Details):
		if rec := v.Selected(); rec != nil {
			v.detail.SetContent(v.renderRecord(rec))
			v.detail.GotoTop()
			v.showing = true
		}
		return v, nil
	case keymap.Matches(k, v.keys.Filter):
		v.kind = nextKind(v.kind)
		return v, v.load()
	case keymap.Matches(k, v.keys.Delete):
		return v, v.deleteSelected()
	}
	var cmd tea.Cmd
	v.runs, cmd = v.runs.Update(msg)
	return v, cmd
}

// nextKind cycles all, compare, locate.
func nextKind(k domain.RunKind) domain.RunKind {
	switch k {
	case "":
		return domain.RunKindCompare
	case domain.RunKindCompare:
		return domain.RunKindLocate
	default:
		return ""
	}
}

func (v *View) deleteSelected() tea.Cmd {
	rec := v.Selected()
	if rec == nil || v.service == nil {
		return nil
	}
	service, ctx, id := v.service, v.ctx, rec.ID
	return func() tea.Msg {
		return messages.RunDeleted{ID: id, Err: service.Delete(ctx, id)}
	}
}

func (v *View) setRecords(records []domain.RunRecord) {
	v.records = records
	items := make([]list.Item, len(records))
	for i := range records {
		r := &records[i]
		items[i] = list.Item{
			Title:   fmt.Sprintf("%s  %s", r.StartedAt.Format("2006-01-02 15:04"), r.Kind),
			Meta:    r.Summary,
			Preview: r.Left + "  |  " + r.Right,
		}
	}
	v.runs.SetItems(items)
}

// Selected returns the highlighted record.
func (v *View) Selected() *domain.RunRecord {
	if len(v.records) == 0 {
		return nil
	}
	return &v.records[v.runs.Selected()]
}

func (v *View) renderRecord(r *domain.RunRecord) string {
	var b strings.Builder
	s := v.styles

	b.WriteString(s.Subtitle.Render(fmt.Sprintf("%s run %s", r.Kind, r.ID)) + "\n\n")
	b.WriteString(fmt.Sprintf("Started:  %s\n", r.StartedAt.Format("2006-01-02 15:04:05")))
	b.WriteString(fmt.Sprintf("Duration: %s\n", r.Duration().Round(time.Millisecond)))
	switch r.Kind {
	case domain.RunKindLocate:
		b.WriteString("Rules:    " + r.Left + "\nDocument: " + r.Right + "\n")
	default:
		b.WriteString("Left:     " + r.Left + "\nRight:    " + r.Right + "\n")
	}
	b.WriteString("Summary:  " + r.Summary + "\n\n")

	for _, p := range r.Pages {
		line := fmt.Sprintf("Page %d: %d differences, text %.1f%%", p.PageNumber, p.Regions, p.TextRatio*100)
		if p.SSIMValid {
			line += fmt.Sprintf(", SSIM %.1f%%", p.SSIM*100)
		}
		if p.Failure != "" {
			line += s.Warning.Render("  failed: " + p.Failure)
		}
		b.WriteString(line + "\n")
	}
	for _, rule := range r.Rules {
		if rule.Found {
			b.WriteString(fmt.Sprintf("%d. %s: %s on page %d\n", rule.RowIndex, rule.Reference, rule.Phase, rule.PageIndex+1))
		} else {
			b.WriteString(s.Muted.Render(fmt.Sprintf("%d. %s: not found", rule.RowIndex, rule.Reference)) + "\n")
		}
	}
	return b.String()
}

// View renders the history view.
func (v *View) View() string {
	var b strings.Builder
	filter := "all"
	if v.kind != "" {
		filter = v.kind.String()
	}
	b.WriteString(v.styles.Title.Render("History") + v.styles.Muted.Render("  ("+filter+")"))
	b.WriteString("\n\n")

	if v.showing {
		b.WriteString(v.detail.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[j/k] Scroll  [esc] Back to runs"))
	} else {
		b.WriteString(v.runs.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [enter] Details  [f] Filter  [d] Delete  [esc] Back"))
	}

	if v.err != nil {
		b.WriteString("\n\n" + v.styles.Error.Render("Error: "+v.err.Error()))
	} else if v.status != "" {
		b.WriteString("\n\n" + v.styles.Muted.Render(v.status))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.runs.SetDimensions(width, height-8)
	v.detail.Width = width
	v.detail.Height = height - 6
	if v.detail.Height < 3 {
		v.detail.Height = 3
	}
}

// Kind returns the active filter. Empty means all kinds.
func (v *View) Kind() domain.RunKind {
	return v.kind
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}
