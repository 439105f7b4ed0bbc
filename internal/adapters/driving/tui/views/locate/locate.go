// Package locate provides the term locator view for the TUI.
package locate

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// ErrServiceUnavailable is returned when no locate service is wired.
var ErrServiceUnavailable = errors.New("locate service not available")

// Mode is the view's current screen.
type Mode int

// View modes.
const (
	ModeForm Mode = iota
	ModeRunning
	ModeRules
	ModeDetail
)

// View runs the locator and shows where each rule matched.
// Rectangles are resolved only when a rule is opened.
type View struct {
	styles  *styles.Styles
	service driving.LocateService
	ctx     context.Context

	form    *input.Form
	spinner spinner.Model
	rules   *list.ItemList
	detail  viewport.Model

	mode     Mode
	session  driving.LocateSession
	current  *domain.Rule
	pageText string
	status   string
	err      error

	width  int
	height int
}

// NewView creates a new locate view.
func NewView(s *styles.Styles, service driving.LocateService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	return &View{
		styles:  s,
		service: service,
		ctx:     context.Background(),
		form: input.NewForm(
			input.NewField(s, "Rule table", "path to .xlsx or .csv"),
			input.NewField(s, "Document", "path to the document to search"),
		),
		spinner: sp,
		rules:   list.NewItemList(s, "Rules"),
		detail:  viewport.New(80, 20),
		width:   80,
		height:  24,
	}
}

// SetContext sets the parent context.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetPaths pre-fills the form.
func (v *View) SetPaths(rules, document string) {
	v.form.Fields()[0].SetValue(rules)
	v.form.Fields()[1].SetValue(document)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.form.Fields()[v.form.Focused()].Init()
}

// Reset returns to the form.
func (v *View) Reset() {
	v.mode = ModeForm
	v.err = nil
	v.status = ""
}

// Close releases the open locator session.
func (v *View) Close() error {
	if v.session == nil {
		return nil
	}
	err := v.session.Close()
	v.session = nil
	return err
}

// Update handles messages for the locate view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKey(msg)

	case spinner.TickMsg:
		if v.mode != ModeRunning {
			return v, nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(msg)
		return v, cmd

	case messages.LocateStarted:
		if msg.Err != nil {
			v.err = msg.Err
			v.mode = ModeForm
			return v, nil
		}
		_ = v.Close()
		v.session = msg.Session
		v.showRules()
		return v, nil

	case messages.LocationResolved:
		v.applyResolution(msg)
		return v, nil

	case messages.PageTextLoaded:
		if msg.Err != nil {
			v.pageText = ""
			v.status = fmt.Sprintf("Page %d text unavailable: %v", msg.Page+1, msg.Err)
		} else {
			v.pageText = msg.Text
		}
		v.refreshDetail()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	if v.mode == ModeForm {
		return v, v.form.Update(msg)
	}
	return v, nil
}

func (v *View) handleKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch v.mode {
	case ModeForm:
		switch msg.String() {
		case "esc":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case "tab", "down":
			return v, v.form.FocusNext(false)
		case "shift+tab", "up":
			return v, v.form.FocusNext(true)
		case "enter":
			return v, v.start()
		}
		return v, v.form.Update(msg)

	case ModeRunning:
		return v, nil

	case ModeRules:
		switch msg.String() {
		case "esc", "n":
			v.mode = ModeForm
			return v, nil
		case "enter", "tab":
			return v, v.openSelected()
		}
		var cmd tea.Cmd
		v.rules, cmd = v.rules.Update(msg)
		return v, cmd

	case ModeDetail:
		switch msg.String() {
		case "esc", "tab":
			v.mode = ModeRules
			return v, nil
		}
		var cmd tea.Cmd
		v.detail, cmd = v.detail.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) start() tea.Cmd {
	if v.service == nil {
		v.err = ErrServiceUnavailable
		return nil
	}
	req := driving.LocateRequest{
		RulePath:     v.form.Fields()[0].Value(),
		DocumentPath: v.form.Fields()[1].Value(),
	}
	if req.RulePath == "" || req.DocumentPath == "" {
		v.err = fmt.Errorf("%w: rule table and document are required", domain.ErrInvalidInput)
		return nil
	}

	v.mode = ModeRunning
	v.err = nil
	v.status = "Searching document..."
	service, ctx := v.service, v.ctx
	run := func() tea.Msg {
		session, err := service.Start(ctx, req)
		return messages.LocateStarted{Session: session, Err: err}
	}
	return tea.Batch(run, v.spinner.Tick)
}

func (v *View) showRules() {
	run := v.session.Run()
	items := make([]list.Item, 0, len(run.Rules))
	for i := range run.Rules {
		items = append(items, ruleItem(&run.Rules[i]))
	}
	v.rules.SetItems(items)
	v.mode = ModeRules
	v.err = nil
	v.status = fmt.Sprintf("%d of %d rules found", run.FoundCount(), len(run.Rules))
}

func ruleItem(r *domain.Rule) list.Item {
	item := list.Item{
		Title: fmt.Sprintf("%d. %s", r.RowIndex, r.Reference),
	}
	if !r.Found {
		item.Meta = "not found"
		item.Level = list.LevelBad
		return item
	}
	pages := make([]string, len(r.Locations))
	for i, l := range r.Locations {
		pages[i] = fmt.Sprint(l.PageIndex + 1)
	}
	item.Meta = fmt.Sprintf("%s, page %s", r.Phase, strings.Join(pages, ","))
	item.Level = list.LevelGood
	item.Preview = r.MatchedText
	return item
}

// openSelected shows the rule and resolves its first location lazily.
func (v *View) openSelected() tea.Cmd {
	if v.session == nil || v.rules.IsEmpty() {
		return nil
	}
	run := v.session.Run()
	v.current = &run.Rules[v.rules.Selected()]
	v.pageText = ""
	v.mode = ModeDetail
	v.refreshDetail()
	v.detail.GotoTop()

	if !v.current.Found || len(v.current.Locations) == 0 {
		return nil
	}
	session, ctx := v.session, v.ctx
	row := v.current.RowIndex
	page := v.current.Locations[0].PageIndex

	var cmds []tea.Cmd
	if v.current.Locations[0].IsPending() {
		cmds = append(cmds, func() tea.Msg {
			loc, err := session.Resolve(ctx, row, 0)
			return messages.LocationResolved{Row: row, Index: 0, Location: loc, Err: err}
		})
	}
	cmds = append(cmds, func() tea.Msg {
		text, err := session.PageText(ctx, page)
		return messages.PageTextLoaded{Page: page, Text: text, Err: err}
	})
	return tea.Batch(cmds...)
}

func (v *View) applyResolution(msg messages.LocationResolved) {
	if msg.Err != nil {
		v.status = "Highlight unavailable: " + msg.Err.Error()
	}
	if v.session == nil {
		return
	}
	rule, ok := v.session.Run().Rule(msg.Row)
	if !ok || msg.Index >= len(rule.Locations) {
		return
	}
	if msg.Err == nil {
		rule.Locations[msg.Index] = msg.Location
	}
	v.refreshDetail()
}

func (v *View) refreshDetail() {
	if v.current == nil {
		return
	}
	v.detail.SetContent(v.renderRule(v.current))
}

// renderRule formats a rule, its locations and the matched page text.
func (v *View) renderRule(r *domain.Rule) string {
	var b strings.Builder
	s := v.styles

	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Row %d: %s", r.RowIndex, r.Reference)) + "\n\n")
	if r.Hint != "" {
		b.WriteString("Hint:     " + r.Hint + "\n")
	}
	if ex := r.ExampleList(); len(ex) > 0 {
		b.WriteString("Examples: " + strings.Join(ex, ", ") + "\n")
	}

	if !r.Found {
		b.WriteString("\n" + s.Error.Render("Not found in the document") + "\n")
		return b.String()
	}

	b.WriteString(fmt.Sprintf("\nFound by %s\n", s.Success.Render(r.Phase.String())))
	b.WriteString("Matched:  " + r.MatchedText + "\n\n")
	for i := range r.Locations {
		l := &r.Locations[i]
		line := fmt.Sprintf("Page %d: ", l.PageIndex+1)
		if rect, ok := l.Resolved(); ok {
			line += fmt.Sprintf("at %.0f,%.0f to %.0f,%.0f", rect.X0, rect.Y0, rect.X1, rect.Y1)
		} else if l.Resolution == domain.RectFailed {
			line += s.Muted.Render("no highlight")
		} else {
			line += s.Muted.Render("not resolved")
		}
		b.WriteString(line + "\n")
	}

	if v.pageText != "" {
		b.WriteString("\n" + s.Subtitle.Render("Page text") + "\n")
		b.WriteString(highlight(v.pageText, r.MatchedText, s))
		b.WriteString("\n")
	}
	return b.String()
}

// highlight marks the first case-insensitive occurrence of needle.
func highlight(text, needle string, s *styles.Styles) string {
	if needle == "" {
		return text
	}
	lower := strings.ToLower(text)
	i := strings.Index(lower, strings.ToLower(needle))
	if i < 0 || len(lower) != len(text) {
		return text
	}
	end := i + len(needle)
	return text[:i] + s.Selected.Render(text[i:end]) + text[end:]
}

// View renders the locate view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Locate terms"))
	b.WriteString("\n\n")

	switch v.mode {
	case ModeForm:
		b.WriteString(v.form.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[tab] Next field  [enter] Locate  [esc] Back"))
	case ModeRunning:
		b.WriteString(v.spinner.View() + " " + v.status)
	case ModeRules:
		b.WriteString(v.rules.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [enter] Open  [n] New  [esc] Back"))
	case ModeDetail:
		b.WriteString(v.detail.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[j/k] Scroll  [tab/esc] Back to rules"))
	}

	if v.err != nil {
		b.WriteString("\n\n" + v.styles.Error.Render("Error: "+v.err.Error()))
	} else if v.status != "" && v.mode != ModeRunning {
		b.WriteString("\n\n" + v.styles.Muted.Render(v.status))
	}
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.form.SetWidth(width)
	v.rules.SetDimensions(width, height-8)
	v.detail.Width = width
	v.detail.Height = height - 6
	if v.detail.Height < 3 {
		v.detail.Height = 3
	}
}

// Mode returns the current screen.
func (v *View) Mode() Mode {
	return v.mode
}

// Session returns the open locator session.
func (v *View) Session() driving.LocateSession {
	return v.session
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Status returns the status line.
func (v *View) Status() string {
	return v.status
}
