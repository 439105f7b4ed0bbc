// Package compare provides the document comparison view for the TUI.
package compare

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/components/input"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/components/list"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
	"github.com/custodia-labs/proofcheck/internal/textsim"
	"github.com/custodia-labs/proofcheck/internal/vision"
)

// ErrServiceUnavailable is returned when no compare service is wired.
var ErrServiceUnavailable = errors.New("compare service not available")

// Mode is the view's current screen.
type Mode int

// View modes.
const (
	ModeForm Mode = iota
	ModeRunning
	ModeResults
	ModeDetail
)

const maxDetailDiffLines = 200

// Field order in the form.
const (
	fieldLeft = iota
	fieldRight
	fieldROILeft
	fieldROIRight
	fieldRotateLeft
	fieldRotateRight
	fieldReportDir
)

// View runs a comparison and browses the per-page results.
type View struct {
	styles  *styles.Styles
	keys    *keymap.KeyMap
	service driving.CompareService
	ctx     context.Context

	form    *input.Form
	spinner spinner.Model
	pages   *list.ItemList
	detail  viewport.Model

	mode     Mode
	run      *domain.ComparisonRun
	request  domain.CompareRequest
	progress chan messages.CompareProgress
	cancel   context.CancelFunc
	status   string
	done     int
	total    int
	err      error

	width  int
	height int
}

// NewView creates a new compare view.
func NewView(s *styles.Styles, service driving.CompareService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = s.Title

	form := input.NewForm(
		input.NewField(s, "Left", "path to the reference document"),
		input.NewField(s, "Right", "path to the document under review"),
		input.NewField(s, "ROI left", "x,y,w,h (optional)"),
		input.NewField(s, "ROI right", "x,y,w,h (optional)"),
		input.NewField(s, "Rotate left", "0, 90, 180 or 270"),
		input.NewField(s, "Rotate right", "0, 90, 180 or 270"),
		input.NewField(s, "Report dir", "proofcheck-report"),
	)

	return &View{
		styles:  s,
		keys:    keymap.DefaultKeyMap(),
		service: service,
		ctx:     context.Background(),
		form:    form,
		spinner: sp,
		pages:   list.NewItemList(s, "Pages"),
		detail:  viewport.New(80, 20),
		width:   80,
		height:  24,
	}
}

// SetContext sets the parent context for comparison runs.
func (v *View) SetContext(ctx context.Context) {
	v.ctx = ctx
}

// SetReportDir sets the default report directory.
func (v *View) SetReportDir(dir string) {
	v.field(fieldReportDir).SetValue(dir)
}

// SetPaths pre-fills the document paths.
func (v *View) SetPaths(left, right string) {
	v.field(fieldLeft).SetValue(left)
	v.field(fieldRight).SetValue(right)
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.form.Fields()[v.form.Focused()].Init()
}

// Reset returns to the form, keeping the entered values.
func (v *View) Reset() {
	if v.cancel != nil {
		v.cancel()
		v.cancel = nil
	}
	v.mode = ModeForm
	v.err = nil
	v.status = ""
	v.done, v.total = 0, 0
}

// Update handles messages for the compare view.
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

	case messages.CompareProgress:
		v.status = fmt.Sprintf("Compared page %d of %d", msg.Page, msg.Total)
		v.done, v.total = msg.Page, msg.Total
		return v, waitProgress(v.progress)

	case messages.CompareCompleted:
		v.cancel = nil
		if msg.Err != nil {
			v.err = msg.Err
			v.mode = ModeForm
			return v, nil
		}
		v.setRun(msg.Run)
		return v, nil

	case messages.ReportExported:
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		v.err = nil
		v.status = "Report written to " + msg.Files.Dir
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
		return v.handleFormKey(msg)
	case ModeRunning:
		if keymap.Matches(msg.String(), v.keys.Back) {
			v.Reset()
			v.status = "Comparison cancelled"
		}
		return v, nil
	case ModeResults:
		return v.handleResultsKey(msg)
	case ModeDetail:
		if keymap.Matches(msg.String(), v.keys.Back, v.keys.Details) {
			v.mode = ModeResults
			return v, nil
		}
		var cmd tea.Cmd
		v.detail, cmd = v.detail.Update(msg)
		return v, cmd
	}
	return v, nil
}

func (v *View) handleFormKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Back):
		return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
	case keymap.Matches(k, v.keys.NextField):
		return v, v.form.FocusNext(false)
	case keymap.Matches(k, v.keys.PrevField):
		return v, v.form.FocusNext(true)
	case keymap.Matches(k, v.keys.Swap):
		v.swapFields()
		return v, nil
	case keymap.Matches(k, v.keys.Open):
		req, err := v.buildRequest()
		if err != nil {
			v.err = err
			return v, nil
		}
		return v, v.start(req)
	}
	return v, v.form.Update(msg)
}

func (v *View) handleResultsKey(msg tea.KeyMsg) (*View, tea.Cmd) {
	k := msg.String()
	switch {
	case keymap.Matches(k, v.keys.Back, v.keys.New):
		v.mode = ModeForm
		v.status = ""
		return v, nil
	case keymap.Matches(k, v.keys.Details, v.keys.Open):
		v.showDetail()
		return v, nil
	case keymap.Matches(k, v.keys.Rerun):
		return v, v.start(v.request)
	case keymap.Matches(k, v.keys.Export):
		return v, v.export()
	}
	var cmd tea.Cmd
	v.pages, cmd = v.pages.Update(msg)
	return v, cmd
}

func (v *View) field(i int) *input.Field {
	return v.form.Fields()[i]
}

func (v *View) swapFields() {
	for _, pair := range [][2]int{{fieldLeft, fieldRight}, {fieldROILeft, fieldROIRight}, {fieldRotateLeft, fieldRotateRight}} {
		a, b := v.field(pair[0]), v.field(pair[1])
		av, bv := a.Value(), b.Value()
		a.SetValue(bv)
		b.SetValue(av)
	}
}

// buildRequest validates the form into a request.
func (v *View) buildRequest() (domain.CompareRequest, error) {
	left, err := v.side(fieldLeft, fieldROILeft, fieldRotateLeft)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	right, err := v.side(fieldRight, fieldROIRight, fieldRotateRight)
	if err != nil {
		return domain.CompareRequest{}, err
	}
	return domain.CompareRequest{Left: left, Right: right}, nil
}

func (v *View) side(pathField, roiField, rotField int) (domain.SideOptions, error) {
	opts := domain.SideOptions{Path: v.field(pathField).Value()}
	if opts.Path == "" {
		return opts, fmt.Errorf("%w: %s path is required", domain.ErrInvalidInput, strings.ToLower(v.field(pathField).Label()))
	}

	roi, err := domain.ParseROI(v.field(roiField).Value())
	if err != nil {
		return opts, err
	}
	opts.ROI = roi

	if raw := v.field(rotField).Value(); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || !domain.Rotation(n).IsValid() {
			return opts, fmt.Errorf("%w: rotation %q must be 0, 90, 180 or 270", domain.ErrInvalidInput, raw)
		}
		opts.Rotation = domain.Rotation(n)
	}
	return opts, nil
}

// start launches the comparison in the background and streams progress.
func (v *View) start(req domain.CompareRequest) tea.Cmd {
	if v.service == nil {
		v.err = ErrServiceUnavailable
		return nil
	}

	ctx, cancel := context.WithCancel(v.ctx)
	v.cancel = cancel
	v.request = req
	v.mode = ModeRunning
	v.err = nil
	v.status = "Rendering pages..."
	v.done, v.total = 0, 0

	ch := make(chan messages.CompareProgress, 16)
	v.progress = ch
	service := v.service

	run := func() tea.Msg {
		defer close(ch)
		result, err := service.Compare(ctx, req, func(page, total int) {
			select {
			case ch <- messages.CompareProgress{Page: page, Total: total}:
			default:
			}
		})
		return messages.CompareCompleted{Run: result, Err: err}
	}
	return tea.Batch(run, waitProgress(ch), v.spinner.Tick)
}

func waitProgress(ch <-chan messages.CompareProgress) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		p, ok := <-ch
		if !ok {
			return nil
		}
		return p
	}
}

func (v *View) export() tea.Cmd {
	if v.run == nil || v.service == nil {
		return nil
	}
	dir := v.field(fieldReportDir).Value()
	if dir == "" {
		dir = "proofcheck-report"
	}
	run, service, ctx := v.run, v.service, v.ctx
	v.status = "Exporting report..."
	return func() tea.Msg {
		files, err := service.ExportReport(ctx, run, dir)
		return messages.ReportExported{Files: files, Err: err}
	}
}

func (v *View) setRun(run *domain.ComparisonRun) {
	v.run = run
	v.mode = ModeResults
	v.err = nil

	items := make([]list.Item, 0, len(run.Pages))
	for i := range run.Pages {
		items = append(items, pageItem(&run.Pages[i]))
	}
	v.pages.SetItems(items)

	s := run.Summary
	v.status = fmt.Sprintf("%d pages compared, %d skipped, %d differences", s.PagesCompared, s.PagesSkipped, s.TotalRegions)
}

func pageItem(p *domain.PageComparison) list.Item {
	item := list.Item{
		Title:   fmt.Sprintf("Page %d", p.PageNumber),
		Preview: fmt.Sprintf("%d differences, text %.1f%%", len(p.Regions), p.Text.Ratio*100),
	}
	switch {
	case p.Degraded():
		item.Meta = "degraded"
		item.Level = list.LevelWarn
	case p.Structural.Available:
		item.Meta = fmt.Sprintf("SSIM %.1f%%", p.Structural.Score*100)
		item.Level = scoreLevel(p.Structural.Score)
	default:
		item.Meta = "SSIM n/a"
	}
	if len(p.Regions) > 0 && item.Level == list.LevelGood {
		item.Level = list.LevelWarn
	}
	return item
}

func scoreLevel(v float64) list.Level {
	switch {
	case v >= styles.GoodScore:
		return list.LevelGood
	case v >= styles.FairScore:
		return list.LevelWarn
	default:
		return list.LevelBad
	}
}

func (v *View) showDetail() {
	if v.run == nil || v.pages.IsEmpty() {
		return
	}
	p := &v.run.Pages[v.pages.Selected()]
	v.detail.SetContent(v.renderDetail(p))
	v.detail.GotoTop()
	v.mode = ModeDetail
}

// renderDetail formats every signal of one page.
func (v *View) renderDetail(p *domain.PageComparison) string {
	var b strings.Builder
	s := v.styles

	b.WriteString(s.Subtitle.Render(fmt.Sprintf("Page %d", p.PageNumber)) + "\n\n")
	if p.Failure != "" {
		b.WriteString(s.Warning.Render("Failed: "+p.Failure) + "\n\n")
	}

	b.WriteString(fmt.Sprintf("Differences: %d\n", len(p.Regions)))
	for _, r := range p.Regions {
		b.WriteString(s.Muted.Render(fmt.Sprintf("  #%d at %d,%d size %dx%d", r.Label, r.X, r.Y, r.Width, r.Height)) + "\n")
	}

	b.WriteString("\n" + v.signalLine("SSIM", p.Structural.Available, p.Structural.Score, p.Structural.Unavailable))
	b.WriteString(v.signalLine("Color", p.Color.Available, p.Color.Overall, p.Color.Unavailable))
	if p.Color.Available {
		for _, name := range vision.ChannelNames() {
			if c, ok := p.Color.Channels[name]; ok {
				b.WriteString(s.Muted.Render(fmt.Sprintf("  %s %.3f", name, c)) + "\n")
			}
		}
	}
	b.WriteString(v.signalLine("Features", p.Feature.Available, p.Feature.Score, p.Feature.Unavailable))
	if p.Feature.Available {
		b.WriteString(s.Muted.Render(fmt.Sprintf("  %d good matches, %d/%d keypoints",
			p.Feature.GoodMatches, p.Feature.KeypointsLeft, p.Feature.KeypointsRight)) + "\n")
	}

	b.WriteString("Text: " + s.Percent(p.Text.Ratio) + "\n")
	if p.Text.HasNote() {
		b.WriteString(s.Muted.Render("  "+p.Text.Note) + "\n")
	}

	diff := textsim.DiffLines(p.Text.UnifiedDiff, maxDetailDiffLines, v.width-4)
	if len(diff) > 0 {
		b.WriteString("\n")
	}
	for _, line := range diff {
		if strings.HasPrefix(line, "+") {
			b.WriteString(s.DiffAdded.Render(line) + "\n")
		} else {
			b.WriteString(s.DiffRemoved.Render(line) + "\n")
		}
	}
	return b.String()
}

func (v *View) signalLine(name string, ok bool, score float64, reason string) string {
	if !ok {
		if reason == "" {
			reason = "not computed"
		}
		return fmt.Sprintf("%s: %s\n", name, v.styles.Muted.Render("n/a ("+reason+")"))
	}
	return name + ": " + v.styles.Percent(score) + "\n"
}

// View renders the compare view.
func (v *View) View() string {
	var b strings.Builder
	b.WriteString(v.styles.Title.Render("Compare documents"))
	b.WriteString("\n\n")

	switch v.mode {
	case ModeForm:
		b.WriteString(v.form.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[tab] Next field  [ctrl+s] Swap sides  [enter] Compare  [esc] Back"))
	case ModeRunning:
		b.WriteString(v.spinner.View() + " " + v.status)
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[esc] Cancel"))
	case ModeResults:
		if v.run != nil {
			b.WriteString(v.styles.Muted.Render(v.run.LeftPath+"  vs  "+v.run.RightPath) + "\n")
			if len(v.run.Skipped) > 0 {
				b.WriteString(v.styles.Warning.Render(fmt.Sprintf("Skipped pages: %v", v.run.Skipped)) + "\n")
			}
			b.WriteString("\n")
		}
		b.WriteString(v.pages.View())
		b.WriteString("\n\n")
		b.WriteString(v.styles.Help.Render("[j/k] Navigate  [tab] Details  [r] Rerun  [e] Export report  [n] New  [esc] Back"))
	case ModeDetail:
		b.WriteString(v.detail.View())
		b.WriteString("\n")
		b.WriteString(v.styles.Help.Render("[j/k] Scroll  [tab/esc] Back to pages"))
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
	v.pages.SetDimensions(width, height-10)
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

// Run returns the last completed comparison.
func (v *View) Run() *domain.ComparisonRun {
	return v.run
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Status returns the status line.
func (v *View) Status() string {
	return v.status
}

// Progress returns the pages compared so far and the page total of the
// running comparison. Both are zero before the first page finishes.
func (v *View) Progress() (done, total int) {
	return v.done, v.total
}
