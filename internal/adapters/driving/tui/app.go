package tui

import (
	"context"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/components/status"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/views/compare"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/views/doctor"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/views/history"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/views/locate"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/views/menu"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/views/settings"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles
	keys   *keymap.KeyMap

	menuView     *menu.View
	compareView  *compare.View
	locateView   *locate.View
	historyView  *history.View
	settingsView *settings.View
	doctorView   *doctor.View

	// statusBar is rendered below the active view.
	statusBar *status.Bar

	// currentView tracks which view is active.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	keys := keymap.DefaultKeyMap()
	compareView := compare.NewView(s, ports.Compare)
	if ports.ReportDir != "" {
		compareView.SetReportDir(ports.ReportDir)
	}

	return &App{
		ports:        ports,
		ctx:          context.Background(),
		styles:       s,
		keys:         keys,
		menuView:     menu.NewView(s),
		compareView:  compareView,
		locateView:   locate.NewView(s, ports.Locate),
		historyView:  history.NewView(s, ports.History),
		settingsView: settings.NewView(s, ports.Settings),
		doctorView:   doctor.NewView(s, ports.Capabilities),
		statusBar:    status.NewBar(s, keys),
		currentView:  messages.ViewMenu,
	}, nil
}

// WithContext sets the context for the app and its background work.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.compareView.SetContext(ctx)
	a.locateView.SetContext(ctx)
	a.historyView.SetContext(ctx)
	return a
}

// Init implements tea.Model.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.EnterAltScreen,
		tea.SetWindowTitle("proofcheck"),
	)
}

// Update implements tea.Model.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.currentView == messages.ViewHelp {
			if msg.Type == tea.KeyEsc {
				a.currentView = messages.ViewMenu
			}
			return a, nil
		}
		return a, a.forward(msg)

	case messages.ViewChanged:
		a.currentView = msg.View
		switch msg.View {
		case messages.ViewCompare:
			a.compareView.Reset()
			return a, a.compareView.Init()
		case messages.ViewLocate:
			a.locateView.Reset()
			return a, a.locateView.Init()
		case messages.ViewHistory:
			return a, a.historyView.Init()
		case messages.ViewSettings:
			a.settingsView.Reset()
			return a, a.settingsView.Init()
		case messages.ViewDoctor:
			return a, a.doctorView.Init()
		case messages.ViewMenu, messages.ViewHelp:
		}
		return a, nil

	// Background results go to the view that started them.
	case messages.CompareProgress, messages.CompareCompleted, messages.ReportExported:
		a.compareView, cmd = a.compareView.Update(msg)
		return a, cmd

	case messages.LocateStarted, messages.LocationResolved, messages.PageTextLoaded:
		a.locateView, cmd = a.locateView.Update(msg)
		return a, cmd

	case messages.HistoryLoaded, messages.RunDeleted:
		a.historyView, cmd = a.historyView.Update(msg)
		return a, cmd

	case messages.SettingsLoaded, messages.SettingSaved:
		a.settingsView, cmd = a.settingsView.Update(msg)
		return a, cmd

	case messages.CapabilitiesLoaded:
		a.doctorView, cmd = a.doctorView.Update(msg)
		return a, cmd

	case messages.ErrorOccurred:
		a.err = msg.Err
		return a, a.forward(msg)

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// forward passes msg to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewCompare:
		a.compareView, cmd = a.compareView.Update(msg)
	case messages.ViewLocate:
		a.locateView, cmd = a.locateView.Update(msg)
	case messages.ViewHistory:
		a.historyView, cmd = a.historyView.Update(msg)
	case messages.ViewSettings:
		a.settingsView, cmd = a.settingsView.Update(msg)
	case messages.ViewDoctor:
		a.doctorView, cmd = a.doctorView.Update(msg)
	case messages.ViewHelp:
	}
	return cmd
}

// View implements tea.Model.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}
	a.refreshStatus()
	return a.viewBody() + "\n\n" + a.statusBar.View()
}

// refreshStatus derives the status bar state from the active view.
func (a *App) refreshStatus() {
	a.statusBar.Ready()
	switch a.currentView {
	case messages.ViewCompare:
		switch a.compareView.Mode() {
		case compare.ModeRunning:
			done, total := a.compareView.Progress()
			a.statusBar.Working(a.compareView.Status(), done, total)
		case compare.ModeResults, compare.ModeDetail:
			if run := a.compareView.Run(); run != nil {
				a.statusBar.Results(len(run.Pages), "pages")
			}
		case compare.ModeForm:
		}
	case messages.ViewLocate:
		switch a.locateView.Mode() {
		case locate.ModeRunning:
			a.statusBar.Working("Locating terms...", 0, 0)
		case locate.ModeRules, locate.ModeDetail:
			if session := a.locateView.Session(); session != nil {
				a.statusBar.Results(len(session.Run().Rules), "rules")
			}
		case locate.ModeForm:
		}
	case messages.ViewHelp:
		a.statusBar.ShowHelp()
	case messages.ViewMenu, messages.ViewHistory, messages.ViewSettings, messages.ViewDoctor:
	}
	if a.err != nil {
		a.statusBar.Fail(a.err)
	}
}

// viewBody renders the active view.
func (a *App) viewBody() string {
	switch a.currentView {
	case messages.ViewCompare:
		return a.compareView.View()
	case messages.ViewLocate:
		return a.locateView.View()
	case messages.ViewHistory:
		return a.historyView.View()
	case messages.ViewSettings:
		return a.settingsView.View()
	case messages.ViewDoctor:
		return a.doctorView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.menuView.View()
	}
}

// viewHelp renders the key bindings grouped by screen.
func (a *App) viewHelp() string {
	var b strings.Builder
	b.WriteString(a.styles.Title.Render("Help") + "\n")
	for _, sec := range a.keys.Sections() {
		b.WriteString("\n" + a.styles.Subtitle.Render(sec.Title) + "\n")
		for _, binding := range sec.Bindings {
			h := binding.Help()
			fmt.Fprintf(&b, "  %-12s %s\n", h.Key, h.Desc)
		}
	}
	b.WriteString("\n" + a.styles.Help.Render("Menu entries also open with their letter. [esc] back to menu"))
	return b.String()
}

// Run starts the TUI application and releases the open locate session on exit.
func (a *App) Run() error {
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	if cerr := a.locateView.Close(); err == nil {
		err = cerr
	}
	return err
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.compareView.SetDimensions(width, height)
	a.locateView.SetDimensions(width, height)
	a.historyView.SetDimensions(width, height)
	a.settingsView.SetDimensions(width, height)
	a.doctorView.SetDimensions(width, height)
	a.statusBar.SetWidth(width)
}
