// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewCompare runs a page comparison and browses its results.
	ViewCompare
	// ViewLocate runs the term locator over a rule table.
	ViewLocate
	// ViewHistory lists stored runs.
	ViewHistory
	// ViewSettings is the settings configuration view.
	ViewSettings
	// ViewDoctor shows optional backend availability.
	ViewDoctor
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewCompare:
		return "compare"
	case ViewLocate:
		return "locate"
	case ViewHistory:
		return "history"
	case ViewSettings:
		return "settings"
	case ViewDoctor:
		return "doctor"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}

// CompareProgress reports that a page pair was compared.
type CompareProgress struct {
	Page  int
	Total int
}

// CompareCompleted carries a finished comparison run.
type CompareCompleted struct {
	Run *domain.ComparisonRun
	Err error
}

// ReportExported signals a report export finished.
type ReportExported struct {
	Files *domain.ReportFiles
	Err   error
}

// LocateStarted carries a locator session whose phases have run.
type LocateStarted struct {
	Session driving.LocateSession
	Err     error
}

// LocationResolved carries the rectangle lookup for one rule location.
type LocationResolved struct {
	Row      int
	Index    int
	Location domain.Location
	Err      error
}

// PageTextLoaded carries the text of one document page.
type PageTextLoaded struct {
	Page int
	Text string
	Err  error
}

// HistoryLoaded carries stored run records.
type HistoryLoaded struct {
	Records []domain.RunRecord
	Err     error
}

// RunDeleted signals a history entry was removed.
type RunDeleted struct {
	ID  string
	Err error
}

// SettingsLoaded carries the current value of every settings key.
type SettingsLoaded struct {
	Keys   []string
	Values map[string]string
	Path   string
	Err    error
}

// SettingSaved signals a single key was stored.
type SettingSaved struct {
	Key string
	Err error
}

// CapabilitiesLoaded carries optional backend status.
type CapabilitiesLoaded struct {
	Statuses []domain.CapabilityStatus
}
