// Package doctor shows which optional backends are usable.
package doctor

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/keymap"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/messages"
	"github.com/custodia-labs/proofcheck/internal/adapters/driving/tui/styles"
	"github.com/custodia-labs/proofcheck/internal/core/domain"
	"github.com/custodia-labs/proofcheck/internal/core/ports/driving"
)

// View lists capability statuses grouped by kind.
type View struct {
	styles   *styles.Styles
	keys     *keymap.KeyMap
	service  driving.CapabilityService
	statuses []domain.CapabilityStatus

	width  int
	height int
}

// NewView creates a new doctor view.
func NewView(s *styles.Styles, service driving.CapabilityService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{styles: s, keys: keymap.DefaultKeyMap(), service: service}
}

// Init loads the capability list.
func (v *View) Init() tea.Cmd {
	service := v.service
	return func() tea.Msg {
		if service == nil {
			return messages.CapabilitiesLoaded{}
		}
		return messages.CapabilitiesLoaded{Statuses: service.List()}
	}
}

// Update handles messages for the doctor view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
	case messages.CapabilitiesLoaded:
		v.statuses = msg.Statuses
	case tea.KeyMsg:
		switch k := msg.String(); {
		case keymap.Matches(k, v.keys.Back) || k == "q":
			return v, func() tea.Msg { return messages.ViewChanged{View: messages.ViewMenu} }
		case keymap.Matches(k, v.keys.Refresh):
			return v, v.Init()
		}
	}
	return v, nil
}

// View renders the capability table.
func (v *View) View() string {
	var b strings.Builder
	s := v.styles

	b.WriteString(s.Title.Render("Doctor"))
	b.WriteString("\n\n")

	if len(v.statuses) == 0 {
		b.WriteString(s.Muted.Render("No capability information"))
		b.WriteString("\n")
	}

	kind := domain.CapabilityKind("")
	for _, st := range v.statuses {
		if st.Kind != kind {
			kind = st.Kind
			b.WriteString(s.Subtitle.Render(string(kind)) + "\n")
		}
		mark := s.Success.Render("ok  ")
		if !st.Available {
			mark = s.Error.Render("--  ")
		}
		line := fmt.Sprintf("  %s%-18s", mark, st.Name)
		if st.Detail != "" {
			line += " " + s.Muted.Render(st.Detail)
		}
		b.WriteString(line + "\n")
		if !st.Available && st.Install != "" {
			b.WriteString("        " + s.Help.Render(st.Install) + "\n")
		}
	}

	b.WriteString("\n")
	b.WriteString(s.Help.Render("[r] Refresh  [esc] Back"))
	return b.String()
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
}

// Statuses returns the loaded statuses.
func (v *View) Statuses() []domain.CapabilityStatus {
	return v.statuses
}
