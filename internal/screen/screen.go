package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/carescreen/internal/ui/layout"
	"github.com/abhisek/carescreen/internal/wizard"
)

// Screen renders one wizard page in the terminal.
type Screen interface {
	// Init returns an initial command when the screen is first created.
	Init() tea.Cmd

	// Update handles messages and returns updated screen + command.
	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the screen content (excluding header/footer).
	View(width, height int) string

	// Title returns the screen name for the header.
	Title() string

	// Page returns the wizard page the screen renders.
	Page() wizard.Page
}

// KeyHintProvider is an optional interface that screens can implement
// to provide custom footer key hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}
