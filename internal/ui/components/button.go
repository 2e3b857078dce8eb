package components

import (
	"github.com/abhisek/carescreen/internal/ui/theme"
)

// Button is a styled button. Key handling belongs to the screen that owns
// it; the button only knows whether it has focus.
type Button struct {
	Label   string
	Focused bool
}

// NewButton creates a new button.
func NewButton(label string, focused bool) Button {
	return Button{
		Label:   label,
		Focused: focused,
	}
}

// View renders the button.
func (b Button) View() string {
	if b.Focused {
		return theme.ButtonActive.Render("▸ " + b.Label)
	}
	return theme.ButtonInactive.Render("  " + b.Label)
}
