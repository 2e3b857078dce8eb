// Package router drives a wizard session in the terminal: it applies
// navigation messages to the session and swaps the active screen whenever
// the session's page changes.
package router

import (
	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/carescreen/internal/metrics"
	"github.com/abhisek/carescreen/internal/screen"
	"github.com/abhisek/carescreen/internal/wizard"
)

// ActionMsg reports a button press. Notice, if set, is shown once by the
// page the action leads to.
type ActionMsg struct {
	Action wizard.Action
	Notice string
}

// GotoMsg moves the session to a page with no precondition.
type GotoMsg struct {
	Page wizard.Page
}

// ResetMsg starts the session over.
type ResetMsg struct{}

// Factory builds the screen for a page of sess.
type Factory func(page wizard.Page, sess *wizard.Session, notice string) screen.Screen

// Router owns the session and the screen currently rendering it.
type Router struct {
	session *wizard.Session
	factory Factory
	active  screen.Screen
}

// New creates a Router showing the session's current page.
func New(sess *wizard.Session, factory Factory) *Router {
	metrics.PageViewsTotal.WithLabelValues(sess.Page().String()).Inc()
	return &Router{
		session: sess,
		factory: factory,
		active:  factory(sess.Page(), sess, ""),
	}
}

// Init runs the first screen's Init.
func (r *Router) Init() tea.Cmd {
	return r.active.Init()
}

// Session returns the session the router drives.
func (r *Router) Session() *wizard.Session {
	return r.session
}

// Active returns the screen for the current page.
func (r *Router) Active() screen.Screen {
	return r.active
}

// Update applies navigation messages and forwards everything else to the
// active screen.
func (r *Router) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case ActionMsg:
		from := r.session.Page()
		if !r.session.Activate(msg.Action) {
			return nil
		}
		metrics.TransitionsTotal.WithLabelValues(from.String(), r.session.Page().String()).Inc()
		return r.show(msg.Notice)
	case GotoMsg:
		r.session.Goto(msg.Page)
		return r.show("")
	case ResetMsg:
		r.session.Reset()
		return r.show("")
	}

	updated, cmd := r.active.Update(msg)
	r.active = updated
	return cmd
}

// show replaces the active screen with one for the session's page.
func (r *Router) show(notice string) tea.Cmd {
	page := r.session.Page()
	r.active = r.factory(page, r.session, notice)
	metrics.PageViewsTotal.WithLabelValues(page.String()).Inc()
	return r.active.Init()
}

// View renders the active screen.
func (r *Router) View(width, height int) string {
	return r.active.View(width, height)
}
