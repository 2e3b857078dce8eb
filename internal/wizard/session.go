// Package wizard holds the per-session questionnaire state machine: the
// current page and the accumulated answers.
package wizard

import (
	"github.com/google/uuid"

	"github.com/abhisek/carescreen/internal/questionnaire"
)

// Session is one user's pass through the questionnaire. It is not safe for
// concurrent use; surfaces serialize interactions per session.
type Session struct {
	ID      string
	page    Page
	answers questionnaire.AnswerSet
}

// New returns a session on the Home page with every question unanswered.
func New() *Session {
	return &Session{ID: uuid.NewString()}
}

// Page returns the current page.
func (s *Session) Page() Page {
	return s.page
}

// Goto makes target the current page. No prior step is checked.
func (s *Session) Goto(target Page) {
	s.page = target
}

// RecordAnswer stores value for key. Unknown keys and values are rejected
// with questionnaire.ErrInvalidKey / questionnaire.ErrInvalidAnswer.
func (s *Session) RecordAnswer(key questionnaire.Key, value questionnaire.Answer) error {
	return s.answers.Set(key, value)
}

// Answers returns a copy of the accumulated answers.
func (s *Session) Answers() questionnaire.AnswerSet {
	return s.answers
}

// Encode recodes the current answers; unanswered questions count as No.
func (s *Session) Encode() questionnaire.Features {
	return s.answers.Encode()
}

// Activate applies the transition for a button. It reports false, leaving
// the session untouched, when the current page does not render that button.
func (s *Session) Activate(a Action) bool {
	t, ok := transitions[a]
	if !ok || t.from != s.page {
		return false
	}
	s.page = t.to
	return true
}

// Reset starts the session over: Home page, no answers. The ID is kept.
func (s *Session) Reset() {
	s.page = Home
	s.answers = questionnaire.NewAnswerSet()
}
