package wizard

import "fmt"

// Page is one screen of the questionnaire.
type Page int

const (
	Home Page = iota
	Assessment
	Results
	Feedback
)

// Pages lists every page in declaration order.
var Pages = []Page{Home, Assessment, Results, Feedback}

func (p Page) String() string {
	switch p {
	case Home:
		return "Home"
	case Assessment:
		return "Assessment"
	case Results:
		return "Results"
	case Feedback:
		return "Feedback"
	default:
		return fmt.Sprintf("Page(%d)", int(p))
	}
}

// Valid reports whether p is one of the four pages.
func (p Page) Valid() bool {
	return p >= Home && p <= Feedback
}

// ParsePage is the inverse of Page.String.
func ParsePage(s string) (Page, error) {
	for _, p := range Pages {
		if p.String() == s {
			return p, nil
		}
	}
	return Home, fmt.Errorf("unknown page %q", s)
}

// Action is a button a page renders.
type Action int

const (
	StartAssessment Action = iota
	Submit
	GoHome
	SubmitFeedback
)

// Label returns the button caption.
func (a Action) Label() string {
	switch a {
	case StartAssessment:
		return "Start Assessment"
	case Submit:
		return "Submit"
	case GoHome:
		return "Go Home"
	case SubmitFeedback:
		return "Submit Feedback"
	default:
		return fmt.Sprintf("Action(%d)", int(a))
	}
}

func (a Action) String() string {
	return a.Label()
}

// transition describes the page an action is rendered on and where it leads.
type transition struct {
	from, to Page
}

var transitions = map[Action]transition{
	StartAssessment: {from: Home, to: Assessment},
	Submit:          {from: Assessment, to: Results},
	GoHome:          {from: Results, to: Home},
	SubmitFeedback:  {from: Feedback, to: Home},
}

// Source returns the page that renders a's button.
func (a Action) Source() Page {
	return transitions[a].from
}

// Target returns the page a leads to.
func (a Action) Target() Page {
	return transitions[a].to
}

// Actions returns the buttons rendered on p. No page renders a button that
// leads into Feedback; it is only reachable through Session.Goto.
func Actions(p Page) []Action {
	var out []Action
	for _, a := range []Action{StartAssessment, Submit, GoHome, SubmitFeedback} {
		if transitions[a].from == p {
			out = append(out, a)
		}
	}
	return out
}
