package web

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/carescreen/internal/logging"
	"github.com/abhisek/carescreen/internal/metrics"
	"github.com/abhisek/carescreen/internal/questionnaire"
	"github.com/abhisek/carescreen/internal/riskmodel"
	"github.com/abhisek/carescreen/internal/suggest"
	"github.com/abhisek/carescreen/internal/wizard"
)

//go:embed templates/*.html
var templateFS embed.FS

var pageTemplates = map[wizard.Page]string{
	wizard.Home:       "templates/home.html",
	wizard.Assessment: "templates/assessment.html",
	wizard.Results:    "templates/results.html",
	wizard.Feedback:   "templates/feedback.html",
}

var actionPaths = map[wizard.Action]string{
	wizard.StartAssessment: "/actions/start",
	wizard.Submit:          "/actions/submit",
	wizard.GoHome:          "/actions/home",
	wizard.SubmitFeedback:  "/actions/feedback",
}

// parseTemplates builds one template set per page, each sharing the layout.
func parseTemplates() (map[wizard.Page]*template.Template, error) {
	out := make(map[wizard.Page]*template.Template, len(pageTemplates))
	for page, file := range pageTemplates {
		t, err := template.ParseFS(templateFS, "templates/layout.html", file)
		if err != nil {
			return nil, fmt.Errorf("parse %s template: %w", page, err)
		}
		out[page] = t
	}
	return out, nil
}

type actionButton struct {
	Label string
	Path  string
}

type optionView struct {
	Value   string
	Caption string
}

type questionView struct {
	Key     string
	Prompt  string
	Value   string
	Options []optionView
}

type sectionView struct {
	Title     string
	Questions []questionView
}

type resultView struct {
	Label              string
	Message            string
	Caveat             string
	SuggestionsHeading string
	Suggestions        suggest.Result
	Chart              barChart
}

type pageData struct {
	Catalog  *questionnaire.Catalog
	Page     string
	Notice   string
	Actions  []actionButton
	Sections []sectionView
	Result   *resultView
}

func (s *Server) showPage(c *gin.Context) {
	e := s.session(c)

	e.mu.Lock()
	page := e.session.Page()
	answers := e.session.Answers()
	notice := e.notice
	e.notice = ""
	e.mu.Unlock()

	data := pageData{
		Catalog: s.catalog,
		Page:    page.String(),
		Notice:  notice,
	}
	for _, a := range wizard.Actions(page) {
		data.Actions = append(data.Actions, actionButton{Label: a.Label(), Path: actionPaths[a]})
	}

	switch page {
	case wizard.Assessment:
		data.Sections = s.sectionViews(answers)
	case wizard.Results:
		res, err := s.result(c.Request.Context(), answers)
		if err != nil {
			logging.L(c.Request.Context()).Error("prediction failed", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
				"error":   "internal_error",
				"message": "An unexpected error occurred",
			})
			return
		}
		data.Result = res
	}

	metrics.PageViewsTotal.WithLabelValues(page.String()).Inc()
	s.render(c, page, data)
}

func (s *Server) render(c *gin.Context, page wizard.Page, data pageData) {
	var buf bytes.Buffer
	if err := s.templates[page].ExecuteTemplate(&buf, "layout", data); err != nil {
		logging.L(c.Request.Context()).Error("render failed", "page", page.String(), "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": "An unexpected error occurred",
		})
		return
	}
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "text/html; charset=utf-8", buf.Bytes())
}

func (s *Server) sectionViews(answers questionnaire.AnswerSet) []sectionView {
	out := make([]sectionView, 0, len(s.catalog.Sections))
	for _, sec := range s.catalog.Sections {
		sv := sectionView{Title: sec.Title}
		for _, q := range sec.Questions {
			qv := questionView{
				Key:    string(q.Key),
				Prompt: q.Prompt,
				Value:  string(answers.Get(q.Key)),
			}
			for _, opt := range questionnaire.Options {
				caption := string(opt)
				if opt == questionnaire.Unanswered {
					caption = "No answer"
				}
				qv.Options = append(qv.Options, optionView{Value: string(opt), Caption: caption})
			}
			sv.Questions = append(sv.Questions, qv)
		}
		out = append(out, sv)
	}
	return out
}

// result classifies answers and gathers the rest of the results page.
func (s *Server) result(ctx context.Context, answers questionnaire.AnswerSet) (*resultView, error) {
	features := answers.Encode()
	label, err := s.model.Predict(features.Slice())
	if err != nil {
		return nil, err
	}
	metrics.PredictionsTotal.WithLabelValues(label.String()).Inc()

	return &resultView{
		Label:              label.String(),
		Message:            s.message(label),
		Caveat:             s.catalog.Results.Caveat,
		SuggestionsHeading: s.catalog.Results.SuggestionsHeading,
		Suggestions:        s.suggester.Suggest(ctx, answers),
		Chart:              newBarChart(s.catalog.Results.ChartTitle, features),
	}, nil
}

func (s *Server) message(label riskmodel.Label) string {
	if label == riskmodel.HigherRisk {
		return s.catalog.Results.Higher
	}
	return s.catalog.Results.Lower
}

// session returns the caller's session, starting a new one when the cookie
// is missing, unknown or expired.
// The cookie is reissued on every request so its lifetime slides with the
// server-side TTL.
func (s *Server) session(c *gin.Context) *entry {
	var (
		e  *entry
		ok bool
	)
	if id, err := c.Cookie(cookieName); err == nil {
		e, ok = s.sessions.get(id)
	}
	if !ok {
		e = s.sessions.create()
	}
	s.setCookie(c, e.session.ID)
	return e
}

func (s *Server) setCookie(c *gin.Context, id string) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cookieName, id, int(s.cfg.SessionTTL.Seconds()), "/", "", s.cfg.IsProduction(), true)
}

// action applies a button press. A press that does not belong to the
// current page (a stale form, a second tab) is ignored. before runs under
// the session lock, only when the action applies, and may reject the
// request.
func (s *Server) action(a wizard.Action, before func(c *gin.Context, e *entry) error) gin.HandlerFunc {
	return func(c *gin.Context) {
		e := s.session(c)

		e.mu.Lock()
		defer e.mu.Unlock()

		from := e.session.Page()
		if from != a.Source() {
			logging.L(c.Request.Context()).Debug("stale action ignored",
				"action", a.String(),
				"page", from.String(),
			)
			c.Redirect(http.StatusSeeOther, "/")
			return
		}

		if before != nil {
			if err := before(c, e); err != nil {
				c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
					"error":   "invalid_request",
					"message": err.Error(),
				})
				return
			}
		}

		e.session.Activate(a)
		metrics.TransitionsTotal.WithLabelValues(from.String(), e.session.Page().String()).Inc()
		c.Redirect(http.StatusSeeOther, "/")
	}
}

// recordAnswers stores the ten answers of the assessment form. Every value
// is checked before any is recorded; a missing field is unanswered.
func (s *Server) recordAnswers(c *gin.Context, e *entry) error {
	keys := questionnaire.Keys()
	values := make([]questionnaire.Answer, len(keys))
	for i, k := range keys {
		a, err := questionnaire.ParseAnswer(c.PostForm(string(k)))
		if err != nil {
			return fmt.Errorf("%s: %w", k, err)
		}
		values[i] = a
	}
	for i, k := range keys {
		if err := e.session.RecordAnswer(k, values[i]); err != nil {
			return err
		}
	}
	return nil
}

// acknowledgeFeedback discards the feedback text and queues the thank-you
// notice for the home page.
func (s *Server) acknowledgeFeedback(c *gin.Context, e *entry) error {
	logging.L(c.Request.Context()).Info("feedback received", "length", len(c.PostForm("feedback")))
	e.notice = s.catalog.Feedback.Thanks
	return nil
}

// resetSession drops the caller's session and starts a new one.
func (s *Server) resetSession(c *gin.Context) {
	if id, err := c.Cookie(cookieName); err == nil {
		s.sessions.remove(id)
	}
	e := s.sessions.create()
	s.setCookie(c, e.session.ID)
	c.Redirect(http.StatusSeeOther, "/")
}
