package web

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/abhisek/carescreen/internal/metrics"
	"github.com/abhisek/carescreen/internal/questionnaire"
)

// QuestionsResponse is the body of GET /api/v1/questions.
type QuestionsResponse struct {
	Title    string                  `json:"title"`
	Sections []questionnaire.Section `json:"sections"`
	Options  []questionnaire.Answer  `json:"options"`
}

// PredictResponse is the body of POST /api/v1/predict.
type PredictResponse struct {
	Features []float64 `json:"features"`
	Class    int       `json:"class"`
	Label    string    `json:"label"`
	Message  string    `json:"message"`
	Caveat   string    `json:"caveat"`
}

// ModelResponse is the body of GET /api/v1/model.
type ModelResponse struct {
	Features         []string `json:"features"`
	Samples          int      `json:"samples"`
	TrainingAccuracy float64  `json:"training_accuracy"`
	Seed             uint64   `json:"seed"`
	Tree             string   `json:"tree"`
}

func (s *Server) questionsHandler(c *gin.Context) {
	c.JSON(http.StatusOK, QuestionsResponse{
		Title:    s.catalog.Title,
		Sections: s.catalog.Sections,
		Options:  questionnaire.Options,
	})
}

// predictHandler classifies a JSON object of key to "", "No" or "Yes".
// Absent keys count as unanswered. No session is involved.
func (s *Server) predictHandler(c *gin.Context) {
	var raw map[string]string
	if err := c.ShouldBindJSON(&raw); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   "invalid_request",
			"message": "body must be a JSON object of question key to answer",
		})
		return
	}

	answers, err := questionnaire.FromMap(raw)
	if err != nil {
		code := "invalid_request"
		switch {
		case errors.Is(err, questionnaire.ErrInvalidKey):
			code = "invalid_key"
		case errors.Is(err, questionnaire.ErrInvalidAnswer):
			code = "invalid_answer"
		}
		c.JSON(http.StatusBadRequest, gin.H{
			"error":   code,
			"message": err.Error(),
		})
		return
	}

	features := answers.Encode().Slice()
	label, err := s.model.Predict(features)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal_error",
			"message": err.Error(),
		})
		return
	}
	metrics.PredictionsTotal.WithLabelValues(label.String()).Inc()

	c.JSON(http.StatusOK, PredictResponse{
		Features: features,
		Class:    int(label),
		Label:    label.String(),
		Message:  s.message(label),
		Caveat:   s.catalog.Results.Caveat,
	})
}

func (s *Server) modelHandler(c *gin.Context) {
	c.JSON(http.StatusOK, ModelResponse{
		Features:         questionnaire.KeyNames(),
		Samples:          s.model.Samples(),
		TrainingAccuracy: s.model.TrainingAccuracy(),
		Seed:             s.cfg.ModelSeed,
		Tree:             s.model.Describe(),
	})
}
