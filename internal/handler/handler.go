// Package handler wires the HTTP surface: config options, test generation,
// question fetch, answer recording, submission and scoring.
package handler

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/pavelanni/testprep/internal/catalog"
	"github.com/pavelanni/testprep/internal/generator"
	"github.com/pavelanni/testprep/internal/llm"
	"github.com/pavelanni/testprep/internal/model"
	"github.com/pavelanni/testprep/internal/session"
)

// QuestionGenerator produces a validated question set for a test config.
type QuestionGenerator interface {
	Generate(ctx context.Context, cfg model.TestConfig) ([]model.Question, error)
}

// Handler holds shared dependencies for HTTP handlers.
type Handler struct {
	generator QuestionGenerator
	sessions  *session.Store
}

// New creates a new Handler.
func New(g QuestionGenerator, s *session.Store) *Handler {
	return &Handler{generator: g, sessions: s}
}

// Routes registers all HTTP routes.
func (h *Handler) Routes(r chi.Router) {
	r.Get("/", h.handleRoot)
	r.Get("/config/options", h.handleConfigOptions)
	r.Post("/generate-test", h.handleGenerateTest)
	r.Get("/question/{sessionID}/{index}", h.handleGetQuestion)
	r.Post("/answer/{sessionID}/{index}", h.handleAnswer)
	r.Post("/submit/{sessionID}", h.handleSubmit)
	r.Get("/test-summary/{sessionID}", h.handleTestSummary)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, detail any) {
	writeJSON(w, status, model.ErrorResponse{Detail: detail})
}

func (h *Handler) handleRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Exam Practice API",
		"status":  "running",
	})
}

func (h *Handler) handleConfigOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, catalog.DefaultOptions())
}

func (h *Handler) handleGenerateTest(w http.ResponseWriter, r *http.Request) {
	var cfg model.TestConfig
	if err := json.NewDecoder(r.Body).Decode(&cfg); err != nil {
		writeError(w, http.StatusUnprocessableEntity, "invalid JSON in request body")
		return
	}

	if err := cfg.Validate(); err != nil {
		var vErr *model.ValidationError
		if errors.As(err, &vErr) {
			writeError(w, http.StatusUnprocessableEntity, vErr.Fields)
			return
		}
		writeError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	slog.Info("generating test", "domain", cfg.Domain, "topic", cfg.Topic, "num_questions", cfg.NumQuestions)
	questions, err := h.generator.Generate(r.Context(), cfg)
	if err != nil {
		slog.Error("test generation failed", "error", err)
		if isGenerationFailure(err) {
			writeError(w, http.StatusServiceUnavailable,
				"AI question generation failed: "+err.Error()+". Please check your API key and try again.")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}

	id := h.sessions.Create(cfg, questions)
	slog.Info("created session", "session_id", id, "num_questions", len(questions))

	writeJSON(w, http.StatusOK, model.GenerateTestResponse{
		SessionID:    id,
		NumQuestions: len(questions),
		Config:       cfg,
	})
}

// isGenerationFailure reports whether err belongs to the generation pipeline
// taxonomy surfaced to clients as service-unavailable.
func isGenerationFailure(err error) bool {
	var (
		cfgErr *llm.ConfigError
		trErr  *llm.TransientError
		upErr  *llm.UpstreamError
		malErr *generator.MalformedResponseError
		insErr *generator.InsufficientError
	)
	return errors.As(err, &cfgErr) ||
		errors.As(err, &trErr) ||
		errors.As(err, &upErr) ||
		errors.As(err, &malErr) ||
		errors.As(err, &insErr)
}

func (h *Handler) handleGetQuestion(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question index")
		return
	}

	sess := h.sessions.Get(sessionID)
	if sess == nil {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}
	if index < 0 || index >= len(sess.Questions) {
		writeError(w, http.StatusBadRequest, "Invalid question index")
		return
	}

	q := sess.Questions[index]
	writeJSON(w, http.StatusOK, model.QuestionResponse{
		QuestionIndex:  index,
		TotalQuestions: len(sess.Questions),
		Question:       q.Question,
		Options:        q.Options,
		UserAnswer:     sess.UserAnswers[index],
		CorrectAnswer:  q.CorrectAnswer,
	})
}

func (h *Handler) handleAnswer(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid question index")
		return
	}

	sess := h.sessions.Get(sessionID)
	if sess == nil {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}
	if sess.Submitted {
		writeError(w, http.StatusBadRequest, "Test already submitted")
		return
	}

	var req model.AnswerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Answer == "" {
		writeError(w, http.StatusBadRequest, "Answer is required")
		return
	}

	if !h.sessions.UpdateAnswer(sessionID, index, req.Answer) {
		writeError(w, http.StatusBadRequest, "Invalid answer or question index")
		return
	}

	writeJSON(w, http.StatusOK, model.AnswerResponse{Success: true, Message: "Answer saved"})
}

func (h *Handler) handleSubmit(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess := h.sessions.Submit(sessionID)
	if sess == nil {
		writeError(w, http.StatusNotFound, "Session not found, expired, or already submitted")
		return
	}

	score := 0
	results := make([]model.QuestionResult, len(sess.Questions))
	for i, q := range sess.Questions {
		ua := sess.UserAnswers[i]
		correct := ua != nil && *ua == q.CorrectAnswer
		if correct {
			score++
		}
		results[i] = model.QuestionResult{
			QuestionIndex: i,
			Question:      q.Question,
			Options:       q.Options,
			UserAnswer:    ua,
			CorrectAnswer: q.CorrectAnswer,
			IsCorrect:     correct,
		}
	}

	percentage := math.Round(float64(score)/float64(len(sess.Questions))*10000) / 100

	writeJSON(w, http.StatusOK, model.SubmitResponse{
		SessionID:  sessionID,
		Score:      score,
		Total:      len(sess.Questions),
		Percentage: percentage,
		Results:    results,
		Config:     sess.Config,
	})
}

func (h *Handler) handleTestSummary(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	sess := h.sessions.Get(sessionID)
	if sess == nil {
		writeError(w, http.StatusNotFound, "Session not found or expired")
		return
	}

	writeJSON(w, http.StatusOK, model.TestSummaryResponse{
		SessionID:    sessionID,
		NumQuestions: len(sess.Questions),
		NumAnswered:  sess.NumAnswered(),
		Submitted:    sess.Submitted,
		Config:       sess.Config,
	})
}
