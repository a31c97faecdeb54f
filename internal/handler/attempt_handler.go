package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlms/lumen-backend/internal/middleware"
	"github.com/lumenlms/lumen-backend/internal/response"
	"github.com/lumenlms/lumen-backend/internal/service"
	"github.com/lumenlms/lumen-backend/internal/validator"
)

// AttemptHandler drives timed quiz attempts over HTTP.
type AttemptHandler struct {
	attempts *service.AttemptService
}

// NewAttemptHandler creates a new AttemptHandler.
func NewAttemptHandler(attempts *service.AttemptService) *AttemptHandler {
	return &AttemptHandler{attempts: attempts}
}

type startAttemptRequest struct {
	LessonID  string `json:"lesson_id" binding:"required"`
	SectionID string `json:"section_id" binding:"required"`
}

type selectAnswerRequest struct {
	QuestionIndex *int `json:"question_index" binding:"required"`
	OptionIndex   *int `json:"option_index" binding:"required"`
}

type navigateRequest struct {
	Direction string `json:"direction" binding:"required,oneof=forward back"`
}

// Start godoc
// POST /api/v1/attempts
// Starts a timed attempt at the quiz gating a lesson section.
func (h *AttemptHandler) Start(c *gin.Context) {
	sess := middleware.GetSession(c)
	var req startAttemptRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.attempts.Start(sess.Account.ID, req.LessonID, req.SectionID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusCreated, gin.H{"state": state})
}

// SelectAnswer godoc
// POST /api/v1/attempts/answer
// Records (or overwrites) the chosen option for one question.
func (h *AttemptHandler) SelectAnswer(c *gin.Context) {
	sess := middleware.GetSession(c)
	var req selectAnswerRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.attempts.SelectAnswer(sess.Account.ID, *req.QuestionIndex, *req.OptionIndex)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// Navigate godoc
// POST /api/v1/attempts/navigate
// Moves the question cursor forward or back, clamped at the ends.
func (h *AttemptHandler) Navigate(c *gin.Context) {
	sess := middleware.GetSession(c)
	var req navigateRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	state, err := h.attempts.Navigate(sess.Account.ID, req.Direction == "forward")
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}

// Submit godoc
// POST /api/v1/attempts/submit
// Scores the attempt, persists its result and records the section outcome.
func (h *AttemptHandler) Submit(c *gin.Context) {
	sess := middleware.GetSession(c)

	result, err := h.attempts.Submit(c.Request.Context(), sess.Account.ID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"result": result})
}

// Cancel godoc
// DELETE /api/v1/attempts
// Abandons the active attempt; nothing is persisted.
func (h *AttemptHandler) Cancel(c *gin.Context) {
	sess := middleware.GetSession(c)
	h.attempts.Cancel(sess.Account.ID)
	response.Success(c, http.StatusOK, gin.H{})
}

// State godoc
// GET /api/v1/attempts
// Returns the active attempt's snapshot.
func (h *AttemptHandler) State(c *gin.Context) {
	sess := middleware.GetSession(c)

	state, err := h.attempts.State(sess.Account.ID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"state": state})
}
