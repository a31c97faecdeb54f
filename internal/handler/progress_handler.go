package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lumenlms/lumen-backend/internal/content"
	"github.com/lumenlms/lumen-backend/internal/middleware"
	"github.com/lumenlms/lumen-backend/internal/response"
	"github.com/lumenlms/lumen-backend/internal/service"
	"github.com/lumenlms/lumen-backend/internal/validator"
)

// ProgressHandler exposes the completion tracker: summaries, explicit
// completions, backup/restore and certificate eligibility.
type ProgressHandler struct {
	progress *service.ProgressService
	catalog  *content.Catalog
}

// NewProgressHandler creates a new ProgressHandler.
func NewProgressHandler(progress *service.ProgressService, catalog *content.Catalog) *ProgressHandler {
	return &ProgressHandler{progress: progress, catalog: catalog}
}

type completeSectionRequest struct {
	LessonID  string `json:"lesson_id" binding:"required"`
	SectionID string `json:"section_id" binding:"required"`
}

type completeLessonRequest struct {
	ModuleID string `json:"module_id" binding:"required"`
	LessonID string `json:"lesson_id" binding:"required"`
}

type moduleSummary struct {
	ModuleID   string          `json:"module_id"`
	Percentage int             `json:"percentage"`
	Completed  bool            `json:"completed"`
	Lessons    []lessonSummary `json:"lessons"`
}

type lessonSummary struct {
	LessonID   string `json:"lesson_id"`
	Percentage int    `json:"percentage"`
	Completed  bool   `json:"completed"`
}

// Summary godoc
// GET /api/v1/progress
// Returns per-module and per-lesson completion plus the overall rollup.
func (h *ProgressHandler) Summary(c *gin.Context) {
	sess := middleware.GetSession(c)
	ctx := c.Request.Context()
	accountID := sess.Account.ID

	modules := make([]moduleSummary, 0, len(h.catalog.Modules))
	for _, m := range h.catalog.Modules {
		ms := moduleSummary{ModuleID: m.ID}
		var err error
		if ms.Percentage, err = h.progress.ModulePercent(ctx, accountID, m.ID); err != nil {
			failFromError(c, err)
			return
		}
		if ms.Completed, err = h.progress.IsModuleComplete(ctx, accountID, m.ID); err != nil {
			failFromError(c, err)
			return
		}
		for _, l := range m.Lessons {
			ls := lessonSummary{LessonID: l.ID}
			if ls.Percentage, err = h.progress.LessonPercent(ctx, accountID, l.ID); err != nil {
				failFromError(c, err)
				return
			}
			if ls.Completed, err = h.progress.IsLessonComplete(ctx, accountID, l.ID); err != nil {
				failFromError(c, err)
				return
			}
			ms.Lessons = append(ms.Lessons, ls)
		}
		modules = append(modules, ms)
	}

	overall, err := h.progress.Overall(ctx, accountID)
	if err != nil {
		failFromError(c, err)
		return
	}

	response.Success(c, http.StatusOK, gin.H{
		"modules": modules,
		"overall": overall,
	})
}

// CompleteSection godoc
// POST /api/v1/progress/sections/complete
// Marks a quizless section complete. Sections gated by a quiz are completed
// through attempts instead.
func (h *ProgressHandler) CompleteSection(c *gin.Context) {
	sess := middleware.GetSession(c)
	var req completeSectionRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	// A gated section cannot be completed by viewing.
	if _, gated := h.catalog.QuizForSection(req.LessonID, req.SectionID); gated {
		response.Fail(c, http.StatusConflict, response.ErrInvalidInput)
		return
	}

	if err := h.progress.RecordSectionOutcome(c.Request.Context(), sess.Account.ID, req.LessonID, req.SectionID, nil); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// CompleteLesson godoc
// POST /api/v1/progress/lessons/complete
// Idempotently adds a lesson to its module's completed set.
func (h *ProgressHandler) CompleteLesson(c *gin.Context) {
	sess := middleware.GetSession(c)
	var req completeLessonRequest
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.progress.MarkLessonComplete(c.Request.Context(), sess.Account.ID, req.ModuleID, req.LessonID); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Results godoc
// GET /api/v1/progress/results
// Returns the account's quiz-result log.
func (h *ProgressHandler) Results(c *gin.Context) {
	sess := middleware.GetSession(c)

	results, err := h.progress.Results(c.Request.Context(), sess.Account.ID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"results": results})
}

// Export godoc
// GET /api/v1/progress/export
// Returns the account's full progress blob for backup.
func (h *ProgressHandler) Export(c *gin.Context) {
	sess := middleware.GetSession(c)

	bag, err := h.progress.Export(c.Request.Context(), sess.Account.ID)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"progress": bag})
}

// Import godoc
// POST /api/v1/progress/import
// Restores a progress blob, replacing current progress entirely.
func (h *ProgressHandler) Import(c *gin.Context) {
	sess := middleware.GetSession(c)

	var req struct {
		Progress map[string]json.RawMessage `json:"progress" binding:"required"`
	}
	if fields := validator.Bind(c, &req); fields != nil {
		response.FailWithFields(c, http.StatusBadRequest, response.ErrValidation, fields)
		return
	}

	if err := h.progress.Import(c.Request.Context(), sess.Account.ID, req.Progress); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Reset godoc
// DELETE /api/v1/progress
// Wipes the account's progress and quiz results. Other accounts unaffected.
func (h *ProgressHandler) Reset(c *gin.Context) {
	sess := middleware.GetSession(c)

	if err := h.progress.ClearAll(c.Request.Context(), sess.Account.ID); err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{})
}

// Certificate godoc
// GET /api/v1/progress/certificate/:module_id
// Returns the data an external certificate renderer needs, once the module is
// complete.
func (h *ProgressHandler) Certificate(c *gin.Context) {
	sess := middleware.GetSession(c)
	moduleID := c.Param("module_id")

	module, ok := h.catalog.Module(moduleID)
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	complete, err := h.progress.IsModuleComplete(c.Request.Context(), sess.Account.ID, moduleID)
	if err != nil {
		failFromError(c, err)
		return
	}
	if !complete {
		response.Fail(c, http.StatusForbidden, response.ErrForbidden)
		return
	}

	response.Success(c, http.StatusOK, gin.H{"certificate": gin.H{
		"id":        uuid.New().String(),
		"user_name": sess.Account.FirstName + " " + sess.Account.LastName,
		"title":     module.Title,
		"date":      time.Now().Format("2006-01-02"),
	}})
}
