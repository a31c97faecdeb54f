package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/lumenlms/lumen-backend/internal/content"
	"github.com/lumenlms/lumen-backend/internal/response"
)

// CatalogHandler serves the read-only course structure and quiz papers.
type CatalogHandler struct {
	catalog *content.Catalog
}

// NewCatalogHandler creates a new CatalogHandler.
func NewCatalogHandler(catalog *content.Catalog) *CatalogHandler {
	return &CatalogHandler{catalog: catalog}
}

// quizPaper is a quiz definition with the correct indexes stripped. Clients
// never see answer keys; scoring happens server-side.
type quizPaper struct {
	ID           string          `json:"id"`
	Title        string          `json:"title"`
	SectionLabel string          `json:"section_label"`
	Questions    []paperQuestion `json:"questions"`
}

type paperQuestion struct {
	Prompt  string   `json:"prompt"`
	Kind    string   `json:"kind"`
	Options []string `json:"options"`
}

// ListModules godoc
// GET /api/v1/catalog/modules
func (h *CatalogHandler) ListModules(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"modules": h.catalog.Modules})
}

// GetLesson godoc
// GET /api/v1/catalog/lessons/:lesson_id
func (h *CatalogHandler) GetLesson(c *gin.Context) {
	lesson, module, ok := h.catalog.Lesson(c.Param("lesson_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}
	response.Success(c, http.StatusOK, gin.H{
		"lesson":    lesson,
		"module_id": module.ID,
	})
}

// GetQuizPaper godoc
// GET /api/v1/catalog/lessons/:lesson_id/sections/:section_id/paper
// Returns the section's gating quiz without its answer key.
func (h *CatalogHandler) GetQuizPaper(c *gin.Context) {
	def, ok := h.catalog.QuizForSection(c.Param("lesson_id"), c.Param("section_id"))
	if !ok {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	paper := quizPaper{
		ID:           def.ID,
		Title:        def.Title,
		SectionLabel: def.SectionLabel,
		Questions:    make([]paperQuestion, 0, len(def.Questions)),
	}
	for _, q := range def.Questions {
		paper.Questions = append(paper.Questions, paperQuestion{
			Prompt:  q.Prompt,
			Kind:    string(q.Kind),
			Options: q.Options,
		})
	}
	response.Success(c, http.StatusOK, gin.H{"paper": paper})
}
