package handler

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/lumenlms/lumen-backend/internal/middleware"
	"github.com/lumenlms/lumen-backend/internal/response"
	"github.com/lumenlms/lumen-backend/internal/service"
)

// AdminHandler exposes the reporting surface. Every route sits behind the
// admin middleware; the services re-check the role themselves.
type AdminHandler struct {
	identity  *service.IdentityService
	analytics *service.AnalyticsService
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(identity *service.IdentityService, analytics *service.AnalyticsService) *AdminHandler {
	return &AdminHandler{identity: identity, analytics: analytics}
}

// Overview godoc
// GET /api/v1/admin/overview
func (h *AdminHandler) Overview(c *gin.Context) {
	sess := middleware.GetSession(c)

	overview, err := h.analytics.Overview(c.Request.Context(), sess)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"overview": overview})
}

// ModuleStats godoc
// GET /api/v1/admin/modules
func (h *AdminHandler) ModuleStats(c *gin.Context) {
	sess := middleware.GetSession(c)

	stats, err := h.analytics.PerModuleStats(c.Request.Context(), sess)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"modules": stats})
}

// Accounts godoc
// GET /api/v1/admin/accounts
func (h *AdminHandler) Accounts(c *gin.Context) {
	sess := middleware.GetSession(c)

	accounts, err := h.identity.ListAccounts(c.Request.Context(), sess)
	if err != nil {
		failFromError(c, err)
		return
	}
	response.Success(c, http.StatusOK, gin.H{"accounts": accounts})
}

// ExportCSV godoc
// GET /api/v1/admin/export
// Streams every recorded quiz result as a CSV attachment.
func (h *AdminHandler) ExportCSV(c *gin.Context) {
	sess := middleware.GetSession(c)

	rows, err := h.analytics.ExportTabular(c.Request.Context(), sess)
	if err != nil {
		failFromError(c, err)
		return
	}

	filename := fmt.Sprintf("quiz-results-%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Status(http.StatusOK)

	w := csv.NewWriter(c.Writer)
	if err := w.Write(service.TabularHeader); err != nil {
		return
	}
	for _, row := range rows {
		if err := w.Write(row); err != nil {
			return
		}
	}
	w.Flush()
}
