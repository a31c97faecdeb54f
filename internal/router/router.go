package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/lumenlms/lumen-backend/internal/config"
	"github.com/lumenlms/lumen-backend/internal/handler"
	"github.com/lumenlms/lumen-backend/internal/middleware"
	"github.com/lumenlms/lumen-backend/internal/response"
	"github.com/lumenlms/lumen-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth     *handler.AuthHandler
	Catalog  *handler.CatalogHandler
	Attempt  *handler.AttemptHandler
	Progress *handler.ProgressHandler
	Admin    *handler.AdminHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	tokens *service.TokenService,
	identity *service.IdentityService,
	handlers *Handlers,
	cfg *config.Config,
) *gin.Engine {
	gin.SetMode(cfg.GinMode)
	router := gin.Default()

	// ─── CORS ──────────────────────────────────────────────────────────
	// If AllowedOrigins is set in config, restrict to that list;
	// otherwise allow all (*) so dev works without extra config.
	corsConfig := cors.DefaultConfig()
	if len(cfg.AllowedOrigins) > 0 {
		corsConfig.AllowOrigins = cfg.AllowedOrigins
	} else {
		corsConfig.AllowAllOrigins = true
	}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for auth routes (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	auth.Use(authLimiter.Middleware())
	{
		auth.POST("/signup", handlers.Auth.Signup)
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireAuth(tokens), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireAuth(tokens), handlers.Auth.Me)
	}

	// ─── 2. Catalog Group (Authenticated) ──────────────────────────────
	catalogAPI := router.Group("/api/v1/catalog")
	catalogAPI.Use(middleware.RequireAuth(tokens))
	{
		catalogAPI.GET("/modules", handlers.Catalog.ListModules)
		catalogAPI.GET("/lessons/:lesson_id", handlers.Catalog.GetLesson)
		catalogAPI.GET("/lessons/:lesson_id/sections/:section_id/paper", handlers.Catalog.GetQuizPaper)
	}

	// ─── 3. Attempt Group (Authenticated) ──────────────────────────────
	attemptAPI := router.Group("/api/v1/attempt")
	attemptAPI.Use(middleware.RequireAuth(tokens))
	{
		attemptAPI.POST("/start", handlers.Attempt.Start)
		attemptAPI.POST("/answer", handlers.Attempt.SelectAnswer)
		attemptAPI.POST("/navigate", handlers.Attempt.Navigate)
		attemptAPI.POST("/submit", handlers.Attempt.Submit)
		attemptAPI.POST("/cancel", handlers.Attempt.Cancel)
		attemptAPI.GET("/state", handlers.Attempt.State)
	}

	// ─── 4. Progress Group (Authenticated) ─────────────────────────────
	progressAPI := router.Group("/api/v1/progress")
	progressAPI.Use(middleware.RequireAuth(tokens))
	{
		progressAPI.GET("", handlers.Progress.Summary)
		progressAPI.DELETE("", handlers.Progress.Reset)
		progressAPI.POST("/sections/complete", handlers.Progress.CompleteSection)
		progressAPI.POST("/lessons/complete", handlers.Progress.CompleteLesson)
		progressAPI.GET("/results", handlers.Progress.Results)
		progressAPI.GET("/export", handlers.Progress.Export)
		progressAPI.POST("/import", handlers.Progress.Import)
		progressAPI.GET("/certificate/:module_id", handlers.Progress.Certificate)
	}

	// ─── 5. WebSocket Group (Query Token Auth) ─────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireWSAuth(tokens))
	{
		ws.GET("/attempt/stream", handlers.WS.AttemptStream)
	}

	// ─── 6. Admin Group (JWT + Role) ───────────────────────────────────
	adminAPI := router.Group("/api/v1/admin")
	adminAPI.Use(middleware.RequireAdmin(tokens, identity))
	{
		adminAPI.GET("/overview", handlers.Admin.Overview)
		adminAPI.GET("/modules", handlers.Admin.ModuleStats)
		adminAPI.GET("/accounts", handlers.Admin.Accounts)
		adminAPI.GET("/export", handlers.Admin.ExportCSV)
	}

	return router
}
