package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/civicsprep/civicsprep-backend/internal/config"
	"github.com/civicsprep/civicsprep-backend/internal/handler"
	"github.com/civicsprep/civicsprep-backend/internal/middleware"
	"github.com/civicsprep/civicsprep-backend/internal/response"
	"github.com/civicsprep/civicsprep-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth      *handler.AuthHandler
	Practice  *handler.PracticeHandler
	Progress  *handler.ProgressHandler
	Streak    *handler.StreakHandler
	Analytics *handler.AnalyticsHandler
	WS        *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(
	authService *service.AuthService,
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"}
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

	// Rate limiter for credential endpoints (30 requests per minute per IP).
	authLimiter := middleware.NewRateLimiter(30, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/signup", authLimiter.Middleware(), handlers.Auth.Signup)
		auth.POST("/login", authLimiter.Middleware(), handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireUserJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireUserJWT(authService), handlers.Auth.GetProfile)
	}

	// ─── 2. App Group (JWT) ────────────────────────────────────────────
	api := router.Group("/api/v1")
	api.Use(middleware.RequireUserJWT(authService))
	{
		// Practice
		api.GET("/practice/questions", handlers.Practice.GetQuestions)
		api.GET("/practice/session", handlers.Practice.GetSession)
		api.PUT("/practice/session", handlers.Practice.SaveSession)
		api.DELETE("/practice/session", handlers.Practice.ClearSession)

		// Progress + sync queue
		api.POST("/progress/attempts", handlers.Progress.RecordAttempt)
		api.POST("/progress/sessions", handlers.Progress.RecordSession)
		api.POST("/progress/sync/retry", handlers.Progress.RetrySync)
		api.GET("/progress/sync/pending", handlers.Progress.GetPendingCount)
		api.GET("/progress/last-session", handlers.Progress.GetLastSession)

		// Streaks
		api.GET("/streaks", handlers.Streak.GetStreak)
		api.GET("/streaks/today", handlers.Streak.HasPracticedToday)

		// Analytics
		api.GET("/analytics/overview", handlers.Analytics.GetOverview)
		api.GET("/analytics/sessions", handlers.Analytics.GetRecentSessions)
		api.GET("/analytics/modules/:mode", handlers.Analytics.GetModuleStats)
		api.GET("/analytics/categories", handlers.Analytics.GetCategoryPerformance)
		api.GET("/analytics/progress", handlers.Analytics.GetProgressOverTime)
	}

	// ─── 3. WebSocket Group (WS Auth via query token) ──────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireUserWSAuth(authService))
	{
		ws.GET("/progress/stream", handlers.WS.ProgressStream)
	}

	return router
}
