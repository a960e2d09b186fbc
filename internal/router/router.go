package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/scholarspoint/sphub-backend/internal/config"
	"github.com/scholarspoint/sphub-backend/internal/handler"
	"github.com/scholarspoint/sphub-backend/internal/middleware"
	"github.com/scholarspoint/sphub-backend/internal/response"
	"github.com/scholarspoint/sphub-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth       *handler.AuthHandler
	Student    *handler.StudentHandler
	Attendance *handler.AttendanceHandler
	Fee        *handler.FeeHandler
	Dashboard  *handler.DashboardHandler
	Birthday   *handler.BirthdayHandler
	Backup     *handler.BackupHandler
	Insight    *handler.InsightHandler
	Message    *handler.MessageHandler
	WS         *handler.WSHandler
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
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Serve the dashboard frontend statically when configured.
	if cfg.WebDir != "" {
		webGroup := router.Group("/app")
		webGroup.Use(middleware.CacheControl(3600))
		{
			webGroup.Static("/", cfg.WebDir)
		}
	}

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Rate limiter for the gate (10 attempts per minute per IP).
	gateLimiter := middleware.NewRateLimiter(10, time.Minute)

	// ─── 1. Auth Group (Public, Rate Limited) ──────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", gateLimiter.Middleware(), handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireGateJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireGateJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Gated API (JWT + Active Session) ───────────────────────────
	api := router.Group("/api/v1")
	api.Use(
		middleware.RequireGateJWT(authService),
		middleware.CheckGateSession(authService),
	)
	{
		// Roster
		api.GET("/students", handlers.Student.List)
		api.POST("/students", handlers.Student.Create)
		api.PUT("/students/:id", handlers.Student.Update)
		api.POST("/students/:id/archive", handlers.Student.Archive)
		api.POST("/students/:id/restore", handlers.Student.Restore)

		// Attendance
		api.GET("/attendance/day", handlers.Attendance.Day)
		api.POST("/attendance/mark", handlers.Attendance.Mark)
		api.POST("/attendance/cycle", handlers.Attendance.Cycle)
		api.POST("/attendance/holiday", handlers.Attendance.Holiday)
		api.GET("/attendance/monthly", handlers.Attendance.Monthly)

		// Fees
		api.GET("/fees/summary", handlers.Fee.Summary)
		api.POST("/fees/status", handlers.Fee.SetStatus)

		// Dashboard and birthdays
		api.GET("/dashboard", handlers.Dashboard.Overview)
		api.GET("/birthdays", handlers.Birthday.Windows)

		// Backup / restore / CSV
		api.GET("/backup/export", handlers.Backup.Export)
		api.POST("/backup/import", handlers.Backup.Import)
		api.GET("/backup/roster.csv", handlers.Backup.RosterCSV)

		// AI insight
		api.POST("/insights/generate", handlers.Insight.Generate)
		api.GET("/insights/latest", handlers.Insight.Latest)

		// WhatsApp links
		api.POST("/messages/absence", handlers.Message.AbsenceAlert)
		api.POST("/messages/fee-reminder", handlers.Message.FeeReminder)
		api.POST("/messages/fee-receipt", handlers.Message.FeeReceipt)
		api.GET("/messages/broadcast-contacts", handlers.Message.BroadcastContacts)
	}

	// ─── 3. WebSocket Group (WS Auth) ──────────────────────────────────
	ws := router.Group("/ws/v1")
	ws.Use(middleware.RequireGateWSAuth(authService))
	{
		ws.GET("/state", handlers.WS.StateStream)
	}

	return router
}
