package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/ronish76/elearn-backend/internal/config"
	"github.com/ronish76/elearn-backend/internal/handler"
	"github.com/ronish76/elearn-backend/internal/middleware"
	"github.com/ronish76/elearn-backend/internal/response"
	"github.com/ronish76/elearn-backend/internal/service"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Auth *handler.AuthHandler
	Quiz *handler.QuizHandler
	WS   *handler.WSHandler
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
	corsConfig.AllowMethods = []string{"GET", "POST", "OPTIONS"}
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

	// ─── 1. Auth Group (Public) ────────────────────────────────────────
	auth := router.Group("/api/v1/auth")
	{
		auth.POST("/login", handlers.Auth.Login)

		// Authenticated profile routes
		auth.POST("/logout", middleware.RequireStudentJWT(authService), handlers.Auth.Logout)
		auth.GET("/me", middleware.RequireStudentJWT(authService), handlers.Auth.Me)
	}

	// ─── 2. Student Group (JWT + Single Device) ────────────────────────
	studentAPI := router.Group("/api/v1")
	studentAPI.Use(
		middleware.RequireStudentJWT(authService),
		middleware.CheckSingleDeviceSession(authService),
	)
	{
		studentAPI.GET("/catalog", handlers.Quiz.GetCatalog)
		studentAPI.GET("/catalog/:subject/summary", handlers.Quiz.GetScoreSummary)

		studentAPI.POST("/session/start", handlers.Quiz.StartSession)
		studentAPI.GET("/session", handlers.Quiz.GetSession)
		studentAPI.POST("/session/answer", handlers.Quiz.RecordAnswer)
		studentAPI.POST("/session/next", handlers.Quiz.Next)
		studentAPI.POST("/session/previous", handlers.Quiz.Previous)
		studentAPI.POST("/session/finish", handlers.Quiz.Finish)
		studentAPI.POST("/session/abandon", handlers.Quiz.Abandon)
	}

	// ─── 3. WebSocket Group (token via query param) ────────────────────
	wsGroup := router.Group("/ws/v1")
	wsGroup.Use(middleware.RequireStudentJWT(authService))
	{
		wsGroup.GET("/session/stream", handlers.WS.SessionStream)
	}

	return router
}
