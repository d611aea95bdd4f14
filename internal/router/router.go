package router

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/mederva/boardprep-backend/internal/config"
	"github.com/mederva/boardprep-backend/internal/handler"
	"github.com/mederva/boardprep-backend/internal/middleware"
	"github.com/mederva/boardprep-backend/internal/response"
)

// Handlers groups all handler instances for route setup.
type Handlers struct {
	Session  *handler.SessionHandler
	Review   *handler.ReviewHandler
	Stats    *handler.StatsHandler
	Backup   *handler.BackupHandler
	Document *handler.DocumentHandler
	WS       *handler.WSHandler
}

// SetupRouter configures all Gin route groups with appropriate middlewares.
func SetupRouter(handlers *Handlers, cfg *config.Config) *gin.Engine {
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
	corsConfig.AllowHeaders = []string{"Origin", "Content-Type", "X-Request-ID"}
	corsConfig.ExposeHeaders = []string{"X-Request-ID", "Content-Disposition"}
	corsConfig.MaxAge = 12 * time.Hour
	router.Use(cors.New(corsConfig))

	// Apply request ID middleware globally so every response includes metadata.
	router.Use(response.RequestIDMiddleware())

	// Apply brotli middleware globally.
	router.Use(middleware.Brotli())

	// Health check.
	router.GET("/health", func(c *gin.Context) {
		response.Success(c, http.StatusOK, gin.H{"status": "ok"})
	})

	// Generation endpoints hit the AI provider; keep them behind a
	// modest per-IP budget so a runaway client cannot burn the quota.
	generateLimiter := middleware.NewRateLimiter(20, time.Minute)

	v1 := router.Group("/api/v1")
	{
		// ─── Session ───────────────────────────────────────────────────
		session := v1.Group("/session")
		{
			session.GET("", handlers.Session.GetSession)
			session.POST("", generateLimiter.Middleware(), handlers.Session.StartSession)
			session.DELETE("", handlers.Session.DiscardSession)
			session.POST("/answer", handlers.Session.Answer)
			session.POST("/advance", handlers.Session.Advance)
			session.POST("/skip", handlers.Session.Skip)
			session.POST("/retreat", handlers.Session.Retreat)
		}

		// ─── Library & Review ──────────────────────────────────────────
		questions := v1.Group("/questions")
		{
			// Question and card content is immutable once generated.
			libraryCache := middleware.CacheControl(3600)
			questions.GET("/:id", libraryCache, handlers.Review.GetQuestion)
			questions.GET("/:id/cards", libraryCache, handlers.Review.GetCards)
			questions.POST("/:id/cards", generateLimiter.Middleware(), handlers.Review.SynthesizeCards)
			questions.POST("/:id/narrative", generateLimiter.Middleware(), handlers.Document.GenerateNarrative)
		}

		bookmarks := v1.Group("/bookmarks")
		{
			bookmarks.GET("", handlers.Review.ListBookmarks)
			bookmarks.POST("", handlers.Review.AddBookmark)
			bookmarks.DELETE("/:id", handlers.Review.RemoveBookmark)
		}

		review := v1.Group("/review")
		{
			review.GET("/due", handlers.Review.GetDueItems)
			review.POST("/rate", handlers.Review.RateItem)
		}

		// ─── History & Stats ───────────────────────────────────────────
		v1.GET("/history", handlers.Stats.GetHistory)
		v1.GET("/stats", handlers.Stats.GetStats)
		v1.GET("/stats/breakdown", handlers.Stats.GetBreakdown)

		// ─── Documents & Plan ──────────────────────────────────────────
		documents := v1.Group("/documents")
		documents.Use(generateLimiter.Middleware())
		{
			documents.POST("/summary", handlers.Document.GenerateSummary)
			documents.POST("/guide", handlers.Document.GenerateGuide)
		}

		v1.GET("/plan", handlers.Document.GetPlan)
		v1.POST("/plan", generateLimiter.Middleware(), handlers.Document.GeneratePlan)

		// ─── Backup ────────────────────────────────────────────────────
		v1.GET("/backup", handlers.Backup.Export)
		v1.POST("/backup", handlers.Backup.Import)
	}

	// ─── WebSocket ─────────────────────────────────────────────────────
	router.GET("/ws/v1/study/stream", handlers.WS.EventStream)

	return router
}
