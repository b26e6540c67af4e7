package api

import (
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"bingo-cards-backend/config"
	"bingo-cards-backend/internal/mw"
)

// NewRouter creates and configures a new Gin router.
func NewRouter(h *Handler, cfg config.ServerConfig, log *zap.SugaredLogger) *gin.Engine {
	r := gin.New()
	r.Use(mw.Logger(log), gin.Recovery())

	if len(cfg.CORSOrigins) > 0 {
		r.Use(cors.New(cors.Config{
			AllowOrigins:     cfg.CORSOrigins,
			AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept"},
			ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}))
	}

	rateLimiter := mw.RateLimiter(rate.Limit(cfg.RateLimitPerSec), cfg.RateLimitBurst)
	caching := h.cache.Middleware()

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})

	// API group
	api := r.Group("/api")
	api.Use(rateLimiter)
	{
		api.GET("/games", h.ListGames)
		api.POST("/games", h.CreateGame)
		api.POST("/games/import", h.ImportGame)

		// Card content never changes after creation, so these are cached until delete.
		api.GET("/games/:id", caching, h.GetGame)
		api.GET("/games/:id/export", caching, h.ExportGame)
		api.GET("/games/:id/cards/:number", caching, h.GetCard)
		api.DELETE("/games/:id", h.DeleteGame)

		api.GET("/games/:id/cards/:number/check", h.CheckCard)
		api.GET("/games/:id/draws", h.ListDraws)
		api.POST("/games/:id/draws", h.AddDraw)
		api.DELETE("/games/:id/draws", h.ResetDraws)
	}

	r.GET("/ws/games/:id", h.WatchDraws)

	return r
}
