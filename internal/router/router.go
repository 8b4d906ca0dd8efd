package router

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/rccc/rccc-search/internal/config"
	"github.com/rccc/rccc-search/internal/handlers"
	"github.com/rccc/rccc-search/internal/locale"
	"github.com/rccc/rccc-search/internal/logger"
	"github.com/rccc/rccc-search/internal/middleware"
	"github.com/rccc/rccc-search/internal/render"
	"github.com/rccc/rccc-search/internal/search"
	"github.com/rccc/rccc-search/internal/ws"
	"go.uber.org/zap"
)

// Pinger reports whether a backing service is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Deps holds everything the routes need.
type Deps struct {
	Fetcher    search.Fetcher
	Normalizer locale.Normalizer
	Renderer   *render.Renderer
	Hub        *ws.Hub

	// Cache is pinged by /healthz when set.
	Cache Pinger
}

// SetupRouter sets up the Gin router. ctx bounds the rate limiter's
// background sweep.
func SetupRouter(ctx context.Context, cfg *config.Config, deps Deps) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	// Add request ID middleware for request correlation
	r.Use(logger.RequestIDMiddleware())
	r.Use(requestLogger())
	r.Use(middleware.SecurityHeaders())

	if origins := cfg.EnvVars.AllowedOrigins; len(origins) > 0 {
		corsConfig := cors.DefaultConfig()
		corsConfig.AllowOrigins = origins
		corsConfig.AllowMethods = []string{"GET", "HEAD", "OPTIONS"}
		r.Use(cors.New(corsConfig))
	}

	r.SetHTMLTemplate(deps.Renderer.Templates())
	r.StaticFS("/static", http.FS(render.Static()))

	// Ping route for testing
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "pong",
		})
	})

	r.GET("/healthz", func(c *gin.Context) {
		body := gin.H{"status": "ok", "live_clients": deps.Hub.Count()}
		if deps.Cache != nil {
			ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
			defer cancel()
			if err := deps.Cache.Ping(ctx); err != nil {
				logger.FromGin(c).Warn("cache unreachable", zap.Error(err))
				body["status"] = "degraded"
				body["cache"] = err.Error()
			}
		}
		c.JSON(http.StatusOK, body)
	})

	pageSize := cfg.EnvVars.PageSize
	limiter := middleware.RateLimitByIP(ctx, cfg.EnvVars.RateLimitRPS, time.Minute, 3*time.Minute)

	// Search page
	pageHandler := handlers.NewPageHandler(deps.Fetcher, deps.Normalizer, deps.Renderer, pageSize)
	r.GET("/", limiter, pageHandler.SearchPage)

	// JSON search endpoint
	searchHandler := handlers.NewSearchHandler(deps.Fetcher, deps.Normalizer)
	r.GET("/search", limiter, middleware.NoStore(), searchHandler.Search)

	// Live search over WebSocket
	liveHandler := ws.NewLiveHandler(deps.Hub, deps.Fetcher, deps.Normalizer, deps.Renderer, pageSize, checkOrigin(cfg.EnvVars.AllowedOrigins))
	r.GET("/ws", limiter, liveHandler.HandleWebSocket)

	return r
}

// checkOrigin accepts the listed origins in addition to the same host. A nil
// result keeps the upgrader's same-host default.
func checkOrigin(allowed []string) func(*http.Request) bool {
	if len(allowed) == 0 {
		return nil
	}
	set := make(map[string]bool, len(allowed))
	for _, o := range allowed {
		set[o] = true
	}
	return func(r *http.Request) bool {
		origin := r.Header.Get("Origin")
		if origin == "" || set[origin] {
			return true
		}
		return origin == "http://"+r.Host || origin == "https://"+r.Host
	}
}

func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.FromGin(c).Info("request",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)),
		)
	}
}
