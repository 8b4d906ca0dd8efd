package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rccc/rccc-search/internal/cache"
	"github.com/rccc/rccc-search/internal/config"
	"github.com/rccc/rccc-search/internal/index"
	"github.com/rccc/rccc-search/internal/locale"
	"github.com/rccc/rccc-search/internal/logger"
	"github.com/rccc/rccc-search/internal/render"
	"github.com/rccc/rccc-search/internal/router"
	"github.com/rccc/rccc-search/internal/search"
	"github.com/rccc/rccc-search/internal/ws"
	"go.uber.org/zap"
)

// init is called before the main function.
func init() {
	// A missing .env is fine; the environment wins either way.
	_ = godotenv.Load()

	// Initialize structured logger (dev mode if GIN_MODE != release)
	logger.Init(isDevMode())

	// Configure the runtime
	ConfigureRuntime()
}

// Entry point for the search server.
func main() {
	defer logger.Sync()
	log := logger.Get()

	// Load the config
	var cfg *config.Config
	if c, err := config.LoadConfig(); err != nil {
		log.Fatal("failed to load config", zap.Error(err))
	} else {
		cfg = c
	}

	// Check that all ENV variables are set
	if err := cfg.CheckConfigEnvFields(); err != nil {
		log.Fatal("missing required config fields", zap.Error(err))
	}
	if err := cfg.Validate(); err != nil {
		log.Fatal("invalid config", zap.Error(err))
	}

	// Load source labels from YAML
	sources, err := config.LoadSources(cfg.EnvVars.SourcesFile)
	switch {
	case config.IsNotExist(err):
		log.Warn("sources file not found, using built-in labels", zap.String("path", cfg.EnvVars.SourcesFile))
		sources = config.DefaultSources()
	case err != nil:
		log.Fatal("failed to load sources", zap.Error(err))
	}
	cfg.Sources = sources

	normalizer, err := locale.New(cfg.EnvVars.ScriptConversion)
	if err != nil {
		log.Fatal("failed to create normalizer", zap.Error(err))
	}

	var sanitizer render.Sanitizer
	if cfg.EnvVars.SanitizeSnippets {
		sanitizer = render.NewSnippetPolicy()
	}
	renderer, err := render.New(cfg.Sources, sanitizer)
	if err != nil {
		log.Fatal("failed to parse templates", zap.Error(err))
	}

	deps := router.Deps{
		Normalizer: normalizer,
		Renderer:   renderer,
		Hub:        ws.NewHub(),
	}

	if cfg.EnvVars.BackendURL != "" {
		deps.Fetcher = search.NewClient(cfg.EnvVars.BackendURL, cfg.EnvVars.BackendTimeout)
		log.Info("using remote search backend", zap.String("url", cfg.EnvVars.BackendURL))
	} else {
		var resultCache search.Cache = cache.Nop{}
		if cfg.EnvVars.RedisURL != "" {
			rc, err := cache.NewRedis(cfg.EnvVars.RedisURL, cfg.EnvVars.CacheTTL)
			if err != nil {
				log.Fatal("failed to configure redis", zap.Error(err))
			}
			defer rc.Close()
			resultCache = rc
			deps.Cache = rc
		}
		meili := index.NewMeili(
			index.NewMeiliClient(cfg.EnvVars.MeiliHost, cfg.EnvVars.MeiliAPIKey),
			cfg.EnvVars.MeiliIndex,
			cfg.EnvVars.SearchLimit,
		)
		deps.Fetcher = search.NewService(meili, resultCache)
		log.Info("using meilisearch index",
			zap.String("host", cfg.EnvVars.MeiliHost),
			zap.String("index", cfg.EnvVars.MeiliIndex),
		)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go deps.Hub.Run(ctx.Done())

	if !isDevMode() {
		gin.SetMode(gin.ReleaseMode)
	}
	r := router.SetupRouter(ctx, cfg, deps)

	srv := &http.Server{
		Addr:              ":" + cfg.EnvVars.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info("starting server", zap.String("port", cfg.EnvVars.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("server stopped", zap.Error(err))
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server shutdown error", zap.Error(err))
	}
}

func isDevMode() bool {
	return os.Getenv("GIN_MODE") != "release"
}

// ConfigureRuntime sets the number of operating system threads.
func ConfigureRuntime() {
	nuCPU := runtime.NumCPU()
	runtime.GOMAXPROCS(nuCPU)
	logger.Get().Info("runtime configured", zap.Int("cpus", nuCPU))
}
