package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/render"
	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"
	"github.com/tendant/simple-acf/pkg/acf"
	"github.com/tendant/simple-acf/pkg/acf/api"
	"github.com/tendant/simple-acf/pkg/acf/config"
)

type Config struct {
	Port          string `env:"PORT" env-default:"8080"`
	Environment   string `env:"ENVIRONMENT" env-default:"development"`
	LogLevel      string `env:"LOG_LEVEL" env-default:"info"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DBSchema      string `env:"DB_SCHEMA"`
	TablePrefix   string `env:"TABLE_PREFIX" env-default:"wp_"`
	CDNBaseURL    string `env:"CDN_BASE_URL"`
	OriginBaseURL string `env:"ORIGIN_BASE_URL"`
}

func (c Config) options(logger *slog.Logger) []config.Option {
	opts := []config.Option{
		config.WithPort(c.Port),
		config.WithEnvironment(c.Environment),
		config.WithDatabaseSchema(c.DBSchema),
		config.WithTablePrefix(c.TablePrefix),
		config.WithLogger(logger),
	}
	if c.DatabaseURL != "" && c.DatabaseURL != "memory" {
		opts = append(opts, config.WithDatabase("postgres", c.DatabaseURL))
	}
	if c.CDNBaseURL != "" {
		opts = append(opts, config.WithCDN(c.CDNBaseURL, c.OriginBaseURL))
	}
	return opts
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func newRouter(svc acf.Service, logger *slog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(api.RequestIDMiddleware)
	r.Use(middleware.RealIP)
	r.Use(api.LoggingMiddleware(logger))
	r.Use(api.RecoveryMiddleware)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		render.JSON(w, r, map[string]string{"status": "ok"})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Mount("/posts", api.NewFieldHandler(svc).Routes())
	})

	return r
}

func main() {
	checkDB := flag.Bool("check-db", false, "Ping the configured database and exit")
	flag.Parse()

	if err := godotenv.Load(".env"); err != nil {
		slog.Info("No .env file found or error loading it, using environment", "err", err)
	}

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		slog.Error("Failed to read environment", "err", err)
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	serverConfig, err := config.Load(cfg.options(logger)...)
	if err != nil {
		slog.Error("Failed to load server configuration", "err", err)
		os.Exit(1)
	}

	if *checkDB {
		if err := config.PingPostgres(serverConfig.DatabaseURL, serverConfig.DBSchema); err != nil {
			slog.Error("Database check failed", "err", err)
			os.Exit(1)
		}
		slog.Info("Database check passed", "schema", serverConfig.DBSchema)
		return
	}

	ctx := context.Background()
	svc, closeService, err := serverConfig.BuildService(ctx)
	if err != nil {
		slog.Error("Failed to build service", "err", err)
		os.Exit(1)
	}
	defer closeService()

	httpServer := &http.Server{
		Addr:    fmt.Sprintf(":%s", serverConfig.Port),
		Handler: newRouter(svc, logger),
	}

	go func() {
		slog.Info("ACF server starting",
			"port", serverConfig.Port,
			"env", serverConfig.Environment,
			"database", serverConfig.DatabaseType,
			"url_strategy", serverConfig.URLStrategy,
		)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Server error", "err", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	slog.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("Server forced to shutdown", "err", err)
	}

	slog.Info("Server exiting")
}
