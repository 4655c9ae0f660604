package config

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/tendant/simple-acf/pkg/acf"
	"github.com/tendant/simple-acf/pkg/acf/repo/memory"
	repopg "github.com/tendant/simple-acf/pkg/acf/repo/postgres"
	"github.com/tendant/simple-acf/pkg/acf/urlstrategy"
)

// Option applies configuration to a ServerConfig instance.
type Option func(*ServerConfig) error

// Load constructs a ServerConfig by applying the supplied options on top of library defaults.
func Load(opts ...Option) (*ServerConfig, error) {
	cfg := defaults()

	for _, opt := range opts {
		if opt == nil {
			continue
		}
		if err := opt(&cfg); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func defaults() ServerConfig {
	return ServerConfig{
		Port:         "8080",
		Environment:  "development",
		DatabaseType: "memory",
		TablePrefix:  repopg.DefaultTablePrefix,
		URLStrategy:  string(urlstrategy.StrategyTypeOrigin),
	}
}

// ServerConfig represents server configuration for the ACF read service
type ServerConfig struct {
	Port        string
	Environment string // development, production, testing

	// Database configuration
	DatabaseURL  string
	DatabaseType string // "memory", "postgres"
	DBSchema     string // Postgres schema holding the WordPress tables; empty keeps the server default
	TablePrefix  string // WordPress table prefix (default: wp_)

	// Attachment URLs
	URLStrategy   string // "origin", "cdn"
	CDNBaseURL    string
	OriginBaseURL string

	// Logger receives decode traces; defaults to slog.Default()
	Logger *slog.Logger
}

// Validate validates the server configuration
func (c *ServerConfig) Validate() error {
	if c.Port == "" {
		return errors.New("port is required")
	}

	if c.DatabaseType != "memory" && c.DatabaseType != "postgres" {
		return errors.New("database_type must be 'memory' or 'postgres'")
	}

	if c.DatabaseType == "postgres" && c.DatabaseURL == "" {
		return errors.New("database_url is required when using postgres")
	}

	switch urlstrategy.StrategyType(c.URLStrategy) {
	case urlstrategy.StrategyTypeOrigin:
	case urlstrategy.StrategyTypeCDN:
		if c.CDNBaseURL == "" {
			return errors.New("cdn_base_url is required when using the cdn url strategy")
		}
	default:
		return fmt.Errorf("url_strategy must be 'origin' or 'cdn', got: %s", c.URLStrategy)
	}

	return nil
}

// BuildService creates a Service instance from the server configuration.
// The returned close function releases the database pool, if any.
func (c *ServerConfig) BuildService(ctx context.Context) (acf.Service, func(), error) {
	repo, closeRepo, err := c.buildRepository(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to build repository: %w", err)
	}

	strategy, err := urlstrategy.NewURLStrategy(urlstrategy.Config{
		Type:          urlstrategy.StrategyType(c.URLStrategy),
		CDNBaseURL:    c.CDNBaseURL,
		OriginBaseURL: c.OriginBaseURL,
	})
	if err != nil {
		closeRepo()
		return nil, nil, fmt.Errorf("failed to build url strategy: %w", err)
	}

	options := []acf.Option{
		acf.WithRepository(repo),
		acf.WithURLStrategy(strategy),
	}
	if c.Logger != nil {
		options = append(options, acf.WithLogger(c.Logger))
	}

	svc, err := acf.New(options...)
	if err != nil {
		closeRepo()
		return nil, nil, err
	}
	return svc, closeRepo, nil
}

// buildRepository creates a Repository based on the configuration
func (c *ServerConfig) buildRepository(ctx context.Context) (acf.Repository, func(), error) {
	switch c.DatabaseType {
	case "memory":
		return memory.New(), func() {}, nil
	case "postgres":
		pool, err := newPool(ctx, c.DatabaseURL, c.DBSchema)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repopg.NewWithPool(pool, c.TablePrefix)
		if err != nil {
			pool.Close()
			return nil, nil, err
		}
		return repo, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unsupported database type: %s", c.DatabaseType)
	}
}

func newPool(ctx context.Context, databaseURL, schema string) (*pgxpool.Pool, error) {
	if databaseURL == "" {
		return nil, errors.New("database_url is required for postgres")
	}
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse DATABASE_URL: %w", err)
	}
	if schema != "" {
		searchPath := pgx.Identifier{schema}.Sanitize()
		cfg.AfterConnect = func(ctx context.Context, conn *pgx.Conn) error {
			_, err := conn.Exec(ctx, "SET search_path TO "+searchPath)
			return err
		}
	}
	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to create pgx pool: %w", err)
	}
	return pool, nil
}

// PingPostgres verifies connectivity to Postgres and optionally sets search_path for the session.
// It fails if the schema (when provided) does not exist.
func PingPostgres(databaseURL, schema string) error {
	pool, err := newPool(context.Background(), databaseURL, schema)
	if err != nil {
		return err
	}
	defer pool.Close()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := pool.Ping(ctx); err != nil {
		return fmt.Errorf("database ping failed: %w", err)
	}
	return nil
}
