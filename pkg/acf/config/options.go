package config

import (
	"fmt"
	"log/slog"

	"github.com/tendant/simple-acf/pkg/acf/urlstrategy"
)

// WithPort sets the server port
func WithPort(port string) Option {
	return func(c *ServerConfig) error {
		if port == "" {
			return fmt.Errorf("port cannot be empty")
		}
		c.Port = port
		return nil
	}
}

// WithEnvironment sets the environment (development, production, testing)
func WithEnvironment(env string) Option {
	return func(c *ServerConfig) error {
		if env == "" {
			return fmt.Errorf("environment cannot be empty")
		}
		c.Environment = env
		return nil
	}
}

// WithDatabase configures the database backend
func WithDatabase(dbType, url string) Option {
	return func(c *ServerConfig) error {
		if dbType != "memory" && dbType != "postgres" {
			return fmt.Errorf("database type must be 'memory' or 'postgres', got: %s", dbType)
		}
		if dbType == "postgres" && url == "" {
			return fmt.Errorf("database URL is required for postgres")
		}
		c.DatabaseType = dbType
		c.DatabaseURL = url
		return nil
	}
}

// WithDatabaseSchema sets the database schema (for Postgres)
func WithDatabaseSchema(schema string) Option {
	return func(c *ServerConfig) error {
		c.DBSchema = schema
		return nil
	}
}

// WithTablePrefix sets the WordPress table prefix
func WithTablePrefix(prefix string) Option {
	return func(c *ServerConfig) error {
		c.TablePrefix = prefix
		return nil
	}
}

// WithCDN serves attachment URLs from cdnBaseURL. Only GUIDs under
// originBaseURL are rewritten; an empty origin rewrites every host.
func WithCDN(cdnBaseURL, originBaseURL string) Option {
	return func(c *ServerConfig) error {
		if cdnBaseURL == "" {
			return fmt.Errorf("CDN base URL cannot be empty")
		}
		c.URLStrategy = string(urlstrategy.StrategyTypeCDN)
		c.CDNBaseURL = cdnBaseURL
		c.OriginBaseURL = originBaseURL
		return nil
	}
}

// WithLogger sets the logger used for decode traces
func WithLogger(logger *slog.Logger) Option {
	return func(c *ServerConfig) error {
		c.Logger = logger
		return nil
	}
}
