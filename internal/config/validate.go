package config

import (
	"fmt"
	"strings"
)

// Validate checks cross-field constraints that tags cannot express.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port out of range: %d", c.Server.Port)
	}

	if c.Database.DSN == "" {
		return fmt.Errorf("database.dsn is required")
	}
	if c.Database.MaxConns < c.Database.MinConns {
		return fmt.Errorf("database.max_conns (%d) below database.min_conns (%d)",
			c.Database.MaxConns, c.Database.MinConns)
	}
	if c.Database.MigrateOnStart && strings.TrimSpace(c.Database.MigrationsDir) == "" {
		return fmt.Errorf("database.migrations_dir is required when migrate_on_start is set")
	}

	if c.Cache.TTL <= 0 {
		return fmt.Errorf("cache.ttl must be positive, got %s", c.Cache.TTL)
	}

	if c.Search.DefaultSize <= 0 {
		return fmt.Errorf("search.default_size must be positive, got %d", c.Search.DefaultSize)
	}
	if c.Search.MaxSize < c.Search.DefaultSize {
		return fmt.Errorf("search.max_size (%d) below search.default_size (%d)",
			c.Search.MaxSize, c.Search.DefaultSize)
	}
	if c.Search.ReindexPageSize <= 0 {
		return fmt.Errorf("search.reindex_page_size must be positive, got %d", c.Search.ReindexPageSize)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text, got %q", c.Log.Format)
	}

	return nil
}
