package config

import (
	"fmt"
	"net/url"
)

// DSN returns the connection string for the configured database type
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}

	switch d.Type {
	case "postgres":
		return buildPostgresURL(d)
	default:
		return d.DatabasePath
	}
}

// buildPostgresURL builds a PostgreSQL connection URL from config
func buildPostgresURL(cfg DatabaseConfig) string {
	u := url.URL{
		Scheme: "postgres",
		Host:   fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Path:   "/" + cfg.Database,
	}
	if cfg.Username != "" {
		if cfg.Password != "" {
			u.User = url.UserPassword(cfg.Username, cfg.Password)
		} else {
			u.User = url.User(cfg.Username)
		}
	}
	return u.String()
}
