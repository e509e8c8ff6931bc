package db

import (
	"fmt"
	"net/url"

	"github.com/vvka-141/rawload/pkg/rawload"
)

// BuildConnectionString renders a ConnectionConfig as a PostgreSQL URI.
// Credentials are URL-escaped so passwords with special characters survive.
func BuildConnectionString(cfg *rawload.ConnectionConfig) string {
	u := url.URL{
		Scheme: "postgresql",
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

	q := url.Values{}
	if cfg.SSLMode != "" {
		q.Set("sslmode", cfg.SSLMode)
	}
	if cfg.AppName != "" {
		q.Set("application_name", cfg.AppName)
	}
	u.RawQuery = q.Encode()

	return u.String()
}
