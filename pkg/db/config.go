package db

import (
	"fmt"
	"net/url"
	"os"
	"strings"
)

// Config locates the run history database.
type Config struct {
	URL string
}

// NewConfig reads HISTORY_DATABASE_URL, falling back to the DB_* variables
// when DB_HOST is set. History stays disabled when neither is present.
func NewConfig() *Config {
	if dsn := strings.TrimSpace(os.Getenv("HISTORY_DATABASE_URL")); dsn != "" {
		return &Config{URL: dsn}
	}
	if os.Getenv("DB_HOST") == "" {
		return &Config{}
	}
	return &Config{URL: constructDBURL()}
}

// Enabled reports whether a database is configured.
func (c *Config) Enabled() bool {
	return c.URL != ""
}

// Validate checks the URL can be used by both migrate and gorm.
func (c *Config) Validate() error {
	if !c.Enabled() {
		return nil
	}
	u, err := url.Parse(c.URL)
	if err != nil {
		return fmt.Errorf("invalid history database URL: %w", err)
	}
	if u.Scheme != "postgres" && u.Scheme != "postgresql" {
		return fmt.Errorf("history database URL must use postgres://, got %q", u.Scheme)
	}
	return nil
}

// constructDBURL creates the database URL from environment variables
func constructDBURL() string {
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	sslMode := os.Getenv("DB_SSLMODE")
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(os.Getenv("DB_USER"), os.Getenv("DB_PASSWORD")),
		Host:     fmt.Sprintf("%s:%s", os.Getenv("DB_HOST"), port),
		Path:     "/" + os.Getenv("DB_NAME"),
		RawQuery: "sslmode=" + sslMode,
	}
	return u.String()
}
