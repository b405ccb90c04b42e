package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-sql-driver/mysql"
)

// Defaults for optional configuration values
const (
	DefaultPort         = 3306
	DefaultCharset      = "utf8mb4"
	DefaultQueryTimeout = 10 * time.Second
	DefaultMaxRows      = 10000
)

// Config holds the MySQL connection parameters and server limits, sourced
// from DB_* environment variables.
type Config struct {
	Host         string
	Port         int
	User         string
	Password     string
	Database     string
	Charset      string
	QueryTimeout time.Duration
	MaxRows      int
}

// ConfigFromEnv builds a Config from the environment. Host, user and
// database are required; everything else falls back to a default.
func ConfigFromEnv() (*Config, error) {
	cfg := &Config{
		Host:         os.Getenv("DB_HOST"),
		Port:         DefaultPort,
		User:         os.Getenv("DB_USER"),
		Password:     os.Getenv("DB_PASSWORD"),
		Database:     os.Getenv("DB_DATABASE"),
		Charset:      DefaultCharset,
		QueryTimeout: DefaultQueryTimeout,
		MaxRows:      DefaultMaxRows,
	}

	var missing []string
	if cfg.Host == "" {
		missing = append(missing, "DB_HOST")
	}
	if cfg.User == "" {
		missing = append(missing, "DB_USER")
	}
	if cfg.Database == "" {
		missing = append(missing, "DB_DATABASE")
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("missing required environment variables: %v", missing)
	}

	if v := os.Getenv("DB_PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil || port <= 0 {
			return nil, fmt.Errorf("invalid DB_PORT: %q", v)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_CHARSET"); v != "" {
		cfg.Charset = v
	}
	if v := os.Getenv("DB_QUERY_TIMEOUT"); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs < 1 {
			return nil, fmt.Errorf("invalid DB_QUERY_TIMEOUT: %q (want seconds >= 1)", v)
		}
		cfg.QueryTimeout = time.Duration(secs) * time.Second
	}
	if v := os.Getenv("DB_MAX_ROWS"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			return nil, fmt.Errorf("invalid DB_MAX_ROWS: %q", v)
		}
		cfg.MaxRows = n
	}

	return cfg, nil
}

// DSN renders the driver DSN for the configured database.
func (c *Config) DSN() string {
	dc := mysql.NewConfig()
	dc.Net = "tcp"
	dc.Addr = fmt.Sprintf("%s:%d", c.Host, c.Port)
	dc.User = c.User
	dc.Passwd = c.Password
	dc.DBName = c.Database
	dc.Params = map[string]string{"charset": c.Charset}
	return dc.FormatDSN()
}
