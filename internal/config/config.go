// Package config reads the web console settings from the environment and an
// optional .env file.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"net"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"cinemaweb/internal/auth"
	"cinemaweb/internal/storage"
)

// Example env config:
// WEB_ADDR=127.0.0.1
// WEB_PORT=8090
// API_BASE_URL=http://localhost:8000
// API_TIMEOUT=15s
// LOG_LEVEL=debug
// LOG_FORMAT=json
// STORAGE_DRIVER=redis
// STORAGE_NAMESPACE=acecinema
// REDIS_ADDR=localhost:6379
// CATALOG_CACHE_TTL=30s
// CATALOG_PAGE_SIZE=40
type Config struct {
	Addr       string
	Port       string
	APIBaseURL string
	APITimeout time.Duration
	LogLevel   string
	LogFormat  string

	Storage   storage.Config
	Namespace string

	CatalogCacheTTL time.Duration
	CatalogPageSize int

	Routes auth.Routes
}

func Default() Config {
	return Config{
		Addr:            "127.0.0.1",
		Port:            "8090",
		APITimeout:      15 * time.Second,
		LogLevel:        "info",
		LogFormat:       "console",
		Storage:         storage.Config{Driver: storage.DriverFile, ScyllaPort: 9042, ScyllaKeyspace: "acecinema_web", ScyllaConsistency: "QUORUM"},
		Namespace:       "acecinema",
		CatalogCacheTTL: 30 * time.Second,
		CatalogPageSize: 40,
		Routes:          auth.DefaultRoutes(),
	}
}

// Load reads the given .env files (".env" when none) without overriding
// variables already set, then the environment. Missing files are skipped.
func Load(files ...string) (Config, error) {
	if len(files) == 0 {
		files = []string{".env"}
	}
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("load %s: %w", f, err)
		}
	}
	return FromEnv()
}

func FromEnv() (Config, error) {
	cfg := Default()

	cfg.Addr = envDefault("WEB_ADDR", cfg.Addr)
	cfg.Port = envDefault("WEB_PORT", cfg.Port)
	cfg.APIBaseURL = strings.TrimRight(strings.TrimSpace(os.Getenv("API_BASE_URL")), "/")
	cfg.APITimeout = envDuration("API_TIMEOUT", cfg.APITimeout)
	cfg.LogLevel = envDefault("LOG_LEVEL", cfg.LogLevel)
	cfg.LogFormat = envDefault("LOG_FORMAT", cfg.LogFormat)

	cfg.Storage.Driver = strings.ToLower(envDefault("STORAGE_DRIVER", cfg.Storage.Driver))
	cfg.Storage.Path = envDefault("STORAGE_PATH", defaultStoragePath(cfg.Storage.Driver))
	cfg.Namespace = envDefault("STORAGE_NAMESPACE", cfg.Namespace)
	cfg.Storage.RedisAddr = envDefault("REDIS_ADDR", "localhost:6379")
	cfg.Storage.RedisPassword = os.Getenv("REDIS_PASSWORD")
	cfg.Storage.RedisDB = envDefaultInt("REDIS_DB", 0)
	cfg.Storage.DBURL = os.Getenv("DB_URL")
	cfg.Storage.ScyllaHosts = splitCSV(os.Getenv("SCYLLA_HOSTS"))
	cfg.Storage.ScyllaPort = envDefaultInt("SCYLLA_PORT", cfg.Storage.ScyllaPort)
	cfg.Storage.ScyllaKeyspace = envDefault("SCYLLA_KEYSPACE", cfg.Storage.ScyllaKeyspace)
	cfg.Storage.ScyllaConsistency = envDefault("SCYLLA_CONSISTENCY", cfg.Storage.ScyllaConsistency)

	cfg.CatalogCacheTTL = envDuration("CATALOG_CACHE_TTL", cfg.CatalogCacheTTL)
	cfg.CatalogPageSize = envDefaultInt("CATALOG_PAGE_SIZE", cfg.CatalogPageSize)

	cfg.Routes.AdminPrefix = envDefault("ADMIN_PREFIX", cfg.Routes.AdminPrefix)
	cfg.Routes.AdminHome = envDefault("ADMIN_HOME", cfg.Routes.AdminHome)
	cfg.Routes.CatalogHome = envDefault("CATALOG_HOME", cfg.Routes.CatalogHome)
	cfg.Routes.LoginPath = envDefault("LOGIN_PATH", cfg.Routes.LoginPath)
	signup := envDefault("SIGNUP_PATH", "/auth/signup")
	cfg.Routes.AuthPages = []string{cfg.Routes.LoginPath, signup}

	cfg = cfg.normalize()
	return cfg, cfg.validate()
}

// ListenAddr is the console's bind address. It defaults to loopback because
// the process holds a single signed-in session.
func (c Config) ListenAddr() string {
	return net.JoinHostPort(c.Addr, c.Port)
}

func (c Config) normalize() Config {
	if c.APITimeout <= 0 {
		c.APITimeout = 15 * time.Second
	}
	if c.CatalogCacheTTL < 0 {
		c.CatalogCacheTTL = 0
	}
	if c.CatalogPageSize <= 0 {
		c.CatalogPageSize = 40
	}
	if c.Namespace == "" {
		c.Namespace = "acecinema"
	}
	return c
}

func (c Config) validate() error {
	if c.APIBaseURL == "" {
		return fmt.Errorf("API_BASE_URL is required")
	}
	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_BASE_URL must be an http(s) URL, got %q", c.APIBaseURL)
	}
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("WEB_PORT must be numeric, got %q", c.Port)
	}
	switch c.Storage.Driver {
	case storage.DriverFile, storage.DriverSQLite:
		if c.Storage.Path == "" {
			return fmt.Errorf("STORAGE_PATH is required for %s storage", c.Storage.Driver)
		}
	case storage.DriverRedis:
		if c.Storage.RedisAddr == "" {
			return fmt.Errorf("REDIS_ADDR is required for redis storage")
		}
	case storage.DriverPostgres:
		if c.Storage.DBURL == "" {
			return fmt.Errorf("DB_URL is required for postgres storage")
		}
	case storage.DriverScylla:
		if len(c.Storage.ScyllaHosts) == 0 {
			return fmt.Errorf("SCYLLA_HOSTS is required for scylla storage")
		}
	default:
		return fmt.Errorf("%w: %q", storage.ErrUnknownDriver, c.Storage.Driver)
	}
	return nil
}

func defaultStoragePath(driver string) string {
	switch strings.ToLower(driver) {
	case storage.DriverSQLite:
		return "data/storage.db"
	default:
		return "data/storage.json"
	}
}

func envDefault(key, val string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return val
}

func envDefaultInt(key string, def int) int {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

// envDuration accepts Go durations ("30s") or plain seconds ("30").
func envDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return time.Duration(n) * time.Second
	}
	return def
}

func splitCSV(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if v := strings.TrimSpace(p); v != "" {
			out = append(out, v)
		}
	}
	return out
}
