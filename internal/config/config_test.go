package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinemaweb/internal/storage"
)

func TestFromEnv_Defaults(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000/")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "8090", cfg.Port)
	assert.Equal(t, "127.0.0.1:8090", cfg.ListenAddr())
	assert.Equal(t, "http://localhost:8000", cfg.APIBaseURL)
	assert.Equal(t, 15*time.Second, cfg.APITimeout)
	assert.Equal(t, storage.DriverFile, cfg.Storage.Driver)
	assert.Equal(t, "data/storage.json", cfg.Storage.Path)
	assert.Equal(t, "acecinema", cfg.Namespace)
	assert.Equal(t, 30*time.Second, cfg.CatalogCacheTTL)
	assert.Equal(t, 40, cfg.CatalogPageSize)
	assert.Equal(t, "/admin", cfg.Routes.AdminPrefix)
	assert.Equal(t, []string{"/auth/login", "/auth/signup"}, cfg.Routes.AuthPages)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("API_BASE_URL", "https://api.example.com")
	t.Setenv("API_TIMEOUT", "5")
	t.Setenv("STORAGE_DRIVER", "SQLite")
	t.Setenv("CATALOG_CACHE_TTL", "2m")
	t.Setenv("CATALOG_PAGE_SIZE", "-3")
	t.Setenv("SCYLLA_HOSTS", " a, ,b ")
	t.Setenv("LOGIN_PATH", "/signin")
	t.Setenv("WEB_ADDR", "::1")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, 5*time.Second, cfg.APITimeout)
	assert.Equal(t, storage.DriverSQLite, cfg.Storage.Driver)
	assert.Equal(t, "data/storage.db", cfg.Storage.Path)
	assert.Equal(t, 2*time.Minute, cfg.CatalogCacheTTL)
	assert.Equal(t, 40, cfg.CatalogPageSize)
	assert.Equal(t, []string{"a", "b"}, cfg.Storage.ScyllaHosts)
	assert.Equal(t, "/signin", cfg.Routes.LoginPath)
	assert.Equal(t, "[::1]:8090", cfg.ListenAddr())
	assert.Equal(t, []string{"/signin", "/auth/signup"}, cfg.Routes.AuthPages)
}

func TestFromEnv_Validation(t *testing.T) {
	cases := map[string]map[string]string{
		"missing base url": {},
		"bad scheme":       {"API_BASE_URL": "ftp://x"},
		"bad port":         {"API_BASE_URL": "http://x", "WEB_PORT": "web"},
		"postgres no url":  {"API_BASE_URL": "http://x", "STORAGE_DRIVER": "postgres"},
		"scylla no hosts":  {"API_BASE_URL": "http://x", "STORAGE_DRIVER": "scylla"},
		"unknown driver":   {"API_BASE_URL": "http://x", "STORAGE_DRIVER": "etcd"},
	}
	for name, env := range cases {
		t.Run(name, func(t *testing.T) {
			for _, k := range []string{"API_BASE_URL", "WEB_PORT", "STORAGE_DRIVER", "DB_URL", "SCYLLA_HOSTS"} {
				t.Setenv(k, "")
			}
			for k, v := range env {
				t.Setenv(k, v)
			}
			_, err := FromEnv()
			assert.Error(t, err)
		})
	}
}

func TestLoad_DotEnvDoesNotOverrideEnv(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(file, []byte("API_BASE_URL=http://from-file:8000\nWEB_PORT=9000\n"), 0o600))
	t.Setenv("WEB_PORT", "9100")
	t.Setenv("API_BASE_URL", "unset")
	require.NoError(t, os.Unsetenv("API_BASE_URL"))

	cfg, err := Load(file)
	require.NoError(t, err)
	assert.Equal(t, "9100", cfg.Port)
	assert.Equal(t, "http://from-file:8000", cfg.APIBaseURL)
}

func TestLoad_MissingFileIsSkipped(t *testing.T) {
	t.Setenv("API_BASE_URL", "http://localhost:8000")
	_, err := Load(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
}
