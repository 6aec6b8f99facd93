// Package storage persists small string values across process restarts.
// The session layer only ever stores a placeholder marker through it.
package storage

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound      = errors.New("storage: key not found")
	ErrUnknownDriver = errors.New("storage: unknown driver")
)

type Persister interface {
	Load(ctx context.Context, key string) (string, error)
	Save(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

const (
	DriverFile     = "file"
	DriverSQLite   = "sqlite"
	DriverRedis    = "redis"
	DriverPostgres = "postgres"
	DriverScylla   = "scylla"
)

type Config struct {
	Driver string
	// Path is the file or sqlite database location.
	Path string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DBURL string

	ScyllaHosts       []string
	ScyllaPort        int
	ScyllaKeyspace    string
	ScyllaConsistency string
}

func Open(ctx context.Context, cfg Config) (Persister, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Driver)) {
	case "", DriverFile:
		return NewFile(cfg.Path)
	case DriverSQLite:
		return OpenSQLite(ctx, cfg.Path)
	case DriverRedis:
		return NewRedis(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB), nil
	case DriverPostgres:
		return OpenPostgres(ctx, cfg.DBURL)
	case DriverScylla:
		return OpenScylla(ctx, ScyllaConfig{
			Hosts:       cfg.ScyllaHosts,
			Port:        cfg.ScyllaPort,
			Keyspace:    cfg.ScyllaKeyspace,
			Consistency: cfg.ScyllaConsistency,
		})
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDriver, cfg.Driver)
	}
}
