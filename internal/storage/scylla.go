package storage

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/gocql/gocql"
)

type ScyllaConfig struct {
	Hosts       []string
	Port        int
	Keyspace    string
	Consistency string
	Replication int
}

type Scylla struct {
	session  *gocql.Session
	keyspace string
}

var keyspacePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_]{0,47}$`)

func OpenScylla(ctx context.Context, cfg ScyllaConfig) (*Scylla, error) {
	hosts := make([]string, 0, len(cfg.Hosts))
	for _, h := range cfg.Hosts {
		if h = strings.TrimSpace(h); h != "" {
			hosts = append(hosts, h)
		}
	}
	if len(hosts) == 0 {
		return nil, errors.New("storage: SCYLLA_HOSTS required for scylla driver")
	}
	if cfg.Keyspace == "" {
		cfg.Keyspace = "acecinema"
	}
	if !keyspacePattern.MatchString(cfg.Keyspace) {
		return nil, fmt.Errorf("storage: invalid keyspace %q", cfg.Keyspace)
	}
	if cfg.Port == 0 {
		cfg.Port = 9042
	}
	cluster := gocql.NewCluster(hosts...)
	cluster.Port = cfg.Port
	cluster.Timeout = 5 * time.Second
	cluster.Consistency = parseConsistency(cfg.Consistency)

	tmp, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("storage: connect scylla: %w", err)
	}
	err = ensureKeyspace(ctx, tmp, cfg.Keyspace, cfg.Replication)
	tmp.Close()
	if err != nil {
		return nil, fmt.Errorf("storage: ensure keyspace %s: %w", cfg.Keyspace, err)
	}

	cluster.Keyspace = cfg.Keyspace
	session, err := cluster.CreateSession()
	if err != nil {
		return nil, fmt.Errorf("storage: connect scylla: %w", err)
	}
	stmt := fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.client_storage (
		key text PRIMARY KEY,
		value text,
		updated_at timestamp
	)`, cfg.Keyspace)
	if err := session.Query(stmt).WithContext(ctx).Exec(); err != nil {
		session.Close()
		return nil, fmt.Errorf("storage: ensure schema: %w", err)
	}
	return &Scylla{session: session, keyspace: cfg.Keyspace}, nil
}

func ensureKeyspace(ctx context.Context, session *gocql.Session, keyspace string, replicationFactor int) error {
	if replicationFactor <= 0 {
		replicationFactor = 1
	}
	stmt := fmt.Sprintf("CREATE KEYSPACE IF NOT EXISTS %s WITH replication = {'class': 'SimpleStrategy', 'replication_factor': %d}", keyspace, replicationFactor)
	return session.Query(stmt).WithContext(ctx).Exec()
}

func (s *Scylla) Load(ctx context.Context, key string) (string, error) {
	var v string
	err := s.session.Query(fmt.Sprintf(`SELECT value FROM %s.client_storage WHERE key=?`, s.keyspace), key).
		WithContext(ctx).
		Scan(&v)
	if errors.Is(err, gocql.ErrNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", err
	}
	return v, nil
}

func (s *Scylla) Save(ctx context.Context, key, value string) error {
	return s.session.Query(fmt.Sprintf(`INSERT INTO %s.client_storage (key,value,updated_at) VALUES (?,?,?)`, s.keyspace),
		key, value, time.Now()).WithContext(ctx).Exec()
}

func (s *Scylla) Remove(ctx context.Context, key string) error {
	return s.session.Query(fmt.Sprintf(`DELETE FROM %s.client_storage WHERE key=?`, s.keyspace), key).
		WithContext(ctx).Exec()
}

func (s *Scylla) Close() error {
	s.session.Close()
	return nil
}

func parseConsistency(c string) gocql.Consistency {
	switch strings.ToUpper(strings.TrimSpace(c)) {
	case "ONE":
		return gocql.One
	case "LOCAL_ONE":
		return gocql.LocalOne
	case "LOCAL_QUORUM":
		return gocql.LocalQuorum
	case "ALL":
		return gocql.All
	default:
		return gocql.Quorum
	}
}
