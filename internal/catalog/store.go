// Package catalog keeps the movie list shown by the storefront and the admin
// movie table.
package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cinemaweb/internal/api"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

const (
	DefaultPageSize = 40
	DefaultOrder    = "newest"
)

// Lister is implemented by *api.Client.
type Lister interface {
	ListMovies(ctx context.Context, params api.ListParams) ([]api.Movie, error)
}

// Filter is a partial ListParams: only non-nil fields override.
// AnyPremium drops a premium filter.
type Filter struct {
	Q          *string
	Genre      *string
	IsPremium  *bool
	AnyPremium bool
	Limit      *int
	Offset     *int
	Order      *string
}

// Apply returns p with the set fields of f written over it.
func (f Filter) Apply(p api.ListParams) api.ListParams {
	if f.Q != nil {
		p.Q = *f.Q
	}
	if f.Genre != nil {
		p.Genre = *f.Genre
	}
	switch {
	case f.AnyPremium:
		p.IsPremium = nil
	case f.IsPremium != nil:
		v := *f.IsPremium
		p.IsPremium = &v
	}
	if f.Limit != nil {
		p.Limit = *f.Limit
	}
	if f.Offset != nil {
		p.Offset = *f.Offset
	}
	if f.Order != nil {
		p.Order = *f.Order
	}
	return p
}

type Snapshot struct {
	Items  []api.Movie    `json:"items"`
	Status Status         `json:"status"`
	Error  string         `json:"error,omitempty"`
	Params api.ListParams `json:"params"`
}

// page is one cached list result.
type page struct {
	items   []api.Movie
	fetched time.Time
}

type Store struct {
	lister   Lister
	ttl      time.Duration
	pageSize int
	now      func() time.Time
	log      zerolog.Logger

	mu    sync.RWMutex
	state Snapshot

	pagesMu sync.Mutex
	pages   map[string]page
}

type Option func(*Store)

// WithTTL sets how long a fetched page is reused. Zero disables reuse.
func WithTTL(ttl time.Duration) Option {
	return func(s *Store) { s.ttl = ttl }
}

func WithPageSize(n int) Option {
	return func(s *Store) {
		if n > 0 {
			s.pageSize = n
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

func WithClock(now func() time.Time) Option {
	return func(s *Store) { s.now = now }
}

func NewStore(lister Lister, opts ...Option) *Store {
	s := &Store{
		lister:   lister,
		ttl:      30 * time.Second,
		pageSize: DefaultPageSize,
		now:      time.Now,
		log:      zerolog.Nop(),
		pages:    make(map[string]page),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.state = Snapshot{Items: []api.Movie{}, Status: StatusIdle, Params: s.Defaults()}
	return s
}

// Defaults is the first page in newest order.
func (s *Store) Defaults() api.ListParams {
	return api.ListParams{Limit: s.pageSize, Order: DefaultOrder}
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := s.state
	out.Items = append([]api.Movie(nil), s.state.Items...)
	return out
}

func (s *Store) Params() api.ListParams {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Params
}

func (s *Store) SetParams(f Filter) {
	s.mu.Lock()
	s.state.Params = f.Apply(s.state.Params)
	s.mu.Unlock()
}

// Load fetches the list for the stored params merged with override. The
// merged params are kept only when the load succeeds.
func (s *Store) Load(ctx context.Context, override Filter) ([]api.Movie, error) {
	s.mu.Lock()
	params := override.Apply(s.state.Params)
	s.state.Status = StatusLoading
	s.state.Error = ""
	s.mu.Unlock()

	items, err := s.Fetch(ctx, params)
	if err != nil {
		s.mu.Lock()
		s.state.Status = StatusFailed
		s.state.Error = api.Message(err, "Failed to load movies")
		s.mu.Unlock()
		return nil, err
	}

	s.mu.Lock()
	s.state.Items = items
	s.state.Status = StatusSucceeded
	s.state.Params = params
	s.mu.Unlock()
	return append([]api.Movie(nil), items...), nil
}

// Fetch lists movies for exactly params. It shares the page cache with Load
// but never reads or writes the stored params and status.
func (s *Store) Fetch(ctx context.Context, params api.ListParams) ([]api.Movie, error) {
	key := params.Query().Encode()
	if items, ok := s.cached(key); ok {
		s.log.Debug().Str("query", key).Int("count", len(items)).Msg("movies from cache")
		return items, nil
	}
	items, err := s.lister.ListMovies(ctx, params)
	if err != nil {
		s.log.Warn().Int("status", api.StatusCode(err)).Str("error", api.Message(err, "Failed to load movies")).Str("query", key).Msg("load movies failed")
		return nil, err
	}
	if items == nil {
		items = []api.Movie{}
	}
	s.remember(key, items)
	s.log.Debug().Str("query", key).Int("count", len(items)).Msg("movies loaded")
	return append([]api.Movie(nil), items...), nil
}

// Invalidate forgets every fetched page; called after admin writes.
func (s *Store) Invalidate() {
	s.pagesMu.Lock()
	s.pages = make(map[string]page)
	s.pagesMu.Unlock()
}

func (s *Store) cached(key string) ([]api.Movie, bool) {
	s.pagesMu.Lock()
	defer s.pagesMu.Unlock()
	p, ok := s.pages[key]
	if !ok {
		return nil, false
	}
	if s.now().Sub(p.fetched) >= s.ttl {
		delete(s.pages, key)
		return nil, false
	}
	return append([]api.Movie(nil), p.items...), true
}

func (s *Store) remember(key string, items []api.Movie) {
	if s.ttl <= 0 {
		return
	}
	s.pagesMu.Lock()
	s.pages[key] = page{items: append([]api.Movie(nil), items...), fetched: s.now()}
	s.pagesMu.Unlock()
}
