// Package session owns the client-side authentication state.
//
// A Store is mutated only through Login, Signup, Resync, Logout and
// ResetError. Operations are not mutually exclusive: two calls may be in
// flight at once and whichever resolves last decides the Session. Every
// mutation bumps Snapshot.Version so observers can order what they see.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"cinemaweb/internal/api"
	"cinemaweb/internal/storage"
)

type Status string

const (
	StatusIdle      Status = "idle"
	StatusLoading   Status = "loading"
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

var (
	ErrClosed         = errors.New("session: store closed")
	ErrAlreadyStarted = errors.New("session: already started")
)

// markerValue is all that is ever persisted: no identity, no token.
const markerValue = "{}"

type Snapshot struct {
	User    *api.User `json:"user"`
	Status  Status    `json:"status"`
	Error   string    `json:"error,omitempty"`
	Version uint64    `json:"version"`
}

// Authenticator is the slice of the API client the store depends on.
type Authenticator interface {
	Login(ctx context.Context, req api.LoginRequest) (api.AuthResponse, error)
	Signup(ctx context.Context, req api.SignupRequest) (api.AuthResponse, error)
	Logout(ctx context.Context) error
	Me(ctx context.Context) (api.User, error)
}

// tokenClearer is implemented by *api.Client.
type tokenClearer interface {
	ClearToken()
}

type Store struct {
	auth      Authenticator
	persist   storage.Persister
	markerKey string
	log       zerolog.Logger

	mu     sync.RWMutex
	state  Snapshot
	closed bool
	subs   map[int]func(Snapshot)
	nextID int

	startOnce sync.Once
}

type Option func(*Store)

// WithNamespace sets the storage namespace; the marker lives at "<ns>:auth".
func WithNamespace(ns string) Option {
	return func(s *Store) {
		if ns != "" {
			s.markerKey = ns + ":auth"
		}
	}
}

func WithLogger(log zerolog.Logger) Option {
	return func(s *Store) { s.log = log }
}

// NewStore returns an Idle store with no user. persist may be nil, in which
// case nothing survives the process.
func NewStore(auth Authenticator, persist storage.Persister, opts ...Option) *Store {
	s := &Store{
		auth:      auth,
		persist:   persist,
		markerKey: "acecinema:auth",
		log:       zerolog.Nop(),
		state:     Snapshot{Status: StatusIdle},
		subs:      make(map[int]func(Snapshot)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) MarkerKey() string {
	return s.markerKey
}

func (s *Store) Snapshot() Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return copySnapshot(s.state)
}

// Subscribe registers fn for every mutation. fn runs outside the store lock
// and may see snapshots out of order under concurrent operations; compare
// Version to discard stale ones.
func (s *Store) Subscribe(fn func(Snapshot)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.mu.Unlock()
	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

// Start is the process start hook: it reads the persisted marker, flips the
// status to Loading before returning and resyncs in the background. It runs
// once per store; the channel yields the resync result.
func (s *Store) Start(ctx context.Context) <-chan error {
	done := make(chan error, 1)
	started := false
	s.startOnce.Do(func() {
		started = true
		s.logMarker(ctx)
		if err := s.begin(); err != nil {
			done <- err
			close(done)
			return
		}
		go func() {
			done <- s.resync(ctx)
			close(done)
		}()
	})
	if !started {
		done <- ErrAlreadyStarted
		close(done)
	}
	return done
}

// Close discards the store. Operations still in flight resolve for their
// callers but no longer touch the Session.
func (s *Store) Close() {
	s.mu.Lock()
	s.closed = true
	s.subs = make(map[int]func(Snapshot))
	s.mu.Unlock()
}

func (s *Store) Login(ctx context.Context, email, password string) (api.User, error) {
	if err := s.begin(); err != nil {
		return api.User{}, err
	}
	res, err := s.auth.Login(ctx, api.LoginRequest{Email: email, Password: password})
	if err != nil {
		s.fail("login", err, "Login failed", false)
		return api.User{}, err
	}
	s.authenticated(ctx, "login", res.User)
	return res.User, nil
}

func (s *Store) Signup(ctx context.Context, req api.SignupRequest) (api.User, error) {
	if err := s.begin(); err != nil {
		return api.User{}, err
	}
	res, err := s.auth.Signup(ctx, req)
	if err != nil {
		s.fail("signup", err, "Signup failed", false)
		return api.User{}, err
	}
	s.authenticated(ctx, "signup", res.User)
	return res.User, nil
}

// Resync asks the API who the current user is. Failure always clears the
// user and the persisted marker.
func (s *Store) Resync(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	return s.resync(ctx)
}

// Logout always ends with no user. A failed call still clears the local
// session and marker but reports Failed, since the server side may survive;
// callers should navigate away either way.
func (s *Store) Logout(ctx context.Context) error {
	if err := s.begin(); err != nil {
		return err
	}
	if err := s.auth.Logout(ctx); err != nil {
		if s.fail("logout", err, "Logout failed", true) {
			s.dropCredentials(ctx)
		}
		return err
	}
	applied := s.apply(func(st *Snapshot) {
		st.User = nil
		st.Status = StatusSucceeded
		st.Error = ""
	})
	if applied {
		s.log.Debug().Msg("session cleared by logout")
		s.removeMarker(ctx)
	}
	return nil
}

func (s *Store) ResetError() {
	s.apply(func(st *Snapshot) { st.Error = "" })
}

func (s *Store) resync(ctx context.Context) error {
	user, err := s.auth.Me(ctx)
	if err != nil {
		if s.fail("resync", err, "Fetch me failed", true) {
			s.dropCredentials(ctx)
		}
		return err
	}
	s.authenticated(ctx, "resync", user)
	return nil
}

// dropCredentials forgets the bearer token and the persisted marker.
func (s *Store) dropCredentials(ctx context.Context) {
	if tc, ok := s.auth.(tokenClearer); ok {
		tc.ClearToken()
	}
	s.removeMarker(ctx)
}

func (s *Store) begin() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	s.state.Status = StatusLoading
	s.state.Error = ""
	s.state.Version++
	snap, subs := s.notifyLocked()
	s.mu.Unlock()
	notify(subs, snap)
	return nil
}

func (s *Store) authenticated(ctx context.Context, op string, user api.User) {
	applied := s.apply(func(st *Snapshot) {
		u := user
		st.User = &u
		st.Status = StatusSucceeded
		st.Error = ""
	})
	if !applied {
		return
	}
	s.log.Debug().Str("op", op).Int64("user_id", user.ID).Str("role", user.Role).Msg("session authenticated")
	s.saveMarker(ctx)
}

func (s *Store) fail(op string, err error, fallback string, clearUser bool) bool {
	msg := api.Message(err, fallback)
	applied := s.apply(func(st *Snapshot) {
		if clearUser {
			st.User = nil
		}
		st.Status = StatusFailed
		st.Error = msg
	})
	s.log.Warn().Str("op", op).Int("status", api.StatusCode(err)).Str("error", msg).Msg("session operation failed")
	return applied
}

// apply mutates the state unless the store was closed.
func (s *Store) apply(fn func(*Snapshot)) bool {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return false
	}
	fn(&s.state)
	s.state.Version++
	snap, subs := s.notifyLocked()
	s.mu.Unlock()
	notify(subs, snap)
	return true
}

func (s *Store) notifyLocked() (Snapshot, []func(Snapshot)) {
	subs := make([]func(Snapshot), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return copySnapshot(s.state), subs
}

func notify(subs []func(Snapshot), snap Snapshot) {
	for _, fn := range subs {
		fn(snap)
	}
}

func (s *Store) logMarker(ctx context.Context) {
	if s.persist == nil {
		return
	}
	_, err := s.persist.Load(ctx, s.markerKey)
	switch {
	case err == nil:
		s.log.Debug().Str("key", s.markerKey).Msg("rehydrated session marker")
	case errors.Is(err, storage.ErrNotFound):
		s.log.Debug().Str("key", s.markerKey).Msg("no session marker")
	default:
		s.log.Warn().Err(err).Str("key", s.markerKey).Msg("read session marker")
	}
}

func (s *Store) saveMarker(ctx context.Context) {
	if s.persist == nil {
		return
	}
	ctx, cancel := persistContext(ctx)
	defer cancel()
	if err := s.persist.Save(ctx, s.markerKey, markerValue); err != nil {
		s.log.Warn().Err(err).Str("key", s.markerKey).Msg("persist session marker")
	}
}

func (s *Store) removeMarker(ctx context.Context) {
	if s.persist == nil {
		return
	}
	ctx, cancel := persistContext(ctx)
	defer cancel()
	if err := s.persist.Remove(ctx, s.markerKey); err != nil {
		s.log.Warn().Err(err).Str("key", s.markerKey).Msg("purge session marker")
	}
}

// persistContext detaches marker writes from a caller that may already be
// gone once the API answered.
func persistContext(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(ctx), 5*time.Second)
}

func copySnapshot(in Snapshot) Snapshot {
	out := in
	if in.User != nil {
		u := *in.User
		out.User = &u
	}
	return out
}
