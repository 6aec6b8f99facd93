// Package web serves the console: storefront pages, session actions and the
// movie admin, all guarded by the auth gate.
package web

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"cinemaweb/internal/api"
	"cinemaweb/internal/auth"
	"cinemaweb/internal/catalog"
	"cinemaweb/internal/session"
)

// Sessions is implemented by *session.Store.
type Sessions interface {
	auth.SnapshotSource
	Login(ctx context.Context, email, password string) (api.User, error)
	Signup(ctx context.Context, req api.SignupRequest) (api.User, error)
	Logout(ctx context.Context) error
	ResetError()
}

// Movies is implemented by *api.Client.
type Movies interface {
	GetMovie(ctx context.Context, id int64) (api.Movie, error)
	CreateMovie(ctx context.Context, in api.MovieCreate) (api.Movie, error)
	UpdateMovie(ctx context.Context, id int64, in api.MovieUpdate) (api.Movie, error)
	UploadThumbnail(ctx context.Context, id int64, filename string, r io.Reader) (api.Movie, error)
	UploadTrailer(ctx context.Context, id int64, filename string, r io.Reader) (api.Movie, error)
	UploadVideo(ctx context.Context, id int64, filename string, r io.Reader) (api.VideoUpload, error)
}

// Catalog is implemented by *catalog.Store.
type Catalog interface {
	Defaults() api.ListParams
	Fetch(ctx context.Context, params api.ListParams) ([]api.Movie, error)
	Invalidate()
}

type Server struct {
	sessions Sessions
	movies   Movies
	catalog  Catalog
	routes   auth.Routes
	signup   string
	log      zerolog.Logger
}

func NewServer(sessions Sessions, movies Movies, cat Catalog, routes auth.Routes, log zerolog.Logger) *Server {
	signup := "/auth/signup"
	for _, p := range routes.AuthPages {
		if p != routes.LoginPath {
			signup = p
			break
		}
	}
	return &Server{sessions: sessions, movies: movies, catalog: cat, routes: routes, signup: signup, log: log}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP, requestLogger(s.log), middleware.Recoverer, sameOrigin(s.log))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	r.Get("/session", s.handleSession)
	r.Post("/auth/logout", s.handleLogout)

	r.Group(func(r chi.Router) {
		r.Use(auth.Gate(s.sessions, s.routes, s.log))

		r.Get("/", s.handleHome)
		r.Get("/movies", s.handleListMovies)
		r.Get("/movies/{id}", s.handleGetMovie)

		r.Get(s.routes.LoginPath, s.handleLoginForm)
		r.Post(s.routes.LoginPath, s.handleLogin)
		r.Get(s.signup, s.handleSignupForm)
		r.Post(s.signup, s.handleSignup)

		r.Route(s.routes.AdminPrefix, func(r chi.Router) {
			r.Get("/dashboard", s.handleDashboard)
			r.Get("/movies", s.handleListMovies)
			r.Post("/movies", s.handleCreateMovie)
			r.Put("/movies/{id}", s.handleUpdateMovie)
			r.Post("/movies/{id}/thumbnail", s.handleUpload(uploadThumbnail))
			r.Post("/movies/{id}/video", s.handleUpload(uploadVideo))
			r.Post("/movies/{id}/trailer", s.handleUpload(uploadTrailer))
		})
	})
	return r
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Int("bytes", ww.BytesWritten()).
					Dur("duration", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// sameOrigin rejects state-changing requests a browser sent on behalf of
// another site. Clients that send neither Origin nor Sec-Fetch-Site pass.
func sameOrigin(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}
			if crossOrigin(r) {
				log.Warn().Str("method", r.Method).Str("path", r.URL.Path).Str("origin", r.Header.Get("Origin")).Msg("cross-origin request rejected")
				errorJSON(w, http.StatusForbidden, "cross_origin", "cross-origin request rejected")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

func crossOrigin(r *http.Request) bool {
	switch r.Header.Get("Sec-Fetch-Site") {
	case "", "same-origin", "none":
	default:
		return true
	}
	origin := r.Header.Get("Origin")
	if origin == "" {
		return false
	}
	u, err := url.Parse(origin)
	return err != nil || u.Host == "" || !strings.EqualFold(u.Host, r.Host)
}

func (s *Server) handleSession(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.sessions.Snapshot())
}

func (s *Server) handleHome(w http.ResponseWriter, r *http.Request) {
	snap := s.sessions.Snapshot()
	links := map[string]string{"catalog": s.routes.CatalogHome}
	if snap.User == nil {
		links["login"] = s.routes.LoginPath
		links["signup"] = s.signup
	} else if snap.User.IsAdmin() {
		links["dashboard"] = s.routes.AdminHome
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":  snap.User,
		"links": links,
	})
}

// landing is where a freshly authenticated user goes.
func (s *Server) landing(u api.User) string {
	if u.IsAdmin() {
		return s.routes.AdminHome
	}
	return s.routes.CatalogHome
}

var _ Sessions = (*session.Store)(nil)
var _ Movies = (*api.Client)(nil)
var _ Catalog = (*catalog.Store)(nil)
