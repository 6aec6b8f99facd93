package web

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"cinemaweb/internal/api"
	"cinemaweb/internal/catalog"
	"cinemaweb/internal/session"
)

const maxUploadMemory = 32 << 20

func (s *Server) handleListMovies(w http.ResponseWriter, r *http.Request) {
	f, err := filterFromQuery(r)
	if err != nil {
		writeError(w, err, "Failed to load movies")
		return
	}
	params := f.Apply(s.catalog.Defaults())
	items, err := s.catalog.Fetch(r.Context(), params)
	if err != nil {
		writeError(w, err, "Failed to load movies")
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items":  items,
		"params": params,
	})
}

func (s *Server) handleGetMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}
	m, err := s.movies.GetMovie(r.Context(), id)
	if err != nil {
		writeError(w, err, "Failed to load movie")
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	items, err := s.catalog.Fetch(r.Context(), s.catalog.Defaults())
	if err != nil {
		writeError(w, err, "Failed to load movies")
		return
	}
	premium := 0
	for _, m := range items {
		if m.IsPremium {
			premium++
		}
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"user":    s.sessions.Snapshot().User,
		"movies":  len(items),
		"premium": premium,
		"genres":  api.Genres,
	})
}

func (s *Server) handleCreateMovie(w http.ResponseWriter, r *http.Request) {
	var in api.MovieCreate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid_body", "invalid body")
		return
	}
	in.Title = strings.TrimSpace(in.Title)
	if in.Title == "" {
		writeError(w, &session.ValidationError{Field: "title", Message: "Title is required"}, "")
		return
	}
	if !in.Genre.Valid() {
		writeError(w, &session.ValidationError{Field: "genre", Message: "Genre is invalid"}, "")
		return
	}
	m, err := s.movies.CreateMovie(r.Context(), in)
	if err != nil {
		writeError(w, err, "Failed to create movie")
		return
	}
	s.catalog.Invalidate()
	writeJSON(w, http.StatusCreated, m)
}

func (s *Server) handleUpdateMovie(w http.ResponseWriter, r *http.Request) {
	id, ok := movieID(w, r)
	if !ok {
		return
	}
	var in api.MovieUpdate
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid_body", "invalid body")
		return
	}
	if in.Title != nil && strings.TrimSpace(*in.Title) == "" {
		writeError(w, &session.ValidationError{Field: "title", Message: "Title is required"}, "")
		return
	}
	if in.Genre != nil && !in.Genre.Valid() {
		writeError(w, &session.ValidationError{Field: "genre", Message: "Genre is invalid"}, "")
		return
	}
	m, err := s.movies.UpdateMovie(r.Context(), id, in)
	if err != nil {
		writeError(w, err, "Failed to update movie")
		return
	}
	s.catalog.Invalidate()
	writeJSON(w, http.StatusOK, m)
}

type uploadFunc func(ctx context.Context, m Movies, id int64, filename string, r io.Reader) (interface{}, error)

func uploadThumbnail(ctx context.Context, m Movies, id int64, filename string, r io.Reader) (interface{}, error) {
	movie, err := m.UploadThumbnail(ctx, id, filename, r)
	return map[string]api.Movie{"movie": movie}, err
}

func uploadTrailer(ctx context.Context, m Movies, id int64, filename string, r io.Reader) (interface{}, error) {
	movie, err := m.UploadTrailer(ctx, id, filename, r)
	return map[string]api.Movie{"movie": movie}, err
}

func uploadVideo(ctx context.Context, m Movies, id int64, filename string, r io.Reader) (interface{}, error) {
	return m.UploadVideo(ctx, id, filename, r)
}

func (s *Server) handleUpload(fn uploadFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := movieID(w, r)
		if !ok {
			return
		}
		if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
			errorJSON(w, http.StatusBadRequest, "invalid_body", "multipart body required")
			return
		}
		if r.MultipartForm != nil {
			defer r.MultipartForm.RemoveAll()
		}
		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, &session.ValidationError{Field: "file", Message: "File is required"}, "")
			return
		}
		defer file.Close()

		out, err := fn(r.Context(), s.movies, id, header.Filename, file)
		if err != nil {
			writeError(w, err, "Upload failed")
			return
		}
		s.catalog.Invalidate()
		s.log.Info().Int64("movie_id", id).Str("file", header.Filename).Int64("size", header.Size).Msg("upload forwarded")
		writeJSON(w, http.StatusOK, out)
	}
}

func movieID(w http.ResponseWriter, r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		errorJSON(w, http.StatusBadRequest, "invalid_id", "invalid movie id")
		return 0, false
	}
	return id, true
}

func filterFromQuery(r *http.Request) (catalog.Filter, error) {
	q := r.URL.Query()
	var f catalog.Filter
	if q.Has("q") {
		v := q.Get("q")
		f.Q = &v
	}
	if q.Has("genre") {
		v := q.Get("genre")
		if v != "" && !api.Genre(v).Valid() {
			return f, &session.ValidationError{Field: "genre", Message: "Genre is invalid"}
		}
		f.Genre = &v
	}
	if v := q.Get("is_premium"); v == "" {
		f.AnyPremium = q.Has("is_premium")
	} else {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return f, &session.ValidationError{Field: "is_premium", Message: "is_premium must be a boolean"}
		}
		f.IsPremium = &b
	}
	for _, p := range []struct {
		key string
		dst **int
	}{{"limit", &f.Limit}, {"offset", &f.Offset}} {
		if v := q.Get(p.key); v != "" {
			n, err := strconv.Atoi(v)
			if err != nil || n < 0 {
				return f, &session.ValidationError{Field: p.key, Message: p.key + " must be a non-negative integer"}
			}
			*p.dst = &n
		}
	}
	if q.Has("order") {
		v := q.Get("order")
		f.Order = &v
	}
	return f, nil
}
