package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cinemaweb/internal/api"
	"cinemaweb/internal/session"
)

type staticSource session.Snapshot

func (s staticSource) Snapshot() session.Snapshot { return session.Snapshot(s) }

func serve(src SnapshotSource, target string) *httptest.ResponseRecorder {
	h := Gate(src, DefaultRoutes(), zerolog.Nop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

func TestGate_Pending(t *testing.T) {
	rec := serve(staticSource{Status: session.StatusLoading}, "/admin/dashboard")
	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, "1", rec.Header().Get("Retry-After"))
	assert.JSONEq(t, `{"status":"loading","message":"Checking session..."}`, rec.Body.String())
}

func TestGate_RedirectToLoginKeepsFrom(t *testing.T) {
	rec := serve(staticSource{Status: session.StatusSucceeded}, "/admin/dashboard")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/auth/login?from=%2Fadmin%2Fdashboard", rec.Header().Get("Location"))
}

func TestGate_AdminOnLogin(t *testing.T) {
	rec := serve(staticSource{Status: session.StatusSucceeded, User: &api.User{Role: "admin"}}, "/auth/login")
	require.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/admin/dashboard", rec.Header().Get("Location"))
}

func TestGate_Allow(t *testing.T) {
	rec := serve(staticSource{Status: session.StatusSucceeded, User: &api.User{Role: "admin"}}, "/admin/movies")
	assert.Equal(t, http.StatusTeapot, rec.Code)
}

func TestGate_FollowsLiveStore(t *testing.T) {
	store := session.NewStore(nil, nil)
	rec := serve(store, "/admin/dashboard")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
}
