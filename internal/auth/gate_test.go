package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cinemaweb/internal/api"
	"cinemaweb/internal/session"
)

var (
	adminUser  = &api.User{ID: 1, Role: "admin"}
	viewerUser = &api.User{ID: 2, Role: "user"}
)

func TestDecide(t *testing.T) {
	routes := DefaultRoutes()
	cases := []struct {
		name   string
		status session.Status
		user   *api.User
		path   string
		want   Decision
	}{
		{"admin on login goes to dashboard", session.StatusSucceeded, adminUser, "/auth/login", Decision{Kind: Redirect, Target: "/admin/dashboard"}},
		{"viewer on signup goes to catalog", session.StatusSucceeded, viewerUser, "/auth/signup", Decision{Kind: Redirect, Target: "/movies"}},
		{"viewer on admin goes home", session.StatusSucceeded, viewerUser, "/admin/addmovie", Decision{Kind: Redirect, Target: "/"}},
		{"anonymous on admin goes to login", session.StatusSucceeded, nil, "/admin/dashboard", Decision{Kind: Redirect, Target: "/auth/login", From: "/admin/dashboard"}},
		{"anonymous keeps query in from", session.StatusFailed, nil, "/admin/movies?page=2", Decision{Kind: Redirect, Target: "/auth/login", From: "/admin/movies?page=2"}},
		{"loading never redirects", session.StatusLoading, nil, "/admin/dashboard", Decision{Kind: Pending}},
		{"loading on public page", session.StatusLoading, viewerUser, "/movies", Decision{Kind: Pending}},
		{"admin on admin", session.StatusSucceeded, adminUser, "/admin/dashboard", Decision{Kind: Allow}},
		{"anonymous on login", session.StatusIdle, nil, "/auth/login", Decision{Kind: Allow}},
		{"anonymous on catalog", session.StatusFailed, nil, "/movies/3", Decision{Kind: Allow}},
		{"segment prefix only", session.StatusSucceeded, nil, "/administer", Decision{Kind: Allow}},
		{"cleaned path", session.StatusSucceeded, nil, "/movies/../admin", Decision{Kind: Redirect, Target: "/auth/login", From: "/movies/../admin"}},
		{"trailing slash", session.StatusSucceeded, adminUser, "/auth/login/", Decision{Kind: Redirect, Target: "/admin/dashboard"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, routes.Decide(tc.status, tc.user, tc.path))
		})
	}
}

func TestDecide_Idempotent(t *testing.T) {
	routes := DefaultRoutes()
	for _, user := range []*api.User{nil, viewerUser, adminUser} {
		for _, status := range []session.Status{session.StatusIdle, session.StatusLoading, session.StatusSucceeded, session.StatusFailed} {
			for _, p := range []string{"/", "/auth/login", "/admin/dashboard", "/movies"} {
				assert.Equal(t, routes.Decide(status, user, p), routes.Decide(status, user, p))
			}
		}
	}
}

func TestDecide_RedirectTargetsAreStable(t *testing.T) {
	routes := DefaultRoutes()
	for _, user := range []*api.User{nil, viewerUser, adminUser} {
		for _, p := range []string{"/auth/login", "/auth/signup", "/admin/dashboard", "/admin/movies/4"} {
			d := routes.Decide(session.StatusSucceeded, user, p)
			if d.Kind != Redirect {
				continue
			}
			next := routes.Decide(session.StatusSucceeded, user, d.Location())
			assert.Equal(t, Allow, next.Kind, "user=%v path=%s target=%s", user, p, d.Location())
		}
	}
}

func TestDecision_Location(t *testing.T) {
	d := Decision{Kind: Redirect, Target: "/auth/login", From: "/admin/movies?page=2"}
	assert.Equal(t, "/auth/login?from=%2Fadmin%2Fmovies%3Fpage%3D2", d.Location())
	assert.Equal(t, "/", Decision{Kind: Redirect, Target: "/"}.Location())
	assert.Empty(t, Decision{Kind: Allow}.Location())
}
