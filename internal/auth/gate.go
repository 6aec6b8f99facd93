// Package auth decides, for every navigation, whether the requested page
// renders, waits for the session, or redirects elsewhere.
package auth

import (
	"net/url"
	"path"
	"strings"

	"cinemaweb/internal/api"
	"cinemaweb/internal/session"
)

type Routes struct {
	AdminPrefix string
	AuthPages   []string
	LoginPath   string
	AdminHome   string
	CatalogHome string
	Home        string
}

func DefaultRoutes() Routes {
	return Routes{
		AdminPrefix: "/admin",
		AuthPages:   []string{"/auth/login", "/auth/signup"},
		LoginPath:   "/auth/login",
		AdminHome:   "/admin/dashboard",
		CatalogHome: "/movies",
		Home:        "/",
	}
}

type Kind int

const (
	Allow Kind = iota
	Pending
	Redirect
)

func (k Kind) String() string {
	switch k {
	case Pending:
		return "pending"
	case Redirect:
		return "redirect"
	default:
		return "allow"
	}
}

// Decision is the outcome of one gate evaluation. From is set only on a
// redirect to the login page and holds the originally requested location.
type Decision struct {
	Kind   Kind
	Target string
	From   string
}

// Location is where a redirect decision should send the client.
func (d Decision) Location() string {
	if d.Kind != Redirect {
		return ""
	}
	if d.From == "" {
		return d.Target
	}
	return d.Target + "?" + url.Values{"from": {d.From}}.Encode()
}

// Decide evaluates the rules in order; the first match wins. requested is the
// request path with an optional query string.
func (r Routes) Decide(status session.Status, user *api.User, requested string) Decision {
	if status == session.StatusLoading {
		return Decision{Kind: Pending}
	}
	p := cleanPath(requested)
	if user != nil && r.isAuthPage(p) {
		if user.IsAdmin() {
			return Decision{Kind: Redirect, Target: r.AdminHome}
		}
		return Decision{Kind: Redirect, Target: r.CatalogHome}
	}
	if underPrefix(p, r.AdminPrefix) {
		if user == nil {
			return Decision{Kind: Redirect, Target: r.LoginPath, From: requested}
		}
		if !user.IsAdmin() {
			return Decision{Kind: Redirect, Target: r.Home}
		}
	}
	return Decision{Kind: Allow}
}

func (r Routes) isAuthPage(p string) bool {
	for _, page := range r.AuthPages {
		if underPrefix(p, page) {
			return true
		}
	}
	return false
}

func cleanPath(requested string) string {
	p := requested
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	if p == "" || p[0] != '/' {
		p = "/" + p
	}
	return path.Clean(p)
}

// underPrefix matches whole path segments: /admin covers /admin and
// /admin/x but not /administer.
func underPrefix(p, prefix string) bool {
	if prefix == "" {
		return false
	}
	prefix = cleanPath(prefix)
	if prefix == "/" {
		return true
	}
	return p == prefix || strings.HasPrefix(p, prefix+"/")
}
