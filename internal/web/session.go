package web

import (
	"encoding/json"
	"net/http"
	"net/url"
	"strings"

	"cinemaweb/internal/api"
	"cinemaweb/internal/auth"
	"cinemaweb/internal/session"
)

type field struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Label    string `json:"label"`
	Required bool   `json:"required"`
}

type form struct {
	Action string  `json:"action"`
	Method string  `json:"method"`
	Fields []field `json:"fields"`
	From   string  `json:"from,omitempty"`
	Error  string  `json:"error,omitempty"`
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	From     string `json:"from,omitempty"`
}

func (s *Server) handleLoginForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, form{
		Action: s.routes.LoginPath,
		Method: http.MethodPost,
		Fields: []field{
			{Name: "email", Type: "email", Label: "Email", Required: true},
			{Name: "password", Type: "password", Label: "Password", Required: true},
		},
		From:  r.URL.Query().Get("from"),
		Error: s.sessions.Snapshot().Error,
	})
}

func (s *Server) handleSignupForm(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, form{
		Action: s.signup,
		Method: http.MethodPost,
		Fields: []field{
			{Name: "name", Type: "text", Label: "Full name", Required: true},
			{Name: "email", Type: "email", Label: "Email", Required: true},
			{Name: "password", Type: "password", Label: "Password", Required: true},
			{Name: "confirm_password", Type: "password", Label: "Confirm password", Required: true},
			{Name: "profile_picture", Type: "url", Label: "Profile picture URL"},
		},
		Error: s.sessions.Snapshot().Error,
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid_body", "invalid body")
		return
	}
	s.sessions.ResetError()
	if err := session.ValidateLogin(req.Email, req.Password); err != nil {
		writeError(w, err, "Login failed")
		return
	}
	user, err := s.sessions.Login(r.Context(), strings.TrimSpace(req.Email), req.Password)
	if err != nil {
		writeError(w, err, "Login failed")
		return
	}
	from := req.From
	if from == "" {
		from = r.URL.Query().Get("from")
	}
	http.Redirect(w, r, s.afterLogin(user, from), http.StatusSeeOther)
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var f session.SignupForm
	if err := json.NewDecoder(r.Body).Decode(&f); err != nil {
		errorJSON(w, http.StatusBadRequest, "invalid_body", "invalid body")
		return
	}
	s.sessions.ResetError()
	if err := session.ValidateSignup(f); err != nil {
		writeError(w, err, "Signup failed")
		return
	}
	var picture *string
	if f.ProfilePicture != nil && strings.TrimSpace(*f.ProfilePicture) != "" {
		p := strings.TrimSpace(*f.ProfilePicture)
		picture = &p
	}
	user, err := s.sessions.Signup(r.Context(), api.SignupRequest{
		Email:          strings.TrimSpace(f.Email),
		Name:           strings.TrimSpace(f.Name),
		Password:       f.Password,
		ProfilePicture: picture,
	})
	if err != nil {
		writeError(w, err, "Signup failed")
		return
	}
	http.Redirect(w, r, s.landing(user), http.StatusSeeOther)
}

// handleLogout always sends the client to the login page, whatever the API
// answered.
func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.sessions.Logout(r.Context()); err != nil {
		s.log.Warn().Err(err).Msg("logout failed, redirecting anyway")
	}
	http.Redirect(w, r, s.routes.LoginPath, http.StatusSeeOther)
}

// afterLogin honours a local "from" location the gate would let this user
// open, otherwise the role landing page.
func (s *Server) afterLogin(u api.User, from string) string {
	if !localPath(from) {
		return s.landing(u)
	}
	d := s.routes.Decide(session.StatusSucceeded, &u, from)
	if d.Kind != auth.Allow {
		return s.landing(u)
	}
	return from
}

// localPath reports whether p can only resolve to this host. Browsers treat
// a backslash as a slash, so "/\host" counts as scheme-relative.
func localPath(p string) bool {
	if p == "" || p[0] != '/' {
		return false
	}
	for i := 0; i < len(p); i++ {
		if c := p[i]; c == '\\' || c < 0x20 || c == 0x7f {
			return false
		}
	}
	if strings.HasPrefix(p, "//") {
		return false
	}
	parsed, err := url.Parse(p)
	if err != nil || parsed.Scheme != "" || parsed.Host != "" || parsed.User != nil {
		return false
	}
	return strings.HasPrefix(parsed.Path, "/") && !strings.HasPrefix(parsed.Path, "//")
}
