package auth

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"cinemaweb/internal/session"
)

// SnapshotSource is satisfied by *session.Store.
type SnapshotSource interface {
	Snapshot() session.Snapshot
}

type pendingBody struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}

// Gate re-evaluates the routes against the current session on every request.
func Gate(source SnapshotSource, routes Routes, log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			snap := source.Snapshot()
			d := routes.Decide(snap.Status, snap.User, r.URL.RequestURI())
			switch d.Kind {
			case Pending:
				w.Header().Set("Content-Type", "application/json")
				w.Header().Set("Retry-After", "1")
				w.WriteHeader(http.StatusAccepted)
				_ = json.NewEncoder(w).Encode(pendingBody{Status: "loading", Message: "Checking session..."})
			case Redirect:
				log.Debug().Str("path", r.URL.Path).Str("target", d.Target).Msg("gate redirect")
				http.Redirect(w, r, d.Location(), http.StatusSeeOther)
			default:
				next.ServeHTTP(w, r)
			}
		})
	}
}
