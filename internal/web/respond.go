package web

import (
	"encoding/json"
	"errors"
	"net/http"

	"cinemaweb/internal/api"
	"cinemaweb/internal/session"
)

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Field   string `json:"field,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func errorJSON(w http.ResponseWriter, status int, code, msg string) {
	writeJSON(w, status, map[string]errorBody{"error": {Message: msg, Code: code}})
}

// writeError maps validation and API failures onto the error envelope. HTTP
// failures keep the upstream status; anything that never got an answer is
// a 502.
func writeError(w http.ResponseWriter, err error, fallback string) {
	var ve *session.ValidationError
	if errors.As(err, &ve) {
		writeJSON(w, http.StatusUnprocessableEntity, map[string]errorBody{
			"error": {Message: ve.Message, Code: "validation_error", Field: ve.Field},
		})
		return
	}
	var re *api.RequestError
	if errors.As(err, &re) {
		msg := api.Message(err, fallback)
		switch re.Kind {
		case api.KindHTTP:
			code := re.Code
			if code == "" {
				code = "upstream_error"
			}
			errorJSON(w, re.Status, code, msg)
		case api.KindDecode:
			errorJSON(w, http.StatusBadGateway, "bad_upstream_response", msg)
		default:
			errorJSON(w, http.StatusBadGateway, "upstream_unavailable", msg)
		}
		return
	}
	errorJSON(w, http.StatusInternalServerError, "internal_error", fallback)
}
