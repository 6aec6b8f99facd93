package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

type ErrorKind string

const (
	// KindNetwork means the request never produced a response.
	KindNetwork ErrorKind = "network"
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP ErrorKind = "http"
	// KindDecode means a 2xx body could not be decoded.
	KindDecode ErrorKind = "decode"
)

// RequestError is returned by every Client call that fails.
type RequestError struct {
	Kind    ErrorKind
	Status  int
	Message string
	Code    string
	Err     error
}

func (e *RequestError) Error() string {
	if e.Kind == KindHTTP {
		return fmt.Sprintf("api: %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("api: %s: %s", e.Kind, e.Message)
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

func IsNetwork(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindNetwork
}

func IsHTTP(err error) bool {
	var re *RequestError
	return errors.As(err, &re) && re.Kind == KindHTTP
}

// StatusCode returns the HTTP status carried by err, or 0.
func StatusCode(err error) int {
	var re *RequestError
	if errors.As(err, &re) {
		return re.Status
	}
	return 0
}

// Message returns the human readable part of err, falling back to fallback
// when err carries none.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var re *RequestError
	if errors.As(err, &re) {
		if strings.TrimSpace(re.Message) != "" {
			return re.Message
		}
		return fallback
	}
	if msg := strings.TrimSpace(err.Error()); msg != "" {
		return msg
	}
	return fallback
}

func networkError(err error) *RequestError {
	return &RequestError{Kind: KindNetwork, Message: err.Error(), Err: err}
}

// errorEnvelope covers the shapes the backend emits:
// {"error":{"message","code"}}, {"error":"..."}, {"detail":"..."} and {"message":"..."}.
type errorEnvelope struct {
	Error   json.RawMessage `json:"error"`
	Detail  json.RawMessage `json:"detail"`
	Message string          `json:"message"`
}

func httpError(status int, body []byte) *RequestError {
	msg, code := extractMessage(body)
	if msg == "" {
		msg = fmt.Sprintf("HTTP %d", status)
	}
	return &RequestError{Kind: KindHTTP, Status: status, Message: msg, Code: code}
}

func extractMessage(body []byte) (string, string) {
	var env errorEnvelope
	if len(body) == 0 || json.Unmarshal(body, &env) != nil {
		return "", ""
	}
	var code string
	if len(env.Error) > 0 {
		var nested struct {
			Message string          `json:"message"`
			Code    json.RawMessage `json:"code"`
		}
		if json.Unmarshal(env.Error, &nested) == nil {
			code = rawCode(nested.Code)
			if nested.Message != "" {
				return nested.Message, code
			}
		}
		var flat string
		if json.Unmarshal(env.Error, &flat) == nil && flat != "" {
			return flat, code
		}
	}
	if len(env.Detail) > 0 {
		var detail string
		if json.Unmarshal(env.Detail, &detail) == nil && detail != "" {
			return detail, code
		}
	}
	return env.Message, code
}

// rawCode accepts string and numeric codes alike.
func rawCode(raw json.RawMessage) string {
	if len(raw) == 0 || string(raw) == "null" {
		return ""
	}
	var str string
	if json.Unmarshal(raw, &str) == nil {
		return str
	}
	return strings.TrimSpace(string(raw))
}
