package common

import (
	"errors"
	"fmt"
	"log"
	"net/http"

	"github.com/matst80/slask-boutique/pkg/common/jsoncompat"
	"github.com/matst80/slask-boutique/pkg/types"
)

// StatusError carries the http status a handler wants to answer with.
type StatusError struct {
	Status int
	Err    error
}

func (e *StatusError) Error() string {
	return e.Err.Error()
}

func (e *StatusError) Unwrap() error {
	return e.Err
}

func WithStatus(status int, err error) error {
	return &StatusError{Status: status, Err: err}
}

func BadRequest(format string, args ...any) error {
	return WithStatus(http.StatusBadRequest, fmt.Errorf(format, args...))
}

type JsonHandlerFunc func(w http.ResponseWriter, r *http.Request, sessionId int, enc jsoncompat.Encoder) error

// JsonHandler answers preflight requests, attaches the session cookie and turns
// handler errors into status codes. Handlers must return errors before writing.
func JsonHandler(trk types.Tracking, fn JsonHandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			RespondToOptions(w, r)
			return
		}
		sessionId := HandleSessionCookie(trk, w, r)
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Access-Control-Allow-Credentials", "true")
		}

		err := fn(w, r, sessionId, jsoncompat.NewEncoder(w))
		if err != nil {
			status := http.StatusInternalServerError
			var se *StatusError
			if errors.As(err, &se) {
				status = se.Status
			}
			log.Printf("Error handling request %s %s: %v", r.Method, r.URL.Path, err)
			http.Error(w, err.Error(), status)
		}
	}
}

func RespondToOptions(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Cache-Control", "public, max-age=3600")
	origin := r.Header.Get("Origin")
	if origin != "" {
		w.Header().Set("Access-Control-Allow-Origin", origin)
		w.Header().Set("Access-Control-Max-Age", "86400")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Allow-Credentials", "true")
	}
	w.Header().Set("Age", "0")
	w.WriteHeader(http.StatusAccepted)
}

// DecodeBody reads a json request body into v and reports malformed input as a bad request.
func DecodeBody(r *http.Request, v any) error {
	if err := jsoncompat.NewDecoder(r.Body).Decode(v); err != nil {
		return WithStatus(http.StatusBadRequest, fmt.Errorf("invalid body: %w", err))
	}
	return nil
}
