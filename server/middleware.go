// Package server middleware for method filtering, panic recovery and the JSON 404.
package server

import (
	"fmt"
	"net/http"
	"runtime/debug"
)

const allowedMethods = "GET, HEAD, OPTIONS"

// allowGet restricts a route to GET and HEAD. OPTIONS is answered with the Allow
// header; anything else gets the JSON 405.
func allowGet(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet, http.MethodHead:
			next.ServeHTTP(w, r)
		case http.MethodOptions:
			w.Header().Set("Allow", allowedMethods)
			w.WriteHeader(http.StatusOK)
		default:
			w.Header().Set("Allow", allowedMethods)
			writeError(w, http.StatusMethodNotAllowed, "Method Not Allowed", "The method is not allowed for the requested URL.")
		}
	})
}

// handleNotFound is the catch-all route.
func handleNotFound(w http.ResponseWriter, _ *http.Request) {
	writeError(w, http.StatusNotFound, "Not Found", "The requested endpoint does not exist on this service")
}

// recoverer turns a handler panic into the 500 contract so one bad request never takes
// the server down. http.ErrAbortHandler keeps its net/http meaning.
func (h *Handlers) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}
			if rec == http.ErrAbortHandler { //nolint:errorlint // sentinel panic value
				panic(rec)
			}
			err, ok := rec.(error)
			if !ok {
				err = fmt.Errorf("panic: %v", rec)
			} else {
				err = fmt.Errorf("panic: %w", err)
			}
			h.logFault(r, err, debug.Stack())
			if sr, ok := w.(*statusRecorder); ok && sr.wroteHeader {
				// Too late for a 500; abort the connection instead of appending to a partial body.
				panic(http.ErrAbortHandler)
			}
			writeInternalError(w)
		}()
		next.ServeHTTP(w, r)
	})
}
