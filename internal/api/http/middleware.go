package http

import (
	"net/http"
	"runtime/debug"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// Recover intercepts panics from downstream handlers, logs details, and
// returns HTTP 500.
func Recover(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				log.Error().
					Interface("panic", rec).
					Str("method", r.Method).
					Str("url", r.URL.String()).
					Str("remote", r.RemoteAddr).
					Bytes("stack", debug.Stack()).
					Msg("panic recovered")

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte(`{"error":"Internal Server Error","code":500}`))
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// RequestID tags each request with an identifier, echoed in the response
// header and attached to per-request log events.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get("X-Request-Id")
		if id == "" {
			id = uuid.NewString()
		}
		w.Header().Set("X-Request-Id", id)

		reqLog := log.With().Str("request_id", id).Logger()
		next.ServeHTTP(w, r.WithContext(reqLog.WithContext(r.Context())))
	})
}
