package middleware

import (
	"net/http"
	"strings"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
)

// Logger attaches logger to each request context, tagged with the chi request
// ID, and logs one line per request once the handler returns.
// Handlers retrieve the request logger with hlog.FromRequest.
func Logger(logger zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		access := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			if id := chimiddleware.GetReqID(r.Context()); id != "" {
				hlog.FromRequest(r).UpdateContext(func(c zerolog.Context) zerolog.Context {
					return c.Str("request_id", id)
				})
			}

			// Create a response writer wrapper to capture status code
			wrapped := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(wrapped, r)

			// Sanitize user-supplied values to prevent log injection: strip CR/LF before logging.
			sanitize := strings.NewReplacer("\n", "", "\r", "").Replace

			l := hlog.FromRequest(r)
			event := l.Info()
			switch {
			case wrapped.statusCode >= http.StatusInternalServerError:
				event = l.Error()
			case wrapped.statusCode >= http.StatusBadRequest:
				event = l.Warn()
			}
			event.
				Str("method", sanitize(r.Method)).
				Str("path", sanitize(r.URL.Path)).
				Int("status", wrapped.statusCode).
				Dur("duration", time.Since(start)).
				Msg("request")
		})

		return hlog.NewHandler(logger)(access)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
