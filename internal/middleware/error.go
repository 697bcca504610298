package middleware

import (
	"net/http"
	"strings"

	"github.com/goccy/go-json"

	"github.com/pageza/dinewise/backend/internal/logging"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error string `json:"error"`
}

// responseRecorder swallows non-JSON error bodies so they can be re-sent as
// ErrorResponse.
type responseRecorder struct {
	http.ResponseWriter
	statusCode  int
	wroteHeader bool
	capture     bool
	body        strings.Builder
}

func (r *responseRecorder) WriteHeader(statusCode int) {
	if r.wroteHeader {
		return
	}
	r.wroteHeader = true
	r.statusCode = statusCode
	if statusCode >= 400 && !strings.HasPrefix(r.Header().Get("Content-Type"), "application/json") {
		r.capture = true
		r.Header().Set("Content-Type", "application/json")
		r.Header().Del("Content-Length")
		r.Header().Del("X-Content-Type-Options")
	}
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *responseRecorder) Write(b []byte) (int, error) {
	if !r.wroteHeader {
		r.WriteHeader(http.StatusOK)
	}
	if r.capture {
		r.body.Write(b)
		return len(b), nil
	}
	return r.ResponseWriter.Write(b)
}

// Flush lets streaming handlers keep working through the recorder.
func (r *responseRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// ErrorHandler converts panics and plain-text error responses into JSON
// error bodies.
func ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &responseRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		defer func() {
			if err := recover(); err != nil {
				logging.Ctx(r.Context()).Error().Interface("panic", err).Str("path", r.URL.Path).Msg("recovered from panic")
				if rec.wroteHeader {
					return
				}
				rec.Header().Set("Content-Type", "application/json")
				rec.ResponseWriter.WriteHeader(http.StatusInternalServerError)
				json.NewEncoder(w).Encode(ErrorResponse{Error: "Internal Server Error"})
				return
			}
			if rec.capture {
				json.NewEncoder(w).Encode(ErrorResponse{Error: strings.TrimSpace(rec.body.String())})
			}
		}()

		next.ServeHTTP(rec, r)
	})
}
