package http

import (
	"net/http"

	"github.com/google/uuid"
)

const (
	traceIDHeader    = "X-Trace-ID"
	maxTraceIDLength = 128
)

// requestTraceID reuses a sane client-supplied trace id or mints a new one.
func requestTraceID(r *http.Request) string {
	if id := r.Header.Get(traceIDHeader); id != "" && len(id) <= maxTraceIDLength {
		return id
	}
	return uuid.NewString()
}

// withTraceID stores a child logger tagged with trace_id in the request
// context and echoes the id back in X-Trace-ID.
func (h *Handler) withTraceID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID := requestTraceID(r)
		w.Header().Set(traceIDHeader, traceID)

		reqLogger := h.logger.With().Str("trace_id", traceID).Logger()
		next.ServeHTTP(w, r.WithContext(reqLogger.WithContext(r.Context())))
	})
}
