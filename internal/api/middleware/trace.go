// Package middleware provides HTTP middleware for tracing and
// authentication.
package middleware

import (
	"log/slog"
	"net/http"

	"github.com/rowanfell/mnemo-api/internal/api/shared"
	"github.com/rowanfell/mnemo-api/internal/platform/logger"
)

// Trace adds a trace ID and a trace-scoped logger to the request
// context. Apply it early so all downstream handlers and services log
// with the same correlation ID.
func Trace(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := shared.SetTraceID(r.Context())
		traceID := shared.GetTraceID(ctx)

		log := slog.With(slog.String("trace_id", traceID))
		ctx = logger.WithContext(ctx, log)

		log.Debug("request started",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_addr", r.RemoteAddr))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
