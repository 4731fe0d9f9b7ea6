// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package http

import (
	"net/http"
	"time"

	"github.com/declaro/taxsync/internal/logger"
)

// withLogging emits one access-log line per request with the method, URI,
// response status, body size and handling duration. It relies on the trace
// id middleware running first so the request-scoped logger already carries
// the trace_id field.
func (h *Handler) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		log := logger.FromRequest(r)
		start := time.Now()

		lw := &responseWriter{ResponseWriter: w}
		next.ServeHTTP(lw, r)

		log.Info().
			Str("method", r.Method).
			Str("uri", r.RequestURI).
			Int("status", lw.status).
			Int("size", lw.size).
			Dur("duration", time.Since(start)).
			Send()
	})
}
