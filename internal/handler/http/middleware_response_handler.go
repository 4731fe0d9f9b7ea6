// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package http

import "net/http"

// responseWriter decorates [http.ResponseWriter] to capture the status code
// and the number of body bytes written, so withLogging can report them after
// the downstream handler returns without buffering the response.
//
// WriteHeader is forwarded to the underlying writer exactly once; later
// calls are ignored, per the [http.ResponseWriter] contract.
type responseWriter struct {
	http.ResponseWriter

	status      int
	wroteHeader bool

	// size is the running total across all Write calls; body is replaced on
	// every call and holds only the most recent payload.
	size int
	body []byte
}

func (w *responseWriter) WriteHeader(statusCode int) {
	if w.wroteHeader {
		return
	}
	w.status = statusCode
	w.wroteHeader = true
	w.ResponseWriter.WriteHeader(statusCode)
}

// Write forwards b to the underlying writer, implicitly writing a 200 header
// first when none was written, matching the standard library's behaviour.
func (w *responseWriter) Write(b []byte) (int, error) {
	if !w.wroteHeader {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.size += n
	w.body = b
	return n, err
}
