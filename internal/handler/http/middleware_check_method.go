// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Declaro Labs

package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// CheckHTTPMethod builds the handler registered via [chi.Mux.MethodNotAllowed].
//
// Chi answers 405 when a path matches a route but the method does not. That
// response confirms the route exists, so this handler answers 404 instead,
// making an unsupported method indistinguishable from an unknown path.
// Requests whose method is actually registered are handed back to the
// router's normal pipeline.
//
// Matching compares route patterns against the raw request path, so only
// exact patterns are considered; parameterised segments are not expanded.
func CheckHTTPMethod(router *chi.Mux) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		var matched chi.Route
		for _, route := range router.Routes() {
			if route.Pattern == r.URL.Path {
				matched = route
				break
			}
		}

		if _, ok := matched.Handlers[r.Method]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}

		router.ServeHTTP(w, r)
	}
}
