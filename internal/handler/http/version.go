package http

import (
	"net/http"
)

func (h *Handler) getServerVersion(w http.ResponseWriter, r *http.Request) {
	version := h.appVersion
	if version == "" {
		version = "N/A"
	}

	w.Header().Set("Content-Type", "text/plain")
	w.Write([]byte(version))
}
