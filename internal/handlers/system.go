package handlers

import "net/http"

// Root is the plain-text liveness banner.
func Root(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("CUB API Backend is running!"))
}

// Checker is the uptime probe target.
func Checker(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("ok"))
}

// APIRoot answers the bare /api/ path with the documented 404 shape.
func APIRoot(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": "Not found",
		"code":  404,
	})
}
