package handlers

import "net/http"

// TimelineAll answers the documented empty-timeline shape; the watch
// timeline is tracked client-side and this endpoint exists for the sync
// contract.
func TimelineAll(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"secuses":   true,
		"timelines": map[string]any{},
	})
}
