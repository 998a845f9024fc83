package handler

import "net/http"

// Root is the basic liveness endpoint.
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"message": "Prof. Warlock is running!",
		"status":  "healthy",
		"version": Version,
	})
}

// Health reports service details for monitoring.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "healthy",
		"service": "Prof. Warlock",
		"version": Version,
		"features": []string{
			"email_parsing",
			"natal_charts",
			"poster_composition",
			"personalized_responses",
		},
	})
}

const privacyNotice = `Prof. Warlock processes the birth details you email us solely to
compute your natal chart and send it back to you. Inbound emails are
not shared with third parties. Generated posters may be archived for
delivery purposes. Reply STOP to any message and we will delete your
data on request.`

// Privacy serves the data handling disclosure.
func (h *Handler) Privacy(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte(privacyNotice))
}
