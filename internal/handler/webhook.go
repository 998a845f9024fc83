package handler

import (
	"crypto/subtle"
	"net/http"

	"github.com/profwarlock/warlock/internal/inbound"
	"github.com/profwarlock/warlock/internal/logger"
	"github.com/profwarlock/warlock/internal/pipeline"
	"github.com/profwarlock/warlock/internal/utils"
)

// Webhook receives inbound email deliveries from the provider.
// Authentication is a shared secret in the token query parameter,
// compared in constant time.
func (h *Handler) Webhook(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	secret := h.cfg.Private.WebhookSecret
	if token == "" || subtle.ConstantTimeCompare([]byte(token), []byte(secret)) != 1 {
		writeJSON(w, http.StatusUnauthorized, map[string]string{
			"status":  "error",
			"message": "Unauthorized: Invalid or missing webhook token",
		})
		return
	}

	var payload inbound.WebhookPayload
	if err := utils.Decode(r.Body, &payload); err != nil {
		utils.WriteErrorAndStatusCode(w, err)
		return
	}
	if err := inbound.Validate(payload); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{
			"status":  "error",
			"message": err.Error(),
		})
		return
	}

	logger.Log.Info("received webhook", "from", payload.From)
	result := h.processor.Process(r.Context(), inbound.FromWebhook(payload))

	writeJSON(w, statusCode(result), result)
}

func statusCode(result pipeline.Result) int {
	switch result.Status {
	case pipeline.StatusSuccess:
		return http.StatusOK
	case pipeline.StatusPartial:
		return http.StatusAccepted
	default:
		return http.StatusInternalServerError
	}
}
