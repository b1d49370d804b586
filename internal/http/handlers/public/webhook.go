package public

import (
	"encoding/json"
	"io"

	"github.com/Innovatio-dev/tof-checkout/internal/http/response"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
)

// BridgerWebhook receives the payment provider's deposit notifications
// and reconciles order state. The raw body is retained for the audit
// record.
func (h *Handler) BridgerWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondError(c, response.CodeBadRequest, "unreadable request body", err)
		return
	}

	var input service.WebhookInput
	if err := json.Unmarshal(body, &input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	input.RawPayload = body

	result, err := h.WebhookService.Handle(c.Request.Context(), &input)
	if err != nil {
		requestLog(c).Warnw("webhook_rejected",
			"type", input.Type,
			"transaction_id", input.TransactionID,
			"error", err,
		)
		respondWebhookError(c, err)
		return
	}

	response.Success(c, result)
}
