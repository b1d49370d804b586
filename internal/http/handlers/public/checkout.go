package public

import (
	"github.com/Innovatio-dev/tof-checkout/internal/http/response"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
)

// Checkout runs the full purchase orchestration: validation, customer
// resolution, pricing, fraud screening, coupon stacking, order
// creation, and order-access token issuance.
func (h *Handler) Checkout(c *gin.Context) {
	var input service.CheckoutInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	input.ClientIP = c.ClientIP()
	input.AuthenticatedEmail = h.authenticatedEmail(c)

	result, err := h.CheckoutService.Submit(c.Request.Context(), &input)
	if err != nil {
		requestLog(c).Warnw("checkout_failed",
			"state", result.State,
			"email", input.Email,
			"error", err,
		)
		respondCheckoutError(c, err)
		return
	}

	response.Success(c, result)
}
