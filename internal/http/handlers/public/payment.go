package public

import (
	"github.com/Innovatio-dev/tof-checkout/internal/http/response"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
)

// CreatePaymentSession opens a hosted cashier session for an order.
// Coupon-paid and zero-total orders short-circuit with skip_payment.
func (h *Handler) CreatePaymentSession(c *gin.Context) {
	var input service.PaymentSessionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}
	if input.OrderID <= 0 {
		respondError(c, response.CodeBadRequest, "orderId is required", nil)
		return
	}

	result, err := h.PaymentService.CreateSession(c.Request.Context(), &input)
	if err != nil {
		respondPaymentSessionError(c, err)
		return
	}

	response.Success(c, result)
}
