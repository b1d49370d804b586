package public

import (
	"github.com/Innovatio-dev/tof-checkout/internal/http/response"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
)

// OrderStatusRequest carries the order-access token issued at checkout.
type OrderStatusRequest struct {
	Token string `json:"token" binding:"required"`
}

// OrderStatusView is one order on the guest status page.
type OrderStatusView struct {
	OrderID  int64  `json:"orderId"`
	Status   string `json:"status"`
	Total    string `json:"total"`
	Currency string `json:"currency,omitempty"`
	DatePaid string `json:"datePaid,omitempty"`
}

// OrderStatusResponse lists every order the token covers.
type OrderStatusResponse struct {
	Email  string            `json:"email"`
	Orders []OrderStatusView `json:"orders"`
}

// GetOrderStatus resolves the order-access token into the current
// status of each covered order.
func (h *Handler) GetOrderStatus(c *gin.Context) {
	var req OrderStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	claims, err := h.OrderTokenService.Verify(req.Token)
	if err != nil {
		respondOrderStatusError(c, err)
		return
	}

	views := make([]OrderStatusView, 0, len(claims.OrderIDs))
	for _, orderID := range claims.OrderIDs {
		order, err := h.Commerce.GetOrder(c.Request.Context(), orderID)
		if err != nil {
			requestLog(c).Warnw("order_status_fetch_failed", "order_id", orderID, "error", err)
			respondOrderStatusError(c, service.ErrOrderNotFound)
			return
		}
		views = append(views, OrderStatusView{
			OrderID:  order.ID,
			Status:   order.Status,
			Total:    order.Total,
			Currency: order.Currency,
			DatePaid: order.DatePaid,
		})
	}

	response.Success(c, OrderStatusResponse{
		Email:  claims.Email,
		Orders: views,
	})
}
