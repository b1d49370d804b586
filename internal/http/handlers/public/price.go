package public

import (
	"github.com/Innovatio-dev/tof-checkout/internal/http/response"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
)

// GetPriceOptions returns the selector option lists for the checkout
// form. The account-size list narrows to the chosen account type.
func (h *Handler) GetPriceOptions(c *gin.Context) {
	accountType := c.Query("accountType")
	response.Success(c, h.PricingService.Options(accountType))
}

// ResolvePriceRequest selects one product configuration.
type ResolvePriceRequest struct {
	AccountType string `json:"accountType" binding:"required"`
	AccountSize string `json:"accountSize" binding:"required"`
	Platform    string `json:"platform" binding:"required"`
}

// ResolvePrice quotes the price for a product configuration.
func (h *Handler) ResolvePrice(c *gin.Context) {
	var req ResolvePriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	quote, err := h.PricingService.Resolve(c.Request.Context(), req.AccountType, req.AccountSize, req.Platform)
	if err != nil {
		respondError(c, response.CodeBadRequest, service.ErrPriceNotFound.Error(), err)
		return
	}

	response.Success(c, quote)
}
