package public

import (
	"fmt"
	"strings"

	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/constants"
	"github.com/Innovatio-dev/tof-checkout/internal/http/response"
	"github.com/Innovatio-dev/tof-checkout/internal/models"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ValidateDiscountRequest checks one promo code against the cart.
type ValidateDiscountRequest struct {
	Code         string       `json:"code" binding:"required"`
	Email        string       `json:"email"`
	ProductID    int64        `json:"productId"`
	Total        models.Money `json:"total"`
	AppliedCodes []string     `json:"appliedCodes"`
}

// ValidateDiscountResponse reports the evaluation outcome.
type ValidateDiscountResponse struct {
	Valid              bool         `json:"valid"`
	Reason             string       `json:"reason,omitempty"`
	Code               string       `json:"code,omitempty"`
	DiscountAmount     models.Money `json:"discountAmount"`
	TotalAfterDiscount models.Money `json:"totalAfterDiscount"`
}

// ValidateDiscount evaluates a promo code and its stacking rules
// without creating anything.
func (h *Handler) ValidateDiscount(c *gin.Context) {
	var req ValidateDiscountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "invalid request body", err)
		return
	}

	ctx := c.Request.Context()
	total := req.Total.Decimal

	evaluation, err := h.CouponService.Evaluate(ctx, req.Code, req.Email, req.ProductID, total)
	if err != nil {
		respondError(c, response.CodeInternal, "coupon lookup failed", err)
		return
	}
	if !evaluation.Valid {
		response.Success(c, ValidateDiscountResponse{
			Valid:              false,
			Reason:             evaluation.Reason,
			DiscountAmount:     models.NewMoneyFromDecimal(decimal.Zero),
			TotalAfterDiscount: req.Total,
		})
		return
	}

	if len(req.AppliedCodes)+1 > constants.MaxStackedCoupons {
		response.Success(c, ValidateDiscountResponse{
			Valid:              false,
			Reason:             fmt.Sprintf("At most %d promo codes may be stacked.", constants.MaxStackedCoupons),
			DiscountAmount:     models.NewMoneyFromDecimal(decimal.Zero),
			TotalAfterDiscount: req.Total,
		})
		return
	}

	applied, err := h.fetchAppliedCoupons(c, req.AppliedCodes)
	if err != nil {
		respondError(c, response.CodeInternal, "coupon lookup failed", err)
		return
	}

	if decision := service.CanStack(applied, evaluation.Coupon); !decision.Allowed {
		reason := decision.Reason
		if decision.ConflictCode != "" {
			reason = fmt.Sprintf("Promo code %s can't be stacked with %s.",
				strings.ToUpper(strings.TrimSpace(evaluation.Coupon.Code)),
				strings.ToUpper(strings.TrimSpace(decision.ConflictCode)))
		}
		response.Success(c, ValidateDiscountResponse{
			Valid:              false,
			Reason:             reason,
			DiscountAmount:     models.NewMoneyFromDecimal(decimal.Zero),
			TotalAfterDiscount: req.Total,
		})
		return
	}

	response.Success(c, ValidateDiscountResponse{
		Valid:              true,
		Code:               evaluation.Coupon.Code,
		DiscountAmount:     evaluation.DiscountAmount,
		TotalAfterDiscount: evaluation.TotalAfterDiscount,
	})
}

func (h *Handler) fetchAppliedCoupons(c *gin.Context, codes []string) ([]*commerce.Coupon, error) {
	coupons := make([]*commerce.Coupon, 0, len(codes))
	for _, code := range codes {
		if strings.TrimSpace(code) == "" {
			continue
		}
		coupon, err := h.Commerce.GetCouponByCode(c.Request.Context(), code)
		if err != nil {
			return nil, err
		}
		if coupon == nil {
			continue
		}
		coupons = append(coupons, coupon)
	}
	return coupons, nil
}
