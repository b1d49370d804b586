package public

import (
	"errors"
	"strings"

	"github.com/Innovatio-dev/tof-checkout/internal/http/response"
	"github.com/Innovatio-dev/tof-checkout/internal/service"

	"github.com/gin-gonic/gin"
)

// mappedHandlerError binds a business error to the envelope code it
// should surface with.
type mappedHandlerError struct {
	target error
	code   int
}

func respondWithMappedError(c *gin.Context, err error, rules []mappedHandlerError, fallbackCode int, fallbackMsg string) {
	for _, rule := range rules {
		if errors.Is(err, rule.target) {
			respondError(c, rule.code, errorDetail(err, rule.target), nil)
			return
		}
	}
	respondError(c, fallbackCode, fallbackMsg, err)
}

// errorDetail strips the sentinel prefix so the client sees the
// human-readable reason the service attached.
func errorDetail(err, sentinel error) string {
	message := err.Error()
	prefix := sentinel.Error() + ": "
	if strings.HasPrefix(message, prefix) {
		return strings.TrimPrefix(message, prefix)
	}
	return message
}

var checkoutErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidParams, code: response.CodeBadRequest},
	{target: service.ErrPriceNotFound, code: response.CodeBadRequest},
	{target: service.ErrProductUnavailable, code: response.CodeBadRequest},
	{target: service.ErrFraudDeclined, code: response.CodePaymentDeclined},
	{target: service.ErrCouponRejected, code: response.CodeBadRequest},
	{target: service.ErrStackingRejected, code: response.CodeBadRequest},
	{target: service.ErrOrderCreateFailed, code: response.CodeInternal},
}

var paymentSessionErrorRules = []mappedHandlerError{
	{target: service.ErrInvalidParams, code: response.CodeBadRequest},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
	{target: service.ErrPaymentAuthFailed, code: response.CodeUnauthorized},
	{target: service.ErrPaymentSessionFailed, code: response.CodeSessionFailed},
}

var orderStatusErrorRules = []mappedHandlerError{
	{target: service.ErrTokenInvalid, code: response.CodeUnauthorized},
	{target: service.ErrTokenExpired, code: response.CodeUnauthorized},
	{target: service.ErrTokenForbidden, code: response.CodeForbidden},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
}

var webhookErrorRules = []mappedHandlerError{
	{target: service.ErrWebhookBadStatus, code: response.CodeBadRequest},
	{target: service.ErrWebhookBadOrderID, code: response.CodeBadRequest},
	{target: service.ErrOrderNotFound, code: response.CodeNotFound},
}

func respondCheckoutError(c *gin.Context, err error) {
	respondWithMappedError(c, err, checkoutErrorRules, response.CodeInternal, "checkout failed")
}

func respondPaymentSessionError(c *gin.Context, err error) {
	respondWithMappedError(c, err, paymentSessionErrorRules, response.CodeInternal, "payment session failed")
}

func respondOrderStatusError(c *gin.Context, err error) {
	respondWithMappedError(c, err, orderStatusErrorRules, response.CodeInternal, "order status lookup failed")
}

func respondWebhookError(c *gin.Context, err error) {
	respondWithMappedError(c, err, webhookErrorRules, response.CodeInternal, "webhook processing failed")
}
