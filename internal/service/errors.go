package service

import "errors"

var (
	ErrInvalidParams        = errors.New("missing or invalid required fields")
	ErrPriceNotFound        = errors.New("price not found")
	ErrProductUnavailable   = errors.New("invalid product pricing")
	ErrFraudDeclined        = errors.New("purchase declined by risk screening")
	ErrCouponRejected       = errors.New("coupon rejected")
	ErrStackingRejected     = errors.New("coupon stacking rejected")
	ErrOrderCreateFailed    = errors.New("order creation failed")
	ErrOrderNotFound        = errors.New("order not found")
	ErrPaymentAuthFailed    = errors.New("payment gateway authentication failed")
	ErrPaymentSessionFailed = errors.New("payment session creation failed")
	ErrTokenInvalid         = errors.New("invalid access token")
	ErrTokenExpired         = errors.New("access token expired")
	ErrTokenForbidden       = errors.New("access token does not cover this order")
	ErrWebhookBadStatus     = errors.New("unsupported status")
	ErrWebhookBadOrderID    = errors.New("invalid order id")

	ErrEmailServiceDisabled      = errors.New("email service disabled")
	ErrEmailServiceNotConfigured = errors.New("email service not configured")
	ErrInvalidEmail              = errors.New("invalid email address")
	ErrEmailRecipientRejected    = errors.New("email recipient rejected")
)
