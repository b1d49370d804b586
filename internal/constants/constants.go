package constants

// Order status constants (WooCommerce status slugs)
const (
	OrderStatusPending   = "pending"
	OrderStatusCompleted = "completed"
	OrderStatusFailed    = "failed"
	OrderStatusOnHold    = "on-hold"
	OrderStatusCancelled = "cancelled"
)

// Payment method constants
const (
	PaymentMethodBridger      = "bridgerpay"
	PaymentMethodBridgerTitle = "BridgerPay"
	PaymentMethodCoupon       = "coupon"
	PaymentMethodCouponTitle  = "Coupon"
)

// Provider webhook status constants (BridgerPay deposit statuses)
const (
	WebhookStatusApproved       = "approved"
	WebhookStatusDeclined       = "declined"
	WebhookStatusApprovedOnHold = "approved_on_hold"
	WebhookStatusAuthorized     = "authorized"
	WebhookStatusVoided         = "voided"
)

// Coupon discount type constants
const (
	CouponTypePercent = "percent"
)

// Coupon status constants
const (
	CouponStatusPublish = "publish"
)

// Coupon metadata keys carrying explicit stacking exclusions
const (
	CouponMetaExcludedIDs        = "excluded_coupons_ids"
	CouponMetaExcludedCategories = "excluded_coupons_categories"
)

// Mutually exclusive coupon category slugs: a coupon tagged with one
// cannot stack with a coupon tagged with the other.
const (
	CouponCategoryAffiliate = "affiliate"
	CouponCategoryActive    = "active"
)

// Order metadata keys
const (
	OrderMetaGroupIDs      = "bridgerpay_order_ids"
	OrderMetaTransactionID = "bridgerpay_transaction_id"
)

// Recurrence labels
const (
	RecurrenceMonthly = "monthly"
	RecurrenceOneTime = "one time fee"
)

// MaxStackedCoupons caps how many coupons a single checkout may stack.
const MaxStackedCoupons = 2

// FraudDeclineScore is the deny threshold on the provider's 0-100 scale.
const FraudDeclineScore = 80

// Fraud provider terminal states
const (
	FraudStateApprove = "APPROVE"
	FraudStateDecline = "DECLINE"
	FraudStateReview  = "REVIEW"
)

// Queue constants
const (
	QueueDefault         = "default"
	TaskOrderStatusEmail = "order:status_email"
)

// Cache key constants
const (
	RedisPrefixDefault   = "tof"
	BridgerTokenCacheKey = "bridger:auth_token"
)

// SiteCurrencyDefault is the currency charged on the checkout surface.
const SiteCurrencyDefault = "USD"
