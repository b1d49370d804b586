package router

import (
	"fmt"
	"strings"

	"github.com/Innovatio-dev/tof-checkout/internal/cache"
	"github.com/Innovatio-dev/tof-checkout/internal/config"
	publichandlers "github.com/Innovatio-dev/tof-checkout/internal/http/handlers/public"
	"github.com/Innovatio-dev/tof-checkout/internal/logger"
	"github.com/Innovatio-dev/tof-checkout/internal/provider"

	"github.com/gin-gonic/gin"
)

// SetupRouter wires middleware and the public checkout routes.
func SetupRouter(cfg *config.Config, c *provider.Container) *gin.Engine {
	log := logger.Z()
	if log == nil {
		log = logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	}
	r := gin.New()

	publicHandler := publichandlers.New(c)
	redisPrefix := strings.TrimSpace(cfg.Redis.Prefix)
	if redisPrefix == "" {
		redisPrefix = "tof"
	}
	redisClient := cache.Client()
	checkoutRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:checkout", redisPrefix),
		WindowSeconds: cfg.Security.CheckoutRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CheckoutRateLimit.MaxAttempts,
		Message:       "Too many checkout attempts. Please wait a moment and try again.",
	}
	couponRule := RateLimitRule{
		Prefix:        fmt.Sprintf("%s:rate:coupon", redisPrefix),
		WindowSeconds: cfg.Security.CouponRateLimit.WindowSeconds,
		MaxRequests:   cfg.Security.CouponRateLimit.MaxAttempts,
		Message:       "Too many promo code attempts. Please wait a moment and try again.",
	}

	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(LoggerMiddleware(log))
	r.Use(CORSMiddleware(cfg.CORS))

	apiV1 := r.Group("/api/v1")
	{
		apiV1.GET("/prices/options", publicHandler.GetPriceOptions)
		apiV1.POST("/prices/resolve", publicHandler.ResolvePrice)
		apiV1.POST("/discounts/validate",
			RateLimitMiddleware(redisClient, couponRule, KeyByIPAndJSONField("code")),
			publicHandler.ValidateDiscount)
		apiV1.POST("/checkout",
			RateLimitMiddleware(redisClient, checkoutRule, KeyByIPAndJSONField("email")),
			publicHandler.Checkout)
		apiV1.POST("/payment/session", publicHandler.CreatePaymentSession)
		apiV1.POST("/orders/status", publicHandler.GetOrderStatus)
		apiV1.POST("/webhooks/bridger", publicHandler.BridgerWebhook)
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	return r
}
