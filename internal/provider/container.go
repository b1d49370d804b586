package provider

import (
	"github.com/Innovatio-dev/tof-checkout/internal/cache"
	"github.com/Innovatio-dev/tof-checkout/internal/commerce"
	"github.com/Innovatio-dev/tof-checkout/internal/config"
	"github.com/Innovatio-dev/tof-checkout/internal/fraud/seon"
	"github.com/Innovatio-dev/tof-checkout/internal/logger"
	"github.com/Innovatio-dev/tof-checkout/internal/models"
	"github.com/Innovatio-dev/tof-checkout/internal/queue"
	"github.com/Innovatio-dev/tof-checkout/internal/repository"
	"github.com/Innovatio-dev/tof-checkout/internal/service"
)

// Container wires the shared dependencies for handlers and workers.
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	Commerce commerce.Client

	// Repositories
	WebhookEventRepo repository.WebhookEventRepository

	// Services
	PricingService    *service.PricingService
	CouponService     *service.CouponService
	OrderTokenService *service.OrderTokenService
	CheckoutService   *service.CheckoutService
	PaymentService    *service.PaymentService
	WebhookService    *service.WebhookService
	EmailService      *service.EmailService
}

// NewContainer initializes the dependency container.
func NewContainer(cfg *config.Config) *Container {
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	c.initCommerce()
	c.initRepositories()
	c.initServices()

	return c
}

func (c *Container) initCommerce() {
	if !c.Config.Woo.Configured() {
		logger.Warnw("provider_commerce_not_configured")
		return
	}
	client, err := commerce.NewWooClient(c.Config.Woo)
	if err != nil {
		logger.Errorw("provider_init_commerce_failed", "error", err)
		return
	}
	c.Commerce = client
}

func (c *Container) initRepositories() {
	db := models.DB
	c.WebhookEventRepo = repository.NewWebhookEventRepository(db)
}

func (c *Container) initServices() {
	fraudCfg := &seon.Config{
		Enabled:      c.Config.Seon.Enabled,
		APIKey:       c.Config.Seon.APIKey,
		APIURL:       c.Config.Seon.APIURL,
		DeclineScore: c.Config.Seon.DeclineScore,
	}

	c.PricingService = service.NewPricingService(c.Commerce)
	c.CouponService = service.NewCouponService(c.Commerce)
	c.OrderTokenService = service.NewOrderTokenService(c.Config.Token)
	c.CheckoutService = service.NewCheckoutService(c.Commerce, c.PricingService, c.CouponService, c.OrderTokenService, fraudCfg, c.Config.Checkout.Currency)
	c.PaymentService = service.NewPaymentService(c.Commerce, c.Config.Bridger)
	c.WebhookService = service.NewWebhookService(c.Commerce, c.WebhookEventRepo, c.QueueClient)
	c.EmailService = service.NewEmailService(&c.Config.Email)
}
