package router

import (
	"net/http"

	"ecr/config"
	"ecr/internal/auth"
	"ecr/internal/domain"
	"ecr/internal/events"
	"ecr/internal/handler"
	"ecr/internal/middleware"
	"ecr/internal/repository"
	"ecr/internal/service"
	"ecr/internal/ws"
	"ecr/pkg/payment"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const paymentCallbackPath = "/api/payments/verify"

// Options carries the collaborators main decides on. Zero values fall back
// to the Razorpay SDK, no durable event log and the in-memory limiter.
type Options struct {
	Providers payment.ProviderFactory
	Publisher events.Sink
	Limiter   middleware.Limiter
}

func Setup(cfg *config.Config, db *gorm.DB, opts Options) *gin.Engine {
	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	if opts.Providers == nil {
		opts.Providers = payment.RazorpayFactory
	}
	if opts.Limiter == nil {
		opts.Limiter = middleware.NewInMemoryRateLimiter(cfg.Server.RateLimit, cfg.Server.RateWindow)
	}

	metrics := middleware.NewMetrics()
	r := gin.New()
	r.Use(middleware.RequestID(), middleware.RequestLogger(), middleware.Recovery(), metrics.Middleware())
	// the gateway callback is neither counted nor limited
	r.Use(middleware.RateLimit(opts.Limiter, paymentCallbackPath))

	// Repositories
	userRepo := repository.NewUserRepository(db)
	propertyRepo := repository.NewPropertyRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	gatewayRepo := repository.NewGatewayRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	commissionRepo := repository.NewCommissionRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	auditRepo := repository.NewAuditLogRepository(db)

	hub := ws.NewHub()
	metrics.WatchRealtime(hub.ClientCount, hub.Dropped)
	sink := events.Multi{hub, opts.Publisher}
	issuer := auth.NewIssuer(cfg.JWT)

	// Services
	auditSvc := service.NewAuditService(auditRepo)
	notifSvc := service.NewNotificationService(notificationRepo)
	authSvc := service.NewAuthService(issuer, userRepo)
	userSvc := service.NewUserService(userRepo)
	propertySvc := service.NewPropertyService(propertyRepo, userRepo, sink)
	bookingSvc := service.NewBookingService(bookingRepo, propertyRepo, notifSvc, sink)
	gatewaySvc := service.NewGatewayService(gatewayRepo)
	paymentSvc := service.NewPaymentService(service.PaymentDeps{
		DB:          db,
		Payment:     cfg.Payment,
		Commission:  cfg.Commission,
		Bookings:    bookingRepo,
		Properties:  propertyRepo,
		Payments:    paymentRepo,
		Commissions: commissionRepo,
		Gateways:    gatewayRepo,
		GatewaySvc:  gatewaySvc,
		Providers:   opts.Providers,
		Notifier:    notifSvc,
		Audit:       auditSvc,
		Sink:        sink,
	})
	commissionSvc := service.NewCommissionService(commissionRepo, notifSvc, auditSvc, sink)

	// Handlers
	authHandler := handler.NewAuthHandler(authSvc, auditSvc)
	userHandler := handler.NewUserHandler(userSvc)
	propertyHandler := handler.NewPropertyHandler(propertySvc)
	bookingHandler := handler.NewBookingHandler(bookingSvc)
	gatewayHandler := handler.NewGatewayHandler(gatewaySvc)
	paymentHandler := handler.NewPaymentHandler(paymentSvc, &cfg.Payment)
	commissionHandler := handler.NewCommissionHandler(commissionSvc)
	notificationHandler := handler.NewNotificationHandler(notifSvc)
	adminHandler := handler.NewAdminHandler(userSvc, auditSvc)

	authMw := middleware.AuthRequired(issuer)
	owner := middleware.RequireRole(domain.RoleOwner)
	customer := middleware.RequireRole(domain.RoleCustomer)
	broker := middleware.RequireRole(domain.RoleBroker)

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", metrics.Handler())
	r.GET("/ws/properties", ws.UpgradePropertyWS(issuer, hub))

	api := r.Group("/api")
	{
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/refresh", authHandler.Refresh)
		}

		users := api.Group("/users", authMw)
		{
			users.GET("/me", userHandler.Me)
			users.PUT("/me", userHandler.UpdateMe)
		}

		properties := api.Group("/properties")
		{
			properties.GET("", propertyHandler.List)
			properties.GET("/mine", authMw, owner, propertyHandler.Mine)
			properties.GET("/:id", propertyHandler.Get)
			properties.POST("", authMw, owner, propertyHandler.Create)
			properties.PUT("/:id", authMw, owner, propertyHandler.Update)
			properties.DELETE("/:id", authMw, owner, propertyHandler.Delete)
		}

		bookings := api.Group("/bookings", authMw)
		{
			bookings.POST("", customer, bookingHandler.Create)
			bookings.GET("/owner", owner, bookingHandler.ListForOwner)
			bookings.GET("/customer", customer, bookingHandler.ListForCustomer)
			bookings.PUT("/:id/cancel", customer, bookingHandler.Cancel)
			bookings.PUT("/:id/status", middleware.RequireRole(domain.RoleOwner, domain.RoleAdmin), bookingHandler.SetStatus)
		}

		gateway := api.Group("/payment-gateway", authMw, middleware.RequireRole(domain.RoleOwner, domain.RoleBroker))
		{
			gateway.POST("", gatewayHandler.Upsert)
			gateway.GET("", gatewayHandler.Get)
			gateway.DELETE("", gatewayHandler.Delete)
		}

		payments := api.Group("/payments")
		{
			payments.POST("/initiate", authMw, customer, paymentHandler.Initiate)
			payments.POST("/verify", paymentHandler.Verify)
			payments.GET("/booking/:bookingId", authMw, customer, paymentHandler.ListForBooking)
		}

		commissions := api.Group("/commissions", authMw)
		{
			commissions.GET("/owner", owner, commissionHandler.ListForOwner)
			commissions.GET("/broker", broker, commissionHandler.ListForBroker)
			commissions.PUT("/:id/pay", owner, commissionHandler.MarkPaid)
		}

		notifications := api.Group("/notifications", authMw)
		{
			notifications.GET("", notificationHandler.List)
			notifications.PUT("/:id/read", notificationHandler.MarkRead)
		}

		admin := api.Group("/admin", authMw, middleware.RequireRole(domain.RoleAdmin))
		{
			admin.GET("/users", adminHandler.ListUsers)
			admin.PUT("/users/:id/verify", adminHandler.VerifyUser)
			admin.GET("/bookings", bookingHandler.ListAll)
			admin.GET("/payments", paymentHandler.ListAll)
			admin.GET("/commissions", commissionHandler.ListAll)
			admin.DELETE("/commissions/:id", commissionHandler.Delete)
			admin.PUT("/properties/:id", propertyHandler.Update)
			admin.DELETE("/properties/:id", propertyHandler.Delete)
		}
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"error": "route not found"})
	})
	return r
}
