package handlers

import (
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/middleware"
	"github.com/SscSPs/payment_reconciler/internal/platform/config"
	"github.com/gin-gonic/gin"
	"github.com/ulule/limiter/v3"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	methods AdyenMethodLookup,
	intakeLimiter *limiter.Limiter,
) {
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	// Notifications come from the provider, authenticated with basic auth
	notifications := r.Group("",
		middleware.RateLimit(intakeLimiter),
		middleware.BasicAuth(cfg.NotificationUser, cfg.NotificationPasswordHash),
	)
	RegisterReportNotificationRoutes(notifications, services.ReportIntake, methods)
}
