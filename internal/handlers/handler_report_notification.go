package handlers

import (
	"log/slog"
	"net/http"

	"github.com/SscSPs/payment_reconciler/internal/core/domain"
	portssvc "github.com/SscSPs/payment_reconciler/internal/core/ports/services"
	"github.com/SscSPs/payment_reconciler/internal/dto"
	"github.com/SscSPs/payment_reconciler/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AdyenMethodLookup resolves configured Adyen payment methods.
type AdyenMethodLookup interface {
	AdyenMethodByID(id int) (domain.AdyenMethod, bool)
}

// reportNotificationHandler receives report availability notifications.
type reportNotificationHandler struct {
	intakeService portssvc.ReportIntakeSvc
	methods       AdyenMethodLookup
}

func newReportNotificationHandler(intake portssvc.ReportIntakeSvc, methods AdyenMethodLookup) *reportNotificationHandler {
	return &reportNotificationHandler{
		intakeService: intake,
		methods:       methods,
	}
}

// RegisterReportNotificationRoutes registers the notification endpoint on rg.
func RegisterReportNotificationRoutes(rg *gin.RouterGroup, intake portssvc.ReportIntakeSvc, methods AdyenMethodLookup) {
	h := newReportNotificationHandler(intake, methods)
	rg.POST("/adyen/notifications/report", h.receiveReport)
}

// receiveReport answers "[accepted]" for every notification it has stored or
// already knew about, so the provider stops retrying.
func (h *reportNotificationHandler) receiveReport(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ReportNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for report notification", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	if _, ok := h.methods.AdyenMethodByID(req.PaymentMethodID); !ok {
		logger.Warn("Report notification for unknown payment method", slog.Int("payment_method", req.PaymentMethodID))
		c.JSON(http.StatusNotFound, gin.H{"error": "Unknown payment method"})
		return
	}

	created, err := h.intakeService.RegisterReport(c.Request.Context(), req)
	if err != nil {
		logger.Error("Failed to register report", slog.String("url", req.URL), slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to register report"})
		return
	}
	if !created {
		logger.Info("Duplicate report notification", slog.String("url", req.URL))
	}

	c.String(http.StatusOK, "[accepted]")
}
