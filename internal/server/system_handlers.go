package server

import (
	"context"
	"net/http"
	"time"

	"fitfolio/internal/api"
	"fitfolio/internal/email"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Pinger interface {
	PingContext(ctx context.Context) error
}

// @Summary      Service banner
// @Tags         system
// @Produce      json
// @Success      200 {string} string
// @Router       / [get]
func Root(c *gin.Context) {
	c.JSON(http.StatusOK, "FitFolio is running")
}

// @Summary      Health check
// @Description  Reports ok when the database answers a ping.
// @Tags         system
// @Produce      json
// @Success      200 {object} api.HealthResponse
// @Failure      503 {object} api.HealthResponse
// @Router       /health [get]
func Health(db Pinger) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		if err := db.PingContext(ctx); err != nil {
			c.JSON(http.StatusServiceUnavailable, api.HealthResponse{Status: "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, api.HealthResponse{Status: "ok"})
	}
}

// @Summary      Queue a test email
// @Tags         system
// @Security     BearerAuth
// @Produce      json
// @Param        email query string true "Recipient email"
// @Success      200 {object} api.MessageResponse
// @Failure      400 {object} api.ErrorResponse
// @Failure      500 {object} api.ErrorResponse
// @Router       /admin/test-email [get]
func TestEmail(emailService *email.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		to := c.Query("email")
		if to == "" {
			api.Fail(c, http.StatusBadRequest, "email parameter required")
			return
		}

		if err := emailService.Send(c.Request.Context(), "test", to, "", "Test email from FitFolio", "Email is working!"); err != nil {
			api.FailWithError(c, http.StatusInternalServerError, "Failed to queue email", err)
			return
		}

		c.JSON(http.StatusOK, api.MessageResponse{Message: "Email queued successfully"})
	}
}

// @Summary      Prometheus metrics
// @Description  Exposes Prometheus metrics in text format
// @Tags         system
// @Produce      text/plain
// @Success      200 {string} string
// @Router       /metrics [get]
func Metrics() gin.HandlerFunc {
	return gin.WrapH(promhttp.Handler())
}
