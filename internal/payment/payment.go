package payment

import (
	"context"
	"errors"
	"math"
	"net/http"

	"fitfolio/internal/api"
	"fitfolio/internal/logger"
	"fitfolio/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/paymentintent"
)

const (
	defaultCurrency = "usd"

	// Stripe's charge limits for usd.
	minAmountCents = 50
	maxAmountCents = 99_999_999
)

var (
	ErrInvalidPrice    = errors.New("price must be greater than zero")
	ErrPriceOutOfRange = errors.New("price is outside the chargeable range")
)

type IntentRequest struct {
	Price float64 `json:"price" example:"25.5"`
}

type IntentResponse struct {
	ClientSecret string `json:"clientSecret" example:"pi_3PQx_secret_abc"`
}

// IntentCreator creates a payment intent and returns its client secret.
type IntentCreator interface {
	CreateIntent(ctx context.Context, amountCents int64, currency string) (string, error)
}

type stripeCreator struct {
	client *paymentintent.Client
}

func NewStripeCreator(secretKey string) IntentCreator {
	return &stripeCreator{
		client: &paymentintent.Client{B: stripe.GetBackend(stripe.APIBackend), Key: secretKey},
	}
}

func (s *stripeCreator) CreateIntent(ctx context.Context, amountCents int64, cur string) (string, error) {
	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(amountCents),
		Currency: stripe.String(cur),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	params.Context = ctx

	pi, err := s.client.New(params)
	if err != nil {
		return "", err
	}
	return pi.ClientSecret, nil
}

// AmountInCents converts a dollar price to the smallest currency unit.
func AmountInCents(price float64) (int64, error) {
	if price <= 0 || math.IsNaN(price) || math.IsInf(price, 0) {
		return 0, ErrInvalidPrice
	}
	cents := math.Round(price * 100)
	if cents < minAmountCents || cents > maxAmountCents {
		return 0, ErrPriceOutOfRange
	}
	return int64(cents), nil
}

type Handler struct {
	creator  IntentCreator
	currency string
}

func NewHandler(creator IntentCreator, currency string) *Handler {
	if currency == "" {
		currency = defaultCurrency
	}
	return &Handler{creator: creator, currency: currency}
}

// CreateIntent godoc
// @Summary      Create payment intent
// @Description  Creates a Stripe payment intent (USD by default) for the given price and returns its client secret.
// @Tags         payments
// @Accept       json
// @Produce      json
// @Param        request  body      IntentRequest  true  "Price in dollars"
// @Success      200      {object}  IntentResponse
// @Failure      400      {object}  api.ErrorResponse
// @Failure      500      {object}  api.ErrorResponse
// @Router       /create-payment-intent [post]
func (h *Handler) CreateIntent(c *gin.Context) {
	var req IntentRequest
	if !api.BindJSON(c, &req, "Invalid price") {
		return
	}

	amount, err := AmountInCents(req.Price)
	if errors.Is(err, ErrPriceOutOfRange) {
		api.Fail(c, http.StatusBadRequest, "Price must be between 0.50 and 999999.99")
		return
	}
	if err != nil {
		api.Fail(c, http.StatusBadRequest, "Price must be greater than zero")
		return
	}

	secret, err := h.creator.CreateIntent(c.Request.Context(), amount, h.currency)
	if err != nil {
		metrics.RecordPaymentIntent("failed")
		logger.Error("create payment intent failed", "amount", amount, "error", err)
		api.FailWithError(c, http.StatusInternalServerError, "Failed to create payment intent", err)
		return
	}

	metrics.RecordPaymentIntent("created")
	c.JSON(http.StatusOK, IntentResponse{ClientSecret: secret})
}
