package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/config"
	"github.com/albanianalps/agency-backend/internal/services"
)

// PaymentHandler exposes the client-side provider flows: creating PayPal
// orders and Stripe payment intents before checkout, and building the 2C2P
// redirect URL. Verification of completed payments happens in the booking
// flow, not here.
type PaymentHandler struct {
	paypal   *services.PayPalService
	stripe   *services.StripeService
	twoc2p   *services.TwoC2PService
	currency string
	logger   *logrus.Logger
}

// NewPaymentHandler creates a new PaymentHandler
func NewPaymentHandler(
	paypal *services.PayPalService,
	stripe *services.StripeService,
	twoc2p *services.TwoC2PService,
	bookingCfg config.BookingConfig,
	logger *logrus.Logger,
) *PaymentHandler {
	return &PaymentHandler{
		paypal:   paypal,
		stripe:   stripe,
		twoc2p:   twoc2p,
		currency: bookingCfg.Currency,
		logger:   logger,
	}
}

type createPaymentRequest struct {
	Amount      float64 `json:"amount" binding:"required,gt=0"`
	Currency    string  `json:"currency"`
	Description string  `json:"description"`
}

func (h *PaymentHandler) resolveCurrency(requested string) string {
	if requested != "" {
		return requested
	}
	return h.currency
}

// CreatePayPalOrder creates a PayPal order for client-side approval
// @Summary Create a PayPal order
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body createPaymentRequest true "Order details"
// @Success 201 {object} map[string]interface{} "Order id"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 502 {object} map[string]interface{} "Provider error"
// @Router /paypal/orders [post]
func (h *PaymentHandler) CreatePayPalOrder(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	orderID, err := h.paypal.CreateOrder(c.Request.Context(),
		req.Amount, h.resolveCurrency(req.Currency), req.Description, uuid.NewString())
	if err != nil {
		h.logger.WithError(err).Error("Failed to create PayPal order")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create paypal order"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"orderId": orderID})
}

// CapturePayPalOrder captures an approved PayPal order
// @Summary Capture a PayPal order
// @Tags Payments
// @Produce json
// @Param id path string true "PayPal order ID"
// @Success 200 {object} services.CaptureResult
// @Failure 400 {object} map[string]interface{} "Invalid order id"
// @Failure 502 {object} map[string]interface{} "Provider error"
// @Router /paypal/orders/{id}/capture [post]
func (h *PaymentHandler) CapturePayPalOrder(c *gin.Context) {
	orderID := c.Param("id")
	if orderID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "order id is required"})
		return
	}

	result, err := h.paypal.CaptureOrder(c.Request.Context(), orderID)
	if err != nil {
		h.logger.WithError(err).WithField("order_id", orderID).Error("Failed to capture PayPal order")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to capture paypal order"})
		return
	}

	c.JSON(http.StatusOK, result)
}

// CreateStripePaymentIntent creates a Stripe PaymentIntent
// @Summary Create a Stripe payment intent
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body createPaymentRequest true "Payment details"
// @Success 201 {object} map[string]interface{} "Payment intent id"
// @Failure 400 {object} map[string]interface{} "Invalid request"
// @Failure 502 {object} map[string]interface{} "Provider error"
// @Router /stripe/payment-intents [post]
func (h *PaymentHandler) CreateStripePaymentIntent(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	intentID, err := h.stripe.CreatePaymentIntent(c.Request.Context(),
		req.Amount, h.resolveCurrency(req.Currency), req.Description)
	if err != nil {
		h.logger.WithError(err).Error("Failed to create Stripe payment intent")
		c.JSON(http.StatusBadGateway, gin.H{"error": "failed to create stripe payment intent"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{"paymentIntentId": intentID})
}

// CreateTwoC2PPaymentURL builds the signed 2C2P hosted payment page URL
// @Summary Build a 2C2P payment redirect URL
// @Tags Payments
// @Accept json
// @Produce json
// @Param request body createPaymentRequest true "Payment details"
// @Success 201 {object} map[string]interface{} "Redirect URL"
// @Failure 400 {object} map[string]interface{} "Invalid request or missing credentials"
// @Router /twoc2p/payment-url [post]
func (h *PaymentHandler) CreateTwoC2PPaymentURL(c *gin.Context) {
	var req createPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	orderID := uuid.NewString()
	redirectURL, err := h.twoc2p.BuildPaymentRedirectURL(
		req.Amount, h.resolveCurrency(req.Currency), req.Description, orderID)
	if err != nil {
		h.logger.WithError(err).Error("Failed to build 2C2P payment URL")
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"orderId":     orderID,
		"redirectUrl": redirectURL,
	})
}
