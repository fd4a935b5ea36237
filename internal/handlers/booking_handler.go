package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/database"
	"github.com/albanianalps/agency-backend/internal/models"
	"github.com/albanianalps/agency-backend/internal/services"
)

// BookingHandler handles booking creation and the staff booking views
type BookingHandler struct {
	bookingService *services.BookingService
	bookings       *database.BookingRepository
	audits         *database.PaymentAuditRepository
	logger         *logrus.Logger
}

// NewBookingHandler creates a new BookingHandler
func NewBookingHandler(
	bookingService *services.BookingService,
	bookings *database.BookingRepository,
	audits *database.PaymentAuditRepository,
	logger *logrus.Logger,
) *BookingHandler {
	return &BookingHandler{
		bookingService: bookingService,
		bookings:       bookings,
		audits:         audits,
		logger:         logger,
	}
}

// Create processes a booking attempt
// @Summary Create a booking
// @Description Validates the request, verifies the payment with the selected provider and persists the booking. A booking that reaches a provider is always persisted, as PAID or FAILED, and returned with 201.
// @Tags Bookings
// @Accept json
// @Produce json
// @Param request body models.BookingRequest true "Booking request"
// @Success 201 {object} models.Booking
// @Failure 400 {object} map[string]interface{} "Validation error or unsupported payment method"
// @Router /bookings [post]
func (h *BookingHandler) Create(c *gin.Context) {
	var req models.BookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request: " + err.Error()})
		return
	}

	meta := services.AttemptMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}

	booking, err := h.bookingService.CreateBooking(c.Request.Context(), &req, meta)
	if err != nil {
		var validationErr *services.ValidationError
		if errors.As(err, &validationErr) {
			c.JSON(http.StatusBadRequest, gin.H{
				"error": validationErr.Reason,
				"field": validationErr.Field,
			})
			return
		}

		var methodErr *services.UnsupportedMethodError
		if errors.As(err, &methodErr) {
			c.JSON(http.StatusBadRequest, gin.H{"error": methodErr.Error()})
			return
		}

		h.logger.WithError(err).Error("Failed to process booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to process booking"})
		return
	}

	// Both PAID and FAILED bookings come back as 201: the attempt itself was
	// recorded, the payment outcome is in the body.
	c.JSON(http.StatusCreated, booking)
}

// List returns all bookings, newest first
// @Summary List bookings
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Success 200 {array} models.Booking
// @Failure 401 {object} map[string]interface{} "Unauthorized"
// @Router /admin/bookings [get]
func (h *BookingHandler) List(c *gin.Context) {
	bookings, err := h.bookings.FindAll(c.Request.Context())
	if err != nil {
		h.logger.WithError(err).Error("Failed to list bookings")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"count":    len(bookings),
	})
}

// GetByID returns a single booking with its payment attempt trail
// @Summary Get a booking
// @Tags Bookings
// @Produce json
// @Param Authorization header string true "Bearer token"
// @Param id path int true "Booking ID"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{} "Booking not found"
// @Router /admin/bookings/{id} [get]
func (h *BookingHandler) GetByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid booking id"})
		return
	}

	booking, err := h.bookings.FindByID(c.Request.Context(), id)
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", id).Error("Failed to load booking")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load booking"})
		return
	}
	if booking == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		return
	}

	audits, err := h.audits.FindByBookingReference(c.Request.Context(), booking.BookingReference)
	if err != nil {
		h.logger.WithError(err).WithField("booking_id", id).Warn("Failed to load payment audits")
		audits = []models.PaymentAudit{}
	}

	c.JSON(http.StatusOK, gin.H{
		"booking":         booking,
		"paymentAttempts": audits,
	})
}
