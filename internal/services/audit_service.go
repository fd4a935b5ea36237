package services

import (
	"context"

	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/database"
	"github.com/albanianalps/agency-backend/internal/models"
	"github.com/albanianalps/agency-backend/internal/utils"
)

// AuditService writes the append-only payment attempt trail. Failures are
// logged and swallowed; the trail never blocks a booking.
type AuditService struct {
	audits   *database.PaymentAuditRepository
	currency string
	logger   *logrus.Logger
}

// NewAuditService creates a new audit service
func NewAuditService(audits *database.PaymentAuditRepository, currency string, logger *logrus.Logger) *AuditService {
	return &AuditService{
		audits:   audits,
		currency: currency,
		logger:   logger,
	}
}

// RecordPaymentAttempt logs one payment attempt with request metadata.
func (s *AuditService) RecordPaymentAttempt(ctx context.Context, booking *models.Booking, outcome models.PaymentOutcome, meta AttemptMeta) {
	audit := &models.PaymentAudit{
		BookingReference: booking.BookingReference,
		PaymentMethod:    booking.PaymentMethod,
		Accepted:         outcome.Accepted,
		Amount:           booking.TotalAmount,
		Currency:         s.currency,
	}
	if outcome.ProviderReference != "" {
		ref := outcome.ProviderReference
		audit.ProviderReference = &ref
	}
	if outcome.FailureReason != "" {
		reason := outcome.FailureReason
		audit.FailureReason = &reason
	}
	if meta.IPAddress != "" {
		ip := meta.IPAddress
		audit.IPAddress = &ip
	}
	if meta.UserAgent != "" {
		ua := meta.UserAgent
		audit.UserAgent = &ua

		device := utils.ParseUserAgent(meta.UserAgent)
		deviceType := device.DeviceType
		audit.DeviceType = &deviceType
	}

	if err := s.audits.Log(ctx, audit); err != nil {
		s.logger.WithError(err).WithFields(logrus.Fields{
			"booking_reference": booking.BookingReference,
			"payment_method":    booking.PaymentMethod,
		}).Error("Failed to record payment attempt")
		return
	}

	s.logger.WithFields(logrus.Fields{
		"booking_reference": booking.BookingReference,
		"payment_method":    booking.PaymentMethod,
		"accepted":          outcome.Accepted,
	}).Debug("Payment attempt recorded")
}
