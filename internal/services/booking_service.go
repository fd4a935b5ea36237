package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/models"
)

// TourFinder looks up tours from the catalog.
type TourFinder interface {
	FindByID(ctx context.Context, id int64) (*models.Tour, error)
}

// BookingStore persists finalized bookings.
type BookingStore interface {
	Save(ctx context.Context, booking *models.Booking) error
}

// AuditRecorder records payment attempts. Recording is best-effort and must
// never change the booking outcome.
type AuditRecorder interface {
	RecordPaymentAttempt(ctx context.Context, booking *models.Booking, outcome models.PaymentOutcome, meta AttemptMeta)
}

// AttemptMeta carries request metadata for the audit trail.
type AttemptMeta struct {
	IPAddress string
	UserAgent string
}

// BookingService sequences a booking attempt: validate, route, pay, assign
// the final status, persist, then audit and notify.
//
// Only pre-payment failures (validation, unsupported method, unknown tour)
// surface as errors. Once a provider has been invoked, the attempt always
// resolves to a persisted PAID or FAILED booking.
type BookingService struct {
	tours     TourFinder
	bookings  BookingStore
	validator *BookingValidator
	router    *PaymentRouter
	audit     AuditRecorder
	email     EmailSender
	logger    *logrus.Logger
}

// NewBookingService creates the booking orchestrator.
func NewBookingService(
	tours TourFinder,
	bookings BookingStore,
	validator *BookingValidator,
	router *PaymentRouter,
	audit AuditRecorder,
	email EmailSender,
	logger *logrus.Logger,
) *BookingService {
	return &BookingService{
		tours:     tours,
		bookings:  bookings,
		validator: validator,
		router:    router,
		audit:     audit,
		email:     email,
		logger:    logger,
	}
}

// CreateBooking processes one booking attempt to completion.
func (s *BookingService) CreateBooking(ctx context.Context, req *models.BookingRequest, meta AttemptMeta) (*models.Booking, error) {
	tour, err := s.tours.FindByID(ctx, req.TourID)
	if err != nil {
		return nil, fmt.Errorf("failed to look up tour: %w", err)
	}
	if tour == nil {
		return nil, newValidationError("tourId", fmt.Sprintf("invalid tourId: %d", req.TourID))
	}

	validated, err := s.validator.Validate(req, tour)
	if err != nil {
		return nil, err
	}

	paymentService, err := s.router.Route(req.PaymentMethod)
	if err != nil {
		return nil, err
	}

	booking := &models.Booking{
		BookingReference: uuid.NewString(),
		TourID:           tour.ID,
		UserName:         validated.Name,
		UserEmail:        validated.Email,
		DepartureDate:    validated.DepartureDate,
		ReturnDate:       validated.ReturnDate,
		Guests:           req.Guests,
		PaymentMethod:    string(validated.Method),
		Status:           models.BookingStatusPending,
		TotalAmount:      ComputeTotal(tour.Price, req.Guests, validated.ReturnDate != nil),
	}

	outcome := s.processPayment(ctx, paymentService, req, booking)

	if outcome.Accepted {
		if err := booking.MarkPaid(); err != nil {
			return nil, fmt.Errorf("failed to finalize booking: %w", err)
		}
	} else {
		if err := booking.MarkFailed(outcome.FailureReason); err != nil {
			return nil, fmt.Errorf("failed to finalize booking: %w", err)
		}
	}

	// FAILED bookings are persisted too: the agency keeps a record of every
	// payment attempt.
	if err := s.bookings.Save(ctx, booking); err != nil {
		return nil, fmt.Errorf("failed to persist booking: %w", err)
	}

	s.logger.WithFields(logrus.Fields{
		"booking_id":        booking.ID,
		"booking_reference": booking.BookingReference,
		"tour_id":           tour.ID,
		"payment_method":    booking.PaymentMethod,
		"status":            booking.Status,
		"total_amount":      booking.TotalAmount,
	}).Info("Booking processed")

	if s.audit != nil {
		s.audit.RecordPaymentAttempt(ctx, booking, outcome, meta)
	}

	s.notify(booking, tour)

	return booking, nil
}

// processPayment invokes the selected payment service. An unexpected panic
// inside an adapter must not take down the booking flow; it resolves to a
// rejected outcome.
func (s *BookingService) processPayment(ctx context.Context, paymentService PaymentService, req *models.BookingRequest, booking *models.Booking) (outcome models.PaymentOutcome) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.WithFields(logrus.Fields{
				"payment_method": req.PaymentMethod,
				"panic":          r,
			}).Error("Payment service panicked")
			outcome = models.RejectedOutcome(fmt.Sprintf("payment processing failed unexpectedly: %v", r))
		}
	}()

	return paymentService.Process(ctx, req, booking)
}

// notify sends the customer receipt and the agency copy. Both are
// best-effort: a mail failure never affects the stored booking.
func (s *BookingService) notify(booking *models.Booking, tour *models.Tour) {
	if s.email == nil {
		return
	}

	if err := s.email.SendConfirmation(booking, tour); err != nil {
		s.logger.WithError(err).WithField("booking_reference", booking.BookingReference).
			Warn("Failed to send customer confirmation email")
	}
	if err := s.email.SendNotification(booking, tour); err != nil {
		s.logger.WithError(err).WithField("booking_reference", booking.BookingReference).
			Warn("Failed to send agency notification email")
	}
}
