package services

import (
	"fmt"
	"strings"
	"time"

	"github.com/albanianalps/agency-backend/internal/models"
)

const dateLayout = "2006-01-02"

// ValidatedBooking carries the parsed fields of a request that passed
// validation.
type ValidatedBooking struct {
	Name          string
	Email         string
	DepartureDate time.Time
	ReturnDate    *time.Time
	Method        models.PaymentMethod
}

// BookingValidator sanitizes and validates a raw booking request against the
// tour it targets. It performs no external calls and has no side effects.
type BookingValidator struct {
	now func() time.Time
}

// NewBookingValidator creates a validator using the wall clock.
func NewBookingValidator() *BookingValidator {
	return &BookingValidator{now: time.Now}
}

// Validate runs the checks in order, stopping at the first violation.
// A violation is returned as a ValidationError (or UnsupportedMethodError for
// an unknown payment method); the caller must not proceed to payment.
func (v *BookingValidator) Validate(req *models.BookingRequest, tour *models.Tour) (*ValidatedBooking, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, newValidationError("name", "name is required")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return nil, newValidationError("email", "email is required")
	}
	if !strings.Contains(email, "@") {
		return nil, newValidationError("email", "email is not valid")
	}

	departure, err := time.Parse(dateLayout, req.DepartureDate)
	if err != nil {
		return nil, newValidationError("departureDate", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.DepartureDate))
	}
	today := v.today()
	if departure.Before(today) {
		return nil, newValidationError("departureDate", "departure date cannot be in the past")
	}

	var returnDate *time.Time
	if req.ReturnDate != "" {
		parsed, err := time.Parse(dateLayout, req.ReturnDate)
		if err != nil {
			return nil, newValidationError("returnDate", fmt.Sprintf("invalid date %q, expected YYYY-MM-DD", req.ReturnDate))
		}
		if parsed.Before(departure) {
			return nil, newValidationError("returnDate", "return date cannot be before departure date")
		}
		returnDate = &parsed
	}

	if req.Guests < 1 {
		return nil, newValidationError("guests", "at least one guest is required")
	}
	if req.Guests > tour.MaxGuests {
		return nil, newValidationError("guests", fmt.Sprintf("tour allows at most %d guests", tour.MaxGuests))
	}

	method, ok := models.ParsePaymentMethod(req.PaymentMethod)
	if !ok {
		return nil, &UnsupportedMethodError{Method: req.PaymentMethod}
	}

	if err := checkPayload(req, method); err != nil {
		return nil, err
	}

	return &ValidatedBooking{
		Name:          name,
		Email:         email,
		DepartureDate: departure,
		ReturnDate:    returnDate,
		Method:        method,
	}, nil
}

// checkPayload verifies that the provider payload matching the payment method
// is present.
func checkPayload(req *models.BookingRequest, method models.PaymentMethod) error {
	switch method {
	case models.PaymentMethodPayPal:
		if req.Paypal == nil {
			return newValidationError("paypal", "paypal payment details are required")
		}
	case models.PaymentMethodCard:
		if req.Payment == nil {
			return newValidationError("payment", "card payment details are required")
		}
	case models.PaymentMethodStripe:
		if req.Stripe == nil {
			return newValidationError("stripe", "stripe payment details are required")
		}
	case models.PaymentMethodTwoC2P:
		if req.TwoC2P == nil {
			return newValidationError("twoc2p", "2c2p payment details are required")
		}
	}
	return nil
}

// today truncates the clock to a calendar date so a departure later the same
// day still validates.
func (v *BookingValidator) today() time.Time {
	now := v.now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}
