package services

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/albanianalps/agency-backend/internal/models"
)

func testValidator() *BookingValidator {
	return &BookingValidator{
		now: func() time.Time {
			return time.Date(2026, 6, 15, 13, 30, 0, 0, time.UTC)
		},
	}
}

func testTour() *models.Tour {
	return &models.Tour{
		ID:        1,
		Title:     "Theth to Valbona Trek",
		Location:  "Theth",
		Price:     80,
		MaxGuests: 12,
	}
}

func validRequest() *models.BookingRequest {
	return &models.BookingRequest{
		TourID:        1,
		Name:          "Alban Kola",
		Email:         "alban@example.com",
		DepartureDate: "2026-07-01",
		Guests:        2,
		PaymentMethod: "paypal",
		Paypal: &models.PaypalInfo{
			Email:         "alban@example.com",
			TransactionID: "5TY05013RG002845M",
		},
	}
}

func TestValidate_Success(t *testing.T) {
	validated, err := testValidator().Validate(validRequest(), testTour())
	require.NoError(t, err)

	assert.Equal(t, "Alban Kola", validated.Name)
	assert.Equal(t, "alban@example.com", validated.Email)
	assert.Equal(t, time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC), validated.DepartureDate)
	assert.Nil(t, validated.ReturnDate)
	assert.Equal(t, models.PaymentMethodPayPal, validated.Method)
}

func TestValidate_RoundTrip(t *testing.T) {
	req := validRequest()
	req.ReturnDate = "2026-07-05"

	validated, err := testValidator().Validate(req, testTour())
	require.NoError(t, err)
	require.NotNil(t, validated.ReturnDate)
	assert.Equal(t, time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC), *validated.ReturnDate)
}

func TestValidate_DepartureToday(t *testing.T) {
	req := validRequest()
	req.DepartureDate = "2026-06-15" // same day as the clock, later wall time

	_, err := testValidator().Validate(req, testTour())
	assert.NoError(t, err)
}

func TestValidate_Failures(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*models.BookingRequest)
		wantField string
	}{
		{"blank name", func(r *models.BookingRequest) { r.Name = "   " }, "name"},
		{"missing email", func(r *models.BookingRequest) { r.Email = "" }, "email"},
		{"email without at sign", func(r *models.BookingRequest) { r.Email = "not-an-email" }, "email"},
		{"malformed departure date", func(r *models.BookingRequest) { r.DepartureDate = "01/07/2026" }, "departureDate"},
		{"departure in the past", func(r *models.BookingRequest) { r.DepartureDate = "2026-06-14" }, "departureDate"},
		{"malformed return date", func(r *models.BookingRequest) { r.ReturnDate = "next week" }, "returnDate"},
		{"return before departure", func(r *models.BookingRequest) { r.ReturnDate = "2026-06-20" }, "returnDate"},
		{"zero guests", func(r *models.BookingRequest) { r.Guests = 0 }, "guests"},
		{"too many guests", func(r *models.BookingRequest) { r.Guests = 13 }, "guests"},
		{"missing paypal payload", func(r *models.BookingRequest) { r.Paypal = nil }, "paypal"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			_, err := testValidator().Validate(req, testTour())
			require.Error(t, err)

			var validationErr *ValidationError
			require.True(t, errors.As(err, &validationErr), "expected ValidationError, got %T", err)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}
}

func TestValidate_UnsupportedMethod(t *testing.T) {
	req := validRequest()
	req.PaymentMethod = "bitcoin"

	_, err := testValidator().Validate(req, testTour())
	require.Error(t, err)

	var methodErr *UnsupportedMethodError
	require.True(t, errors.As(err, &methodErr))
	assert.Equal(t, "bitcoin", methodErr.Method)
}

func TestValidate_MethodCaseInsensitive(t *testing.T) {
	req := validRequest()
	req.PaymentMethod = "PayPal"

	validated, err := testValidator().Validate(req, testTour())
	require.NoError(t, err)
	assert.Equal(t, models.PaymentMethodPayPal, validated.Method)
}

func TestValidate_PayloadRequiredPerMethod(t *testing.T) {
	req := validRequest()
	req.PaymentMethod = "stripe"
	req.Stripe = nil

	_, err := testValidator().Validate(req, testTour())
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "stripe", validationErr.Field)
}
