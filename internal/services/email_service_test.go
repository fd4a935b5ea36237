package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/albanianalps/agency-backend/internal/config"
	"github.com/albanianalps/agency-backend/internal/models"
)

func devEmailService() *EmailService {
	return NewEmailService(config.EmailConfig{
		Mode:        "dev",
		FromAddress: "bookings@albanianalps.example",
		AgencyEmail: "office@albanianalps.example",
	}, testLogger())
}

func paidBooking() *models.Booking {
	ret := time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)
	return &models.Booking{
		BookingReference: "ref-123",
		UserName:         "Alban Kola",
		UserEmail:        "alban@example.com",
		DepartureDate:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		ReturnDate:       &ret,
		Guests:           2,
		PaymentMethod:    "paypal",
		Status:           models.BookingStatusPaid,
		TotalAmount:      320,
	}
}

func TestSendConfirmation_DevModeDoesNotDial(t *testing.T) {
	// Dev mode must not open any SMTP connection; no host is configured, so a
	// dial attempt would error.
	svc := devEmailService()
	assert.NoError(t, svc.SendConfirmation(paidBooking(), testTour()))
	assert.NoError(t, svc.SendNotification(paidBooking(), testTour()))
}

func TestSendNotification_NoAgencyAddress(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{Mode: "dev"}, testLogger())
	assert.NoError(t, svc.SendNotification(paidBooking(), testTour()))
}

func TestSend_ProductionWithoutHost(t *testing.T) {
	svc := NewEmailService(config.EmailConfig{Mode: "production"}, testLogger())
	assert.Error(t, svc.SendConfirmation(paidBooking(), testTour()))
}

func TestReceiptBody(t *testing.T) {
	svc := devEmailService()
	body := svc.receiptBody(paidBooking(), testTour())

	assert.Contains(t, body, "Booking reference: ref-123")
	assert.Contains(t, body, "Status: PAID")
	assert.Contains(t, body, "Tour: Theth to Valbona Trek (Theth)")
	assert.Contains(t, body, "Departure: 2026-07-01")
	assert.Contains(t, body, "Return: 2026-07-05")
	assert.Contains(t, body, "Price per person: 80.00")
	assert.Contains(t, body, "Round trip: x2")
	assert.Contains(t, body, "Total: 320.00")
	assert.NotContains(t, body, "Tax", "receipts are flat totals, no tax lines")
}

func TestReceiptBody_FailedBooking(t *testing.T) {
	booking := paidBooking()
	booking.Status = models.BookingStatusPending
	require.NoError(t, booking.MarkFailed("paypal order status is VOIDED"))

	body := devEmailService().receiptBody(booking, testTour())
	assert.Contains(t, body, "Status: FAILED")
	assert.Contains(t, body, "Failure reason: paypal order status is VOIDED")
}

func TestReceiptBody_OneWayOmitsReturn(t *testing.T) {
	booking := paidBooking()
	booking.ReturnDate = nil
	booking.TotalAmount = 160

	body := devEmailService().receiptBody(booking, testTour())
	assert.NotContains(t, body, "Return:")
	assert.NotContains(t, body, "Round trip")
	assert.Contains(t, body, "Total: 160.00")
}
