package services

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/albanianalps/agency-backend/internal/models"
)

// PaymentService verifies a payment for exactly one provider. Process never
// returns an error: every failure mode (credential problems, provider
// rejections, timeouts, unparsable bodies) is converted into a rejected
// PaymentOutcome so the booking flow always runs to completion.
//
// On acceptance the service stores its provider reference fields on the
// booking (last4 + billing, paypal txn, payment intent id, ...).
type PaymentService interface {
	Method() models.PaymentMethod
	Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome
}

const (
	providerConnectTimeout = 5 * time.Second
	providerRequestTimeout = 10 * time.Second
)

// newProviderClient builds the HTTP client used for provider calls.
// Every external call is bounded so a slow gateway cannot hang a booking.
func newProviderClient() *http.Client {
	return &http.Client{
		Timeout: providerRequestTimeout,
		Transport: &http.Transport{
			DialContext: (&net.Dialer{
				Timeout: providerConnectTimeout,
			}).DialContext,
		},
	}
}
