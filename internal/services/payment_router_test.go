package services

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/albanianalps/agency-backend/internal/models"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

type stubPaymentService struct {
	method  models.PaymentMethod
	outcome models.PaymentOutcome
}

func (s *stubPaymentService) Method() models.PaymentMethod {
	return s.method
}

func (s *stubPaymentService) Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome {
	return s.outcome
}

func TestRoute_SelectsRegisteredService(t *testing.T) {
	paypal := &stubPaymentService{method: models.PaymentMethodPayPal}
	card := &stubPaymentService{method: models.PaymentMethodCard}
	router := NewPaymentRouter(testLogger(), paypal, card)

	svc, err := router.Route("paypal")
	require.NoError(t, err)
	assert.Same(t, paypal, svc)

	svc, err = router.Route("card")
	require.NoError(t, err)
	assert.Same(t, card, svc)
}

func TestRoute_CaseInsensitive(t *testing.T) {
	stripe := &stubPaymentService{method: models.PaymentMethodStripe}
	router := NewPaymentRouter(testLogger(), stripe)

	svc, err := router.Route("STRIPE")
	require.NoError(t, err)
	assert.Same(t, stripe, svc)
}

func TestRoute_UnknownMethod(t *testing.T) {
	router := NewPaymentRouter(testLogger(), &stubPaymentService{method: models.PaymentMethodPayPal})

	_, err := router.Route("wire-transfer")
	require.Error(t, err)

	var methodErr *UnsupportedMethodError
	require.True(t, errors.As(err, &methodErr))
	assert.Equal(t, "wire-transfer", methodErr.Method)
}

func TestRoute_KnownMethodWithoutService(t *testing.T) {
	// A method the parser accepts but no service was registered for.
	router := NewPaymentRouter(testLogger(), &stubPaymentService{method: models.PaymentMethodPayPal})

	_, err := router.Route("twoc2p")
	require.Error(t, err)

	var methodErr *UnsupportedMethodError
	assert.True(t, errors.As(err, &methodErr))
}
