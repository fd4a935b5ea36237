package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/albanianalps/agency-backend/internal/models"
)

type fakeTourFinder struct {
	tour *models.Tour
	err  error
}

func (f *fakeTourFinder) FindByID(ctx context.Context, id int64) (*models.Tour, error) {
	return f.tour, f.err
}

type fakeBookingStore struct {
	saved *models.Booking
	err   error
}

func (f *fakeBookingStore) Save(ctx context.Context, booking *models.Booking) error {
	if f.err != nil {
		return f.err
	}
	f.saved = booking
	booking.ID = 42
	return nil
}

type fakeAuditRecorder struct {
	booking *models.Booking
	outcome models.PaymentOutcome
	meta    AttemptMeta
	calls   int
}

func (f *fakeAuditRecorder) RecordPaymentAttempt(ctx context.Context, booking *models.Booking, outcome models.PaymentOutcome, meta AttemptMeta) {
	f.booking = booking
	f.outcome = outcome
	f.meta = meta
	f.calls++
}

type fakeEmailSender struct {
	confirmations int
	notifications int
	err           error
}

func (f *fakeEmailSender) SendConfirmation(booking *models.Booking, tour *models.Tour) error {
	f.confirmations++
	return f.err
}

func (f *fakeEmailSender) SendNotification(booking *models.Booking, tour *models.Tour) error {
	f.notifications++
	return f.err
}

type panickyPaymentService struct {
	method models.PaymentMethod
}

func (s *panickyPaymentService) Method() models.PaymentMethod { return s.method }

func (s *panickyPaymentService) Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome {
	panic("provider exploded")
}

type bookingServiceFixture struct {
	svc   *BookingService
	store *fakeBookingStore
	audit *fakeAuditRecorder
	email *fakeEmailSender
}

func newBookingServiceFixture(tour *models.Tour, payments ...PaymentService) *bookingServiceFixture {
	store := &fakeBookingStore{}
	audit := &fakeAuditRecorder{}
	email := &fakeEmailSender{}

	svc := NewBookingService(
		&fakeTourFinder{tour: tour},
		store,
		testValidator(),
		NewPaymentRouter(testLogger(), payments...),
		audit,
		email,
		testLogger(),
	)
	return &bookingServiceFixture{svc: svc, store: store, audit: audit, email: email}
}

func acceptingPayPal() *stubPaymentService {
	return &stubPaymentService{
		method:  models.PaymentMethodPayPal,
		outcome: models.AcceptedOutcome("CAPTURE-1"),
	}
}

func TestCreateBooking_Paid(t *testing.T) {
	tour := testTour() // price 80, max 12 guests
	f := newBookingServiceFixture(tour, acceptingPayPal())

	req := validRequest()
	req.ReturnDate = "2026-07-05"

	booking, err := f.svc.CreateBooking(context.Background(), req, AttemptMeta{
		IPAddress: "203.0.113.9",
		UserAgent: "Mozilla/5.0",
	})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusPaid, booking.Status)
	assert.Nil(t, booking.FailureReason)
	assert.NotEmpty(t, booking.BookingReference)
	// 80 per person, 2 guests, doubled for the return leg.
	assert.Equal(t, 320.0, booking.TotalAmount)
	assert.Equal(t, int64(42), booking.ID)

	require.Same(t, booking, f.store.saved)
	require.Equal(t, 1, f.audit.calls)
	assert.True(t, f.audit.outcome.Accepted)
	assert.Equal(t, "203.0.113.9", f.audit.meta.IPAddress)
	assert.Equal(t, 1, f.email.confirmations)
	assert.Equal(t, 1, f.email.notifications)
}

func TestCreateBooking_OneWayTotal(t *testing.T) {
	f := newBookingServiceFixture(testTour(), acceptingPayPal())

	req := validRequest()
	req.Guests = 1

	booking, err := f.svc.CreateBooking(context.Background(), req, AttemptMeta{})
	require.NoError(t, err)
	assert.Equal(t, 80.0, booking.TotalAmount)
}

func TestCreateBooking_RejectedPaymentPersistedAsFailed(t *testing.T) {
	rejecting := &stubPaymentService{
		method:  models.PaymentMethodPayPal,
		outcome: models.RejectedOutcome("transaction id PAYPAL_FALLBACK_123 was not issued by PayPal"),
	}
	f := newBookingServiceFixture(testTour(), rejecting)

	booking, err := f.svc.CreateBooking(context.Background(), validRequest(), AttemptMeta{})
	require.NoError(t, err, "a rejected payment is not an error, the FAILED booking is returned")

	assert.Equal(t, models.BookingStatusFailed, booking.Status)
	require.NotNil(t, booking.FailureReason)
	assert.Contains(t, *booking.FailureReason, "PAYPAL_FALLBACK_123")

	// The failed attempt is persisted and audited like a paid one.
	require.Same(t, booking, f.store.saved)
	require.Equal(t, 1, f.audit.calls)
	assert.False(t, f.audit.outcome.Accepted)
	assert.Equal(t, 1, f.email.confirmations)
}

func TestCreateBooking_ValidationStopsBeforeProvider(t *testing.T) {
	called := false
	spy := &spyPaymentService{method: models.PaymentMethodPayPal, called: &called}
	f := newBookingServiceFixture(testTour(), spy)

	req := validRequest()
	req.Guests = 51

	_, err := f.svc.CreateBooking(context.Background(), req, AttemptMeta{})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "guests", validationErr.Field)

	assert.False(t, called, "provider must not be contacted for an invalid request")
	assert.Nil(t, f.store.saved, "invalid requests are not persisted")
	assert.Equal(t, 0, f.audit.calls)
}

type spyPaymentService struct {
	method models.PaymentMethod
	called *bool
}

func (s *spyPaymentService) Method() models.PaymentMethod { return s.method }

func (s *spyPaymentService) Process(ctx context.Context, req *models.BookingRequest, booking *models.Booking) models.PaymentOutcome {
	*s.called = true
	return models.AcceptedOutcome("ref")
}

func TestCreateBooking_UnknownTour(t *testing.T) {
	f := newBookingServiceFixture(nil, acceptingPayPal())

	_, err := f.svc.CreateBooking(context.Background(), validRequest(), AttemptMeta{})
	require.Error(t, err)

	var validationErr *ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Equal(t, "tourId", validationErr.Field)
}

func TestCreateBooking_UnsupportedMethod(t *testing.T) {
	f := newBookingServiceFixture(testTour(), acceptingPayPal())

	req := validRequest()
	req.PaymentMethod = "cash"

	_, err := f.svc.CreateBooking(context.Background(), req, AttemptMeta{})
	require.Error(t, err)

	var methodErr *UnsupportedMethodError
	assert.True(t, errors.As(err, &methodErr))
}

func TestCreateBooking_ProviderPanicBecomesFailedBooking(t *testing.T) {
	f := newBookingServiceFixture(testTour(), &panickyPaymentService{method: models.PaymentMethodPayPal})

	booking, err := f.svc.CreateBooking(context.Background(), validRequest(), AttemptMeta{})
	require.NoError(t, err)

	assert.Equal(t, models.BookingStatusFailed, booking.Status)
	require.NotNil(t, booking.FailureReason)
	assert.Contains(t, *booking.FailureReason, "provider exploded")
	require.Same(t, booking, f.store.saved)
}

func TestCreateBooking_SaveFailureSurfaces(t *testing.T) {
	f := newBookingServiceFixture(testTour(), acceptingPayPal())
	f.store.err = errors.New("connection reset")

	_, err := f.svc.CreateBooking(context.Background(), validRequest(), AttemptMeta{})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "persist")
	assert.Equal(t, 0, f.audit.calls, "nothing to audit if the booking was not stored")
}

func TestCreateBooking_EmailFailureIgnored(t *testing.T) {
	f := newBookingServiceFixture(testTour(), acceptingPayPal())
	f.email.err = errors.New("smtp unreachable")

	booking, err := f.svc.CreateBooking(context.Background(), validRequest(), AttemptMeta{})
	require.NoError(t, err)
	assert.Equal(t, models.BookingStatusPaid, booking.Status)
}
