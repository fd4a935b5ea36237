package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMarkPaid(t *testing.T) {
	b := &Booking{Status: BookingStatusPending}

	require.NoError(t, b.MarkPaid())
	assert.Equal(t, BookingStatusPaid, b.Status)

	// Terminal states cannot transition again.
	assert.ErrorIs(t, b.MarkPaid(), ErrStatusFinal)
	assert.ErrorIs(t, b.MarkFailed("late failure"), ErrStatusFinal)
	assert.Equal(t, BookingStatusPaid, b.Status)
}

func TestMarkFailed(t *testing.T) {
	b := &Booking{Status: BookingStatusPending}

	require.NoError(t, b.MarkFailed("stripe payment intent status is processing"))
	assert.Equal(t, BookingStatusFailed, b.Status)
	require.NotNil(t, b.FailureReason)
	assert.Equal(t, "stripe payment intent status is processing", *b.FailureReason)

	assert.ErrorIs(t, b.MarkPaid(), ErrStatusFinal)
}

func TestMarkFailed_EmptyReason(t *testing.T) {
	b := &Booking{Status: BookingStatusPending}

	require.NoError(t, b.MarkFailed(""))
	assert.Equal(t, BookingStatusFailed, b.Status)
	assert.Nil(t, b.FailureReason)
}

func TestIsRoundTrip(t *testing.T) {
	b := &Booking{}
	assert.False(t, b.IsRoundTrip())

	ret := time.Date(2026, 7, 5, 0, 0, 0, 0, time.UTC)
	b.ReturnDate = &ret
	assert.True(t, b.IsRoundTrip())
}

func TestParsePaymentMethod(t *testing.T) {
	tests := []struct {
		raw  string
		want PaymentMethod
		ok   bool
	}{
		{"paypal", PaymentMethodPayPal, true},
		{"PayPal", PaymentMethodPayPal, true},
		{" STRIPE ", PaymentMethodStripe, true},
		{"card", PaymentMethodCard, true},
		{"twoc2p", PaymentMethodTwoC2P, true},
		{"cash", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := ParsePaymentMethod(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}
