package models

import (
	"errors"
	"time"
)

// BookingStatus represents the payment status of a booking
type BookingStatus string

const (
	BookingStatusPending BookingStatus = "PENDING"
	BookingStatusPaid    BookingStatus = "PAID"
	BookingStatusFailed  BookingStatus = "FAILED"
)

// Booking represents a tour reservation. A booking starts PENDING and
// transitions to PAID or FAILED exactly once; both outcomes are persisted so
// the agency keeps a record of every payment attempt.
type Booking struct {
	ID               int64         `json:"id" db:"id"`
	BookingReference string        `json:"bookingReference" db:"booking_reference"`
	TourID           int64         `json:"tourId" db:"tour_id"`
	UserName         string        `json:"userName" db:"user_name"`
	UserEmail        string        `json:"userEmail" db:"user_email"`
	DepartureDate    time.Time     `json:"departureDate" db:"departure_date"`
	ReturnDate       *time.Time    `json:"returnDate,omitempty" db:"return_date"`
	Guests           int           `json:"guests" db:"guests"`
	PaymentMethod    string        `json:"paymentMethod" db:"payment_method"`
	Status           BookingStatus `json:"status" db:"status"`
	TotalAmount      float64       `json:"totalAmount" db:"total_amount"`
	FailureReason    *string       `json:"failureReason,omitempty" db:"failure_reason"`

	// Card payment reference fields (masked, last 4 only)
	CardLast4      *string `json:"cardLast4,omitempty" db:"card_last4"`
	CardholderName *string `json:"cardholderName,omitempty" db:"cardholder_name"`
	BillingAddress *string `json:"billingAddress,omitempty" db:"billing_address"`
	City           *string `json:"city,omitempty" db:"city"`
	ZipCode        *string `json:"zipCode,omitempty" db:"zip_code"`
	Country        *string `json:"country,omitempty" db:"country"`

	// PayPal payment reference fields
	PaypalEmail *string `json:"paypalEmail,omitempty" db:"paypal_email"`
	PaypalTxn   *string `json:"paypalTxn,omitempty" db:"paypal_transaction_id"`

	// Stripe payment reference fields
	StripePaymentIntentID *string `json:"stripePaymentIntentId,omitempty" db:"stripe_payment_intent_id"`

	// 2C2P payment reference fields
	TwoC2PTransactionID *string `json:"twoC2PTransactionId,omitempty" db:"twoc2p_transaction_id"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// ErrStatusFinal is returned when a terminal booking is transitioned again.
var ErrStatusFinal = errors.New("booking status is final")

// MarkPaid transitions the booking from PENDING to PAID.
func (b *Booking) MarkPaid() error {
	if b.Status != BookingStatusPending {
		return ErrStatusFinal
	}
	b.Status = BookingStatusPaid
	return nil
}

// MarkFailed transitions the booking from PENDING to FAILED, keeping the
// failure reason for the audit record.
func (b *Booking) MarkFailed(reason string) error {
	if b.Status != BookingStatusPending {
		return ErrStatusFinal
	}
	b.Status = BookingStatusFailed
	if reason != "" {
		b.FailureReason = &reason
	}
	return nil
}

// IsRoundTrip reports whether the booking has a return leg.
func (b *Booking) IsRoundTrip() bool {
	return b.ReturnDate != nil
}
