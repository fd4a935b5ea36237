package models

import "strings"

// PaymentMethod identifies the payment provider selected for a booking.
type PaymentMethod string

const (
	PaymentMethodPayPal PaymentMethod = "paypal"
	PaymentMethodCard   PaymentMethod = "card"
	PaymentMethodStripe PaymentMethod = "stripe"
	PaymentMethodTwoC2P PaymentMethod = "twoc2p"
)

// ParsePaymentMethod matches a raw method string against the supported
// providers, case-insensitively.
func ParsePaymentMethod(raw string) (PaymentMethod, bool) {
	switch PaymentMethod(strings.ToLower(strings.TrimSpace(raw))) {
	case PaymentMethodPayPal:
		return PaymentMethodPayPal, true
	case PaymentMethodCard:
		return PaymentMethodCard, true
	case PaymentMethodStripe:
		return PaymentMethodStripe, true
	case PaymentMethodTwoC2P:
		return PaymentMethodTwoC2P, true
	}
	return "", false
}

// BookingRequest is the raw booking payload received from the client.
// Exactly one provider payload must be populated, matching PaymentMethod.
type BookingRequest struct {
	TourID        int64  `json:"tourId" binding:"required"`
	Name          string `json:"name"`
	Email         string `json:"email"`
	DepartureDate string `json:"departureDate"`
	ReturnDate    string `json:"returnDate,omitempty"`
	Guests        int    `json:"guests"`
	PaymentMethod string `json:"paymentMethod"`

	Paypal  *PaypalInfo `json:"paypal,omitempty"`
	Payment *CardInfo   `json:"payment,omitempty"` // "payment" key kept for client compatibility
	Stripe  *StripeInfo `json:"stripe,omitempty"`
	TwoC2P  *TwoC2PInfo `json:"twoc2p,omitempty"`
}

// PaypalInfo carries the PayPal order reference captured client-side.
type PaypalInfo struct {
	Email         string `json:"email"`
	TransactionID string `json:"transactionId"`
}

// CardInfo carries raw card data for the stub card processor.
type CardInfo struct {
	Number  string `json:"number"`
	Expiry  string `json:"expiry"`
	CVV     string `json:"cvv"`
	Name    string `json:"name"`
	Address string `json:"address"`
	City    string `json:"city"`
	Zip     string `json:"zip"`
	Country string `json:"country"`
}

// StripeInfo carries the Stripe PaymentIntent reference.
type StripeInfo struct {
	PaymentIntentID string `json:"paymentIntentId"`
	CustomerEmail   string `json:"customerEmail"`
}

// TwoC2PInfo carries the 2C2P transaction reference.
type TwoC2PInfo struct {
	TransactionID string `json:"transactionId"`
	CustomerEmail string `json:"customerEmail"`
}
