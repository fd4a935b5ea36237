package models

import (
	"time"

	"github.com/google/uuid"
)

// PaymentOutcome is the normalized result of one payment verification
// attempt. It is produced once per booking attempt and never mutated.
type PaymentOutcome struct {
	Accepted          bool   `json:"accepted"`
	ProviderReference string `json:"providerReference,omitempty"`
	FailureReason     string `json:"failureReason,omitempty"`
}

// AcceptedOutcome builds an accepted outcome carrying the provider reference.
func AcceptedOutcome(providerReference string) PaymentOutcome {
	return PaymentOutcome{Accepted: true, ProviderReference: providerReference}
}

// RejectedOutcome builds a rejected outcome carrying a human-readable reason.
func RejectedOutcome(reason string) PaymentOutcome {
	return PaymentOutcome{Accepted: false, FailureReason: reason}
}

// PaymentAudit is an append-only record of a payment attempt.
// One row is written for every booking attempt that reaches a provider,
// whether the provider accepted it or not.
type PaymentAudit struct {
	ID                uuid.UUID `json:"id" db:"id"`
	BookingReference  string    `json:"booking_reference" db:"booking_reference"`
	PaymentMethod     string    `json:"payment_method" db:"payment_method"`
	Accepted          bool      `json:"accepted" db:"accepted"`
	ProviderReference *string   `json:"provider_reference,omitempty" db:"provider_reference"`
	FailureReason     *string   `json:"failure_reason,omitempty" db:"failure_reason"`
	Amount            float64   `json:"amount" db:"amount"`
	Currency          string    `json:"currency" db:"currency"`
	IPAddress         *string   `json:"ip_address,omitempty" db:"ip_address"`
	UserAgent         *string   `json:"user_agent,omitempty" db:"user_agent"`
	DeviceType        *string   `json:"device_type,omitempty" db:"device_type"`
	CreatedAt         time.Time `json:"created_at" db:"created_at"`
}

// User is an agency staff account for the admin API.
type User struct {
	ID           uuid.UUID `json:"id" db:"id"`
	Name         string    `json:"name" db:"name"`
	Email        string    `json:"email" db:"email"`
	PasswordHash string    `json:"-" db:"password_hash"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
}
