package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/albanianalps/agency-backend/internal/models"
)

// BookingRepository handles booking persistence. Bookings are inserted once
// with their final status; there is no update path.
type BookingRepository struct {
	db *sqlx.DB
}

// NewBookingRepository creates a new booking repository
func NewBookingRepository(db *sqlx.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

// Save inserts the booking and fills in its assigned id and creation time.
func (r *BookingRepository) Save(ctx context.Context, booking *models.Booking) error {
	query := `
		INSERT INTO bookings (
			booking_reference, tour_id, user_name, user_email,
			departure_date, return_date, guests, payment_method,
			status, total_amount, failure_reason,
			card_last4, cardholder_name, billing_address, city, zip_code, country,
			paypal_email, paypal_transaction_id,
			stripe_payment_intent_id, twoc2p_transaction_id
		) VALUES (
			$1, $2, $3, $4,
			$5, $6, $7, $8,
			$9, $10, $11,
			$12, $13, $14, $15, $16, $17,
			$18, $19,
			$20, $21
		)
		RETURNING id, created_at`

	err := r.db.QueryRowContext(ctx, query,
		booking.BookingReference, booking.TourID, booking.UserName, booking.UserEmail,
		booking.DepartureDate, booking.ReturnDate, booking.Guests, booking.PaymentMethod,
		booking.Status, booking.TotalAmount, booking.FailureReason,
		booking.CardLast4, booking.CardholderName, booking.BillingAddress, booking.City, booking.ZipCode, booking.Country,
		booking.PaypalEmail, booking.PaypalTxn,
		booking.StripePaymentIntentID, booking.TwoC2PTransactionID,
	).Scan(&booking.ID, &booking.CreatedAt)

	if err != nil {
		return fmt.Errorf("failed to save booking: %w", err)
	}

	return nil
}

// FindByID returns the booking with the given id, or nil if it does not exist.
func (r *BookingRepository) FindByID(ctx context.Context, id int64) (*models.Booking, error) {
	var booking models.Booking
	query := `SELECT * FROM bookings WHERE id = $1`

	err := r.db.GetContext(ctx, &booking, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find booking %d: %w", id, err)
	}

	return &booking, nil
}

// FindAll returns all bookings, newest first.
func (r *BookingRepository) FindAll(ctx context.Context) ([]models.Booking, error) {
	bookings := []models.Booking{}
	query := `SELECT * FROM bookings ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &bookings, query); err != nil {
		return nil, fmt.Errorf("failed to list bookings: %w", err)
	}

	return bookings, nil
}
