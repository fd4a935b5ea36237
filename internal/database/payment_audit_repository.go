package database

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/sirupsen/logrus"
	"github.com/albanianalps/agency-backend/internal/models"
)

// PaymentAuditRepository handles the append-only payment attempt trail
type PaymentAuditRepository struct {
	db     *sqlx.DB
	logger *logrus.Logger
}

// NewPaymentAuditRepository creates a new payment audit repository
func NewPaymentAuditRepository(db *sqlx.DB, logger *logrus.Logger) *PaymentAuditRepository {
	return &PaymentAuditRepository{
		db:     db,
		logger: logger,
	}
}

// Log creates a new payment audit entry. Payment events must be recorded for
// both accepted and rejected attempts.
func (r *PaymentAuditRepository) Log(ctx context.Context, audit *models.PaymentAudit) error {
	if audit == nil {
		return fmt.Errorf("audit entry cannot be nil")
	}

	if audit.ID == uuid.Nil {
		audit.ID = uuid.New()
	}
	if audit.CreatedAt.IsZero() {
		audit.CreatedAt = time.Now()
	}

	query := `
		INSERT INTO payment_audits (
			id, booking_reference, payment_method, accepted,
			provider_reference, failure_reason,
			amount, currency,
			ip_address, user_agent, device_type,
			created_at
		) VALUES (
			$1, $2, $3, $4,
			$5, $6,
			$7, $8,
			$9, $10, $11,
			$12
		)`

	_, err := r.db.ExecContext(ctx, query,
		audit.ID, audit.BookingReference, audit.PaymentMethod, audit.Accepted,
		audit.ProviderReference, audit.FailureReason,
		audit.Amount, audit.Currency,
		audit.IPAddress, audit.UserAgent, audit.DeviceType,
		audit.CreatedAt,
	)

	if err != nil {
		r.logger.WithError(err).WithFields(logrus.Fields{
			"booking_reference": audit.BookingReference,
			"payment_method":    audit.PaymentMethod,
		}).Error("Failed to log payment audit")
		return fmt.Errorf("failed to log payment audit: %w", err)
	}

	r.logger.WithFields(logrus.Fields{
		"audit_id":          audit.ID,
		"booking_reference": audit.BookingReference,
		"accepted":          audit.Accepted,
	}).Debug("Payment audit logged")

	return nil
}

// FindByBookingReference returns all audit entries for a booking, oldest first.
func (r *PaymentAuditRepository) FindByBookingReference(ctx context.Context, reference string) ([]models.PaymentAudit, error) {
	audits := []models.PaymentAudit{}
	query := `
		SELECT * FROM payment_audits
		WHERE booking_reference = $1
		ORDER BY created_at`

	if err := r.db.SelectContext(ctx, &audits, query, reference); err != nil {
		return nil, fmt.Errorf("failed to load payment audits: %w", err)
	}

	return audits, nil
}
