package database

import (
	"context"
	"database/sql"
	"io"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/albanianalps/agency-backend/internal/models"
)

func quietLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func TestPaymentAuditLog(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPaymentAuditRepository(db, quietLogger())

	mock.ExpectExec("INSERT INTO payment_audits").
		WillReturnResult(sqlmock.NewResult(0, 1))

	audit := &models.PaymentAudit{
		BookingReference: "ref-123",
		PaymentMethod:    "paypal",
		Accepted:         true,
		Amount:           160,
		Currency:         "EUR",
	}
	require.NoError(t, repo.Log(context.Background(), audit))

	// The repository fills in the id and timestamp.
	assert.NotEqual(t, uuid.Nil, audit.ID)
	assert.False(t, audit.CreatedAt.IsZero())
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPaymentAuditLog_NilEntry(t *testing.T) {
	db, _ := setupTestDB(t)
	repo := NewPaymentAuditRepository(db, quietLogger())

	assert.Error(t, repo.Log(context.Background(), nil))
}

func TestPaymentAuditLog_DatabaseError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewPaymentAuditRepository(db, quietLogger())

	mock.ExpectExec("INSERT INTO payment_audits").WillReturnError(sql.ErrConnDone)

	err := repo.Log(context.Background(), &models.PaymentAudit{BookingReference: "ref-123"})
	assert.Error(t, err)
}
