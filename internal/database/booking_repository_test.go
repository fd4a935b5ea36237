package database

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/albanianalps/agency-backend/internal/models"
)

func setupTestDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	mockDB, mock, err := sqlmock.New()
	require.NoError(t, err)

	sqlxDB := sqlx.NewDb(mockDB, "sqlmock")
	t.Cleanup(func() { sqlxDB.Close() })
	return sqlxDB, mock
}

func pendingBooking() *models.Booking {
	return &models.Booking{
		BookingReference: "ref-123",
		TourID:           1,
		UserName:         "Alban Kola",
		UserEmail:        "alban@example.com",
		DepartureDate:    time.Date(2026, 7, 1, 0, 0, 0, 0, time.UTC),
		Guests:           2,
		PaymentMethod:    "paypal",
		Status:           models.BookingStatusPaid,
		TotalAmount:      160,
	}
}

func TestBookingSave(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewBookingRepository(db)

	createdAt := time.Now()
	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			"ref-123", int64(1), "Alban Kola", "alban@example.com",
			sqlmock.AnyArg(), nil, 2, "paypal",
			models.BookingStatusPaid, 160.0, nil,
			nil, nil, nil, nil, nil, nil,
			nil, nil,
			nil, nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(7), createdAt))

	booking := pendingBooking()
	require.NoError(t, repo.Save(context.Background(), booking))

	assert.Equal(t, int64(7), booking.ID)
	assert.Equal(t, createdAt, booking.CreatedAt)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingSave_FailedBookingWithReason(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewBookingRepository(db)

	reason := "stripe payment intent status is processing"
	booking := pendingBooking()
	booking.Status = models.BookingStatusFailed
	booking.FailureReason = &reason

	mock.ExpectQuery("INSERT INTO bookings").
		WithArgs(
			"ref-123", int64(1), "Alban Kola", "alban@example.com",
			sqlmock.AnyArg(), nil, 2, "paypal",
			models.BookingStatusFailed, 160.0, reason,
			nil, nil, nil, nil, nil, nil,
			nil, nil,
			nil, nil,
		).
		WillReturnRows(sqlmock.NewRows([]string{"id", "created_at"}).AddRow(int64(8), time.Now()))

	require.NoError(t, repo.Save(context.Background(), booking))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingSave_DatabaseError(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery("INSERT INTO bookings").WillReturnError(sql.ErrConnDone)

	err := repo.Save(context.Background(), pendingBooking())
	assert.Error(t, err)
}

func TestBookingFindByID_NotFound(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery("SELECT \\* FROM bookings WHERE id").
		WithArgs(int64(99)).
		WillReturnError(sql.ErrNoRows)

	booking, err := repo.FindByID(context.Background(), 99)
	require.NoError(t, err)
	assert.Nil(t, booking)
}

func TestBookingFindAll(t *testing.T) {
	db, mock := setupTestDB(t)
	repo := NewBookingRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "booking_reference", "tour_id", "user_name", "user_email",
		"departure_date", "guests", "payment_method", "status", "total_amount", "created_at",
	}).
		AddRow(int64(2), "ref-2", int64(1), "B", "b@example.com",
			time.Now(), 1, "stripe", "FAILED", 80.0, time.Now()).
		AddRow(int64(1), "ref-1", int64(1), "A", "a@example.com",
			time.Now(), 2, "paypal", "PAID", 160.0, time.Now())

	mock.ExpectQuery("SELECT \\* FROM bookings ORDER BY created_at DESC").
		WillReturnRows(rows)

	bookings, err := repo.FindAll(context.Background())
	require.NoError(t, err)
	require.Len(t, bookings, 2)
	assert.Equal(t, models.BookingStatusFailed, bookings[0].Status)
	assert.Equal(t, models.BookingStatusPaid, bookings[1].Status)
}
