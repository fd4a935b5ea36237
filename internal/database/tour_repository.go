package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/albanianalps/agency-backend/internal/models"
)

// TourRepository handles read-only tour catalog lookups
type TourRepository struct {
	db *sqlx.DB
}

// NewTourRepository creates a new tour repository
func NewTourRepository(db *sqlx.DB) *TourRepository {
	return &TourRepository{db: db}
}

// FindByID returns the tour with the given id, or nil if it does not exist.
func (r *TourRepository) FindByID(ctx context.Context, id int64) (*models.Tour, error) {
	var tour models.Tour
	query := `
		SELECT id, title, description, location, price, max_guests, created_at
		FROM tours
		WHERE id = $1`

	err := r.db.GetContext(ctx, &tour, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find tour %d: %w", id, err)
	}

	return &tour, nil
}

// List returns all tours ordered by title.
func (r *TourRepository) List(ctx context.Context) ([]models.Tour, error) {
	tours := []models.Tour{}
	query := `
		SELECT id, title, description, location, price, max_guests, created_at
		FROM tours
		ORDER BY title`

	if err := r.db.SelectContext(ctx, &tours, query); err != nil {
		return nil, fmt.Errorf("failed to list tours: %w", err)
	}

	return tours, nil
}
