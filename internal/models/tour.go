package models

import "time"

// Tour represents a bookable tour from the catalog.
// Tours are read-only for the duration of a booking attempt.
type Tour struct {
	ID          int64     `json:"id" db:"id"`
	Title       string    `json:"title" db:"title"`
	Description string    `json:"description" db:"description"`
	Location    string    `json:"location" db:"location"`
	Price       float64   `json:"price" db:"price"` // per person
	MaxGuests   int       `json:"maxGuests" db:"max_guests"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
