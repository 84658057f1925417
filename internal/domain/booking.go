package domain

import "time"

type BookingStatus string

const (
	BookingStatusConfirmed BookingStatus = "CONFIRMED"
	BookingStatusCancelled BookingStatus = "CANCELLED"
)

// Booking references its user and flight by lookup key, not by embedded copy.
// A booking is never deleted; cancellation keeps the row with the CANCELLED
// marker.
type Booking struct {
	ID           string
	Username     string
	FlightNumber string
	Status       BookingStatus
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
