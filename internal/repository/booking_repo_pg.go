package repository

import (
	"context"
	"errors"

	"github.com/M-A-Yakout/Booking-Flight/internal/domain"
	apperrors "github.com/M-A-Yakout/Booking-Flight/pkg/app_errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	ListByUser(ctx context.Context, username string) ([]domain.Booking, error)
	Cancel(ctx context.Context, id string) (*domain.Booking, error)
}

type PGBookingRepository struct {
	db *pgxpool.Pool
}

func NewBookingRepository(db *pgxpool.Pool) BookingRepository {
	return &PGBookingRepository{db: db}
}

const bookingColumns = `booking_id, username, flight_number, status, created_at, updated_at`

func (r *PGBookingRepository) Create(ctx context.Context, booking *domain.Booking) error {
	return r.db.QueryRow(ctx, `INSERT INTO bookings (booking_id, username, flight_number, status)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, updated_at`,
		booking.ID, booking.Username, booking.FlightNumber, booking.Status).
		Scan(&booking.CreatedAt, &booking.UpdatedAt)
}

func (r *PGBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE booking_id=$1`, id)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *PGBookingRepository) List(ctx context.Context) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings ORDER BY created_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

func (r *PGBookingRepository) ListByUser(ctx context.Context, username string) ([]domain.Booking, error) {
	rows, err := r.db.Query(ctx, `SELECT `+bookingColumns+` FROM bookings WHERE username=$1 ORDER BY created_at DESC`, username)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanBookings(rows)
}

// Cancel flips CONFIRMED to CANCELLED in a single conditional UPDATE, so of
// two concurrent cancels of the same booking exactly one wins the transition.
func (r *PGBookingRepository) Cancel(ctx context.Context, id string) (*domain.Booking, error) {
	row := r.db.QueryRow(ctx, `UPDATE bookings SET status=$1, updated_at=now() WHERE booking_id=$2 AND status=$3 RETURNING `+bookingColumns,
		domain.BookingStatusCancelled, id, domain.BookingStatusConfirmed)
	var b domain.Booking
	if err := scanBooking(row, &b); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, r.cancelMiss(ctx, id)
		}
		return nil, err
	}
	return &b, nil
}

// cancelMiss resolves a zero-row conditional cancel: the booking either does
// not exist or already left CONFIRMED.
func (r *PGBookingRepository) cancelMiss(ctx context.Context, id string) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM bookings WHERE booking_id=$1)`, id).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrBookingNotFound
	}
	return apperrors.ErrAlreadyCancelled
}

func scanBooking(row pgx.Row, b *domain.Booking) error {
	return row.Scan(&b.ID, &b.Username, &b.FlightNumber, &b.Status, &b.CreatedAt, &b.UpdatedAt)
}

func scanBookings(rows pgx.Rows) ([]domain.Booking, error) {
	bookings := make([]domain.Booking, 0)
	for rows.Next() {
		var b domain.Booking
		if err := scanBooking(rows, &b); err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	return bookings, rows.Err()
}

var _ BookingRepository = (*PGBookingRepository)(nil)
