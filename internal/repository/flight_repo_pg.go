package repository

import (
	"context"
	"errors"
	"time"

	"github.com/M-A-Yakout/Booking-Flight/internal/domain"
	apperrors "github.com/M-A-Yakout/Booking-Flight/pkg/app_errors"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type FlightRepository interface {
	Create(ctx context.Context, flight *domain.Flight) error
	List(ctx context.Context) ([]domain.Flight, error)
	GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error)
	Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error)
	Update(ctx context.Context, flight *domain.Flight) error
	Delete(ctx context.Context, flightNumber string) error
	ReserveSeat(ctx context.Context, flightNumber string) error
	ReleaseSeat(ctx context.Context, flightNumber string) error
}

type PGFlightRepository struct {
	db *pgxpool.Pool
}

func NewFlightRepository(db *pgxpool.Pool) FlightRepository {
	return &PGFlightRepository{db: db}
}

const flightColumns = `flight_number, airline, origin, destination, departure_time, arrival_time, total_seats, available_seats, price_cents, created_at, updated_at`

func (r *PGFlightRepository) Create(ctx context.Context, flight *domain.Flight) error {
	err := r.db.QueryRow(ctx, `INSERT INTO flights (flight_number, airline, origin, destination, departure_time, arrival_time, total_seats, available_seats, price_cents)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (flight_number) DO NOTHING
		RETURNING created_at, updated_at`,
		flight.FlightNumber, flight.Airline, flight.Origin, flight.Destination,
		flight.DepartureTime, flight.ArrivalTime, flight.TotalSeats, flight.AvailableSeats, flight.PriceCents).
		Scan(&flight.CreatedAt, &flight.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.ErrFlightExists
	}
	return err
}

func (r *PGFlightRepository) List(ctx context.Context) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights ORDER BY departure_time`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

func (r *PGFlightRepository) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	row := r.db.QueryRow(ctx, `SELECT `+flightColumns+` FROM flights WHERE flight_number=$1`, flightNumber)
	var f domain.Flight
	if err := scanFlight(row, &f); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrFlightNotFound
		}
		return nil, err
	}
	return &f, nil
}

func (r *PGFlightRepository) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	rows, err := r.db.Query(ctx, `SELECT `+flightColumns+` FROM flights
		WHERE lower(origin)=lower($1) AND lower(destination)=lower($2)
		AND departure_time >= $3 AND departure_time < $3 + INTERVAL '1 day'
		AND available_seats > 0
		ORDER BY departure_time`, origin, destination, date)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanFlights(rows)
}

// Update rewrites a flight's schedule, route and price. Seat counts are not
// touched here; they stay with ReserveSeat/ReleaseSeat.
func (r *PGFlightRepository) Update(ctx context.Context, flight *domain.Flight) error {
	row := r.db.QueryRow(ctx, `UPDATE flights SET airline=$2, origin=$3, destination=$4, departure_time=$5, arrival_time=$6, price_cents=$7, updated_at=now()
		WHERE flight_number=$1
		RETURNING total_seats, available_seats, created_at, updated_at`,
		flight.FlightNumber, flight.Airline, flight.Origin, flight.Destination,
		flight.DepartureTime, flight.ArrivalTime, flight.PriceCents)
	if err := row.Scan(&flight.TotalSeats, &flight.AvailableSeats, &flight.CreatedAt, &flight.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return apperrors.ErrFlightNotFound
		}
		return err
	}
	return nil
}

func (r *PGFlightRepository) Delete(ctx context.Context, flightNumber string) error {
	res, err := r.db.Exec(ctx, `DELETE FROM flights WHERE flight_number=$1`, flightNumber)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return apperrors.ErrFlightNotFound
	}
	return nil
}

// ReserveSeat is the decrement-and-check in a single conditional UPDATE, so
// two concurrent reservations can never both take the last seat even across
// multiple processes sharing the database.
func (r *PGFlightRepository) ReserveSeat(ctx context.Context, flightNumber string) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats = available_seats - 1, updated_at = now() WHERE flight_number=$1 AND available_seats > 0`, flightNumber)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		return r.missReason(ctx, flightNumber, apperrors.ErrSoldOut)
	}
	return nil
}

// ReleaseSeat increments available seats, clamped at total capacity. A
// release against a full flight is a no-op, not an error.
func (r *PGFlightRepository) ReleaseSeat(ctx context.Context, flightNumber string) error {
	res, err := r.db.Exec(ctx, `UPDATE flights SET available_seats = available_seats + 1, updated_at = now() WHERE flight_number=$1 AND available_seats < total_seats`, flightNumber)
	if err != nil {
		return err
	}
	if res.RowsAffected() == 0 {
		if err := r.missReason(ctx, flightNumber, nil); err != nil {
			return err
		}
	}
	return nil
}

// missReason resolves a zero-row conditional update: the flight either does
// not exist or its seat predicate failed.
func (r *PGFlightRepository) missReason(ctx context.Context, flightNumber string, predicateErr error) error {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM flights WHERE flight_number=$1)`, flightNumber).Scan(&exists); err != nil {
		return err
	}
	if !exists {
		return apperrors.ErrFlightNotFound
	}
	return predicateErr
}

func scanFlight(row pgx.Row, f *domain.Flight) error {
	return row.Scan(&f.FlightNumber, &f.Airline, &f.Origin, &f.Destination, &f.DepartureTime, &f.ArrivalTime, &f.TotalSeats, &f.AvailableSeats, &f.PriceCents, &f.CreatedAt, &f.UpdatedAt)
}

func scanFlights(rows pgx.Rows) ([]domain.Flight, error) {
	flights := make([]domain.Flight, 0)
	for rows.Next() {
		var f domain.Flight
		if err := scanFlight(rows, &f); err != nil {
			return nil, err
		}
		flights = append(flights, f)
	}
	return flights, rows.Err()
}

var _ FlightRepository = (*PGFlightRepository)(nil)
