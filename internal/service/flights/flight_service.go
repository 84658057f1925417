package flights

import (
	"context"
	"fmt"
	"time"

	"github.com/M-A-Yakout/Booking-Flight/internal/domain"
	"github.com/M-A-Yakout/Booking-Flight/internal/repository"
	"github.com/M-A-Yakout/Booking-Flight/internal/service/booking"
	apperrors "github.com/M-A-Yakout/Booking-Flight/pkg/app_errors"
	"go.uber.org/zap"
)

type FlightUseCase interface {
	List(ctx context.Context) ([]domain.Flight, error)
	GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error)
	Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error)
	Add(ctx context.Context, input AddFlightInput) (*domain.Flight, error)
	Update(ctx context.Context, flightNumber string, input UpdateFlightInput) (*domain.Flight, error)
	Remove(ctx context.Context, flightNumber string) error
}

type FlightService struct {
	repo  repository.FlightRepository
	cache booking.Cache
	log   *zap.Logger
}

type AddFlightInput struct {
	FlightNumber  string    `json:"flight_number"`
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	TotalSeats    int       `json:"total_seats"`
	PriceCents    int64     `json:"price_cents"`
}

// UpdateFlightInput carries the correctable attributes of a flight. Seat
// capacity and availability are deliberately absent.
type UpdateFlightInput struct {
	Airline       string    `json:"airline"`
	Origin        string    `json:"origin"`
	Destination   string    `json:"destination"`
	DepartureTime time.Time `json:"departure_time"`
	ArrivalTime   time.Time `json:"arrival_time"`
	PriceCents    int64     `json:"price_cents"`
}

func NewFlightService(repo repository.FlightRepository, cache booking.Cache, log *zap.Logger) *FlightService {
	return &FlightService{repo: repo, cache: cache, log: log}
}

func (s *FlightService) List(ctx context.Context) ([]domain.Flight, error) {
	if s.cache != nil {
		if cached, err := s.cache.GetFlights(ctx); err == nil && cached != nil {
			return cached, nil
		}
	}

	flights, err := s.repo.List(ctx)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetFlights(ctx, flights); err != nil {
			s.log.Warn("failed to cache flights", zap.Error(err))
		}
	}
	return flights, nil
}

func (s *FlightService) GetByNumber(ctx context.Context, flightNumber string) (*domain.Flight, error) {
	return s.repo.GetByNumber(ctx, flightNumber)
}

func (s *FlightService) Search(ctx context.Context, origin, destination string, date time.Time) ([]domain.Flight, error) {
	return s.repo.Search(ctx, origin, destination, date)
}

// Add registers a flight with every seat available. Total capacity is fixed
// from this point on.
func (s *FlightService) Add(ctx context.Context, input AddFlightInput) (*domain.Flight, error) {
	if input.FlightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", apperrors.ErrInvalidInput)
	}
	if input.TotalSeats <= 0 {
		return nil, fmt.Errorf("%w: total seats must be positive", apperrors.ErrInvalidInput)
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, fmt.Errorf("%w: arrival must be after departure", apperrors.ErrInvalidInput)
	}

	flight := &domain.Flight{
		FlightNumber:   input.FlightNumber,
		Airline:        input.Airline,
		Origin:         input.Origin,
		Destination:    input.Destination,
		DepartureTime:  input.DepartureTime,
		ArrivalTime:    input.ArrivalTime,
		TotalSeats:     input.TotalSeats,
		AvailableSeats: input.TotalSeats,
		PriceCents:     input.PriceCents,
	}
	if err := s.repo.Create(ctx, flight); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return flight, nil
}

// Update corrects a flight's schedule, route or price. Seat counts come back
// from the store untouched.
func (s *FlightService) Update(ctx context.Context, flightNumber string, input UpdateFlightInput) (*domain.Flight, error) {
	if flightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", apperrors.ErrInvalidInput)
	}
	if !input.ArrivalTime.After(input.DepartureTime) {
		return nil, fmt.Errorf("%w: arrival must be after departure", apperrors.ErrInvalidInput)
	}

	flight := &domain.Flight{
		FlightNumber:  flightNumber,
		Airline:       input.Airline,
		Origin:        input.Origin,
		Destination:   input.Destination,
		DepartureTime: input.DepartureTime,
		ArrivalTime:   input.ArrivalTime,
		PriceCents:    input.PriceCents,
	}
	if err := s.repo.Update(ctx, flight); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return flight, nil
}

// Remove deletes a flight. Bookings referencing it are kept; listings render
// their route as unknown.
func (s *FlightService) Remove(ctx context.Context, flightNumber string) error {
	if err := s.repo.Delete(ctx, flightNumber); err != nil {
		return err
	}
	s.invalidate(ctx)
	return nil
}

func (s *FlightService) invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("failed to invalidate flights cache", zap.Error(err))
	}
}

var _ FlightUseCase = (*FlightService)(nil)
