package booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/M-A-Yakout/Booking-Flight/internal/domain"
	"github.com/M-A-Yakout/Booking-Flight/internal/inventory"
	"github.com/M-A-Yakout/Booking-Flight/internal/kafka"
	"github.com/M-A-Yakout/Booking-Flight/internal/repository"
	apperrors "github.com/M-A-Yakout/Booking-Flight/pkg/app_errors"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"go.uber.org/zap"
)

type BookingUseCase interface {
	CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error)
	CancelBooking(ctx context.Context, id, requestingUser string) (*domain.Booking, error)
	GetBookingsForUser(ctx context.Context, username string) ([]BookingDetails, error)
	GetAllBookings(ctx context.Context) ([]BookingDetails, error)
	GetBookingByID(ctx context.Context, id string) (*domain.Booking, error)
}

type Cache interface {
	GetFlights(ctx context.Context) ([]domain.Flight, error)
	SetFlights(ctx context.Context, flights []domain.Flight) error
	InvalidateFlights(ctx context.Context) error
}

type Producer interface {
	Publish(ctx context.Context, topic, key string, value interface{}) error
}

type BookingService struct {
	bookings  repository.BookingRepository
	flights   repository.FlightRepository
	users     repository.UserRepository
	inventory inventory.SeatInventory
	cache     Cache
	producer  Producer
	topic     string
	log       *zap.Logger
}

type CreateBookingInput struct {
	Username     string `json:"username"`
	FlightNumber string `json:"flight_number"`
}

// BookingDetails is a booking joined with its flight's route for listings.
// Origin and Destination carry placeholders when the flight was deleted.
type BookingDetails struct {
	Booking     domain.Booking
	Origin      string
	Destination string
}

const unknownRoute = "unknown"

type BookingServiceOption func(*BookingService)

func WithEvents(producer Producer, topic string) BookingServiceOption {
	return func(s *BookingService) {
		s.producer = producer
		s.topic = topic
	}
}

func WithCache(cache Cache) BookingServiceOption {
	return func(s *BookingService) {
		s.cache = cache
	}
}

func NewBookingService(
	bookings repository.BookingRepository,
	flights repository.FlightRepository,
	users repository.UserRepository,
	inv inventory.SeatInventory,
	log *zap.Logger,
	opts ...BookingServiceOption,
) *BookingService {
	service := &BookingService{
		bookings:  bookings,
		flights:   flights,
		users:     users,
		inventory: inv,
		log:       log,
	}
	for _, opt := range opts {
		opt(service)
	}
	return service
}

func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.Booking, error) {
	if input.Username == "" {
		return nil, fmt.Errorf("%w: username is required", apperrors.ErrInvalidInput)
	}
	if input.FlightNumber == "" {
		return nil, fmt.Errorf("%w: flight number is required", apperrors.ErrInvalidInput)
	}

	exists, err := s.users.Exists(ctx, input.Username)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", apperrors.ErrUserResolutionFailed, err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: unknown user %q", apperrors.ErrUserResolutionFailed, input.Username)
	}

	if err := s.inventory.Reserve(ctx, input.FlightNumber); err != nil {
		if errors.Is(err, apperrors.ErrSoldOut) || errors.Is(err, apperrors.ErrFlightNotFound) {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrBookingDenied, err)
		}
		return nil, err
	}

	booking := &domain.Booking{
		ID:           newBookingID(),
		Username:     input.Username,
		FlightNumber: input.FlightNumber,
		Status:       domain.BookingStatusConfirmed,
	}

	err = s.bookings.Create(ctx, booking)
	if err != nil && isUniqueViolation(err) {
		// The 8-char id space is small enough for the occasional collision.
		// One fresh id before giving up.
		booking.ID = newBookingID()
		err = s.bookings.Create(ctx, booking)
	}
	if err != nil {
		// The seat is already taken out of the pool; give it back before
		// surfacing the fault. Compensation runs on a background context so
		// an abandoned request cannot skip it.
		if relErr := s.inventory.Release(context.Background(), input.FlightNumber); relErr != nil {
			s.log.Error("seat compensation failed, one seat may be lost",
				zap.String("flight_number", input.FlightNumber),
				zap.Error(relErr))
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_created", booking)
	return booking, nil
}

func (s *BookingService) CancelBooking(ctx context.Context, id, requestingUser string) (*domain.Booking, error) {
	current, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if current.Username != requestingUser {
		return nil, apperrors.ErrForbidden
	}
	if current.Status == domain.BookingStatusCancelled {
		return nil, apperrors.ErrAlreadyCancelled
	}

	// The status flip is the gate. The ledger's conditional UPDATE lets
	// exactly one concurrent cancel through, so only the winner reaches the
	// release below and a seat can never be returned twice.
	updated, err := s.bookings.Cancel(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrAlreadyCancelled) || errors.Is(err, apperrors.ErrBookingNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	if err := s.inventory.Release(ctx, updated.FlightNumber); err != nil && !errors.Is(err, apperrors.ErrFlightNotFound) {
		// The booking is already CANCELLED; failing the release leaves one
		// seat unreturned rather than resurrecting the booking.
		s.log.Error("cancel persisted status but not release",
			zap.String("booking_id", id),
			zap.Error(err))
		return nil, fmt.Errorf("%w: %v", apperrors.ErrPersistenceFailed, err)
	}

	s.invalidateFlights(ctx)
	s.publish(ctx, "booking_cancelled", updated)
	return updated, nil
}

func (s *BookingService) GetBookingsForUser(ctx context.Context, username string) ([]BookingDetails, error) {
	bookings, err := s.bookings.ListByUser(ctx, username)
	if err != nil {
		return nil, err
	}
	return s.withRoutes(ctx, bookings)
}

// GetAllBookings is the admin-wide listing across every user.
func (s *BookingService) GetAllBookings(ctx context.Context) ([]BookingDetails, error) {
	bookings, err := s.bookings.List(ctx)
	if err != nil {
		return nil, err
	}
	return s.withRoutes(ctx, bookings)
}

func (s *BookingService) withRoutes(ctx context.Context, bookings []domain.Booking) ([]BookingDetails, error) {
	details := make([]BookingDetails, 0, len(bookings))
	for _, b := range bookings {
		d := BookingDetails{Booking: b, Origin: unknownRoute, Destination: unknownRoute}
		flight, err := s.flights.GetByNumber(ctx, b.FlightNumber)
		if err == nil {
			d.Origin = flight.Origin
			d.Destination = flight.Destination
		} else if !errors.Is(err, apperrors.ErrFlightNotFound) {
			return nil, err
		}
		details = append(details, d)
	}
	return details, nil
}

func (s *BookingService) GetBookingByID(ctx context.Context, id string) (*domain.Booking, error) {
	return s.bookings.GetByID(ctx, id)
}

func (s *BookingService) publish(ctx context.Context, eventType string, booking *domain.Booking) {
	if s.producer == nil || s.topic == "" {
		return
	}
	event := kafka.BookingEvent{
		Type:         eventType,
		BookingID:    booking.ID,
		FlightNumber: booking.FlightNumber,
		Username:     booking.Username,
		Status:       string(booking.Status),
		CreatedAt:    booking.CreatedAt,
	}
	if err := s.producer.Publish(ctx, s.topic, booking.ID, event); err != nil {
		s.log.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", booking.ID),
			zap.Error(err))
	}
}

func (s *BookingService) invalidateFlights(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateFlights(ctx); err != nil {
		s.log.Warn("failed to invalidate flights cache", zap.Error(err))
	}
}

// newBookingID is the short booking reference handed to travellers.
func newBookingID() string {
	return uuid.NewString()[:8]
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

var _ BookingUseCase = (*BookingService)(nil)
