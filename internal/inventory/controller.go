package inventory

import (
	"context"

	"github.com/M-A-Yakout/Booking-Flight/internal/repository"
	"go.uber.org/zap"
)

// SeatInventory is the only path allowed to mutate a flight's available-seat
// count.
type SeatInventory interface {
	Reserve(ctx context.Context, flightNumber string) error
	Release(ctx context.Context, flightNumber string) error
}

type Controller struct {
	flights repository.FlightRepository
	log     *zap.Logger
}

func NewController(flights repository.FlightRepository, log *zap.Logger) *Controller {
	return &Controller{flights: flights, log: log}
}

// Reserve atomically takes one seat. It returns apperrors.ErrFlightNotFound
// when the flight is unknown and apperrors.ErrSoldOut when no seat remains.
func (c *Controller) Reserve(ctx context.Context, flightNumber string) error {
	if err := c.flights.ReserveSeat(ctx, flightNumber); err != nil {
		c.log.Info("seat reservation refused",
			zap.String("flight_number", flightNumber),
			zap.Error(err))
		return err
	}
	c.log.Info("seat reserved", zap.String("flight_number", flightNumber))
	return nil
}

// Release returns one seat to the pool. The store clamps the count at total
// capacity, so over-release cannot push availability past the capacity.
func (c *Controller) Release(ctx context.Context, flightNumber string) error {
	if err := c.flights.ReleaseSeat(ctx, flightNumber); err != nil {
		c.log.Warn("seat release failed",
			zap.String("flight_number", flightNumber),
			zap.Error(err))
		return err
	}
	c.log.Info("seat released", zap.String("flight_number", flightNumber))
	return nil
}

var _ SeatInventory = (*Controller)(nil)
