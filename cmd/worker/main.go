package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/M-A-Yakout/Booking-Flight/config"
	"github.com/M-A-Yakout/Booking-Flight/internal/cache"
	"github.com/M-A-Yakout/Booking-Flight/internal/database"
	"github.com/M-A-Yakout/Booking-Flight/internal/kafka"
	"github.com/M-A-Yakout/Booking-Flight/internal/repository"
	"github.com/M-A-Yakout/Booking-Flight/pkg/logger"
	"go.uber.org/zap"
)

// The worker tails the booking-events topic into the structured log (audit
// trail) and re-warms the flights cache on a fixed interval.
func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log := logger.WithComponent("worker")

	cfg, err := config.LoadConfig(cfgPath)
	if err != nil {
		log.Fatal("load config", zap.Error(err))
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	pool, err := database.NewPool(ctx, cfg.Database)
	if err != nil {
		log.Fatal("connect postgres", zap.Error(err))
	}
	defer pool.Close()

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	flightRepo := repository.NewFlightRepository(pool)

	consumer := kafka.NewConsumer(cfg.Kafka.Brokers, cfg.Kafka.GroupID, cfg.Kafka.BookingEventsTopic, logger.WithComponent("consumer"))
	defer consumer.Close()

	go func() {
		err := consumer.Consume(ctx, func(ctx context.Context, event kafka.BookingEvent) error {
			log.Info("booking event",
				zap.String("type", event.Type),
				zap.String("booking_id", event.BookingID),
				zap.String("flight_number", event.FlightNumber),
				zap.String("username", event.Username),
				zap.String("status", event.Status))
			return nil
		})
		if err != nil {
			log.Warn("consumer stopped", zap.Error(err))
		}
	}()

	warmTicker := time.NewTicker(time.Duration(cfg.Worker.CacheWarmMinutes) * time.Minute)
	defer warmTicker.Stop()

	for {
		select {
		case <-warmTicker.C:
			flights, err := flightRepo.List(ctx)
			if err != nil {
				log.Warn("cache warm read failed", zap.Error(err))
				continue
			}
			if err := redisCache.SetFlights(ctx, flights); err != nil {
				log.Warn("cache warm write failed", zap.Error(err))
				continue
			}
			log.Info("flights cache warmed", zap.Int("flights", len(flights)))
		case <-ctx.Done():
			log.Info("shutting down")
			return
		}
	}
}
