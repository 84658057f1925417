package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/M-A-Yakout/Booking-Flight/config"
	"github.com/M-A-Yakout/Booking-Flight/internal/bootstrap"
	"github.com/M-A-Yakout/Booking-Flight/internal/cache"
	"github.com/M-A-Yakout/Booking-Flight/internal/database"
	"github.com/M-A-Yakout/Booking-Flight/internal/inventory"
	"github.com/M-A-Yakout/Booking-Flight/internal/kafka"
	"github.com/M-A-Yakout/Booking-Flight/internal/repository"
	"github.com/M-A-Yakout/Booking-Flight/internal/service/booking"
	"github.com/M-A-Yakout/Booking-Flight/internal/service/flights"
	"github.com/M-A-Yakout/Booking-Flight/pkg/logger"
	"go.uber.org/zap"
)

func main() {
	cfgPath := os.Getenv("CONFIG_PATH")
	if cfgPath == "" {
		cfgPath = "config.yaml"
	}

	log := logger.WithComponent("app")

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

	if err := database.Migrate(ctx, pool); err != nil {
		log.Fatal("migrate schema", zap.Error(err))
	}

	redisCache := cache.NewRedisCache(cfg.Redis, time.Duration(cfg.Booking.FlightsCacheTTL)*time.Second)
	producer := kafka.NewProducer(cfg.Kafka.Brokers, logger.WithComponent("kafka"))
	defer producer.Close()

	flightRepo := repository.NewFlightRepository(pool)
	bookingRepo := repository.NewBookingRepository(pool)
	userRepo := repository.NewUserRepository(pool)

	seatInventory := inventory.NewController(flightRepo, logger.WithComponent("inventory"))
	flightService := flights.NewFlightService(flightRepo, redisCache, logger.WithComponent("flights"))
	bookingService := booking.NewBookingService(
		bookingRepo,
		flightRepo,
		userRepo,
		seatInventory,
		logger.WithComponent("booking"),
		booking.WithCache(redisCache),
		booking.WithEvents(producer, cfg.Kafka.BookingEventsTopic),
	)

	if err := bootstrap.Run(ctx, cfg, flightService, bookingService); err != nil {
		log.Fatal("server error", zap.Error(err))
	}
}
