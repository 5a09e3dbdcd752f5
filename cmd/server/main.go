package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/application"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/auth"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/config"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/database"
	bookingDomain "github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/domain/booking"
	bookingEvents "github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/events"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/handler"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/health"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/kafka"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/logger"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/middleware"
	"github.com/ThisIsSreshtha/CityWheels---Switch-Rides--Not-Plans-sub000/internal/repository"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-rental")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-rental",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := database.Connect(cfg.DB, log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		if err := db.AutoMigrate(&repository.VehicleModel{}, &repository.RenterModel{}, &repository.BookingModel{}); err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := database.RunMigrations(database.URL(cfg.DB), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, 15*time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.Kafka.Brokers, log)
	defer func() { _ = kafkaProducer.Close() }()

	// Initialize repositories
	vehicleRepo := repository.NewGormVehicleRepository(db)
	renterRepo := repository.NewGormRenterRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)

	// Initialize domain policies
	pricingStrategy := bookingDomain.NewStandardPricingStrategy(cfg.Booking.TaxBasisPoints)
	refundPolicy := bookingDomain.NewTieredRefundPolicy()

	// Initialize application services
	bookingService := application.NewBookingService(
		bookingRepo,
		vehicleRepo,
		renterRepo,
		pricingStrategy,
		refundPolicy,
		kafkaProducer,
		log,
		cfg.Booking.PendingTTL,
	)
	fleetService := application.NewFleetService(vehicleRepo, log)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize and start payment event consumer in a goroutine
	groupID := cfg.Kafka.GroupPrefix + "rental-service"
	paymentConsumer := bookingEvents.NewPaymentEventConsumer(
		cfg.Kafka.Brokers,
		groupID,
		bookingService,
		log,
	)
	defer func() { _ = paymentConsumer.Close() }()

	go func() {
		log.Info("starting payment event consumer")
		if err := paymentConsumer.Start(ctx); err != nil && err != context.Canceled {
			log.Error("payment event consumer error", zap.Error(err))
		}
	}()

	// Reap stale pending bookings on an interval
	go func() {
		ticker := time.NewTicker(cfg.Booking.ExpiryInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				expired, err := bookingService.ExpireStalePending(ctx)
				if err != nil {
					log.Error("stale booking sweep failed", zap.Error(err))
					continue
				}
				if expired > 0 {
					log.Info("expired stale pending bookings", zap.Int("count", expired))
				}
			}
		}
	}()

	// Initialize HTTP handlers
	bookingHandler := handler.NewBookingHandler(bookingService)
	vehicleHandler := handler.NewVehicleHandler(fleetService)
	adminHandler := handler.NewAdminHandler(bookingService, fleetService)

	// Setup Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(log))
	router.Use(middleware.LoggerMiddleware(log))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, "service-rental")
	healthHandler.RegisterRoutes(router)

	// Register routes
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	vehicleHandler.RegisterRoutes(&router.RouterGroup)
	adminHandler.RegisterRoutes(&router.RouterGroup, jwtManager)

	// Create HTTP server
	srv := &http.Server{
		Addr:         cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in a goroutine
	go func() {
		log.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down service-rental...")

	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-rental stopped")
}
