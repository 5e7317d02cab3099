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

	"github.com/openstay/service-booking/internal/application"
	"github.com/openstay/service-booking/internal/auth"
	"github.com/openstay/service-booking/internal/config"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	"github.com/openstay/service-booking/internal/events"
	"github.com/openstay/service-booking/internal/handler"
	"github.com/openstay/service-booking/internal/health"
	"github.com/openstay/service-booking/internal/logger"
	"github.com/openstay/service-booking/internal/middleware"
	"github.com/openstay/service-booking/internal/repository"
	"github.com/openstay/service-booking/internal/scheduler"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	// Initialize logger
	log, err := logger.NewNamed(cfg.AppEnv, "service-booking")
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	log.Info("starting service-booking",
		zap.String("port", cfg.Port),
	)

	// Connect to database
	db, err := repository.Connect(cfg.DBConfig.DSN(), log)
	if err != nil {
		log.Fatal("failed to connect to database", zap.Error(err))
	}

	// Run database migrations
	if cfg.AppEnv == "development" {
		err := db.AutoMigrate(
			&repository.UserModel{},
			&repository.PropertyModel{},
			&repository.PropertyImageModel{},
			&repository.BookingModel{},
			&repository.PaymentModel{},
			&repository.ReviewModel{},
		)
		if err != nil {
			log.Fatal("failed to run auto-migration", zap.Error(err))
		}
		log.Info("database migration completed (dev auto-migrate)")
	} else {
		if err := repository.RunMigrations(cfg.DBConfig.URL(), "migrations", log); err != nil {
			log.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(cfg.JWTConfig.Secret, 24*time.Hour)

	// Initialize Kafka publisher
	publisher := events.NewKafkaPublisher(cfg.KafkaConfig.Brokers, "service-booking", log)
	defer func() { _ = publisher.Close() }()

	// Initialize repositories
	userRepo := repository.NewGormUserRepository(db)
	propertyRepo := repository.NewGormPropertyRepository(db)
	imageRepo := repository.NewGormImageRepository(db)
	bookingRepo := repository.NewGormBookingRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	txManager := repository.NewGormTxManager(db)

	// Initialize pricing strategy
	pricing := bookingDomain.NewNightlyRateStrategy()

	// Initialize application services
	userService := application.NewUserService(userRepo, jwtManager, log)
	propertyService := application.NewPropertyService(propertyRepo, imageRepo, log)
	bookingService := application.NewBookingService(bookingRepo, propertyRepo, pricing, txManager, publisher, log)
	paymentService := application.NewPaymentService(paymentRepo, bookingRepo, txManager, publisher, log)
	reviewService := application.NewReviewService(reviewRepo, bookingRepo, publisher, log)

	// Start the daily maintenance scheduler in a goroutine
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sched := scheduler.New(bookingRepo, bookingService, publisher, 24*time.Hour, log)
	go func() {
		log.Info("starting maintenance scheduler")
		if err := sched.Start(ctx); err != nil && err != context.Canceled {
			log.Error("maintenance scheduler error", zap.Error(err))
		}
	}()

	// Initialize HTTP handlers
	userHandler := handler.NewUserHandler(userService)
	propertyHandler := handler.NewPropertyHandler(propertyService, bookingService, reviewService)
	bookingHandler := handler.NewBookingHandler(bookingService)
	paymentHandler := handler.NewPaymentHandler(paymentService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	adminHandler := handler.NewAdminHandler(bookingService)

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
	healthHandler := health.NewHandler(db, "service-booking")
	healthHandler.RegisterRoutes(router)

	// Register routes
	userHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	propertyHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	bookingHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	paymentHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
	reviewHandler.RegisterRoutes(&router.RouterGroup, jwtManager)
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

	log.Info("shutting down service-booking...")

	// Stop the scheduler
	cancel()

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("HTTP server forced shutdown", zap.Error(err))
	}

	log.Info("service-booking stopped")
}
