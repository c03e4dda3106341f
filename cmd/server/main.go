package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/adapter"
	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/cache"
	"github.com/hotel-yunuen/service-reservation/internal/config"
	reservationEvents "github.com/hotel-yunuen/service-reservation/internal/events"
	"github.com/hotel-yunuen/service-reservation/internal/handler"
	"github.com/hotel-yunuen/service-reservation/internal/jobs"
	"github.com/hotel-yunuen/service-reservation/internal/platform/auth"
	"github.com/hotel-yunuen/service-reservation/internal/platform/database"
	"github.com/hotel-yunuen/service-reservation/internal/platform/health"
	"github.com/hotel-yunuen/service-reservation/internal/platform/kafka"
	"github.com/hotel-yunuen/service-reservation/internal/platform/logger"
	"github.com/hotel-yunuen/service-reservation/internal/platform/middleware"
	"github.com/hotel-yunuen/service-reservation/internal/repository"
)

const serviceName = "service-reservation"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	// Initialize logger
	zapLogger, err := logger.NewNamed(cfg.AppEnv, serviceName)
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("starting "+serviceName,
		zap.String("port", cfg.Port),
		zap.String("env", cfg.AppEnv),
	)

	// Connect to database and apply migrations
	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}
	if err := database.RunMigrations(cfg.DBConfig.DatabaseURL(), "migrations", zapLogger); err != nil {
		zapLogger.Fatal("failed to run migrations", zap.Error(err))
	}

	// Initialize JWT manager
	jwtManager := auth.NewJWTManager(
		cfg.JWTConfig.Secret,
		15*time.Minute,
		7*24*time.Hour,
	)

	// Initialize Redis; an unreachable server degrades caching and rate limiting
	redisClient, err := cache.Connect(context.Background(), cache.Options{
		Addr:     cfg.RedisConfig.Addr,
		Password: cfg.RedisConfig.Password,
		DB:       cfg.RedisConfig.DB,
	}, zapLogger)
	if err != nil {
		zapLogger.Warn("redis unavailable, continuing without cache", zap.Error(err))
	}
	defer redisClient.Close()
	statsCache := cache.NewStatisticsCache(redisClient, cfg.RedisConfig.StatsCacheTTL)
	couponLimiter := cache.NewFixedWindowLimiter(redisClient, cfg.CouponRateLimit, time.Minute)

	// Initialize Kafka producer
	kafkaProducer := kafka.NewProducer(cfg.KafkaConfig.Brokers, zapLogger)
	defer kafkaProducer.Close()

	// Initialize adapters (mock gateway for development)
	gateway := adapter.NewMockPaymentGateway(zapLogger)
	notifier := adapter.NewSMTPNotifier(adapter.SMTPConfig{
		Host:          cfg.SMTPConfig.Host,
		Port:          cfg.SMTPConfig.Port,
		Username:      cfg.SMTPConfig.Username,
		Password:      cfg.SMTPConfig.Password,
		From:          cfg.SMTPConfig.From,
		OperatorEmail: cfg.SMTPConfig.OperatorEmail,
	}, zapLogger)

	// Initialize repositories
	hotelRepo := repository.NewHotelRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	couponRepo := repository.NewGormCouponRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	// Initialize application services
	clock := application.Clock(time.Now)
	statsService := application.NewStatisticsService(statsRepo, reviewRepo, bookingRepo, hotelRepo, statsCache, clock, zapLogger)
	hotelService := application.NewHotelService(hotelRepo, roomTypeRepo, reviewRepo, statsService, clock, zapLogger)
	roomService := application.NewRoomService(hotelRepo, roomTypeRepo, roomRepo, bookingRepo, clock, zapLogger)
	couponService := application.NewCouponService(couponRepo, clock, zapLogger)
	reviewService := application.NewReviewService(reviewRepo, bookingRepo, hotelRepo, statsService, clock, zapLogger)
	contactService := application.NewContactService(notifier, zapLogger)
	bookingService := application.NewBookingService(application.BookingServiceDeps{
		Bookings:  bookingRepo,
		Rooms:     roomRepo,
		RoomTypes: roomTypeRepo,
		Hotels:    hotelRepo,
		Coupons:   couponRepo,
		Stats:     statsService,
		Publisher: reservationEvents.NewBookingEventPublisher(kafkaProducer),
		Notifier:  notifier,
		Gateway:   gateway,
	}, cfg.BookingConfig.TaxRatePercent, clock, zapLogger)

	// Initialize Kafka consumer for payment events
	consumerGroupID := cfg.KafkaConfig.GroupPrefix + "reservation-service"
	paymentConsumer := reservationEvents.NewPaymentEventConsumer(
		cfg.KafkaConfig.Brokers,
		consumerGroupID,
		bookingService,
		zapLogger,
	)
	defer paymentConsumer.Close()

	// Start Kafka consumer in a goroutine
	consumerCtx, consumerCancel := context.WithCancel(context.Background())
	defer consumerCancel()

	go func() {
		zapLogger.Info("starting payment event consumer")
		if err := paymentConsumer.Start(consumerCtx); err != nil {
			if consumerCtx.Err() == nil {
				zapLogger.Error("payment event consumer failed", zap.Error(err))
			}
		}
	}()

	// Start the maintenance scheduler
	var scheduler *jobs.Scheduler
	if cfg.SchedulerEnabled {
		runner := jobs.NewRunner(bookingService, roomService, statsService, cfg.BookingConfig.PendingExpiryDays, zapLogger)
		scheduler, err = jobs.NewScheduler(runner, time.UTC, zapLogger)
		if err != nil {
			zapLogger.Fatal("failed to create job scheduler", zap.Error(err))
		}
		scheduler.Start()
	}

	// Setup Gin router
	if err := handler.RegisterValidators(); err != nil {
		zapLogger.Fatal("failed to register validators", zap.Error(err))
	}
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	// Apply global middleware
	router.Use(middleware.RecoveryMiddleware(zapLogger))
	router.Use(middleware.RequestIDMiddleware())
	router.Use(middleware.LoggerMiddleware(zapLogger))
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.SecurityHeadersMiddleware())

	// Register health check routes
	healthHandler := health.NewHandler(db, serviceName)
	healthHandler.RegisterRoutes(router)

	// Register API routes
	apiV1 := router.Group("/api/v1")
	handler.NewCatalogHandler(hotelService, roomService, statsService).RegisterRoutes(apiV1)
	handler.NewContactHandler(contactService).RegisterRoutes(apiV1)
	handler.NewBookingHandler(bookingService).RegisterRoutes(apiV1, jwtManager)
	handler.NewReviewHandler(reviewService).RegisterRoutes(apiV1, jwtManager)
	handler.NewCouponHandler(couponService, couponLimiter, zapLogger).RegisterRoutes(apiV1, jwtManager)
	handler.NewAdminHandler(handler.AdminDeps{
		Hotels:   hotelService,
		Rooms:    roomService,
		Bookings: bookingService,
		Reviews:  reviewService,
		Stats:    statsService,
	}).RegisterRoutes(apiV1, jwtManager)

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
		zapLogger.Info("HTTP server starting", zap.String("addr", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("shutting down " + serviceName + "...")

	// Cancel Kafka consumer and stop scheduled jobs
	consumerCancel()
	if scheduler != nil {
		if err := scheduler.Shutdown(); err != nil {
			zapLogger.Error("scheduler shutdown failed", zap.Error(err))
		}
	}

	// Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info(serviceName + " stopped")
}
