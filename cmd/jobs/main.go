// Command jobs runs one maintenance job against the reservation database and
// exits.
//
//	jobs expire-bookings [--days N]
//	jobs update-room-availability
//	jobs refresh-statistics [--hotel-id ID]
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/hotel-yunuen/service-reservation/internal/application"
	"github.com/hotel-yunuen/service-reservation/internal/config"
	"github.com/hotel-yunuen/service-reservation/internal/jobs"
	"github.com/hotel-yunuen/service-reservation/internal/platform/database"
	"github.com/hotel-yunuen/service-reservation/internal/platform/logger"
	"github.com/hotel-yunuen/service-reservation/internal/repository"
)

const usage = `usage: jobs <command> [flags]

commands:
  expire-bookings           cancel PENDING bookings older than --days
  update-room-availability  align room status with today's bookings
  refresh-statistics        recompute hotel statistics (all, or --hotel-id)
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}
	command := os.Args[1]

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	flags := pflag.NewFlagSet(command, pflag.ExitOnError)
	days := flags.Int("days", cfg.BookingConfig.PendingExpiryDays, "age in days after which a PENDING booking expires (0 expires all)")
	hotelIDFlag := flags.String("hotel-id", "", "refresh a single hotel")
	timeout := flags.Duration("timeout", 10*time.Minute, "maximum run time")
	if err := flags.Parse(os.Args[2:]); err != nil {
		log.Fatalf("parse flags: %v", err)
	}

	zapLogger, err := logger.NewNamed(cfg.AppEnv, "reservation-jobs")
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()

	db, err := database.Connect(cfg.DBConfig, zapLogger)
	if err != nil {
		zapLogger.Fatal("failed to connect to database", zap.Error(err))
	}

	hotelRepo := repository.NewHotelRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	statsRepo := repository.NewStatisticsRepository(db)

	clock := application.Clock(time.Now)
	statsService := application.NewStatisticsService(statsRepo, reviewRepo, bookingRepo, hotelRepo, nil, clock, zapLogger)
	roomService := application.NewRoomService(hotelRepo, roomTypeRepo, roomRepo, bookingRepo, clock, zapLogger)
	bookingService := application.NewBookingService(application.BookingServiceDeps{
		Bookings:  bookingRepo,
		Rooms:     roomRepo,
		RoomTypes: roomTypeRepo,
		Hotels:    hotelRepo,
		Coupons:   repository.NewGormCouponRepository(db),
		Stats:     statsService,
	}, cfg.BookingConfig.TaxRatePercent, clock, zapLogger)

	runner := jobs.NewRunner(bookingService, roomService, statsService, cfg.BookingConfig.PendingExpiryDays, zapLogger)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	var affected int
	switch command {
	case jobs.JobExpireBookings:
		if flags.Changed("days") {
			affected, err = runner.ExpireBookings(ctx, *days)
		} else {
			affected, err = runner.ExpireStaleBookings(ctx)
		}
	case jobs.JobUpdateRoomAvailability:
		affected, err = runner.UpdateRoomAvailability(ctx)
	case jobs.JobRefreshStatistics:
		var hotelID *uuid.UUID
		if *hotelIDFlag != "" {
			id, perr := uuid.Parse(*hotelIDFlag)
			if perr != nil {
				zapLogger.Fatal("invalid --hotel-id", zap.String("hotel_id", *hotelIDFlag), zap.Error(perr))
			}
			hotelID = &id
		}
		affected, err = runner.RefreshStatistics(ctx, hotelID)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s", command, usage)
		os.Exit(2)
	}
	if err != nil {
		zapLogger.Fatal("job failed", zap.String("job", command), zap.Error(err))
	}

	zapLogger.Info("job finished", zap.String("job", command), zap.Int("affected", affected))
}
