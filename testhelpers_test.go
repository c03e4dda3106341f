//go:build integration

package main_test

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	kafkamodule "github.com/testcontainers/testcontainers-go/modules/kafka"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/hotel-yunuen/service-reservation/internal/adapter"
	"github.com/hotel-yunuen/service-reservation/internal/application"
	reservationEvents "github.com/hotel-yunuen/service-reservation/internal/events"
	"github.com/hotel-yunuen/service-reservation/internal/platform/database"
	"github.com/hotel-yunuen/service-reservation/internal/platform/kafka"
	"github.com/hotel-yunuen/service-reservation/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB           *gorm.DB
	KafkaBrokers []string
	Cleanup      func()
}

// reservationStack holds wired-up reservation service components.
type reservationStack struct {
	Hotels          *application.HotelService
	Rooms           *application.RoomService
	Bookings        *application.BookingService
	Reviews         *application.ReviewService
	Stats           *application.StatisticsService
	Consumer        *reservationEvents.PaymentEventConsumer
	CleanupProducer func()
}

// catalog is a seeded hotel with one room type and two rooms.
type catalog struct {
	HotelID    uuid.UUID
	RoomTypeID uuid.UUID
	RoomIDs    []uuid.UUID
}

// setupContainers starts PostgreSQL and Kafka testcontainers, applies the
// migrations and returns a connected GORM DB.
func setupContainers(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()
	logger := zap.NewNop()

	pgReq := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "test_reservation",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}
	pgContainer, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: pgReq,
		Started:          true,
	})
	require.NoError(t, err, "failed to start PostgreSQL container")

	pgHost, err := pgContainer.Host(ctx)
	require.NoError(t, err)
	pgPort, err := pgContainer.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dbConfig := database.PostgresConfig{
		Host:     pgHost,
		Port:     pgPort.Port(),
		User:     "test",
		Password: "test",
		DBName:   "test_reservation",
		SSLMode:  "disable",
	}

	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = database.Connect(dbConfig, logger)
		return err == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, database.RunMigrations(dbConfig.DatabaseURL(), "migrations", logger))

	kafkaContainer, err := kafkamodule.Run(ctx, "confluentinc/confluent-local:7.5.0")
	require.NoError(t, err, "failed to start Kafka container")

	kafkaBrokers, err := kafkaContainer.Brokers(ctx)
	require.NoError(t, err, "failed to get Kafka brokers")

	createTopics(t, kafkaBrokers, "hotel.booking.events", reservationEvents.TopicPaymentEvents)

	cleanup := func() {
		if err := kafkaContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate Kafka container: %v", err)
		}
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{
		DB:           db,
		KafkaBrokers: kafkaBrokers,
		Cleanup:      cleanup,
	}
}

// setupReservationStack wires up the services over the real repositories.
func setupReservationStack(t *testing.T, db *gorm.DB, brokers []string) *reservationStack {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	clock := application.Clock(time.Now)

	hotelRepo := repository.NewHotelRepository(db)
	roomTypeRepo := repository.NewRoomTypeRepository(db)
	roomRepo := repository.NewRoomRepository(db)
	bookingRepo := repository.NewBookingRepository(db)
	reviewRepo := repository.NewReviewRepository(db)
	producer := kafka.NewProducer(brokers, logger)

	stats := application.NewStatisticsService(repository.NewStatisticsRepository(db), reviewRepo, bookingRepo, hotelRepo, nil, clock, logger)
	bookings := application.NewBookingService(application.BookingServiceDeps{
		Bookings:  bookingRepo,
		Rooms:     roomRepo,
		RoomTypes: roomTypeRepo,
		Hotels:    hotelRepo,
		Coupons:   repository.NewGormCouponRepository(db),
		Stats:     stats,
		Publisher: reservationEvents.NewBookingEventPublisher(producer),
		Gateway:   adapter.NewMockPaymentGateway(logger),
	}, 16, clock, logger)

	groupID := fmt.Sprintf("test-reservation-%s", uuid.New().String()[:8])
	consumer := reservationEvents.NewPaymentEventConsumer(brokers, groupID, bookings, logger)

	return &reservationStack{
		Hotels:          application.NewHotelService(hotelRepo, roomTypeRepo, reviewRepo, stats, clock, logger),
		Rooms:           application.NewRoomService(hotelRepo, roomTypeRepo, roomRepo, bookingRepo, clock, logger),
		Bookings:        bookings,
		Reviews:         application.NewReviewService(reviewRepo, bookingRepo, hotelRepo, stats, clock, logger),
		Stats:           stats,
		Consumer:        consumer,
		CleanupProducer: func() { _ = producer.Close() },
	}
}

// seedCatalog creates a hotel, a STANDARD room type priced at 1,200.00 per
// night and two rooms.
func seedCatalog(t *testing.T, stack *reservationStack) catalog {
	t.Helper()
	ctx := context.Background()

	h, err := stack.Hotels.CreateHotel(ctx, application.CreateHotelRequest{
		Name:       "Hotel Yunuen",
		Address:    "Av. Lazaro Cardenas 1",
		City:       "Patzcuaro",
		State:      "Michoacan",
		PostalCode: "61600",
		Phone:      "4343420000",
		Email:      "reservas@hotelyunuen.com",
	})
	require.NoError(t, err)

	rt, err := stack.Rooms.CreateRoomType(ctx, application.CreateRoomTypeRequest{
		HotelID:            h.ID,
		Name:               "Standard Lake View",
		Category:           "STANDARD",
		PricePerNightCents: 120_000,
		NumberOfBeds:       1,
		Capacity:           2,
		TotalRooms:         2,
		Description:        "Double room facing the lake",
		Amenities:          []string{"wifi", "tv"},
	})
	require.NoError(t, err)

	c := catalog{HotelID: h.ID, RoomTypeID: rt.ID}
	for _, number := range []string{"101", "102"} {
		r, err := stack.Rooms.CreateRoom(ctx, application.CreateRoomRequest{RoomTypeID: rt.ID, Number: number, Floor: 1})
		require.NoError(t, err)
		c.RoomIDs = append(c.RoomIDs, r.ID)
	}
	return c
}

// stayFromToday returns check-in/out dates offset from today.
func stayFromToday(inDays, nights int) (string, string) {
	in := time.Now().UTC().AddDate(0, 0, inDays)
	return in.Format("2006-01-02"), in.AddDate(0, 0, nights).Format("2006-01-02")
}

// publishTestEvent publishes a CloudEvent to Kafka.
func publishTestEvent(t *testing.T, brokers []string, topic, source, eventType, key string, data interface{}) {
	t.Helper()
	logger, _ := zap.NewDevelopment()
	producer := kafka.NewProducer(brokers, logger)
	defer func() { _ = producer.Close() }()

	ce, err := kafka.NewCloudEvent(source, eventType, data)
	require.NoError(t, err, "failed to create cloud event")

	err = producer.PublishEvent(context.Background(), topic, key, ce)
	require.NoError(t, err, "failed to publish event")
}

// waitForBookingStatus polls the bookings table until the status matches.
func waitForBookingStatus(t *testing.T, db *gorm.DB, bookingID uuid.UUID, expectedStatus string, timeout time.Duration) repository.BookingModel {
	t.Helper()
	var result repository.BookingModel
	require.Eventually(t, func() bool {
		var model repository.BookingModel
		if err := db.Where("id = ?", bookingID).First(&model).Error; err != nil {
			return false
		}
		if model.Status == expectedStatus {
			result = model
			return true
		}
		return false
	}, timeout, 200*time.Millisecond, "booking did not transition to %s", expectedStatus)
	return result
}

// consumeOneEvent reads from a Kafka topic until it finds an event of the
// expected type whose key matches.
func consumeOneEvent(t *testing.T, brokers []string, topic, expectedType, key string, timeout time.Duration) kafka.CloudEvent {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	groupID := fmt.Sprintf("test-assert-%s", uuid.New().String()[:8])
	reader := kafkago.NewReader(kafkago.ReaderConfig{
		Brokers:     brokers,
		GroupID:     groupID,
		Topic:       topic,
		MinBytes:    1,
		MaxBytes:    10e6,
		StartOffset: kafkago.FirstOffset,
	})
	defer func() { _ = reader.Close() }()

	for {
		msg, err := reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				t.Fatalf("timed out waiting for event type %q on topic %q", expectedType, topic)
			}
			continue
		}
		if string(msg.Key) != key {
			continue
		}
		ce, err := kafka.ParseCloudEvent(msg.Value)
		if err != nil {
			continue
		}
		if ce.Type == expectedType {
			return ce
		}
	}
}

// createTopics pre-creates Kafka topics so producers don't fail with "Unknown Topic".
func createTopics(t *testing.T, brokers []string, topics ...string) {
	t.Helper()
	conn, err := kafkago.Dial("tcp", brokers[0])
	require.NoError(t, err, "failed to dial Kafka for topic creation")
	defer conn.Close()

	controller, err := conn.Controller()
	require.NoError(t, err, "failed to get Kafka controller")

	controllerConn, err := kafkago.Dial("tcp", net.JoinHostPort(controller.Host, fmt.Sprintf("%d", controller.Port)))
	require.NoError(t, err, "failed to connect to Kafka controller")
	defer controllerConn.Close()

	topicConfigs := make([]kafkago.TopicConfig, len(topics))
	for i, topic := range topics {
		topicConfigs[i] = kafkago.TopicConfig{
			Topic:             topic,
			NumPartitions:     1,
			ReplicationFactor: 1,
		}
	}
	err = controllerConn.CreateTopics(topicConfigs...)
	require.NoError(t, err, "failed to create Kafka topics")

	time.Sleep(1 * time.Second)
}
