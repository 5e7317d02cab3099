//go:build integration

package main_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"go.uber.org/zap"
	gormpg "gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/openstay/service-booking/internal/application"
	bookingDomain "github.com/openstay/service-booking/internal/domain/booking"
	propertyDomain "github.com/openstay/service-booking/internal/domain/property"
	"github.com/openstay/service-booking/internal/events"
	"github.com/openstay/service-booking/internal/repository"
)

// testInfra holds shared test infrastructure.
type testInfra struct {
	DB      *gorm.DB
	Cleanup func()
}

// testStack holds the wired-up service components under test.
type testStack struct {
	Bookings   *application.BookingService
	Payments   *application.PaymentService
	Reviews    *application.ReviewService
	Properties *application.PropertyService

	BookingRepo  *repository.GormBookingRepository
	PropertyRepo *repository.GormPropertyRepository
}

// setupPostgres starts a PostgreSQL testcontainer and returns a connected GORM DB.
func setupPostgres(t *testing.T) *testInfra {
	t.Helper()
	ctx := context.Background()

	container, err := pgmodule.Run(ctx, "postgres:16-alpine",
		pgmodule.WithDatabase("test_booking"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	require.NoError(t, err, "failed to start PostgreSQL container")

	dsn, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	// Poll until GORM can actually connect and ping.
	var db *gorm.DB
	require.Eventually(t, func() bool {
		var err error
		db, err = gorm.Open(gormpg.Open(dsn), &gorm.Config{TranslateError: true})
		if err != nil {
			return false
		}
		sqlDB, err := db.DB()
		if err != nil {
			return false
		}
		return sqlDB.Ping() == nil
	}, 30*time.Second, 1*time.Second, "PostgreSQL not ready for connections")

	require.NoError(t, db.AutoMigrate(
		&repository.UserModel{},
		&repository.PropertyModel{},
		&repository.PropertyImageModel{},
		&repository.BookingModel{},
		&repository.PaymentModel{},
		&repository.ReviewModel{},
	))

	cleanup := func() {
		if err := container.Terminate(ctx); err != nil {
			t.Logf("failed to terminate PostgreSQL container: %v", err)
		}
	}

	return &testInfra{DB: db, Cleanup: cleanup}
}

// setupStack wires up the full service stack against the given DB.
func setupStack(t *testing.T, db *gorm.DB) *testStack {
	t.Helper()
	logger := zap.NewNop()

	bookingRepo := repository.NewGormBookingRepository(db)
	propertyRepo := repository.NewGormPropertyRepository(db)
	imageRepo := repository.NewGormImageRepository(db)
	paymentRepo := repository.NewGormPaymentRepository(db)
	reviewRepo := repository.NewGormReviewRepository(db)
	txManager := repository.NewGormTxManager(db)
	pricing := bookingDomain.NewNightlyRateStrategy()
	publisher := events.NopPublisher{}

	return &testStack{
		Bookings:     application.NewBookingService(bookingRepo, propertyRepo, pricing, txManager, publisher, logger),
		Payments:     application.NewPaymentService(paymentRepo, bookingRepo, txManager, publisher, logger),
		Reviews:      application.NewReviewService(reviewRepo, bookingRepo, publisher, logger),
		Properties:   application.NewPropertyService(propertyRepo, imageRepo, logger),
		BookingRepo:  bookingRepo,
		PropertyRepo: propertyRepo,
	}
}

// seedUser inserts a bare account row and returns its ID.
func seedUser(t *testing.T, db *gorm.DB, email string, isHost bool) uuid.UUID {
	t.Helper()
	now := time.Now().UTC()
	model := repository.UserModel{
		ID:           uuid.New(),
		Email:        email,
		PasswordHash: "x",
		FirstName:    "Test",
		LastName:     "User",
		IsHost:       isHost,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	require.NoError(t, db.Create(&model).Error, "failed to seed user")
	return model.ID
}

// seedProperty inserts a listing owned by hostID and returns it.
func seedProperty(t *testing.T, stack *testStack, hostID uuid.UUID, nightlyCents int64) *propertyDomain.Property {
	t.Helper()
	prop, err := propertyDomain.NewProperty(
		hostID,
		"Test cottage", "", "1 Test Way", "Testville", "", "UK", "",
		nightlyCents,
		4, 2, 1,
		"house", nil,
	)
	require.NoError(t, err)
	require.NoError(t, stack.PropertyRepo.Save(context.Background(), prop))
	return prop
}
