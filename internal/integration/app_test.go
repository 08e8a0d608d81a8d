package integration_test

import (
	"io"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/selimacar/cinema-reservation-engine/internal/app"
	"github.com/selimacar/cinema-reservation-engine/internal/event"
	"github.com/selimacar/cinema-reservation-engine/internal/mailer"
	"github.com/selimacar/cinema-reservation-engine/internal/payment"
	"github.com/selimacar/cinema-reservation-engine/internal/repository"
	"github.com/selimacar/cinema-reservation-engine/internal/sweeper"
	appvalidator "github.com/selimacar/cinema-reservation-engine/internal/validator"
)

// TestApp exposes the wired application plus the fakes behind it, so
// scenarios can drive failures and observe side effects.
type TestApp struct {
	App     *app.Application
	DB      *pgxpool.Pool
	Redis   *redis.Client
	Mailer  *mailer.MockMailer
	Payment *payment.MockPaymentProvider
	Events  *event.MockPublisher
	Sweeper *sweeper.Sweeper
}

func newTestApp(cfg app.Config) (*TestApp, error) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	validator := appvalidator.NewValidator()

	db, err := app.NewDatabasePool(cfg)
	if err != nil {
		return nil, err
	}

	redisClient, err := app.NewRedisClient(cfg)
	if err != nil {
		db.Close()
		return nil, err
	}

	sessionManager := app.NewSessionManager(redisClient)

	seatRepo := repository.NewPostgresSeatRepository(db)
	ticketTypeRepo := repository.NewPostgresTicketTypeRepository(db)
	holdRepo := repository.NewPostgresHoldRepository(db)
	bookingRepo := repository.NewPostgresBookingRepository(db)
	idempotencyStore := repository.NewIdempotencyStore(redisClient, 24*time.Hour)

	mockMailer := mailer.NewMockMailer()
	paymentProvider := payment.NewMockPaymentProvider()
	eventPublisher := event.NewMockPublisher()

	expirySweeper := sweeper.New(holdRepo, logger, sweeper.Config{
		Interval:  cfg.Sweeper.Interval,
		BatchSize: cfg.Sweeper.BatchSize,
	})

	application := app.NewApp(
		cfg,
		logger,
		validator,
		mockMailer,
		sessionManager,
		seatRepo,
		ticketTypeRepo,
		holdRepo,
		bookingRepo,
		idempotencyStore,
		paymentProvider,
		eventPublisher,
		expirySweeper,
	)

	return &TestApp{
		App:     application,
		DB:      db,
		Redis:   redisClient,
		Mailer:  mockMailer,
		Payment: paymentProvider,
		Events:  eventPublisher,
		Sweeper: expirySweeper,
	}, nil
}
