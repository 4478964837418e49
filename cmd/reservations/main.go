package main

import (
	"roomly/internal/reservations/handler"
	"roomly/internal/reservations/repository"
	"roomly/internal/reservations/service"
	"roomly/internal/reservations/validator"
	"roomly/pkg/app"
	"roomly/pkg/auth"
	"roomly/pkg/client"
	"roomly/pkg/config"
	"roomly/pkg/events"
	"roomly/pkg/middleware"
)

const ServiceName = "reservations"

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetMongo()
	defer cfg.GracefulShutdown()

	cfg.Log.Info("Starting Reservations service")

	producer := events.NewProducer(cfg)
	defer func() {
		if err := producer.Close(); err != nil {
			cfg.Log.Error("Failed to close event producer", "error", err)
		}
	}()

	reservationService := initServices(cfg, producer)
	issuer := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)

	serverApp := app.NewApplication()
	serverApp.SetApp(cfg,
		handler.NewReservationHandler(reservationService, cfg.Log),
		middleware.Authentication(issuer, cfg.Log),
	)
	serverApp.Run()
}

func initServices(cfg *config.Config, producer *events.Producer) service.ReservationService {
	reservationValidator := validator.NewReservationValidator(cfg.BookingHorizonDays, cfg.Log)
	bookingRepo := repository.NewMongoBookingRepository(cfg)
	availabilityRepo := repository.NewMongoAvailabilityRepository(cfg)
	lockRepo := repository.NewMongoResourceLockRepository(cfg)
	idempotencyRepo := repository.NewMongoIdempotencyRepository(cfg)
	roomCatalog := client.NewRoomClient(cfg.RoomsServiceURL)

	reservationService := service.NewReservationService(
		bookingRepo,
		availabilityRepo,
		lockRepo,
		idempotencyRepo,
		reservationValidator,
		roomCatalog,
		producer,
		cfg,
	)

	cfg.Log.Info("Reservation service initialized", "database", cfg.MongoDatabaseName)
	return reservationService
}
