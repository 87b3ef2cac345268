package main

import (
	"hotelbooking/internal/auth"
	authrepository "hotelbooking/internal/auth/repository"
	"hotelbooking/internal/bookings/events"
	"hotelbooking/internal/bookings/handler"
	"hotelbooking/internal/bookings/repository"
	"hotelbooking/internal/bookings/service"
	"hotelbooking/internal/bookings/validator"
	ticketsrepository "hotelbooking/internal/tickets/repository"
	ticketsservice "hotelbooking/internal/tickets/service"
	"hotelbooking/pkg/app"
	"hotelbooking/pkg/config"
	"hotelbooking/pkg/kafka"
	kafkamiddleware "hotelbooking/pkg/kafka/middleware"
)

const ServiceName = "bookings"

type repositories struct {
	bookings    repository.BookingRepository
	rooms       repository.RoomRepository
	locks       repository.RoomLockRepository
	enrollments ticketsrepository.EnrollmentRepository
	tickets     ticketsrepository.TicketRepository
	sessions    authrepository.SessionRepository
}

func main() {
	cfg := config.Load(ServiceName)
	cfg.SetStore()

	cfg.Log.Info("Starting Bookings service")
	serverApp := app.NewApplication(cfg)

	repos := initRepositories(cfg)
	publisher := initPublisher(cfg, serverApp)
	bookingService := initServices(cfg, repos, publisher)

	authMiddleware := auth.NewMiddleware(auth.NewTokenVerifier(cfg.JWTSecret), repos.sessions, cfg.Log)
	bookingHandler := handler.NewBookingHandler(bookingService, validator.NewBookingValidator(cfg.Log), cfg.Log)

	serverApp.SetApp(bookingHandler, authMiddleware.Authenticate)
	serverApp.Run()
}

func initRepositories(cfg *config.Config) repositories {
	if cfg.StorageDriver == config.StoragePostgres {
		cfg.Log.Info("Using PostgreSQL repositories")
		return repositories{
			bookings:    repository.NewPostgresBookingRepository(cfg),
			rooms:       repository.NewPostgresRoomRepository(cfg),
			locks:       repository.NewPostgresRoomLockRepository(cfg),
			enrollments: ticketsrepository.NewPostgresEnrollmentRepository(cfg),
			tickets:     ticketsrepository.NewPostgresTicketRepository(cfg),
			sessions:    authrepository.NewPostgresSessionRepository(cfg),
		}
	}

	cfg.Log.Info("Using MongoDB repositories", "database", cfg.MongoDatabaseName)
	return repositories{
		bookings:    repository.NewMongoBookingRepository(cfg),
		rooms:       repository.NewMongoRoomRepository(cfg),
		locks:       repository.NewMongoRoomLockRepository(cfg),
		enrollments: ticketsrepository.NewMongoEnrollmentRepository(cfg),
		tickets:     ticketsrepository.NewMongoTicketRepository(cfg),
		sessions:    authrepository.NewMongoSessionRepository(cfg),
	}
}

func initPublisher(cfg *config.Config, serverApp *app.Application) events.Publisher {
	if !cfg.KafkaEnabled {
		cfg.Log.Info("Kafka disabled, booking events will not be published")
		return events.NewNoopPublisher()
	}

	producer, err := kafka.NewProducer(cfg.Kafka, cfg.Log, cfg.BookingEventsTopic, cfg.BookingEventsDLQTopic)
	if err != nil {
		cfg.Log.Fatal("Failed to create Kafka producer", "error", err)
	}
	producer.Use(kafkamiddleware.LoggingProducerMiddleware(cfg.Log))
	serverApp.OnShutdown("kafka-producer", producer.Close)

	cfg.Log.Info("Booking events enabled", "topic", cfg.BookingEventsTopic)
	return events.NewKafkaPublisher(producer, ServiceName)
}

func initServices(cfg *config.Config, repos repositories, publisher events.Publisher) service.BookingService {
	ticketService := ticketsservice.NewTicketService(repos.enrollments, repos.tickets, cfg.Log)

	bookingService := service.NewBookingService(
		repos.bookings,
		repos.rooms,
		repos.locks,
		ticketService,
		repos.tickets,
		publisher,
		cfg,
	)

	cfg.Log.Info("Booking service initialized", "storage_driver", cfg.StorageDriver)
	return bookingService
}
