package main // Entry point package

import (
	"log" // Logging library

	"github.com/joho/godotenv"    // .env loading for local development
	"github.com/labstack/echo/v4" // Echo web framework

	"github.com/iliyamo/event-room-reservation/internal/config"
	"github.com/iliyamo/event-room-reservation/internal/database"
	"github.com/iliyamo/event-room-reservation/internal/handler"
	"github.com/iliyamo/event-room-reservation/internal/middleware"
	"github.com/iliyamo/event-room-reservation/internal/queue"
	"github.com/iliyamo/event-room-reservation/internal/repository"
	"github.com/iliyamo/event-room-reservation/internal/router"
	"github.com/iliyamo/event-room-reservation/internal/service"
)

func main() {
	// .env is optional; real deployments set the environment directly.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}

	// Redis is optional: a nil client disables caching and rate limiting.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Println("redis unavailable; cache and rate limiting disabled")
	}

	rooms := repository.NewRoomRepo(db)
	bookings := repository.NewBookingRepo(db)
	enrollments := repository.NewEnrollmentRepo(db)
	ticketTypes := repository.NewTicketTypeRepo(db)
	hotels := repository.NewHotelRepo(db)
	users := repository.NewUserRepo(db)
	tokens := repository.NewTokenRepo(db)

	reservations := service.NewReservationService(rooms, bookings, enrollments, ticketTypes)

	authHandler := handler.NewAuthHandler(cfg, users, tokens)
	bookingHandler := handler.NewBookingHandler(reservations, rooms)
	hotelHandler := handler.NewHotelHandler(hotels, rooms)

	e := echo.New()
	e.Use(middleware.NewTokenBucket(config.LoadRateLimitConfig(), rdb))

	router.RegisterRoutes(e)
	router.RegisterAuth(e, authHandler, cfg.JWTSecret)
	router.RegisterPublic(e, hotelHandler, middleware.NewRedisCache(config.LoadCacheConfig(), rdb))
	router.RegisterBooking(e, bookingHandler, cfg.JWTSecret)

	// Background consumer records booking events to logs/booking.log.
	go func() {
		if err := queue.StartBookingConsumer(); err != nil {
			log.Printf("booking-consumer stopped: %v", err)
		}
	}()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
