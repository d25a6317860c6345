package main

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/dkarpov/event-booking/internal/config"
	"github.com/dkarpov/event-booking/internal/database"
	"github.com/dkarpov/event-booking/internal/handler"
	"github.com/dkarpov/event-booking/internal/queue"
	"github.com/dkarpov/event-booking/internal/repository"
	"github.com/dkarpov/event-booking/internal/router"
	"github.com/dkarpov/event-booking/internal/service"
)

func main() {
	// .env is optional; real deployments inject the environment.
	_ = godotenv.Load()
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database connect failed: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.Migrate(ctx, db); err != nil {
		cancel()
		log.Fatalf("schema bootstrap failed: %v", err)
	}
	cancel()

	// Repositories and the booking service.
	eventRepo := repository.NewEventRepo(db)
	bookingRepo := repository.NewBookingRepo(db)
	userRepo := repository.NewUserRepo(db)
	tokenRepo := repository.NewTokenRepo(db)
	statsRepo := repository.NewStatsRepo(db)
	bookingSvc := service.NewBookingService(repository.NewSQLTxRunner(db), eventRepo, bookingRepo)

	// Handlers.
	authH := handler.NewAuthHandler(cfg, userRepo, tokenRepo)
	userH := handler.NewUserHandler(cfg, userRepo, tokenRepo)
	eventH := handler.NewEventHandler(eventRepo, statsRepo)
	bookingH := handler.NewBookingHandler(bookingSvc, bookingRepo, eventRepo)

	// Redis is optional; when absent the cache and limiter pass through.
	rdb := config.NewRedisClient()
	if rdb == nil {
		log.Printf("redis unavailable, cache and rate limiting disabled")
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())

	router.RegisterRoutes(e, eventH, config.LoadCacheConfig(), rdb)
	router.RegisterAuth(e, authH, userH, cfg.JWTSecret)
	router.RegisterBookings(e, bookingH, cfg.JWTSecret, config.LoadRateLimitConfig(), rdb)
	router.RegisterAdmin(e, eventH, cfg.JWTSecret)

	// Broker consumers run for the life of the process and reconnect on
	// their own.
	queue.SetBrokerURL(cfg.AMQPURL)
	go queue.StartConsumers()

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
