package main

import (
	"log"

	"github.com/communityarts/raffle-service/config"
	"github.com/communityarts/raffle-service/internal/consumer"
	"github.com/communityarts/raffle-service/internal/handler"
	"github.com/communityarts/raffle-service/internal/middleware"
	"github.com/communityarts/raffle-service/internal/repository"
	"github.com/communityarts/raffle-service/internal/service"
	"github.com/communityarts/raffle-service/internal/sessioncache"
	"github.com/communityarts/raffle-service/pkg/database"
	"github.com/communityarts/raffle-service/pkg/payments"
	"github.com/communityarts/raffle-service/pkg/rabbitmq"
	"github.com/labstack/echo/v4"
	echoMw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg := config.Load()

	db := database.NewPostgresDB(cfg.DSN())

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer publisher.Close()

	mqConsumer, err := rabbitmq.NewConsumer(cfg.RabbitURL)
	if err != nil {
		log.Fatalf("failed to connect to RabbitMQ: %v", err)
	}
	defer mqConsumer.Close()

	// Session cache is best-effort: the service falls back to Postgres
	// when Redis is unavailable
	var cache *sessioncache.Cache
	redisClient, err := sessioncache.NewRedisClient(cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
	if err != nil {
		log.Printf("redis unavailable, running without session cache: %v", err)
	} else {
		cache = sessioncache.New(redisClient)
		defer cache.Close()
	}

	provider, err := payments.NewProvider(cfg)
	if err != nil {
		log.Fatalf("failed to configure payment provider: %v", err)
	}

	// Repositories
	eventRepo := repository.NewEventRepository(db)
	rsvpRepo := repository.NewRSVPRepository(db)
	raffleRepo := repository.NewRaffleRepository(db)
	artistRepo := repository.NewArtistRepository(db)
	ticketRepo := repository.NewTicketRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	sessionRepo := repository.NewPaymentSessionRepository(db)

	// Services
	eventSvc := service.NewEventService(eventRepo, rsvpRepo)
	raffleSvc := service.NewRaffleService(raffleRepo, ticketRepo, artistRepo, participantRepo, publisher)
	checkoutSvc := service.NewCheckoutService(
		sessionRepo, ticketRepo, participantRepo, provider, cache,
		cfg.TicketPrice, cfg.MaxTicketsPerOrder, cfg.SessionTTL,
	)

	// RabbitMQ consumer: payment gateway confirmations drive ticket issuance
	msgs, err := mqConsumer.Consume()
	if err != nil {
		log.Fatalf("failed to start consuming: %v", err)
	}
	consumer.NewPaymentConsumer(checkoutSvc).Start(msgs)

	// Echo
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Use(echoMw.RequestLoggerWithConfig(echoMw.RequestLoggerConfig{
		LogStatus: true,
		LogURI:    true,
		LogMethod: true,
		LogValuesFunc: func(c echo.Context, v echoMw.RequestLoggerValues) error {
			log.Printf("%s %s %d", v.Method, v.URI, v.Status)
			return nil
		},
	}))
	e.Use(echoMw.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(200, map[string]string{"status": "ok", "service": "raffle-service"})
	})

	admin := middleware.AdminAuth(cfg.AdminToken)
	handler.NewEventHandler(eventSvc).RegisterRoutes(e, admin)
	handler.NewRaffleHandler(raffleSvc).RegisterRoutes(e, admin)
	handler.NewArtistHandler(artistRepo).RegisterRoutes(e, admin)
	handler.NewCheckoutHandler(checkoutSvc).RegisterRoutes(e)
	handler.NewTicketHandler(ticketRepo).RegisterRoutes(e)

	log.Printf("Raffle Service starting on :%s", cfg.ServerPort)
	e.Logger.Fatal(e.Start(":" + cfg.ServerPort))
}
