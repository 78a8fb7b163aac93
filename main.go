package main

import (
	"cashier/config"
	"cashier/database"
	"cashier/events"
	"cashier/logger"
	"cashier/middlewares"
	"cashier/routes"
	"cashier/services"
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg := config.Load()
	logger.Init(cfg.AppEnv)

	db := database.Connect(cfg)

	var publisher events.Publisher = events.NopPublisher{}
	if len(cfg.KafkaBrokers) > 0 {
		publisher = events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaTopic)
	}
	defer publisher.Close()

	svc := services.New(db, services.Options{
		Publisher:        publisher,
		PhoneCountryCode: cfg.PhoneCountryCode,
	})

	app := fiber.New()
	app.Use(recover.New())
	app.Use(middlewares.RequestLogger())
	routes.Setup(app, svc, cfg)

	addr := cfg.Addr()
	log.Info().Str("addr", addr).Msg("Server running")

	go func() {
		if err := app.Listen(addr); err != nil {
			log.Panic().Err(err).Msg("Failed to start server")
		}
	}()

	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)
	<-c

	log.Info().Msg("Gracefully shutting down...")
	if err := app.Shutdown(); err != nil {
		log.Fatal().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exited cleanly")
}
