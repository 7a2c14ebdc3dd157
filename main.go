package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"salle-backend/config"
	"salle-backend/controllers"
	"salle-backend/metrics"
	"salle-backend/notify"
	"salle-backend/routes"
	"salle-backend/services"
	"salle-backend/utils"
)

func newLogger() zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(utils.EnvOrDefault("LOG_LEVEL", "info"))); err == nil {
		level = parsed
	}

	var out = zerolog.New(os.Stdout)
	if utils.EnvOrDefault("LOG_FORMAT", "json") == "console" {
		out = zerolog.New(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	}
	return out.Level(level).With().Timestamp().Str("app", "salle-backend").Logger()
}

func main() {
	// Load .env (optional)
	_ = godotenv.Load()

	log := newLogger()
	metrics.Register()

	db, err := config.Connect()
	if err != nil {
		log.Fatal().Err(err).Msg("database connect failed")
	}
	log.Info().Msg("database connection established, migrations applied")

	// Notification pipeline: SMTP sender behind a queue + retry worker.
	sender := notify.NewSMTPSender(log)
	worker := notify.NewWorker(sender, notify.DefaultRetryPolicy(), log, 128)
	worker.Start()

	// Services
	roomService := services.NewRoomService(db)
	availabilityService := services.NewAvailabilityService(db)
	reservationService := services.NewReservationService(db, worker, log)
	adService := services.NewAdService(db)

	// Controllers
	roomController := controllers.NewRoomController(roomService)
	reservationController := controllers.NewReservationController(reservationService, availabilityService)
	adController := controllers.NewAdController(adService)
	authController := controllers.NewAuthController(db)

	router := routes.SetupRouter(db, log, roomController, reservationController, adController, authController)

	addr := ":" + utils.EnvOrDefault("PORT", "8080")
	srv := &http.Server{
		Addr:              addr,
		Handler:           router,
		ReadTimeout:       10 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      20 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen and serve")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutdown signal received")

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server forced to shutdown")
	}
	if err := worker.Shutdown(ctx); err != nil {
		log.Warn().Err(err).Msg("notification worker did not drain in time")
	}

	log.Info().Msg("server stopped gracefully")
}
