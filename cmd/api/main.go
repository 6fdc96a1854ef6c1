package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/jwalitptl/portal-api/config"
	"github.com/jwalitptl/portal-api/internal/email"
	authHandler "github.com/jwalitptl/portal-api/internal/handler/auth"
	availabilityHandler "github.com/jwalitptl/portal-api/internal/handler/availability"
	bookingHandler "github.com/jwalitptl/portal-api/internal/handler/booking"
	doctorHandler "github.com/jwalitptl/portal-api/internal/handler/doctor"
	healthHandler "github.com/jwalitptl/portal-api/internal/handler/health"
	paymentHandler "github.com/jwalitptl/portal-api/internal/handler/payment"
	userHandler "github.com/jwalitptl/portal-api/internal/handler/user"
	"github.com/jwalitptl/portal-api/internal/middleware"
	"github.com/jwalitptl/portal-api/internal/repository/postgres"
	"github.com/jwalitptl/portal-api/internal/router"
	availabilityService "github.com/jwalitptl/portal-api/internal/service/availability"
	authService "github.com/jwalitptl/portal-api/internal/service/auth"
	bookingService "github.com/jwalitptl/portal-api/internal/service/booking"
	doctorService "github.com/jwalitptl/portal-api/internal/service/doctor"
	paymentService "github.com/jwalitptl/portal-api/internal/service/payment"
	userService "github.com/jwalitptl/portal-api/internal/service/user"
	"github.com/jwalitptl/portal-api/pkg/auth"
	"github.com/jwalitptl/portal-api/pkg/logger"
	"github.com/jwalitptl/portal-api/pkg/messaging/redis"
	"github.com/jwalitptl/portal-api/pkg/payment"
	"github.com/jwalitptl/portal-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	level, err := zerolog.ParseLevel(cfg.Log.Level)
	if err != nil || cfg.Log.Level == "" {
		level = zerolog.InfoLevel
	}
	log := logger.New(&logger.Config{
		Level:      level,
		TimeFormat: time.RFC3339,
		Pretty:     cfg.Log.Pretty,
	})

	if err := middleware.RegisterValidators(); err != nil {
		log.Fatal().Err(err).Msg("failed to register validators")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	// Repositories
	serviceRepo := postgres.NewServiceRepository(db)
	bookingRepo := postgres.NewBookingRepository(db)
	userRepo := postgres.NewUserRepository(db)
	doctorRepo := postgres.NewDoctorRepository(db)
	paymentRepo := postgres.NewPaymentRepository(db)
	outboxRepo := postgres.NewOutboxRepository(db)

	// Collaborators
	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryMinutes)*time.Minute)
	gateway := payment.NewStripeClient(cfg.Stripe.ToClientConfig())

	var emailSvc email.Service
	if cfg.SMTP.Host != "" {
		emailSvc = email.NewSMTPService(cfg.SMTP.ToEmailConfig())
	}

	// Services
	availabilitySvc := availabilityService.NewService(serviceRepo, bookingRepo)
	bookingSvc := bookingService.NewService(bookingRepo, emailSvc, log)
	authSvc := authService.NewService(userRepo, jwtSvc)
	userSvc := userService.NewService(userRepo)
	doctorSvc := doctorService.NewService(doctorRepo)
	paymentSvc := paymentService.NewService(paymentRepo, gateway, cfg.Stripe.Currency)

	authMiddleware := middleware.NewAuthMiddleware(authSvc)

	r := router.NewRouter(
		authMiddleware,
		availabilityHandler.NewHandler(availabilitySvc),
		bookingHandler.NewHandler(bookingSvc),
		userHandler.NewHandler(userSvc),
		doctorHandler.NewHandler(doctorSvc),
		authHandler.NewHandler(authSvc),
		paymentHandler.NewHandler(paymentSvc),
		healthHandler.NewHandler(db),
		log,
		router.Config{
			RateLimit:     rate.Limit(cfg.RateLimit.RequestsPerSecond),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    middleware.DefaultCORSConfig(),
			MetricsPrefix: "portal_api",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	// Outbox events are published to Redis in the background; the API still
	// serves if the broker is down, events just wait in the table.
	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), &log)
	if err != nil {
		log.Error().Err(err).Msg("redis unavailable, outbox processing disabled")
	} else {
		defer broker.Close()
		processor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), log)
		go processor.Start(processorCtx)
	}

	go func() {
		log.Info().Int("port", cfg.Server.Port).Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
