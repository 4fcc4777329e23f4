package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/medhq/hospital-api/internal/config"
	"github.com/medhq/hospital-api/internal/email"
	"github.com/medhq/hospital-api/internal/handler"
	appointmentHandler "github.com/medhq/hospital-api/internal/handler/appointment"
	authHandler "github.com/medhq/hospital-api/internal/handler/auth"
	billingHandler "github.com/medhq/hospital-api/internal/handler/billing"
	dashboardHandler "github.com/medhq/hospital-api/internal/handler/dashboard"
	doctorHandler "github.com/medhq/hospital-api/internal/handler/doctor"
	medicalrecordHandler "github.com/medhq/hospital-api/internal/handler/medicalrecord"
	patientHandler "github.com/medhq/hospital-api/internal/handler/patient"
	settingsHandler "github.com/medhq/hospital-api/internal/handler/settings"
	"github.com/medhq/hospital-api/internal/middleware"
	"github.com/medhq/hospital-api/internal/router"
	appointmentService "github.com/medhq/hospital-api/internal/service/appointment"
	billingService "github.com/medhq/hospital-api/internal/service/billing"
	dashboardService "github.com/medhq/hospital-api/internal/service/dashboard"
	doctorService "github.com/medhq/hospital-api/internal/service/doctor"
	identityService "github.com/medhq/hospital-api/internal/service/identity"
	medicalrecordService "github.com/medhq/hospital-api/internal/service/medicalrecord"
	patientService "github.com/medhq/hospital-api/internal/service/patient"
	"github.com/medhq/hospital-api/internal/session"
	"github.com/medhq/hospital-api/internal/storage"
	"github.com/medhq/hospital-api/internal/store/postgres"
	"github.com/medhq/hospital-api/pkg/auth"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	gateway := postgres.NewGateway(db)

	sessions, err := session.NewStore(cfg.Redis.URL)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}

	jwtSvc := auth.NewJWTService(cfg.JWT.Secret, time.Duration(cfg.JWT.ExpiryHours)*time.Hour)
	emailSvc := email.NewService(cfg.SMTP)
	blobs := storage.NewHTTPStore(cfg.Storage.URL, cfg.Storage.APIKey)

	// Services
	sessionTTL := time.Duration(cfg.JWT.ExpiryHours) * time.Hour
	identitySvc := identityService.NewService(gateway, jwtSvc, sessions, emailSvc, sessionTTL)
	patientSvc := patientService.NewService(gateway)
	appointmentSvc := appointmentService.NewService(gateway)
	doctorSvc := doctorService.NewService(gateway, identitySvc, emailSvc)
	recordSvc := medicalrecordService.NewService(gateway, blobs)
	billingSvc := billingService.NewService(gateway)
	dashboardSvc := dashboardService.NewService(gateway)

	// Middleware and handlers
	authMiddleware := middleware.NewAuthMiddleware(identitySvc)
	h := handler.NewHandler()

	r := router.NewRouter(
		authMiddleware,
		authHandler.NewHandler(identitySvc),
		dashboardHandler.NewHandler(dashboardSvc),
		patientHandler.NewHandler(patientSvc),
		appointmentHandler.NewHandler(appointmentSvc, patientSvc),
		doctorHandler.NewHandler(doctorSvc),
		medicalrecordHandler.NewHandler(recordSvc, patientSvc, doctorSvc),
		billingHandler.NewHandler(billingSvc, patientSvc),
		settingsHandler.NewHandler(identitySvc),
		h,
		router.Config{
			RateLimitRPS:   float64(cfg.Server.RateLimitRPS),
			RateLimitBurst: cfg.Server.RateLimitBurst,
			CORSConfig:     middleware.DefaultCORSConfig(),
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      r.Engine(),
		ReadTimeout:  time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.TimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited properly")
}
