package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	_ "github.com/lib/pq"

	"github.com/rackline/pool-league-system/config"
	"github.com/rackline/pool-league-system/db"
	"github.com/rackline/pool-league-system/handlers"
	"github.com/rackline/pool-league-system/league"
	"github.com/rackline/pool-league-system/middleware"
	"github.com/rackline/pool-league-system/repositories"
	"github.com/rackline/pool-league-system/routes"
	"github.com/rackline/pool-league-system/services"
	"github.com/rackline/pool-league-system/storage"
)

func main() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	cfg, err := config.Load()
	if err != nil {
		logger.Error("failed to load configuration", slog.Any("error", err))
		os.Exit(1)
	}
	logger.Info("configuration loaded", slog.Int("port", cfg.ServerPort))

	dbConn, err := db.Connect(cfg.DatabaseURL, 5*time.Second)
	if err != nil {
		logger.Error("failed to connect to database", slog.Any("error", err))
		os.Exit(1)
	}
	defer func() {
		if err := dbConn.Close(); err != nil {
			logger.Error("failed to close database connection", slog.Any("error", err))
		} else {
			logger.Info("database connection closed")
		}
	}()
	logger.Info("database connection established")

	var uploader storage.FileUploader
	if cfg.StorageConfigured() {
		uploader, err = storage.NewS3Uploader(storage.S3UploaderConfig{
			Endpoint:        cfg.StorageEndpoint,
			Region:          cfg.StorageRegion,
			AccessKeyID:     cfg.StorageAccessKeyID,
			SecretAccessKey: cfg.StorageSecretAccessKey,
			BucketName:      cfg.StorageBucketName,
			PublicBaseURL:   cfg.StoragePublicBaseURL,
		})
		if err != nil {
			logger.Error("failed to initialize object storage", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("object storage initialized", slog.String("bucket", cfg.StorageBucketName))
	} else {
		logger.Warn("object storage not configured, backups stay local")
	}

	hub := league.NewHub()
	go hub.Run()
	logger.Info("websocket hub started")

	userRepo := repositories.NewPostgresUserRepository(dbConn)
	teamRepo := repositories.NewPostgresTeamRepository(dbConn)
	seasonRepo := repositories.NewPostgresSeasonRepository(dbConn)
	venueRepo := repositories.NewPostgresVenueRepository(dbConn)
	matchRepo := repositories.NewPostgresMatchRepository(dbConn)
	matchResultRepo := repositories.NewPostgresMatchResultRepository(dbConn)
	standingRepo := repositories.NewPostgresStandingRepository(dbConn)
	playerStatsRepo := repositories.NewPostgresPlayerStatsRepository(dbConn)
	inviteRepo := repositories.NewPostgresInviteRepository(dbConn)
	announcementRepo := repositories.NewPostgresAnnouncementRepository(dbConn)
	auditLogRepo := repositories.NewPostgresAuditLogRepository(dbConn)
	logger.Info("repositories initialized")

	smsSender := services.NewSMSSender(services.TwilioConfig{
		AccountSID: cfg.TwilioAccountSID,
		AuthToken:  cfg.TwilioAuthToken,
		FromNumber: cfg.TwilioFromNumber,
	}, logger)

	authService := services.NewAuthService(userRepo, cfg.JWTSecretKey)
	userService := services.NewUserService(userRepo, teamRepo)
	teamService := services.NewTeamService(teamRepo, userRepo, seasonRepo, venueRepo)
	seasonService := services.NewSeasonService(
		dbConn, seasonRepo, teamRepo, matchRepo, matchResultRepo,
		standingRepo, playerStatsRepo, userRepo, logger,
	)
	venueService := services.NewVenueService(venueRepo)
	matchService := services.NewMatchService(matchRepo, matchResultRepo, teamRepo, venueRepo, seasonRepo, userRepo)
	standingsService := services.NewStandingsService(
		dbConn, matchRepo, matchResultRepo, standingRepo, playerStatsRepo,
		teamRepo, seasonRepo, userRepo, hub, logger,
	)
	scheduleService := services.NewScheduleService(
		dbConn, matchRepo, teamRepo, seasonRepo, venueRepo, auditLogRepo, hub, logger,
	)
	inviteService := services.NewInviteService(inviteRepo, userRepo, teamRepo, smsSender, cfg.PublicURL, logger)
	announcementService := services.NewAnnouncementService(announcementRepo, userRepo, auditLogRepo, logger)
	dashboardService := services.NewDashboardService(userRepo, teamRepo, matchRepo, seasonRepo, auditLogRepo)
	backupService := services.NewBackupService(seasonRepo, teamRepo, matchRepo, standingRepo, userRepo, uploader, cfg.BackupDir, logger)
	logger.Info("services initialized")

	authenticator := middleware.NewAuthenticator(cfg.JWTSecretKey)
	authHandler := handlers.NewAuthHandler(authService, inviteService, userService)
	userHandler := handlers.NewUserHandler(userService)
	teamHandler := handlers.NewTeamHandler(teamService)
	seasonHandler := handlers.NewSeasonHandler(seasonService)
	venueHandler := handlers.NewVenueHandler(venueService)
	matchHandler := handlers.NewMatchHandler(matchService, standingsService)
	standingsHandler := handlers.NewStandingsHandler(standingsService)
	inviteHandler := handlers.NewInviteHandler(inviteService)
	announcementHandler := handlers.NewAnnouncementHandler(announcementService)
	adminHandler := handlers.NewAdminHandler(dashboardService, scheduleService, backupService, auditLogRepo)
	configHandler := handlers.NewConfigHandler(cfg)
	webSocketHandler := handlers.NewWebSocketHandler(hub, seasonService, logger)
	logger.Info("http handlers initialized")

	router := chi.NewRouter()
	routes.SetupRoutes(
		router,
		authenticator,
		authHandler,
		userHandler,
		teamHandler,
		seasonHandler,
		venueHandler,
		matchHandler,
		standingsHandler,
		inviteHandler,
		announcementHandler,
		adminHandler,
		configHandler,
		webSocketHandler,
	)
	logger.Info("routes configured")

	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  120 * time.Second,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("starting server", slog.String("address", server.Addr))
		serverErrors <- server.ListenAndServe()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		if !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server error", slog.Any("error", err))
			os.Exit(1)
		}
		logger.Info("server stopped gracefully")
	case sig := <-quit:
		logger.Info("shutdown signal received", slog.String("signal", sig.String()))
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancelShutdown()

		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Error("graceful shutdown failed", slog.Any("error", err))
			if closeErr := server.Close(); closeErr != nil {
				logger.Error("failed to force close server", slog.Any("error", closeErr))
			}
			os.Exit(1)
		}
		logger.Info("server shutdown complete")
	}
	logger.Info("application exited")
}
