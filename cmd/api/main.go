package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"github.com/harentsoaR/gym-api/internal/api"
	"github.com/harentsoaR/gym-api/internal/config"
	"github.com/harentsoaR/gym-api/internal/handlers"
	"github.com/harentsoaR/gym-api/internal/logger"
	"github.com/harentsoaR/gym-api/internal/metrics"
	"github.com/harentsoaR/gym-api/internal/services"
	"github.com/harentsoaR/gym-api/internal/store"
	"github.com/harentsoaR/gym-api/internal/store/memstore"
	"github.com/harentsoaR/gym-api/internal/store/mongostore"
	"github.com/harentsoaR/gym-api/internal/utils"
)

func main() {
	cfg, dotenv, err := config.Load()
	if err != nil {
		logger.Init("info", true)
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}
	logger.Init(cfg.LogLevel, cfg.LogPretty)
	if !dotenv {
		log.Info().Msg("No .env file found, relying on environment variables.")
	}
	if cfg.Production() {
		gin.SetMode(gin.ReleaseMode)
	}
	log.Info().
		Str("env", cfg.Env).
		Str("port", cfg.Port).
		Str("store", cfg.StoreDriver).
		Str("database", cfg.MongoDatabase).
		Msg("configuration loaded")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// --- Store ---
	var s *store.Store
	switch cfg.StoreDriver {
	case config.DriverMemory:
		log.Warn().Msg("Using the in-memory store; data is lost on exit.")
		s = memstore.New()
	default:
		client, err := mongostore.Connect(ctx, cfg.MongoURI, cfg.MongoConnectTimeout)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to connect to MongoDB")
		}
		defer func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := client.Disconnect(disconnectCtx); err != nil {
				log.Error().Err(err).Msg("MongoDB disconnect failed")
			}
		}()
		db := client.Database(cfg.MongoDatabase)
		if err := mongostore.EnsureIndexes(ctx, db); err != nil {
			log.Fatal().Err(err).Msg("Failed to create indexes")
		}
		log.Info().Msg("Successfully connected to MongoDB!")
		s = mongostore.New(db)
	}

	// --- Services and handlers ---
	notificationSvc := services.NewNotificationService(cfg.NotifyWebhookURL)
	if notificationSvc.Enabled() {
		log.Info().Msg("Notification webhook delivery enabled")
	}
	h := handlers.NewHandler(s, utils.NewJWTManager(cfg.JWTSecret, cfg.TokenTTL), notificationSvc, handlers.Options{
		BcryptCost:       cfg.BcryptCost,
		AllowAdminSignup: cfg.AllowAdminSignup,
		ExposeStack:      !cfg.Production(),
	})

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	router := api.NewRouter(h, metrics.New(reg), api.RouterOptions{
		CORSOrigins: cfg.CORSOrigins,
		ExposeStack: !cfg.Production(),
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("ListenAndServe failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}
	log.Info().Msg("Server exiting")
}
