package main

import (
	"context"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "vrf-raffle-backend/docs"
	"vrf-raffle-backend/internal/common/config"
	"vrf-raffle-backend/internal/common/logger"
	"vrf-raffle-backend/internal/common/middleware"
	attestationservice "vrf-raffle-backend/internal/features/attestation/service"
	"vrf-raffle-backend/internal/features/notifications"
	randomnessservice "vrf-raffle-backend/internal/features/randomness/service"
	raffledelivery "vrf-raffle-backend/internal/features/raffle/delivery/http"
	"vrf-raffle-backend/internal/features/raffle/models"
	raffleredis "vrf-raffle-backend/internal/features/raffle/repository/redis"
	raffleservice "vrf-raffle-backend/internal/features/raffle/service"
	sessiondelivery "vrf-raffle-backend/internal/features/session/delivery/http"
	sessionredis "vrf-raffle-backend/internal/features/session/repository/redis"
	sessionservice "vrf-raffle-backend/internal/features/session/service"
	"vrf-raffle-backend/internal/platform/metrics"
	redisplatform "vrf-raffle-backend/internal/platform/redis"
	"vrf-raffle-backend/internal/platform/telegram"
	"vrf-raffle-backend/internal/platform/vrforacle"
)

// @title           VRF Raffle API
// @version         1.0
// @description     Verifiable-random daily raffle over ranked game scores.

// @host      localhost:8080
// @BasePath  /api/v1

// @securityDefinitions.apikey TelegramInitData
// @in header
// @name init_data
// @description Telegram Mini App init_data string for admin authentication

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg := config.Load()
	logger.Init("vrf-raffle-backend", cfg.Debug)

	redisClient, err := redisplatform.Open(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer redisClient.Close()
	logger.Info().Msg("Redis connection established")

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector())
	m := metrics.New(registry)

	// Randomness: the oracle adapter when configured, deterministic local
	// source otherwise.
	var source randomnessservice.Source
	if cfg.VRF.OracleURL != "" {
		source = randomnessservice.NewOracleSource(vrforacle.NewClient(cfg.VRF.OracleURL))
		logger.Info().Str("url", cfg.VRF.OracleURL).Msg("using VRF oracle randomness source")
	} else {
		source = randomnessservice.NewLocalSource(cfg.VRF.LocalSecret)
		logger.Warn().Msg("no VRF oracle configured, using deterministic local randomness")
	}
	seedManager := randomnessservice.NewSeedManager(source, cfg.VRF.SeedRotation, cfg.VRF.FulfillTimeout)

	attest, err := attestationservice.New(cfg.Attestation.PrivateKeySeed)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to initialize attestation keypair")
	}

	sessionRepo := sessionredis.NewRedisSessionRepository(redisClient.Client)
	raffleRepo := raffleredis.NewRedisRaffleRepository(redisClient.Client)

	sessionSvc := sessionservice.NewSessionService(sessionRepo, seedManager, m)
	raffleSvc := raffleservice.NewRaffleService(raffleRepo, sessionRepo, attest, m)

	var notifier notifications.Notifier = notifications.NewLogNotifier()
	if cfg.Telegram.BotToken != "" && cfg.Telegram.ChannelID != 0 {
		notifier = notifications.NewTelegramNotifier(telegram.NewClient(cfg.Telegram.BotToken), cfg.Telegram.ChannelID)
		logger.Info().Int64("channel_id", cfg.Telegram.ChannelID).Msg("announcing draws to Telegram channel")
	}

	orchestrator := raffleservice.NewOrchestrator(raffleRepo, seedManager, notifier, m, raffleservice.OrchestratorConfig{
		SlicePercent: cfg.Raffle.SlicePercent,
		TierConfig: models.TierConfig{
			Rank1:               cfg.Raffle.TicketsRank1,
			Ranks2To5:           cfg.Raffle.TicketsRanks2To5,
			Ranks6To10:          cfg.Raffle.TicketsRanks6To10,
			Remaining:           cfg.Raffle.TicketsRemaining,
			MaxTicketsPerWallet: cfg.Raffle.MaxTicketsPerWallet,
		},
		WinnersCount: cfg.Raffle.WinnersCount,
		Prizes:       cfg.Raffle.Prizes,
	})

	scheduler := raffleservice.NewScheduler(raffleRepo, orchestrator, cfg.Raffle.CheckInterval)
	scheduler.Start()
	defer scheduler.Stop()

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.Logger())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.Server.Origin},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "init_data"},
		AllowCredentials: true,
	}))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := router.Group("/api/v1")
	adminAuth := []gin.HandlerFunc{middleware.TelegramInitData(), middleware.RequireAdmin(parseAdminIDs(cfg.Telegram.AdminIDs))}

	sessiondelivery.NewSessionHandler(sessionSvc).RegisterRoutes(api)
	raffledelivery.NewRaffleHandler(raffleSvc, orchestrator, attest).RegisterRoutes(api, adminAuth...)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		logger.Info().Int("port", cfg.Server.Port).Msg("HTTP server listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal().Err(err).Msg("HTTP server failed")
		}
	}()

	<-ctx.Done()
	stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("server shutdown failed")
	}
	logger.Info().Msg("server stopped")
}

func parseAdminIDs(raw []string) []int64 {
	var ids []int64
	for _, s := range raw {
		if id, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err == nil {
			ids = append(ids, id)
		}
	}
	return ids
}
