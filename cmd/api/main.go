package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"carbon-trace/internal/config"
	"carbon-trace/internal/dataset"
	"carbon-trace/internal/db"
	"carbon-trace/internal/events"
	apihttp "carbon-trace/internal/http"
	"carbon-trace/internal/repository"
	"carbon-trace/internal/service"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	if err := godotenv.Load(); err != nil {
		log.Printf("warning: loading .env: %v", err)
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		panic(err)
	}

	logger, _ := zap.NewProduction()
	defer logger.Sync()

	// El dataset de referencia se carga una vez y queda inmutable por la vida
	// del proceso; se inyecta explicito en el motor, nunca como global.
	ref, err := dataset.Load(cfg.DatasetPath)
	if err != nil {
		logger.Fatal("dataset load", zap.Error(err))
	}
	logger.Info("reference dataset loaded",
		zap.Int("rows", len(ref.Rows)),
		zap.Int("features", ref.FeatureCount()),
	)

	pool, err := db.NewPool(ctx, cfg)
	if err != nil {
		logger.Fatal("db connect", zap.Error(err))
	}
	defer pool.Close()

	submissionRepo := repository.NewPgSubmissionRepository(pool)
	aggregateRepo := repository.NewPgAggregateRepository(pool)
	reductionRepo := repository.NewPgReductionRepository(pool)
	userRepo := repository.NewPgUserRepository(pool)

	publisher := events.Publisher(events.NewDisabledPublisher())
	if cfg.NATSURL != "" {
		natsPub, err := events.NewNATSPublisher(cfg.NATSURL, cfg.EventsTopic)
		if err != nil {
			logger.Warn("nats publisher init failed", zap.Error(err))
		} else {
			publisher = natsPub
			defer natsPub.Close()
		}
	}

	var (
		tokenStore   service.RefreshTokenStore
		loginLimiter service.LoginRateLimiter
	)
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		ctxPing, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := redisClient.Ping(ctxPing).Err(); err != nil {
			logger.Warn("redis ping failed", zap.Error(err))
		} else {
			tokenStore = service.NewRedisRefreshTokenStore(redisClient)
			loginLimiter = service.NewRedisLoginRateLimiter(redisClient, time.Minute, 5)
		}
		cancel()
	}

	aggregateSvc := service.NewAggregateService(aggregateRepo)
	reductionSvc := service.NewReductionService(submissionRepo, reductionRepo)
	var recommenderSvc *service.RecommenderService
	if cfg.RecommendationsEnabled {
		recommenderSvc = service.NewRecommenderService(aggregateRepo, reductionRepo)
	}
	footprintSvc := service.NewFootprintService(logger, ref, submissionRepo, aggregateSvc, recommenderSvc, reductionSvc, publisher)

	if cfg.JWTSecret == "" {
		logger.Warn("jwt secret not configured")
	}
	jwtSvc := service.NewJWTService(
		cfg.JWTSecret,
		time.Duration(cfg.JWTAccessTTLMinutes)*time.Minute,
		time.Duration(cfg.JWTRefreshTTLMinutes)*time.Minute,
		tokenStore,
	)
	authSvc := service.NewAuthService(logger, userRepo, loginLimiter)

	footprintHandler := apihttp.NewFootprintHandler(logger, footprintSvc)
	authHandler := apihttp.NewAuthHandler(logger, authSvc, jwtSvc)
	router := apihttp.NewRouter(logger, footprintHandler, authHandler, jwtSvc)

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("starting server", zap.String("port", cfg.HTTPPort))

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logger.Fatal("server error", zap.Error(err))
	}
}
