package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/khoahotran/dev-connector/adapters/event"
	"github.com/khoahotran/dev-connector/adapters/github"
	httpAdapter "github.com/khoahotran/dev-connector/adapters/http"
	"github.com/khoahotran/dev-connector/adapters/persistence"
	"github.com/khoahotran/dev-connector/internal/application/service"
	authUC "github.com/khoahotran/dev-connector/internal/application/usecase/auth"
	profileUC "github.com/khoahotran/dev-connector/internal/application/usecase/profile"
	"github.com/khoahotran/dev-connector/internal/config"
	"github.com/khoahotran/dev-connector/pkg/auth"
	"github.com/khoahotran/dev-connector/pkg/logger"
	"github.com/khoahotran/dev-connector/pkg/tracing"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		panic("cannot load config: " + err.Error())
	}

	appLogger := logger.NewZapLogger(cfg.App.Env)
	appLogger.Info("Start DevConnector API Server...", zap.String("env", cfg.App.Env))

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shutdownTracing, err := tracing.Init(cfg, appLogger, "dev-connector-api")
	if err != nil {
		appLogger.Fatal("cannot init tracing", err)
	}
	defer shutdownTracing(context.Background())

	// Infrastructure
	dbPool, err := persistence.NewPostgresPool(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Fatal("cannot connect Postgres", err)
	}
	defer dbPool.Close()

	var publisher service.EventPublisher
	kafkaClient, err := event.NewKafkaProducerClient(cfg, appLogger)
	if err != nil {
		appLogger.Warn("Kafka unavailable, account events disabled", zap.Error(err))
		publisher = event.NewNopPublisher(appLogger)
	} else {
		defer kafkaClient.Close()
		publisher = kafkaClient
	}

	var repoGateway service.RepoGateway = github.NewClient(cfg, appLogger)
	if cfg.Redis.Addr != "" {
		redisClient, err := persistence.NewRedisClient(ctx, cfg, appLogger)
		if err != nil {
			appLogger.Warn("Redis unavailable, GitHub cache disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			repoGateway = github.NewCachedGateway(repoGateway, redisClient, cfg.GitHub.CacheTTL, appLogger)
		}
	}

	// Repositories
	userRepo := persistence.NewPostgresUserRepo(dbPool, appLogger)
	profileRepo := persistence.NewPostgresProfileRepo(dbPool, appLogger)

	// Services
	jwtSvc := auth.NewJWTService(cfg.Auth.JWTSecret, cfg.Auth.TokenLifespan)

	// Use Cases
	registerUseCase := authUC.NewRegisterUseCase(userRepo, jwtSvc, publisher, appLogger)
	loginUseCase := authUC.NewLoginUseCase(userRepo, jwtSvc, appLogger)
	currentAccountUseCase := authUC.NewCurrentAccountUseCase(userRepo)
	profileUseCase := profileUC.NewProfileUseCase(profileRepo, publisher, appLogger)
	githubUseCase := profileUC.NewGitHubReposUseCase(repoGateway, appLogger)

	// HTTP
	router := httpAdapter.NewRouter(httpAdapter.RouterDeps{
		AuthHandler:    httpAdapter.NewAuthHandler(registerUseCase, loginUseCase, currentAccountUseCase, appLogger),
		ProfileHandler: httpAdapter.NewProfileHandler(profileUseCase, githubUseCase, appLogger),
		JWTService:     jwtSvc,
		Logger:         appLogger,
		AllowOrigins:   cfg.CORS.AllowOrigins,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	go func() {
		appLogger.Info("Server running", zap.String("port", cfg.App.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Fatal("Cannot run server", err)
		}
	}()

	<-ctx.Done()
	appLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.App.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("Server forced to shutdown", err)
	}
}
