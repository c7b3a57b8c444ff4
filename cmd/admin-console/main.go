package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/admission-admin/api/swagger"
	"github.com/noah-isme/admission-admin/internal/apiclient"
	"github.com/noah-isme/admission-admin/internal/handler"
	"github.com/noah-isme/admission-admin/internal/middleware"
	"github.com/noah-isme/admission-admin/internal/repository"
	"github.com/noah-isme/admission-admin/internal/service"
	"github.com/noah-isme/admission-admin/internal/session"
	"github.com/noah-isme/admission-admin/pkg/cache"
	"github.com/noah-isme/admission-admin/pkg/config"
	"github.com/noah-isme/admission-admin/pkg/logger"
	corsmiddleware "github.com/noah-isme/admission-admin/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/admission-admin/pkg/middleware/requestid"
	"github.com/noah-isme/admission-admin/pkg/storage"
)

const (
	cacheKeyPrefix  = "admission-admin:cache:"
	shutdownTimeout = 10 * time.Second
)

// @title Admission Admin Console API
// @version 1.0.0
// @description Operator console for the admission catalog, tuition comparison and chatbot knowledge base
// @BasePath /
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var redisClient *redis.Client
	if cfg.Session.Backend == config.SessionBackendRedis || cfg.Cache.Enabled {
		redisClient, err = cache.NewRedis(ctx, cfg.Redis)
		switch {
		case err != nil && cfg.Session.Backend == config.SessionBackendRedis:
			logr.Fatal("redis is required for the session backend", zap.Error(err))
		case err != nil:
			logr.Warn("redis unavailable, list cache disabled", zap.Error(err))
		default:
			defer redisClient.Close() //nolint:errcheck
		}
	}

	kv, err := sessionKV(cfg, redisClient)
	if err != nil {
		logr.Fatal("failed to open session store", zap.Error(err))
	}
	store := session.NewStore(kv, logr)

	metrics := service.NewMetricsService()
	cacheSvc := service.NewCacheService(
		repository.NewCacheRepository(redisClient, cacheKeyPrefix, logr),
		metrics,
		cfg.Cache.TTL,
		logr,
		cfg.Cache.Enabled && redisClient != nil,
	)

	// The admission client reports 401s to the auth service, which is built after it.
	var authSvc *service.AuthService
	apiClient := apiclient.New(cfg.API.BaseURL, cfg.API.Timeout,
		apiclient.WithTokenSource(store),
		apiclient.WithLogger(logr),
		apiclient.WithObserver(metrics),
		apiclient.WithUnauthorizedHandler(func(ctx context.Context) { authSvc.Expire(ctx) }),
	)
	knowledgeClient := apiclient.New(cfg.API.KnowledgeBaseURL, cfg.API.Timeout,
		apiclient.WithLogger(logr),
		apiclient.WithObserver(metrics),
	)

	workspace := service.NewCatalogWorkspace(service.PageDeps{
		Client:      apiClient,
		Cache:       cacheSvc,
		Logger:      logr,
		PageSize:    cfg.Pagination.PageSize,
		DefaultYear: cfg.Pagination.DefaultYear,
	})
	defer workspace.Close()

	authSvc = service.NewAuthService(repository.NewAuthRepository(apiClient), store, workspace, validator.New(), logr)
	tuitionSvc := service.NewTuitionServiceFromClient(apiClient, cfg.Pagination.DefaultYear, logr)
	dashboardSvc := service.NewDashboardServiceFromClient(apiClient, logr)
	knowledgeSvc := service.NewKnowledgeService(repository.NewKnowledgeRepository(knowledgeClient), service.KnowledgeConfig{
		MaxUploadBytes:    cfg.Knowledge.MaxUploadBytes,
		AllowedExtensions: cfg.Knowledge.AllowedExtensions,
		Workers:           cfg.Knowledge.Workers,
		Retries:           cfg.Knowledge.Retries,
		RetryDelay:        cfg.Knowledge.RetryDelay,
		KeepFinished:      cfg.Knowledge.KeepFinished,
	}, metrics, logr)
	knowledgeSvc.Start(ctx)
	defer knowledgeSvc.Stop()

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr, "/health", "/metrics"))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics))

	handler.RegisterRoutes(r, handler.Handlers{
		Auth:      handler.NewAuthHandler(authSvc),
		Pages:     handler.NewPageHandler(workspace),
		Tuition:   handler.NewTuitionHandler(tuitionSvc),
		Knowledge: handler.NewKnowledgeHandler(knowledgeSvc),
		Dashboard: handler.NewDashboardHandler(dashboardSvc),
		Metrics:   handler.NewMetricsHandler(metrics),
	}, authSvc)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env, "api", cfg.API.BaseURL)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}

func sessionKV(cfg *config.Config, redisClient *redis.Client) (session.KV, error) {
	switch cfg.Session.Backend {
	case config.SessionBackendRedis:
		return session.NewRedisKV(redisClient, cfg.Session.KeyPrefix), nil
	case config.SessionBackendMemory:
		return session.NewMemoryKV(), nil
	default:
		fs, err := storage.NewFileStore(cfg.Session.Dir)
		if err != nil {
			return nil, err
		}
		return session.NewFileKV(fs), nil
	}
}
