package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/devprbtt/wiringmaster/internal/config"
	"github.com/devprbtt/wiringmaster/internal/database"
	"github.com/devprbtt/wiringmaster/internal/server"
	"github.com/devprbtt/wiringmaster/internal/wiring/handler"
	"github.com/devprbtt/wiringmaster/internal/wiring/repository"
	"github.com/devprbtt/wiringmaster/internal/wiring/service"
	"github.com/devprbtt/wiringmaster/internal/wiring/sse"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

var (
	Version   = "dev"
	BuildTime = "unknown"
)

func main() {
	rollback := flag.Bool("rollback", false, "undo the most recent schema migration and exit")
	flag.Parse()

	if err := godotenv.Load(); err != nil {
		log.Printf("Warning: .env file not found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := initLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting wiringmaster",
		zap.String("version", Version),
		zap.String("build_time", BuildTime),
		zap.String("db_driver", cfg.Database.Driver),
	)

	ctx := context.Background()
	db, err := database.Connect(ctx, cfg.Database, cfg.Database.ConnectTimeout, func(err error, next time.Duration) {
		zapLogger.Warn("Database not ready, retrying", zap.Error(err), zap.Duration("retry_in", next))
	})
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}

	if *rollback {
		if err := database.RollbackLast(ctx, db); err != nil {
			zapLogger.Fatal("Rollback failed", zap.Error(err))
		}
		zapLogger.Info("Rolled back last migration")
		return
	}
	if err := database.Migrate(ctx, db); err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Enabled() {
		rdb = initRedis(cfg.Redis)
		if err := rdb.Ping(ctx).Err(); err != nil {
			zapLogger.Warn("Redis unavailable, list cache disabled", zap.Error(err))
			rdb.Close()
			rdb = nil
		}
	}

	files, err := initFileStore(ctx, cfg)
	if err != nil {
		zapLogger.Fatal("Failed to init file storage", zap.Error(err))
	}

	hub := sse.NewHub(zapLogger)
	services, err := service.NewServices(repository.NewRepositories(db), service.Deps{
		Cache:     service.NewListCache(rdb, cfg.Cache.TTL, zapLogger),
		Files:     files,
		Publisher: hub,
		Logger:    zapLogger,
	})
	if err != nil {
		zapLogger.Fatal("Failed to init services", zap.Error(err))
	}
	handlers := handler.NewHandlers(services, hub, cfg.Upload.MaxSize)

	// 设置Gin模式
	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.Options{
		Logger:    zapLogger,
		DB:        db,
		Handlers:  handlers,
		WebDir:    cfg.Web.Dir,
		Version:   Version,
		BuildTime: BuildTime,
	})

	srv := server.NewHTTPServer(fmt.Sprintf(":%d", cfg.Server.Port), router, cfg.Server.ReadTimeout, cfg.Server.WriteTimeout)

	go func() {
		zapLogger.Info("Server starting", zap.Int("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// 优雅关闭
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}
	if rdb != nil {
		rdb.Close()
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	zapLogger.Info("Server exited")
}

func initLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var zapCfg zap.Config

	if cfg.Format == "json" {
		zapCfg = zap.NewProductionConfig()
	} else {
		zapCfg = zap.NewDevelopmentConfig()
	}

	switch cfg.Level {
	case "debug":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.DebugLevel)
	case "info":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.InfoLevel)
	case "warn":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	case "error":
		zapCfg.Level = zap.NewAtomicLevelAt(zap.ErrorLevel)
	}

	return zapCfg.Build()
}

func initRedis(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Password: cfg.Password,
		DB:       cfg.DB,
		PoolSize: cfg.PoolSize,
	})
}

// initFileStore picks MinIO when an endpoint is configured, local disk otherwise.
func initFileStore(ctx context.Context, cfg *config.Config) (service.FileStore, error) {
	if !cfg.MinIO.Enabled() {
		return service.NewLocalStore(cfg.Upload.Dir)
	}

	client, err := minio.New(cfg.MinIO.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(cfg.MinIO.AccessKey, cfg.MinIO.SecretKey, ""),
		Secure: cfg.MinIO.UseSSL,
	})
	if err != nil {
		return nil, fmt.Errorf("minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	return service.NewMinIOStore(ctx, client, cfg.MinIO.Bucket)
}
