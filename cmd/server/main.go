package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/JSSP85/SolarApp-sub002/config"
	"github.com/JSSP85/SolarApp-sub002/internal/api/handler"
	"github.com/JSSP85/SolarApp-sub002/internal/api/router"
	"github.com/JSSP85/SolarApp-sub002/internal/model"
	"github.com/JSSP85/SolarApp-sub002/internal/repository"
	"github.com/JSSP85/SolarApp-sub002/internal/service"
	"github.com/JSSP85/SolarApp-sub002/pkg/database"
	"github.com/JSSP85/SolarApp-sub002/pkg/jwt"
	applogger "github.com/JSSP85/SolarApp-sub002/pkg/logger"
	"github.com/JSSP85/SolarApp-sub002/pkg/redis"
)

func main() {
	// 1. load configuration
	cfg, err := config.Load("")
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config failed: %v\n", err)
		os.Exit(1)
	}

	// 2. initialize logging
	logger, err := applogger.NewLogger(&cfg.Log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "init logger failed: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	logger.Info("application starting",
		zap.Int("port", cfg.Server.Port),
		zap.String("log_level", cfg.Log.Level),
	)

	// 3. connect database
	db, err := database.NewDB(&cfg.Database, logger)
	if err != nil {
		logger.Fatal("database connection failed", zap.Error(err))
	}

	// 3.1 apply schema. postgres runs the versioned SQL migrations;
	// sqlite derives the schema from the models.
	if cfg.Database.Driver == "postgres" {
		sqlDB, err := db.DB()
		if err != nil {
			logger.Fatal("get underlying sql.DB failed", zap.Error(err))
		}
		if err := database.RunMigrations(sqlDB, logger); err != nil {
			logger.Fatal("database migration failed", zap.Error(err))
		}
	} else {
		if err := db.AutoMigrate(
			&model.User{},
			&model.NCSequence{},
			&model.NonConformity{},
			&model.TimelineEntry{},
			&model.Attachment{},
			&model.Inspection{},
		); err != nil {
			logger.Fatal("database auto-migration failed", zap.Error(err))
		}
	}

	// 4. connect Redis (optional: a failure degrades token revocation
	// and rate limiting without blocking startup)
	rdb, err := redis.NewClient(&cfg.Redis, logger)
	if err != nil {
		logger.Warn("redis unavailable, token blacklist and rate limiting disabled", zap.Error(err))
		rdb = nil
	}

	// 5. initialize JWT manager
	jwtMgr := jwt.NewManager(&cfg.Auth)

	// 6. dependency injection: Repository → Service → Handler
	repo := repository.NewRepository(db)
	svc := service.NewService(cfg, repo, jwtMgr, rdb, logger)
	h := handler.NewHandler(svc)

	// 7. initialize routing
	engine := router.Setup(cfg, h, jwtMgr, rdb, logger)

	// 8. start the HTTP server with graceful shutdown
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	// 9. wait for a shutdown signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit

	logger.Info("shutdown signal received", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown failed", zap.Error(err))
	}

	if sqlDB, _ := db.DB(); sqlDB != nil {
		sqlDB.Close()
	}
	if rdb != nil {
		rdb.Close()
	}

	logger.Info("server stopped")
}
