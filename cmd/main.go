package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "citizenvoice/backend/docs"
	"citizenvoice/backend/internal/api/handler"
	"citizenvoice/backend/internal/app"
	"citizenvoice/backend/internal/config"
	"citizenvoice/backend/internal/logging"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// @title Citizen Voice API
// @version 1.0
// @description Citizens file complaints with photos; leaders answer them.
// @BasePath /api
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	logger := logging.New(cfg.Log)
	defer func() { _ = logger.Sync() }()

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		logger.Fatal("failed to start", zap.Error(err))
	}
	defer func() {
		if err := a.Close(); err != nil {
			logger.Warn("failed to close storage", zap.Error(err))
		}
	}()

	go a.Hub.Run(ctx)
	a.Restore(ctx)

	h := handler.NewHandler(a.Store, a.Tokens, a.Hub, logger)
	server := &http.Server{
		Addr:           ":" + cfg.Port,
		Handler:        handler.NewRouter(h, cfg.CORSOrigins),
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}

	go func() {
		logger.Info("server listening", zap.String("addr", server.Addr), zap.String("storage", cfg.StorageDriver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("server failed", zap.Error(err))
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
