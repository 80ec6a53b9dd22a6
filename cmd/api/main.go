package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/riskibarqy/fantasy-slates/internal/app"
	"github.com/riskibarqy/fantasy-slates/internal/config"
	"github.com/riskibarqy/fantasy-slates/internal/observability"
	"github.com/riskibarqy/fantasy-slates/internal/platform/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	baseLogger := logging.NewJSON(cfg.LogLevel)
	appLogger, stopBetterStack, err := observability.InitBetterStackLogger(cfg, baseLogger)
	if err != nil {
		baseLogger.Error("betterstack logger init failed", "error", err)
		appLogger = baseLogger
		stopBetterStack = func(context.Context) error { return nil }
	}
	logging.SetDefault(appLogger)
	defer func() {
		_ = appLogger.Sync()
	}()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slogLevel(cfg.LogLevel),
	}))

	stopUptrace, err := observability.InitUptrace(cfg, appLogger)
	if err != nil {
		appLogger.Error("uptrace init failed", "error", err)
		os.Exit(1)
	}

	stopPyroscope, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		appLogger.Error("pyroscope init failed", "error", err)
		os.Exit(1)
	}

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		appLogger.Error("pprof server start failed", "error", err)
		os.Exit(1)
	}

	srv, shutdownApp, err := app.NewHTTPServer(cfg, logger)
	if err != nil {
		appLogger.Error("build app", "error", err)
		os.Exit(1)
	}

	go func() {
		appLogger.Info("http server starting", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			appLogger.Error("http server failed", "error", err)
			os.Exit(1)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		appLogger.Error("graceful shutdown failed", "error", err)
	}
	if err := shutdownApp(shutdownCtx); err != nil {
		appLogger.Error("app shutdown failed", "error", err)
	}
	if pprofSrv != nil {
		_ = observability.StopPprofServer(pprofSrv, logger, 5*time.Second)
	}
	if stopPyroscope != nil {
		if err := stopPyroscope(); err != nil {
			appLogger.Error("pyroscope stop failed", "error", err)
		}
	}
	if err := stopUptrace(shutdownCtx); err != nil {
		appLogger.Error("uptrace shutdown failed", "error", err)
	}
	if err := stopBetterStack(shutdownCtx); err != nil {
		appLogger.Error("betterstack shutdown failed", "error", err)
	}

	appLogger.Info("http server stopped")
}

func slogLevel(level logging.Level) slog.Level {
	switch {
	case level <= logging.LevelDebug:
		return slog.LevelDebug
	case level == logging.LevelInfo:
		return slog.LevelInfo
	case level == logging.LevelWarn:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}
