// Package main GISO Invest Authentication Service
//
// @title           GISO Invest Authentication Service API
// @version         1.0
// @description     API аутентификации и данных инвестиционной платформы GISO Invest

// @contact.name   API Support
// @contact.email  support@gisoinvest.co.uk

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      localhost:8080
// @BasePath  /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/GisoInvest/giso-invest-auth-backend/docs"
	gisoinvest "github.com/GisoInvest/giso-invest-auth-backend/internal/app/giso-invest"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/config"
)

func main() {
	cfg := config.MustLoad()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug}))

	logger.Info("starting giso-invest-auth-backend", slog.String("env", cfg.Env))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	app, err := gisoinvest.New(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize app", slog.Any("err", err))
		os.Exit(1)
	}

	if err := app.Run(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Error("app stopped with error", slog.Any("err", err))
		os.Exit(1)
	}

	logger.Info("giso-invest-auth-backend stopped gracefully")
}
