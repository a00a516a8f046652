// Package gisoinvest собирает приложение: подключения к хранилищам,
// бизнес-сервисы, маршруты и HTTP-сервер с корректным завершением.
package gisoinvest

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/cache"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/config"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/jwt"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/migrations"
	authservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/auth"
	dataservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/data"
	portservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/portfolio"
	propservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/property"
	repservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/report"
	subservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/subscription"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// App объединяет HTTP-сервер и внешние зависимости приложения.
type App struct {
	server *http.Server
	logger *slog.Logger
	db     *repository.Storage
	cache  cache.Cache
}

// New создает приложение: подключается к PostgreSQL и Redis, применяет
// миграции, собирает сервисы и маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	db, err := repository.New(cfg.StorageConnectionString)
	if err != nil {
		return nil, err
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		return nil, err
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		return nil, err
	}

	jwtMaker := jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL)

	authService := authservices.NewAuthService(db, jwtMaker, logger)
	subscriptionService := subservices.NewSubscriptionService(db, logger)
	propertyService := propservices.NewPropertyService(db, logger)
	portfolioService := portservices.NewPortfolioService(db, cacheRedis, logger)
	reportService := repservices.NewReportService(db, logger)
	dataService := dataservices.NewDataService(db, logger)

	router := chi.NewRouter()
	RegisterRoutes(router, logger, jwtMaker, db, &Services{
		Auth:         authService,
		Subscription: subscriptionService,
		Property:     propertyService,
		Portfolio:    portfolioService,
		Report:       reportService,
		Data:         dataService,
	})

	srv := &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}

	return &App{
		server: srv,
		logger: logger,
		db:     db,
		cache:  *cacheRedis,
	}, nil
}

// Run запускает HTTP-сервер и останавливает его по отмене контекста.
func (a *App) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.db.DB.Close()
		return err
	}
}
