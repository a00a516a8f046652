// Package gisoinvest предоставляет маршруты для основного приложения.
package gisoinvest

import (
	"log/slog"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/auth/login"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/auth/logout"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/auth/refresh"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/auth/register"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/auth/validate"
	datamigrate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/data/migrate"
	datastats "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/data/stats"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/health"
	portcreate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/create"
	portimport "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/importone"
	portlist "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/list"
	portmigrate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/migrate"
	portread "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/read"
	portremove "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/remove"
	portshare "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/share"
	portupdate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/portfolio/update"
	propcreate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/property/create"
	proplist "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/property/list"
	propmigrate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/property/migrate"
	propread "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/property/read"
	propremove "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/property/remove"
	propupdate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/property/update"
	repcreate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/report/create"
	replist "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/report/list"
	repmigrate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/report/migrate"
	repread "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/report/read"
	repremove "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/report/remove"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/subscription/billinghistory"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/subscription/cancel"
	subcreate "github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/subscription/create"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/subscription/reactivate"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/subscription/status"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/subscription/upgrade"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/user/profileget"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/handlers/user/profileupdate"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/jwt"
	authservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/auth"
	dataservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/data"
	portservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/portfolio"
	propservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/property"
	repservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/report"
	subservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/subscription"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// Services объединяет бизнес-сервисы приложения для регистрации маршрутов.
type Services struct {
	Auth         *authservices.AuthService
	Subscription *subservices.SubscriptionService
	Property     *propservices.PropertyService
	Portfolio    *portservices.PortfolioService
	Report       *repservices.ReportService
	Data         *dataservices.DataService
}

// RegisterRoutes регистрирует все маршруты приложения.
func RegisterRoutes(r chi.Router, logger *slog.Logger, jwtMaker jwt.Maker, db *repository.Storage, svc *Services) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	r.Route("/api", func(r chi.Router) {
		// Открытые конечные точки
		r.Post("/auth/register", register.New(logger, svc.Auth).ServeHTTP)
		r.Post("/auth/login", login.New(logger, svc.Auth).ServeHTTP)
		r.Post("/auth/logout", logout.New(logger).ServeHTTP)
		r.Get("/portfolios/share/{share_id}", portshare.New(logger, svc.Portfolio).ServeHTTP)

		// Группа с JWT аутентификацией
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.JWTMiddleware(jwtMaker, logger))
			r.Use(middlewarectx.RateLimitMiddleware(logger))

			r.Get("/auth/validate", validate.New(logger, svc.Auth).ServeHTTP)
			r.Post("/auth/refresh", refresh.New(logger, svc.Auth).ServeHTTP)

			r.Get("/users/profile", profileget.New(logger, svc.Auth).ServeHTTP)
			r.Put("/users/profile", profileupdate.New(logger, svc.Auth).ServeHTTP)

			r.Get("/subscription/status", status.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/subscription/create", subcreate.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/subscription/cancel", cancel.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/subscription/upgrade", upgrade.New(logger, svc.Subscription).ServeHTTP)
			r.Post("/subscription/reactivate", reactivate.New(logger, svc.Subscription).ServeHTTP)
			r.Get("/subscription/billing-history", billinghistory.New(logger, svc.Subscription).ServeHTTP)

			r.Get("/properties", proplist.New(logger, svc.Property).ServeHTTP)
			r.Post("/properties", propcreate.New(logger, svc.Property).ServeHTTP)
			r.Post("/properties/migrate", propmigrate.New(logger, svc.Property).ServeHTTP)
			r.Get("/properties/{property_id}", propread.New(logger, svc.Property).ServeHTTP)
			r.Put("/properties/{property_id}", propupdate.New(logger, svc.Property).ServeHTTP)
			r.Delete("/properties/{property_id}", propremove.New(logger, svc.Property).ServeHTTP)

			r.Get("/portfolios", portlist.New(logger, svc.Portfolio).ServeHTTP)
			r.Post("/portfolios", portcreate.New(logger, svc.Portfolio).ServeHTTP)
			r.Post("/portfolios/import", portimport.New(logger, svc.Portfolio).ServeHTTP)
			r.Post("/portfolios/migrate", portmigrate.New(logger, svc.Portfolio).ServeHTTP)
			r.Get("/portfolios/{portfolio_id}", portread.New(logger, svc.Portfolio).ServeHTTP)
			r.Put("/portfolios/{portfolio_id}", portupdate.New(logger, svc.Portfolio).ServeHTTP)
			r.Delete("/portfolios/{portfolio_id}", portremove.New(logger, svc.Portfolio).ServeHTTP)

			r.Get("/reports", replist.New(logger, svc.Report).ServeHTTP)
			r.Post("/reports", repcreate.New(logger, svc.Report).ServeHTTP)
			r.Post("/reports/migrate", repmigrate.New(logger, svc.Report).ServeHTTP)
			r.Get("/reports/{report_id}", repread.New(logger, svc.Report).ServeHTTP)
			r.Delete("/reports/{report_id}", repremove.New(logger, svc.Report).ServeHTTP)

			r.Post("/data/migrate", datamigrate.New(logger, svc.Data).ServeHTTP)
			r.Get("/data/stats", datastats.New(logger, svc.Data).ServeHTTP)
		})
	})

	r.Get("/health", health.New(logger, func() error {
		return repository.CheckDatabaseReady(db)
	}).ServeHTTP)
	r.Handle("/metrics", promhttp.Handler())
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
