// Package migrate реализует HTTP-обработчик комбинированной миграции
// всех данных пользователя одним запросом.
package migrate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	dataservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/data"
)

// Handler обрабатывает запросы комбинированной миграции данных.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики комбинированной миграции.
type Service interface {
	Migrate(ctx context.Context, userUID string, payload dataservices.MigratePayload) (dataservices.MigrateResults, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Мигрировать все данные пользователя
// @Description Идемпотентно переносит объекты, портфели и отчёты одной транзакцией.
// @Tags Data
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param input body services.MigratePayload true "Данные для переноса"
// @Success 200 {object} map[string]any "Результат миграции по сущностям"
// @Failure 400 {object} response.ErrorResponse "Данные не переданы"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /data/migrate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.data.migrate"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	userUID, ok := r.Context().Value(middlewarectx.UserUID).(string)
	if !ok || userUID == "" {
		log.Error("user identification missing")
		w.WriteHeader(http.StatusUnauthorized)
		render.JSON(w, r, response.Error("unauthorized"))
		return
	}

	var payload dataservices.MigratePayload
	if err := render.DecodeJSON(r.Body, &payload); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("No data provided"))
		return
	}
	if payload.Properties == nil && payload.Portfolios == nil && payload.Reports == nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("No data provided"))
		return
	}

	results, err := h.service.Migrate(r.Context(), userUID, payload)
	if err != nil {
		log.Error("failed to migrate user data", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to migrate data"))
		return
	}

	log.Info("user data migrated",
		slog.Int("properties_imported", results.Properties.Imported),
		slog.Int("portfolios_imported", results.Portfolios.Imported),
		slog.Int("reports_imported", results.Reports.Imported),
	)
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Data migration completed successfully",
		"results": results,
	}))
}
