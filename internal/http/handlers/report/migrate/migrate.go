// Package migrate реализует HTTP-обработчик пакетного импорта отчётов.
package migrate

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

// Request описывает тело запроса с отчётами для импорта.
type Request struct {
	Reports []models.ImportReport `json:"reports"`
}

// Handler обрабатывает запросы на миграцию отчётов.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики миграции отчётов.
type Service interface {
	Migrate(ctx context.Context, userUID string, payload []models.ImportReport) (int, int, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Импортировать отчёты
// @Description Идемпотентно переносит отчёты пользователя. Повторный вызов не создаёт дубликатов.
// @Tags Reports
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param input body Request true "Список отчётов"
// @Success 200 {object} map[string]any "Результат миграции"
// @Failure 400 {object} response.ErrorResponse "Отчёты не переданы"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /reports/migrate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.report.migrate"

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

	var req Request
	if err := render.DecodeJSON(r.Body, &req); err != nil || req.Reports == nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("No reports provided"))
		return
	}

	imported, skipped, err := h.service.Migrate(r.Context(), userUID, req.Reports)
	if err != nil {
		log.Error("failed to migrate reports", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to migrate reports"))
		return
	}

	log.Info("reports migrated",
		slog.Int("imported", imported),
		slog.Int("skipped", skipped),
	)
	render.JSON(w, r, response.OK(map[string]any{
		"message":        fmt.Sprintf("Migrated %d reports, skipped %d", imported, skipped),
		"imported_count": imported,
		"skipped_count":  skipped,
	}))
}
