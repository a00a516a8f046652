// Package migrate реализует HTTP-обработчик пакетного импорта портфелей
// из клиентского хранилища. Импорт идемпотентен: дубликаты и некорректные
// записи пропускаются.
package migrate

import (
	"context"
	"encoding/json"
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

// Request — тело запроса пакетного импорта
type Request struct {
	Portfolios []models.ImportPortfolio `json:"portfolios"`
}

// Handler обрабатывает запросы пакетного импорта портфелей.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики импорта портфелей.
type Service interface {
	Migrate(ctx context.Context, userUID string, payload []models.ImportPortfolio) (imported, skipped int, err error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Импортировать портфели
// @Description Идемпотентно переносит портфели из клиентского хранилища. Дубликаты пропускаются.
// @Tags Portfolios
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Список портфелей"
// @Success 200 {object} map[string]any "Итог импорта"
// @Failure 400 {object} response.ErrorResponse "Список портфелей не передан"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portfolios/migrate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portfolio.migrate"

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
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}
	if req.Portfolios == nil {
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("No portfolios provided"))
		return
	}

	imported, skipped, err := h.service.Migrate(r.Context(), userUID, req.Portfolios)
	if err != nil {
		log.Error("failed to migrate portfolios", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to migrate portfolios"))
		return
	}

	log.Info("portfolios migrated",
		slog.Int("imported", imported), slog.Int("skipped", skipped))
	render.JSON(w, r, response.OK(map[string]any{
		"message":        fmt.Sprintf("Migrated %d portfolios, skipped %d", imported, skipped),
		"imported_count": imported,
		"skipped_count":  skipped,
	}))
}
