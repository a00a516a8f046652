// Package update реализует HTTP-обработчик частичного обновления портфеля.
// Запись пакетов сделок сопровождается пересчётом статистики на сервере.
package update

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	portservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/portfolio"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// Handler обрабатывает запросы на обновление портфеля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики обновления портфеля.
type Service interface {
	Update(ctx context.Context, userUID, id string, req models.DummyPortfolio) (*models.Portfolio, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Обновить портфель
// @Description Частично обновляет портфель текущего пользователя по ID.
// @Tags Portfolios
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param portfolio_id path string true "ID портфеля"
// @Param request body models.DummyPortfolio true "Изменяемые поля"
// @Success 200 {object} map[string]any "Портфель обновлён"
// @Failure 400 {object} response.ErrorResponse "Некорректный запрос"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 404 {object} response.ErrorResponse "Портфель не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portfolios/{portfolio_id} [put]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portfolio.update"

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

	var req models.DummyPortfolio
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	id := chi.URLParam(r, "portfolio_id")
	portfolio, err := h.service.Update(r.Context(), userUID, id, req)
	if err != nil {
		switch {
		case errors.Is(err, repository.ErrNotFound):
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Portfolio not found"))
		case errors.Is(err, portservices.ErrNameRequired):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Portfolio name is required"))
		default:
			log.Error("failed to update portfolio", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to update portfolio"))
		}
		return
	}

	log.Info("portfolio updated", slog.String("id", id))
	render.JSON(w, r, response.OK(map[string]any{
		"message":   "Portfolio updated successfully",
		"portfolio": portfolio,
	}))
}
