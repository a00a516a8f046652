// Package remove реализует HTTP-обработчик удаления портфеля.
package remove

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// Handler обрабатывает запросы на удаление портфеля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики удаления портфеля.
type Service interface {
	Remove(ctx context.Context, userUID, id string) error
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Удалить портфель
// @Description Удаляет портфель текущего пользователя по ID.
// @Tags Portfolios
// @Produce  json
// @Security BearerAuth
// @Param portfolio_id path string true "ID портфеля"
// @Success 200 {object} map[string]any "Портфель удалён"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 404 {object} response.ErrorResponse "Портфель не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portfolios/{portfolio_id} [delete]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portfolio.remove"

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

	id := chi.URLParam(r, "portfolio_id")
	if err := h.service.Remove(r.Context(), userUID, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Portfolio not found"))
			return
		}
		log.Error("failed to remove portfolio", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to delete portfolio"))
		return
	}

	log.Info("portfolio removed", slog.String("id", id))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Portfolio deleted successfully",
	}))
}
