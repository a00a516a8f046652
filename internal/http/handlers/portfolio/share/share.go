// Package share реализует публичный HTTP-обработчик просмотра портфеля
// по ссылке. Аутентификация не требуется, непубличные портфели неотличимы
// от несуществующих.
package share

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// Handler обрабатывает публичные запросы просмотра портфеля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения публичного портфеля по ссылке.
type Service interface {
	Shared(ctx context.Context, shareID string) (*models.Portfolio, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить публичный портфель
// @Description Возвращает опубликованный портфель по ссылке без аутентификации.
// @Tags Portfolios
// @Produce  json
// @Param share_id path string true "Публичная ссылка портфеля"
// @Success 200 {object} map[string]any "Портфель"
// @Failure 404 {object} response.ErrorResponse "Портфель не найден или не опубликован"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portfolios/share/{share_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portfolio.share"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	shareID := chi.URLParam(r, "share_id")
	portfolio, err := h.service.Shared(r.Context(), shareID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Shared portfolio not found"))
			return
		}
		log.Error("failed to read shared portfolio", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get shared portfolio"))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"portfolio": portfolio,
	}))
}
