// Package read реализует HTTP-обработчик получения объекта недвижимости
// по ID. Чужой объект неотличим от несуществующего: в обоих случаях 404.
package read

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
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/storage/repository"
)

// Handler обрабатывает запросы чтения объекта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики чтения объекта.
type Service interface {
	Read(ctx context.Context, userUID, id string) (*models.Property, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить объект недвижимости
// @Description Возвращает объект текущего пользователя по ID.
// @Tags Properties
// @Produce  json
// @Security BearerAuth
// @Param property_id path string true "ID объекта"
// @Success 200 {object} map[string]any "Объект недвижимости"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 404 {object} response.ErrorResponse "Объект не найден"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /properties/{property_id} [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.property.read"

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

	id := chi.URLParam(r, "property_id")
	property, err := h.service.Read(r.Context(), userUID, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			w.WriteHeader(http.StatusNotFound)
			render.JSON(w, r, response.Error("Property not found"))
			return
		}
		log.Error("failed to read property", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get property"))
		return
	}

	render.JSON(w, r, response.OK(map[string]any{
		"property": property,
	}))
}
