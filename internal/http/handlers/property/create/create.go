// Package create реализует HTTP-обработчик сохранения нового объекта
// недвижимости. Идентификатор генерируется на сервере, единственное
// обязательное поле — адрес.
package create

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	propservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/property"
)

// Handler обрабатывает запросы на создание объекта.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания объекта.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyProperty) (*models.Property, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать объект недвижимости
// @Description Сохраняет новый объект текущего пользователя и возвращает его.
// @Tags Properties
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyProperty true "Данные объекта"
// @Success 201 {object} map[string]any "Объект создан"
// @Failure 400 {object} response.ErrorResponse "Адрес не указан"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /properties [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.property.create"

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

	var req models.DummyProperty
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	property, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, propservices.ErrAddressRequired) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Property address is required"))
			return
		}
		log.Error("failed to create property", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create property"))
		return
	}

	log.Info("property created", slog.String("id", property.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message":  "Property created successfully",
		"property": property,
	}))
}
