// Package create реализует HTTP-обработчик создания нового портфеля.
// Идентификатор и публичная ссылка генерируются на сервере, портфель
// создаётся непубличным.
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
	portservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/portfolio"
)

// Handler обрабатывает запросы на создание портфеля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики создания портфеля.
type Service interface {
	Create(ctx context.Context, userUID string, req models.DummyPortfolio) (*models.Portfolio, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Создать портфель
// @Description Сохраняет новый портфель текущего пользователя и возвращает его.
// @Tags Portfolios
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.DummyPortfolio true "Данные портфеля"
// @Success 201 {object} map[string]any "Портфель создан"
// @Failure 400 {object} response.ErrorResponse "Имя портфеля не указано"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portfolios [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portfolio.create"

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

	portfolio, err := h.service.Create(r.Context(), userUID, req)
	if err != nil {
		if errors.Is(err, portservices.ErrNameRequired) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Portfolio name is required"))
			return
		}
		log.Error("failed to create portfolio", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create portfolio"))
		return
	}

	log.Info("portfolio created", slog.String("id", portfolio.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message":   "Portfolio created successfully",
		"portfolio": portfolio,
	}))
}
