// Package importone реализует HTTP-обработчик одиночного импорта портфеля
// из клиентского хранилища. Уже существующий портфель с тем же ID — конфликт.
package importone

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

// Handler обрабатывает запросы одиночного импорта портфеля.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики одиночного импорта.
type Service interface {
	Import(ctx context.Context, userUID string, payload models.ImportPortfolio) (*models.Portfolio, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Импортировать портфель
// @Description Переносит один портфель из клиентского хранилища. Существующий ID — конфликт.
// @Tags Portfolios
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body models.ImportPortfolio true "Запись импорта"
// @Success 201 {object} map[string]any "Портфель импортирован"
// @Failure 400 {object} response.ErrorResponse "Некорректная запись импорта"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 409 {object} response.ErrorResponse "Портфель уже существует"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /portfolios/import [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.portfolio.importone"

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

	var req models.ImportPortfolio
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		log.Error("failed to decode request body", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.Error("invalid request body"))
		return
	}

	portfolio, err := h.service.Import(r.Context(), userUID, req)
	if err != nil {
		switch {
		case errors.Is(err, portservices.ErrInvalidPayload):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid portfolio data"))
		case errors.Is(err, portservices.ErrPortfolioExists):
			w.WriteHeader(http.StatusConflict)
			render.JSON(w, r, response.Error("Portfolio already exists"))
		default:
			log.Error("failed to import portfolio", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to import portfolio"))
		}
		return
	}

	log.Info("portfolio imported", slog.String("id", portfolio.ID))
	w.WriteHeader(http.StatusCreated)
	render.JSON(w, r, response.OK(map[string]any{
		"message":   "Portfolio imported successfully",
		"portfolio": portfolio,
	}))
}
