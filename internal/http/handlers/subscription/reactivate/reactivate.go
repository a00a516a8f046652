// Package reactivate реализует HTTP-обработчик возобновления отменённой
// подписки на платном тарифе. Пробный период повторно не выдаётся.
package reactivate

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
	subservices "github.com/GisoInvest/giso-invest-auth-backend/internal/services/subscription"
)

// Request — входные данные возобновления подписки
type Request struct {
	Plan string `json:"plan" validate:"required,oneof=starter professional enterprise"`
}

// Handler обрабатывает запросы на возобновление подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики возобновления подписки.
type Service interface {
	Reactivate(ctx context.Context, userUID, plan string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:      log,
		service:  service,
		validate: validator.New(),
	}
}

// ServeHTTP godoc
// @Summary Возобновить подписку
// @Description Возобновляет отменённую подписку на выбранном тарифе с новым платёжным периодом.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Тариф"
// @Success 200 {object} map[string]any "Подписка возобновлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный тариф или подписка не отменена"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/reactivate [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.reactivate"

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
		render.JSON(w, r, response.Error("Plan is required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Reactivate(r.Context(), userUID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, subservices.ErrInvalidPlan):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid plan selected"))
		case errors.Is(err, subservices.ErrNotCancelled):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("No cancelled subscription to reactivate"))
		default:
			log.Error("failed to reactivate subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to reactivate subscription"))
		}
		return
	}

	log.Info("subscription reactivated", slog.String("uid", userUID), slog.String("plan", req.Plan))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Subscription reactivated successfully",
		"subscription": map[string]any{
			"plan":       user.SubscriptionPlan,
			"status":     user.SubscriptionStatus,
			"start_date": user.SubscriptionStartDate,
			"end_date":   user.SubscriptionEndDate,
		},
	}))
}
