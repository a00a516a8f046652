// Package upgrade реализует HTTP-обработчик смены тарифа. Разрешён только
// переход на план строго выше текущего.
package upgrade

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

// Request — входные данные смены тарифа
type Request struct {
	Plan string `json:"plan" validate:"required,oneof=starter professional enterprise"`
}

// Handler обрабатывает запросы на смену тарифа.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики смены тарифа.
type Service interface {
	Upgrade(ctx context.Context, userUID, newPlan string) (*models.User, error)
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
// @Summary Повысить тариф
// @Description Переводит подписку на план строго выше текущего. Даунгрейд запрещён.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Новый тариф"
// @Success 200 {object} map[string]any "Тариф повышен"
// @Failure 400 {object} response.ErrorResponse "Некорректный тариф или даунгрейд"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/upgrade [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.upgrade"

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
		render.JSON(w, r, response.Error("New plan is required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Upgrade(r.Context(), userUID, req.Plan)
	if err != nil {
		switch {
		case errors.Is(err, subservices.ErrInvalidPlan):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid plan selected"))
		case errors.Is(err, subservices.ErrPlanDowngrade):
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Can only upgrade to a higher plan"))
		default:
			log.Error("failed to upgrade subscription", sl.Err(err))
			w.WriteHeader(http.StatusInternalServerError)
			render.JSON(w, r, response.Error("failed to upgrade subscription"))
		}
		return
	}

	log.Info("subscription upgraded", slog.String("uid", userUID), slog.String("plan", req.Plan))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Subscription upgraded successfully",
		"subscription": map[string]any{
			"plan":       user.SubscriptionPlan,
			"status":     user.SubscriptionStatus,
			"start_date": user.SubscriptionStartDate,
			"end_date":   user.SubscriptionEndDate,
		},
	}))
}
