// Package create реализует HTTP-обработчик оформления платной подписки.
//
// Handler принимает тариф и идентификатор способа оплаты, валидирует их,
// вызывает бизнес-логику оформления и возвращает обновлённые параметры
// подписки.
package create

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

// Request — входные данные оформления подписки
type Request struct {
	Plan            string `json:"plan" validate:"required,oneof=starter professional enterprise"`
	PaymentMethodID string `json:"payment_method_id" validate:"required"`
}

// Handler обрабатывает запросы на оформление подписки.
type Handler struct {
	log      *slog.Logger
	service  Service
	validate *validator.Validate
}

// Service описывает интерфейс бизнес-логики оформления подписки.
type Service interface {
	Create(ctx context.Context, userUID, plan, paymentMethodID string) (*models.User, error)
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
// @Summary Оформить платную подписку
// @Description Активирует выбранный тариф для текущего пользователя и отключает пробный период.
// @Tags Subscription
// @Accept  json
// @Produce  json
// @Security BearerAuth
// @Param request body Request true "Тариф и способ оплаты"
// @Success 200 {object} map[string]any "Подписка оформлена"
// @Failure 400 {object} response.ErrorResponse "Некорректный тариф или запрос"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/create [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.create"

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
		render.JSON(w, r, response.Error("Plan and payment method are required"))
		return
	}

	if err := h.validate.Struct(req); err != nil {
		log.Error("validation failed", sl.Err(err))
		w.WriteHeader(http.StatusBadRequest)
		render.JSON(w, r, response.ValidationError(err.(validator.ValidationErrors)))
		return
	}

	user, err := h.service.Create(r.Context(), userUID, req.Plan, req.PaymentMethodID)
	if err != nil {
		if errors.Is(err, subservices.ErrInvalidPlan) {
			w.WriteHeader(http.StatusBadRequest)
			render.JSON(w, r, response.Error("Invalid plan selected"))
			return
		}
		log.Error("failed to create subscription", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to create subscription"))
		return
	}

	log.Info("subscription created", slog.String("uid", userUID), slog.String("plan", req.Plan))
	render.JSON(w, r, response.OK(map[string]any{
		"message": "Subscription created successfully",
		"subscription": map[string]any{
			"plan":       user.SubscriptionPlan,
			"status":     user.SubscriptionStatus,
			"start_date": user.SubscriptionStartDate,
			"end_date":   user.SubscriptionEndDate,
		},
	}))
}
