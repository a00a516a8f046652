// Package status реализует HTTP-обработчик получения статуса подписки.
//
// Каждый запрос пересчитывает состояние пробного периода на текущий момент
// и синхронизирует денормализованные поля в базе, поэтому ответ всегда
// отражает фактическое положение дел.
package status

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/trial"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

// Handler обрабатывает запросы статуса подписки.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс пересчёта статуса подписки.
type Service interface {
	Status(ctx context.Context, userUID string) (*models.User, trial.Result, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Получить статус подписки
// @Description Пересчитывает состояние пробного периода и возвращает тариф, статус и права доступа.
// @Tags Subscription
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Статус подписки"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /subscription/status [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.subscription.status"

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

	user, res, err := h.service.Status(r.Context(), userUID)
	if err != nil {
		log.Error("failed to get subscription status", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to get subscription status"))
		return
	}

	render.JSON(w, r, map[string]any{
		"user_id":                 user.UID,
		"subscription_plan":       user.SubscriptionPlan,
		"subscription_status":     user.SubscriptionStatus,
		"trial_start_date":        user.TrialStartDate.Format(time.RFC3339),
		"trial_end_date":          user.TrialEndDate.Format(time.RFC3339),
		"subscription_start_date": user.SubscriptionStartDate,
		"subscription_end_date":   user.SubscriptionEndDate,
		"trial_status":            res,
		"is_trial_active":         res.IsActive,
		"is_trial_expired":        res.IsExpired,
		"days_remaining":          res.DaysRemaining,
	})
}
