// Package validate реализует HTTP-обработчик проверки действующей сессии.
// Подпись и срок токена проверяет JWT middleware, обработчик возвращает
// актуальную запись пользователя из хранилища.
package validate

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/middlewarectx"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/lib/sl"
	"github.com/GisoInvest/giso-invest-auth-backend/internal/models"
)

// Handler обрабатывает запросы на проверку сессии.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс получения записи пользователя.
type Service interface {
	Profile(ctx context.Context, userUID string) (*models.User, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Проверить действующую сессию
// @Description Возвращает valid: true и актуальную запись пользователя для валидного токена.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Сессия действительна"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/validate [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.validate"

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

	user, err := h.service.Profile(r.Context(), userUID)
	if err != nil {
		log.Error("failed to load user", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to validate session"))
		return
	}

	render.JSON(w, r, map[string]any{
		"valid": true,
		"user":  user,
	})
}
