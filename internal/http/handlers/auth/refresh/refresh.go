// Package refresh реализует HTTP-обработчик перевыпуска JWT для
// аутентифицированного пользователя.
package refresh

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

// Handler обрабатывает запросы на перевыпуск токена.
type Handler struct {
	log     *slog.Logger
	service Service
}

// Service описывает интерфейс бизнес-логики перевыпуска токена.
type Service interface {
	Refresh(ctx context.Context, userUID string) (*models.User, string, error)
}

// New создает новый Handler с переданными логгером и сервисом.
func New(log *slog.Logger, service Service) *Handler {
	return &Handler{
		log:     log,
		service: service,
	}
}

// ServeHTTP godoc
// @Summary Перевыпустить JWT
// @Description Выдаёт новый токен с полным сроком жизни по действующему токену.
// @Tags Auth
// @Produce  json
// @Security BearerAuth
// @Success 200 {object} map[string]any "Новый токен"
// @Failure 401 {object} response.ErrorResponse "Токен отсутствует или недействителен"
// @Failure 500 {object} response.ErrorResponse "Ошибка сервера"
// @Router /auth/refresh [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.refresh"

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

	user, token, err := h.service.Refresh(r.Context(), userUID)
	if err != nil {
		log.Error("failed to refresh token", sl.Err(err))
		w.WriteHeader(http.StatusInternalServerError)
		render.JSON(w, r, response.Error("failed to refresh token"))
		return
	}

	log.Info("token refreshed", slog.String("uid", userUID))
	render.JSON(w, r, response.OK(map[string]any{
		"token": token,
		"user":  user,
	}))
}
