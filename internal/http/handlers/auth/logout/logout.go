// Package logout реализует HTTP-обработчик выхода из учётной записи.
// Сессии хранятся на клиенте, поэтому выход всегда успешен — даже с
// просроченным токеном.
package logout

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/GisoInvest/giso-invest-auth-backend/internal/http/response"
)

// Handler обрабатывает запросы на выход.
type Handler struct {
	log *slog.Logger
}

// New создает новый Handler с переданным логгером.
func New(log *slog.Logger) *Handler {
	return &Handler{log: log}
}

// ServeHTTP godoc
// @Summary Выйти из учётной записи
// @Description Подтверждает выход. Токен при этом не отзывается, клиент удаляет его сам.
// @Tags Auth
// @Produce  json
// @Success 200 {object} map[string]any "Успешный выход"
// @Router /auth/logout [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.auth.logout"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	log.Info("user logged out")

	render.JSON(w, r, response.OK(map[string]any{
		"message": "Logout successful",
	}))
}
