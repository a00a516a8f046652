// Package health реализует HTTP-обработчик проверки живости сервиса.
package health

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/render"
)

// Handler обрабатывает запросы проверки состояния сервиса.
type Handler struct {
	log   *slog.Logger
	ready func() error
}

// New создает новый Handler. ready проверяет готовность зависимостей.
func New(log *slog.Logger, ready func() error) *Handler {
	return &Handler{
		log:   log,
		ready: ready,
	}
}

// ServeHTTP godoc
// @Summary Проверить состояние сервиса
// @Tags Service
// @Produce  json
// @Success 200 {object} map[string]any "Сервис работает"
// @Failure 503 {object} map[string]any "Зависимости недоступны"
// @Router /health [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.health"

	if err := h.ready(); err != nil {
		h.log.Error("health check failed", slog.String("op", op), slog.String("error", err.Error()))
		w.WriteHeader(http.StatusServiceUnavailable)
		render.JSON(w, r, map[string]any{
			"status":  "unhealthy",
			"service": "GISO Invest Authentication Service",
		})
		return
	}

	w.WriteHeader(http.StatusOK)
	render.JSON(w, r, map[string]any{
		"status":  "healthy",
		"service": "GISO Invest Authentication Service",
	})
}
