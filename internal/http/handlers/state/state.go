// Package state отдаёт снимок состояния витрины.
package state

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/request"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/response"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/storefront"
)

// Service отдаёт снимок состояния.
type Service interface {
	Snapshot() storefront.State
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает GET /state.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{log: log, sessions: sessions}
}

// ServeHTTP godoc
// @Summary Состояние витрины
// @Description Пользователь, корзина, каталог, контент и счётчик уведомлений.
// @Tags State
// @Produce json
// @Success 200 {object} response.Response{data=storefront.State}
// @Security SessionToken
// @Router /state [get]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	log := h.log.With(
		slog.String("op", "handlers.state.Get"),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	render.JSON(w, r, response.StatusOKWithData(h.sessions(r.Context(), sid).Snapshot()))
}
