// Package session выдаёт браузеру сессионный токен.
package session

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/response"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
)

// Issuer выдаёт идентификаторы новых сессий.
type Issuer interface {
	NewSessionID() string
}

// Response — новая сессия.
type Response struct {
	Token     string `json:"token"`
	SessionID string `json:"session_id"`
}

// Handler обрабатывает POST /sessions.
type Handler struct {
	log    *slog.Logger
	issuer Issuer
	maker  jwt.Maker
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, issuer Issuer, maker jwt.Maker) *Handler {
	return &Handler{log: log, issuer: issuer, maker: maker}
}

// ServeHTTP godoc
// @Summary Новая сессия
// @Description Создаёт сессию витрины и возвращает подписанный токен для заголовка Authorization.
// @Tags Session
// @Produce json
// @Success 201 {object} response.Response{data=Response}
// @Failure 500 {object} response.ErrorResponse
// @Router /sessions [post]
func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.session.New"

	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)

	sid := h.issuer.NewSessionID()
	token, err := h.maker.GenerateToken(sid)
	if err != nil {
		log.Error("failed to generate session token", sl.Err(err))
		render.Status(r, http.StatusInternalServerError)
		render.JSON(w, r, response.Error("internal error"))
		return
	}

	log.Info("session created", sl.Session(sid))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(Response{Token: token, SessionID: sid}))
}
