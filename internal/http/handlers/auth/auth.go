// Package auth реализует вход, регистрацию и выход пользователя витрины.
//
// Отказ входа возвращается со статусом 401 и причиной в data.reason:
// concurrent_session, email, phone или generic.
package auth

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/request"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/response"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// LoginRequest — учетные данные: почта и телефон.
type LoginRequest struct {
	Email string `json:"email" validate:"required,email"`
	Phone string `json:"phone" validate:"required"`
}

// Service — операции сессии пользователя.
type Service interface {
	Login(ctx context.Context, email, phone string) (*models.User, error)
	Register(ctx context.Context, req drhope.RegisterRequest) (*models.User, error)
	Logout(ctx context.Context) error
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает запросы /auth.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{
		log:      log,
		sessions: sessions,
		validate: validator.New(),
	}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Login godoc
// @Summary Вход
// @Description Вход по почте и телефону. После входа забираются ожидающие подарки.
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Учетные данные"
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.Response "Причина в data.reason"
// @Failure 422 {object} response.ErrorResponse
// @Security SessionToken
// @Router /auth/login [post]
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.Login")

	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req LoginRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.sessions(r.Context(), sid).Login(r.Context(), req.Email, req.Phone)
	if err != nil {
		log.Warn("login failed", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("login success", sl.Session(sid), slog.Int("user_id", user.ID))
	render.JSON(w, r, response.StatusOKWithData(user))
}

// Register godoc
// @Summary Регистрация
// @Tags Auth
// @Accept json
// @Produce json
// @Param request body drhope.RegisterRequest true "Данные нового пользователя"
// @Success 201 {object} response.Response{data=models.User}
// @Failure 401 {object} response.Response "Причина в data.reason"
// @Failure 422 {object} response.ErrorResponse
// @Security SessionToken
// @Router /auth/register [post]
func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.Register")

	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req drhope.RegisterRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}

	user, err := h.sessions(r.Context(), sid).Register(r.Context(), req)
	if err != nil {
		log.Warn("register failed", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}

	log.Info("register success", sl.Session(sid), slog.Int("user_id", user.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(user))
}

// Logout godoc
// @Summary Выход
// @Tags Auth
// @Produce json
// @Success 200 {object} response.Response
// @Security SessionToken
// @Router /auth/logout [post]
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.auth.Logout")

	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	if err := h.sessions(r.Context(), sid).Logout(r.Context()); err != nil {
		log.Error("logout failed", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(nil))
}
