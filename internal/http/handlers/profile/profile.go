// Package profile — профиль пользователя, рекомендации и отзывы.
package profile

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/go-chi/render"
	"github.com/go-playground/validator"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/request"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/response"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// Service — операции профиля.
type Service interface {
	FetchProfile(ctx context.Context) (*models.User, error)
	SuggestWorkshops(ctx context.Context) ([]models.Workshop, error)
	AddReview(ctx context.Context, req models.ReviewRequest) (*models.Review, error)
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает запросы /profile.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{log: log, sessions: sessions, validate: validator.New()}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Get godoc
// @Summary Профиль
// @Description Перечитывает профиль с сервера: подписки, заказы, уведомления.
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response{data=models.User}
// @Failure 401 {object} response.ErrorResponse
// @Security SessionToken
// @Router /profile [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profile.Get")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	user, err := h.sessions(r.Context(), sid).FetchProfile(r.Context())
	if err != nil {
		log.Error("failed to fetch profile", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(user))
}

// Suggestions godoc
// @Summary Рекомендованные мастер-классы
// @Tags Profile
// @Produce json
// @Success 200 {object} response.Response{data=[]models.Workshop}
// @Security SessionToken
// @Router /profile/suggestions [get]
func (h *Handler) Suggestions(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profile.Suggestions")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	workshops, err := h.sessions(r.Context(), sid).SuggestWorkshops(r.Context())
	if err != nil {
		log.Error("failed to load suggestions", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(workshops))
}

// AddReview godoc
// @Summary Отзыв о мастер-классе
// @Tags Profile
// @Accept json
// @Produce json
// @Param request body models.ReviewRequest true "Отзыв"
// @Success 201 {object} response.Response{data=models.Review}
// @Failure 422 {object} response.ErrorResponse
// @Security SessionToken
// @Router /profile/reviews [post]
func (h *Handler) AddReview(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.profile.AddReview")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req models.ReviewRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	review, err := h.sessions(r.Context(), sid).AddReview(r.Context(), req)
	if err != nil {
		log.Error("failed to add review", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(review))
}
