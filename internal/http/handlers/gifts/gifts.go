// Package gifts — подарки мастер-классов.
package gifts

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

// Service — операции подарков.
type Service interface {
	CreateGift(ctx context.Context, req models.GiftRequest) (*models.GiftResult, error)
	ListSentGifts(ctx context.Context) ([]models.PendingGift, error)
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает запросы /gifts.
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

// Create godoc
// @Summary Подарить мастер-класс
// @Description Оплачивает место и сохраняет подарок до входа получателя по номеру WhatsApp.
// @Tags Gifts
// @Accept json
// @Produce json
// @Param request body models.GiftRequest true "Получатель и мастер-класс"
// @Success 201 {object} response.Response{data=models.GiftResult}
// @Failure 422 {object} response.ErrorResponse "Самому себе дарить нельзя"
// @Security SessionToken
// @Router /gifts [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.gifts.Create")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req models.GiftRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	result, err := h.sessions(r.Context(), sid).CreateGift(r.Context(), req)
	if err != nil {
		log.Warn("failed to create gift", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(result))
}

// List godoc
// @Summary Отправленные подарки
// @Tags Gifts
// @Produce json
// @Success 200 {object} response.Response{data=[]models.PendingGift}
// @Security SessionToken
// @Router /gifts [get]
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.gifts.List")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	gifts, err := h.sessions(r.Context(), sid).ListSentGifts(r.Context())
	if err != nil {
		log.Error("failed to list gifts", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(gifts))
}
