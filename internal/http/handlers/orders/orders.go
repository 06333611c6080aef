// Package orders — оформление заказа товаров.
package orders

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

// Service — операции заказа.
type Service interface {
	OrderSummary(ctx context.Context) (*models.OrderSummary, error)
	CreateOrder(ctx context.Context, req models.OrderRequest) (*models.Order, error)
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает запросы /orders.
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

// Summary godoc
// @Summary Расчёт заказа
// @Tags Orders
// @Produce json
// @Success 200 {object} response.Response{data=models.OrderSummary}
// @Security SessionToken
// @Router /orders/summary [get]
func (h *Handler) Summary(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.orders.Summary")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	summary, err := h.sessions(r.Context(), sid).OrderSummary(r.Context())
	if err != nil {
		log.Error("failed to load order summary", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(summary))
}

// Create godoc
// @Summary Оформить заказ
// @Description Создаёт заказ из корзины. Корзина очищается.
// @Tags Orders
// @Accept json
// @Produce json
// @Param request body models.OrderRequest true "Доставка и оплата"
// @Success 201 {object} response.Response{data=models.Order}
// @Failure 422 {object} response.ErrorResponse
// @Security SessionToken
// @Router /orders [post]
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.orders.Create")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req models.OrderRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	order, err := h.sessions(r.Context(), sid).CreateOrder(r.Context(), req)
	if err != nil {
		log.Error("failed to create order", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	log.Info("order created", sl.Session(sid), slog.Int("order_id", order.ID))
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(order))
}
