// Package purchases — подписки на мастер-классы и места "заплати вперёд".
package purchases

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

// Service платёжные операции.
type Service interface {
	CreateSubscription(ctx context.Context, req models.SubscriptionRequest) (*models.Subscription, error)
	ProcessPayment(ctx context.Context, req models.PaymentRequest) (*models.PaymentResult, error)
	BuyCharity(ctx context.Context, req models.CharityRequest) (*models.PaymentResult, error)
	ProcessCharityPayment(ctx context.Context, req models.CharityPaymentRequest) (*models.PaymentResult, error)
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает запросы /subscriptions и /charity.
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	validate *validator.Validate
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions) *Handler {
	return &Handler{log: log, sessions: sessions, validate: validator.New()}
}

// serve общий путь: сессия, тело, вызов, ответ.
func serve[Req any, Resp any](h *Handler, w http.ResponseWriter, r *http.Request, op string, status int,
	call func(ctx context.Context, s Service, req Req) (Resp, error),
) {
	log := h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req Req
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	resp, err := call(r.Context(), h.sessions(r.Context(), sid), req)
	if err != nil {
		log.Error("payment operation failed", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.Status(r, status)
	render.JSON(w, r, response.StatusOKWithData(resp))
}

// CreateSubscription godoc
// @Summary Подписка на мастер-класс
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body models.SubscriptionRequest true "Мастер-класс и способ оплаты"
// @Success 201 {object} response.Response{data=models.Subscription}
// @Failure 422 {object} response.ErrorResponse
// @Security SessionToken
// @Router /subscriptions [post]
func (h *Handler) CreateSubscription(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "handlers.purchases.CreateSubscription", http.StatusCreated,
		func(ctx context.Context, s Service, req models.SubscriptionRequest) (*models.Subscription, error) {
			return s.CreateSubscription(ctx, req)
		})
}

// ProcessPayment godoc
// @Summary Оплата подписки
// @Tags Subscriptions
// @Accept json
// @Produce json
// @Param request body models.PaymentRequest true "Подписка и способ оплаты"
// @Success 200 {object} response.Response{data=models.PaymentResult}
// @Security SessionToken
// @Router /subscriptions/payment [post]
func (h *Handler) ProcessPayment(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "handlers.purchases.ProcessPayment", http.StatusOK,
		func(ctx context.Context, s Service, req models.PaymentRequest) (*models.PaymentResult, error) {
			return s.ProcessPayment(ctx, req)
		})
}

// BuyCharity godoc
// @Summary Купить места "заплати вперёд"
// @Tags Charity
// @Accept json
// @Produce json
// @Param request body models.CharityRequest true "Мастер-класс и число мест"
// @Success 201 {object} response.Response{data=models.PaymentResult}
// @Security SessionToken
// @Router /charity [post]
func (h *Handler) BuyCharity(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "handlers.purchases.BuyCharity", http.StatusCreated,
		func(ctx context.Context, s Service, req models.CharityRequest) (*models.PaymentResult, error) {
			return s.BuyCharity(ctx, req)
		})
}

// ProcessCharityPayment godoc
// @Summary Оплата мест "заплати вперёд"
// @Tags Charity
// @Accept json
// @Produce json
// @Param request body models.CharityPaymentRequest true "Покупка и способ оплаты"
// @Success 200 {object} response.Response{data=models.PaymentResult}
// @Security SessionToken
// @Router /charity/payment [post]
func (h *Handler) ProcessCharityPayment(w http.ResponseWriter, r *http.Request) {
	serve(h, w, r, "handlers.purchases.ProcessCharityPayment", http.StatusOK,
		func(ctx context.Context, s Service, req models.CharityPaymentRequest) (*models.PaymentResult, error) {
			return s.ProcessCharityPayment(ctx, req)
		})
}
