// Package cart — корзина товаров.
package cart

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

// AddRequest товар и количество.
type AddRequest struct {
	ProductID int `json:"product_id" validate:"required,gt=0"`
	Quantity  int `json:"quantity" validate:"required,gt=0"`
}

// UpdateRequest новое количество позиции.
type UpdateRequest struct {
	Quantity int `json:"quantity" validate:"required,gt=0"`
}

// Service операции корзины.
type Service interface {
	RefreshCart(ctx context.Context) (models.Cart, error)
	AddToCart(ctx context.Context, productID, quantity int) (models.Cart, error)
	UpdateCartItem(ctx context.Context, itemID, quantity int) (models.Cart, error)
	RemoveFromCart(ctx context.Context, itemID int) (models.Cart, error)
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает запросы /cart.
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
// @Summary Корзина
// @Tags Cart
// @Produce json
// @Success 200 {object} response.Response{data=models.Cart}
// @Security SessionToken
// @Router /cart [get]
func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.cart.Get")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	c, err := h.sessions(r.Context(), sid).RefreshCart(r.Context())
	if err != nil {
		log.Error("failed to load cart", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(c))
}

// Add godoc
// @Summary Добавить товар
// @Tags Cart
// @Accept json
// @Produce json
// @Param request body AddRequest true "Товар"
// @Success 200 {object} response.Response{data=models.Cart}
// @Failure 422 {object} response.ErrorResponse
// @Security SessionToken
// @Router /cart/items [post]
func (h *Handler) Add(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.cart.Add")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req AddRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	c, err := h.sessions(r.Context(), sid).AddToCart(r.Context(), req.ProductID, req.Quantity)
	if err != nil {
		log.Error("failed to add to cart", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(c))
}

// Update godoc
// @Summary Изменить количество
// @Description Изменение применяется сразу и откатывается, если сервер отказал.
// @Tags Cart
// @Accept json
// @Produce json
// @Param id path int true "ID позиции"
// @Param request body UpdateRequest true "Количество"
// @Success 200 {object} response.Response{data=models.Cart}
// @Failure 404 {object} response.ErrorResponse
// @Security SessionToken
// @Router /cart/items/{id} [put]
func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.cart.Update")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	itemID, ok := request.IntParam(w, r, log, "id")
	if !ok {
		return
	}
	var req UpdateRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	c, err := h.sessions(r.Context(), sid).UpdateCartItem(r.Context(), itemID, req.Quantity)
	if err != nil {
		log.Error("failed to update cart item", sl.Session(sid), slog.Int("item_id", itemID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(c))
}

// Remove godoc
// @Summary Удалить позицию
// @Tags Cart
// @Produce json
// @Param id path int true "ID позиции"
// @Success 200 {object} response.Response{data=models.Cart}
// @Failure 404 {object} response.ErrorResponse
// @Security SessionToken
// @Router /cart/items/{id} [delete]
func (h *Handler) Remove(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.cart.Remove")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	itemID, ok := request.IntParam(w, r, log, "id")
	if !ok {
		return
	}
	c, err := h.sessions(r.Context(), sid).RemoveFromCart(r.Context(), itemID)
	if err != nil {
		log.Error("failed to remove cart item", sl.Session(sid), slog.Int("item_id", itemID), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(c))
}
