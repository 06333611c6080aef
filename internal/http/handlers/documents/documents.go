// Package documents отдаёт сертификаты и счета подписок потоком PDF.
package documents

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/request"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/response"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
	docs "github.com/magabrotheeeer/drhope-gateway/internal/services/documents"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/storefront"
)

// Session — то, что нужно от состояния витрины.
type Session interface {
	Token() string
	SubscriptionWorkshop(ctx context.Context, subscriptionID int) (*models.User, *models.Workshop, error)
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Session

// Service — выдача документов.
type Service interface {
	Certificate(ctx context.Context, token, rawID string) (*docs.Document, error)
	Invoice(ctx context.Context, token, rawID string) (*docs.Document, error)
	RenderCertificate(user *models.User, rawID string, workshop *models.Workshop) (*docs.Document, error)
}

// Handler обрабатывает запросы /subscriptions/{id}/...
type Handler struct {
	log      *slog.Logger
	sessions Sessions
	service  Service
}

// New создает новый экземпляр Handler.
func New(log *slog.Logger, sessions Sessions, service Service) *Handler {
	return &Handler{log: log, sessions: sessions, service: service}
}

func (h *Handler) logger(r *http.Request, op string) *slog.Logger {
	return h.log.With(
		slog.String("op", op),
		slog.String("request_id", middleware.GetReqID(r.Context())),
	)
}

// Certificate godoc
// @Summary Сертификат
// @Description PDF для встроенного просмотра. Принимает id вида 123 и sub-123.
// @Tags Documents
// @Produce application/pdf
// @Param id path string true "ID подписки"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse
// @Security SessionToken
// @Router /subscriptions/{id}/certificate [get]
func (h *Handler) Certificate(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, "handlers.documents.Certificate", h.service.Certificate)
}

// Invoice godoc
// @Summary Счёт
// @Description PDF для скачивания.
// @Tags Documents
// @Produce application/pdf
// @Param id path string true "ID подписки"
// @Success 200 {file} binary
// @Failure 400 {object} response.ErrorResponse
// @Security SessionToken
// @Router /subscriptions/{id}/invoice [get]
func (h *Handler) Invoice(w http.ResponseWriter, r *http.Request) {
	h.fetch(w, r, "handlers.documents.Invoice", h.service.Invoice)
}

func (h *Handler) fetch(w http.ResponseWriter, r *http.Request, op string,
	get func(ctx context.Context, token, rawID string) (*docs.Document, error),
) {
	log := h.logger(r, op)
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	token := h.sessions(r.Context(), sid).Token()
	if token == "" {
		response.Fail(w, r, storefront.ErrNotAuthenticated)
		return
	}

	doc, err := get(r.Context(), token, chi.URLParam(r, "id"))
	if err != nil {
		log.Error("failed to fetch document", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	h.write(w, log, doc)
}

// Rendered godoc
// @Summary Сертификат, нарисованный шлюзом
// @Description Рисует сертификат по шаблону из данных пользователя и мастер-класса.
// @Tags Documents
// @Produce application/pdf
// @Param id path string true "ID подписки"
// @Success 200 {file} binary
// @Failure 403 {object} response.ErrorResponse
// @Failure 501 {object} response.ErrorResponse "Шаблон не настроен"
// @Security SessionToken
// @Router /subscriptions/{id}/certificate/rendered [get]
func (h *Handler) Rendered(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.documents.Rendered")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	rawID := chi.URLParam(r, "id")
	id, err := docs.NormalizeSubscriptionID(rawID)
	if err != nil {
		response.Fail(w, r, err)
		return
	}
	subID, _ := strconv.Atoi(id)

	user, workshop, err := h.sessions(r.Context(), sid).SubscriptionWorkshop(r.Context(), subID)
	if err != nil {
		log.Warn("certificate not available", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	doc, err := h.service.RenderCertificate(user, id, workshop)
	if err != nil {
		log.Error("failed to render certificate", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	h.write(w, log, doc)
}

func (h *Handler) write(w http.ResponseWriter, log *slog.Logger, doc *docs.Document) {
	w.Header().Set("Content-Type", doc.ContentType)
	w.Header().Set("Content-Disposition", doc.ContentDisposition())
	w.Header().Set("Content-Length", strconv.Itoa(len(doc.Body)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(doc.Body); err != nil {
		log.Error("failed to write document", sl.Err(err))
	}
}
