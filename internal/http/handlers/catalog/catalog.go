// Package catalog — каталог мастер-классов, контент сайта, поддержка и просмотр материалов.
package catalog

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

// Service — операции каталога.
type Service interface {
	LoadCatalog(ctx context.Context) (*models.Catalog, error)
	LoadContent(ctx context.Context) (*models.Content, error)
	RequestSupport(ctx context.Context, req models.SupportRequest) (*models.ConsultationRequest, error)
	Watch(ctx context.Context, workshopID int) (*models.Workshop, error)
}

// Sessions возвращает состояние витрины по идентификатору сессии.
type Sessions func(ctx context.Context, sessionID string) Service

// Handler обрабатывает запросы каталога.
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

// Catalog godoc
// @Summary Каталог
// @Description Страны, настройки, мастер-классы и ближайший мастер-класс.
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response{data=models.Catalog}
// @Failure 502 {object} response.ErrorResponse
// @Security SessionToken
// @Router /catalog [get]
func (h *Handler) Catalog(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.Catalog")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	catalog, err := h.sessions(r.Context(), sid).LoadCatalog(r.Context())
	if err != nil {
		log.Error("failed to load catalog", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(catalog))
}

// Content godoc
// @Summary Контент сайта
// @Description Видео, галерея, эфиры, партнёры, товары и отзывы. Неудачные разделы перечислены в failed_sources.
// @Tags Catalog
// @Produce json
// @Success 200 {object} response.Response{data=models.Content}
// @Failure 502 {object} response.ErrorResponse
// @Security SessionToken
// @Router /content [get]
func (h *Handler) Content(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.Content")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	content, err := h.sessions(r.Context(), sid).LoadContent(r.Context())
	if err != nil {
		log.Error("failed to load content", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	if len(content.FailedSources) > 0 {
		log.Warn("content partially loaded", slog.Any("failed_sources", content.FailedSources))
	}
	render.JSON(w, r, response.StatusOKWithData(content))
}

// Support godoc
// @Summary Запрос консультации
// @Tags Catalog
// @Accept json
// @Produce json
// @Param request body models.SupportRequest true "Запрос"
// @Success 201 {object} response.Response{data=models.ConsultationRequest}
// @Failure 422 {object} response.ErrorResponse
// @Security SessionToken
// @Router /support [post]
func (h *Handler) Support(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.Support")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	var req models.SupportRequest
	if !request.DecodeAndValidate(w, r, log, h.validate, &req) {
		return
	}
	consultation, err := h.sessions(r.Context(), sid).RequestSupport(r.Context(), req)
	if err != nil {
		log.Error("failed to send support request", sl.Session(sid), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.Status(r, http.StatusCreated)
	render.JSON(w, r, response.StatusOKWithData(consultation))
}

// Watch godoc
// @Summary Материалы мастер-класса
// @Description Записи, заметки и файлы. Нужна активная или завершённая подписка.
// @Tags Catalog
// @Produce json
// @Param id path int true "ID мастер-класса"
// @Success 200 {object} response.Response{data=models.Workshop}
// @Failure 403 {object} response.ErrorResponse
// @Failure 404 {object} response.ErrorResponse
// @Security SessionToken
// @Router /workshops/{id}/watch [get]
func (h *Handler) Watch(w http.ResponseWriter, r *http.Request) {
	log := h.logger(r, "handlers.catalog.Watch")
	sid, ok := request.Session(w, r, log)
	if !ok {
		return
	}
	id, ok := request.IntParam(w, r, log, "id")
	if !ok {
		return
	}
	workshop, err := h.sessions(r.Context(), sid).Watch(r.Context(), id)
	if err != nil {
		log.Warn("watch denied", sl.Session(sid), slog.Int("workshop_id", id), sl.Err(err))
		response.Fail(w, r, err)
		return
	}
	render.JSON(w, r, response.StatusOKWithData(workshop))
}
