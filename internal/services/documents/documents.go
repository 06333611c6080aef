// Package documents выдаёт сертификаты и счета подписок.
package documents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"mime"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/drhope-gateway/internal/certificate"
	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/arabicdate"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

const (
	// ContentTypePDF тип, под которым отдаётся любой документ.
	ContentTypePDF = "application/pdf"

	DispositionInline     = "inline"
	DispositionAttachment = "attachment"

	localIDPrefix = "sub-"
)

var (
	// ErrInvalidSubscriptionID id не числовой и не в форме sub-<число>.
	ErrInvalidSubscriptionID = errors.New("invalid subscription id")
	// ErrRendererUnavailable шаблон сертификата не настроен.
	ErrRendererUnavailable = errors.New("certificate renderer unavailable")
)

// Fetcher скачивает документы профиля.
type Fetcher interface {
	Certificate(ctx context.Context, token, subscriptionID string) (*drhope.RawDocument, error)
	Invoice(ctx context.Context, token, subscriptionID string) (*drhope.RawDocument, error)
}

// Renderer рисует сертификат по шаблону.
type Renderer interface {
	Render(tpl certificate.Template, d certificate.Data) ([]byte, error)
}

// Document документ, готовый к отдаче браузеру.
type Document struct {
	Body              []byte
	ContentType       string
	SourceContentType string
	Filename          string
	Disposition       string
}

// Service отдаёт документы подписок.
type Service struct {
	fetcher  Fetcher
	renderer Renderer
	template *certificate.Template
	log      *slog.Logger
}

// New создаёт сервис. renderer и tpl могут быть nil: тогда локальный
// рендеринг сертификата недоступен.
func New(fetcher Fetcher, renderer Renderer, tpl *certificate.Template, log *slog.Logger) *Service {
	return &Service{fetcher: fetcher, renderer: renderer, template: tpl, log: log}
}

// NormalizeSubscriptionID принимает "sub-123" и "123" и возвращает "123".
func NormalizeSubscriptionID(raw string) (string, error) {
	id := strings.TrimPrefix(strings.TrimSpace(raw), localIDPrefix)
	n, err := strconv.Atoi(id)
	if err != nil || n <= 0 || strconv.Itoa(n) != id {
		return "", fmt.Errorf("%w: %q", ErrInvalidSubscriptionID, raw)
	}
	return id, nil
}

// Certificate скачивает сертификат для показа во встроенном просмотрщике.
func (s *Service) Certificate(ctx context.Context, token, rawID string) (*Document, error) {
	const op = "documents.Certificate"
	id, err := NormalizeSubscriptionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := s.fetcher.Certificate(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.wrap(raw, "certificate-"+id+".pdf", DispositionInline), nil
}

// Invoice скачивает счёт для немедленной загрузки.
func (s *Service) Invoice(ctx context.Context, token, rawID string) (*Document, error) {
	const op = "documents.Invoice"
	id, err := NormalizeSubscriptionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	raw, err := s.fetcher.Invoice(ctx, token, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return s.wrap(raw, "invoice-"+id+".pdf", DispositionAttachment), nil
}

// wrap помечает поток как PDF. Сервер всегда отдаёт PDF, даже если тип указан неверно.
func (s *Service) wrap(raw *drhope.RawDocument, filename, disposition string) *Document {
	mediaType, _, err := mime.ParseMediaType(raw.ContentType)
	if err != nil || mediaType != ContentTypePDF {
		s.log.Debug("document served with non-pdf content type",
			slog.String("content_type", raw.ContentType), slog.String("filename", filename))
	}
	return &Document{
		Body:              raw.Body,
		ContentType:       ContentTypePDF,
		SourceContentType: raw.ContentType,
		Filename:          filename,
		Disposition:       disposition,
	}
}

// RenderCertificate рисует сертификат локально по подписке пользователя.
func (s *Service) RenderCertificate(user *models.User, rawID string, workshop *models.Workshop) (*Document, error) {
	const op = "documents.RenderCertificate"
	if s.renderer == nil || s.template == nil {
		return nil, fmt.Errorf("%s: %w", op, ErrRendererUnavailable)
	}
	id, err := NormalizeSubscriptionID(rawID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	data := certificate.Data{
		UserName:         user.FullName,
		WorkshopTitle:    workshop.Title,
		WorkshopDate:     arabicdate.FormatDate(workshop.StartDate),
		WorkshopLocation: workshop.Location,
		InstructorName:   workshop.Instructor,
	}
	body, err := s.renderer.Render(*s.template, data)
	if err != nil {
		s.log.Error("failed to render certificate", slog.String("op", op), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &Document{
		Body:              body,
		ContentType:       ContentTypePDF,
		SourceContentType: ContentTypePDF,
		Filename:          "certificate-" + id + ".pdf",
		Disposition:       DispositionAttachment,
	}, nil
}

// ContentDisposition возвращает значение заголовка Content-Disposition.
func (d *Document) ContentDisposition() string {
	return mime.FormatMediaType(d.Disposition, map[string]string{"filename": d.Filename})
}
