package storefront

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// LoadCatalog загружает страны, настройки, мастер-классы и ближайший
// мастер-класс. При любой ошибке состояние не меняется.
func (s *Store) LoadCatalog(ctx context.Context) (*models.Catalog, error) {
	const op = "storefront.LoadCatalog"
	token := s.Token()

	var catalog models.Catalog
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		catalog.Countries, err = s.api.Countries(gctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Settings, err = s.api.Settings(gctx)
		return err
	})
	g.Go(func() (err error) {
		catalog.Workshops, err = s.api.Workshops(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		catalog.EarliestWorkshop, err = s.api.EarliestWorkshop(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		s.log.Error("failed to load catalog", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	s.mu.Lock()
	s.countries = catalog.Countries
	s.settings = catalog.Settings
	s.workshops = catalog.Workshops
	s.earliest = catalog.EarliestWorkshop
	s.mu.Unlock()
	return &catalog, nil
}

// LoadContent загружает все разделы контента одновременно. Отказ одного
// раздела не мешает остальным: упавшие перечислены в FailedSources,
// их прежнее состояние сохраняется.
func (s *Store) LoadContent(ctx context.Context) (*models.Content, error) {
	const op = "storefront.LoadContent"
	log := s.log.With(slog.String("op", op), sl.Session(s.sessionID))

	var (
		content models.Content
		mu      sync.Mutex
		g       errgroup.Group
	)
	settle := func(source string, fetch func() error) {
		g.Go(func() error {
			if err := fetch(); err != nil {
				log.Warn("content source failed", slog.String("source", source), sl.Err(err))
				mu.Lock()
				content.FailedSources = append(content.FailedSources, source)
				mu.Unlock()
			}
			return nil
		})
	}

	settle("videos", func() (err error) { content.Videos, err = s.api.Videos(ctx); return })
	settle("gallery", func() (err error) { content.Gallery, err = s.api.Gallery(ctx); return })
	settle("instagram_lives", func() (err error) { content.InstagramLives, err = s.api.InstagramLives(ctx); return })
	settle("partners", func() (err error) { content.Partners, err = s.api.Partners(ctx); return })
	settle("products", func() (err error) { content.Products, err = s.api.Products(ctx); return })
	settle("reviews", func() (err error) { content.Reviews, err = s.api.Reviews(ctx); return })
	_ = g.Wait()

	failed := make(map[string]bool, len(content.FailedSources))
	for _, src := range content.FailedSources {
		failed[src] = true
	}

	s.mu.Lock()
	if !failed["videos"] {
		s.videos = content.Videos
	}
	if !failed["gallery"] {
		s.gallery = content.Gallery
	}
	if !failed["instagram_lives"] {
		s.instagramLives = content.InstagramLives
	}
	if !failed["partners"] {
		s.partners = content.Partners
	}
	if !failed["products"] {
		s.products = content.Products
	}
	if !failed["reviews"] {
		s.reviews = content.Reviews
	}
	content.Videos, content.Gallery, content.InstagramLives = s.videos, s.gallery, s.instagramLives
	content.Partners, content.Products, content.Reviews = s.partners, s.products, s.reviews
	s.mu.Unlock()

	if len(failed) == 6 {
		return &content, fmt.Errorf("%s: %w", op, ErrContentUnavailable)
	}
	return &content, nil
}

// SuggestWorkshops возвращает рекомендации для текущего пользователя.
func (s *Store) SuggestWorkshops(ctx context.Context) ([]models.Workshop, error) {
	const op = "storefront.SuggestWorkshops"
	token, _, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	workshops, err := s.api.SuggestWorkshops(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return workshops, nil
}

// AddReview публикует отзыв и добавляет его к мастер-классу в каталоге.
func (s *Store) AddReview(ctx context.Context, req models.ReviewRequest) (*models.Review, error) {
	const op = "storefront.AddReview"
	token, user, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if req.Rating < 1 || req.Rating > 5 {
		return nil, &ValidationError{Field: "rating", Message: "التقييم من ١ إلى ٥"}
	}

	review, err := s.api.AddReview(ctx, token, req)
	if err != nil {
		s.log.Error("failed to add review", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if review.WorkshopID == 0 {
		review.WorkshopID = req.WorkshopID
	}
	if review.UserName == "" {
		review.UserName = user.FullName
	}

	s.mu.Lock()
	for i := range s.workshops {
		if s.workshops[i].ID == req.WorkshopID {
			s.workshops[i].Reviews = append(s.workshops[i].Reviews, *review)
		}
	}
	s.mu.Unlock()
	return review, nil
}

// RequestSupport отправляет заявку на консультацию. Вход не обязателен.
func (s *Store) RequestSupport(ctx context.Context, req models.SupportRequest) (*models.ConsultationRequest, error) {
	const op = "storefront.RequestSupport"

	if strings.TrimSpace(req.Name) == "" {
		return nil, &ValidationError{Field: "name", Message: "يرجى إدخال الاسم"}
	}
	if strings.TrimSpace(req.Phone) == "" {
		return nil, &ValidationError{Field: "phone", Message: msgPhone}
	}
	if strings.TrimSpace(req.Message) == "" {
		return nil, &ValidationError{Field: "message", Message: "يرجى كتابة الرسالة"}
	}

	if err := s.api.Support(ctx, s.Token(), req); err != nil {
		s.log.Error("failed to send support request", slog.String("op", op), sl.Session(s.sessionID), sl.Err(err))
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cr := models.ConsultationRequest{
		ID:        uuid.NewString(),
		Name:      req.Name,
		Email:     req.Email,
		Phone:     req.Phone,
		Message:   req.Message,
		CreatedAt: s.now().UTC(),
	}
	s.mu.Lock()
	s.consultations = append(s.consultations, cr)
	s.mu.Unlock()
	return &cr, nil
}

// Watch открывает материалы мастер-класса, если у пользователя есть
// активная или завершённая подписка на него.
func (s *Store) Watch(ctx context.Context, workshopID int) (*models.Workshop, error) {
	const op = "storefront.Watch"
	token, user, err := s.auth()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	allowed := false
	for _, sub := range user.Subscriptions {
		if sub.WorkshopID == workshopID && (sub.Status == models.StatusActive || sub.Status == models.StatusCompleted) {
			allowed = true
			break
		}
	}
	if !allowed {
		return nil, fmt.Errorf("%s: %w", op, ErrNoAccess)
	}

	if w, ok := s.findWorkshop(workshopID); ok {
		return w, nil
	}

	workshops, err := s.api.Workshops(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Lock()
	s.workshops = workshops
	s.mu.Unlock()

	if w, ok := s.findWorkshop(workshopID); ok {
		return w, nil
	}
	return nil, fmt.Errorf("%s: %w", op, ErrWorkshopNotFound)
}

func (s *Store) findWorkshop(id int) (*models.Workshop, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, w := range s.workshops {
		if w.ID == id {
			out := w
			return &out, true
		}
	}
	return nil, false
}

// SubscriptionWorkshop возвращает мастер-класс подписки текущего пользователя.
func (s *Store) SubscriptionWorkshop(ctx context.Context, subscriptionID int) (*models.User, *models.Workshop, error) {
	const op = "storefront.SubscriptionWorkshop"
	token, user, err := s.auth()
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}

	var sub *models.Subscription
	for i := range user.Subscriptions {
		if user.Subscriptions[i].ID == subscriptionID {
			sub = &user.Subscriptions[i]
			break
		}
	}
	if sub == nil {
		return nil, nil, fmt.Errorf("%s: %w", op, ErrNoAccess)
	}
	if sub.Workshop != nil {
		return user, sub.Workshop, nil
	}
	if w, ok := s.findWorkshop(sub.WorkshopID); ok {
		return user, w, nil
	}

	workshops, err := s.api.Workshops(ctx, token)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", op, err)
	}
	s.mu.Lock()
	s.workshops = workshops
	s.mu.Unlock()

	if w, ok := s.findWorkshop(sub.WorkshopID); ok {
		return user, w, nil
	}
	return nil, nil, fmt.Errorf("%s: %w", op, ErrWorkshopNotFound)
}
