package gateway

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/auth"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/cart"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/catalog"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/documents"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/gifts"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/orders"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/profile"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/purchases"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/session"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/handlers/state"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/jwt"
	docservice "github.com/magabrotheeeer/drhope-gateway/internal/services/documents"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/storefront"
)

// Deps — всё, что нужно маршрутам.
type Deps struct {
	Logger    *slog.Logger
	Manager   *storefront.Manager
	Maker     jwt.Maker
	Documents *docservice.Service
	Limiter   *middlewarectx.RateLimiter
	Gatherer  prometheus.Gatherer
}

// RegisterRoutes регистрирует все маршруты шлюза.
func RegisterRoutes(r chi.Router, d Deps) {
	// Глобальные middleware
	r.Use(
		middleware.RequestID,
		middleware.Logger,
		middleware.Recoverer,
		middleware.URLFormat,
	)

	m := d.Manager
	log := d.Logger

	r.Route("/api/v1", func(r chi.Router) {
		// Открытые конечные точки
		r.With(middlewarectx.RateLimitMiddleware(d.Limiter, log)).
			Post("/sessions", session.New(log, m, d.Maker).ServeHTTP)

		// Группа с сессионным токеном
		r.Group(func(r chi.Router) {
			r.Use(middlewarectx.SessionMiddleware(d.Maker, log))
			r.Use(middlewarectx.RateLimitMiddleware(d.Limiter, log))

			authH := auth.New(log, func(ctx context.Context, sid string) auth.Service { return m.Get(ctx, sid) })
			r.Post("/auth/login", authH.Login)
			r.Post("/auth/register", authH.Register)
			r.Post("/auth/logout", authH.Logout)

			r.Get("/state", state.New(log, func(ctx context.Context, sid string) state.Service { return m.Get(ctx, sid) }).ServeHTTP)

			profileH := profile.New(log, func(ctx context.Context, sid string) profile.Service { return m.Get(ctx, sid) })
			r.Get("/profile", profileH.Get)
			r.Get("/profile/suggestions", profileH.Suggestions)
			r.Post("/profile/reviews", profileH.AddReview)

			catalogH := catalog.New(log, func(ctx context.Context, sid string) catalog.Service { return m.Get(ctx, sid) })
			r.Get("/catalog", catalogH.Catalog)
			r.Get("/content", catalogH.Content)
			r.Post("/support", catalogH.Support)
			r.Get("/workshops/{id}/watch", catalogH.Watch)

			cartH := cart.New(log, func(ctx context.Context, sid string) cart.Service { return m.Get(ctx, sid) })
			r.Get("/cart", cartH.Get)
			r.Post("/cart/items", cartH.Add)
			r.Put("/cart/items/{id}", cartH.Update)
			r.Delete("/cart/items/{id}", cartH.Remove)

			ordersH := orders.New(log, func(ctx context.Context, sid string) orders.Service { return m.Get(ctx, sid) })
			r.Get("/orders/summary", ordersH.Summary)
			r.Post("/orders", ordersH.Create)

			purchasesH := purchases.New(log, func(ctx context.Context, sid string) purchases.Service { return m.Get(ctx, sid) })
			r.Post("/subscriptions", purchasesH.CreateSubscription)
			r.Post("/subscriptions/payment", purchasesH.ProcessPayment)
			r.Post("/charity", purchasesH.BuyCharity)
			r.Post("/charity/payment", purchasesH.ProcessCharityPayment)

			giftsH := gifts.New(log, func(ctx context.Context, sid string) gifts.Service { return m.Get(ctx, sid) })
			r.Post("/gifts", giftsH.Create)
			r.Get("/gifts", giftsH.List)

			docsH := documents.New(log, func(ctx context.Context, sid string) documents.Session { return m.Get(ctx, sid) }, d.Documents)
			r.Get("/subscriptions/{id}/certificate", docsH.Certificate)
			r.Get("/subscriptions/{id}/invoice", docsH.Invoice)
			r.Get("/subscriptions/{id}/certificate/rendered", docsH.Rendered)
		})
	})

	r.Handle("/metrics", promhttp.HandlerFor(d.Gatherer, promhttp.HandlerOpts{}))
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
	// Swagger docs endpoint
	r.Get("/docs/*", httpSwagger.WrapHandler)
}
