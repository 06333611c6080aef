// Package gateway собирает HTTP-шлюз витрины Dr. Hope.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/shopspring/decimal"
	"github.com/streadway/amqp"

	"github.com/magabrotheeeer/drhope-gateway/internal/cache"
	"github.com/magabrotheeeer/drhope-gateway/internal/certificate"
	"github.com/magabrotheeeer/drhope-gateway/internal/config"
	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/http/middlewarectx"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/jwt"
	"github.com/magabrotheeeer/drhope-gateway/internal/lib/sl"
	"github.com/magabrotheeeer/drhope-gateway/internal/migrations"
	"github.com/magabrotheeeer/drhope-gateway/internal/rabbitmq"
	docservice "github.com/magabrotheeeer/drhope-gateway/internal/services/documents"
	"github.com/magabrotheeeer/drhope-gateway/internal/services/storefront"
	"github.com/magabrotheeeer/drhope-gateway/internal/storage/repository"
)

// Сессии без обращений дольше storeIdleTTL выгружаются из памяти.
const (
	storeIdleTTL  = 30 * time.Minute
	evictInterval = 5 * time.Minute
)

// App — HTTP-шлюз и его зависимости.
type App struct {
	server    *http.Server
	manager   *storefront.Manager
	logger    *slog.Logger
	db        *repository.Storage
	cache     *cache.Cache
	amqpConn  *amqp.Connection
	publisher *rabbitmq.Publisher
}

// New подключает хранилища, брокер и собирает маршруты.
func New(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	const op = "gateway.New"

	db, err := repository.New(ctx, cfg.StorageConnectionString)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err = migrations.Run(db.DB, cfg.MigrationsPath); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	cacheRedis, err := cache.InitServer(ctx, cfg.RedisConnection)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app := &App{logger: logger, db: db, cache: cacheRedis}

	var events storefront.EventPublisher = discardEvents{log: logger}
	if cfg.RabbitMQURL != "" {
		conn, err := rabbitmq.Connect(cfg.RabbitMQURL, cfg.RabbitMQMaxRetries, cfg.RabbitMQRetryDelay)
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.amqpConn = conn
		ch, err := rabbitmq.SetupChannel(conn, rabbitmq.NotifierQueues())
		if err != nil {
			app.close()
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		app.publisher = rabbitmq.NewPublisher(ch)
		events = app.publisher
	} else {
		logger.Warn("rabbitmq url is empty, storefront events are not published")
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	api := drhope.NewClient(cfg.BaseURL, cfg.TimeoutUpstream, drhope.NewMetrics(registry))

	manager := storefront.NewManager(
		api,
		cache.NewSessionStore(cacheRedis, cfg.TokenTTL),
		db,
		events,
		storefront.Options{
			TaxRate:            decimal.NewFromFloat(cfg.TaxRate),
			DefaultCountryCode: cfg.DefaultCountryCode,
		},
		logger,
	)

	documents, err := newDocuments(cfg.Certificate, api, logger)
	if err != nil {
		app.close()
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	app.manager = manager

	router := chi.NewRouter()
	RegisterRoutes(router, Deps{
		Logger:    logger,
		Manager:   manager,
		Maker:     jwt.NewJWTMaker(cfg.JWTSecretKey, cfg.TokenTTL),
		Documents: documents,
		Limiter:   middlewarectx.NewRateLimiter(cfg.RPS, cfg.Burst),
		Gatherer:  registry,
	})

	app.server = &http.Server{
		Addr:         cfg.AddressHTTP,
		Handler:      router,
		ReadTimeout:  cfg.TimeoutHTTP,
		WriteTimeout: cfg.TimeoutHTTP,
		IdleTimeout:  cfg.IdleTimeout,
	}
	return app, nil
}

func newDocuments(cfg config.Certificate, fetcher docservice.Fetcher, logger *slog.Logger) (*docservice.Service, error) {
	renderer, tpl, err := certificate.LoadRenderer(cfg.TemplatePath, cfg.FontPath)
	if err != nil {
		return nil, err
	}
	if renderer == nil {
		logger.Info("certificate template is not configured, local rendering disabled")
		return docservice.New(fetcher, nil, nil, logger), nil
	}
	return docservice.New(fetcher, renderer, tpl, logger), nil
}

// Run обслуживает запросы до отмены ctx, затем корректно останавливается.
func (a *App) Run(ctx context.Context) error {
	go a.evictIdle(ctx)

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("HTTP server starting on", slog.String("address", a.server.Addr))
		err := a.server.ListenAndServe()
		if errors.Is(err, http.ErrServerClosed) {
			errCh <- nil
		} else {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		a.close()
		return err
	case <-ctx.Done():
		timeoutCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		a.logger.Info("shutting down HTTP server gracefully")
		err := a.server.Shutdown(timeoutCtx)
		a.close()
		return err
	}
}

func (a *App) evictIdle(ctx context.Context) {
	ticker := time.NewTicker(evictInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := a.manager.Evict(storeIdleTTL); n > 0 {
				a.logger.Debug("evicted idle sessions", slog.Int("count", n), slog.Int("active", a.manager.Len()))
			}
		}
	}
}

func (a *App) close() {
	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("failed to close amqp channel", sl.Err(err))
		}
	}
	if a.amqpConn != nil {
		if err := a.amqpConn.Close(); err != nil {
			a.logger.Error("failed to close amqp connection", sl.Err(err))
		}
	}
	if a.cache != nil {
		if err := a.cache.Close(); err != nil {
			a.logger.Error("failed to close redis", sl.Err(err))
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			a.logger.Error("failed to close database", sl.Err(err))
		}
	}
}

// discardEvents используется, когда брокер не настроен.
type discardEvents struct {
	log *slog.Logger
}

func (d discardEvents) Publish(_ context.Context, routingKey string, _ any) error {
	d.log.Debug("event dropped, broker is not configured", slog.String("routing_key", routingKey))
	return nil
}
