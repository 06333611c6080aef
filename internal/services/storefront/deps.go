package storefront

import (
	"context"

	"github.com/magabrotheeeer/drhope-gateway/internal/drhope"
	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

// API — методы REST API Dr. Hope, которыми пользуется витрина.
type API interface {
	Login(ctx context.Context, email, phone string) (*drhope.AuthResult, error)
	Register(ctx context.Context, req drhope.RegisterRequest) (*drhope.AuthResult, error)
	Logout(ctx context.Context, token string) error

	ProfileDetails(ctx context.Context, token string) (*models.User, error)
	SuggestWorkshops(ctx context.Context, token string) ([]models.Workshop, error)
	AddReview(ctx context.Context, token string, req models.ReviewRequest) (*models.Review, error)

	Countries(ctx context.Context) ([]models.Country, error)
	Settings(ctx context.Context) (models.Settings, error)
	Workshops(ctx context.Context, token string) ([]models.Workshop, error)
	EarliestWorkshop(ctx context.Context) (*models.Workshop, error)

	Videos(ctx context.Context) ([]models.MediaItem, error)
	Gallery(ctx context.Context) ([]models.MediaItem, error)
	InstagramLives(ctx context.Context) ([]models.MediaItem, error)
	Partners(ctx context.Context) ([]models.Partner, error)
	Products(ctx context.Context) ([]models.Product, error)
	Reviews(ctx context.Context) ([]models.Review, error)
	Support(ctx context.Context, token string, req models.SupportRequest) error

	CartAdd(ctx context.Context, token string, productID, quantity int) error
	CartSummary(ctx context.Context, token string) (*models.Cart, error)
	CartUpdate(ctx context.Context, token string, itemID, quantity int) error
	CartDelete(ctx context.Context, token string, itemID int) error

	OrderSummary(ctx context.Context, token string) (*models.OrderSummary, error)
	CreateOrder(ctx context.Context, token string, req models.OrderRequest) (*models.Order, error)

	CreateSubscription(ctx context.Context, token string, req models.SubscriptionRequest) (*models.Subscription, error)
	ProcessPayment(ctx context.Context, token string, req models.PaymentRequest) (*models.PaymentResult, error)
	BuyCharity(ctx context.Context, token string, req models.CharityRequest) (*models.PaymentResult, error)
	ProcessCharityPayment(ctx context.Context, token string, req models.CharityPaymentRequest) (*models.PaymentResult, error)
}

// SessionPersistence хранит токен и текущего пользователя между запусками.
type SessionPersistence interface {
	Save(ctx context.Context, sessionID, token string, user *models.User) error
	Load(ctx context.Context, sessionID string) (token string, user *models.User, found bool, err error)
	Clear(ctx context.Context, sessionID string) error
}

// GiftRepository — хранилище ожидающих подарков.
type GiftRepository interface {
	CreatePendingGift(ctx context.Context, gift models.PendingGift) (*models.PendingGift, error)
	MarkGiftPaid(ctx context.Context, giftID string) error
	CancelGift(ctx context.Context, giftID string) error
	ListClaimableGifts(ctx context.Context, phone string, userID int) ([]models.PendingGift, error)
	ClaimGift(ctx context.Context, giftID string, userID int) (*models.PendingGift, error)
	ReleaseGift(ctx context.Context, giftID string, userID int) error
	AttachGiftSubscription(ctx context.Context, giftID string, subscriptionID int) error
	ListGiftsByGifter(ctx context.Context, gifterUserID int) ([]models.PendingGift, error)
}

// EventPublisher публикует события для воркера уведомлений.
type EventPublisher interface {
	Publish(ctx context.Context, routingKey string, event any) error
}
