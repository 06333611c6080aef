package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

const giftColumns = `id, status, workshop_id, package_id, gifter_user_id, gifter_name, gifter_email, recipient_name,
	recipient_phone, message, source_subscription_id, claimed_by_user_id,
	claimed_subscription_id, claimed_at, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanGift(row rowScanner) (*models.PendingGift, error) {
	var (
		g                           models.PendingGift
		packageID, claimedBy, subID sql.NullInt64
		claimedAt                   sql.NullTime
	)
	if err := row.Scan(&g.ID, &g.Status, &g.WorkshopID, &packageID, &g.GifterUserID, &g.GifterName, &g.GifterEmail,
		&g.RecipientName, &g.RecipientPhone, &g.Message, &g.SourceSubscriptionID,
		&claimedBy, &subID, &claimedAt, &g.CreatedAt); err != nil {
		return nil, err
	}
	g.PackageID = nullInt(packageID)
	g.ClaimedByUserID = nullInt(claimedBy)
	g.ClaimedSubscriptionID = nullInt(subID)
	if claimedAt.Valid {
		t := claimedAt.Time.UTC()
		g.ClaimedAt = &t
	}
	return &g, nil
}

func nullInt(v sql.NullInt64) *int {
	if !v.Valid {
		return nil
	}
	i := int(v.Int64)
	return &i
}

func (s *Storage) queryGifts(ctx context.Context, query string, args ...any) ([]models.PendingGift, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var gifts []models.PendingGift
	for rows.Next() {
		g, err := scanGift(rows)
		if err != nil {
			return nil, err
		}
		gifts = append(gifts, *g)
	}
	return gifts, rows.Err()
}

// CreatePendingGift сохраняет подарок. RecipientPhone должен быть уже
// нормализован. Без явного статуса подарок ждёт оплаты и получателю не виден.
func (s *Storage) CreatePendingGift(ctx context.Context, gift models.PendingGift) (*models.PendingGift, error) {
	const op = "storage.CreatePendingGift"

	status := gift.Status
	if status == "" {
		status = models.GiftAwaitingPayment
	}
	query := `INSERT INTO pending_gifts (status, workshop_id, package_id, gifter_user_id, gifter_name,
			      gifter_email, recipient_name, recipient_phone, message, source_subscription_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + giftColumns
	created, err := scanGift(s.DB.QueryRowContext(ctx, query,
		status, gift.WorkshopID, gift.PackageID, gift.GifterUserID, gift.GifterName,
		gift.GifterEmail, gift.RecipientName, gift.RecipientPhone, gift.Message, gift.SourceSubscriptionID))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return created, nil
}

// MarkGiftPaid открывает оплаченный подарок для получателя.
func (s *Storage) MarkGiftPaid(ctx context.Context, giftID string) error {
	const op = "storage.MarkGiftPaid"

	err := s.transition(ctx, `UPDATE pending_gifts SET status = $2
		WHERE id = $1 AND status = $3`, giftID, models.GiftPending, models.GiftAwaitingPayment)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// CancelGift закрывает подарок, оплата которого не прошла.
func (s *Storage) CancelGift(ctx context.Context, giftID string) error {
	const op = "storage.CancelGift"

	err := s.transition(ctx, `UPDATE pending_gifts SET status = $2
		WHERE id = $1 AND status = $3`, giftID, models.GiftCancelled, models.GiftAwaitingPayment)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListClaimableGifts возвращает оплаченные подарки на номер phone, свободные
// или отпущенные после неудачной попытки того же userID.
func (s *Storage) ListClaimableGifts(ctx context.Context, phone string, userID int) ([]models.PendingGift, error) {
	const op = "storage.ListClaimableGifts"

	query := `SELECT ` + giftColumns + `
			  FROM pending_gifts
			  WHERE recipient_phone = $1
			    AND status = $3
			    AND (claimed_by_user_id IS NULL OR claimed_by_user_id = $2)
			  ORDER BY created_at`
	gifts, err := s.queryGifts(ctx, query, phone, userID, models.GiftPending)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return gifts, nil
}

// ClaimGift переводит подарок в claiming за userID одним условным UPDATE,
// поэтому из параллельных попыток проходит ровно одна. Подарок в любом
// другом статусе или закреплённый за другим пользователем даёт ErrGiftClaimed.
func (s *Storage) ClaimGift(ctx context.Context, giftID string, userID int) (*models.PendingGift, error) {
	const op = "storage.ClaimGift"

	query := `UPDATE pending_gifts
			  SET status = $3,
			      claimed_by_user_id = $2,
			      claimed_at = COALESCE(claimed_at, NOW())
			  WHERE id = $1
			    AND status = $4
			    AND (claimed_by_user_id IS NULL OR claimed_by_user_id = $2)
			  RETURNING ` + giftColumns
	gift, err := scanGift(s.DB.QueryRowContext(ctx, query, giftID, userID, models.GiftClaiming, models.GiftPending))
	if err == nil {
		return gift, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	exists, err := s.giftExists(ctx, giftID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if !exists {
		return nil, fmt.Errorf("%s: %w", op, ErrGiftNotFound)
	}
	return nil, fmt.Errorf("%s: %w", op, ErrGiftClaimed)
}

// ReleaseGift возвращает закреплённый за userID подарок в pending. Вызывается,
// только когда подписка получателю не создана.
func (s *Storage) ReleaseGift(ctx context.Context, giftID string, userID int) error {
	const op = "storage.ReleaseGift"

	err := s.transition(ctx, `UPDATE pending_gifts SET status = $2
		WHERE id = $1 AND status = $3 AND claimed_by_user_id = $4`,
		giftID, models.GiftPending, models.GiftClaiming, userID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// AttachGiftSubscription записывает id подписки получателя и завершает подарок.
func (s *Storage) AttachGiftSubscription(ctx context.Context, giftID string, subscriptionID int) error {
	const op = "storage.AttachGiftSubscription"

	err := s.transition(ctx, `UPDATE pending_gifts SET status = $2, claimed_subscription_id = $4
		WHERE id = $1 AND status = $3`,
		giftID, models.GiftClaimed, models.GiftClaiming, subscriptionID)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// transition выполняет условный переход статуса. Первый аргумент запроса — id
// подарка. Ноль затронутых строк даёт ErrGiftNotFound или ErrGiftState.
func (s *Storage) transition(ctx context.Context, query, giftID string, args ...any) error {
	res, err := s.DB.ExecContext(ctx, query, append([]any{giftID}, args...)...)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n > 0 {
		return nil
	}
	exists, err := s.giftExists(ctx, giftID)
	if err != nil {
		return err
	}
	if !exists {
		return ErrGiftNotFound
	}
	return ErrGiftState
}

func (s *Storage) giftExists(ctx context.Context, giftID string) (bool, error) {
	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM pending_gifts WHERE id = $1)`, giftID).Scan(&exists)
	return exists, err
}

// ListGiftsByGifter возвращает подарки, отправленные пользователем.
func (s *Storage) ListGiftsByGifter(ctx context.Context, gifterUserID int) ([]models.PendingGift, error) {
	const op = "storage.ListGiftsByGifter"

	query := `SELECT ` + giftColumns + `
			  FROM pending_gifts
			  WHERE gifter_user_id = $1
			  ORDER BY created_at DESC`
	gifts, err := s.queryGifts(ctx, query, gifterUserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return gifts, nil
}
