package repository

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/drhope-gateway/internal/models"
)

func newGift(phone string, gifter int) models.PendingGift {
	return models.PendingGift{
		WorkshopID:     3,
		GifterUserID:   gifter,
		GifterName:     "نورة",
		RecipientName:  "سارة",
		RecipientPhone: phone,
		Message:        "هدية",
	}
}

func TestStorage_GiftLifecycle(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	created, err := storage.CreatePendingGift(ctx, newGift("971501111111", 1))
	require.NoError(t, err)
	require.NotEmpty(t, created.ID)
	assert.Equal(t, models.GiftAwaitingPayment, created.Status)
	assert.False(t, created.IsClaimed())
	assert.Nil(t, created.PackageID)

	_, err = storage.CreatePendingGift(ctx, newGift("971502222222", 1))
	require.NoError(t, err)

	// до оплаты подарок получателю не виден
	claimable, err := storage.ListClaimableGifts(ctx, "971501111111", 42)
	require.NoError(t, err)
	assert.Empty(t, claimable)
	_, err = storage.ClaimGift(ctx, created.ID, 42)
	assert.ErrorIs(t, err, ErrGiftClaimed)

	require.NoError(t, storage.MarkGiftPaid(ctx, created.ID))
	assert.ErrorIs(t, storage.MarkGiftPaid(ctx, created.ID), ErrGiftState)

	claimable, err = storage.ListClaimableGifts(ctx, "971501111111", 42)
	require.NoError(t, err)
	require.Len(t, claimable, 1)
	assert.Equal(t, created.ID, claimable[0].ID)
	assert.Equal(t, models.GiftPending, claimable[0].Status)

	claimed, err := storage.ClaimGift(ctx, created.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, models.GiftClaiming, claimed.Status)
	require.NotNil(t, claimed.ClaimedByUserID)
	assert.Equal(t, 42, *claimed.ClaimedByUserID)
	require.NotNil(t, claimed.ClaimedAt)

	// в claiming подарок не выдаётся повторно даже тому же пользователю
	claimable, err = storage.ListClaimableGifts(ctx, "971501111111", 42)
	require.NoError(t, err)
	assert.Empty(t, claimable)
	_, err = storage.ClaimGift(ctx, created.ID, 42)
	assert.ErrorIs(t, err, ErrGiftClaimed)

	assert.ErrorIs(t, storage.ReleaseGift(ctx, created.ID, 43), ErrGiftState)
	require.NoError(t, storage.ReleaseGift(ctx, created.ID, 42))

	// отпущенный подарок остаётся за тем же пользователем
	claimable, err = storage.ListClaimableGifts(ctx, "971501111111", 43)
	require.NoError(t, err)
	assert.Empty(t, claimable)
	_, err = storage.ClaimGift(ctx, created.ID, 43)
	assert.ErrorIs(t, err, ErrGiftClaimed)

	again, err := storage.ClaimGift(ctx, created.ID, 42)
	require.NoError(t, err)
	assert.Equal(t, claimed.ClaimedAt.Unix(), again.ClaimedAt.Unix())

	require.NoError(t, storage.AttachGiftSubscription(ctx, created.ID, 900))
	assert.ErrorIs(t, storage.AttachGiftSubscription(ctx, created.ID, 901), ErrGiftState)

	claimable, err = storage.ListClaimableGifts(ctx, "971501111111", 42)
	require.NoError(t, err)
	assert.Empty(t, claimable)

	sent, err := storage.ListGiftsByGifter(ctx, 1)
	require.NoError(t, err)
	require.Len(t, sent, 2)
	for _, g := range sent {
		if g.ID == created.ID {
			assert.Equal(t, models.GiftClaimed, g.Status)
			require.NotNil(t, g.ClaimedSubscriptionID)
			assert.Equal(t, 900, *g.ClaimedSubscriptionID)
		}
	}
}

func TestStorage_CancelGift(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	created, err := storage.CreatePendingGift(ctx, newGift("971503333333", 1))
	require.NoError(t, err)

	require.NoError(t, storage.CancelGift(ctx, created.ID))
	assert.ErrorIs(t, storage.MarkGiftPaid(ctx, created.ID), ErrGiftState)

	claimable, err := storage.ListClaimableGifts(ctx, "971503333333", 42)
	require.NoError(t, err)
	assert.Empty(t, claimable)
}

func TestStorage_ConcurrentClaimSingleWinner(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()

	created, err := storage.CreatePendingGift(ctx, newGift("971504444444", 1))
	require.NoError(t, err)
	require.NoError(t, storage.MarkGiftPaid(ctx, created.ID))

	const attempts = 8
	var (
		wg   sync.WaitGroup
		wins atomic.Int32
	)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := storage.ClaimGift(ctx, created.ID, 42)
			if err == nil {
				wins.Add(1)
				return
			}
			assert.ErrorIs(t, err, ErrGiftClaimed)
		}()
	}
	wg.Wait()
	assert.Equal(t, int32(1), wins.Load())
}

func TestStorage_GiftNotFound(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()
	ctx := context.Background()
	const missing = "00000000-0000-0000-0000-000000000000"

	_, err := storage.ClaimGift(ctx, missing, 1)
	assert.ErrorIs(t, err, ErrGiftNotFound)

	assert.ErrorIs(t, storage.AttachGiftSubscription(ctx, missing, 1), ErrGiftNotFound)
	assert.ErrorIs(t, storage.MarkGiftPaid(ctx, missing), ErrGiftNotFound)
	assert.ErrorIs(t, storage.CancelGift(ctx, missing), ErrGiftNotFound)
	assert.ErrorIs(t, storage.ReleaseGift(ctx, missing, 1), ErrGiftNotFound)
}

func TestCheckDatabaseReady(t *testing.T) {
	storage, cleanup := setupTestDatabase(t)
	defer cleanup()

	assert.NoError(t, CheckDatabaseReady(context.Background(), storage))
}
