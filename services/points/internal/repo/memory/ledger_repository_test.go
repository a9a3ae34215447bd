package memory

import (
	"context"
	"errors"
	"testing"
	"time"

	"flyerhub/services/points/internal/entity"

	"github.com/stretchr/testify/assert"
)

func TestGetBalance_NotFound(t *testing.T) {
	repo := NewLedgerRepository()

	_, err := repo.GetBalance(context.Background(), "nobody")
	assert.ErrorIs(t, err, entity.ErrBalanceNotFound)
}

func TestGetOrCreateBalance_CreatesZeroedRow(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()

	balance, err := repo.GetOrCreateBalance(ctx, "user-1")
	assert.NoError(t, err)
	assert.NotEmpty(t, balance.ID)
	assert.Equal(t, "user-1", balance.UserID)
	assert.Equal(t, 0, balance.TotalPoints)

	again, err := repo.GetOrCreateBalance(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, balance.ID, again.ID)
}

func TestUpdateWithLock_CreateIfMissing(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()

	transaction, err := repo.UpdateWithLock(ctx, "user-1", true, func(balance *entity.Balance) (*entity.Transaction, error) {
		balance.TotalPoints += 10
		balance.LifetimeEarned += 10
		return &entity.Transaction{
			UserID:       "user-1",
			Type:         entity.TransactionTypeEarned,
			Amount:       10,
			BalanceAfter: balance.TotalPoints,
			Reason:       string(entity.EarnReasonReferral),
		}, nil
	})
	assert.NoError(t, err)
	assert.NotEmpty(t, transaction.ID)
	assert.False(t, transaction.CreatedAt.IsZero())

	balance, err := repo.GetBalance(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 10, balance.TotalPoints)
}

func TestUpdateWithLock_MissingWithoutCreate(t *testing.T) {
	repo := NewLedgerRepository()

	_, err := repo.UpdateWithLock(context.Background(), "nobody", false, func(balance *entity.Balance) (*entity.Transaction, error) {
		t.Fatal("apply should not run without a balance row")
		return nil, nil
	})
	assert.ErrorIs(t, err, entity.ErrBalanceNotFound)
}

func TestUpdateWithLock_ApplyErrorRollsBack(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()

	_, err := repo.UpdateWithLock(ctx, "user-1", true, func(balance *entity.Balance) (*entity.Transaction, error) {
		balance.TotalPoints += 10
		balance.LifetimeEarned += 10
		return &entity.Transaction{UserID: "user-1", Type: entity.TransactionTypeEarned, Amount: 10, BalanceAfter: 10}, nil
	})
	assert.NoError(t, err)

	boom := errors.New("boom")
	_, err = repo.UpdateWithLock(ctx, "user-1", false, func(balance *entity.Balance) (*entity.Transaction, error) {
		balance.TotalPoints += 999
		return nil, boom
	})
	assert.ErrorIs(t, err, boom)

	// Mutation made by the failed apply is not visible
	balance, err := repo.GetBalance(ctx, "user-1")
	assert.NoError(t, err)
	assert.Equal(t, 10, balance.TotalPoints)

	_, total, err := repo.GetTransactions(ctx, "user-1", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestGetTransactions_PagingAndOrder(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()

	base := time.Now().UTC()
	for i := 0; i < 7; i++ {
		createdAt := base.Add(time.Duration(i) * time.Second)
		_, err := repo.UpdateWithLock(ctx, "user-1", true, func(balance *entity.Balance) (*entity.Transaction, error) {
			balance.TotalPoints++
			balance.LifetimeEarned++
			return &entity.Transaction{
				UserID:       "user-1",
				Type:         entity.TransactionTypeEarned,
				Amount:       1,
				BalanceAfter: balance.TotalPoints,
				CreatedAt:    createdAt,
			}, nil
		})
		assert.NoError(t, err)
	}

	page1, total, err := repo.GetTransactions(ctx, "user-1", 1, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, page1, 3)
	assert.Equal(t, 7, page1[0].BalanceAfter)
	assert.True(t, page1[0].CreatedAt.After(page1[1].CreatedAt))

	page3, total, err := repo.GetTransactions(ctx, "user-1", 3, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Len(t, page3, 1)
	assert.Equal(t, 1, page3[0].BalanceAfter)

	empty, total, err := repo.GetTransactions(ctx, "user-1", 4, 3)
	assert.NoError(t, err)
	assert.Equal(t, int64(7), total)
	assert.Empty(t, empty)
}

func TestGetTransactions_NonPositivePageSizeFallsBackToDefault(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		_, err := repo.UpdateWithLock(ctx, "user-1", true, func(balance *entity.Balance) (*entity.Transaction, error) {
			balance.TotalPoints++
			balance.LifetimeEarned++
			return &entity.Transaction{
				UserID:       "user-1",
				Type:         entity.TransactionTypeEarned,
				Amount:       1,
				BalanceAfter: balance.TotalPoints,
			}, nil
		})
		assert.NoError(t, err)
	}

	zero, total, err := repo.GetTransactions(ctx, "user-1", 1, 0)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, zero, 3)

	negative, total, err := repo.GetTransactions(ctx, "user-1", 1, -5)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, negative, 3)
}

func TestGetTransactions_ReturnedCopiesAreIsolated(t *testing.T) {
	repo := NewLedgerRepository()
	ctx := context.Background()

	expires := time.Now().UTC().Add(30 * 24 * time.Hour)
	_, err := repo.UpdateWithLock(ctx, "user-1", true, func(balance *entity.Balance) (*entity.Transaction, error) {
		balance.TotalPoints++
		balance.LifetimeEarned++
		return &entity.Transaction{
			UserID:       "user-1",
			Type:         entity.TransactionTypeEarned,
			Amount:       1,
			BalanceAfter: 1,
			ExpiresAt:    &expires,
		}, nil
	})
	assert.NoError(t, err)

	first, _, err := repo.GetTransactions(ctx, "user-1", 1, 10)
	assert.NoError(t, err)
	first[0].Amount = 999
	*first[0].ExpiresAt = time.Time{}

	second, _, err := repo.GetTransactions(ctx, "user-1", 1, 10)
	assert.NoError(t, err)
	assert.Equal(t, 1, second[0].Amount)
	assert.Equal(t, expires.Unix(), second[0].ExpiresAt.Unix())
}
