package usecase

import (
	"context"
	"fmt"
	"time"

	"flyerhub/pkg/logger"
	"flyerhub/pkg/queue"
	"flyerhub/services/points/internal/entity"
	"flyerhub/services/points/internal/repo/persistent"

	"github.com/redis/go-redis/v9"
)

const summarySize = 10

type EarnParams struct {
	UserID        string
	Reason        entity.EarnReason
	Amount        int
	ReferenceID   string
	ReferenceType string
	Description   string
}

type SpendParams struct {
	UserID        string
	Reason        entity.SpendReason
	Amount        int
	ReferenceID   string
	ReferenceType string
	Description   string
}

type PointsUseCase interface {
	Earn(ctx context.Context, params EarnParams) (*entity.Transaction, error)
	Spend(ctx context.Context, params SpendParams) (*entity.Transaction, error)
	GetBalance(ctx context.Context, userID string) (*entity.Balance, error)
	GetTransactions(ctx context.Context, userID string, page, pageSize int) ([]*entity.Transaction, int64, error)
	GetSummary(ctx context.Context, userID string) (*entity.Summary, error)
	GrantPoints(ctx context.Context, userID string, amount int, description string) (*entity.Transaction, error)
	DeductPoints(ctx context.Context, userID string, amount int, description string) (*entity.Transaction, error)
}

type pointsUseCase struct {
	ledgerRepo   persistent.LedgerRepository
	redisClient  *redis.Client
	queueClient  *queue.Client
	dailyEarnCap int
	logger       *logger.Logger
}

func NewPointsUseCase(
	ledgerRepo persistent.LedgerRepository,
	redisClient *redis.Client,
	queueClient *queue.Client,
	dailyEarnCap int,
	log *logger.Logger,
) PointsUseCase {
	return &pointsUseCase{
		ledgerRepo:   ledgerRepo,
		redisClient:  redisClient,
		queueClient:  queueClient,
		dailyEarnCap: dailyEarnCap,
		logger:       log,
	}
}

func (uc *pointsUseCase) Earn(ctx context.Context, params EarnParams) (*entity.Transaction, error) {
	if params.Amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}
	if !params.Reason.Valid() {
		return nil, entity.ErrUnknownReason
	}

	if params.Reason.Engagement() {
		if err := uc.checkDailyCap(ctx, params.UserID, params.Reason, params.Amount); err != nil {
			return nil, err
		}
	}

	transaction, err := uc.ledgerRepo.UpdateWithLock(ctx, params.UserID, true, func(balance *entity.Balance) (*entity.Transaction, error) {
		now := time.Now().UTC()
		balance.TotalPoints += params.Amount
		balance.LifetimeEarned += params.Amount
		balance.UpdatedAt = now

		var expiresAt *time.Time
		if d := params.Reason.ExpiresAfter(); d != nil {
			e := now.Add(*d)
			expiresAt = &e
		}

		return &entity.Transaction{
			UserID:        params.UserID,
			Type:          entity.TransactionTypeEarned,
			Amount:        params.Amount,
			BalanceAfter:  balance.TotalPoints,
			Reason:        string(params.Reason),
			Description:   params.Description,
			ReferenceID:   params.ReferenceID,
			ReferenceType: params.ReferenceType,
			ExpiresAt:     expiresAt,
			CreatedAt:     now,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to earn points: %w", err)
	}

	uc.publishEvent(transaction)
	return transaction, nil
}

func (uc *pointsUseCase) Spend(ctx context.Context, params SpendParams) (*entity.Transaction, error) {
	if params.Amount <= 0 {
		return nil, entity.ErrInvalidAmount
	}
	if !params.Reason.Valid() {
		return nil, entity.ErrUnknownReason
	}

	transaction, err := uc.ledgerRepo.UpdateWithLock(ctx, params.UserID, false, func(balance *entity.Balance) (*entity.Transaction, error) {
		if balance.TotalPoints < params.Amount {
			return nil, &entity.InsufficientBalanceError{
				Available: balance.TotalPoints,
				Requested: params.Amount,
			}
		}

		now := time.Now().UTC()
		balance.TotalPoints -= params.Amount
		balance.LifetimeSpent += params.Amount
		balance.UpdatedAt = now

		return &entity.Transaction{
			UserID:        params.UserID,
			Type:          entity.TransactionTypeSpent,
			Amount:        params.Amount,
			BalanceAfter:  balance.TotalPoints,
			Reason:        string(params.Reason),
			Description:   params.Description,
			ReferenceID:   params.ReferenceID,
			ReferenceType: params.ReferenceType,
			CreatedAt:     now,
		}, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to spend points: %w", err)
	}

	uc.publishEvent(transaction)
	return transaction, nil
}

func (uc *pointsUseCase) GetBalance(ctx context.Context, userID string) (*entity.Balance, error) {
	balance, err := uc.ledgerRepo.GetOrCreateBalance(ctx, userID)
	if err != nil {
		uc.logger.Error("Failed to get balance: %v", err)
		return nil, fmt.Errorf("failed to get balance: %w", err)
	}
	return balance, nil
}

func (uc *pointsUseCase) GetTransactions(ctx context.Context, userID string, page, pageSize int) ([]*entity.Transaction, int64, error) {
	if page < 1 {
		page = 1
	}
	transactions, total, err := uc.ledgerRepo.GetTransactions(ctx, userID, page, pageSize)
	if err != nil {
		uc.logger.Error("Failed to get transactions: %v", err)
		return nil, 0, fmt.Errorf("failed to get transactions: %w", err)
	}
	return transactions, total, nil
}

func (uc *pointsUseCase) GetSummary(ctx context.Context, userID string) (*entity.Summary, error) {
	balance, err := uc.GetBalance(ctx, userID)
	if err != nil {
		return nil, err
	}
	recent, _, err := uc.GetTransactions(ctx, userID, 1, summarySize)
	if err != nil {
		return nil, err
	}
	return &entity.Summary{
		Balance:            balance,
		RecentTransactions: recent,
	}, nil
}

// GrantPoints credits a user unconditionally with the admin_grant reason.
// Admin grants never decay.
func (uc *pointsUseCase) GrantPoints(ctx context.Context, userID string, amount int, description string) (*entity.Transaction, error) {
	return uc.Earn(ctx, EarnParams{
		UserID:      userID,
		Reason:      entity.EarnReasonAdminGrant,
		Amount:      amount,
		Description: description,
	})
}

// DeductPoints debits a user with the admin_deduct reason. The insufficient
// balance rule still applies: an administrator cannot force a balance negative.
func (uc *pointsUseCase) DeductPoints(ctx context.Context, userID string, amount int, description string) (*entity.Transaction, error) {
	return uc.Spend(ctx, SpendParams{
		UserID:      userID,
		Reason:      entity.SpendReasonAdminDeduct,
		Amount:      amount,
		Description: description,
	})
}

// checkDailyCap bounds engagement earns per user per reason per UTC day.
// Skipped when redis is not configured or the cap is disabled.
func (uc *pointsUseCase) checkDailyCap(ctx context.Context, userID string, reason entity.EarnReason, amount int) error {
	if uc.redisClient == nil || uc.dailyEarnCap <= 0 {
		return nil
	}

	key := fmt.Sprintf("points:cap:%s:%s:%s", reason, userID, time.Now().UTC().Format("2006-01-02"))
	count, err := uc.redisClient.IncrBy(ctx, key, int64(amount)).Result()
	if err != nil {
		// The cap is best-effort; the ledger stays available without redis.
		uc.logger.Warn("Daily cap check unavailable: %v", err)
		return nil
	}
	if count == int64(amount) {
		uc.redisClient.Expire(ctx, key, 24*time.Hour)
	}
	if count > int64(uc.dailyEarnCap) {
		return entity.ErrDailyCapReached
	}
	return nil
}

func (uc *pointsUseCase) publishEvent(transaction *entity.Transaction) {
	if uc.queueClient == nil || transaction == nil {
		return
	}
	go func() {
		event := queue.PointsEvent{
			TransactionID: transaction.ID,
			UserID:        transaction.UserID,
			Type:          string(transaction.Type),
			Amount:        transaction.Amount,
			BalanceAfter:  transaction.BalanceAfter,
			Reason:        transaction.Reason,
			ReferenceID:   transaction.ReferenceID,
			ReferenceType: transaction.ReferenceType,
		}
		if err := uc.queueClient.PublishPointsEvent(event); err != nil {
			uc.logger.Error("[POINTS QUEUE] Failed to publish points event: %v", err)
		}
	}()
}
