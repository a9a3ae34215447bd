package persistent

import (
	"context"
	"errors"
	"time"

	"flyerhub/services/points/internal/entity"
	"flyerhub/services/points/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// LedgerRepository is the persistence contract for the points ledger.
// UpdateWithLock must hold an exclusive per-user lock for the whole
// read-compute-write sequence and persist the mutated balance together with
// the appended transaction as one atomic unit.
type LedgerRepository interface {
	GetBalance(ctx context.Context, userID string) (*entity.Balance, error)
	GetOrCreateBalance(ctx context.Context, userID string) (*entity.Balance, error)
	UpdateWithLock(ctx context.Context, userID string, createIfMissing bool, apply func(balance *entity.Balance) (*entity.Transaction, error)) (*entity.Transaction, error)
	GetTransactions(ctx context.Context, userID string, page, pageSize int) ([]*entity.Transaction, int64, error)
}

type ledgerRepository struct {
	db       *gorm.DB
	lockWait time.Duration
}

func NewLedgerRepository(db *gorm.DB, lockWait time.Duration) LedgerRepository {
	return &ledgerRepository{db: db, lockWait: lockWait}
}

func (r *ledgerRepository) GetBalance(ctx context.Context, userID string) (*entity.Balance, error) {
	var balanceModel model.BalanceModel
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&balanceModel).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, entity.ErrBalanceNotFound
		}
		return nil, err
	}
	return ToBalanceEntity(&balanceModel), nil
}

func (r *ledgerRepository) GetOrCreateBalance(ctx context.Context, userID string) (*entity.Balance, error) {
	balance, err := r.GetBalance(ctx, userID)
	if err == nil {
		return balance, nil
	}
	if !errors.Is(err, entity.ErrBalanceNotFound) {
		return nil, err
	}

	balanceModel := model.BalanceModel{UserID: userID}
	// Concurrent first-earn calls race on the unique user index; DoNothing
	// lets the loser fall through to re-reading the winner's row.
	err = r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "user_id"}},
			DoNothing: true,
		}).
		Create(&balanceModel).Error
	if err != nil {
		return nil, err
	}

	return r.GetBalance(ctx, userID)
}

// lockBalanceByUser reads the user's balance row under FOR UPDATE. dest is
// reset first: a primary key left over from an earlier query or a lost
// OnConflict insert (the id hook runs even when the insert is a no-op) would
// otherwise narrow the lookup and hide the winner's row.
func lockBalanceByUser(tx *gorm.DB, userID string, dest *model.BalanceModel) error {
	*dest = model.BalanceModel{}
	return tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("user_id = ?", userID).
		First(dest).Error
}

func (r *ledgerRepository) UpdateWithLock(ctx context.Context, userID string, createIfMissing bool, apply func(balance *entity.Balance) (*entity.Transaction, error)) (*entity.Transaction, error) {
	lockCtx, cancel := context.WithTimeout(ctx, r.lockWait)
	defer cancel()

	var created *entity.Transaction
	err := r.db.WithContext(lockCtx).Transaction(func(tx *gorm.DB) error {
		var balanceModel model.BalanceModel
		err := lockBalanceByUser(tx, userID, &balanceModel)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if !createIfMissing {
				return entity.ErrBalanceNotFound
			}
			insert := model.BalanceModel{UserID: userID}
			if err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "user_id"}},
				DoNothing: true,
			}).Create(&insert).Error; err != nil {
				return err
			}
			// Re-read under lock: another transaction may have created the row first.
			if err := lockBalanceByUser(tx, userID, &balanceModel); err != nil {
				return err
			}
		} else if err != nil {
			return err
		}

		balance := ToBalanceEntity(&balanceModel)
		transaction, err := apply(balance)
		if err != nil {
			return err
		}

		result := tx.Model(&model.BalanceModel{}).
			Where("user_id = ?", userID).
			Updates(map[string]interface{}{
				"total_points":    balance.TotalPoints,
				"lifetime_earned": balance.LifetimeEarned,
				"lifetime_spent":  balance.LifetimeSpent,
				"updated_at":      balance.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}

		transactionModel := ToTransactionModel(transaction)
		if transactionModel.ID == "" {
			transactionModel.ID = uuid.New().String()
		}
		if err := tx.Create(transactionModel).Error; err != nil {
			return err
		}

		created = ToTransactionEntity(transactionModel)
		return nil
	})
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(lockCtx.Err(), context.DeadlineExceeded) {
			return nil, entity.ErrLedgerBusy
		}
		return nil, err
	}
	return created, nil
}

func (r *ledgerRepository) GetTransactions(ctx context.Context, userID string, page, pageSize int) ([]*entity.Transaction, int64, error) {
	var transactionModels []model.TransactionModel
	var total int64

	query := r.db.WithContext(ctx).Model(&model.TransactionModel{}).Where("user_id = ?", userID)

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("created_at DESC").
		Offset((page - 1) * pageSize).
		Limit(pageSize).
		Find(&transactionModels).Error
	if err != nil {
		return nil, 0, err
	}

	transactions := make([]*entity.Transaction, len(transactionModels))
	for i := range transactionModels {
		transactions[i] = ToTransactionEntity(&transactionModels[i])
	}
	return transactions, total, nil
}
