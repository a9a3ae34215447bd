package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"flyerhub/services/points/internal/entity"
	"flyerhub/services/points/internal/repo/persistent"

	"github.com/google/uuid"
)

const defaultPageSize = 20

// LedgerRepository keeps the ledger in process memory. It honors the same
// contract as the postgres repository: one serialization domain per user,
// balance and transaction written together. Used in tests and local runs
// without a database.
type LedgerRepository struct {
	mu           sync.Mutex
	userLocks    map[string]*sync.Mutex
	balances     map[string]*entity.Balance
	transactions map[string][]*entity.Transaction
}

func NewLedgerRepository() *LedgerRepository {
	return &LedgerRepository{
		userLocks:    make(map[string]*sync.Mutex),
		balances:     make(map[string]*entity.Balance),
		transactions: make(map[string][]*entity.Transaction),
	}
}

var _ persistent.LedgerRepository = (*LedgerRepository)(nil)

func (r *LedgerRepository) userLock(userID string) *sync.Mutex {
	r.mu.Lock()
	defer r.mu.Unlock()
	lock, ok := r.userLocks[userID]
	if !ok {
		lock = &sync.Mutex{}
		r.userLocks[userID] = lock
	}
	return lock
}

func copyBalance(b *entity.Balance) *entity.Balance {
	if b == nil {
		return nil
	}
	c := *b
	return &c
}

func copyTransaction(t *entity.Transaction) *entity.Transaction {
	if t == nil {
		return nil
	}
	c := *t
	if t.ExpiresAt != nil {
		e := *t.ExpiresAt
		c.ExpiresAt = &e
	}
	return &c
}

func (r *LedgerRepository) GetBalance(ctx context.Context, userID string) (*entity.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[userID]
	if !ok {
		return nil, entity.ErrBalanceNotFound
	}
	return copyBalance(balance), nil
}

func (r *LedgerRepository) GetOrCreateBalance(ctx context.Context, userID string) (*entity.Balance, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	balance, ok := r.balances[userID]
	if !ok {
		now := time.Now().UTC()
		balance = &entity.Balance{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
		r.balances[userID] = balance
	}
	return copyBalance(balance), nil
}

func (r *LedgerRepository) UpdateWithLock(ctx context.Context, userID string, createIfMissing bool, apply func(balance *entity.Balance) (*entity.Transaction, error)) (*entity.Transaction, error) {
	lock := r.userLock(userID)
	lock.Lock()
	defer lock.Unlock()

	r.mu.Lock()
	stored, ok := r.balances[userID]
	r.mu.Unlock()
	if !ok {
		if !createIfMissing {
			return nil, entity.ErrBalanceNotFound
		}
		now := time.Now().UTC()
		stored = &entity.Balance{
			ID:        uuid.New().String(),
			UserID:    userID,
			CreatedAt: now,
			UpdatedAt: now,
		}
	}

	// apply mutates a copy; nothing is committed until it succeeds.
	balance := copyBalance(stored)
	transaction, err := apply(balance)
	if err != nil {
		return nil, err
	}

	committed := copyTransaction(transaction)
	if committed.ID == "" {
		committed.ID = uuid.New().String()
	}
	if committed.CreatedAt.IsZero() {
		committed.CreatedAt = time.Now().UTC()
	}

	r.mu.Lock()
	r.balances[userID] = balance
	r.transactions[userID] = append(r.transactions[userID], committed)
	r.mu.Unlock()

	return copyTransaction(committed), nil
}

func (r *LedgerRepository) GetTransactions(ctx context.Context, userID string, page, pageSize int) ([]*entity.Transaction, int64, error) {
	r.mu.Lock()
	stored := r.transactions[userID]
	// Newest first; reversed append order breaks ties between transactions
	// sharing a timestamp.
	all := make([]*entity.Transaction, 0, len(stored))
	for i := len(stored) - 1; i >= 0; i-- {
		all = append(all, copyTransaction(stored[i]))
	}
	r.mu.Unlock()

	sort.SliceStable(all, func(i, j int) bool {
		return all[i].CreatedAt.After(all[j].CreatedAt)
	})

	total := int64(len(all))
	if pageSize <= 0 {
		pageSize = defaultPageSize
	}
	start := (page - 1) * pageSize
	if start < 0 {
		start = 0
	}
	if start >= len(all) {
		return []*entity.Transaction{}, total, nil
	}
	end := start + pageSize
	if end > len(all) {
		end = len(all)
	}
	return all[start:end], total, nil
}
