package entity

import "time"

type TransactionType string

const (
	TransactionTypeEarned   TransactionType = "earned"
	TransactionTypeSpent    TransactionType = "spent"
	TransactionTypeExpired  TransactionType = "expired"
	TransactionTypeRefunded TransactionType = "refunded"
)

// Balance is the per-user redeemable points row, created lazily on first earn.
// TotalPoints always equals LifetimeEarned - LifetimeSpent and never goes negative.
type Balance struct {
	ID             string    `json:"id"`
	UserID         string    `json:"user_id"`
	TotalPoints    int       `json:"total_points"`
	LifetimeEarned int       `json:"lifetime_earned"`
	LifetimeSpent  int       `json:"lifetime_spent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Transaction is one immutable ledger entry. Rows are append-only: nothing in
// the system updates or deletes them once written.
type Transaction struct {
	ID            string          `json:"id"`
	UserID        string          `json:"user_id"`
	Type          TransactionType `json:"type"`
	Amount        int             `json:"amount"`
	BalanceAfter  int             `json:"balance_after"`
	Reason        string          `json:"reason"`
	Description   string          `json:"description,omitempty"`
	ReferenceID   string          `json:"reference_id,omitempty"`
	ReferenceType string          `json:"reference_type,omitempty"`
	ExpiresAt     *time.Time      `json:"expires_at,omitempty"`
	CreatedAt     time.Time       `json:"created_at"`
}

// Summary is the wallet-screen payload: current balance plus recent activity.
type Summary struct {
	Balance            *Balance       `json:"balance"`
	RecentTransactions []*Transaction `json:"recent_transactions"`
}
