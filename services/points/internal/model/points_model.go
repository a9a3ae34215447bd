package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BalanceModel struct {
	ID             string    `gorm:"type:uuid;primary_key" json:"id"`
	UserID         string    `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`
	TotalPoints    int       `gorm:"not null;default:0" json:"total_points"`
	LifetimeEarned int       `gorm:"not null;default:0" json:"lifetime_earned"`
	LifetimeSpent  int       `gorm:"not null;default:0" json:"lifetime_spent"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (BalanceModel) TableName() string {
	return "point_balances"
}

func (b *BalanceModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.New().String()
	}
	return nil
}

type TransactionModel struct {
	ID            string     `gorm:"type:uuid;primary_key" json:"id"`
	UserID        string     `gorm:"type:uuid;not null;index:idx_point_transactions_user_created,priority:1" json:"user_id"`
	Type          string     `gorm:"type:varchar(20);not null" json:"type"`
	Amount        int        `gorm:"not null" json:"amount"`
	BalanceAfter  int        `gorm:"not null" json:"balance_after"`
	Reason        string     `gorm:"type:varchar(40);not null" json:"reason"`
	Description   string     `gorm:"type:varchar(256)" json:"description,omitempty"`
	ReferenceID   string     `gorm:"type:varchar(64);index" json:"reference_id,omitempty"`
	ReferenceType string     `gorm:"type:varchar(40)" json:"reference_type,omitempty"`
	ExpiresAt     *time.Time `json:"expires_at,omitempty"`
	CreatedAt     time.Time  `gorm:"index:idx_point_transactions_user_created,priority:2,sort:desc" json:"created_at"`
}

func (TransactionModel) TableName() string {
	return "point_transactions"
}

func (t *TransactionModel) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.New().String()
	}
	return nil
}
