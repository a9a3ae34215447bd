package persistent

import (
	"flyerhub/services/points/internal/entity"
	"flyerhub/services/points/internal/model"
)

func ToBalanceEntity(m *model.BalanceModel) *entity.Balance {
	if m == nil {
		return nil
	}

	return &entity.Balance{
		ID:             m.ID,
		UserID:         m.UserID,
		TotalPoints:    m.TotalPoints,
		LifetimeEarned: m.LifetimeEarned,
		LifetimeSpent:  m.LifetimeSpent,
		CreatedAt:      m.CreatedAt,
		UpdatedAt:      m.UpdatedAt,
	}
}

func ToBalanceModel(e *entity.Balance) *model.BalanceModel {
	if e == nil {
		return nil
	}

	return &model.BalanceModel{
		ID:             e.ID,
		UserID:         e.UserID,
		TotalPoints:    e.TotalPoints,
		LifetimeEarned: e.LifetimeEarned,
		LifetimeSpent:  e.LifetimeSpent,
		CreatedAt:      e.CreatedAt,
		UpdatedAt:      e.UpdatedAt,
	}
}

func ToTransactionEntity(m *model.TransactionModel) *entity.Transaction {
	if m == nil {
		return nil
	}

	return &entity.Transaction{
		ID:            m.ID,
		UserID:        m.UserID,
		Type:          entity.TransactionType(m.Type),
		Amount:        m.Amount,
		BalanceAfter:  m.BalanceAfter,
		Reason:        m.Reason,
		Description:   m.Description,
		ReferenceID:   m.ReferenceID,
		ReferenceType: m.ReferenceType,
		ExpiresAt:     m.ExpiresAt,
		CreatedAt:     m.CreatedAt,
	}
}

func ToTransactionModel(e *entity.Transaction) *model.TransactionModel {
	if e == nil {
		return nil
	}

	return &model.TransactionModel{
		ID:            e.ID,
		UserID:        e.UserID,
		Type:          string(e.Type),
		Amount:        e.Amount,
		BalanceAfter:  e.BalanceAfter,
		Reason:        e.Reason,
		Description:   e.Description,
		ReferenceID:   e.ReferenceID,
		ReferenceType: e.ReferenceType,
		ExpiresAt:     e.ExpiresAt,
		CreatedAt:     e.CreatedAt,
	}
}
