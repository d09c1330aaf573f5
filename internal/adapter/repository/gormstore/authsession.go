package gormstore

import (
	"context"

	"gorm.io/gorm"

	sessionDomain "driver-license-portal/internal/domain/authsession"
)

type AuthSessionRepository struct{ db *gorm.DB }

func NewAuthSessionRepository(db *gorm.DB) *AuthSessionRepository {
	return &AuthSessionRepository{db: db}
}

func (r *AuthSessionRepository) Create(ctx context.Context, s *sessionDomain.Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *AuthSessionRepository) GetByTransactionID(ctx context.Context, transactionID string) (*sessionDomain.Session, error) {
	var out sessionDomain.Session
	res := r.db.WithContext(ctx).Where("transaction_id = ?", transactionID).First(&out)
	return &out, res.Error
}

func (r *AuthSessionRepository) Save(ctx context.Context, s *sessionDomain.Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}
