package sessionmock

import (
	"context"

	"gorm.io/gorm"

	domain "driver-license-portal/internal/domain/authsession"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn             func(ctx context.Context, s *domain.Session) error
	GetByTransactionIDFn func(ctx context.Context, transactionID string) (*domain.Session, error)
	SaveFn               func(ctx context.Context, s *domain.Session) error
}

func (m *Repo) Create(ctx context.Context, s *domain.Session) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, s)
	}
	return nil
}

func (m *Repo) GetByTransactionID(ctx context.Context, transactionID string) (*domain.Session, error) {
	if m.GetByTransactionIDFn != nil {
		return m.GetByTransactionIDFn(ctx, transactionID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) Save(ctx context.Context, s *domain.Session) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, s)
	}
	return nil
}
