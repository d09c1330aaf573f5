package paymentmock

import (
	"context"

	domain "driver-license-portal/internal/domain/payment"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn              func(ctx context.Context, p *domain.Payment) error
	ListByApplicationIDFn func(ctx context.Context, applicationID string) ([]domain.Payment, error)
}

func (m *Repo) Create(ctx context.Context, p *domain.Payment) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, p)
	}
	return nil
}

func (m *Repo) ListByApplicationID(ctx context.Context, applicationID string) ([]domain.Payment, error) {
	if m.ListByApplicationIDFn != nil {
		return m.ListByApplicationIDFn(ctx, applicationID)
	}
	return nil, nil
}
