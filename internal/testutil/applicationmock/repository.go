package applicationmock

import (
	"context"
	"time"

	"gorm.io/gorm"

	domain "driver-license-portal/internal/domain/application"
)

var _ domain.Repository = (*Repo)(nil)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset writes succeed, unset reads report gorm.ErrRecordNotFound.
type Repo struct {
	CreateFn               func(ctx context.Context, a *domain.Application) error
	UpdateStageFn          func(ctx context.Context, a *domain.Application, columns ...string) (int64, error)
	GetByIDFn              func(ctx context.Context, id string) (*domain.Application, error)
	GetActiveByCitizenIDFn func(ctx context.Context, citizenID string) (*domain.Application, error)
	ListFn                 func(ctx context.Context, f domain.Filter) ([]domain.Application, error)
	ListByIDsInStatusFn    func(ctx context.Context, ids []string, statuses []domain.Status) ([]domain.Application, error)
	ApplyDecisionFn        func(ctx context.Context, ids []string, d domain.Decision) (int64, error)
	MarkPickedUpFn         func(ctx context.Context, id string, at time.Time) (int64, error)
	SetLicenseNumberFn     func(ctx context.Context, id, licenseNumber string) error
}

func (m *Repo) Create(ctx context.Context, a *domain.Application) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	return nil
}

func (m *Repo) UpdateStage(ctx context.Context, a *domain.Application, columns ...string) (int64, error) {
	if m.UpdateStageFn != nil {
		return m.UpdateStageFn(ctx, a, columns...)
	}
	return 1, nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Application, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetActiveByCitizenID(ctx context.Context, citizenID string) (*domain.Application, error) {
	if m.GetActiveByCitizenIDFn != nil {
		return m.GetActiveByCitizenIDFn(ctx, citizenID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Application, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, nil
}

func (m *Repo) ListByIDsInStatus(ctx context.Context, ids []string, statuses []domain.Status) ([]domain.Application, error) {
	if m.ListByIDsInStatusFn != nil {
		return m.ListByIDsInStatusFn(ctx, ids, statuses)
	}
	return nil, nil
}

func (m *Repo) ApplyDecision(ctx context.Context, ids []string, d domain.Decision) (int64, error) {
	if m.ApplyDecisionFn != nil {
		return m.ApplyDecisionFn(ctx, ids, d)
	}
	return int64(len(ids)), nil
}

func (m *Repo) MarkPickedUp(ctx context.Context, id string, at time.Time) (int64, error) {
	if m.MarkPickedUpFn != nil {
		return m.MarkPickedUpFn(ctx, id, at)
	}
	return 1, nil
}

func (m *Repo) SetLicenseNumber(ctx context.Context, id, licenseNumber string) error {
	if m.SetLicenseNumberFn != nil {
		return m.SetLicenseNumberFn(ctx, id, licenseNumber)
	}
	return nil
}
