package qrmock

import (
	"context"

	"gorm.io/gorm"

	domain "driver-license-portal/internal/domain/qrcode"
)

var _ domain.Repository = (*Repo)(nil)

type Repo struct {
	CreateFn                func(ctx context.Context, q *domain.QRCode) error
	GetByApplicationIDFn    func(ctx context.Context, applicationID string) (*domain.QRCode, error)
	GetByLicenseNumberFn    func(ctx context.Context, licenseNumber string) (*domain.QRCode, error)
	DeleteByApplicationIDFn func(ctx context.Context, applicationID string) (int64, error)
}

func (m *Repo) Create(ctx context.Context, q *domain.QRCode) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, q)
	}
	return nil
}

func (m *Repo) GetByApplicationID(ctx context.Context, applicationID string) (*domain.QRCode, error) {
	if m.GetByApplicationIDFn != nil {
		return m.GetByApplicationIDFn(ctx, applicationID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*domain.QRCode, error) {
	if m.GetByLicenseNumberFn != nil {
		return m.GetByLicenseNumberFn(ctx, licenseNumber)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) DeleteByApplicationID(ctx context.Context, applicationID string) (int64, error) {
	if m.DeleteByApplicationIDFn != nil {
		return m.DeleteByApplicationIDFn(ctx, applicationID)
	}
	return 0, nil
}
