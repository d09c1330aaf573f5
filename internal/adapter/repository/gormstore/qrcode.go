package gormstore

import (
	"context"

	"gorm.io/gorm"

	qrDomain "driver-license-portal/internal/domain/qrcode"
)

type QRCodeRepository struct{ db *gorm.DB }

func NewQRCodeRepository(db *gorm.DB) *QRCodeRepository { return &QRCodeRepository{db: db} }

func (r *QRCodeRepository) Create(ctx context.Context, q *qrDomain.QRCode) error {
	return r.db.WithContext(ctx).Create(q).Error
}

func (r *QRCodeRepository) GetByApplicationID(ctx context.Context, applicationID string) (*qrDomain.QRCode, error) {
	var out qrDomain.QRCode
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).First(&out)
	return &out, res.Error
}

func (r *QRCodeRepository) GetByLicenseNumber(ctx context.Context, licenseNumber string) (*qrDomain.QRCode, error) {
	var out qrDomain.QRCode
	res := r.db.WithContext(ctx).Where("license_number = ?", licenseNumber).First(&out)
	return &out, res.Error
}

func (r *QRCodeRepository) DeleteByApplicationID(ctx context.Context, applicationID string) (int64, error) {
	res := r.db.WithContext(ctx).Where("application_id = ?", applicationID).Delete(&qrDomain.QRCode{})
	return res.RowsAffected, res.Error
}
