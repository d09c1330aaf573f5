package qrcode

import (
	"context"
	"time"

	"driver-license-portal/internal/domain/errs"

	"gorm.io/datatypes"
)

var (
	ErrNotFound       = errs.NotFound("License not found")
	ErrMissingLicense = errs.Validation("License number is required")
	ErrNoQRCode       = errs.NotFound("QR code not found for this application")
)

// Payload is the license detail block embedded in each QR record.
type Payload struct {
	LicenseNumber string    `json:"license_number"`
	ApplicationID string    `json:"application_id"`
	LicenseType   string    `json:"license_type"`
	HolderName    string    `json:"holder_name"`
	NationalID    string    `json:"national_id"`
	IssuedDate    string    `json:"issued_date"`
	ExpiryDate    string    `json:"expiry_date"`
	Status        string    `json:"status"`
	GeneratedAt   time.Time `json:"qr_generated_at"`
}

// Table: qr_codes. One row per application, immutable once written.
type QRCode struct {
	ID            uint64                      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID string                      `gorm:"column:application_id;size:64;not null;uniqueIndex" json:"application_id"`
	LicenseNumber string                      `gorm:"column:license_number;size:64;not null;uniqueIndex" json:"license_number"`
	Data          datatypes.JSONType[Payload] `gorm:"column:qr_code_data" json:"qr_code_data"`
	Image         string                      `gorm:"column:qr_code_image;type:text;not null" json:"qr_code_image"`
	CreatedAt     time.Time                   `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time                   `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (QRCode) TableName() string { return "qr_codes" }

type Repository interface {
	Create(ctx context.Context, q *QRCode) error
	GetByApplicationID(ctx context.Context, applicationID string) (*QRCode, error)
	GetByLicenseNumber(ctx context.Context, licenseNumber string) (*QRCode, error)
	DeleteByApplicationID(ctx context.Context, applicationID string) (int64, error)
}
