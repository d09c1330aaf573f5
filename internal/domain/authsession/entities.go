package authsession

import (
	"context"
	"time"

	"driver-license-portal/internal/domain/errs"
)

type Status string

const (
	StatusPending  Status = "PENDING"
	StatusVerified Status = "VERIFIED"
	StatusExpired  Status = "EXPIRED"
	StatusFailed   Status = "FAILED"
)

const (
	OTPLength   = 6
	OTPLifetime = 10 * time.Minute
	MaxAttempts = 3
)

var (
	ErrNotFound        = errs.Validation("Invalid or unknown transaction")
	ErrNotActive       = errs.Validation("OTP session is no longer active")
	ErrExpired         = errs.Validation("OTP has expired")
	ErrTooManyTries    = errs.Validation("Too many failed attempts")
	ErrInvalidOTP      = errs.Validation("Invalid OTP")
	ErrCitizenMismatch = errs.Validation("OTP session does not belong to this citizen")
)

// Table: auth_sessions
type Session struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CitizenID     string    `gorm:"column:citizen_id;size:36;not null;index" json:"citizen_id"`
	TransactionID string    `gorm:"column:transaction_id;size:64;not null;uniqueIndex" json:"transaction_id"`
	OTPCode       string    `gorm:"column:otp_code;size:6;not null" json:"-"`
	OTPExpiresAt  time.Time `gorm:"column:otp_expires_at;not null" json:"otp_expires_at"`
	Status        Status    `gorm:"column:status;size:16;not null" json:"status"`
	Attempts      int       `gorm:"column:attempts;not null;default:0" json:"attempts"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Session) TableName() string { return "auth_sessions" }

type Repository interface {
	Create(ctx context.Context, s *Session) error
	GetByTransactionID(ctx context.Context, transactionID string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}
