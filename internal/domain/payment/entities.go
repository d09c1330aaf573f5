package payment

import (
	"context"
	"time"

	"gorm.io/datatypes"
)

const (
	StatusCompleted = "completed"
	StatusFailed    = "failed"

	Currency = "FBU"
)

type Method string

const (
	MethodCard   Method = "card"
	MethodMobile Method = "mobile"
	MethodBank   Method = "bank"
)

// Table: payments. Append-only, one row per attempt.
type Payment struct {
	ID                    uint64         `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	ApplicationID         string         `gorm:"column:application_id;size:64;not null;index" json:"application_id"`
	PaymentInfo           datatypes.JSON `gorm:"column:payment_info" json:"payment_info"`
	Status                string         `gorm:"column:status;size:16;not null" json:"status"`
	TransactionID         string         `gorm:"column:transaction_id;size:64;index" json:"transaction_id"`
	Amount                int64          `gorm:"column:amount;not null" json:"amount"`
	Currency              string         `gorm:"column:currency;size:8;not null" json:"currency"`
	Method                string         `gorm:"column:method;size:16;not null" json:"method"`
	ProcessingFee         int64          `gorm:"column:processing_fee" json:"processing_fee"`
	Provider              string         `gorm:"column:provider;size:64" json:"provider"`
	ProviderTransactionID string         `gorm:"column:provider_transaction_id;size:64" json:"provider_transaction_id"`
	DueDate               *time.Time     `gorm:"column:due_date" json:"due_date"`
	FailureReason         *string        `gorm:"column:failure_reason;type:text" json:"failure_reason"`
	ProcessedAt           *time.Time     `gorm:"column:processed_at" json:"processed_at"`
	CreatedAt             time.Time      `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt             time.Time      `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Payment) TableName() string { return "payments" }

type Repository interface {
	Create(ctx context.Context, p *Payment) error
	ListByApplicationID(ctx context.Context, applicationID string) ([]Payment, error)
}
