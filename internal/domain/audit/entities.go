package audit

import (
	"context"
	"time"
)

const (
	ActionApprove    = "APPROVE_APPLICATION"
	ActionReject     = "REJECT_APPLICATION"
	ActionPickup     = "CONFIRM_PICKUP"
	ActionDeleteQR   = "DELETE_QR_CODE"
	ActionBulkPrefix = "BULK_"
)

// Table: admin_actions
type Action struct {
	ID            uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	AdminID       string    `gorm:"column:admin_id;size:64;not null;index" json:"admin_id"`
	ActionType    string    `gorm:"column:action_type;size:64;not null" json:"action_type"`
	ApplicationID string    `gorm:"column:application_id;size:64;index" json:"application_id"`
	Notes         *string   `gorm:"column:notes;type:text" json:"notes"`
	CreatedAt     time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Action) TableName() string { return "admin_actions" }

type Repository interface {
	Create(ctx context.Context, a *Action) error
}
