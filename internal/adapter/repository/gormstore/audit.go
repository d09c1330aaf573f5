package gormstore

import (
	"context"

	"gorm.io/gorm"

	auditDomain "driver-license-portal/internal/domain/audit"
)

type AuditRepository struct{ db *gorm.DB }

func NewAuditRepository(db *gorm.DB) *AuditRepository { return &AuditRepository{db: db} }

func (r *AuditRepository) Create(ctx context.Context, a *auditDomain.Action) error {
	return r.db.WithContext(ctx).Create(a).Error
}
