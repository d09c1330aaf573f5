package gormstore

import (
	"context"
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	appDomain "driver-license-portal/internal/domain/application"
)

type ApplicationRepository struct{ db *gorm.DB }

func NewApplicationRepository(db *gorm.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

func statusStrings(in []appDomain.Status) []string {
	out := make([]string, len(in))
	for i, s := range in {
		out[i] = string(s)
	}
	return out
}

func (r *ApplicationRepository) Create(ctx context.Context, a *appDomain.Application) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *ApplicationRepository) UpdateStage(ctx context.Context, a *appDomain.Application, columns ...string) (int64, error) {
	res := r.db.WithContext(ctx).Model(a).
		Select(append(columns, "updated_at")).
		Where("status IN ?", statusStrings(appDomain.ReviewableStatuses)).
		Updates(a)
	return res.RowsAffected, res.Error
}

func (r *ApplicationRepository) GetByID(ctx context.Context, id string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) GetActiveByCitizenID(ctx context.Context, citizenID string) (*appDomain.Application, error) {
	var out appDomain.Application
	res := r.db.WithContext(ctx).
		Where("citizen_id = ? AND status IN ?", citizenID, statusStrings(appDomain.ReviewableStatuses)).
		Order("created_at DESC, id DESC").
		First(&out)
	return &out, res.Error
}

func (r *ApplicationRepository) List(ctx context.Context, f appDomain.Filter) ([]appDomain.Application, error) {
	q := r.db.WithContext(ctx).Model(&appDomain.Application{})
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.NationalID != "" {
		q = q.Where(datatypes.JSONQuery("personal_info").Equals(f.NationalID, "nationalId"))
	}
	limit := f.Limit
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	var out []appDomain.Application
	err := q.Order("created_at DESC").Limit(limit).Offset(f.Offset).Find(&out).Error
	return out, err
}

func (r *ApplicationRepository) ListByIDsInStatus(ctx context.Context, ids []string, statuses []appDomain.Status) ([]appDomain.Application, error) {
	var out []appDomain.Application
	if len(ids) == 0 {
		return out, nil
	}
	err := r.db.WithContext(ctx).
		Where("id IN ? AND status IN ?", ids, statusStrings(statuses)).
		Find(&out).Error
	return out, err
}

func (r *ApplicationRepository) ApplyDecision(ctx context.Context, ids []string, d appDomain.Decision) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}
	updates := map[string]any{
		"status":       string(d.Status),
		"review_notes": d.Notes,
		"reviewed_by":  d.AdminID,
		"updated_at":   d.DecidedAt,
	}
	switch d.Status {
	case appDomain.StatusApproved:
		updates["approved_at"] = d.DecidedAt
	case appDomain.StatusRejected:
		updates["rejected_at"] = d.DecidedAt
	}
	res := r.db.WithContext(ctx).Model(&appDomain.Application{}).
		Where("id IN ? AND status IN ?", ids, statusStrings(appDomain.ReviewableStatuses)).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *ApplicationRepository) MarkPickedUp(ctx context.Context, id string, at time.Time) (int64, error) {
	res := r.db.WithContext(ctx).Model(&appDomain.Application{}).
		Where("id = ? AND picked_up = ?", id, false).
		Updates(map[string]any{"picked_up": true, "pickup_time": at, "updated_at": time.Now().UTC()})
	return res.RowsAffected, res.Error
}

func (r *ApplicationRepository) SetLicenseNumber(ctx context.Context, id, licenseNumber string) error {
	return r.db.WithContext(ctx).Model(&appDomain.Application{}).
		Where("id = ? AND license_number IS NULL", id).
		Update("license_number", licenseNumber).Error
}
