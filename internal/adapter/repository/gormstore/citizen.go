package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	citizenDomain "driver-license-portal/internal/domain/citizen"
)

type CitizenRepository struct{ db *gorm.DB }

func NewCitizenRepository(db *gorm.DB) *CitizenRepository { return &CitizenRepository{db: db} }

func (r *CitizenRepository) Create(ctx context.Context, c *citizenDomain.Citizen) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *CitizenRepository) GetByID(ctx context.Context, id string) (*citizenDomain.Citizen, error) {
	var out citizenDomain.Citizen
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *CitizenRepository) GetByIDForUpdate(ctx context.Context, id string) (*citizenDomain.Citizen, error) {
	var out citizenDomain.Citizen
	res := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("id = ?", id).
		First(&out)
	return &out, res.Error
}

func (r *CitizenRepository) GetByNationalID(ctx context.Context, nationalID string) (*citizenDomain.Citizen, error) {
	var out citizenDomain.Citizen
	res := r.db.WithContext(ctx).Where("national_id = ?", strings.TrimSpace(nationalID)).First(&out)
	return &out, res.Error
}

func (r *CitizenRepository) GetByEmail(ctx context.Context, email string) (*citizenDomain.Citizen, error) {
	var out citizenDomain.Citizen
	res := r.db.WithContext(ctx).
		Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).
		Order("created_at ASC").
		First(&out)
	return &out, res.Error
}

func (r *CitizenRepository) GetByEmailAndNationalID(ctx context.Context, email, nationalID string) (*citizenDomain.Citizen, error) {
	var out citizenDomain.Citizen
	res := r.db.WithContext(ctx).
		Where("LOWER(email) = ? AND national_id = ?", strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(nationalID)).
		First(&out)
	return &out, res.Error
}
