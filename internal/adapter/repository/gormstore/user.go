package gormstore

import (
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	citizenDomain "driver-license-portal/internal/domain/citizen"
)

type UserRepository struct{ db *gorm.DB }

func NewUserRepository(db *gorm.DB) *UserRepository { return &UserRepository{db: db} }

func (r *UserRepository) Create(ctx context.Context, u *citizenDomain.User) error {
	return r.db.WithContext(ctx).Create(u).Error
}

func (r *UserRepository) Save(ctx context.Context, u *citizenDomain.User) error {
	return r.db.WithContext(ctx).Save(u).Error
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (*citizenDomain.User, error) {
	var out citizenDomain.User
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return &out, res.Error
}

func (r *UserRepository) GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*citizenDomain.User, error) {
	key := strings.TrimSpace(emailOrPhone)
	var out citizenDomain.User
	res := r.db.WithContext(ctx).
		Where("LOWER(email) = ? OR phone_number = ?", strings.ToLower(key), key).
		First(&out)
	return &out, res.Error
}

func (r *UserRepository) ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&citizenDomain.User{}).
		Where("LOWER(email) = ? OR national_id = ?", strings.ToLower(strings.TrimSpace(email)), strings.TrimSpace(nationalID)).
		Count(&n).Error
	return n > 0, err
}

type PermissionRepository struct{ db *gorm.DB }

func NewPermissionRepository(db *gorm.DB) *PermissionRepository {
	return &PermissionRepository{db: db}
}

// Upsert keys on citizen_id and overwrites every flag. The surrogate id is
// left to the database so a previously loaded row cannot collide on it.
func (r *PermissionRepository) Upsert(ctx context.Context, p *citizenDomain.Permission) error {
	row := *p
	row.ID = 0
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "citizen_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"email", "birthdate", "gender", "name", "phone_number", "picture", "is_verified", "updated_at",
		}),
	}).Create(&row).Error
}

func (r *PermissionRepository) GetByCitizenID(ctx context.Context, citizenID string) (*citizenDomain.Permission, error) {
	var out citizenDomain.Permission
	res := r.db.WithContext(ctx).Where("citizen_id = ?", citizenID).First(&out)
	return &out, res.Error
}
