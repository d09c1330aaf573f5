package gormstore

import (
	"context"

	"driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/domain/uow"

	"gorm.io/gorm"
)

type GormUoW struct{ db *gorm.DB }

func NewGormUoW(db *gorm.DB) *GormUoW { return &GormUoW{db: db} }

func reposFor(tx *gorm.DB) uow.Repos {
	return uow.Repos{
		Citizens:     &CitizenRepository{db: tx},
		Users:        &UserRepository{db: tx},
		Applications: &ApplicationRepository{db: tx},
		Audit:        &AuditRepository{db: tx},
	}
}

func (u *GormUoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(reposFor(tx))
	})
}

func (u *GormUoW) WithinCitizenTx(ctx context.Context, citizenID string, fn func(r uow.Repos, c *citizen.Citizen) error) error {
	return u.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r := reposFor(tx)
		// lock the citizen row up-front so concurrent intake calls serialize
		c, err := r.Citizens.GetByIDForUpdate(ctx, citizenID)
		if err != nil {
			return err
		}
		return fn(r, c)
	})
}
