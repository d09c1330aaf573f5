package citizenmock

import (
	"context"

	"gorm.io/gorm"

	domain "driver-license-portal/internal/domain/citizen"
)

var (
	_ domain.Repository           = (*Repo)(nil)
	_ domain.UserRepository       = (*UserRepo)(nil)
	_ domain.PermissionRepository = (*PermissionRepo)(nil)
)

// Repo is a function-backed mock that satisfies domain.Repository.
// Unset lookups report gorm.ErrRecordNotFound.
type Repo struct {
	CreateFn                  func(ctx context.Context, c *domain.Citizen) error
	GetByIDFn                 func(ctx context.Context, id string) (*domain.Citizen, error)
	GetByNationalIDFn         func(ctx context.Context, nationalID string) (*domain.Citizen, error)
	GetByEmailFn              func(ctx context.Context, email string) (*domain.Citizen, error)
	GetByEmailAndNationalIDFn func(ctx context.Context, email, nationalID string) (*domain.Citizen, error)
	GetByIDForUpdateFn        func(ctx context.Context, id string) (*domain.Citizen, error)
}

func (m *Repo) Create(ctx context.Context, c *domain.Citizen) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, c)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Citizen, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByNationalID(ctx context.Context, nationalID string) (*domain.Citizen, error) {
	if m.GetByNationalIDFn != nil {
		return m.GetByNationalIDFn(ctx, nationalID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByEmail(ctx context.Context, email string) (*domain.Citizen, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByEmailAndNationalID(ctx context.Context, email, nationalID string) (*domain.Citizen, error) {
	if m.GetByEmailAndNationalIDFn != nil {
		return m.GetByEmailAndNationalIDFn(ctx, email, nationalID)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *Repo) GetByIDForUpdate(ctx context.Context, id string) (*domain.Citizen, error) {
	if m.GetByIDForUpdateFn != nil {
		return m.GetByIDForUpdateFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

type UserRepo struct {
	CreateFn                    func(ctx context.Context, u *domain.User) error
	SaveFn                      func(ctx context.Context, u *domain.User) error
	GetByIDFn                   func(ctx context.Context, id string) (*domain.User, error)
	GetByEmailOrPhoneFn         func(ctx context.Context, emailOrPhone string) (*domain.User, error)
	ExistsByEmailOrNationalIDFn func(ctx context.Context, email, nationalID string) (bool, error)
}

func (m *UserRepo) Create(ctx context.Context, u *domain.User) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, u)
	}
	return nil
}

func (m *UserRepo) Save(ctx context.Context, u *domain.User) error {
	if m.SaveFn != nil {
		return m.SaveFn(ctx, u)
	}
	return nil
}

func (m *UserRepo) GetByID(ctx context.Context, id string) (*domain.User, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *UserRepo) GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*domain.User, error) {
	if m.GetByEmailOrPhoneFn != nil {
		return m.GetByEmailOrPhoneFn(ctx, emailOrPhone)
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *UserRepo) ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error) {
	if m.ExistsByEmailOrNationalIDFn != nil {
		return m.ExistsByEmailOrNationalIDFn(ctx, email, nationalID)
	}
	return false, nil
}

type PermissionRepo struct {
	UpsertFn         func(ctx context.Context, p *domain.Permission) error
	GetByCitizenIDFn func(ctx context.Context, citizenID string) (*domain.Permission, error)
}

func (m *PermissionRepo) Upsert(ctx context.Context, p *domain.Permission) error {
	if m.UpsertFn != nil {
		return m.UpsertFn(ctx, p)
	}
	return nil
}

func (m *PermissionRepo) GetByCitizenID(ctx context.Context, citizenID string) (*domain.Permission, error) {
	if m.GetByCitizenIDFn != nil {
		return m.GetByCitizenIDFn(ctx, citizenID)
	}
	return nil, gorm.ErrRecordNotFound
}
