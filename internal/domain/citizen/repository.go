package citizen

import "context"

// Repository lookups return gorm.ErrRecordNotFound when no row matches.
type Repository interface {
	Create(ctx context.Context, c *Citizen) error
	GetByID(ctx context.Context, id string) (*Citizen, error)
	GetByNationalID(ctx context.Context, nationalID string) (*Citizen, error)
	GetByEmail(ctx context.Context, email string) (*Citizen, error)
	GetByEmailAndNationalID(ctx context.Context, email, nationalID string) (*Citizen, error)
	// GetByIDForUpdate locks the citizen row for the rest of the transaction.
	GetByIDForUpdate(ctx context.Context, id string) (*Citizen, error)
}

type UserRepository interface {
	Create(ctx context.Context, u *User) error
	Save(ctx context.Context, u *User) error
	GetByID(ctx context.Context, id string) (*User, error)
	GetByEmailOrPhone(ctx context.Context, emailOrPhone string) (*User, error)
	ExistsByEmailOrNationalID(ctx context.Context, email, nationalID string) (bool, error)
}

type PermissionRepository interface {
	Upsert(ctx context.Context, p *Permission) error
	GetByCitizenID(ctx context.Context, citizenID string) (*Permission, error)
}
