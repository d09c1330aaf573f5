package citizen

import (
	"time"

	"driver-license-portal/internal/domain/errs"
)

var (
	ErrNotFound        = errs.NotFound("Citizen not found")
	ErrAccountNotFound = errs.NotFound("Account not found")
	ErrDuplicate       = errs.Conflict("An account with this email or national ID already exists")
)

const StatusActive = "ACTIVE"

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// NationalIDPrefixLen is the canonical national ID length; longer input is
// retried on its first NationalIDPrefixLen characters.
const NationalIDPrefixLen = 13

// Table: citizens
type Citizen struct {
	ID          string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	NationalID  string    `gorm:"column:national_id;size:16;not null;uniqueIndex" json:"nationalId"`
	FullName    string    `gorm:"column:full_name;size:200;not null" json:"fullName"`
	PhoneNumber string    `gorm:"column:phone_number;size:32" json:"phoneNumber"`
	Email       string    `gorm:"column:email;size:255;index" json:"email"`
	Status      string    `gorm:"column:status;size:16;not null;default:ACTIVE" json:"status"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Citizen) TableName() string { return "citizens" }

// Table: users. Authentication identity, 1:1 with a citizen by national ID.
type User struct {
	ID           string    `gorm:"column:id;primaryKey;size:36" json:"id"`
	CitizenID    string    `gorm:"column:citizen_id;size:36;index" json:"citizenId"`
	FullName     string    `gorm:"column:full_name;size:200;not null" json:"fullName"`
	Email        string    `gorm:"column:email;size:255;not null;uniqueIndex" json:"email"`
	PhoneNumber  string    `gorm:"column:phone_number;size:32;index" json:"phoneNumber"`
	NationalID   string    `gorm:"column:national_id;size:16;not null;uniqueIndex" json:"nationalId"`
	Role         string    `gorm:"column:role;size:16;not null;default:user" json:"role"`
	PasswordHash string    `gorm:"column:password_hash;size:100;not null" json:"-"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string { return "users" }

// Table: user_permissions. One row per citizen.
type Permission struct {
	ID          uint64    `gorm:"column:id;primaryKey;autoIncrement" json:"-"`
	CitizenID   string    `gorm:"column:citizen_id;size:36;not null;uniqueIndex" json:"citizenId"`
	Email       bool      `gorm:"column:email" json:"email"`
	Birthdate   bool      `gorm:"column:birthdate" json:"birthdate"`
	Gender      bool      `gorm:"column:gender" json:"gender"`
	Name        bool      `gorm:"column:name" json:"name"`
	PhoneNumber bool      `gorm:"column:phone_number" json:"phoneNumber"`
	Picture     bool      `gorm:"column:picture" json:"picture"`
	IsVerified  bool      `gorm:"column:is_verified" json:"isVerified"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (Permission) TableName() string { return "user_permissions" }
