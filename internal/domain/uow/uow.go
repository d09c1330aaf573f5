package uow

import (
	"context"

	"driver-license-portal/internal/domain/application"
	"driver-license-portal/internal/domain/audit"
	"driver-license-portal/internal/domain/citizen"
)

type Repos struct {
	Citizens     citizen.Repository
	Users        citizen.UserRepository
	Applications application.Repository
	Audit        audit.Repository
}

type UnitOfWork interface {
	// plain tx
	WithinTx(ctx context.Context, fn func(r Repos) error) error
	// lock the citizen row first, then pass it in
	WithinCitizenTx(ctx context.Context, citizenID string, fn func(r Repos, c *citizen.Citizen) error) error
}
