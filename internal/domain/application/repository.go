package application

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, a *Application) error
	// UpdateStage writes only the named columns, and only while the row is
	// still reviewable. Zero rows means a decision landed first.
	UpdateStage(ctx context.Context, a *Application, columns ...string) (int64, error)
	GetByID(ctx context.Context, id string) (*Application, error)
	// GetActiveByCitizenID returns the newest application still in a
	// reviewable state.
	GetActiveByCitizenID(ctx context.Context, citizenID string) (*Application, error)
	List(ctx context.Context, f Filter) ([]Application, error)
	ListByIDsInStatus(ctx context.Context, ids []string, statuses []Status) ([]Application, error)

	// ApplyDecision updates only rows whose status is still reviewable and
	// reports how many changed.
	ApplyDecision(ctx context.Context, ids []string, d Decision) (int64, error)
	// MarkPickedUp flips picked_up only when it is still false.
	MarkPickedUp(ctx context.Context, id string, at time.Time) (int64, error)
	SetLicenseNumber(ctx context.Context, id, licenseNumber string) error
}
