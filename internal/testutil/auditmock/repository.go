package auditmock

import (
	"context"
	"sync"

	domain "driver-license-portal/internal/domain/audit"
)

var _ domain.Repository = (*Repo)(nil)

// Repo records every action it is given unless CreateFn overrides it.
type Repo struct {
	CreateFn func(ctx context.Context, a *domain.Action) error

	mu      sync.Mutex
	Actions []domain.Action
}

func (m *Repo) Create(ctx context.Context, a *domain.Action) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, a)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Actions = append(m.Actions, *a)
	return nil
}
