package uowmock

import (
	"context"
	"errors"

	"driver-license-portal/internal/domain/citizen"
	"driver-license-portal/internal/domain/uow"
)

// Ensure compile-time compliance
var _ uow.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("uowmock: method not implemented")

// UoW is a function-backed mock that satisfies uow.UnitOfWork.
// Fill in the function fields you need in a test; unfilled ones return errUnimplemented.
type UoW struct {
	WithinTxFn        func(ctx context.Context, fn func(r uow.Repos) error) error
	WithinCitizenTxFn func(ctx context.Context, citizenID string, fn func(r uow.Repos, c *citizen.Citizen) error) error
}

func New() *UoW { return &UoW{} }

// Passthrough runs every callback directly against repos, handing
// WithinCitizenTx callbacks a citizen built from the requested ID.
func Passthrough(repos uow.Repos) *UoW {
	return &UoW{
		WithinTxFn: func(_ context.Context, fn func(uow.Repos) error) error { return fn(repos) },
		WithinCitizenTxFn: func(_ context.Context, citizenID string, fn func(uow.Repos, *citizen.Citizen) error) error {
			return fn(repos, &citizen.Citizen{ID: citizenID})
		},
	}
}

func (m *UoW) WithWithinTx(fn func(context.Context, func(uow.Repos) error) error) *UoW {
	m.WithinTxFn = fn
	return m
}

func (m *UoW) WithWithinCitizenTx(fn func(context.Context, string, func(uow.Repos, *citizen.Citizen) error) error) *UoW {
	m.WithinCitizenTxFn = fn
	return m
}

func (m *UoW) Reset() { *m = UoW{} }

func (m *UoW) WithinTx(ctx context.Context, fn func(r uow.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}

func (m *UoW) WithinCitizenTx(ctx context.Context, citizenID string, fn func(r uow.Repos, c *citizen.Citizen) error) error {
	if m.WithinCitizenTxFn != nil {
		return m.WithinCitizenTxFn(ctx, citizenID, fn)
	}
	return errUnimplemented
}
