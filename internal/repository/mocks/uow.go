package mocks

import (
	"context"
	"errors"

	"loanops/internal/repository"
)

var _ repository.UnitOfWork = (*UoW)(nil)

var errUnimplemented = errors.New("mocks: WithinTx not configured")

// UoW is a function-backed repository.UnitOfWork.
type UoW struct {
	WithinTxFn func(ctx context.Context, fn func(r repository.Repos) error) error
}

// PassThrough returns a UoW that runs fn directly against repos.
func PassThrough(repos repository.Repos) *UoW {
	return &UoW{WithinTxFn: func(ctx context.Context, fn func(r repository.Repos) error) error {
		return fn(repos)
	}}
}

func (m *UoW) WithinTx(ctx context.Context, fn func(r repository.Repos) error) error {
	if m.WithinTxFn != nil {
		return m.WithinTxFn(ctx, fn)
	}
	return errUnimplemented
}
