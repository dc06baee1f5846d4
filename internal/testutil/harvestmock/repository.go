package harvestmock

import (
	"context"
	"errors"
	"time"

	domain "agrolend-backend/internal/domain/harvest"
)

var _ domain.Repository = (*Repo)(nil)

var ErrUnimplemented = errors.New("harvestmock: method not implemented")

// Repo is a function-backed mock that satisfies domain.Repository.
type Repo struct {
	CreateFn           func(ctx context.Context, h *domain.Harvest) error
	GetByIDFn          func(ctx context.Context, id string) (*domain.Harvest, error)
	GetByIDForFarmerFn func(ctx context.Context, id, farmerID string) (*domain.Harvest, error)
	ListFn             func(ctx context.Context, f domain.Filter) ([]domain.Harvest, error)
	LatestApprovedFn   func(ctx context.Context, farmerID string) (*domain.Harvest, error)
	UpdatePendingFn    func(ctx context.Context, h *domain.Harvest) (bool, error)
	ReviewFn           func(ctx context.Context, id string, to domain.Status, adminID string, at time.Time) (bool, error)
}

func (m *Repo) Create(ctx context.Context, h *domain.Harvest) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, h)
	}
	return nil
}

func (m *Repo) GetByID(ctx context.Context, id string) (*domain.Harvest, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) GetByIDForFarmer(ctx context.Context, id, farmerID string) (*domain.Harvest, error) {
	if m.GetByIDForFarmerFn != nil {
		return m.GetByIDForFarmerFn(ctx, id, farmerID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) List(ctx context.Context, f domain.Filter) ([]domain.Harvest, error) {
	if m.ListFn != nil {
		return m.ListFn(ctx, f)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) LatestApproved(ctx context.Context, farmerID string) (*domain.Harvest, error) {
	if m.LatestApprovedFn != nil {
		return m.LatestApprovedFn(ctx, farmerID)
	}
	return nil, ErrUnimplemented
}

func (m *Repo) UpdatePending(ctx context.Context, h *domain.Harvest) (bool, error) {
	if m.UpdatePendingFn != nil {
		return m.UpdatePendingFn(ctx, h)
	}
	return true, nil
}

func (m *Repo) Review(ctx context.Context, id string, to domain.Status, adminID string, at time.Time) (bool, error) {
	if m.ReviewFn != nil {
		return m.ReviewFn(ctx, id, to, adminID, at)
	}
	return true, nil
}
