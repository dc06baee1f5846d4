package harvest

import (
	"context"
	"time"
)

type Repository interface {
	Create(ctx context.Context, h *Harvest) error
	GetByID(ctx context.Context, id string) (*Harvest, error)
	GetByIDForFarmer(ctx context.Context, id, farmerID string) (*Harvest, error)
	List(ctx context.Context, f Filter) ([]Harvest, error)
	// LatestApproved returns the farmer's most recently created approved harvest.
	LatestApproved(ctx context.Context, farmerID string) (*Harvest, error)
	// UpdatePending writes the editable fields only while the row is still pending.
	UpdatePending(ctx context.Context, h *Harvest) (bool, error)
	// Review moves a pending harvest to a terminal status.
	Review(ctx context.Context, id string, to Status, adminID string, at time.Time) (bool, error)
}
