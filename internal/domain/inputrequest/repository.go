package inputrequest

import "context"

type Repository interface {
	Create(ctx context.Context, r *InputRequest) error
	GetByID(ctx context.Context, id string) (*InputRequest, error)
	GetByIDForFarmer(ctx context.Context, id, farmerID string) (*InputRequest, error)
	List(ctx context.Context, f Filter) ([]InputRequest, error)
	// ReplacePending swaps items, preferred date and notes while still pending.
	ReplacePending(ctx context.Context, r *InputRequest) (bool, error)
	DeletePending(ctx context.Context, id, farmerID string) (bool, error)
	Transition(ctx context.Context, id string, from, to Status, remarks string) (bool, error)
}
