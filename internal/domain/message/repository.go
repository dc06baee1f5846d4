package message

import "context"

type Repository interface {
	CreateBatch(ctx context.Context, msgs []Message) error
	List(ctx context.Context, f Filter) ([]Message, error)
	MarkSeen(ctx context.Context, id, farmerID string) (bool, error)
	Delete(ctx context.Context, id, farmerID string) (bool, error)
}
