package mysql

import (
	"context"

	msgDomain "agrolend-backend/internal/domain/message"

	"gorm.io/gorm"
)

type MessageRepository struct{ db *gorm.DB }

func NewMessageRepository(db *gorm.DB) *MessageRepository { return &MessageRepository{db: db} }

func (r *MessageRepository) CreateBatch(ctx context.Context, msgs []msgDomain.Message) error {
	if len(msgs) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).CreateInBatches(msgs, 200).Error
}

func (r *MessageRepository) List(ctx context.Context, f msgDomain.Filter) ([]msgDomain.Message, error) {
	q := r.db.WithContext(ctx).Model(&msgDomain.Message{})
	if f.FarmerID != "" {
		q = q.Where("farmer_id = ?", f.FarmerID)
	}
	if f.SenderID != "" {
		q = q.Where("sender_id = ?", f.SenderID)
	}
	if f.UnseenOnly {
		q = q.Where("seen = ?", false)
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit)
	}
	var out []msgDomain.Message
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *MessageRepository) MarkSeen(ctx context.Context, id, farmerID string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&msgDomain.Message{}).
		Where("id = ? AND farmer_id = ?", id, farmerID).
		Update("seen", true)
	return res.RowsAffected == 1, res.Error
}

func (r *MessageRepository) Delete(ctx context.Context, id, farmerID string) (bool, error) {
	res := r.db.WithContext(ctx).
		Where("id = ? AND farmer_id = ?", id, farmerID).
		Delete(&msgDomain.Message{})
	return res.RowsAffected == 1, res.Error
}
