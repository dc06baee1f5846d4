package mysql

import (
	"context"
	"errors"

	irDomain "agrolend-backend/internal/domain/inputrequest"

	"gorm.io/gorm"
)

type InputRequestRepository struct{ db *gorm.DB }

func NewInputRequestRepository(db *gorm.DB) *InputRequestRepository {
	return &InputRequestRepository{db: db}
}

func (r *InputRequestRepository) Create(ctx context.Context, ir *irDomain.InputRequest) error {
	return r.db.WithContext(ctx).Create(ir).Error
}

func (r *InputRequestRepository) GetByID(ctx context.Context, id string) (*irDomain.InputRequest, error) {
	var out irDomain.InputRequest
	res := r.db.WithContext(ctx).Preload("Items").Where("id = ?", id).First(&out)
	return inputRequestResult(&out, res.Error)
}

func (r *InputRequestRepository) GetByIDForFarmer(ctx context.Context, id, farmerID string) (*irDomain.InputRequest, error) {
	var out irDomain.InputRequest
	res := r.db.WithContext(ctx).Preload("Items").
		Where("id = ? AND farmer_id = ?", id, farmerID).
		First(&out)
	return inputRequestResult(&out, res.Error)
}

func (r *InputRequestRepository) List(ctx context.Context, f irDomain.Filter) ([]irDomain.InputRequest, error) {
	q := r.db.WithContext(ctx).Preload("Items")
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FarmerID != "" {
		q = q.Where("farmer_id = ?", f.FarmerID)
	}
	var out []irDomain.InputRequest
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *InputRequestRepository) ReplacePending(ctx context.Context, ir *irDomain.InputRequest) (bool, error) {
	var ok bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&irDomain.InputRequest{}).
			Where("id = ? AND farmer_id = ? AND status = ?", ir.ID, ir.FarmerID, irDomain.StatusPending).
			Updates(map[string]any{
				"preferred_date": ir.PreferredDate,
				"notes":          ir.Notes,
			})
		if res.Error != nil || res.RowsAffected != 1 {
			return res.Error
		}
		if err := tx.Where("input_request_id = ?", ir.ID).Delete(&irDomain.Item{}).Error; err != nil {
			return err
		}
		for i := range ir.Items {
			ir.Items[i].ID = 0
			ir.Items[i].InputRequestID = ir.ID
		}
		if len(ir.Items) > 0 {
			if err := tx.Create(&ir.Items).Error; err != nil {
				return err
			}
		}
		ok = true
		return nil
	})
	return ok, err
}

func (r *InputRequestRepository) DeletePending(ctx context.Context, id, farmerID string) (bool, error) {
	var ok bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id = ? AND farmer_id = ? AND status = ?", id, farmerID, irDomain.StatusPending).
			Delete(&irDomain.InputRequest{})
		if res.Error != nil || res.RowsAffected != 1 {
			return res.Error
		}
		ok = true
		return tx.Where("input_request_id = ?", id).Delete(&irDomain.Item{}).Error
	})
	return ok, err
}

func (r *InputRequestRepository) Transition(ctx context.Context, id string, from, to irDomain.Status, remarks string) (bool, error) {
	res := r.db.WithContext(ctx).Model(&irDomain.InputRequest{}).
		Where("id = ? AND status = ?", id, from).
		Updates(map[string]any{
			"status":        to,
			"admin_remarks": remarks,
		})
	return res.RowsAffected == 1, res.Error
}

func inputRequestResult(ir *irDomain.InputRequest, err error) (*irDomain.InputRequest, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, irDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return ir, nil
}
