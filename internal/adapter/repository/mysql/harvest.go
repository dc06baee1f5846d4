package mysql

import (
	"context"
	"errors"
	"time"

	harvestDomain "agrolend-backend/internal/domain/harvest"

	"gorm.io/gorm"
)

type HarvestRepository struct{ db *gorm.DB }

func NewHarvestRepository(db *gorm.DB) *HarvestRepository { return &HarvestRepository{db: db} }

func (r *HarvestRepository) Create(ctx context.Context, h *harvestDomain.Harvest) error {
	return r.db.WithContext(ctx).Create(h).Error
}

func (r *HarvestRepository) GetByID(ctx context.Context, id string) (*harvestDomain.Harvest, error) {
	var out harvestDomain.Harvest
	res := r.db.WithContext(ctx).Where("id = ?", id).First(&out)
	return harvestResult(&out, res.Error)
}

func (r *HarvestRepository) GetByIDForFarmer(ctx context.Context, id, farmerID string) (*harvestDomain.Harvest, error) {
	var out harvestDomain.Harvest
	res := r.db.WithContext(ctx).Where("id = ? AND farmer_id = ?", id, farmerID).First(&out)
	return harvestResult(&out, res.Error)
}

func (r *HarvestRepository) List(ctx context.Context, f harvestDomain.Filter) ([]harvestDomain.Harvest, error) {
	q := r.db.WithContext(ctx).Model(&harvestDomain.Harvest{})
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.FarmerID != "" {
		q = q.Where("farmer_id = ?", f.FarmerID)
	}
	if f.From != nil {
		q = q.Where("created_at >= ?", *f.From)
	}
	if f.To != nil {
		q = q.Where("created_at <= ?", *f.To)
	}
	var out []harvestDomain.Harvest
	err := q.Order("created_at DESC, id DESC").Find(&out).Error
	return out, err
}

func (r *HarvestRepository) LatestApproved(ctx context.Context, farmerID string) (*harvestDomain.Harvest, error) {
	var out harvestDomain.Harvest
	res := r.db.WithContext(ctx).
		Where("farmer_id = ? AND status = ?", farmerID, harvestDomain.StatusApproved).
		Order("created_at DESC, id DESC").
		First(&out)
	return harvestResult(&out, res.Error)
}

func (r *HarvestRepository) UpdatePending(ctx context.Context, h *harvestDomain.Harvest) (bool, error) {
	res := r.db.WithContext(ctx).Model(&harvestDomain.Harvest{}).
		Where("id = ? AND farmer_id = ? AND status = ?", h.ID, h.FarmerID, harvestDomain.StatusPending).
		Updates(map[string]any{
			"crop_type": h.CropType,
			"amount":    h.Amount,
			"location":  h.Location,
			"notes":     h.Notes,
			"status":    harvestDomain.StatusPending,
		})
	return res.RowsAffected == 1, res.Error
}

func (r *HarvestRepository) Review(ctx context.Context, id string, to harvestDomain.Status, adminID string, at time.Time) (bool, error) {
	res := r.db.WithContext(ctx).Model(&harvestDomain.Harvest{}).
		Where("id = ? AND status = ?", id, harvestDomain.StatusPending).
		Updates(map[string]any{
			"status":      to,
			"reviewed_by": adminID,
			"reviewed_at": at,
		})
	return res.RowsAffected == 1, res.Error
}

func harvestResult(h *harvestDomain.Harvest, err error) (*harvestDomain.Harvest, error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, harvestDomain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return h, nil
}
