package harvest

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"agrolend-backend/internal/domain/event"
	domain "agrolend-backend/internal/domain/harvest"
	"agrolend-backend/internal/logger"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"
	"agrolend-backend/pkg/money"
)

type Usecase struct {
	repo     domain.Repository
	notifier event.Notifier
	now      func() time.Time
}

func NewUsecase(r domain.Repository, n event.Notifier) *Usecase {
	return &Usecase{repo: r, notifier: n, now: func() time.Time { return time.Now().UTC() }}
}

func (u *Usecase) Create(ctx context.Context, farmerID string, in CreateInput) (*domain.Harvest, error) {
	f := domain.Fields{
		CropType: strings.TrimSpace(in.CropType),
		Amount:   in.Amount,
		Location: strings.TrimSpace(in.Location),
		Notes:    in.Notes,
	}
	if err := validate(f); err != nil {
		return nil, err
	}

	h := &domain.Harvest{ID: id.NewID32(), FarmerID: farmerID}
	h.Apply(f)
	if err := u.repo.Create(ctx, h); err != nil {
		return nil, apperr.Storage(err)
	}
	logger.InfoContext(ctx, "harvest logged", "harvest_id", h.ID, "farmer_id", farmerID, "amount", h.Amount.String())
	return h, nil
}

// Edit applies the given fields to a pending harvest owned by farmerID and keeps it pending.
func (u *Usecase) Edit(ctx context.Context, farmerID, harvestID string, in EditInput) (*domain.Harvest, error) {
	h, err := u.GetForFarmer(ctx, harvestID, farmerID)
	if err != nil {
		return nil, err
	}
	if h.Status != domain.StatusPending {
		return nil, notPending(h.Status)
	}

	f := domain.Fields{CropType: h.CropType, Amount: h.Amount, Location: h.Location, Notes: h.Notes}
	if in.CropType != nil {
		f.CropType = strings.TrimSpace(*in.CropType)
	}
	if in.Amount != nil {
		f.Amount = *in.Amount
	}
	if in.Location != nil {
		f.Location = strings.TrimSpace(*in.Location)
	}
	if in.Notes != nil {
		f.Notes = *in.Notes
	}
	if err := validate(f); err != nil {
		return nil, err
	}

	h.Apply(f)
	ok, err := u.repo.UpdatePending(ctx, h)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		// lost a race against a review or another edit
		cur, err := u.GetForFarmer(ctx, harvestID, farmerID)
		if err != nil {
			return nil, err
		}
		return nil, notPending(cur.Status)
	}
	h.UpdatedAt = u.now()
	return h, nil
}

// Review moves a pending harvest to approved or rejected, exactly once.
func (u *Usecase) Review(ctx context.Context, adminID, harvestID string, d domain.Decision) (*domain.Harvest, error) {
	to, ok := d.Status()
	if !ok {
		return nil, apperr.Validation(apperr.CodeInvalidDecision, "decision must be approve or reject")
	}
	h, err := u.Get(ctx, harvestID)
	if err != nil {
		return nil, err
	}
	if h.Status != domain.StatusPending {
		return nil, notPending(h.Status)
	}

	at := u.now()
	ok, err = u.repo.Review(ctx, h.ID, to, adminID, at)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, apperr.InvalidState(apperr.CodeHarvestNotPending, "harvest was reviewed concurrently")
	}

	h.Status = to
	h.ReviewedBy = &adminID
	h.ReviewedAt = &at
	logger.InfoContext(ctx, "harvest reviewed", "harvest_id", h.ID, "status", to, "admin_id", adminID)
	event.Deliver(ctx, u.notifier, event.Event{
		Kind:     event.HarvestReviewed,
		FarmerID: h.FarmerID,
		EntityID: h.ID,
		Status:   string(to),
		Text:     fmt.Sprintf("Your %s harvest of %s was %s.", h.CropType, h.Amount.String(), to),
		At:       at,
	})
	return h, nil
}

func (u *Usecase) Get(ctx context.Context, harvestID string) (*domain.Harvest, error) {
	h, err := u.repo.GetByID(ctx, harvestID)
	return found(h, err)
}

func (u *Usecase) GetForFarmer(ctx context.Context, harvestID, farmerID string) (*domain.Harvest, error) {
	h, err := u.repo.GetByIDForFarmer(ctx, harvestID, farmerID)
	return found(h, err)
}

func (u *Usecase) List(ctx context.Context, f domain.Filter) ([]domain.Harvest, error) {
	out, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

func validate(f domain.Fields) error {
	if f.CropType == "" {
		return apperr.Validation(apperr.CodeInvalidCrop, "crop type is required")
	}
	if !money.Valid(f.Amount) {
		return apperr.Validation(apperr.CodeInvalidAmount, "harvest amount must be a positive number with at most 2 decimals")
	}
	return nil
}

func found(h *domain.Harvest, err error) (*domain.Harvest, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeHarvestNotFound, "harvest not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return h, nil
}

func notPending(s domain.Status) error {
	return apperr.InvalidState(apperr.CodeHarvestNotPending, fmt.Sprintf("harvest is %s; only pending harvests can change", s))
}
