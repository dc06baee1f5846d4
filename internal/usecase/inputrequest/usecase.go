package inputrequest

import (
	"context"
	"errors"
	"fmt"
	"strings"

	domain "agrolend-backend/internal/domain/inputrequest"
	"agrolend-backend/internal/logger"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"
)

const defaultUnit = "kg"

type Usecase struct{ repo domain.Repository }

func NewUsecase(r domain.Repository) *Usecase { return &Usecase{repo: r} }

func (u *Usecase) Create(ctx context.Context, farmerID string, in CreateInput) (*domain.InputRequest, error) {
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	ir := &domain.InputRequest{
		ID:            id.NewID32(),
		FarmerID:      farmerID,
		Items:         items,
		PreferredDate: in.PreferredDate,
		Notes:         in.Notes,
		Status:        domain.StatusPending,
	}
	if err := u.repo.Create(ctx, ir); err != nil {
		return nil, apperr.Storage(err)
	}
	logger.InfoContext(ctx, "input request created", "input_request_id", ir.ID, "farmer_id", farmerID, "items", len(items))
	return ir, nil
}

// Edit replaces the items, preferred date and notes of a pending request.
func (u *Usecase) Edit(ctx context.Context, farmerID, requestID string, in CreateInput) (*domain.InputRequest, error) {
	ir, err := u.GetForFarmer(ctx, requestID, farmerID)
	if err != nil {
		return nil, err
	}
	if ir.Status != domain.StatusPending {
		return nil, notPending(ir.Status)
	}
	items, err := buildItems(in.Items)
	if err != nil {
		return nil, err
	}
	ir.Items = items
	ir.PreferredDate = in.PreferredDate
	ir.Notes = in.Notes

	ok, err := u.repo.ReplacePending(ctx, ir)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, u.lostRace(ctx, requestID, farmerID)
	}
	return ir, nil
}

func (u *Usecase) Cancel(ctx context.Context, farmerID, requestID string) error {
	ir, err := u.GetForFarmer(ctx, requestID, farmerID)
	if err != nil {
		return err
	}
	if ir.Status != domain.StatusPending {
		return notPending(ir.Status)
	}
	ok, err := u.repo.DeletePending(ctx, requestID, farmerID)
	if err != nil {
		return apperr.Storage(err)
	}
	if !ok {
		return u.lostRace(ctx, requestID, farmerID)
	}
	return nil
}

// Review moves a request pending→approved|rejected or approved→fulfilled.
func (u *Usecase) Review(ctx context.Context, adminID, requestID string, in ReviewInput) (*domain.InputRequest, error) {
	to := domain.Status(strings.ToLower(strings.TrimSpace(in.Status)))
	switch to {
	case domain.StatusApproved, domain.StatusRejected, domain.StatusFulfilled:
	default:
		return nil, apperr.Validation(apperr.CodeInvalidDecision, "status must be approved, rejected or fulfilled")
	}

	ir, err := u.Get(ctx, requestID)
	if err != nil {
		return nil, err
	}
	if !domain.CanTransition(ir.Status, to) {
		return nil, apperr.InvalidState(apperr.CodeInputRequestState,
			fmt.Sprintf("cannot move input request from %s to %s", ir.Status, to))
	}
	ok, err := u.repo.Transition(ctx, ir.ID, ir.Status, to, in.Remarks)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	if !ok {
		return nil, apperr.InvalidState(apperr.CodeInputRequestState, "input request changed concurrently")
	}
	logger.InfoContext(ctx, "input request reviewed", "input_request_id", ir.ID, "from", ir.Status, "to", to, "admin_id", adminID)
	ir.Status = to
	ir.AdminRemarks = in.Remarks
	return ir, nil
}

func (u *Usecase) Get(ctx context.Context, requestID string) (*domain.InputRequest, error) {
	ir, err := u.repo.GetByID(ctx, requestID)
	return found(ir, err)
}

func (u *Usecase) GetForFarmer(ctx context.Context, requestID, farmerID string) (*domain.InputRequest, error) {
	ir, err := u.repo.GetByIDForFarmer(ctx, requestID, farmerID)
	return found(ir, err)
}

func (u *Usecase) List(ctx context.Context, f domain.Filter) ([]domain.InputRequest, error) {
	out, err := u.repo.List(ctx, f)
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return out, nil
}

func (u *Usecase) lostRace(ctx context.Context, requestID, farmerID string) error {
	cur, err := u.GetForFarmer(ctx, requestID, farmerID)
	if err != nil {
		return err
	}
	return notPending(cur.Status)
}

func buildItems(in []ItemInput) ([]domain.Item, error) {
	if len(in) == 0 {
		return nil, apperr.Validation(apperr.CodeInvalidInput, "at least one item is required")
	}
	out := make([]domain.Item, 0, len(in))
	for i, it := range in {
		name := strings.TrimSpace(it.Name)
		if name == "" {
			return nil, apperr.Validation(apperr.CodeInvalidInput, fmt.Sprintf("item %d: name is required", i+1))
		}
		if it.Quantity < 1 {
			return nil, apperr.Validation(apperr.CodeInvalidInput, fmt.Sprintf("item %d: quantity must be at least 1", i+1))
		}
		unit := strings.TrimSpace(it.Unit)
		if unit == "" {
			unit = defaultUnit
		}
		out = append(out, domain.Item{Name: name, Quantity: it.Quantity, Unit: unit})
	}
	return out, nil
}

func found(ir *domain.InputRequest, err error) (*domain.InputRequest, error) {
	if errors.Is(err, domain.ErrNotFound) {
		return nil, apperr.NotFound(apperr.CodeInputRequestMissing, "input request not found")
	}
	if err != nil {
		return nil, apperr.Storage(err)
	}
	return ir, nil
}

func notPending(s domain.Status) error {
	return apperr.InvalidState(apperr.CodeInputRequestState, fmt.Sprintf("input request is %s; only pending requests can change", s))
}
