package http

import (
	"agrolend-backend/internal/domain/harvest"
	"agrolend-backend/internal/domain/user"
	harvestUC "agrolend-backend/internal/usecase/harvest"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type HarvestHandler struct{ uc *harvestUC.Usecase }

func NewHarvestHandler(uc *harvestUC.Usecase) *HarvestHandler { return &HarvestHandler{uc: uc} }

type createHarvestReq struct {
	CropType string          `json:"crop_type" validate:"required,max=64"`
	Amount   decimal.Decimal `json:"amount"    validate:"money"`
	Location string          `json:"location"  validate:"max=128"`
	Notes    string          `json:"notes"     validate:"max=2000"`
}

func (h *HarvestHandler) Create(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req createHarvestReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), p.UserID, harvestUC.CreateInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return created(c, out)
}

type editHarvestReq struct {
	CropType *string          `json:"crop_type" validate:"omitempty,max=64"`
	Amount   *decimal.Decimal `json:"amount"    validate:"omitempty,money"`
	Location *string          `json:"location"  validate:"omitempty,max=128"`
	Notes    *string          `json:"notes"     validate:"omitempty,max=2000"`
}

func (h *HarvestHandler) Edit(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "harvest_id")
	if err != nil {
		return writeError(c, err)
	}
	var req editHarvestReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Edit(c.Request().Context(), p.UserID, id, harvestUC.EditInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

type reviewReq struct {
	Decision string `json:"decision" validate:"required,oneof=approve reject"`
}

func (h *HarvestHandler) Review(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "harvest_id")
	if err != nil {
		return writeError(c, err)
	}
	var req reviewReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Review(c.Request().Context(), p.UserID, id, harvest.Decision(req.Decision))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

// Get returns any harvest to an admin and only their own to a farmer.
func (h *HarvestHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "harvest_id")
	if err != nil {
		return writeError(c, err)
	}
	var out *harvest.Harvest
	if p.Role == user.RoleAdmin {
		out, err = h.uc.Get(c.Request().Context(), id)
	} else {
		out, err = h.uc.GetForFarmer(c.Request().Context(), id, p.UserID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *HarvestHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	from, to, err := dateRange(c)
	if err != nil {
		return writeError(c, err)
	}
	f := harvest.Filter{Status: harvest.Status(c.QueryParam("status")), From: from, To: to}
	if p.Role == user.RoleAdmin {
		f.FarmerID = c.QueryParam("farmer_id")
	} else {
		f.FarmerID = p.UserID
	}
	out, err := h.uc.List(c.Request().Context(), f)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}
