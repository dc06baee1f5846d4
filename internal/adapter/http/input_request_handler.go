package http

import (
	"time"

	"agrolend-backend/internal/domain/inputrequest"
	"agrolend-backend/internal/domain/user"
	irUC "agrolend-backend/internal/usecase/inputrequest"

	"github.com/labstack/echo/v4"
)

type InputRequestHandler struct{ uc *irUC.Usecase }

func NewInputRequestHandler(uc *irUC.Usecase) *InputRequestHandler {
	return &InputRequestHandler{uc: uc}
}

type itemReq struct {
	Name     string `json:"name"     validate:"required,max=128"`
	Quantity int    `json:"quantity" validate:"gte=1"`
	Unit     string `json:"unit"     validate:"max=16"`
}

type inputRequestReq struct {
	Items         []itemReq `json:"items"          validate:"required,min=1,dive"`
	PreferredDate string    `json:"preferred_date" validate:"omitempty,datetime=2006-01-02"`
	Notes         string    `json:"notes"          validate:"max=2000"`
}

func (r inputRequestReq) input() irUC.CreateInput {
	in := irUC.CreateInput{Notes: r.Notes}
	for _, it := range r.Items {
		in.Items = append(in.Items, irUC.ItemInput(it))
	}
	if r.PreferredDate != "" {
		if t, err := time.Parse(dateLayout, r.PreferredDate); err == nil {
			in.PreferredDate = &t
		}
	}
	return in
}

func (h *InputRequestHandler) Create(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var req inputRequestReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Create(c.Request().Context(), p.UserID, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return created(c, out)
}

func (h *InputRequestHandler) Edit(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "request_id")
	if err != nil {
		return writeError(c, err)
	}
	var req inputRequestReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Edit(c.Request().Context(), p.UserID, id, req.input())
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *InputRequestHandler) Cancel(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "request_id")
	if err != nil {
		return writeError(c, err)
	}
	if err := h.uc.Cancel(c.Request().Context(), p.UserID, id); err != nil {
		return writeError(c, err)
	}
	return ok(c, map[string]string{"message": "input request cancelled"})
}

type reviewInputReq struct {
	Status  string `json:"status"  validate:"required,oneof=approved rejected fulfilled"`
	Remarks string `json:"remarks" validate:"max=2000"`
}

func (h *InputRequestHandler) Review(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "request_id")
	if err != nil {
		return writeError(c, err)
	}
	var req reviewInputReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	out, err := h.uc.Review(c.Request().Context(), p.UserID, id, irUC.ReviewInput(req))
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *InputRequestHandler) Get(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	id, err := pathID(c, "request_id")
	if err != nil {
		return writeError(c, err)
	}
	var out *inputrequest.InputRequest
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

func (h *InputRequestHandler) List(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	f := inputrequest.Filter{Status: inputrequest.Status(c.QueryParam("status"))}
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
