package http

import (
	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/usecase/auth"
	userUC "agrolend-backend/internal/usecase/user"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
)

type AuthHandler struct {
	uc    *auth.Usecase
	users *userUC.Usecase
}

func NewAuthHandler(uc *auth.Usecase, users *userUC.Usecase) *AuthHandler {
	return &AuthHandler{uc: uc, users: users}
}

type registerReq struct {
	Name     string          `json:"name"      validate:"required,max=128"`
	Email    string          `json:"email"     validate:"required,email"`
	Phone    string          `json:"phone"     validate:"required,phone"`
	Password string          `json:"password"  validate:"required,min=6,max=72"`
	Role     string          `json:"role"      validate:"omitempty,oneof=farmer admin"`
	LandSize decimal.Decimal `json:"land_size" validate:"dec2"`
	CropType string          `json:"crop_type" validate:"max=64"`
	Location string          `json:"location"  validate:"max=128"`
}

func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	role := user.Role(req.Role)
	if role == "" {
		role = user.RoleFarmer
	}
	u, err := h.uc.Register(c.Request().Context(), auth.RegisterInput{
		Name:     req.Name,
		Email:    req.Email,
		Phone:    req.Phone,
		Password: req.Password,
		Role:     role,
		LandSize: req.LandSize,
		CropType: req.CropType,
		Location: req.Location,
	})
	if err != nil {
		return writeError(c, err)
	}
	return created(c, u)
}

type loginReq struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := bindValid(c, &req); err != nil {
		return writeError(c, err)
	}
	res, err := h.uc.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, res)
}

func (h *AuthHandler) Me(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	u, err := h.users.Profile(c.Request().Context(), p.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, u)
}

// UpdateMe applies a partial profile update; only allow-listed fields are written.
func (h *AuthHandler) UpdateMe(c echo.Context) error {
	p, err := caller(c)
	if err != nil {
		return writeError(c, err)
	}
	var body map[string]string
	if err := c.Bind(&body); err != nil {
		return writeError(c, errInvalidBody)
	}
	u, err := h.users.UpdateProfile(c.Request().Context(), p.UserID, body)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, u)
}

func (h *AuthHandler) ListFarmers(c echo.Context) error {
	out, err := h.users.ListFarmers(c.Request().Context(), user.Filter{
		Name:  c.QueryParam("name"),
		Phone: c.QueryParam("phone"),
	})
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, out)
}

func (h *AuthHandler) GetFarmer(c echo.Context) error {
	id, err := pathID(c, "farmer_id")
	if err != nil {
		return writeError(c, err)
	}
	u, err := h.users.GetFarmer(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return ok(c, u)
}
