package http

import (
	"time"

	"agrolend-backend/internal/adapter/middleware"
	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/security"

	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

type Handlers struct {
	Health        *Handler
	Auth          *AuthHandler
	Harvests      *HarvestHandler
	Loans         *LoanHandler
	Repayments    *RepaymentHandler
	InputRequests *InputRequestHandler
	Messages      *MessageHandler
	Dashboard     *DashboardHandler
}

type RouteConfig struct {
	Tokens         security.TokenManager
	Redis          *redis.Client // nil disables idempotent replay
	IdempotencyTTL time.Duration
}

// RegisterRoutes mounts the public, farmer and admin APIs.
func RegisterRoutes(e *echo.Echo, h Handlers, cfg RouteConfig) {
	e.GET("/health", h.Health.Health)
	e.GET("/ready", h.Health.Ready)

	idem := func(next echo.HandlerFunc) echo.HandlerFunc { return next }
	if cfg.Redis != nil {
		idem = middleware.Idempotency(cfg.Redis, cfg.IdempotencyTTL)
	}

	pub := e.Group("/api/auth", idem)
	pub.POST("/register", h.Auth.Register)
	pub.POST("/login", h.Auth.Login)

	api := e.Group("/api", middleware.JWTAuth(cfg.Tokens), idem)
	api.GET("/me", h.Auth.Me)
	api.PATCH("/me", h.Auth.UpdateMe)

	f := api.Group("", middleware.RequireRole(user.RoleFarmer))
	f.GET("/dashboard", h.Dashboard.Farmer)

	f.POST("/harvests", h.Harvests.Create)
	f.GET("/harvests", h.Harvests.List)
	f.GET("/harvests/:harvest_id", h.Harvests.Get)
	f.PUT("/harvests/:harvest_id", h.Harvests.Edit)

	f.GET("/loans/eligibility", h.Loans.Eligibility)
	f.POST("/loans", h.Loans.Request)
	f.GET("/loans", h.Loans.List)
	f.GET("/loans/:loan_id", h.Loans.Get)
	f.PUT("/loans/:loan_id", h.Loans.Edit)
	f.DELETE("/loans/:loan_id", h.Loans.Cancel)
	f.GET("/loans/:loan_id/statement", h.Repayments.Statement)

	f.POST("/repayments", h.Repayments.Submit)
	f.GET("/repayments", h.Repayments.List)
	f.GET("/repayments/:repayment_id", h.Repayments.Get)

	f.POST("/input-requests", h.InputRequests.Create)
	f.GET("/input-requests", h.InputRequests.List)
	f.GET("/input-requests/:request_id", h.InputRequests.Get)
	f.PUT("/input-requests/:request_id", h.InputRequests.Edit)
	f.DELETE("/input-requests/:request_id", h.InputRequests.Cancel)

	f.GET("/messages", h.Messages.Inbox)
	f.PATCH("/messages/:message_id/read", h.Messages.MarkRead)
	f.DELETE("/messages/:message_id", h.Messages.Delete)

	a := api.Group("/admin", middleware.RequireRole(user.RoleAdmin))
	a.GET("/dashboard", h.Dashboard.Admin)

	a.GET("/farmers", h.Auth.ListFarmers)
	a.GET("/farmers/:farmer_id", h.Auth.GetFarmer)

	a.GET("/harvests", h.Harvests.List)
	a.GET("/harvests/:harvest_id", h.Harvests.Get)
	a.POST("/harvests/:harvest_id/review", h.Harvests.Review)

	a.GET("/loans", h.Loans.List)
	a.GET("/loans/:loan_id", h.Loans.Get)
	a.POST("/loans/:loan_id/approve", h.Loans.Approve)
	a.POST("/loans/:loan_id/reject", h.Loans.Reject)
	a.GET("/loans/:loan_id/statement", h.Repayments.Statement)

	a.GET("/repayments", h.Repayments.List)
	a.GET("/repayments/:repayment_id", h.Repayments.Get)
	a.POST("/repayments/:repayment_id/approve", h.Repayments.Approve)
	a.POST("/repayments/:repayment_id/reject", h.Repayments.Reject)

	a.GET("/input-requests", h.InputRequests.List)
	a.GET("/input-requests/:request_id", h.InputRequests.Get)
	a.POST("/input-requests/:request_id/review", h.InputRequests.Review)

	a.POST("/messages", h.Messages.Send)
	a.GET("/messages", h.Messages.History)
}
