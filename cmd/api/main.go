package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadp "agrolend-backend/internal/adapter/http"
	"agrolend-backend/internal/adapter/middleware"
	"agrolend-backend/internal/adapter/notify"
	"agrolend-backend/internal/adapter/repository/mysql"
	"agrolend-backend/internal/adapter/storage"
	"agrolend-backend/internal/config"
	"agrolend-backend/internal/infrastructure/cache"
	"agrolend-backend/internal/infrastructure/db"
	"agrolend-backend/internal/logger"
	"agrolend-backend/internal/security"
	"agrolend-backend/internal/usecase/auth"
	"agrolend-backend/internal/usecase/dashboard"
	"agrolend-backend/internal/usecase/eligibility"
	harvestUC "agrolend-backend/internal/usecase/harvest"
	irUC "agrolend-backend/internal/usecase/inputrequest"
	loanUC "agrolend-backend/internal/usecase/loan"
	messageUC "agrolend-backend/internal/usecase/message"
	repaymentUC "agrolend-backend/internal/usecase/repayment"
	userUC "agrolend-backend/internal/usecase/user"

	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}
	logger.Initialize(cfg.LogLevel, cfg.LogFormat)

	gdb, err := db.Open(cfg)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	if err := mysql.AutoMigrate(gdb); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	sqlDB, err := gdb.DB()
	if err != nil {
		log.Fatalf("database handle: %v", err)
	}
	defer sqlDB.Close()

	rdb, err := cache.Open(cfg)
	if err != nil {
		log.Fatalf("open redis: %v", err)
	}
	defer rdb.Close()

	store, err := storage.NewLocal(cfg.UploadDir, cfg.UploadBaseURL)
	if err != nil {
		log.Fatalf("upload dir: %v", err)
	}

	tokens := security.NewTokenManager(cfg.JWTSecret, cfg.JWTTTL)

	users := mysql.NewUserRepository(gdb)
	harvests := mysql.NewHarvestRepository(gdb)
	loans := mysql.NewLoanRepository(gdb)
	repayments := mysql.NewRepaymentRepository(gdb)
	messages := mysql.NewMessageRepository(gdb)
	reports := mysql.NewReportRepository(sqlx.NewDb(sqlDB, sqlxDriver(cfg.DBDriver)))

	notifier := notify.Fanout{
		notify.NewMailbox(messages),
		notify.NewPublisher(rdb, cfg.EventsChannel),
	}
	calc := eligibility.NewCalculator(harvests, cfg.Multiplier())

	authUC := auth.NewUsecase(users, tokens, cfg.AllowAdminSignup)
	if cfg.AdminSeedEmail != "" && cfg.AdminSeedPassword != "" {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := authUC.EnsureAdmin(ctx, cfg.AdminSeedEmail, cfg.AdminSeedPassword); err != nil {
			cancel()
			log.Fatalf("seed admin: %v", err)
		}
		cancel()
	}

	h := httpadp.Handlers{
		Health:        httpadp.NewHandler(sqlDB, rdb),
		Auth:          httpadp.NewAuthHandler(authUC, userUC.NewUsecase(users)),
		Harvests:      httpadp.NewHarvestHandler(harvestUC.NewUsecase(harvests, notifier)),
		Loans:         httpadp.NewLoanHandler(loanUC.NewUsecase(loans, calc, notifier, cfg.LoanTerm()), calc),
		Repayments:    httpadp.NewRepaymentHandler(repaymentUC.NewUsecase(repayments, loans, mysql.NewGormUoW(gdb), store, notifier)),
		InputRequests: httpadp.NewInputRequestHandler(irUC.NewUsecase(mysql.NewInputRequestRepository(gdb))),
		Messages:      httpadp.NewMessageHandler(messageUC.NewUsecase(messages, users)),
		Dashboard:     httpadp.NewDashboardHandler(dashboard.NewUsecase(reports, loans, messages, calc)),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(echomw.Recover(), middleware.RequestID(), middleware.RequestLogger())
	e.Static(cfg.UploadBaseURL, store.Dir())

	httpadp.RegisterRoutes(e, h, httpadp.RouteConfig{
		Tokens:         tokens,
		Redis:          rdb,
		IdempotencyTTL: cfg.IdempotencyTTL(),
	})

	go func() {
		addr := ":" + cfg.AppPort
		logger.Info("api listening", "addr", addr, "env", cfg.AppEnv)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down api")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
}

// sqlxDriver maps DB_DRIVER onto the driver name sqlx uses for bindvars.
func sqlxDriver(driver string) string {
	if driver == "sqlite" {
		return "sqlite3"
	}
	return driver
}
