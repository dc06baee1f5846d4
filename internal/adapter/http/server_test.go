package http

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	stdhttp "net/http"
	"net/http/httptest"
	"testing"
	"time"

	"agrolend-backend/internal/adapter/middleware"
	"agrolend-backend/internal/adapter/repository/mysql"
	"agrolend-backend/internal/adapter/storage"
	"agrolend-backend/internal/domain/user"
	"agrolend-backend/internal/security"
	"agrolend-backend/internal/testutil/notifymock"
	"agrolend-backend/internal/testutil/sqlitedb"
	"agrolend-backend/internal/usecase/auth"
	"agrolend-backend/internal/usecase/dashboard"
	"agrolend-backend/internal/usecase/eligibility"
	harvestUC "agrolend-backend/internal/usecase/harvest"
	irUC "agrolend-backend/internal/usecase/inputrequest"
	loanUC "agrolend-backend/internal/usecase/loan"
	messageUC "agrolend-backend/internal/usecase/message"
	repaymentUC "agrolend-backend/internal/usecase/repayment"
	userUC "agrolend-backend/internal/usecase/user"
	"agrolend-backend/pkg/id"

	miniredis "github.com/alicebob/miniredis/v2"
	"github.com/jmoiron/sqlx"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type testServer struct {
	e        *echo.Echo
	db       *gorm.DB
	mr       *miniredis.Miniredis
	events   *notifymock.Recorder
	users    *mysql.UserRepository
	tokens   security.TokenManager
	farmerID string
	adminID  string
	farmer   string // bearer token
	admin    string // bearer token
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := sqlitedb.Open(t, mysql.Models()...)
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("sql db: %v", err)
	}
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tokens := security.NewTokenManager("test-secret", time.Hour)
	users := mysql.NewUserRepository(db)
	harvests := mysql.NewHarvestRepository(db)
	loans := mysql.NewLoanRepository(db)
	repayments := mysql.NewRepaymentRepository(db)
	messages := mysql.NewMessageRepository(db)
	store, err := storage.NewLocal(t.TempDir(), "/uploads")
	if err != nil {
		t.Fatalf("storage: %v", err)
	}

	events := &notifymock.Recorder{}
	calc := eligibility.NewCalculator(harvests, eligibility.DefaultMultiplier)
	h := Handlers{
		Health:        NewHandler(sqlDB, rdb),
		Auth:          NewAuthHandler(auth.NewUsecase(users, tokens, false), userUC.NewUsecase(users)),
		Harvests:      NewHarvestHandler(harvestUC.NewUsecase(harvests, events)),
		Loans:         NewLoanHandler(loanUC.NewUsecase(loans, calc, events, loanUC.DefaultTerm), calc),
		Repayments:    NewRepaymentHandler(repaymentUC.NewUsecase(repayments, loans, mysql.NewGormUoW(db), store, events)),
		InputRequests: NewInputRequestHandler(irUC.NewUsecase(mysql.NewInputRequestRepository(db))),
		Messages:      NewMessageHandler(messageUC.NewUsecase(messages, users)),
		Dashboard: NewDashboardHandler(dashboard.NewUsecase(
			mysql.NewReportRepository(sqlx.NewDb(sqlDB, "sqlite3")), loans, messages, calc)),
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = NewValidator()
	e.Use(middleware.RequestID())
	RegisterRoutes(e, h, RouteConfig{Tokens: tokens, Redis: rdb, IdempotencyTTL: time.Minute})

	s := &testServer{e: e, db: db, mr: mr, events: events, users: users, tokens: tokens}
	s.farmerID, s.farmer = seedUser(t, users, tokens, user.RoleFarmer, "0700000001")
	s.adminID, s.admin = seedUser(t, users, tokens, user.RoleAdmin, "0700000002")
	return s
}

func seedUser(t *testing.T, repo *mysql.UserRepository, tokens security.TokenManager, role user.Role, phone string) (string, string) {
	t.Helper()
	u := &user.User{
		ID:           id.NewID32(),
		Name:         string(role) + " one",
		Email:        phone + "@example.com",
		Phone:        phone,
		PasswordHash: "unused",
		Role:         role,
		LandSize:     decimal.NewFromInt(2),
		CropType:     "maize",
	}
	if err := repo.Create(context.Background(), u); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	tok, _, err := tokens.GenerateAccessToken(u.ID, string(role))
	if err != nil {
		t.Fatalf("token: %v", err)
	}
	return u.ID, tok
}

func mustJSON(v any) *bytes.Reader {
	b, _ := json.Marshal(v)
	return bytes.NewReader(b)
}

func (s *testServer) do(t *testing.T, method, path, token string, body any, hdr ...string) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		r = mustJSON(body)
	}
	req := httptest.NewRequest(method, path, r)
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if token != "" {
		req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	}
	for i := 0; i+1 < len(hdr); i += 2 {
		req.Header.Set(hdr[i], hdr[i+1])
	}
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

// multipart posts form fields and one file under fileField.
func (s *testServer) multipart(t *testing.T, path, token string, fields map[string]string, fileField, filename string, file []byte) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("field: %v", err)
		}
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, filename)
		if err != nil {
			t.Fatalf("file: %v", err)
		}
		fw.Write(file)
	}
	w.Close()

	req := httptest.NewRequest(stdhttp.MethodPost, path, &buf)
	req.Header.Set(echo.HeaderContentType, w.FormDataContentType())
	req.Header.Set(echo.HeaderAuthorization, "Bearer "+token)
	rec := httptest.NewRecorder()
	s.e.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var out T
	if err := json.Unmarshal(rec.Body.Bytes(), &out); err != nil {
		t.Fatalf("bad json: %v; raw=%s", err, rec.Body.String())
	}
	return out
}

func expectStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d; body=%s", rec.Code, want, rec.Body.String())
	}
}
