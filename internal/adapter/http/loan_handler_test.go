package http

import (
	stdhttp "net/http"
	"strings"
	"testing"

	"agrolend-backend/internal/domain/event"
	"agrolend-backend/internal/domain/harvest"
	"agrolend-backend/internal/domain/loan"
	"agrolend-backend/internal/domain/repayment"
	"agrolend-backend/internal/usecase/dashboard"
	"agrolend-backend/pkg/apperr"
	"agrolend-backend/pkg/id"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func approvedHarvest(t *testing.T, s *testServer, amount int) {
	t.Helper()
	rec := s.do(t, stdhttp.MethodPost, "/api/harvests", s.farmer, map[string]any{"crop_type": "maize", "amount": amount})
	expectStatus(t, rec, stdhttp.StatusCreated)
	h := decode[harvest.Harvest](t, rec)
	if h.Status != harvest.StatusPending {
		t.Fatalf("new harvest status = %s", h.Status)
	}
	rec = s.do(t, stdhttp.MethodPost, "/api/admin/harvests/"+h.ID+"/review", s.admin, map[string]string{"decision": "approve"})
	expectStatus(t, rec, stdhttp.StatusOK)
}

func TestLoanLifecycleOverHTTP(t *testing.T) {
	s := newTestServer(t)
	approvedHarvest(t, s, 60)

	rec := s.do(t, stdhttp.MethodGet, "/api/loans/eligibility", s.farmer, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	elig := decode[struct {
		Eligible     bool            `json:"eligible"`
		EligibleLoan decimal.Decimal `json:"eligible_loan"`
	}](t, rec)
	if !elig.Eligible || !elig.EligibleLoan.Equal(dec("600")) {
		t.Fatalf("eligibility = %+v", elig)
	}

	// over the ceiling
	rec = s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 700})
	expectStatus(t, rec, stdhttp.StatusBadRequest)
	if er := decode[ErrorResponse](t, rec); er.Code != apperr.CodeExceedsCeiling || !strings.Contains(er.Error, "600") {
		t.Fatalf("ceiling error = %+v", er)
	}

	rec = s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": "500", "reason": "seeds"})
	expectStatus(t, rec, stdhttp.StatusCreated)
	l := decode[loan.Loan](t, rec)
	if l.Status != loan.StatusPending || !l.AmountRemaining.Equal(dec("500")) {
		t.Fatalf("new loan = %+v", l)
	}

	// not approved yet
	rec = s.do(t, stdhttp.MethodPost, "/api/repayments", s.farmer, map[string]any{"loan_id": l.ID, "amount": 100, "method": "cash"})
	expectStatus(t, rec, stdhttp.StatusConflict)
	if er := decode[ErrorResponse](t, rec); er.Code != apperr.CodeLoanNotApproved {
		t.Fatalf("code = %s", er.Code)
	}

	rec = s.do(t, stdhttp.MethodPost, "/api/admin/loans/"+l.ID+"/approve", s.admin, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	l = decode[loan.Loan](t, rec)
	if l.Status != loan.StatusApproved || l.DueDate == nil {
		t.Fatalf("approved loan = %+v", l)
	}

	// second approval is refused
	rec = s.do(t, stdhttp.MethodPost, "/api/admin/loans/"+l.ID+"/approve", s.admin, nil)
	expectStatus(t, rec, stdhttp.StatusConflict)

	rec = s.multipart(t, "/api/repayments", s.farmer,
		map[string]string{"loan_id": l.ID, "amount": "200", "method": "mobile_money", "notes": "M-Pesa"},
		"receipt", "receipt.png", []byte("fake-png"))
	expectStatus(t, rec, stdhttp.StatusCreated)
	r1 := decode[repayment.Repayment](t, rec)
	if !strings.HasPrefix(r1.ReceiptRef, "/uploads/receipts/") || r1.Status != repayment.StatusPending {
		t.Fatalf("repayment = %+v", r1)
	}

	rec = s.do(t, stdhttp.MethodPost, "/api/repayments", s.farmer, map[string]any{"loan_id": l.ID, "amount": 300, "method": "cash"})
	expectStatus(t, rec, stdhttp.StatusCreated)
	r2 := decode[repayment.Repayment](t, rec)

	rec = s.do(t, stdhttp.MethodPost, "/api/admin/repayments/"+r1.ID+"/approve", s.admin, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	settled := decode[struct {
		Repayment repayment.Repayment `json:"repayment"`
		Loan      loan.Loan           `json:"loan"`
	}](t, rec)
	if !settled.Loan.AmountRemaining.Equal(dec("300")) || settled.Repayment.Status != repayment.StatusApproved {
		t.Fatalf("after first settlement = %+v", settled)
	}

	rec = s.do(t, stdhttp.MethodPost, "/api/admin/repayments/"+r1.ID+"/approve", s.admin, nil)
	expectStatus(t, rec, stdhttp.StatusConflict)

	rec = s.do(t, stdhttp.MethodPost, "/api/admin/repayments/"+r2.ID+"/approve", s.admin, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	settled = decode[struct {
		Repayment repayment.Repayment `json:"repayment"`
		Loan      loan.Loan           `json:"loan"`
	}](t, rec)
	if settled.Loan.Status != loan.StatusRepaid || !settled.Loan.AmountRemaining.IsZero() {
		t.Fatalf("loan should be repaid: %+v", settled.Loan)
	}

	rec = s.do(t, stdhttp.MethodPost, "/api/repayments", s.farmer, map[string]any{"loan_id": l.ID, "amount": 10, "method": "cash"})
	expectStatus(t, rec, stdhttp.StatusConflict)
	if er := decode[ErrorResponse](t, rec); er.Code != apperr.CodeLoanRepaid {
		t.Fatalf("code = %s", er.Code)
	}

	rec = s.do(t, stdhttp.MethodGet, "/api/dashboard", s.farmer, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	dash := decode[dashboard.FarmerDashboard](t, rec)
	if !dash.Summary.TotalOwed.IsZero() || !dash.Summary.TotalPaid.Equal(dec("500")) || !dash.Summary.EligibleLoan.Equal(dec("600")) {
		t.Fatalf("dashboard summary = %+v", dash.Summary)
	}
	if len(dash.RecentLoans) != 1 {
		t.Fatalf("recent loans = %d", len(dash.RecentLoans))
	}

	kinds := s.events.Kinds()
	if kinds[len(kinds)-1] != event.LoanRepaid {
		t.Fatalf("last event = %s, want %s (all: %v)", kinds[len(kinds)-1], event.LoanRepaid, kinds)
	}
}

func TestLoanEditAndCancelOverHTTP(t *testing.T) {
	s := newTestServer(t)
	approvedHarvest(t, s, 100)

	rec := s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 400})
	expectStatus(t, rec, stdhttp.StatusCreated)
	l := decode[loan.Loan](t, rec)

	rec = s.do(t, stdhttp.MethodPut, "/api/loans/"+l.ID, s.farmer, map[string]any{"amount": 250.5})
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[loan.Loan](t, rec); !got.Amount.Equal(dec("250.5")) || !got.AmountRemaining.Equal(dec("250.5")) {
		t.Fatalf("edited loan = %+v", got)
	}

	rec = s.do(t, stdhttp.MethodPut, "/api/loans/"+l.ID, s.farmer, map[string]any{"amount": 1000000})
	expectStatus(t, rec, stdhttp.StatusBadRequest)
	if er := decode[ErrorResponse](t, rec); er.Code != apperr.CodeExceedsCeiling {
		t.Fatalf("code = %s", er.Code)
	}

	rec = s.do(t, stdhttp.MethodDelete, "/api/loans/"+l.ID, s.farmer, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	rec = s.do(t, stdhttp.MethodGet, "/api/loans/"+l.ID, s.farmer, nil)
	expectStatus(t, rec, stdhttp.StatusNotFound)
}

func TestLoanRequestWithoutHarvest(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 100})
	expectStatus(t, rec, stdhttp.StatusBadRequest)
	if er := decode[ErrorResponse](t, rec); er.Code != apperr.CodeNoApprovedHarvest {
		t.Fatalf("code = %s", er.Code)
	}
}

func TestLoanRequestValidation(t *testing.T) {
	s := newTestServer(t)
	rec := s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 10.555})
	expectStatus(t, rec, stdhttp.StatusUnprocessableEntity)
	er := decode[ErrorResponse](t, rec)
	if len(er.Details) != 1 || er.Details[0].Field != "amount" {
		t.Fatalf("details = %+v", er.Details)
	}

	rec = s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, `{"amount":`)
	expectStatus(t, rec, stdhttp.StatusBadRequest)
}

func TestLoanRequestIsIdempotent(t *testing.T) {
	s := newTestServer(t)
	approvedHarvest(t, s, 100)
	key := "loan-req-" + id.NewID32()

	rec1 := s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 100}, "Idempotency-Key", key)
	expectStatus(t, rec1, stdhttp.StatusCreated)
	rec2 := s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 100}, "Idempotency-Key", key)
	expectStatus(t, rec2, stdhttp.StatusCreated)
	if rec1.Body.String() != rec2.Body.String() {
		t.Fatalf("replayed body differs")
	}

	rec := s.do(t, stdhttp.MethodGet, "/api/loans", s.farmer, nil)
	expectStatus(t, rec, stdhttp.StatusOK)
	if got := decode[[]loan.Loan](t, rec); len(got) != 1 {
		t.Fatalf("loans = %d, want 1", len(got))
	}
}

func TestAccessControl(t *testing.T) {
	s := newTestServer(t)

	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/loans", "", nil), stdhttp.StatusUnauthorized)
	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/admin/loans", s.farmer, nil), stdhttp.StatusForbidden)
	expectStatus(t, s.do(t, stdhttp.MethodPost, "/api/loans", s.admin, map[string]any{"amount": 1}), stdhttp.StatusForbidden)
	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/loans/not-an-id", s.farmer, nil), stdhttp.StatusBadRequest)
	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/loans/"+id.NewID32(), s.farmer, nil), stdhttp.StatusNotFound)
	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/admin/loans?from=yesterday", s.admin, nil), stdhttp.StatusBadRequest)
	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/admin/loans?from=2025-01-01&to=2025-12-31&status=pending", s.admin, nil), stdhttp.StatusOK)
}

func TestFarmerCannotSeeOtherFarmersLoan(t *testing.T) {
	s := newTestServer(t)
	approvedHarvest(t, s, 100)
	rec := s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 100})
	expectStatus(t, rec, stdhttp.StatusCreated)
	l := decode[loan.Loan](t, rec)

	_, other := seedUser(t, s.users, s.tokens, "farmer", "0700000099")
	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/loans/"+l.ID, other, nil), stdhttp.StatusNotFound)
	expectStatus(t, s.do(t, stdhttp.MethodGet, "/api/admin/loans/"+l.ID, s.admin, nil), stdhttp.StatusOK)
}

func TestLoanStatementOverHTTP(t *testing.T) {
	s := newTestServer(t)
	approvedHarvest(t, s, 100)
	rec := s.do(t, stdhttp.MethodPost, "/api/loans", s.farmer, map[string]any{"amount": 400})
	expectStatus(t, rec, stdhttp.StatusCreated)
	l := decode[loan.Loan](t, rec)
	expectStatus(t, s.do(t, stdhttp.MethodPost, "/api/admin/loans/"+l.ID+"/approve", s.admin, nil), stdhttp.StatusOK)

	rec = s.do(t, stdhttp.MethodPost, "/api/repayments", s.farmer, map[string]any{"loan_id": l.ID, "amount": "150.25", "method": "cash"})
	expectStatus(t, rec, stdhttp.StatusCreated)
	r1 := decode[repayment.Repayment](t, rec)
	rec = s.do(t, stdhttp.MethodPost, "/api/repayments", s.farmer, map[string]any{"loan_id": l.ID, "amount": 50, "method": "cash"})
	expectStatus(t, rec, stdhttp.StatusCreated)
	expectStatus(t, s.do(t, stdhttp.MethodPost, "/api/admin/repayments/"+r1.ID+"/approve", s.admin, nil), stdhttp.StatusOK)

	type statement struct {
		Loan         loan.Loan             `json:"loan"`
		Repayments   []repayment.Repayment `json:"repayments"`
		TotalPaid    decimal.Decimal       `json:"total_paid"`
		TotalPending decimal.Decimal       `json:"total_pending"`
	}
	for _, path := range []string{"/api/loans/" + l.ID + "/statement", "/api/admin/loans/" + l.ID + "/statement"} {
		token := s.farmer
		if strings.HasPrefix(path, "/api/admin") {
			token = s.admin
		}
		rec = s.do(t, stdhttp.MethodGet, path, token, nil)
		expectStatus(t, rec, stdhttp.StatusOK)
		st := decode[statement](t, rec)
		if len(st.Repayments) != 2 || !st.TotalPaid.Equal(dec("150.25")) || !st.TotalPending.Equal(dec("50")) {
			t.Fatalf("%s: statement = %+v", path, st)
		}
		if !st.Loan.AmountRemaining.Add(st.TotalPaid).Equal(st.Loan.Amount) {
			t.Fatalf("%s: remaining %s + paid %s != amount %s", path, st.Loan.AmountRemaining, st.TotalPaid, st.Loan.Amount)
		}
	}

	_, other := seedUser(t, s.users, s.tokens, "farmer", "0700000098")
	rec = s.do(t, stdhttp.MethodGet, "/api/loans/"+l.ID+"/statement", other, nil)
	expectStatus(t, rec, stdhttp.StatusNotFound)
	if er := decode[ErrorResponse](t, rec); er.Code != apperr.CodeLoanNotFound {
		t.Fatalf("code = %s", er.Code)
	}
}
