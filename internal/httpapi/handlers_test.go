package httpapi

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"partsledger/backend/internal/cache"
	"partsledger/backend/internal/domain"
	"partsledger/backend/internal/service"
	"partsledger/backend/internal/store/memory"
)

func newTestAPI(t *testing.T) http.Handler {
	t.Helper()
	t.Setenv("SEED_ADMIN_PASSWORD", "test-admin-secret")
	t.Setenv("SEED_CASHIER_PASSWORD", "test-cashier-secret")

	repo := memory.NewSeeded()
	svc := service.New(repo, cache.NoopReportCache{}, service.Options{DefaultAccountID: "acc-register"})
	auth := NewAuthManager("0123456789abcdef0123456789abcdef", time.Hour, repo)
	return New(svc, auth, "http://127.0.0.1:3000").Handler()
}

func login(t *testing.T, handler http.Handler, username string, password string) string {
	t.Helper()
	body, _ := json.Marshal(domain.LoginRequest{Username: username, Password: password})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusOK {
		t.Fatalf("login failed: status %d body %s", rec.Code, rec.Body.String())
	}

	var resp domain.LoginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode login response: %v", err)
	}
	return resp.AccessToken
}

func doJSON(handler http.Handler, method string, path string, token string, payload any) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if payload != nil {
		body, _ := json.Marshal(payload)
		reader = bytes.NewReader(body)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestEndpointsRequireAuth(t *testing.T) {
	handler := newTestAPI(t)

	rec := doJSON(handler, http.MethodGet, "/api/v1/products", "", nil)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
}

func TestCashierCannotReachAdminRoutes(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "test-cashier-secret")

	rec := doJSON(handler, http.MethodGet, "/api/v1/partners", token, nil)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cashier on partners, got %d", rec.Code)
	}
}

func TestLoginRejectsBadPassword(t *testing.T) {
	handler := newTestAPI(t)

	body, _ := json.Marshal(domain.LoginRequest{Username: "admin", Password: "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for bad password, got %d", rec.Code)
	}
}

func TestInvoiceFlowOverHTTP(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "test-cashier-secret")

	rec := doJSON(handler, http.MethodPost, "/api/v1/invoices", token, domain.InvoiceDraft{
		Type:    domain.InvoiceTypeSale,
		PartyID: "cus-arman",
		Lines:   []domain.InvoiceLineDraft{{ProductID: "prd-ne555", Qty: 2}},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", rec.Code, rec.Body.String())
	}

	var created struct {
		Invoice domain.Invoice `json:"invoice"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("decode invoice: %v", err)
	}
	if created.Invoice.Number != 1 || created.Invoice.GrandTotal != 18000 {
		t.Fatalf("unexpected invoice %+v", created.Invoice)
	}

	rec = doJSON(handler, http.MethodGet, fmt.Sprintf("/api/v1/invoices/%s", created.Invoice.ID), token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 fetching invoice, got %d", rec.Code)
	}

	// Ledger must carry the linked entry.
	rec = doJSON(handler, http.MethodGet, "/api/v1/ledger", token, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 listing ledger, got %d", rec.Code)
	}
	var ledgerResp struct {
		Entries []domain.LedgerTransaction `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &ledgerResp); err != nil {
		t.Fatalf("decode ledger: %v", err)
	}
	if len(ledgerResp.Entries) != 1 || ledgerResp.Entries[0].Link == nil || ledgerResp.Entries[0].Link.InvoiceID != created.Invoice.ID {
		t.Fatalf("expected one linked ledger entry, got %+v", ledgerResp.Entries)
	}
}

func TestInvoiceValidationReturns422(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "test-cashier-secret")

	rec := doJSON(handler, http.MethodPost, "/api/v1/invoices", token, domain.InvoiceDraft{
		Type: domain.InvoiceTypeSale,
	})
	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("expected 422 for empty invoice, got %d body %s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Violations []string `json:"violations"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil || len(resp.Violations) == 0 {
		t.Fatalf("expected violations in body, got %s", rec.Body.String())
	}
}

func TestInsufficientStockReturns409(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "cashier", "test-cashier-secret")

	rec := doJSON(handler, http.MethodPost, "/api/v1/invoices", token, domain.InvoiceDraft{
		Type:  domain.InvoiceTypeSale,
		Lines: []domain.InvoiceLineDraft{{ProductID: "prd-nano", Qty: 999}},
	})
	if rec.Code != http.StatusConflict {
		t.Fatalf("expected 409 for stock-out, got %d body %s", rec.Code, rec.Body.String())
	}
}

func TestAdminCreatesCashier(t *testing.T) {
	handler := newTestAPI(t)
	token := login(t, handler, "admin", "test-admin-secret")

	rec := doJSON(handler, http.MethodPost, "/api/v1/users/cashiers", token, domain.CashierCreateRequest{
		Username: "kasir2", Password: "secret99",
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body %s", rec.Code, rec.Body.String())
	}

	// The new cashier can log in right away.
	login(t, handler, "kasir2", "secret99")
}

func TestExportRequiresAdmin(t *testing.T) {
	handler := newTestAPI(t)
	cashierToken := login(t, handler, "cashier", "test-cashier-secret")
	adminToken := login(t, handler, "admin", "test-admin-secret")

	if rec := doJSON(handler, http.MethodGet, "/api/v1/export", cashierToken, nil); rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for cashier export, got %d", rec.Code)
	}

	rec := doJSON(handler, http.MethodGet, "/api/v1/export", adminToken, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin export, got %d", rec.Code)
	}
	var ds domain.Dataset
	if err := json.Unmarshal(rec.Body.Bytes(), &ds); err != nil {
		t.Fatalf("decode dataset: %v", err)
	}
	if len(ds.Products) == 0 || len(ds.CashAccounts) == 0 {
		t.Fatalf("expected seeded dataset, got products=%d accounts=%d", len(ds.Products), len(ds.CashAccounts))
	}
}
