package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/kwlc-church/kwlc-backend/api/middleware"
	checkoutsvc "github.com/kwlc-church/kwlc-backend/internal/checkout"
	"github.com/kwlc-church/kwlc-backend/pkg/db/models"
	"github.com/kwlc-church/kwlc-backend/pkg/enums"
	pkgerrors "github.com/kwlc-church/kwlc-backend/pkg/errors"
)

type stubCheckoutService struct {
	order         *models.Order
	err           error
	lastSessionID string
	lastInput     checkoutsvc.Input
}

func (s *stubCheckoutService) Checkout(ctx context.Context, sessionID string, input checkoutsvc.Input) (*models.Order, error) {
	s.lastSessionID = sessionID
	s.lastInput = input
	return s.order, s.err
}

func TestCheckoutCreatesOrder(t *testing.T) {
	order := &models.Order{
		ID:            uuid.New(),
		Reference:     "KWLC-ORD-AAA111",
		CustomerName:  "Tunde A.",
		CustomerEmail: "tunde@example.com",
		SubtotalKobo:  700000,
		Status:        enums.OrderStatusPendingPayment,
	}
	svc := &stubCheckoutService{order: order}
	handler := Checkout(svc, nil)

	sessionID := uuid.NewString()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_name":"Tunde A.","customer_email":"tunde@example.com"}`))
	req = req.WithContext(middleware.WithCartSession(req.Context(), sessionID))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
	if svc.lastSessionID != sessionID {
		t.Fatalf("expected session to be forwarded, got %q", svc.lastSessionID)
	}

	var envelope struct {
		Data OrderView `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.Reference != order.Reference {
		t.Fatalf("unexpected reference %q", envelope.Data.Reference)
	}
	if envelope.Data.Status != "pending_payment" {
		t.Fatalf("unexpected status %q", envelope.Data.Status)
	}
}

func TestCheckoutRequiresCustomerDetails(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_name":"Tunde A."}`))
	req = req.WithContext(middleware.WithCartSession(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestCheckoutPropagatesEmptyCartError(t *testing.T) {
	handler := Checkout(&stubCheckoutService{err: pkgerrors.New(pkgerrors.CodeValidation, "cart is empty")}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_name":"Tunde A.","customer_email":"tunde@example.com"}`))
	req = req.WithContext(middleware.WithCartSession(req.Context(), uuid.NewString()))

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Error.Message != "cart is empty" {
		t.Fatalf("unexpected message %q", envelope.Error.Message)
	}
}

func TestCheckoutWithoutSessionFails(t *testing.T) {
	handler := Checkout(&stubCheckoutService{}, nil)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{"customer_name":"Tunde A.","customer_email":"tunde@example.com"}`))
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)

	if resp.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 got %d", resp.Code)
	}
}
