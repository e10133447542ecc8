package payments

import (
	"context"
	"errors"
	"testing"

	"github.com/fauzaanu/diet/internal/config"
)

func testService(store Store) *Service {
	return NewService(store, config.PaymentsConfig{
		Payload:     "DIETBOT-DONATE",
		Currency:    "XTR",
		Amount:      100,
		Title:       "Support the Diet Plan Bot",
		Description: "A small donation that keeps the bot running",
	})
}

func TestVerifyPayload(t *testing.T) {
	svc := testService(NewMemoryStore())
	if !svc.VerifyPayload("DIETBOT-DONATE") {
		t.Fatal("issued payload rejected")
	}
	for _, bad := range []string{"", "WPBOT-PYLD", "dietbot-donate", "DIETBOT-DONATE "} {
		if svc.VerifyPayload(bad) {
			t.Fatalf("foreign payload %q accepted", bad)
		}
	}
}

func TestRecordAndLastCharge(t *testing.T) {
	store := NewMemoryStore()
	svc := testService(store)
	ctx := context.Background()

	if err := svc.RecordCharge(ctx, 7, 100, "XTR", "chg_1"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordCharge(ctx, 7, 250, "XTR", "chg_2"); err != nil {
		t.Fatal(err)
	}
	if err := svc.RecordCharge(ctx, 8, 100, "XTR", "chg_other"); err != nil {
		t.Fatal(err)
	}
	if store.Len() != 3 {
		t.Fatalf("expected 3 rows, got %d", store.Len())
	}

	charge, ok, err := svc.LastCharge(ctx, 7)
	if err != nil || !ok {
		t.Fatalf("last charge: %v ok=%v", err, ok)
	}
	if charge != "chg_2" {
		t.Fatalf("last charge = %q, want chg_2", charge)
	}

	if _, ok, err := svc.LastCharge(ctx, 999); err != nil || ok {
		t.Fatalf("absent user: %v ok=%v", err, ok)
	}
}

func TestRecordFailure(t *testing.T) {
	store := NewMemoryStore()
	store.FailRecords = errors.New("connection refused")
	svc := testService(store)

	err := svc.RecordCharge(context.Background(), 1, 100, "XTR", "chg_x")
	var serr *StoreError
	if !errors.As(err, &serr) {
		t.Fatalf("expected StoreError, got %v", err)
	}
	if serr.Code() != "PERSISTENCE_ERROR" {
		t.Fatalf("unexpected code %s", serr.Code())
	}
}

func TestInvoiceFields(t *testing.T) {
	svc := testService(NewMemoryStore())
	title, desc, payload, currency, amount := svc.Invoice()
	if title == "" || desc == "" {
		t.Fatal("invoice copy must be set")
	}
	if payload != "DIETBOT-DONATE" || currency != "XTR" || amount != 100 {
		t.Fatalf("invoice = %q %q %d", payload, currency, amount)
	}
}
