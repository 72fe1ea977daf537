package database

import (
	"context"
	"errors"
	"testing"

	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	"github.com/shopspring/decimal"
)

func TestApplyPayment_RecordsOfflineTransaction(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateCustomer(t, service, "Asha Rao", "asharao")
	if err := service.SetDue(ctx, "asharao", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("SetDue failed: %v", err)
	}

	_, _, err := service.ApplyPayment(ctx, store.PaymentParams{
		Username: "asharao",
		Amount:   decimal.NewFromInt(200),
		Mode:     models.ModeOffline,
	})
	if err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	payments, err := service.ListPayments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Fatalf("Expected 1 payment, got %d", len(payments))
	}

	p := payments[0]
	if p.Mode != models.ModeOffline {
		t.Errorf("Expected mode offline, got %s", p.Mode)
	}
	if p.OrderId != "" {
		t.Errorf("Expected empty order id for offline payment, got %s", p.OrderId)
	}
	if p.Status != "Success" {
		t.Errorf("Expected status Success, got %s", p.Status)
	}
	if p.Amount.StringFixed(2) != "200.00" {
		t.Errorf("Expected amount 200.00, got %s", p.Amount.StringFixed(2))
	}

	entries, err := service.ListAudit(ctx, 10)
	if err != nil {
		t.Fatalf("ListAudit failed: %v", err)
	}
	if len(entries) == 0 || entries[0].Action != "offline_payment" {
		t.Errorf("Expected offline_payment audit entry, got %+v", entries)
	}
}

func TestApplyPayment_DuplicateOrderRefused(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateCustomer(t, service, "Asha Rao", "asharao")
	if err := service.SetDue(ctx, "asharao", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("SetDue failed: %v", err)
	}

	params := store.PaymentParams{
		Username: "asharao",
		Amount:   decimal.NewFromInt(200),
		OrderId:  "order_dup",
		Mode:     "test",
	}

	if _, _, err := service.ApplyPayment(ctx, params); err != nil {
		t.Fatalf("First ApplyPayment failed: %v", err)
	}

	_, _, err := service.ApplyPayment(ctx, params)
	if !errors.Is(err, store.ErrDuplicateOrder) {
		t.Fatalf("Expected ErrDuplicateOrder, got %v", err)
	}

	// The replay must not have touched the ledger.
	due, err := service.GetDue(ctx, "asharao")
	if err != nil {
		t.Fatalf("GetDue failed: %v", err)
	}
	if due.Balance.StringFixed(2) != "300.00" {
		t.Errorf("Expected balance applied once (300.00), got %s", due.Balance.StringFixed(2))
	}

	payments, err := service.ListPayments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("Expected a single payment row, got %d", len(payments))
	}
}

func TestRecordOrder_ConfirmTransitionsStatus(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateCustomer(t, service, "Asha Rao", "asharao")
	if err := service.SetDue(ctx, "asharao", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("SetDue failed: %v", err)
	}

	err := service.RecordOrder(ctx, store.OrderParams{
		OrderId:  "order_xyz",
		Username: "asharao",
		Customer: "Asha Rao",
		Amount:   decimal.NewFromInt(200),
		Mode:     "test",
	})
	if err != nil {
		t.Fatalf("RecordOrder failed: %v", err)
	}

	order, err := service.GetOrder(ctx, "order_xyz")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.Status != models.OrderStatusRequested {
		t.Errorf("Expected status requested, got %s", order.Status)
	}
	if order.ConfirmedAt != nil {
		t.Error("Expected no confirmation timestamp on a fresh order")
	}

	_, _, err = service.ApplyPayment(ctx, store.PaymentParams{
		Username: "asharao",
		Amount:   decimal.NewFromInt(200),
		OrderId:  "order_xyz",
		Mode:     "test",
	})
	if err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	order, err = service.GetOrder(ctx, "order_xyz")
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.Status != models.OrderStatusConfirmed {
		t.Errorf("Expected status confirmed, got %s", order.Status)
	}
	if order.ConfirmedAt == nil {
		t.Error("Expected confirmation timestamp after payment")
	}
}

func TestListPayments_MostRecentFirst(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateCustomer(t, service, "Asha Rao", "asharao")
	if err := service.SetDue(ctx, "asharao", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("SetDue failed: %v", err)
	}

	for _, orderId := range []string{"order_1", "order_2", "order_3"} {
		_, _, err := service.ApplyPayment(ctx, store.PaymentParams{
			Username: "asharao",
			Amount:   decimal.NewFromInt(100),
			OrderId:  orderId,
			Mode:     "test",
		})
		if err != nil {
			t.Fatalf("ApplyPayment failed: %v", err)
		}
	}

	payments, err := service.ListPayments(ctx, 2, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 2 {
		t.Fatalf("Expected limit to cap results at 2, got %d", len(payments))
	}
	if payments[0].Date.Before(payments[1].Date) {
		t.Error("Expected payments ordered most recent first")
	}
}
