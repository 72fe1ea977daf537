package api

import (
	"context"
	"errors"
	"testing"

	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	"github.com/shopspring/decimal"
)

func validOrderRequest(username string) models.CreateOrderRequest {
	return models.CreateOrderRequest{
		Amount:       200,
		Mode:         "test",
		KeyId:        "rzp_test_key",
		KeySecret:    "rzp_test_secret",
		UpiId:        "owner@upi",
		CustomerName: "Asha Rao",
		Username:     username,
	}
}

func TestRequestOrder(t *testing.T) {
	service, db, gw, _ := setupService(t)
	ctx := context.Background()

	username, _, err := service.CreateAccount(ctx, "Asha Rao", "", "")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	orderId, err := service.RequestOrder(ctx, validOrderRequest(username))
	if err != nil {
		t.Fatalf("RequestOrder failed: %v", err)
	}
	if orderId != "order_test123" {
		t.Errorf("Expected gateway order id, got %s", orderId)
	}
	if gw.lastOrder.AmountMinorUnits != 20000 {
		t.Errorf("Expected amount converted to paise (20000), got %d", gw.lastOrder.AmountMinorUnits)
	}
	if gw.lastOrder.Currency != "INR" {
		t.Errorf("Expected currency INR, got %s", gw.lastOrder.Currency)
	}

	order, err := db.GetOrder(ctx, orderId)
	if err != nil {
		t.Fatalf("GetOrder failed: %v", err)
	}
	if order.Status != models.OrderStatusRequested {
		t.Errorf("Expected order recorded as requested, got %s", order.Status)
	}
}

func TestRequestOrder_ValidationSkipsGateway(t *testing.T) {
	service, _, gw, _ := setupService(t)
	ctx := context.Background()

	bad := []models.CreateOrderRequest{
		func() models.CreateOrderRequest { r := validOrderRequest("asharao"); r.Amount = 0; return r }(),
		func() models.CreateOrderRequest { r := validOrderRequest("asharao"); r.Amount = -50; return r }(),
		func() models.CreateOrderRequest { r := validOrderRequest("asharao"); r.Mode = "sandbox"; return r }(),
		func() models.CreateOrderRequest { r := validOrderRequest("asharao"); r.KeyId = ""; return r }(),
		func() models.CreateOrderRequest { r := validOrderRequest("asharao"); r.UpiId = ""; return r }(),
		func() models.CreateOrderRequest { r := validOrderRequest(""); return r }(),
	}

	for i, req := range bad {
		if _, err := service.RequestOrder(ctx, req); !errors.Is(err, ErrValidation) {
			t.Errorf("Case %d: expected ErrValidation, got %v", i, err)
		}
	}
	if gw.calls != 0 {
		t.Errorf("Expected gateway untouched on validation failure, got %d calls", gw.calls)
	}
}

func TestRequestOrder_ModeCaseInsensitive(t *testing.T) {
	service, _, _, _ := setupService(t)
	ctx := context.Background()

	username, _, err := service.CreateAccount(ctx, "Asha Rao", "", "")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}

	req := validOrderRequest(username)
	req.Mode = "LIVE"
	if _, err := service.RequestOrder(ctx, req); err != nil {
		t.Errorf("Expected LIVE to normalize to live, got %v", err)
	}
}

func TestRequestOrder_GatewayFailure(t *testing.T) {
	service, _, gw, _ := setupService(t)
	gw.err = errors.New("authentication failed")

	_, err := service.RequestOrder(context.Background(), validOrderRequest("asharao"))
	var gatewayErr *GatewayError
	if !errors.As(err, &gatewayErr) {
		t.Fatalf("Expected *GatewayError, got %v", err)
	}
	if !errors.Is(err, gw.err) {
		t.Error("Expected wrapped error to unwrap to the gateway failure")
	}
}

func TestConfirmPayment(t *testing.T) {
	service, db, _, _ := setupService(t)
	ctx := context.Background()

	username, _, err := service.CreateAccount(ctx, "Asha Rao", "", "")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if err := db.SetDue(ctx, username, decimal.NewFromInt(500)); err != nil {
		t.Fatalf("SetDue failed: %v", err)
	}

	req := models.ConfirmPaymentRequest{
		OrderId:      "order_confirm1",
		Amount:       decimal.NewFromInt(200),
		CustomerName: "Asha Rao",
		Username:     username,
		// Mode omitted: defaults to test.
	}

	newBalance, err := service.ConfirmPayment(ctx, req)
	if err != nil {
		t.Fatalf("ConfirmPayment failed: %v", err)
	}
	if newBalance.StringFixed(2) != "300.00" {
		t.Errorf("Expected new balance 300.00, got %s", newBalance.StringFixed(2))
	}

	payments, err := service.ListPayments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 || payments[0].Mode != models.ModeTest {
		t.Errorf("Expected 1 payment in default test mode, got %+v", payments)
	}

	// A replayed confirmation is refused and applies nothing.
	_, err = service.ConfirmPayment(ctx, req)
	if !errors.Is(err, store.ErrDuplicateOrder) {
		t.Errorf("Expected ErrDuplicateOrder on replay, got %v", err)
	}
	due, err := service.GetDue(ctx, username)
	if err != nil {
		t.Fatalf("GetDue failed: %v", err)
	}
	if due.Balance.StringFixed(2) != "300.00" {
		t.Errorf("Expected balance unchanged by replay, got %s", due.Balance.StringFixed(2))
	}
}

func TestConfirmPayment_Validation(t *testing.T) {
	service, _, _, _ := setupService(t)
	ctx := context.Background()

	cases := []models.ConfirmPaymentRequest{
		{Amount: decimal.NewFromInt(100), CustomerName: "Asha Rao", Username: "asharao"}, // no order id
		{OrderId: "order_1", Amount: decimal.NewFromInt(100), CustomerName: "Asha Rao"},  // no username
		{OrderId: "order_1", Amount: decimal.Zero, CustomerName: "Asha Rao", Username: "asharao"},
	}
	for i, req := range cases {
		if _, err := service.ConfirmPayment(ctx, req); !errors.Is(err, ErrValidation) {
			t.Errorf("Case %d: expected ErrValidation, got %v", i, err)
		}
	}
}

func TestRecordOfflinePayment(t *testing.T) {
	service, db, _, _ := setupService(t)
	ctx := context.Background()

	username, _, err := service.CreateAccount(ctx, "Asha Rao", "", "")
	if err != nil {
		t.Fatalf("CreateAccount failed: %v", err)
	}
	if err := db.SetDue(ctx, username, decimal.NewFromInt(500)); err != nil {
		t.Fatalf("SetDue failed: %v", err)
	}

	newBalance, err := service.RecordOfflinePayment(ctx, username, "Asha Rao", decimal.NewFromInt(150))
	if err != nil {
		t.Fatalf("RecordOfflinePayment failed: %v", err)
	}
	if newBalance.StringFixed(2) != "350.00" {
		t.Errorf("Expected new balance 350.00, got %s", newBalance.StringFixed(2))
	}

	payments, err := service.ListPayments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 || payments[0].Mode != models.ModeOffline || payments[0].OrderId != "" {
		t.Errorf("Expected 1 offline payment without order id, got %+v", payments)
	}

	_, err = service.RecordOfflinePayment(ctx, "", "Asha Rao", decimal.NewFromInt(10))
	if !errors.Is(err, ErrValidation) {
		t.Errorf("Expected ErrValidation for empty username, got %v", err)
	}
}
