package api

import (
	"context"
	"fmt"
	"strings"

	"dues-tracker-go/internal/gateway"
	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// RequestOrder validates the request, creates the order with the gateway
// (amount converted to minor units) and records it in the requested state.
// Validation failures never reach the gateway.
func (s *DuesService) RequestOrder(ctx context.Context, req models.CreateOrderRequest) (string, error) {
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if req.Amount <= 0 {
		return "", fmt.Errorf("%w: amount must be positive", ErrValidation)
	}
	if mode != models.ModeTest && mode != models.ModeLive {
		return "", fmt.Errorf("%w: mode must be test or live", ErrValidation)
	}
	if req.KeyId == "" || req.KeySecret == "" || req.UpiId == "" || req.CustomerName == "" || req.Username == "" {
		return "", fmt.Errorf("%w: key_id, key_secret, upi_id, customer_name and username are required", ErrValidation)
	}

	orderId, err := s.gateway.CreateOrder(ctx, req.KeyId, req.KeySecret, gateway.OrderParams{
		AmountMinorUnits: req.Amount * 100, // major units -> paise
		Currency:         "INR",
		Mode:             mode,
		PayeeUpi:         req.UpiId,
		CustomerName:     req.CustomerName,
		Username:         req.Username,
	})
	if err != nil {
		return "", &GatewayError{Err: err}
	}

	// Best effort: a confirm for an unrecorded order is still accepted.
	if err := s.store.RecordOrder(ctx, store.OrderParams{
		OrderId:  orderId,
		Username: req.Username,
		Customer: req.CustomerName,
		Amount:   decimal.NewFromInt(req.Amount),
		Mode:     mode,
	}); err != nil {
		zap.L().Warn("Failed to record requested order", zap.String("order_id", orderId), zap.Error(err))
	}

	return orderId, nil
}

// ConfirmPayment applies a gateway payment to the ledger. The confirmation
// is simulated: no provider signature is verified, matching the hosted
// checkout demo flow, but the apply is atomic and idempotent by order id.
func (s *DuesService) ConfirmPayment(ctx context.Context, req models.ConfirmPaymentRequest) (decimal.Decimal, error) {
	mode := strings.ToLower(strings.TrimSpace(req.Mode))
	if mode == "" {
		mode = models.ModeTest
	}
	if req.OrderId == "" || req.Username == "" || req.CustomerName == "" {
		return decimal.Zero, fmt.Errorf("%w: order_id, customer_name and username are required", ErrValidation)
	}
	if req.Amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	_, newBalance, err := s.store.ApplyPayment(ctx, store.PaymentParams{
		Username: req.Username,
		Customer: req.CustomerName,
		Amount:   req.Amount,
		OrderId:  req.OrderId,
		Mode:     mode,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// RecordOfflinePayment applies a payment taken outside the gateway.
func (s *DuesService) RecordOfflinePayment(ctx context.Context, username, customer string, amount decimal.Decimal) (decimal.Decimal, error) {
	username = strings.TrimSpace(username)
	customer = strings.TrimSpace(customer)
	if username == "" || customer == "" {
		return decimal.Zero, fmt.Errorf("%w: username and customer are required", ErrValidation)
	}
	if amount.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, fmt.Errorf("%w: amount must be positive", ErrValidation)
	}

	_, newBalance, err := s.store.ApplyPayment(ctx, store.PaymentParams{
		Username: username,
		Customer: customer,
		Amount:   amount,
		Mode:     models.ModeOffline,
	})
	if err != nil {
		return decimal.Zero, err
	}
	return newBalance, nil
}

// ListDues returns every ledger row, for the operator report.
func (s *DuesService) ListDues(ctx context.Context) ([]models.Due, error) {
	return s.store.ListDues(ctx)
}

// ListPayments returns recent completed payments, newest first.
func (s *DuesService) ListPayments(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	return s.store.ListPayments(ctx, limit, offset)
}
