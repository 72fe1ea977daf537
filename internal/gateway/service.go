package gateway

import (
	"context"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
	"go.uber.org/zap"
)

// OrderParams contains the parameters for creating a payment order with the
// gateway. Amounts are in minor currency units (paise).
type OrderParams struct {
	AmountMinorUnits int64
	Currency         string
	Mode             string
	PayeeUpi         string
	CustomerName     string
	Username         string
}

// OrderCreator creates a payment-intent order with the external gateway.
// Credentials are supplied per call and never stored.
type OrderCreator interface {
	CreateOrder(ctx context.Context, keyId, keySecret string, params OrderParams) (string, error)
}

// Compile-time check: *Service must satisfy OrderCreator.
var _ OrderCreator = (*Service)(nil)

// Service creates orders through the Razorpay REST API.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

// CreateOrder requests a capture-enabled order and returns its opaque id.
// Mode, payee and payer ride along as notes the gateway echoes back.
func (s *Service) CreateOrder(ctx context.Context, keyId, keySecret string, params OrderParams) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	client := razorpay.NewClient(keyId, keySecret)
	data := map[string]interface{}{
		"amount":          params.AmountMinorUnits,
		"currency":        params.Currency,
		"payment_capture": 1,
		"notes": map[string]interface{}{
			"mode":      params.Mode,
			"owner_upi": params.PayeeUpi,
			"customer":  params.CustomerName,
			"username":  params.Username,
		},
	}

	body, err := client.Order.Create(data, nil)
	if err != nil {
		return "", fmt.Errorf("unable to create order: %w", err)
	}

	orderId, ok := body["id"].(string)
	if !ok || orderId == "" {
		return "", fmt.Errorf("order response missing id")
	}

	zap.L().Info("Gateway order created",
		zap.String("order_id", orderId),
		zap.Int64("amount_minor_units", params.AmountMinorUnits),
		zap.String("mode", params.Mode),
		zap.String("username", params.Username))
	return orderId, nil
}
