package api

import (
	"context"
	"errors"
	"fmt"

	"dues-tracker-go/internal/gateway"
	"dues-tracker-go/internal/notify"
	"dues-tracker-go/internal/store"
)

// ErrValidation marks missing or malformed input; surfaced as HTTP 400.
var ErrValidation = errors.New("missing or invalid fields")

// GatewayError wraps a failure from the external payment provider.
// The provider's message is passed through verbatim; surfaced as HTTP 500.
type GatewayError struct {
	Err error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("payment gateway error: %v", e.Err)
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// DuesService provides the application operations over the dues store,
// the payment gateway and the mailer.
type DuesService struct {
	store   store.DuesStore
	gateway gateway.OrderCreator
	mailer  notify.Sender
}

func NewDuesService(s store.DuesStore, g gateway.OrderCreator, m notify.Sender) *DuesService {
	return &DuesService{
		store:   s,
		gateway: g,
		mailer:  m,
	}
}

func (s *DuesService) HealthCheck(ctx context.Context) error {
	if _, err := s.store.ListDues(ctx); err != nil {
		return fmt.Errorf("database health check failed: %w", err)
	}
	return nil
}
