package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// ApplyPayment applies a confirmed payment to the dues ledger and records it.
// The due update, the payment row, the order transition and the audit entry
// commit in one transaction: either the ledger reflects the payment and the
// record exists, or neither does. The new balance is clamped at zero.
func (s *Service) ApplyPayment(ctx context.Context, params store.PaymentParams) (*models.Payment, decimal.Decimal, error) {
	if params.Amount.LessThanOrEqual(decimal.Zero) {
		return nil, decimal.Zero, store.ErrInvalidAmount
	}

	zap.L().Info("Applying payment",
		zap.String("username", params.Username),
		zap.String("amount", params.Amount.String()),
		zap.String("order_id", params.OrderId),
		zap.String("mode", params.Mode))

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	// Confirming the same order twice must not double-apply.
	if params.OrderId != "" {
		var existingId string
		err := tx.QueryRowContext(ctx, queryCheckDuplicateOrder, params.OrderId).Scan(&existingId)
		if err == nil {
			zap.L().Warn("Duplicate order id detected, refusing to re-apply",
				zap.String("order_id", params.OrderId),
				zap.String("existing_payment_id", existingId))
			return nil, decimal.Zero, fmt.Errorf("%w: order_id %s", store.ErrDuplicateOrder, params.OrderId)
		} else if err != sql.ErrNoRows {
			return nil, decimal.Zero, fmt.Errorf("failed to check for duplicate order: %w", err)
		}
	}

	due, err := scanDue(tx.QueryRowContext(ctx, queryGetDue, params.Username))
	if err == sql.ErrNoRows {
		return nil, decimal.Zero, fmt.Errorf("%w: %s", store.ErrDueNotFound, params.Username)
	}
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to get due: %w", err)
	}

	// New balance = max(0, old - amount).
	newBalance := due.Balance.Sub(params.Amount)
	if newBalance.IsNegative() {
		newBalance = decimal.Zero
	}

	if err := updateDueBalance(ctx, tx, due, newBalance); err != nil {
		return nil, decimal.Zero, err
	}

	payment := &models.Payment{
		Id:       uuid.New().String(),
		Date:     time.Now(),
		Username: due.Username,
		Customer: params.Customer,
		Amount:   params.Amount,
		OrderId:  params.OrderId,
		Status:   "Success",
		Mode:     params.Mode,
	}
	if payment.Customer == "" {
		payment.Customer = due.Customer
	}

	_, err = tx.ExecContext(ctx, queryInsertPayment,
		payment.Id, payment.Date, payment.Username, payment.Customer,
		payment.Amount.StringFixed(2), payment.OrderId, payment.Status, payment.Mode)
	if err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to insert payment: %w", err)
	}

	// Transition the stored order if the request came through the gateway.
	// Confirmations for orders this process never recorded are still accepted.
	if params.OrderId != "" {
		if _, err := tx.ExecContext(ctx, queryConfirmOrder, payment.Date, params.OrderId); err != nil {
			return nil, decimal.Zero, fmt.Errorf("failed to confirm order: %w", err)
		}
	}

	action, details := auditForPayment(payment)
	if _, err := tx.ExecContext(ctx, queryInsertAudit, uuid.New().String(), payment.Date, action, details); err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to record audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, decimal.Zero, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Payment applied successfully",
		zap.String("username", payment.Username),
		zap.String("amount", payment.Amount.StringFixed(2)),
		zap.String("old_balance", due.Balance.StringFixed(2)),
		zap.String("new_balance", newBalance.StringFixed(2)))

	return payment, newBalance, nil
}

func auditForPayment(p *models.Payment) (string, string) {
	if p.Mode == models.ModeOffline {
		return "offline_payment", fmt.Sprintf("%s paid %s offline", p.Username, p.Amount.StringFixed(2))
	}
	return "payment_success", fmt.Sprintf("%s paid %s (order %s)", p.Username, p.Amount.StringFixed(2), p.OrderId)
}

// ListPayments returns completed payments, most recent first.
func (s *Service) ListPayments(ctx context.Context, limit, offset int) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, queryListPayments, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var amountStr string
		err := rows.Scan(&p.Id, &p.Date, &p.Username, &p.Customer, &amountStr, &p.OrderId, &p.Status, &p.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// listPaymentsAsc returns every payment in chronological order, for export.
func (s *Service) listPaymentsAsc(ctx context.Context) ([]models.Payment, error) {
	rows, err := s.db.QueryContext(ctx, queryListPaymentsAsc)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var payments []models.Payment
	for rows.Next() {
		var p models.Payment
		var amountStr string
		err := rows.Scan(&p.Id, &p.Date, &p.Username, &p.Customer, &amountStr, &p.OrderId, &p.Status, &p.Mode)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		p.Amount, err = decimal.NewFromString(amountStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
		}
		payments = append(payments, p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating payment rows: %w", err)
	}
	return payments, nil
}

// RecordOrder stores a gateway order in the requested state.
func (s *Service) RecordOrder(ctx context.Context, params store.OrderParams) error {
	_, err := s.db.ExecContext(ctx, queryInsertOrder,
		params.OrderId, params.Username, params.Customer, params.Amount.StringFixed(2), params.Mode)
	if err != nil {
		return fmt.Errorf("failed to record order: %w", err)
	}

	zap.L().Info("Order recorded",
		zap.String("order_id", params.OrderId),
		zap.String("username", params.Username),
		zap.String("amount", params.Amount.StringFixed(2)),
		zap.String("mode", params.Mode))
	return nil
}

func (s *Service) GetOrder(ctx context.Context, orderId string) (*models.Order, error) {
	var o models.Order
	var amountStr string
	var confirmedAt sql.NullTime
	err := s.db.QueryRowContext(ctx, queryGetOrder, orderId).
		Scan(&o.OrderId, &o.Username, &o.Customer, &amountStr, &o.Mode, &o.Status, &o.CreatedAt, &confirmedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("order not found: %s", orderId)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get order: %w", err)
	}
	o.Amount, err = decimal.NewFromString(amountStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse amount '%s': %w", amountStr, err)
	}
	if confirmedAt.Valid {
		o.ConfirmedAt = &confirmedAt.Time
	}
	return &o, nil
}
