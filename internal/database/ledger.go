package database

import (
	"context"
	"database/sql"
	"fmt"

	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// GetDue returns the current due row for a username (O(1) lookup)
func (s *Service) GetDue(ctx context.Context, username string) (*models.Due, error) {
	due, err := scanDue(s.db.QueryRowContext(ctx, queryGetDue, username))
	if err == sql.ErrNoRows {
		return nil, store.ErrDueNotFound
	}
	if err != nil {
		zap.L().Error("Failed to get due", zap.String("username", username), zap.Error(err))
		return nil, fmt.Errorf("failed to get due: %w", err)
	}
	return due, nil
}

func (s *Service) ListDues(ctx context.Context) ([]models.Due, error) {
	rows, err := s.db.QueryContext(ctx, queryListDues)
	if err != nil {
		return nil, fmt.Errorf("failed to list dues: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var dues []models.Due
	for rows.Next() {
		due, err := scanDue(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan due: %w", err)
		}
		dues = append(dues, *due)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating due rows: %w", err)
	}
	return dues, nil
}

// SetDue sets the outstanding balance for a username, creating the row if
// missing. Used by the operator tooling and the CSV import path.
func (s *Service) SetDue(ctx context.Context, username string, amount decimal.Decimal) error {
	if amount.IsNegative() {
		return store.ErrInvalidAmount
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	due, err := scanDue(tx.QueryRowContext(ctx, queryGetDue, username))
	if err == sql.ErrNoRows {
		// Same transaction: the pool may only have this one connection.
		displayName := username
		var c models.Customer
		cerr := tx.QueryRowContext(ctx, queryGetCustomerByUsername, username).
			Scan(&c.Id, &c.Name, &c.Email, &c.Phone, &c.Username, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
		if cerr == nil {
			displayName = c.Name
		}
		_, err = tx.ExecContext(ctx, queryInsertDue, uuid.New().String(), username, displayName, amount.StringFixed(2))
		if err != nil {
			return fmt.Errorf("failed to insert due: %w", err)
		}
		return tx.Commit()
	}
	if err != nil {
		return fmt.Errorf("failed to get due: %w", err)
	}

	if err := updateDueBalance(ctx, tx, due, amount); err != nil {
		return err
	}
	return tx.Commit()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDue(row rowScanner) (*models.Due, error) {
	var due models.Due
	var balanceStr string
	err := row.Scan(&due.Id, &due.Username, &due.Customer, &balanceStr, &due.Version, &due.UpdatedAt)
	if err != nil {
		return nil, err
	}
	due.Balance, err = decimal.NewFromString(balanceStr)
	if err != nil {
		return nil, fmt.Errorf("failed to parse balance '%s': %w", balanceStr, err)
	}
	return &due, nil
}

// updateDueBalance writes a new balance with an optimistic version check.
// The row must have been read inside the same transaction.
func updateDueBalance(ctx context.Context, tx *sql.Tx, due *models.Due, newBalance decimal.Decimal) error {
	result, err := tx.ExecContext(ctx, queryUpdateDueBalance, newBalance.StringFixed(2), due.Username, due.Version)
	if err != nil {
		return fmt.Errorf("failed to update due balance: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("due update failed - %w", store.ErrConcurrentModification)
	}
	return nil
}
