package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// CreateCustomer inserts the customer row, its zero-balance due row and the
// audit entry in a single transaction.
func (s *Service) CreateCustomer(ctx context.Context, params store.CreateCustomerParams) (*models.Customer, error) {
	if params.Username == "" {
		return nil, fmt.Errorf("username cannot be empty")
	}
	if params.PasswordHash == "" {
		return nil, fmt.Errorf("password hash cannot be empty")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	customerId := uuid.New().String()
	_, err = tx.ExecContext(ctx, queryInsertCustomer,
		customerId, params.Name, params.Email, params.Phone, params.Username, params.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("failed to insert customer: %w", err)
	}

	_, err = tx.ExecContext(ctx, queryInsertDue,
		uuid.New().String(), params.Username, params.Name, "0.00")
	if err != nil {
		return nil, fmt.Errorf("failed to initialize due: %w", err)
	}

	details := fmt.Sprintf("%s (%s) created", params.Username, params.Name)
	_, err = tx.ExecContext(ctx, queryInsertAudit, uuid.New().String(), time.Now(), "create_customer", details)
	if err != nil {
		return nil, fmt.Errorf("failed to record audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Customer created",
		zap.String("id", customerId),
		zap.String("username", params.Username),
		zap.String("name", params.Name))

	return s.GetCustomerByUsername(ctx, params.Username)
}

func (s *Service) GetCustomerByUsername(ctx context.Context, username string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.QueryRowContext(ctx, queryGetCustomerByUsername, username).
		Scan(&c.Id, &c.Name, &c.Email, &c.Phone, &c.Username, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer: %w", err)
	}
	return &c, nil
}

func (s *Service) GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var c models.Customer
	err := s.db.QueryRowContext(ctx, queryGetCustomerByEmail, email).
		Scan(&c.Id, &c.Name, &c.Email, &c.Phone, &c.Username, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
	if err == sql.ErrNoRows {
		return nil, store.ErrCustomerNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get customer by email: %w", err)
	}
	return &c, nil
}

func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	rows, err := s.db.QueryContext(ctx, queryListCustomers)
	if err != nil {
		return nil, fmt.Errorf("failed to list customers: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var customers []models.Customer
	for rows.Next() {
		var c models.Customer
		err := rows.Scan(&c.Id, &c.Name, &c.Email, &c.Phone, &c.Username, &c.PasswordHash, &c.CreatedAt, &c.UpdatedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan customer: %w", err)
		}
		customers = append(customers, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating customer rows: %w", err)
	}
	return customers, nil
}

// UsernameExists reports whether a username is taken, case-insensitively.
func (s *Service) UsernameExists(ctx context.Context, username string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx, queryUsernameExists, username).Scan(&one)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return true, nil
}

// VerifyPassword checks a password against the stored bcrypt hash.
// An unknown username verifies as false, not as an error, so callers
// cannot distinguish a missing account from a wrong password.
func (s *Service) VerifyPassword(ctx context.Context, username, password string) (bool, error) {
	customer, err := s.GetCustomerByUsername(ctx, username)
	if err == store.ErrCustomerNotFound {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(customer.PasswordHash), []byte(password)); err != nil {
		return false, nil
	}
	return true, nil
}

// UpdatePassword overwrites the stored hash and records the audit entry.
func (s *Service) UpdatePassword(ctx context.Context, username, passwordHash string) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, queryUpdatePassword, passwordHash, username)
	if err != nil {
		return fmt.Errorf("failed to update password: %w", err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return store.ErrCustomerNotFound
	}

	details := fmt.Sprintf("%s changed password", username)
	_, err = tx.ExecContext(ctx, queryInsertAudit, uuid.New().String(), time.Now(), "change_password", details)
	if err != nil {
		return fmt.Errorf("failed to record audit entry: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	zap.L().Info("Password updated", zap.String("username", username))
	return nil
}
