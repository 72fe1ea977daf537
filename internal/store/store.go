package store

import (
	"context"
	"errors"

	"dues-tracker-go/internal/models"

	"github.com/shopspring/decimal"
)

// Sentinel errors shared across the storage layer and its callers.
var (
	ErrCustomerNotFound       = errors.New("customer not found")
	ErrDueNotFound            = errors.New("no due found for username")
	ErrInvalidAmount          = errors.New("amount must be positive")
	ErrDuplicateOrder         = errors.New("order already confirmed")
	ErrConcurrentModification = errors.New("concurrent modification detected")
	ErrInvalidCredentials     = errors.New("invalid username or old password")
)

// CreateCustomerParams contains the parameters for registering a customer.
// The username must already be unique; the password arrives pre-hashed.
type CreateCustomerParams struct {
	Name         string
	Email        string
	Phone        string
	Username     string
	PasswordHash string
}

// OrderParams captures a gateway order in the requested state.
type OrderParams struct {
	OrderId  string
	Username string
	Customer string
	Amount   decimal.Decimal
	Mode     string
}

// PaymentParams captures a confirmed payment to apply to the ledger.
// OrderId is empty for offline payments.
type PaymentParams struct {
	Username string
	Customer string
	Amount   decimal.Decimal
	OrderId  string
	Mode     string
}

// DuesStore defines the contract the SQLite backend satisfies.
type DuesStore interface {
	// --- Customers ---
	CreateCustomer(ctx context.Context, params CreateCustomerParams) (*models.Customer, error)
	GetCustomerByUsername(ctx context.Context, username string) (*models.Customer, error)
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)
	ListCustomers(ctx context.Context) ([]models.Customer, error)
	UsernameExists(ctx context.Context, username string) (bool, error)
	VerifyPassword(ctx context.Context, username, password string) (bool, error)
	UpdatePassword(ctx context.Context, username, passwordHash string) error

	// --- Dues ledger ---
	GetDue(ctx context.Context, username string) (*models.Due, error)
	ListDues(ctx context.Context) ([]models.Due, error)
	SetDue(ctx context.Context, username string, amount decimal.Decimal) error

	// --- Payments ---
	ApplyPayment(ctx context.Context, params PaymentParams) (*models.Payment, decimal.Decimal, error)
	ListPayments(ctx context.Context, limit, offset int) ([]models.Payment, error)
	RecordOrder(ctx context.Context, params OrderParams) error
	GetOrder(ctx context.Context, orderId string) (*models.Order, error)

	// --- Audit ---
	RecordAudit(ctx context.Context, action, details string) error
	ListAudit(ctx context.Context, limit int) ([]models.AuditEntry, error)

	// --- Interchange ---
	ExportCsv(ctx context.Context, dir string) error
	ImportCsv(ctx context.Context, dir string) error

	// --- Lifecycle ---
	Close()
}
