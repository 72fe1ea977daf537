package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Customer represents a registered customer account
type Customer struct {
	Id           string    `db:"id"`
	Name         string    `db:"name"`
	Email        string    `db:"email"`
	Phone        string    `db:"phone"`
	Username     string    `db:"username"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// Due represents the current outstanding balance for a customer (hot data)
type Due struct {
	Id        string          `db:"id"`
	Username  string          `db:"username"`
	Customer  string          `db:"customer"`
	Balance   decimal.Decimal `db:"balance"`
	Version   int64           `db:"version"`
	UpdatedAt time.Time       `db:"updated_at"`
}

// Order tracks a payment intent created with the gateway.
// Status moves requested -> confirmed; there is no persisted failed state.
type Order struct {
	OrderId     string          `db:"order_id"`
	Username    string          `db:"username"`
	Customer    string          `db:"customer"`
	Amount      decimal.Decimal `db:"amount"`
	Mode        string          `db:"mode"`
	Status      string          `db:"status"`
	CreatedAt   time.Time       `db:"created_at"`
	ConfirmedAt *time.Time      `db:"confirmed_at"`
}

// Payment represents an immutable completed-payment record (cold data)
type Payment struct {
	Id       string          `db:"id"`
	Date     time.Time       `db:"date"`
	Username string          `db:"username"`
	Customer string          `db:"customer"`
	Amount   decimal.Decimal `db:"amount"`
	OrderId  string          `db:"order_id"` // empty for offline payments
	Status   string          `db:"status"`
	Mode     string          `db:"mode"` // "test", "live" or "offline"
}

// AuditEntry is a free-text, append-only record of an operator-visible action
type AuditEntry struct {
	Id        string    `db:"id"`
	Timestamp time.Time `db:"timestamp"`
	Action    string    `db:"action"`
	Details   string    `db:"details"`
}

// Order status values
const (
	OrderStatusRequested = "requested"
	OrderStatusConfirmed = "confirmed"
)

// Payment modes
const (
	ModeTest    = "test"
	ModeLive    = "live"
	ModeOffline = "offline"
)
