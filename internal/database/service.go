package database

import (
	"context"
	"database/sql"
	"fmt"

	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/store"

	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
)

// Compile-time check: *Service must satisfy store.DuesStore.
var _ store.DuesStore = (*Service)(nil)

type Service struct {
	db *sql.DB
}

func NewService(ctx context.Context, cfg models.DatabaseConfig) (*Service, error) {
	// Validate configuration
	if cfg.Path == "" {
		return nil, fmt.Errorf("database path cannot be empty")
	}
	if cfg.MaxOpenConns <= 0 {
		return nil, fmt.Errorf("max open connections must be positive, got %d", cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns < 0 {
		return nil, fmt.Errorf("max idle connections cannot be negative, got %d", cfg.MaxIdleConns)
	}
	if cfg.PingTimeout <= 0 {
		return nil, fmt.Errorf("ping timeout must be positive, got %v", cfg.PingTimeout)
	}

	zap.L().Info("Opening SQLite database", zap.String("file", cfg.Path))
	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("unable to open database: %w", err)
	}

	// Set connection timeouts and limits
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)
	db.SetConnMaxIdleTime(cfg.ConnMaxIdleTime)

	// Test connection with timeout
	pingCtx, cancel := context.WithTimeout(ctx, cfg.PingTimeout)
	defer cancel()
	if err := db.PingContext(pingCtx); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to ping database: %w", err)
	}

	service := &Service{db: db}
	if err := service.initSchema(); err != nil {
		if cerr := db.Close(); cerr != nil {
			return nil, cerr
		}
		return nil, fmt.Errorf("unable to initialize schema: %w", err)
	}

	zap.L().Info("Database service initialized successfully")
	return service, nil
}

func (s *Service) Close() {
	if err := s.db.Close(); err != nil {
		zap.L().Warn("Failed to close database connection", zap.Error(err))
	}
}

func (s *Service) initSchema() error {
	schema := `
	-- Customer accounts. Usernames are unique case-insensitively.
	CREATE TABLE IF NOT EXISTS customers (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL DEFAULT '',
		phone TEXT NOT NULL DEFAULT '',
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		password_hash TEXT NOT NULL,
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_customers_email ON customers(email);

	-- Dues ledger (current state - hot data). One row per username,
	-- balance never below zero, guarded by an optimistic version.
	CREATE TABLE IF NOT EXISTS dues (
		id TEXT PRIMARY KEY,
		username TEXT NOT NULL UNIQUE COLLATE NOCASE,
		customer TEXT NOT NULL,
		balance TEXT NOT NULL DEFAULT '0.00',
		version INTEGER NOT NULL DEFAULT 1,
		updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
	);

	-- Gateway orders: requested -> confirmed.
	CREATE TABLE IF NOT EXISTS orders (
		order_id TEXT PRIMARY KEY,
		username TEXT NOT NULL,
		customer TEXT NOT NULL,
		amount TEXT NOT NULL,
		mode TEXT NOT NULL,
		status TEXT NOT NULL DEFAULT 'requested',
		created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
		confirmed_at TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_orders_username ON orders(username);
	CREATE INDEX IF NOT EXISTS idx_orders_status ON orders(status);

	-- Completed payments (audit trail - cold data). Append-only.
	CREATE TABLE IF NOT EXISTS payments (
		id TEXT PRIMARY KEY,
		date TIMESTAMP NOT NULL,
		username TEXT NOT NULL,
		customer TEXT NOT NULL,
		amount TEXT NOT NULL,
		order_id TEXT NOT NULL DEFAULT '',
		status TEXT NOT NULL DEFAULT 'Success',
		mode TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_payments_username ON payments(username);
	CREATE INDEX IF NOT EXISTS idx_payments_date ON payments(date);
	-- Non-empty order ids are unique: confirming an order twice is refused.
	CREATE UNIQUE INDEX IF NOT EXISTS idx_payments_order_id ON payments(order_id) WHERE order_id != '';

	-- Append-only action log, write-only for the request paths.
	CREATE TABLE IF NOT EXISTS audit_log (
		id TEXT PRIMARY KEY,
		timestamp TIMESTAMP NOT NULL,
		action TEXT NOT NULL,
		details TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_audit_log_timestamp ON audit_log(timestamp);
	CREATE INDEX IF NOT EXISTS idx_audit_log_action ON audit_log(action);
	`

	_, err := s.db.Exec(schema)
	return err
}
