package models

import "time"

// Config represents the application configuration
type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Smtp     SmtpConfig
}

// DatabaseConfig holds database connection settings
type DatabaseConfig struct {
	Path            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnMaxIdleTime time.Duration
	PingTimeout     time.Duration
}

// ServerConfig holds HTTP API settings
type ServerConfig struct {
	Port            string
	ShutdownTimeout time.Duration
	SeedFile        string // optional customers.yaml registered at startup
}

// SmtpConfig holds best-effort email settings.
// The sender is a no-op when Username/Password are unset.
type SmtpConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

// SeedCustomer is one entry of the optional seed file
type SeedCustomer struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
	Phone string `yaml:"phone"`
}
