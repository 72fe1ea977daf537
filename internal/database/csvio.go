package database

import (
	"context"
	"database/sql"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"dues-tracker-go/internal/store"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Flat-file interchange. Column order is the wire contract; balances and
// amounts are serialized with two decimal places.
const (
	customersCsv    = "customers.csv"
	duesCsv         = "dues.csv"
	transactionsCsv = "transactions.csv"
	logsCsv         = "logs.csv"

	csvTimeLayout = "2006-01-02 15:04:05"
)

var (
	customerHeaders    = []string{"name", "email", "phone", "username", "password"}
	dueHeaders         = []string{"username", "customer", "due"}
	transactionHeaders = []string{"date", "username", "customer", "amount", "order_id", "status", "mode"}
	logHeaders         = []string{"timestamp", "action", "details"}
)

// ExportCsv writes all four tables as flat CSV files into dir.
// Each file is written to a temp path and renamed so a crash mid-export
// never leaves a truncated table behind.
func (s *Service) ExportCsv(ctx context.Context, dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("unable to create export directory: %w", err)
	}

	customers, err := s.ListCustomers(ctx)
	if err != nil {
		return err
	}
	customerRows := make([][]string, 0, len(customers))
	for _, c := range customers {
		customerRows = append(customerRows, []string{c.Name, c.Email, c.Phone, c.Username, c.PasswordHash})
	}
	if err := writeCsvFile(filepath.Join(dir, customersCsv), customerHeaders, customerRows); err != nil {
		return err
	}

	dues, err := s.ListDues(ctx)
	if err != nil {
		return err
	}
	dueRows := make([][]string, 0, len(dues))
	for _, d := range dues {
		dueRows = append(dueRows, []string{d.Username, d.Customer, d.Balance.StringFixed(2)})
	}
	if err := writeCsvFile(filepath.Join(dir, duesCsv), dueHeaders, dueRows); err != nil {
		return err
	}

	payments, err := s.listPaymentsAsc(ctx)
	if err != nil {
		return err
	}
	paymentRows := make([][]string, 0, len(payments))
	for _, p := range payments {
		paymentRows = append(paymentRows, []string{
			p.Date.Format(csvTimeLayout), p.Username, p.Customer,
			p.Amount.StringFixed(2), p.OrderId, p.Status, p.Mode,
		})
	}
	if err := writeCsvFile(filepath.Join(dir, transactionsCsv), transactionHeaders, paymentRows); err != nil {
		return err
	}

	entries, err := s.listAuditAsc(ctx)
	if err != nil {
		return err
	}
	logRows := make([][]string, 0, len(entries))
	for _, e := range entries {
		logRows = append(logRows, []string{e.Timestamp.Format(csvTimeLayout), e.Action, e.Details})
	}
	if err := writeCsvFile(filepath.Join(dir, logsCsv), logHeaders, logRows); err != nil {
		return err
	}

	zap.L().Info("Exported flat tables",
		zap.String("dir", dir),
		zap.Int("customers", len(customerRows)),
		zap.Int("dues", len(dueRows)),
		zap.Int("transactions", len(paymentRows)),
		zap.Int("logs", len(logRows)))
	return nil
}

// ImportCsv loads flat CSV tables from dir. Missing files are skipped.
// Plaintext passwords from legacy exports are hashed on the way in;
// existing usernames and already-seen order ids are left untouched.
func (s *Service) ImportCsv(ctx context.Context, dir string) error {
	if rows, err := readCsvFile(filepath.Join(dir, customersCsv), len(customerHeaders)); err != nil {
		return err
	} else if rows != nil {
		if err := s.importCustomers(ctx, rows); err != nil {
			return err
		}
	}

	if rows, err := readCsvFile(filepath.Join(dir, duesCsv), len(dueHeaders)); err != nil {
		return err
	} else if rows != nil {
		if err := s.importDues(ctx, rows); err != nil {
			return err
		}
	}

	if rows, err := readCsvFile(filepath.Join(dir, transactionsCsv), len(transactionHeaders)); err != nil {
		return err
	} else if rows != nil {
		if err := s.importPayments(ctx, rows); err != nil {
			return err
		}
	}

	zap.L().Info("Imported flat tables", zap.String("dir", dir))
	return nil
}

func (s *Service) importCustomers(ctx context.Context, rows [][]string) error {
	for _, row := range rows {
		name, email, phone, username, password := row[0], row[1], row[2], row[3], row[4]
		exists, err := s.UsernameExists(ctx, username)
		if err != nil {
			return err
		}
		if exists {
			continue
		}

		hash := password
		if !strings.HasPrefix(password, "$2") {
			// Legacy plaintext export; never store it as-is.
			hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				return fmt.Errorf("unable to hash imported password for %s: %w", username, err)
			}
			hash = string(hashed)
		}

		_, err = s.CreateCustomer(ctx, store.CreateCustomerParams{
			Name:         name,
			Email:        email,
			Phone:        phone,
			Username:     username,
			PasswordHash: hash,
		})
		if err != nil {
			return fmt.Errorf("unable to import customer %s: %w", username, err)
		}
	}
	return nil
}

func (s *Service) importDues(ctx context.Context, rows [][]string) error {
	for _, row := range rows {
		username, balanceStr := row[0], row[2]
		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return fmt.Errorf("invalid due %q for %s: %w", balanceStr, username, err)
		}
		if err := s.SetDue(ctx, username, balance); err != nil {
			return fmt.Errorf("unable to import due for %s: %w", username, err)
		}
	}
	return nil
}

func (s *Service) importPayments(ctx context.Context, rows [][]string) error {
	for _, row := range rows {
		dateStr, username, customer, amountStr, orderId, status, mode :=
			row[0], row[1], row[2], row[3], row[4], row[5], row[6]

		if orderId != "" {
			var existingId string
			err := s.db.QueryRowContext(ctx, queryCheckDuplicateOrder, orderId).Scan(&existingId)
			if err == nil {
				continue
			}
			if err != sql.ErrNoRows {
				return fmt.Errorf("failed to check for duplicate order: %w", err)
			}
		}

		date, err := time.Parse(csvTimeLayout, dateStr)
		if err != nil {
			return fmt.Errorf("invalid date %q: %w", dateStr, err)
		}
		amount, err := decimal.NewFromString(amountStr)
		if err != nil {
			return fmt.Errorf("invalid amount %q: %w", amountStr, err)
		}

		_, err = s.db.ExecContext(ctx, queryInsertPayment,
			uuid.New().String(), date, username, customer, amount.StringFixed(2), orderId, status, mode)
		if err != nil {
			return fmt.Errorf("unable to import payment for %s: %w", username, err)
		}
	}
	return nil
}

func writeCsvFile(path string, headers []string, rows [][]string) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp")
	if err != nil {
		return fmt.Errorf("unable to create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	w := csv.NewWriter(tmp)
	if err := w.Write(headers); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write headers: %w", err)
	}
	if err := w.WriteAll(rows); err != nil {
		tmp.Close()
		return fmt.Errorf("unable to write rows: %w", err)
	}
	w.Flush()
	if err := w.Error(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}

// readCsvFile returns the data rows of a flat table, or nil if the file
// does not exist.
func readCsvFile(path string, wantColumns int) ([][]string, error) {
	f, err := os.Open(path)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	for i, row := range records[1:] {
		if len(row) != wantColumns {
			return nil, fmt.Errorf("%s row %d: expected %d columns, got %d", path, i+1, wantColumns, len(row))
		}
	}
	return records[1:], nil
}
