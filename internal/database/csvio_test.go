package database

import (
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"dues-tracker-go/internal/store"

	"github.com/shopspring/decimal"
)

func readAllCsv(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open %s: %v", path, err)
	}
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatalf("Failed to read %s: %v", path, err)
	}
	return records
}

func TestExportImportRoundTrip(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	ctx := context.Background()
	mustCreateCustomer(t, service, "Asha Rao", "asharao")
	if err := service.SetDue(ctx, "asharao", decimal.NewFromInt(500)); err != nil {
		t.Fatalf("SetDue failed: %v", err)
	}
	_, _, err := service.ApplyPayment(ctx, store.PaymentParams{
		Username: "asharao",
		Amount:   decimal.NewFromInt(200),
		OrderId:  "order_rt",
		Mode:     "test",
	})
	if err != nil {
		t.Fatalf("ApplyPayment failed: %v", err)
	}

	dir := t.TempDir()
	if err := service.ExportCsv(ctx, dir); err != nil {
		t.Fatalf("ExportCsv failed: %v", err)
	}

	dueRecords := readAllCsv(t, filepath.Join(dir, "dues.csv"))
	if len(dueRecords) != 2 {
		t.Fatalf("Expected header + 1 due row, got %d records", len(dueRecords))
	}
	if got := dueRecords[0]; got[0] != "username" || got[1] != "customer" || got[2] != "due" {
		t.Errorf("Unexpected dues header: %v", got)
	}
	if got := dueRecords[1]; got[0] != "asharao" || got[2] != "300.00" {
		t.Errorf("Unexpected dues row: %v", got)
	}

	txRecords := readAllCsv(t, filepath.Join(dir, "transactions.csv"))
	if len(txRecords) != 2 {
		t.Fatalf("Expected header + 1 transaction row, got %d records", len(txRecords))
	}
	if got := txRecords[1]; got[3] != "200.00" || got[4] != "order_rt" || got[5] != "Success" {
		t.Errorf("Unexpected transaction row: %v", got)
	}

	// Load the export into a fresh store.
	fresh, freshCleanup := setupTestDb(t)
	defer freshCleanup()

	if err := fresh.ImportCsv(ctx, dir); err != nil {
		t.Fatalf("ImportCsv failed: %v", err)
	}

	customer, err := fresh.GetCustomerByUsername(ctx, "asharao")
	if err != nil {
		t.Fatalf("GetCustomerByUsername failed: %v", err)
	}
	if customer.Name != "Asha Rao" {
		t.Errorf("Expected name Asha Rao, got %s", customer.Name)
	}

	// The hash survives untouched, so the original password still works.
	ok, err := fresh.VerifyPassword(ctx, "asharao", "initial-pw")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("Expected imported hash to verify the original password")
	}

	due, err := fresh.GetDue(ctx, "asharao")
	if err != nil {
		t.Fatalf("GetDue failed: %v", err)
	}
	if due.Balance.StringFixed(2) != "300.00" {
		t.Errorf("Expected imported balance 300.00, got %s", due.Balance.StringFixed(2))
	}

	payments, err := fresh.ListPayments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("Expected 1 imported payment, got %d", len(payments))
	}

	// Importing the same directory again is a no-op.
	if err := fresh.ImportCsv(ctx, dir); err != nil {
		t.Fatalf("Second ImportCsv failed: %v", err)
	}
	customers, err := fresh.ListCustomers(ctx)
	if err != nil {
		t.Fatalf("ListCustomers failed: %v", err)
	}
	if len(customers) != 1 {
		t.Errorf("Expected re-import to skip existing customers, got %d", len(customers))
	}
	payments, err = fresh.ListPayments(ctx, 10, 0)
	if err != nil {
		t.Fatalf("ListPayments failed: %v", err)
	}
	if len(payments) != 1 {
		t.Errorf("Expected re-import to skip seen order ids, got %d payments", len(payments))
	}
}

func TestImportCsv_HashesPlaintextPasswords(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	dir := t.TempDir()
	legacy := "name,email,phone,username,password\n" +
		"Asha Rao,asha@example.com,9999999999,asharao,plain-secret\n"
	if err := os.WriteFile(filepath.Join(dir, "customers.csv"), []byte(legacy), 0o644); err != nil {
		t.Fatalf("Failed to write legacy export: %v", err)
	}

	ctx := context.Background()
	if err := service.ImportCsv(ctx, dir); err != nil {
		t.Fatalf("ImportCsv failed: %v", err)
	}

	customer, err := service.GetCustomerByUsername(ctx, "asharao")
	if err != nil {
		t.Fatalf("GetCustomerByUsername failed: %v", err)
	}
	if customer.PasswordHash == "plain-secret" {
		t.Fatal("Expected plaintext password to be hashed on import")
	}

	ok, err := service.VerifyPassword(ctx, "asharao", "plain-secret")
	if err != nil {
		t.Fatalf("VerifyPassword failed: %v", err)
	}
	if !ok {
		t.Error("Expected hashed import to verify the legacy password")
	}
}

func TestImportCsv_MissingFilesSkipped(t *testing.T) {
	service, cleanup := setupTestDb(t)
	defer cleanup()

	if err := service.ImportCsv(context.Background(), t.TempDir()); err != nil {
		t.Fatalf("Expected empty directory import to succeed, got %v", err)
	}
}
