package common

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadSeedCustomers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.yaml")
	content := `customers:
  - name: Asha Rao
    email: asha@example.com
    phone: "9999999999"
  - name: Ben Kim
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}

	seeds, err := LoadSeedCustomers(path)
	if err != nil {
		t.Fatalf("LoadSeedCustomers failed: %v", err)
	}
	if len(seeds) != 2 {
		t.Fatalf("Expected 2 seed customers, got %d", len(seeds))
	}
	if seeds[0].Name != "Asha Rao" || seeds[0].Email != "asha@example.com" || seeds[0].Phone != "9999999999" {
		t.Errorf("Unexpected first seed: %+v", seeds[0])
	}
	if seeds[1].Name != "Ben Kim" || seeds[1].Email != "" {
		t.Errorf("Unexpected second seed: %+v", seeds[1])
	}
}

func TestLoadSeedCustomers_MissingName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "customers.yaml")
	content := `customers:
  - email: nameless@example.com
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write seed file: %v", err)
	}

	if _, err := LoadSeedCustomers(path); err == nil {
		t.Error("Expected error for seed customer without name")
	}
}

func TestLoadSeedCustomers_MissingFile(t *testing.T) {
	if _, err := LoadSeedCustomers(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
		t.Error("Expected error for missing seed file")
	}
}
