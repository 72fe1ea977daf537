package common

import (
	"fmt"
	"os"
	"path/filepath"

	"dues-tracker-go/internal/models"

	"gopkg.in/yaml.v2"
)

type seedFile struct {
	Customers []models.SeedCustomer `yaml:"customers"`
}

// LoadSeedCustomers reads the optional customers.yaml used to pre-register
// accounts at startup.
func LoadSeedCustomers(file string) ([]models.SeedCustomer, error) {
	var path string
	if filepath.IsAbs(file) {
		path = file
	} else {
		wd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get working directory: %w", err)
		}
		path = filepath.Join(wd, file)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", file, err)
	}

	var parsed seedFile
	if err := yaml.Unmarshal(data, &parsed); err != nil {
		return nil, fmt.Errorf("unable to parse %s: %w", file, err)
	}

	for i, c := range parsed.Customers {
		if c.Name == "" {
			return nil, fmt.Errorf("seed customer at index %d missing name", i)
		}
	}

	return parsed.Customers, nil
}
