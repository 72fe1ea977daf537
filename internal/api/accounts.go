package api

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"regexp"
	"strings"

	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/notify"
	"dues-tracker-go/internal/store"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const passwordLength = 10

const passwordAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9]`)

// CreateAccount registers a customer: generates a unique username and a
// random password, persists the account with a zero due, and emails the
// credentials best-effort. The plaintext password is returned exactly once.
func (s *DuesService) CreateAccount(ctx context.Context, name, email, phone string) (string, string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", fmt.Errorf("%w: name is required", ErrValidation)
	}
	email = strings.TrimSpace(email)
	phone = strings.TrimSpace(phone)

	username, err := s.uniqueUsername(ctx, name)
	if err != nil {
		return "", "", err
	}

	password, err := generatePassword(passwordLength)
	if err != nil {
		return "", "", fmt.Errorf("unable to generate password: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", "", fmt.Errorf("unable to hash password: %w", err)
	}

	_, err = s.store.CreateCustomer(ctx, store.CreateCustomerParams{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Username:     username,
		PasswordHash: string(hash),
	})
	if err != nil {
		return "", "", err
	}

	// Best effort: a failed send never fails the registration.
	if email != "" {
		if ok := s.mailer.Send(email, "Your Account Details", notify.CredentialsBody(name, username, password)); !ok {
			zap.L().Warn("Credentials email not delivered",
				zap.String("username", username),
				zap.String("email", email))
		}
	}

	return username, password, nil
}

// ChangePassword replaces the stored hash when the old password verifies.
func (s *DuesService) ChangePassword(ctx context.Context, username, oldPassword, newPassword string) error {
	username = strings.TrimSpace(username)
	if username == "" || oldPassword == "" || newPassword == "" {
		return fmt.Errorf("%w: username, old_password and new_password are required", ErrValidation)
	}

	ok, err := s.store.VerifyPassword(ctx, username, oldPassword)
	if err != nil {
		return err
	}
	if !ok {
		return store.ErrInvalidCredentials
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(newPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("unable to hash password: %w", err)
	}
	return s.store.UpdatePassword(ctx, username, string(hash))
}

// GetDue returns the customer-facing view of an outstanding balance.
func (s *DuesService) GetDue(ctx context.Context, username string) (*models.Due, error) {
	return s.store.GetDue(ctx, username)
}

// SeedCustomers registers customers from the optional seed file, skipping
// entries whose email or derived username already exists. Safe to run on
// every startup.
func (s *DuesService) SeedCustomers(ctx context.Context, seeds []models.SeedCustomer) error {
	for _, seed := range seeds {
		if seed.Email != "" {
			if _, err := s.store.GetCustomerByEmail(ctx, seed.Email); err == nil {
				continue
			} else if err != store.ErrCustomerNotFound {
				return err
			}
		} else {
			exists, err := s.store.UsernameExists(ctx, cleanUsername(seed.Name))
			if err != nil {
				return err
			}
			if exists {
				continue
			}
		}

		username, _, err := s.CreateAccount(ctx, seed.Name, seed.Email, seed.Phone)
		if err != nil {
			zap.L().Error("Failed to seed customer", zap.String("name", seed.Name), zap.Error(err))
			continue
		}
		zap.L().Info("Seed customer created", zap.String("username", username), zap.String("name", seed.Name))
	}
	return nil
}

// uniqueUsername derives a username from the display name and appends an
// increasing integer suffix until it no longer collides, case-insensitively.
func (s *DuesService) uniqueUsername(ctx context.Context, name string) (string, error) {
	base := cleanUsername(name)
	username := base
	for i := 1; ; i++ {
		exists, err := s.store.UsernameExists(ctx, username)
		if err != nil {
			return "", err
		}
		if !exists {
			return username, nil
		}
		username = fmt.Sprintf("%s%d", base, i)
	}
}

func cleanUsername(name string) string {
	base := strings.ToLower(nonAlphanumeric.ReplaceAllString(name, ""))
	if base == "" {
		return "user"
	}
	return base
}

func generatePassword(length int) (string, error) {
	max := big.NewInt(int64(len(passwordAlphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = passwordAlphabet[n.Int64()]
	}
	return string(b), nil
}
