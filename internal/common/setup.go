package common

import (
	"context"
	"log"
	"strings"

	"dues-tracker-go/internal/api"
	"dues-tracker-go/internal/database"
	"dues-tracker-go/internal/gateway"
	"dues-tracker-go/internal/models"
	"dues-tracker-go/internal/notify"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// init loads environment variables from .env file if it exists
func init() {
	// Environment variables can be set via other means (shell export,
	// docker, etc.), so a missing .env is not an error.
	if err := godotenv.Load(); err != nil {
		log.Printf("Note: No .env file found or unable to load it: %v\n", err)
	} else {
		log.Println("Loaded environment variables from .env file")
	}
}

type Services struct {
	Store *database.Service
	Dues  *api.DuesService
}

func (s *Services) Close() {
	s.Store.Close()
}

func InitializeLogger() (*zap.Logger, func()) {
	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	zap.ReplaceGlobals(logger)

	cleanup := func() {
		if err := logger.Sync(); err != nil {
			if !isIgnorableSyncError(err) {
				log.Printf("Failed to sync logger: %v\n", err)
			}
		}
	}

	return logger, cleanup
}

// Sync on stderr fails with EINVAL/EBADF on some platforms; not worth noise.
func isIgnorableSyncError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "invalid argument") ||
		strings.Contains(msg, "inappropriate ioctl") ||
		strings.Contains(msg, "bad file descriptor")
}

func InitializeServices(ctx context.Context, cfg *models.Config) (*Services, error) {
	dbService, err := database.NewService(ctx, cfg.Database)
	if err != nil {
		return nil, err
	}

	duesService := api.NewDuesService(dbService, gateway.NewService(), notify.NewEmailSender(cfg.Smtp))

	if cfg.Server.SeedFile != "" {
		seeds, err := LoadSeedCustomers(cfg.Server.SeedFile)
		if err != nil {
			dbService.Close()
			return nil, err
		}
		zap.L().Info("Registering seed customers", zap.Int("count", len(seeds)), zap.String("file", cfg.Server.SeedFile))
		if err := duesService.SeedCustomers(ctx, seeds); err != nil {
			dbService.Close()
			return nil, err
		}
	}

	return &Services{
		Store: dbService,
		Dues:  duesService,
	}, nil
}
