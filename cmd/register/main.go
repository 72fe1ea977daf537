package main

import (
	"context"
	"flag"
	"fmt"
	"regexp"

	"dues-tracker-go/internal/common"
	"dues-tracker-go/internal/config"

	"go.uber.org/zap"
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

func validateEmail(email string) error {
	if email == "" {
		return nil // email is optional; credentials just won't be mailed
	}
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	return nil
}

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	nameFlag := flag.String("name", "", "Customer's full name (required)")
	emailFlag := flag.String("email", "", "Customer's email address")
	phoneFlag := flag.String("phone", "", "Customer's phone number")
	flag.Parse()

	if *nameFlag == "" {
		zap.L().Fatal("Flag --name is required")
	}
	if err := validateEmail(*emailFlag); err != nil {
		zap.L().Fatal("Invalid email", zap.Error(err))
	}

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	username, password, err := services.Dues.CreateAccount(ctx, *nameFlag, *emailFlag, *phoneFlag)
	if err != nil {
		zap.L().Fatal("Failed to create account", zap.Error(err))
	}

	common.PrintHeader("CUSTOMER REGISTERED", common.DefaultWidth)
	fmt.Printf("Name:     %s\n", *nameFlag)
	fmt.Printf("Username: %s\n", username)
	fmt.Printf("Password: %s\n", password)
	common.PrintSeparator("=", common.DefaultWidth)
	fmt.Println()
	fmt.Println("The password is shown once; only a hash is stored.")

	zap.L().Info("Customer registered", zap.String("username", username))
}
