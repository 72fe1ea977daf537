package main

import (
	"context"
	"flag"
	"fmt"

	"dues-tracker-go/internal/common"
	"dues-tracker-go/internal/config"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	usernameFlag := flag.String("username", "", "Limit the report to one customer")
	paymentsFlag := flag.Int("payments", 20, "Number of recent payments to show")
	auditFlag := flag.Int("audit", 0, "Number of recent audit entries to show")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		zap.L().Fatal("Failed to load config", zap.Error(err))
	}

	services, err := common.InitializeServices(ctx, cfg)
	if err != nil {
		zap.L().Fatal("Failed to initialize services", zap.Error(err))
	}
	defer services.Close()

	common.PrintHeader("OUTSTANDING DUES", common.DefaultWidth)

	if *usernameFlag != "" {
		due, err := services.Dues.GetDue(ctx, *usernameFlag)
		if err != nil {
			zap.L().Fatal("Failed to get due", zap.String("username", *usernameFlag), zap.Error(err))
		}
		fmt.Printf("%-24s %-32s %12s\n", due.Username, due.Customer, due.Balance.StringFixed(2))
	} else {
		dues, err := services.Dues.ListDues(ctx)
		if err != nil {
			zap.L().Fatal("Failed to list dues", zap.Error(err))
		}
		total := decimal.Zero
		for i, due := range dues {
			prefix := common.BoxPrefix(i == len(dues)-1)
			fmt.Printf("%s%-24s %-32s %12s\n", prefix, due.Username, due.Customer, due.Balance.StringFixed(2))
			total = total.Add(due.Balance)
		}
		fmt.Printf("\nCustomers: %d    Total outstanding: %s\n", len(dues), total.StringFixed(2))
	}

	if *paymentsFlag > 0 {
		payments, err := services.Dues.ListPayments(ctx, *paymentsFlag, 0)
		if err != nil {
			zap.L().Fatal("Failed to list payments", zap.Error(err))
		}

		common.PrintHeader("RECENT PAYMENTS", common.DefaultWidth)
		for i, p := range payments {
			prefix := common.BoxPrefix(i == len(payments)-1)
			orderId := p.OrderId
			if orderId == "" {
				orderId = "-"
			}
			fmt.Printf("%s%s  %-18s %10s  %-8s %s\n",
				prefix, p.Date.Format("2006-01-02 15:04:05"), p.Username, p.Amount.StringFixed(2), p.Mode, orderId)
		}
		if len(payments) == 0 {
			fmt.Println("No payments recorded")
		}
	}

	if *auditFlag > 0 {
		entries, err := services.Store.ListAudit(ctx, *auditFlag)
		if err != nil {
			zap.L().Fatal("Failed to list audit entries", zap.Error(err))
		}

		common.PrintHeader("AUDIT LOG", common.DefaultWidth)
		for i, e := range entries {
			prefix := common.BoxPrefix(i == len(entries)-1)
			fmt.Printf("%s%s  %-18s %s\n", prefix, e.Timestamp.Format("2006-01-02 15:04:05"), e.Action, e.Details)
		}
	}

	common.PrintFooter("Report complete", common.DefaultWidth)
}
