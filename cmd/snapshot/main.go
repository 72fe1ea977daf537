package main

import (
	"context"
	"flag"

	"dues-tracker-go/internal/common"
	"dues-tracker-go/internal/config"

	"go.uber.org/zap"
)

// snapshot moves data between the SQLite store and the flat CSV tables
// (customers.csv, dues.csv, transactions.csv, logs.csv). The CSV layout is
// the interchange contract with the previous generation of this tool.
func main() {
	ctx := context.Background()

	_, loggerCleanup := common.InitializeLogger()
	defer loggerCleanup()

	exportFlag := flag.String("export", "", "Directory to export flat CSV tables into")
	importFlag := flag.String("import", "", "Directory to import flat CSV tables from")
	flag.Parse()

	if (*exportFlag == "") == (*importFlag == "") {
		zap.L().Fatal("Exactly one of --export or --import is required")
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

	if *exportFlag != "" {
		if err := services.Store.ExportCsv(ctx, *exportFlag); err != nil {
			zap.L().Fatal("Export failed", zap.Error(err))
		}
		common.PrintFooter("Export complete: "+*exportFlag, common.DefaultWidth)
		return
	}

	if err := services.Store.ImportCsv(ctx, *importFlag); err != nil {
		zap.L().Fatal("Import failed", zap.Error(err))
	}
	common.PrintFooter("Import complete: "+*importFlag, common.DefaultWidth)
}
