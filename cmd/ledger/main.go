package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/tirasundara/payment-ledger/internal/config"
	"github.com/tirasundara/payment-ledger/internal/ledger"
	"github.com/tirasundara/payment-ledger/internal/logging"
	"github.com/tirasundara/payment-ledger/internal/report"
	"github.com/tirasundara/payment-ledger/internal/repository"
	"github.com/tirasundara/payment-ledger/internal/service"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load(os.Args[1:], config.DefaultEnvFile, os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		exitWithError(err.Error())
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogEncoding)
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to initialize logger: %v", err))
	}
	defer func() { _ = logger.Sync() }()

	policy, err := ledger.ParseDisputePolicy(cfg.DisputePolicy)
	if err != nil {
		exitWithError(err.Error())
	}

	formatter, err := report.NewFormatter(cfg.Format, cfg.PrettyPrint)
	if err != nil {
		exitWithError(err.Error())
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Create transaction repository
	repo := repository.NewCSVTransactionRepository(cfg.InputFile, logger)
	if cfg.Workers > 1 {
		repo.NumWorkers = cfg.Workers
	}

	// Create ledger service
	ledgerService := service.NewLedgerService(repo, service.Options{
		Policy:              policy,
		Workers:             cfg.Workers,
		ConcurrentIngestion: cfg.ConcurrentIngestion,
	}, logger)

	// Run the ledger
	result, err := ledgerService.Run(ctx)
	if err != nil {
		logger.Error("ledger run failed", zap.Error(err))
		exitWithError(fmt.Sprintf("Ledger run failed: %v", err))
	}

	// Format the output
	output, err := formatter.Format(result.Accounts)
	if err != nil {
		exitWithError(fmt.Sprintf("Failed to format output: %v", err))
	}

	// Output the result
	if cfg.OutputFile != "" {
		outputFile := cfg.OutputFile

		// If no extension is provided, add the formatter's default extension
		if filepath.Ext(outputFile) == "" {
			outputFile = fmt.Sprintf("%s.%s", outputFile, formatter.FileExtension())
		}

		if err := os.WriteFile(outputFile, output, 0644); err != nil {
			exitWithError(fmt.Sprintf("Failed to write output file: %v", err))
		}

		logger.Info("accounts written", zap.String("file", outputFile), zap.Int("accounts", len(result.Accounts)))
		return
	}

	// Write output to stdout
	if _, err := os.Stdout.Write(output); err != nil {
		exitWithError(fmt.Sprintf("Failed to write output: %v", err))
	}
}

func exitWithError(message string) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", message)
	fmt.Fprintf(os.Stderr, "Run with -h flag for usage information.\n")
	os.Exit(1)
}
