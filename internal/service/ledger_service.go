package service

import (
	"context"
	"fmt"

	"github.com/tirasundara/payment-ledger/internal/domain"
	"github.com/tirasundara/payment-ledger/internal/ledger"
	"go.uber.org/zap"
)

// Options controls how LedgerService reads and folds the feed
type Options struct {
	Policy              ledger.DisputePolicy
	Workers             int  // 1 folds sequentially, more partitions the feed by client
	ConcurrentIngestion bool // Parse the feed with GetTransactionsConcurrently
}

// LedgerService orchestrates the ledger run
type LedgerService struct {
	repo    domain.TransactionRepository
	options Options
	logger  *zap.Logger
}

// NewLedgerService creates a new LedgerService
func NewLedgerService(repo domain.TransactionRepository, options Options, logger *zap.Logger) *LedgerService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if options.Policy == nil {
		options.Policy = ledger.NewStrictDisputes()
	}
	if options.Workers < 1 {
		options.Workers = 1
	}

	return &LedgerService{
		repo:    repo,
		options: options,
		logger:  logger,
	}
}

// Run reads the feed and folds it into final account states.
// Only ingestion errors are returned; dropped transactions are reported in the stats.
func (s *LedgerService) Run(ctx context.Context) (domain.LedgerResult, error) {
	txns, err := s.loadTransactions()
	if err != nil {
		return domain.LedgerResult{}, fmt.Errorf("fetching transactions: %w", err)
	}

	s.logger.Info("processing transactions",
		zap.Int("transactions", len(txns)),
		zap.String("policy", s.options.Policy.Name()),
		zap.Int("workers", s.options.Workers),
	)

	opts := []ledger.Option{
		ledger.WithDisputePolicy(s.options.Policy),
		ledger.WithLogger(s.logger),
	}

	var accounts domain.Accounts
	var stats domain.LedgerStats
	if s.options.Workers > 1 {
		accounts, stats, err = ledger.ProcessConcurrently(ctx, txns, s.options.Workers, opts...)
		if err != nil {
			return domain.LedgerResult{}, fmt.Errorf("processing transactions: %w", err)
		}
	} else {
		l := ledger.New(opts...)
		for _, tx := range txns {
			_ = l.Apply(tx)
		}
		accounts, stats = l.Accounts(), l.Stats()
	}

	s.logger.Info("transactions processed",
		zap.Int("accounts", len(accounts)),
		zap.Int("applied", stats.Applied),
		zap.Int("dropped", stats.TotalDropped()),
	)

	result := domain.LedgerResult{
		TotalTxnsProcessed: len(txns),
		Accounts:           accounts.Snapshots(),
		Stats:              stats,
	}

	return result, nil
}

func (s *LedgerService) loadTransactions() ([]domain.Transaction, error) {
	if s.options.ConcurrentIngestion {
		return s.repo.GetTransactionsConcurrently()
	}
	return s.repo.GetTransactions()
}
