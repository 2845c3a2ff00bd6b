package repository

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/alitto/pond/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/shopspring/decimal"
	"github.com/tirasundara/payment-ledger/internal/domain"
	"github.com/tirasundara/payment-ledger/pkg/fileutil"
	"go.uber.org/zap"
)

var transactionHeaderFields = []string{"type", "client", "tx", "amount"}

var (
	errMissingAmount  = errors.New("missing amount")
	errNegativeAmount = errors.New("negative amount")
)

// CSVTransactionRepository implements the TransactionRepository interface for CSV file(s)
type CSVTransactionRepository struct {
	FilePath   string
	NumWorkers int
	BatchSize  int

	logger *zap.Logger
}

// NewCSVTransactionRepository creates a new CSVTransactionRepository
func NewCSVTransactionRepository(fp string, logger *zap.Logger) *CSVTransactionRepository {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &CSVTransactionRepository{
		FilePath:   fp,
		NumWorkers: 4,    // Default to 4 workers
		BatchSize:  1000, // Default to 1000 records per batch
		logger:     logger,
	}
}

// GetTransactions reads the whole feed in order. Malformed rows are logged and skipped.
func (r *CSVTransactionRepository) GetTransactions() ([]domain.Transaction, error) {
	reader := fileutil.NewCSVReader(r.FilePath)

	columnMap, err := r.columns(reader)
	if err != nil {
		return nil, err
	}

	var txns []domain.Transaction
	line := 1 // header
	var rowProcessorFn = func(row []string) error {
		line++
		if txn, ok := r.parseRow(row, columnMap, line); ok {
			txns = append(txns, txn)
		}
		return nil
	}

	// Read and process row by row
	if err := reader.ReadAndProcessByRow(rowProcessorFn); err != nil {
		return nil, fmt.Errorf("reading and processing transactions: %w", err)
	}

	return txns, nil
}

// GetTransactionsConcurrently parses batches of rows on a worker pool, good for handling CSV with huge rows.
// Batches are put back together in file order.
func (r *CSVTransactionRepository) GetTransactionsConcurrently() ([]domain.Transaction, error) {
	reader := fileutil.NewCSVReader(r.FilePath)

	columnMap, err := r.columns(reader)
	if err != nil {
		return nil, err
	}

	workers := r.NumWorkers
	if workers < 1 {
		workers = 1
	}
	batchSize := r.BatchSize
	if batchSize < 1 {
		batchSize = 1
	}

	pool := pond.NewPool(workers)
	defer pool.StopAndWait()
	group := pool.NewGroup()

	results := xsync.NewMap[int, []domain.Transaction]()
	batches := 0

	readErr := reader.ReadAndProcessByBatch(batchSize, func(seq int, rows [][]string) error {
		batches++
		firstLine := seq*batchSize + 2 // 1-based, after the header
		group.Submit(func() {
			batchResults := make([]domain.Transaction, 0, len(rows))
			for i, row := range rows {
				if txn, ok := r.parseRow(row, columnMap, firstLine+i); ok {
					batchResults = append(batchResults, txn)
				}
			}
			results.Store(seq, batchResults)
		})
		return nil
	})

	// Let submitted batches finish even when reading failed part way
	if err := group.Wait(); err != nil {
		return nil, fmt.Errorf("parsing transaction batches: %w", err)
	}
	if readErr != nil {
		return nil, fmt.Errorf("reading and processing transactions: %w", readErr)
	}

	var txns []domain.Transaction
	for seq := 0; seq < batches; seq++ {
		batch, _ := results.Load(seq)
		txns = append(txns, batch...)
	}

	return txns, nil
}

func (r *CSVTransactionRepository) columns(reader *fileutil.CSVReader) (map[string]int, error) {
	header, err := reader.ReadHeader()
	if err != nil {
		return nil, fmt.Errorf("reading transaction header: %w", err)
	}

	columnMap, err := createHeaderMap(header, transactionHeaderFields)
	if err != nil {
		return nil, fmt.Errorf("mapping CSV column: %w", err)
	}

	return columnMap, nil
}

// parseRow turns a CSV row into a normalized transaction. Rows that cannot be represented
// as a valid transaction are logged and rejected here so the ledger never sees them.
func (r *CSVTransactionRepository) parseRow(row []string, columnMap map[string]int, line int) (domain.Transaction, bool) {
	txn, err := parseTransaction(row, columnMap)
	if err != nil {
		// Log but continue processing other rows
		r.logger.Warn("skipping malformed transaction row",
			zap.Int("line", line),
			zap.Strings("row", row),
			zap.Error(err),
		)
		return domain.Transaction{}, false
	}
	return txn, true
}

func parseTransaction(row []string, columnMap map[string]int) (domain.Transaction, error) {
	field := func(name string) string {
		idx := columnMap[name]
		if idx >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx])
	}

	txnType, err := domain.ParseTransactionType(field("type"))
	if err != nil {
		return domain.Transaction{}, err
	}

	client, err := strconv.ParseUint(field("client"), 10, 16)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid client: %w", err)
	}

	tx, err := strconv.ParseUint(field("tx"), 10, 32)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid tx: %w", err)
	}

	txn := domain.Transaction{
		Type:   txnType,
		Client: domain.ClientID(client),
		Tx:     domain.TxID(tx),
	}

	// Amounts only matter for deposits and withdrawals, anything else is ignored
	if !txnType.CarriesAmount() {
		return txn, nil
	}

	raw := field("amount")
	if raw == "" {
		return domain.Transaction{}, errMissingAmount
	}

	amount, err := decimal.NewFromString(raw)
	if err != nil {
		return domain.Transaction{}, fmt.Errorf("invalid amount: %w", err)
	}
	if amount.IsNegative() {
		return domain.Transaction{}, errNegativeAmount
	}

	txn.Amount = decimal.NewNullDecimal(amount)
	return txn.Normalize(), nil
}
