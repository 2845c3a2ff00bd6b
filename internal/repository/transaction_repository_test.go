package repository_test

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/payment-ledger/internal/domain"
	"github.com/tirasundara/payment-ledger/internal/repository"
)

func TestCSVTransactionRepository_GetTransactions(t *testing.T) {
	repo := repository.NewCSVTransactionRepository("testdata/transactions.csv", nil)

	transactions, err := repo.GetTransactions()
	require.NoError(t, err)

	// 13 rows, 4 malformed: unknown type, missing amount, bad client, negative amount
	require.Len(t, transactions, 9)

	first := transactions[0]
	assert.Equal(t, domain.Deposit, first.Type)
	assert.Equal(t, domain.ClientID(1), first.Client)
	assert.Equal(t, domain.TxID(1), first.Tx)
	require.True(t, first.Amount.Valid)
	assert.True(t, first.Amount.Decimal.Equal(decimal.RequireFromString("1.0")))

	dispute := transactions[5]
	assert.Equal(t, domain.Dispute, dispute.Type)
	assert.False(t, dispute.Amount.Valid)

	// Short row without the trailing amount column
	resolve := transactions[6]
	assert.Equal(t, domain.Resolve, resolve.Type)
	assert.Equal(t, domain.TxID(1), resolve.Tx)

	// Amounts are normalized on ingestion
	normalized := transactions[7]
	assert.True(t, normalized.Amount.Decimal.Equal(decimal.RequireFromString("1.1235")),
		"got %s", normalized.Amount.Decimal)

	// Amount on a chargeback row is ignored
	chargeback := transactions[8]
	assert.Equal(t, domain.Chargeback, chargeback.Type)
	assert.False(t, chargeback.Amount.Valid)
}

func TestCSVTransactionRepository_ReorderedHeader(t *testing.T) {
	repo := repository.NewCSVTransactionRepository("testdata/reordered_header.csv", nil)

	transactions, err := repo.GetTransactions()
	require.NoError(t, err)
	require.Len(t, transactions, 2)

	assert.Equal(t, domain.Deposit, transactions[0].Type)
	assert.Equal(t, domain.ClientID(7), transactions[0].Client)
	assert.True(t, transactions[0].Amount.Decimal.Equal(decimal.RequireFromString("5.5")))
	assert.Equal(t, domain.NewDispute(7, 1), transactions[1])
}

func TestCSVTransactionRepository_Errors(t *testing.T) {
	repo := repository.NewCSVTransactionRepository("testdata/bad_header.csv", nil)
	_, err := repo.GetTransactions()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "required field 'type' not found")

	repo = repository.NewCSVTransactionRepository("testdata/does_not_exist.csv", nil)
	_, err = repo.GetTransactions()
	require.ErrorIs(t, err, os.ErrNotExist)

	_, err = repo.GetTransactionsConcurrently()
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestCSVTransactionRepository_GetTransactionsConcurrently(t *testing.T) {
	var b strings.Builder
	b.WriteString("type,client,tx,amount\n")
	for i := 1; i <= 2500; i++ {
		switch i % 4 {
		case 0:
			fmt.Fprintf(&b, "dispute,%d,%d,\n", i%7, i-1)
		case 3:
			b.WriteString("bogus,1,1,1\n")
		default:
			fmt.Fprintf(&b, "deposit,%d,%d,%d.5\n", i%7, i, i)
		}
	}

	fp := filepath.Join(t.TempDir(), "large.csv")
	require.NoError(t, os.WriteFile(fp, []byte(b.String()), 0644))

	repo := repository.NewCSVTransactionRepository(fp, nil)
	repo.BatchSize = 64
	repo.NumWorkers = 3

	want, err := repo.GetTransactions()
	require.NoError(t, err)

	got, err := repo.GetTransactionsConcurrently()
	require.NoError(t, err)

	require.Len(t, got, len(want))
	for i := range want {
		assert.Equal(t, want[i].Type, got[i].Type)
		assert.Equal(t, want[i].Client, got[i].Client)
		assert.Equal(t, want[i].Tx, got[i].Tx)
		assert.True(t, want[i].Amount.Decimal.Equal(got[i].Amount.Decimal))
	}
}
