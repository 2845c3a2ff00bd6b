package ledger_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tirasundara/payment-ledger/internal/domain"
	"github.com/tirasundara/payment-ledger/internal/ledger"
)

func TestPartition(t *testing.T) {
	txns := []domain.Transaction{
		deposit(2, 1, "1"),
		deposit(1, 2, "1"),
		withdrawal(2, 3, "1"),
		domain.NewDispute(1, 2),
		deposit(3, 4, "1"),
	}

	partitions := ledger.Partition(txns)
	require.Len(t, partitions, 3)

	assert.Equal(t, []domain.Transaction{txns[0], txns[2]}, partitions[0])
	assert.Equal(t, []domain.Transaction{txns[1], txns[3]}, partitions[1])
	assert.Equal(t, []domain.Transaction{txns[4]}, partitions[2])
}

func TestProcessConcurrently_MatchesSequential(t *testing.T) {
	var txns []domain.Transaction
	for round := domain.TxID(0); round < 50; round++ {
		for client := domain.ClientID(1); client <= 20; client++ {
			id := round*100 + domain.TxID(client)
			txns = append(txns, deposit(client, id*3, "10.5"))
			txns = append(txns, withdrawal(client, id*3+1, "3.25"))
			if round%5 == 0 {
				txns = append(txns, domain.NewDispute(client, id*3))
			}
			if round%10 == 0 {
				txns = append(txns, domain.NewChargeback(client, id*3))
			}
		}
	}

	want := ledger.Process(txns)

	got, stats, err := ledger.ProcessConcurrently(context.Background(), txns, 4)
	require.NoError(t, err)
	require.Len(t, got, len(want))

	for client, acc := range want {
		other, ok := got[client]
		require.True(t, ok, "client %d missing", client)
		assertAccount(t, other, acc.Available.String(), acc.Held.String(), acc.Total.String(), acc.Locked)
	}

	assert.Equal(t, len(txns), stats.Applied+stats.TotalDropped())
}

func TestProcessConcurrently_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := ledger.ProcessConcurrently(ctx, scenarioOne(), 2)
	require.ErrorIs(t, err, context.Canceled)
}

func TestProcessConcurrently_Empty(t *testing.T) {
	accounts, stats, err := ledger.ProcessConcurrently(context.Background(), nil, 0)
	require.NoError(t, err)
	assert.Empty(t, accounts)
	assert.Equal(t, 0, stats.Applied)
}
