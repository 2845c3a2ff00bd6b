package ledger

import (
	"context"
	"fmt"

	"github.com/alitto/pond/v2"
	"github.com/puzpuzpuz/xsync/v4"
	"github.com/tirasundara/payment-ledger/internal/domain"
)

// Partition splits txns by client. Each partition keeps the relative order of its
// client's transactions; partitions are ordered by first appearance of the client.
func Partition(txns []domain.Transaction) [][]domain.Transaction {
	positions := make(map[domain.ClientID]int)
	var partitions [][]domain.Transaction

	for _, tx := range txns {
		i, ok := positions[tx.Client]
		if !ok {
			i = len(partitions)
			positions[tx.Client] = i
			partitions = append(partitions, nil)
		}
		partitions[i] = append(partitions[i], tx)
	}

	return partitions
}

// ProcessConcurrently folds each client's transactions on its own worker and merges the
// accounts. Since a transaction only touches its own client, the result matches Process.
func ProcessConcurrently(ctx context.Context, txns []domain.Transaction, workers int, opts ...Option) (domain.Accounts, domain.LedgerStats, error) {
	if workers < 1 {
		workers = 1
	}

	partitions := Partition(txns)

	pool := pond.NewPool(workers)
	defer pool.StopAndWait()

	group := pool.NewGroupContext(ctx)
	groupCtx := group.Context()

	collected := xsync.NewMap[domain.ClientID, *domain.ClientAccount]()
	stats := make([]domain.LedgerStats, len(partitions))

	for i, partition := range partitions {
		group.Submit(func() {
			if groupCtx.Err() != nil {
				return
			}

			l := New(opts...)
			for _, tx := range partition {
				_ = l.Apply(tx)
			}

			for client, acc := range l.Accounts() {
				collected.Store(client, acc)
			}
			stats[i] = l.Stats()
		})
	}

	waitErr := group.Wait()
	if err := ctx.Err(); err != nil {
		return nil, domain.LedgerStats{}, fmt.Errorf("processing partitions: %w", err)
	}
	if waitErr != nil {
		return nil, domain.LedgerStats{}, fmt.Errorf("processing partitions: %w", waitErr)
	}

	accounts := make(domain.Accounts, collected.Size())
	collected.Range(func(client domain.ClientID, acc *domain.ClientAccount) bool {
		accounts[client] = acc
		return true
	})

	return accounts, mergeStats(stats), nil
}

func mergeStats(parts []domain.LedgerStats) domain.LedgerStats {
	merged := domain.LedgerStats{Dropped: make(map[string]int)}
	for _, s := range parts {
		merged.Applied += s.Applied
		for reason, n := range s.Dropped {
			merged.Dropped[reason] += n
		}
	}
	return merged
}
