package domain

// LedgerStats counts what happened to the transactions of a run
type LedgerStats struct {
	Applied int
	Dropped map[string]int // Keyed by drop reason
}

// TotalDropped returns the number of dropped transactions across all reasons
func (s LedgerStats) TotalDropped() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// LedgerResult contains the result of a ledger run
type LedgerResult struct {
	TotalTxnsProcessed int
	Accounts           []AccountSnapshot
	Stats              LedgerStats
}
