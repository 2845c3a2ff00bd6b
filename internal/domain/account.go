package domain

import (
	"sort"

	"github.com/shopspring/decimal"
)

// DisputeState tracks where a recorded deposit or withdrawal is in the dispute lifecycle
type DisputeState int

const (
	Active DisputeState = iota
	Disputed
	Resolved
	ChargedBack
)

func (s DisputeState) String() string {
	switch s {
	case Active:
		return "active"
	case Disputed:
		return "disputed"
	case Resolved:
		return "resolved"
	case ChargedBack:
		return "charged_back"
	}
	return "unknown"
}

// HistoryEntry is a deposit or withdrawal accepted by an account, with its dispute state
type HistoryEntry struct {
	Transaction Transaction
	State       DisputeState
}

// ClientAccount holds the balances of a single client.
// Total is always Available + Held; it is recomputed by every mutator.
type ClientAccount struct {
	Client    ClientID
	Available decimal.Decimal
	Held      decimal.Decimal
	Total     decimal.Decimal
	Locked    bool

	history []HistoryEntry
	index   map[TxID]int
}

// NewClientAccount creates an empty, unlocked account
func NewClientAccount(client ClientID) *ClientAccount {
	return &ClientAccount{
		Client:    client,
		Available: decimal.Zero,
		Held:      decimal.Zero,
		Total:     decimal.Zero,
		index:     make(map[TxID]int),
	}
}

// Credit adds amount to the available funds
func (a *ClientAccount) Credit(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
	a.recalculate()
}

// Debit removes amount from the available funds
func (a *ClientAccount) Debit(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.recalculate()
}

// Hold moves amount from available to held
func (a *ClientAccount) Hold(amount decimal.Decimal) {
	a.Available = a.Available.Sub(amount)
	a.Held = a.Held.Add(amount)
	a.recalculate()
}

// Release moves amount from held back to available
func (a *ClientAccount) Release(amount decimal.Decimal) {
	a.Available = a.Available.Add(amount)
	a.Held = a.Held.Sub(amount)
	a.recalculate()
}

// Reverse removes amount from the held funds for good
func (a *ClientAccount) Reverse(amount decimal.Decimal) {
	a.Held = a.Held.Sub(amount)
	a.recalculate()
}

// Lock freezes the account against deposits and withdrawals
func (a *ClientAccount) Lock() {
	a.Locked = true
}

func (a *ClientAccount) recalculate() {
	a.Total = a.Available.Add(a.Held)
}

// Record appends an accepted deposit or withdrawal to the history.
// If the tx id was seen before, lookups keep resolving to the first entry.
func (a *ClientAccount) Record(tx Transaction) {
	if a.index == nil {
		a.index = make(map[TxID]int)
	}
	a.history = append(a.history, HistoryEntry{Transaction: tx, State: Active})
	if _, ok := a.index[tx.Tx]; !ok {
		a.index[tx.Tx] = len(a.history) - 1
	}
}

// Lookup finds a recorded deposit or withdrawal by id
func (a *ClientAccount) Lookup(tx TxID) (HistoryEntry, bool) {
	i, ok := a.index[tx]
	if !ok {
		return HistoryEntry{}, false
	}
	return a.history[i], true
}

// SetState updates the dispute state of a recorded transaction.
// It returns false when the transaction is not in the history.
func (a *ClientAccount) SetState(tx TxID, state DisputeState) bool {
	i, ok := a.index[tx]
	if !ok {
		return false
	}
	a.history[i].State = state
	return true
}

// HistoryLen returns the number of recorded deposits and withdrawals
func (a *ClientAccount) HistoryLen() int {
	return len(a.history)
}

// Snapshot returns the externally visible state of the account
func (a *ClientAccount) Snapshot() AccountSnapshot {
	return AccountSnapshot{
		Client:    a.Client,
		Available: a.Available,
		Held:      a.Held,
		Total:     a.Total,
		Locked:    a.Locked,
	}
}

// AccountSnapshot is the projection of a ClientAccount handed to output formatters
type AccountSnapshot struct {
	Client    ClientID        `json:"client"`
	Available decimal.Decimal `json:"available"`
	Held      decimal.Decimal `json:"held"`
	Total     decimal.Decimal `json:"total"`
	Locked    bool            `json:"locked"`
}

// Accounts maps each client to its account
type Accounts map[ClientID]*ClientAccount

// Snapshots returns the snapshot of every account, ordered by client id
func (accs Accounts) Snapshots() []AccountSnapshot {
	snapshots := make([]AccountSnapshot, 0, len(accs))
	for _, acc := range accs {
		snapshots = append(snapshots, acc.Snapshot())
	}
	sort.Slice(snapshots, func(i, j int) bool {
		return snapshots[i].Client < snapshots[j].Client
	})
	return snapshots
}
