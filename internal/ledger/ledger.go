package ledger

import (
	"errors"

	"github.com/tirasundara/payment-ledger/internal/domain"
	"go.uber.org/zap"
)

// Ledger folds transactions into client accounts. It owns the accounts it creates
// and is not safe for concurrent use.
type Ledger struct {
	accounts domain.Accounts
	policy   DisputePolicy
	logger   *zap.Logger
	stats    domain.LedgerStats
}

// Option configures a Ledger
type Option func(*Ledger)

// WithDisputePolicy sets the policy applied to disputes, resolves and chargebacks
func WithDisputePolicy(p DisputePolicy) Option {
	return func(l *Ledger) {
		if p != nil {
			l.policy = p
		}
	}
}

// WithLogger sets the logger dropped transactions are reported to
func WithLogger(logger *zap.Logger) Option {
	return func(l *Ledger) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates an empty Ledger. The strict dispute policy is used unless another one is given.
func New(opts ...Option) *Ledger {
	l := &Ledger{
		accounts: make(domain.Accounts),
		policy:   NewStrictDisputes(),
		logger:   zap.NewNop(),
		stats:    domain.LedgerStats{Dropped: make(map[string]int)},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Process applies txns in order and returns the resulting accounts
func Process(txns []domain.Transaction, opts ...Option) domain.Accounts {
	l := New(opts...)
	for _, tx := range txns {
		_ = l.Apply(tx)
	}
	return l.Accounts()
}

// Apply applies a single transaction to its client's account, creating the account on first reference.
// A non-nil return is a *DropError: the account was left unchanged and processing can go on.
func (l *Ledger) Apply(tx domain.Transaction) error {
	tx = tx.Normalize()
	acc := l.account(tx.Client)

	if err := l.apply(acc, tx); err != nil {
		l.stats.Dropped[err.Error()]++
		l.logger.Debug("transaction dropped",
			zap.String("type", string(tx.Type)),
			zap.Uint16("client", uint16(tx.Client)),
			zap.Uint32("tx", uint32(tx.Tx)),
			zap.String("reason", err.Error()),
		)
		return &DropError{Transaction: tx, Reason: err}
	}

	l.stats.Applied++
	return nil
}

// Accounts returns the accounts touched so far
func (l *Ledger) Accounts() domain.Accounts {
	return l.accounts
}

// Stats returns a copy of the applied and dropped counters
func (l *Ledger) Stats() domain.LedgerStats {
	dropped := make(map[string]int, len(l.stats.Dropped))
	for reason, n := range l.stats.Dropped {
		dropped[reason] = n
	}
	return domain.LedgerStats{Applied: l.stats.Applied, Dropped: dropped}
}

func (l *Ledger) account(client domain.ClientID) *domain.ClientAccount {
	acc, ok := l.accounts[client]
	if !ok {
		acc = domain.NewClientAccount(client)
		l.accounts[client] = acc
	}
	return acc
}

func (l *Ledger) apply(acc *domain.ClientAccount, tx domain.Transaction) error {
	switch tx.Type {
	case domain.Deposit:
		return l.deposit(acc, tx)
	case domain.Withdrawal:
		return l.withdraw(acc, tx)
	case domain.Dispute, domain.Resolve, domain.Chargeback:
		return l.settle(acc, tx)
	}
	return ErrUnsupportedType
}

func (l *Ledger) deposit(acc *domain.ClientAccount, tx domain.Transaction) error {
	if acc.Locked {
		return ErrAccountLocked
	}
	if !tx.Amount.Valid {
		return ErrMissingAmount
	}

	acc.Credit(tx.Amount.Decimal)
	acc.Record(tx)
	return nil
}

func (l *Ledger) withdraw(acc *domain.ClientAccount, tx domain.Transaction) error {
	if acc.Locked {
		return ErrAccountLocked
	}
	if !tx.Amount.Valid {
		return ErrMissingAmount
	}
	if tx.Amount.Decimal.GreaterThan(acc.Available) {
		return ErrInsufficientFunds
	}

	acc.Debit(tx.Amount.Decimal)
	acc.Record(tx)
	return nil
}

// settle handles disputes, resolves and chargebacks. They act on the amount of the
// referenced deposit or withdrawal, and still apply to locked accounts.
func (l *Ledger) settle(acc *domain.ClientAccount, tx domain.Transaction) error {
	entry, ok := acc.Lookup(tx.Tx)
	if !ok {
		return ErrUnknownTransaction
	}

	next, err := l.policy.Transition(tx.Type, entry.State)
	if err != nil {
		return err
	}

	amount := entry.Transaction.Amount.Decimal
	switch tx.Type {
	case domain.Dispute:
		acc.Hold(amount)
	case domain.Resolve:
		acc.Release(amount)
	case domain.Chargeback:
		acc.Reverse(amount)
		acc.Lock()
	default:
		return ErrUnsupportedType
	}

	acc.SetState(tx.Tx, next)
	return nil
}

// IsDropped reports whether err means a transaction was dropped
func IsDropped(err error) bool {
	var dropErr *DropError
	return errors.As(err, &dropErr)
}
