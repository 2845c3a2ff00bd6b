package domain

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits kept on input amounts
const AmountPrecision int32 = 4

// ClientID identifies a client account
type ClientID uint16

// TxID identifies a deposit or withdrawal, and is referenced by disputes, resolves and chargebacks
type TxID uint32

// TransactionType represents the type of transaction
type TransactionType string

// Transaction types
const (
	Deposit    TransactionType = "deposit"
	Withdrawal TransactionType = "withdrawal"
	Dispute    TransactionType = "dispute"
	Resolve    TransactionType = "resolve"
	Chargeback TransactionType = "chargeback"
)

// TransactionTypes lists every supported type. Anything outside this set is rejected.
var TransactionTypes = []TransactionType{Deposit, Withdrawal, Dispute, Resolve, Chargeback}

// ParseTransactionType converts a raw type name into a TransactionType
func ParseTransactionType(s string) (TransactionType, error) {
	t := TransactionType(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("unknown transaction type %q", s)
	}
	return t, nil
}

// Valid reports whether t is one of the supported transaction types
func (t TransactionType) Valid() bool {
	switch t {
	case Deposit, Withdrawal, Dispute, Resolve, Chargeback:
		return true
	}
	return false
}

// CarriesAmount reports whether transactions of this type move funds by themselves.
// Disputes, resolves and chargebacks reference a prior transaction instead.
func (t TransactionType) CarriesAmount() bool {
	return t == Deposit || t == Withdrawal
}

// Transaction represents a single record of the payment feed
type Transaction struct {
	Type   TransactionType
	Client ClientID
	Tx     TxID
	Amount decimal.NullDecimal
}

// Normalize returns a copy of the transaction with its amount rounded to AmountPrecision
// places using banker's rounding (round half to even).
func (t Transaction) Normalize() Transaction {
	if t.Amount.Valid {
		t.Amount = decimal.NewNullDecimal(t.Amount.Decimal.RoundBank(AmountPrecision))
	}
	return t
}

func (t Transaction) String() string {
	if t.Amount.Valid {
		return fmt.Sprintf("%s client=%d tx=%d amount=%s", t.Type, t.Client, t.Tx, t.Amount.Decimal)
	}
	return fmt.Sprintf("%s client=%d tx=%d", t.Type, t.Client, t.Tx)
}

// NewDeposit creates a normalized deposit
func NewDeposit(client ClientID, tx TxID, amount decimal.Decimal) Transaction {
	return Transaction{Type: Deposit, Client: client, Tx: tx, Amount: decimal.NewNullDecimal(amount)}.Normalize()
}

// NewWithdrawal creates a normalized withdrawal
func NewWithdrawal(client ClientID, tx TxID, amount decimal.Decimal) Transaction {
	return Transaction{Type: Withdrawal, Client: client, Tx: tx, Amount: decimal.NewNullDecimal(amount)}.Normalize()
}

// NewDispute creates a dispute against a prior transaction
func NewDispute(client ClientID, tx TxID) Transaction {
	return Transaction{Type: Dispute, Client: client, Tx: tx}
}

// NewResolve creates a resolve for a prior transaction
func NewResolve(client ClientID, tx TxID) Transaction {
	return Transaction{Type: Resolve, Client: client, Tx: tx}
}

// NewChargeback creates a chargeback for a prior transaction
func NewChargeback(client ClientID, tx TxID) Transaction {
	return Transaction{Type: Chargeback, Client: client, Tx: tx}
}
