package domain

// TransactionRepository defines the interface for accessing the transaction feed
type TransactionRepository interface {
	// GetTransactions gets every well-formed transaction in feed order
	GetTransactions() ([]Transaction, error)

	// GetTransactionsConcurrently is a concurrent version of GetTransactions(), the feed order is preserved
	GetTransactionsConcurrently() ([]Transaction, error)
}
