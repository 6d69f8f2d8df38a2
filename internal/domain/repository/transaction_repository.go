package repository

import (
	"context"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
)

// TransactionRepository defines the interface for transaction storage
type TransactionRepository interface {
	// Save assigns an ID to the transaction, stores it and returns the stored copy
	Save(ctx context.Context, transaction *entity.Transaction) (*entity.Transaction, error)

	// FindByID retrieves a transaction by its unique identifier
	FindByID(ctx context.Context, id uint64) (*entity.Transaction, error)

	// List returns every stored transaction ordered by ID
	List(ctx context.Context) ([]entity.Transaction, error)

	// FindBySenderAccountID returns transactions sent from the given account
	FindBySenderAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error)

	// FindByReceiverAccountID returns transactions received by the given account
	FindByReceiverAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error)
}
