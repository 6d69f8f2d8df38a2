package service

import (
	"context"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/domain/repository"
)

// TransactionService handles business logic for transactions
type TransactionService struct {
	repo repository.TransactionRepository
}

// NewTransactionService creates a new transaction service
func NewTransactionService(repo repository.TransactionRepository) *TransactionService {
	return &TransactionService{repo: repo}
}

// List returns every known transaction
func (s *TransactionService) List(ctx context.Context) ([]entity.Transaction, error) {
	return s.repo.List(ctx)
}

// GetByID retrieves a transaction by ID
func (s *TransactionService) GetByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	return s.repo.FindByID(ctx, id)
}

// GetBySenderAccountID returns the transactions the account sent
func (s *TransactionService) GetBySenderAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error) {
	return s.repo.FindBySenderAccountID(ctx, accountID)
}

// GetByReceiverAccountID returns the transactions the account received
func (s *TransactionService) GetByReceiverAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error) {
	return s.repo.FindByReceiverAccountID(ctx, accountID)
}

// Save validates and stores a transaction, returning it with its assigned ID
func (s *TransactionService) Save(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return s.repo.Save(ctx, tx)
}
