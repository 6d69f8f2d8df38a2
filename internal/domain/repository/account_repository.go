// Package repository internal/domain/repository/account_repository.go
package repository

import (
	"context"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
)

// AccountRepository defines the interface for account storage
type AccountRepository interface {
	// Save assigns an ID to the account and stores it. Names are unique.
	Save(ctx context.Context, account *entity.Account) (*entity.Account, error)

	// FindByID retrieves an account by its unique identifier
	FindByID(ctx context.Context, id uint64) (*entity.Account, error)

	// FindByName retrieves an account by its unique name
	FindByName(ctx context.Context, name string) (*entity.Account, error)

	// List returns every stored account ordered by ID
	List(ctx context.Context) ([]entity.Account, error)
}
