package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/domain/repository"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/cache"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
)

// AccountService handles account lookups and creation
type AccountService struct {
	repo   repository.AccountRepository
	cache  *cache.AccountCache
	logger logger.Logger
}

// NewAccountService creates a new account service. A nil cache disables caching.
func NewAccountService(repo repository.AccountRepository, accountCache *cache.AccountCache, log logger.Logger) *AccountService {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &AccountService{
		repo:   repo,
		cache:  accountCache,
		logger: log,
	}
}

// FindAccountByName returns the account with the given name or entity.ErrAccountNotFound
func (s *AccountService) FindAccountByName(ctx context.Context, name string) (*entity.Account, error) {
	if s.cache != nil {
		if account, ok := s.cache.Get(name); ok {
			s.logger.Debug("Account cache hit", map[string]interface{}{
				"request_id": middleware.GetRequestID(ctx),
				"name":       name,
			})
			return account, nil
		}
	}

	account, err := s.repo.FindByName(ctx, name)
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		s.cache.Put(*account)
	}

	return account, nil
}

// GetAccount retrieves an account by ID
func (s *AccountService) GetAccount(ctx context.Context, id uint64) (*entity.Account, error) {
	return s.repo.FindByID(ctx, id)
}

// ListAccounts returns all accounts
func (s *AccountService) ListAccounts(ctx context.Context) ([]entity.Account, error) {
	return s.repo.List(ctx)
}

// CreateAccount stores a new account. The name is trimmed and must be unique;
// the opening balance must not be negative.
func (s *AccountService) CreateAccount(ctx context.Context, name string, balance decimal.Decimal) (*entity.Account, error) {
	account := &entity.Account{
		Name:      strings.TrimSpace(name),
		Balance:   balance,
		CreatedAt: time.Now().UTC(),
	}

	if err := account.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.repo.Save(ctx, account)
	if err != nil {
		if s.cache != nil && errors.Is(err, entity.ErrDuplicateAccountName) {
			// the name belongs to another account; make the next lookup read it from the store
			s.cache.Delete(account.Name)
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	s.logger.Info("New account created", map[string]interface{}{
		"request_id": middleware.GetRequestID(ctx),
		"account_id": stored.ID,
		"name":       stored.Name,
	})

	return stored, nil
}
