package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
)

const (
	accountPrefix     = "account:"
	accountNamePrefix = "account-name:"
	accountSequence   = "seq:account"
)

// BadgerAccountRepository implements the account repository interface using BadgerDB
type BadgerAccountRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerAccountRepository creates a new BadgerDB account repository
func NewBadgerAccountRepository(db *badger.DB) (*BadgerAccountRepository, error) {
	seq, err := db.GetSequence([]byte(accountSequence), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire account sequence: %w", err)
	}

	return &BadgerAccountRepository{db: db, seq: seq}, nil
}

// Close releases the leased ID range
func (r *BadgerAccountRepository) Close() error {
	return r.seq.Release()
}

// Save assigns the next ID to the account and stores it with its name index.
// A name that is already taken yields entity.ErrDuplicateAccountName.
func (r *BadgerAccountRepository) Save(ctx context.Context, account *entity.Account) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next, err := r.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to assign account id: %w", err)
	}

	stored := *account
	stored.ID = next + 1

	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal account: %w", err)
	}

	nameKey := []byte(accountNamePrefix + stored.Name)
	err = r.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(nameKey)
		if err == nil {
			return entity.ErrDuplicateAccountName
		}
		if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}

		if err := txn.Set(idKey(accountPrefix, stored.ID), data); err != nil {
			return err
		}
		return txn.Set(nameKey, []byte(strconv.FormatUint(stored.ID, 10)))
	})

	switch {
	case errors.Is(err, entity.ErrDuplicateAccountName), errors.Is(err, badger.ErrConflict):
		// a conflict can only come from a concurrent insert of the same name
		return nil, fmt.Errorf("%w: %q", entity.ErrDuplicateAccountName, stored.Name)
	case err != nil:
		return nil, fmt.Errorf("failed to store account: %w", err)
	}

	return &stored, nil
}

// FindByID retrieves an account by its unique identifier
func (r *BadgerAccountRepository) FindByID(ctx context.Context, id uint64) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var account *entity.Account
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		account, err = getAccount(txn, id)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %d", entity.ErrAccountNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	return account, nil
}

// FindByName retrieves an account by its unique name
func (r *BadgerAccountRepository) FindByName(ctx context.Context, name string) (*entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var account *entity.Account
	err := r.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(accountNamePrefix + name))
		if err != nil {
			return err
		}

		raw, err := item.ValueCopy(nil)
		if err != nil {
			return err
		}

		id, err := strconv.ParseUint(string(raw), 10, 64)
		if err != nil {
			return fmt.Errorf("corrupt name index for %q: %w", name, err)
		}

		account, err = getAccount(txn, id)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %q", entity.ErrAccountNotFound, name)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve account: %w", err)
	}

	return account, nil
}

// List returns all accounts in ascending ID order
func (r *BadgerAccountRepository) List(ctx context.Context) ([]entity.Account, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	accounts := make([]entity.Account, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(accountPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var account entity.Account
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &account)
			})
			if err != nil {
				return err
			}
			accounts = append(accounts, account)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}

	return accounts, nil
}

func getAccount(txn *badger.Txn, id uint64) (*entity.Account, error) {
	item, err := txn.Get(idKey(accountPrefix, id))
	if err != nil {
		return nil, err
	}

	var account entity.Account
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &account)
	})
	if err != nil {
		return nil, err
	}

	return &account, nil
}
