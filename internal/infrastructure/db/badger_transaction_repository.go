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
	transactionPrefix   = "tx:"
	senderIndexPrefix   = "tx-sender:"
	receiverIndexPrefix = "tx-receiver:"
	transactionSequence = "seq:tx"
)

// BadgerTransactionRepository implements the transaction repository interface using BadgerDB
type BadgerTransactionRepository struct {
	db  *badger.DB
	seq *badger.Sequence
}

// NewBadgerTransactionRepository creates a new BadgerDB transaction repository
func NewBadgerTransactionRepository(db *badger.DB) (*BadgerTransactionRepository, error) {
	seq, err := db.GetSequence([]byte(transactionSequence), sequenceBandwidth)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire transaction sequence: %w", err)
	}

	return &BadgerTransactionRepository{db: db, seq: seq}, nil
}

// Close releases the leased ID range
func (r *BadgerTransactionRepository) Close() error {
	return r.seq.Release()
}

// Save assigns the next ID to the transaction, stores it together with its
// sender and receiver index entries, and returns the stored copy
func (r *BadgerTransactionRepository) Save(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	next, err := r.seq.Next()
	if err != nil {
		return nil, fmt.Errorf("failed to assign transaction id: %w", err)
	}

	stored := *tx
	stored.ID = next + 1

	// Serialize transaction to JSON
	data, err := json.Marshal(&stored)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal transaction: %w", err)
	}

	err = r.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(idKey(transactionPrefix, stored.ID), data); err != nil {
			return err
		}
		if err := txn.Set(indexKey(senderIndexPrefix, stored.SenderAccount.ID, stored.ID), []byte{}); err != nil {
			return err
		}
		return txn.Set(indexKey(receiverIndexPrefix, stored.ReceiverAccount.ID, stored.ID), []byte{})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to store transaction: %w", err)
	}

	return &stored, nil
}

// FindByID retrieves a transaction by its unique identifier
func (r *BadgerTransactionRepository) FindByID(ctx context.Context, id uint64) (*entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var tx *entity.Transaction
	err := r.db.View(func(txn *badger.Txn) error {
		var err error
		tx, err = getTransaction(txn, id)
		return err
	})

	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("%w: %d", entity.ErrTransactionNotFound, id)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to retrieve transaction: %w", err)
	}

	return tx, nil
}

// List returns all transactions in ascending ID order
func (r *BadgerTransactionRepository) List(ctx context.Context) ([]entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transactions := make([]entity.Transaction, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		prefix := []byte(transactionPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var tx entity.Transaction
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &tx)
			})
			if err != nil {
				return err
			}
			transactions = append(transactions, tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}

	return transactions, nil
}

// FindBySenderAccountID returns the transactions sent from the given account
func (r *BadgerTransactionRepository) FindBySenderAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error) {
	return r.findByIndex(ctx, senderIndexPrefix, accountID)
}

// FindByReceiverAccountID returns the transactions received by the given account
func (r *BadgerTransactionRepository) FindByReceiverAccountID(ctx context.Context, accountID uint64) ([]entity.Transaction, error) {
	return r.findByIndex(ctx, receiverIndexPrefix, accountID)
}

func (r *BadgerTransactionRepository) findByIndex(ctx context.Context, prefix string, accountID uint64) ([]entity.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	transactions := make([]entity.Transaction, 0)
	err := r.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		keyPrefix := indexPrefix(prefix, accountID)
		for it.Seek(keyPrefix); it.ValidForPrefix(keyPrefix); it.Next() {
			key := it.Item().Key()
			id, err := strconv.ParseUint(string(key[len(keyPrefix):]), 10, 64)
			if err != nil {
				return fmt.Errorf("corrupt index key %q: %w", key, err)
			}

			tx, err := getTransaction(txn, id)
			if err != nil {
				return err
			}
			transactions = append(transactions, *tx)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to query transactions for account %d: %w", accountID, err)
	}

	return transactions, nil
}

func getTransaction(txn *badger.Txn, id uint64) (*entity.Transaction, error) {
	item, err := txn.Get(idKey(transactionPrefix, id))
	if err != nil {
		return nil, err
	}

	var tx entity.Transaction
	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &tx)
	})
	if err != nil {
		return nil, err
	}

	return &tx, nil
}
