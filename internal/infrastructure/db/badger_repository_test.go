package db

import (
	"context"
	"testing"
	"time"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/dgraph-io/badger/v3"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestDB(t *testing.T) *badger.DB {
	t.Helper()

	db, err := Open(Options{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	return db
}

func newTestRepositories(t *testing.T) (*BadgerAccountRepository, *BadgerTransactionRepository) {
	t.Helper()
	db := openTestDB(t)

	accounts, err := NewBadgerAccountRepository(db)
	require.NoError(t, err)
	transactions, err := NewBadgerTransactionRepository(db)
	require.NoError(t, err)

	// sequences must be released before the DB closes
	t.Cleanup(func() {
		transactions.Close()
		accounts.Close()
	})

	return accounts, transactions
}

func saveAccount(t *testing.T, repo *BadgerAccountRepository, name string) entity.Account {
	t.Helper()
	account, err := repo.Save(context.Background(), &entity.Account{
		Name:      name,
		Balance:   decimal.RequireFromString("100.00"),
		CreatedAt: time.Now().UTC(),
	})
	require.NoError(t, err)
	return *account
}

func saveTransfer(t *testing.T, repo *BadgerTransactionRepository, from, to entity.Account, amount string) entity.Transaction {
	t.Helper()
	tx, err := repo.Save(context.Background(), &entity.Transaction{
		SenderAccount:   from,
		ReceiverAccount: to,
		Timestamp:       time.Now().UTC(),
		Description:     from.Name + " to " + to.Name,
		Amount:          decimal.RequireFromString(amount),
	})
	require.NoError(t, err)
	return *tx
}

func TestAccountRepository(t *testing.T) {
	accounts, _ := newTestRepositories(t)
	ctx := context.Background()

	alice := saveAccount(t, accounts, "Alice")
	bob := saveAccount(t, accounts, "Bob")

	assert.Equal(t, uint64(1), alice.ID)
	assert.Equal(t, uint64(2), bob.ID)

	t.Run("Find by ID", func(t *testing.T) {
		found, err := accounts.FindByID(ctx, bob.ID)
		require.NoError(t, err)
		assert.Equal(t, "Bob", found.Name)
		assert.True(t, found.Balance.Equal(decimal.NewFromInt(100)))
	})

	t.Run("Find by name", func(t *testing.T) {
		found, err := accounts.FindByName(ctx, "Alice")
		require.NoError(t, err)
		assert.Equal(t, alice.ID, found.ID)
	})

	t.Run("Unknown name", func(t *testing.T) {
		found, err := accounts.FindByName(ctx, "Carol")
		assert.Nil(t, found)
		assert.ErrorIs(t, err, entity.ErrAccountNotFound)
	})

	t.Run("Unknown ID", func(t *testing.T) {
		found, err := accounts.FindByID(ctx, 999)
		assert.Nil(t, found)
		assert.ErrorIs(t, err, entity.ErrAccountNotFound)
	})

	t.Run("Duplicate name", func(t *testing.T) {
		dup, err := accounts.Save(ctx, &entity.Account{Name: "Alice"})
		assert.Nil(t, dup)
		assert.ErrorIs(t, err, entity.ErrDuplicateAccountName)
	})

	t.Run("List", func(t *testing.T) {
		all, err := accounts.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 2)
		assert.Equal(t, "Alice", all[0].Name)
		assert.Equal(t, "Bob", all[1].Name)
	})
}

func TestTransactionRepository(t *testing.T) {
	accounts, transactions := newTestRepositories(t)
	ctx := context.Background()

	alice := saveAccount(t, accounts, "Alice")
	bob := saveAccount(t, accounts, "Bob")
	carol := saveAccount(t, accounts, "Carol")

	t.Run("Empty store", func(t *testing.T) {
		all, err := transactions.List(ctx)
		require.NoError(t, err)
		assert.NotNil(t, all)
		assert.Empty(t, all)
	})

	first := saveTransfer(t, transactions, alice, bob, "50.00")
	second := saveTransfer(t, transactions, bob, carol, "12.34")
	third := saveTransfer(t, transactions, alice, carol, "1")
	self := saveTransfer(t, transactions, carol, carol, "0.01")

	t.Run("IDs are assigned in order", func(t *testing.T) {
		assert.Equal(t, uint64(1), first.ID)
		assert.Equal(t, uint64(2), second.ID)
		assert.Equal(t, uint64(3), third.ID)
		assert.Equal(t, uint64(4), self.ID)
	})

	t.Run("Find by ID", func(t *testing.T) {
		found, err := transactions.FindByID(ctx, first.ID)
		require.NoError(t, err)
		assert.Equal(t, first.ID, found.ID)
		assert.Equal(t, alice.ID, found.SenderAccount.ID)
		assert.Equal(t, bob.ID, found.ReceiverAccount.ID)
		assert.Equal(t, "Alice to Bob", found.Description)
		assert.True(t, found.Amount.Equal(decimal.RequireFromString("50.00")))
		assert.True(t, found.Timestamp.Equal(first.Timestamp))
	})

	t.Run("Unknown ID", func(t *testing.T) {
		found, err := transactions.FindByID(ctx, 42)
		assert.Nil(t, found)
		assert.ErrorIs(t, err, entity.ErrTransactionNotFound)
	})

	t.Run("List", func(t *testing.T) {
		all, err := transactions.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, 4)
		for i, tx := range all {
			assert.Equal(t, uint64(i+1), tx.ID)
		}
	})

	t.Run("By sender", func(t *testing.T) {
		sent, err := transactions.FindBySenderAccountID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{first.ID, third.ID}, transactionIDs(sent))

		again, err := transactions.FindBySenderAccountID(ctx, alice.ID)
		require.NoError(t, err)
		assert.Equal(t, transactionIDs(sent), transactionIDs(again))
	})

	t.Run("By receiver", func(t *testing.T) {
		received, err := transactions.FindByReceiverAccountID(ctx, carol.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{second.ID, third.ID, self.ID}, transactionIDs(received))
	})

	t.Run("Self transfer is in both indexes", func(t *testing.T) {
		sent, err := transactions.FindBySenderAccountID(ctx, carol.ID)
		require.NoError(t, err)
		assert.Equal(t, []uint64{self.ID}, transactionIDs(sent))
	})

	t.Run("No participation", func(t *testing.T) {
		received, err := transactions.FindByReceiverAccountID(ctx, alice.ID)
		require.NoError(t, err)
		assert.NotNil(t, received)
		assert.Empty(t, received)
	})

	t.Run("Cancelled context", func(t *testing.T) {
		cancelled, cancel := context.WithCancel(ctx)
		cancel()

		_, err := transactions.Save(cancelled, &first)
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func TestSequenceSurvivesReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	db, err := Open(Options{Dir: dir})
	require.NoError(t, err)
	repo, err := NewBadgerAccountRepository(db)
	require.NoError(t, err)
	first := saveAccount(t, repo, "Alice")
	require.NoError(t, repo.Close())
	require.NoError(t, db.Close())

	db, err = Open(Options{Dir: dir})
	require.NoError(t, err)
	defer db.Close()
	repo, err = NewBadgerAccountRepository(db)
	require.NoError(t, err)
	defer repo.Close()

	second, err := repo.Save(ctx, &entity.Account{Name: "Bob"})
	require.NoError(t, err)
	assert.Greater(t, second.ID, first.ID)

	found, err := repo.FindByName(ctx, "Alice")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func transactionIDs(txs []entity.Transaction) []uint64 {
	ids := make([]uint64, len(txs))
	for i, tx := range txs {
		ids[i] = tx.ID
	}
	return ids
}
