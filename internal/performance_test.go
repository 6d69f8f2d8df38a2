package internal

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"sync"
	"testing"
	"time"

	"github.com/damon-houk/mini-backoffice/internal/application/service"
	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/cache"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/db"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testStack struct {
	txService      *service.TransactionService
	accountService *service.AccountService
	builder        *service.TransactionBuilder
}

func newTestStack(t *testing.T) *testStack {
	t.Helper()

	log := logger.NewJSONLogger(io.Discard, logger.ErrorLevel)

	badgerDB, err := db.Open(db.Options{Dir: t.TempDir()})
	require.NoError(t, err)
	t.Cleanup(func() { badgerDB.Close() })

	txRepo, err := db.NewBadgerTransactionRepository(badgerDB)
	require.NoError(t, err)
	t.Cleanup(func() { txRepo.Close() })

	accountRepo, err := db.NewBadgerAccountRepository(badgerDB)
	require.NoError(t, err)
	t.Cleanup(func() { accountRepo.Close() })

	txService := service.NewTransactionService(txRepo)
	accountService := service.NewAccountService(accountRepo, cache.NewAccountCache(time.Minute), log)

	return &testStack{
		txService:      txService,
		accountService: accountService,
		builder:        service.NewTransactionBuilder(accountService, txService, log),
	}
}

func TestPerformance(t *testing.T) {
	// Skip in short mode or CI
	if testing.Short() {
		t.Skip("Skipping performance test in short mode")
	}

	stack := newTestStack(t)
	ctx := context.Background()

	// Performance test configuration
	numAccounts := 5
	numTransactions := 200
	concurrency := 10

	names := make([]string, numAccounts)
	for i := range names {
		names[i] = fmt.Sprintf("account-%d", i)
		_, err := stack.accountService.CreateAccount(ctx, names[i], decimal.NewFromInt(1000))
		require.NoError(t, err)
	}

	var (
		mu  sync.Mutex
		ids = make(map[uint64]struct{}, numTransactions)
	)

	t.Run("Transaction Creation", func(t *testing.T) {
		startTime := time.Now()

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		txPerWorker := numTransactions / concurrency

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				rng := rand.New(rand.NewSource(int64(workerID)))
				for j := 0; j < txPerWorker; j++ {
					tx, err := stack.builder.Create(ctx, map[string]string{
						service.SenderAccountNameKey:   names[rng.Intn(numAccounts)],
						service.ReceiverAccountNameKey: names[rng.Intn(numAccounts)],
						service.AmountKey:              decimal.New(int64(1+rng.Intn(10000)), -2).String(),
						service.DescriptionKey:         fmt.Sprintf("Test transaction %d-%d", workerID, j),
					})
					if err != nil {
						t.Errorf("Error creating transaction: %v", err)
						continue
					}

					mu.Lock()
					ids[tx.ID] = struct{}{}
					mu.Unlock()
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		// Calculate throughput
		throughput := float64(numTransactions) / duration.Seconds()
		t.Logf("Transaction creation: %d transactions in %v (%.2f tx/sec)",
			numTransactions, duration, throughput)

		assert.Len(t, ids, numTransactions, "every transaction gets a distinct id")
	})

	t.Run("Account Indexes", func(t *testing.T) {
		startTime := time.Now()

		sent, received := 0, 0
		for i := 1; i <= numAccounts; i++ {
			bySender, err := stack.txService.GetBySenderAccountID(ctx, uint64(i))
			require.NoError(t, err)
			byReceiver, err := stack.txService.GetByReceiverAccountID(ctx, uint64(i))
			require.NoError(t, err)

			for _, tx := range bySender {
				assert.Equal(t, uint64(i), tx.SenderAccount.ID)
			}
			for _, tx := range byReceiver {
				assert.Equal(t, uint64(i), tx.ReceiverAccount.ID)
			}

			sent += len(bySender)
			received += len(byReceiver)
		}

		t.Logf("Index lookups for %d accounts in %v", numAccounts, time.Since(startTime))

		assert.Equal(t, numTransactions, sent)
		assert.Equal(t, numTransactions, received)
	})

	t.Run("Transaction Retrieval", func(t *testing.T) {
		startTime := time.Now()

		all, err := stack.txService.List(ctx)
		require.NoError(t, err)
		require.Len(t, all, numTransactions)

		wg := sync.WaitGroup{}
		wg.Add(concurrency)

		for i := 0; i < concurrency; i++ {
			go func(workerID int) {
				defer wg.Done()

				for j := workerID; j < len(all); j += concurrency {
					if _, err := stack.txService.GetByID(ctx, all[j].ID); err != nil {
						t.Errorf("Error retrieving transaction: %v", err)
					}
				}
			}(i)
		}

		wg.Wait()
		duration := time.Since(startTime)

		throughput := float64(numTransactions) / duration.Seconds()
		t.Logf("Transaction retrieval: %d transactions in %v (%.2f tx/sec)",
			numTransactions, duration, throughput)
	})
}

func TestConcurrentDuplicateAccountNames(t *testing.T) {
	stack := newTestStack(t)
	ctx := context.Background()

	const attempts = 8

	var (
		wg         sync.WaitGroup
		mu         sync.Mutex
		created    int
		duplicates int
	)

	wg.Add(attempts)
	for i := 0; i < attempts; i++ {
		go func() {
			defer wg.Done()

			_, err := stack.accountService.CreateAccount(ctx, "shared", decimal.Zero)

			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				created++
			case errors.Is(err, entity.ErrDuplicateAccountName):
				duplicates++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, created)
	assert.Equal(t, attempts-1, duplicates)

	accounts, err := stack.accountService.ListAccounts(ctx)
	require.NoError(t, err)
	assert.Len(t, accounts, 1)
}
