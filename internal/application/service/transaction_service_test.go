package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/mocks"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestTransactionServiceSave(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	service := NewTransactionService(repo)
	ctx := context.Background()

	alice := entity.Account{ID: 1, Name: "Alice"}
	bob := entity.Account{ID: 2, Name: "Bob"}

	t.Run("Valid transaction", func(t *testing.T) {
		tx := &entity.Transaction{
			SenderAccount:   alice,
			ReceiverAccount: bob,
			Timestamp:       time.Now(),
			Description:     "rent",
			Amount:          decimal.RequireFromString("50.00"),
		}
		stored := *tx
		stored.ID = 11

		repo.On("Save", ctx, tx).Return(&stored, nil).Once()

		saved, err := service.Save(ctx, tx)

		assert.NoError(t, err)
		assert.Equal(t, uint64(11), saved.ID)
		repo.AssertExpectations(t)
	})

	t.Run("Invalid amount is never stored", func(t *testing.T) {
		tx := &entity.Transaction{
			SenderAccount:   alice,
			ReceiverAccount: bob,
			Amount:          decimal.RequireFromString("-5"),
		}

		saved, err := service.Save(ctx, tx)

		assert.Nil(t, saved)
		assert.ErrorIs(t, err, entity.ErrInvalidAmount)
		repo.AssertNotCalled(t, "Save", ctx, tx)
	})

	t.Run("Repository error", func(t *testing.T) {
		repo.On("Save", ctx, mock.Anything).Return(nil, errors.New("repository error")).Once()

		saved, err := service.Save(ctx, &entity.Transaction{Amount: decimal.NewFromInt(1)})

		assert.Nil(t, saved)
		assert.Equal(t, "repository error", err.Error())
		repo.AssertExpectations(t)
	})
}

func TestTransactionServiceQueries(t *testing.T) {
	repo := new(mocks.MockTransactionRepository)
	service := NewTransactionService(repo)
	ctx := context.Background()

	txs := []entity.Transaction{
		{ID: 1, Amount: decimal.NewFromInt(5)},
		{ID: 2, Amount: decimal.NewFromInt(7)},
	}

	repo.On("List", ctx).Return(txs, nil).Once()
	repo.On("FindByID", ctx, uint64(2)).Return(&txs[1], nil).Once()
	repo.On("FindByID", ctx, uint64(3)).Return(nil, entity.ErrTransactionNotFound).Once()
	repo.On("FindBySenderAccountID", ctx, uint64(9)).Return(txs[:1], nil).Once()
	repo.On("FindByReceiverAccountID", ctx, uint64(9)).Return([]entity.Transaction{}, nil).Once()

	all, err := service.List(ctx)
	assert.NoError(t, err)
	assert.Len(t, all, 2)

	tx, err := service.GetByID(ctx, 2)
	assert.NoError(t, err)
	assert.Equal(t, uint64(2), tx.ID)

	tx, err = service.GetByID(ctx, 3)
	assert.Nil(t, tx)
	assert.ErrorIs(t, err, entity.ErrTransactionNotFound)

	sent, err := service.GetBySenderAccountID(ctx, 9)
	assert.NoError(t, err)
	assert.Len(t, sent, 1)

	received, err := service.GetByReceiverAccountID(ctx, 9)
	assert.NoError(t, err)
	assert.Empty(t, received)

	repo.AssertExpectations(t)
}
