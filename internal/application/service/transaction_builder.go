package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/logger"
	"github.com/damon-houk/mini-backoffice/internal/infrastructure/middleware"
	"github.com/shopspring/decimal"
)

// Keys of a transaction creation payload
const (
	SenderAccountNameKey   = "senderAccountName"
	ReceiverAccountNameKey = "receiverAccountName"
	AmountKey              = "amount"
	DescriptionKey         = "description"
)

var transactionPayloadKeys = []string{
	SenderAccountNameKey,
	ReceiverAccountNameKey,
	AmountKey,
	DescriptionKey,
}

// AccountFinder resolves account names
type AccountFinder interface {
	FindAccountByName(ctx context.Context, name string) (*entity.Account, error)
}

// TransactionSaver persists a transaction and assigns its ID
type TransactionSaver interface {
	Save(ctx context.Context, tx *entity.Transaction) (*entity.Transaction, error)
}

// TransactionBuilder turns a creation payload into a stored transaction
type TransactionBuilder struct {
	accounts     AccountFinder
	transactions TransactionSaver
	logger       logger.Logger
	now          func() time.Time
}

// NewTransactionBuilder creates a new transaction builder
func NewTransactionBuilder(accounts AccountFinder, transactions TransactionSaver, log logger.Logger) *TransactionBuilder {
	if log == nil {
		log = logger.GetDefaultLogger()
	}

	return &TransactionBuilder{
		accounts:     accounts,
		transactions: transactions,
		logger:       log,
		now:          time.Now,
	}
}

// Create validates the payload, resolves both accounts, parses the amount and
// saves the resulting transaction. It stops at the first violation.
func (b *TransactionBuilder) Create(ctx context.Context, payload map[string]string) (*entity.Transaction, error) {
	if !isValidTransactionPayload(payload) {
		return nil, fmt.Errorf("%w: expected exactly the keys %s",
			entity.ErrSchemaViolation, strings.Join(transactionPayloadKeys, ", "))
	}

	sender, err := b.resolveAccount(ctx, payload[SenderAccountNameKey])
	if err != nil {
		return nil, err
	}

	receiver, err := b.resolveAccount(ctx, payload[ReceiverAccountNameKey])
	if err != nil {
		return nil, err
	}

	amount, err := parseAmount(payload[AmountKey])
	if err != nil {
		return nil, err
	}

	tx, err := entity.NewTransaction(*sender, *receiver, b.now(), payload[DescriptionKey], amount)
	if err != nil {
		return nil, err
	}

	stored, err := b.transactions.Save(ctx, tx)
	if err != nil {
		return nil, err
	}

	b.logger.Info("New transaction created", map[string]interface{}{
		"request_id":     middleware.GetRequestID(ctx),
		"transaction_id": stored.ID,
	})

	return stored, nil
}

func (b *TransactionBuilder) resolveAccount(ctx context.Context, name string) (*entity.Account, error) {
	account, err := b.accounts.FindAccountByName(ctx, name)
	if errors.Is(err, entity.ErrAccountNotFound) {
		return nil, fmt.Errorf("%w: account with name '%s' does not exist", entity.ErrUnknownAccount, name)
	}
	if err != nil {
		return nil, err
	}

	return account, nil
}

// isValidTransactionPayload reports whether the payload has exactly the expected keys
func isValidTransactionPayload(payload map[string]string) bool {
	if len(payload) != len(transactionPayloadKeys) {
		return false
	}

	for _, key := range transactionPayloadKeys {
		if _, ok := payload[key]; !ok {
			return false
		}
	}

	return true
}

// maxAmountScale bounds both the exponent and the integer digits of an amount
const maxAmountScale = 18

var maxAmount = decimal.New(1, maxAmountScale)

// parseAmount accepts a decimal literal strictly greater than zero and below
// maxAmount, with at most maxAmountScale fractional digits. The exponent is
// checked before any comparison so that huge exponents are never expanded.
func parseAmount(raw string) (decimal.Decimal, error) {
	amount, err := decimal.NewFromString(strings.TrimSpace(raw))
	if err != nil ||
		!amount.IsPositive() ||
		amount.Exponent() < -maxAmountScale ||
		amount.Exponent() > maxAmountScale ||
		!amount.LessThan(maxAmount) {
		return decimal.Zero, fmt.Errorf("%w: got %q", entity.ErrInvalidAmount, raw)
	}

	return amount, nil
}
