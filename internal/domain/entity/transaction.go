package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction represents a recorded transfer intent between two accounts
type Transaction struct {
	ID              uint64          `json:"id"`
	SenderAccount   Account         `json:"senderAccount"`
	ReceiverAccount Account         `json:"receiverAccount"`
	Timestamp       time.Time       `json:"timestamp"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
}

// NewTransaction builds an unsaved transaction. The ID is assigned on save.
func NewTransaction(sender, receiver Account, timestamp time.Time, description string, amount decimal.Decimal) (*Transaction, error) {
	tx := &Transaction{
		SenderAccount:   sender,
		ReceiverAccount: receiver,
		Timestamp:       timestamp,
		Description:     description,
		Amount:          amount,
	}

	if err := tx.Validate(); err != nil {
		return nil, err
	}

	return tx, nil
}

// Validate ensures the transaction meets all requirements
func (t *Transaction) Validate() error {
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}

	return nil
}
