package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Account represents a named holder of funds
type Account struct {
	ID        uint64          `json:"id"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"createdAt"`
}

// Validate ensures the account can be stored
func (a *Account) Validate() error {
	if a.Name == "" {
		return ErrInvalidAccount
	}

	if a.Balance.IsNegative() {
		return ErrInvalidAccount
	}

	return nil
}
