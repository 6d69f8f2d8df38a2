package handler

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/damon-houk/mini-backoffice/internal/domain/entity"
)

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID        uint64 `json:"id"`
	Name      string `json:"name"`
	Balance   string `json:"balance"`
	CreatedAt string `json:"createdAt,omitempty"`
}

// TransactionResponse represents the response for transaction endpoints
type TransactionResponse struct {
	ID              uint64          `json:"id"`
	SenderAccount   AccountResponse `json:"senderAccount"`
	ReceiverAccount AccountResponse `json:"receiverAccount"`
	Timestamp       string          `json:"timestamp"`
	Description     string          `json:"description"`
	Amount          string          `json:"amount"`
}

// CreateAccountRequest represents the request body for creating an account
type CreateAccountRequest struct {
	Name    string        `json:"name"`
	Balance NumericString `json:"balance"`
}

// NumericString holds a JSON string or number as its literal text. null decodes
// to the empty string.
type NumericString string

// UnmarshalJSON implements json.Unmarshaler
func (n *NumericString) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*n = ""
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*n = NumericString(s)
		return nil
	}

	var num json.Number
	if err := json.Unmarshal(data, &num); err != nil {
		return fmt.Errorf("expected a string or a number, got %s", data)
	}
	*n = NumericString(num.String())
	return nil
}

// ErrorResponse represents a standardized error response
type ErrorResponse struct {
	Error       string `json:"error"`
	Status      int    `json:"status"`
	Description string `json:"description,omitempty"`
	RequestID   string `json:"request_id,omitempty"`
}

func newAccountResponse(a entity.Account) AccountResponse {
	resp := AccountResponse{
		ID:      a.ID,
		Name:    a.Name,
		Balance: a.Balance.String(),
	}
	if !a.CreatedAt.IsZero() {
		resp.CreatedAt = a.CreatedAt.Format(time.RFC3339)
	}
	return resp
}

func newTransactionResponse(tx entity.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:              tx.ID,
		SenderAccount:   newAccountResponse(tx.SenderAccount),
		ReceiverAccount: newAccountResponse(tx.ReceiverAccount),
		Timestamp:       tx.Timestamp.Format(time.RFC3339Nano),
		Description:     tx.Description,
		Amount:          tx.Amount.String(),
	}
}

func newTransactionResponses(txs []entity.Transaction) []TransactionResponse {
	resp := make([]TransactionResponse, len(txs))
	for i, tx := range txs {
		resp[i] = newTransactionResponse(tx)
	}
	return resp
}

func newAccountResponses(accounts []entity.Account) []AccountResponse {
	resp := make([]AccountResponse, len(accounts))
	for i, a := range accounts {
		resp[i] = newAccountResponse(a)
	}
	return resp
}
