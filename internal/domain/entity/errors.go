package entity

import "errors"

var (
	ErrSchemaViolation      = errors.New("wrong JSON format for creating a new transaction")
	ErrUnknownAccount       = errors.New("account does not exist")
	ErrInvalidAmount        = errors.New("amount must be a valid positive number")
	ErrTransactionNotFound  = errors.New("transaction not found")
	ErrAccountNotFound      = errors.New("account not found")
	ErrInvalidAccount       = errors.New("account name must not be empty and balance must not be negative")
	ErrDuplicateAccountName = errors.New("account name already taken")
)
