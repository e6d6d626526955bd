package domain

import "errors"

var ErrRecordNotFound = errors.New("Record not found")

var (
	ErrInvalidAmount       = errors.New("Amount must be at least 0.01")
	ErrAccountNotFound     = errors.New("Account not found")
	ErrAccountNotActive    = errors.New("Account is not active")
	ErrInsufficientFunds   = errors.New("Insufficient balance")
	ErrSameAccountTransfer = errors.New("Cannot transfer to the same account")
	ErrDuplicateIdentifier = errors.New("Identifier already exists")
	ErrLockTimeout         = errors.New("Account is busy, try again")
	ErrAlreadyResolved     = errors.New("Transaction is already resolved")
)
