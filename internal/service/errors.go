package service

import "errors"

var (
	// ErrInsufficientBalance is returned when an outcome exceeds the balance.
	ErrInsufficientBalance = errors.New("you don't have enough balance")
	// ErrInvalidTransaction wraps every input validation failure.
	ErrInvalidTransaction = errors.New("invalid transaction")
)
