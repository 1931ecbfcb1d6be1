package service

import "errors"

var (
	ErrInvalidRequest        = errors.New("invalid request")
	ErrOrderNotFound         = errors.New("order not found")
	ErrUserNotFound          = errors.New("user not found")
	ErrInvalidPaymentMethod  = errors.New("invalid payment method")
	ErrOrderAlreadyCompleted = errors.New("order is already completed")
	ErrOrderCancelled        = errors.New("order is cancelled")
)
