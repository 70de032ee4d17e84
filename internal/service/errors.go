package service

import "errors"

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountLocked      = errors.New("account is locked")
	ErrAccountInactive    = errors.New("account is not active")
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrForbidden          = errors.New("forbidden")
	ErrQuotaExceeded      = errors.New("company has reached its employee limit")
	ErrInvalidInput       = errors.New("invalid input")
	ErrSetupCompleted     = errors.New("setup already completed")
	ErrInvalidSetupToken  = errors.New("invalid setup token")
)
