package domain

import "errors"

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrListingNotFound   = errors.New("listing not found")
	ErrBookingNotFound   = errors.New("booking not found")
	ErrInvalidInput      = errors.New("invalid input")
	ErrForbidden         = errors.New("user not authorized to perform this action")
	ErrVersionConflict   = errors.New("concurrent update detected")
	ErrTransactionFailed = errors.New("transaction failed")
)
