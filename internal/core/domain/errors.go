package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRefillAmount = errors.New("refill amounts must be greater than zero")
	ErrUnauthorized        = errors.New("unauthorized access: only the contract owner can perform this action")
	ErrOutOfStock          = errors.New("out of stock")
	ErrOverflow            = errors.New("refill would overflow item counter")
	ErrUnknownItemType     = errors.New("unknown item type")
	ErrNotInitialized      = errors.New("inventory not initialized")
	ErrAlreadyInitialized  = errors.New("inventory already initialized")
	ErrStorageFailure      = errors.New("storage failure")
)

// OutOfStockError reports which item could not be dispensed.
type OutOfStockError struct {
	Item ItemType
}

func (e *OutOfStockError) Error() string {
	return fmt.Sprintf("the requested item '%s' is out of stock", e.Item)
}

func (e *OutOfStockError) Is(target error) bool {
	return target == ErrOutOfStock
}
