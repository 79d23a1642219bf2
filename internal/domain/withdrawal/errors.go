package withdrawal

import "errors"

var (
	ErrInvalidAmount     = errors.New("invalid amount")
	ErrBelowMinimum      = errors.New("amount below minimum withdrawal")
	ErrInvalidRecipient  = errors.New("invalid recipient")
	ErrInsufficientFunds = errors.New("insufficient available balance")
	ErrReferenceConflict = errors.New("reference conflicts with a different request")
)
