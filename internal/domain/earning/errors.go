package earning

import "errors"

var (
	// ErrInvalidAmount is returned when amount is <= 0
	ErrInvalidAmount = errors.New("invalid amount: must be greater than 0")

	// ErrInvalidStatus is returned for statuses other than pending/completed
	ErrInvalidStatus = errors.New("invalid status: must be pending or completed")

	// ErrDuplicateTransaction is returned when a transaction id was already recorded for the app
	ErrDuplicateTransaction = errors.New("duplicate transaction")

	// ErrStorageRead is returned when persisted ledger data cannot be read in strict mode
	ErrStorageRead = errors.New("ledger storage read failed")

	// ErrStorageWrite is returned when the persistence layer refuses a write
	ErrStorageWrite = errors.New("ledger storage write failed")
)
