package postback

import "errors"

var (
	ErrMissingParameters = errors.New("missing required parameters")
	ErrInvalidPayout     = errors.New("invalid payout amount")
	ErrDuplicate         = errors.New("duplicate transaction")
)
