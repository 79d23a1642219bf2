package profile

import "errors"

var (
	ErrProfileNotFound          = errors.New("profile not found")
	ErrCurrentPasswordIncorrect = errors.New("current password is incorrect")
)
