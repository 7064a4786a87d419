package domain

import "errors"

var (
	ErrNoToken         = errors.New("no token provided")
	ErrInvalidToken    = errors.New("invalid or expired token")
	ErrMissingRoom     = errors.New("missing room id")
	ErrUserNotFound    = errors.New("user not found")
	ErrMessageNotFound = errors.New("message not found")
)
