package models

import "errors"

// Common errors
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrInvalidUserName = errors.New("invalid user name")
	ErrRecordNotFound  = errors.New("match record not found")
)
