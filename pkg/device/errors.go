package device

import "errors"

var (
	ErrInvalidSecret  = errors.New("device: secret is not valid base32")
	ErrNotRegistered  = errors.New("device: not registered")
	ErrInvalidState   = errors.New("device: invalid sealed state")
	ErrDeviceMismatch = errors.New("device: sealed state belongs to another device")
)
