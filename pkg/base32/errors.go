package base32

import "errors"

var (
	ErrDecode           = errors.New("base32: decode failed")
	ErrInvalidCharacter = errors.New("base32: invalid character")
	ErrInvalidPadding   = errors.New("base32: invalid padding length")
	ErrInvalidLength    = errors.New("base32: invalid encoded length")
)
