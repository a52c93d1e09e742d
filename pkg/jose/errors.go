package jose

import "errors"

var (
	ErrMalformed            = errors.New("jose: malformed compact serialization")
	ErrUnsupportedAlgorithm = errors.New("jose: unsupported algorithm")
	ErrCriticalHeader       = errors.New("jose: unsupported critical header")
	ErrInvalidSignature     = errors.New("jose: invalid signature")
	ErrEncryptionFailed     = errors.New("jose: encryption failed")
	ErrDecryptionFailed     = errors.New("jose: decryption failed")
	ErrSigningFailed        = errors.New("jose: signing failed")

	ErrInvalidPEM     = errors.New("jose: invalid PEM block")
	ErrUnsupportedKey = errors.New("jose: unsupported key type")
	ErrKeyTooSmall    = errors.New("jose: RSA key must be at least 2048 bits")
	ErrMissingKey     = errors.New("jose: missing key")
)
