package secrets

import "errors"

var (
	ErrInvalidAppKey   = errors.New("invalid app key: must be 32 bytes")
	ErrMissingDeviceID = errors.New("missing device id")

	ErrEncryptionFailed  = errors.New("encryption failed")
	ErrDecryptionFailed  = errors.New("decryption failed")
	ErrInvalidCiphertext = errors.New("invalid ciphertext format")

	ErrKeyDerivationFailed = errors.New("key derivation failed")
)
