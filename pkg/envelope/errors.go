package envelope

import "errors"

var (
	// ErrSignature is the single outcome of any failure in the encrypt, sign,
	// verify or decrypt stages.
	ErrSignature = errors.New("envelope: signature error")

	// ErrBadParameter is returned when request parameters cannot be serialized.
	ErrBadParameter = errors.New("envelope: parameters are not serializable")

	// ErrInvalidKeyMaterial is returned by New for missing or malformed keys.
	ErrInvalidKeyMaterial = errors.New("envelope: invalid key material")
)
