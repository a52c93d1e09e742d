package authenticator

import "errors"

var (
	// ErrDeviceNotRegistered is returned when a code is requested before the
	// session holds a registered secret.
	ErrDeviceNotRegistered = errors.New("authenticator: device is not registered")

	// ErrMissingKeyMaterial is returned when neither the inline nor the file
	// form of a key is configured.
	ErrMissingKeyMaterial = errors.New("authenticator: missing key material")

	// ErrInvalidConfig is returned for out-of-range TOTP settings.
	ErrInvalidConfig = errors.New("authenticator: invalid configuration")
)
