package totp

import "errors"

var (
	ErrFailedToGenerateSecretKey = errors.New("failed to generate TOTP secret key")
	ErrFailedToGenerateTOTP      = errors.New("failed to generate TOTP")
	ErrMissingSecret             = errors.New("missing secret")
	ErrInvalidSecret             = errors.New("invalid secret")
	ErrInvalidDigits             = errors.New("invalid digit count, must be between 1 and 10")
	ErrInvalidPeriod             = errors.New("invalid period, must not be negative")
	ErrInvalidOTP                = errors.New("invalid OTP format")
)
