// Package totp derives the rolling authentication code sent with every
// device request.
//
// Codes follow RFC 6238 on top of RFC 4226: the Unix time is divided into
// steps, the step counter is hashed with HMAC-SHA1 under the shared device
// secret, and the digest is dynamically truncated to a fixed number of
// decimal digits. HMAC-SHA1 is used only because the backend requires it.
//
// # Architecture
//
//   • otp.go – counter derivation (Counter), code derivation (GenerateHOTP,
//     Generate), Base32 secret handling (DecodeSecret, GenerateFromBase32)
//     and drift tolerant validation (Validate).
//
//   • config.go – env tagged settings (digit count, time step, per-second
//     switch) embedded by callers under their own prefix.
//
// The time step defaults to 30 seconds, including when Period is left at zero.
// A step of zero is supported only as an explicit compatibility mode
// (Params.PerSecond or TOTP_PER_SECOND=true) in which the counter is the
// absolute Unix second.
//
// # Usage
//
//	code, err := totp.GenerateFromBase32(secret, totp.Params{}, time.Now())
//	if err != nil {
//	    // secret is not valid Base32; re-register the device
//	}
//
// # Error Handling
//
// Errors are joined with errors.Join; match them with errors.Is against
// ErrInvalidSecret, ErrInvalidDigits, ErrInvalidOTP etc.
//
// # See Also
//
//   • RFC 4226 – HMAC-Based One-Time Password (HOTP) Algorithm
//   • RFC 6238 – Time-Based One-Time Password (TOTP) Algorithm
package totp
