// Package base32 implements the RFC 4648 Base32 and Base32-Hex encodings
// used to turn an opaque device secret into TOTP key bytes.
//
// Unlike encoding/base32 the decoder follows the lenient rules expected by
// the eKYC backend: padding is optional, lower-case letters are accepted and
// only the trailing pad runs produced by the encoder (6, 4, 3 or 1 characters)
// are recognized.
//
// # Architecture
//
// Both alphabets are immutable package-level values holding a 32-entry
// encode table and a 256-entry decode table indexed by byte value. Encoding
// and decoding run over a single 40-bit group routine; trailing partial
// groups are driven by small lookup tables instead of duplicated branches.
//
// # Usage
//
//	import "github.com/dmitrymomot/deviceauth/pkg/base32"
//
//	secret, err := base32.StdDecode("HVR4CFHAFOWFGGFC")
//	if err != nil {
//	    // reject the malformed secret and ask for re-registration
//	}
//	text := base32.HexEncode(secret)
//
// # Error Handling
//
// Decode failures are joined with ErrDecode and one of ErrInvalidCharacter,
// ErrInvalidPadding or ErrInvalidLength. They are recoverable input errors.
package base32
