package totp

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha1"
	"crypto/subtle"
	"encoding/binary"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrymomot/deviceauth/pkg/base32"
)

const (
	DefaultDigits    = 6      // Standard 6-digit TOTP codes
	DefaultPeriod    = 30     // 30-second validity window (RFC 6238 standard)
	DefaultAlgorithm = "SHA1" // HMAC-SHA1, kept for backend compatibility only
	MaxDigits        = 10     // 10^10 exceeds the 31-bit truncated value
)

// Params describes how codes are derived from a secret.
type Params struct {
	Digits int   // Number of digits in generated codes (defaults to 6)
	Period int64 // Time step in seconds (defaults to 30)

	// PerSecond selects a zero time step: the counter is the absolute Unix
	// second. Only for backends confirmed to expect it.
	PerSecond bool
}

// GetDefaults returns a copy with RFC 6238 standard defaults applied to zero-valued fields.
func (p Params) GetDefaults() Params {
	if p.Digits == 0 {
		p.Digits = DefaultDigits
	}
	if p.PerSecond {
		p.Period = 0
	} else if p.Period == 0 {
		p.Period = DefaultPeriod
	}
	return p
}

// Validate checks digit count and period bounds.
func (p Params) Validate() error {
	if p.Digits < 1 || p.Digits > MaxDigits {
		return ErrInvalidDigits
	}
	if p.Period < 0 {
		return ErrInvalidPeriod
	}
	return nil
}

// Generate returns the code for the window containing t.
func (p Params) Generate(secret []byte, t time.Time) string {
	p = p.GetDefaults()
	return Generate(p.Digits, secret, p.Period, t)
}

// GenerateSecretKey generates a new unpadded Base32-encoded 160-bit secret.
func GenerateSecretKey() (string, error) {
	secret := make([]byte, 20) // RFC 4226 recommendation for HMAC-SHA1
	if _, err := rand.Read(secret); err != nil {
		return "", errors.Join(ErrFailedToGenerateSecretKey, err)
	}
	return strings.TrimRight(base32.StdEncode(secret), "="), nil
}

// DecodeSecret turns a Base32 device secret into HMAC key bytes.
func DecodeSecret(secret string) ([]byte, error) {
	secret = strings.TrimSpace(secret)
	if secret == "" {
		return nil, ErrMissingSecret
	}
	key, err := base32.StdDecode(secret)
	if err != nil {
		return nil, errors.Join(ErrInvalidSecret, err)
	}
	return key, nil
}

// GenerateFromBase32 decodes secret and generates the code for t.
func GenerateFromBase32(secret string, p Params, t time.Time) (string, error) {
	p = p.GetDefaults()
	if err := p.Validate(); err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}

	key, err := DecodeSecret(secret)
	if err != nil {
		return "", errors.Join(ErrFailedToGenerateTOTP, err)
	}

	return Generate(p.Digits, key, p.Period, t), nil
}

// Generate implements RFC 6238: the HOTP of the time-step counter of t.
// A step of zero or less counts absolute Unix seconds.
func Generate(digits int, secret []byte, step int64, t time.Time) string {
	return GenerateHOTP(secret, Counter(t, step), digits)
}

// Counter returns floor(unix(t) / step) truncated to 64 bits.
func Counter(t time.Time, step int64) uint64 {
	sec := t.Unix()
	if step <= 0 {
		return uint64(sec)
	}
	q := sec / step
	if sec%step != 0 && sec < 0 {
		q--
	}
	return uint64(q)
}

// Remaining returns the seconds left before the code for t rolls over.
func Remaining(t time.Time, step int64) int64 {
	if step <= 0 {
		return 1
	}
	r := t.Unix() % step
	if r < 0 {
		r += step
	}
	return step - r
}

// GenerateHOTP implements RFC 4226 HMAC-based One-Time Password algorithm.
// The counter is hashed as 8 big-endian bytes with HMAC-SHA1 and the result
// is zero-padded to digits characters. Digits below 1 select DefaultDigits and
// digits above MaxDigits are capped.
func GenerateHOTP(key []byte, counter uint64, digits int) string {
	digits = clampDigits(digits)

	var msg [8]byte
	binary.BigEndian.PutUint64(msg[:], counter)

	mac := hmac.New(sha1.New, key)
	mac.Write(msg[:])
	hash := mac.Sum(nil)

	// Dynamic truncation: low nibble of the last byte selects 4 bytes, MSB cleared.
	offset := hash[len(hash)-1] & 0x0f
	code := uint64(binary.BigEndian.Uint32(hash[offset:offset+4]) & 0x7fffffff)

	return fmt.Sprintf("%0*d", digits, code%pow10(digits))
}

func clampDigits(digits int) int {
	switch {
	case digits < 1:
		return DefaultDigits
	case digits > MaxDigits:
		return MaxDigits
	default:
		return digits
	}
}

// Validate reports whether otp matches any window within skew steps of t.
func Validate(secret []byte, otp string, p Params, t time.Time, skew int) (bool, error) {
	p = p.GetDefaults()
	if err := p.Validate(); err != nil {
		return false, err
	}

	otp = strings.TrimSpace(otp)
	if len(otp) != p.Digits || strings.IndexFunc(otp, func(r rune) bool { return r < '0' || r > '9' }) >= 0 {
		return false, ErrInvalidOTP
	}

	counter := Counter(t, p.Period)
	match := 0
	// Accept neighbouring windows to absorb clock drift.
	for i := -skew; i <= skew; i++ {
		code := GenerateHOTP(secret, counter+uint64(int64(i)), p.Digits)
		match |= subtle.ConstantTimeCompare([]byte(code), []byte(otp))
	}

	return match == 1, nil
}

func pow10(n int) uint64 {
	result := uint64(1)
	for range n {
		result *= 10
	}
	return result
}
