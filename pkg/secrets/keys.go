package secrets

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// KeySize is the size of the application key and of derived keys.
	KeySize = 32

	// info separates these keys from any other HKDF use of the app key.
	info = "deviceauth-secret-v1"
)

// GenerateKey returns a random application key.
func GenerateKey() ([]byte, error) {
	key := make([]byte, KeySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	return key, nil
}

func validate(appKey []byte, deviceID string) error {
	if len(appKey) != KeySize {
		return ErrInvalidAppKey
	}
	if deviceID == "" {
		return ErrMissingDeviceID
	}
	return nil
}

// deriveKey returns the per-device key. Callers clear it after use.
func deriveKey(appKey []byte, deviceID string) ([]byte, error) {
	r := hkdf.New(sha256.New, appKey, []byte(deviceID), []byte(info))
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(r, key); err != nil {
		return nil, errors.Join(ErrKeyDerivationFailed, err)
	}
	return key, nil
}
