package secrets

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/base64"
	"errors"
)

// Seal encrypts plaintext for deviceID. The result is nonce || ciphertext || tag.
func Seal(appKey []byte, deviceID string, plaintext []byte) ([]byte, error) {
	gcm, err := newGCM(appKey, deviceID)
	if err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}

	nonce := make([]byte, gcm.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, errors.Join(ErrEncryptionFailed, err)
	}
	return gcm.Seal(nonce, nonce, plaintext, []byte(deviceID)), nil
}

// Open reverses Seal.
func Open(appKey []byte, deviceID string, sealed []byte) ([]byte, error) {
	gcm, err := newGCM(appKey, deviceID)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	n := gcm.NonceSize()
	if len(sealed) < n+gcm.Overhead() {
		return nil, ErrInvalidCiphertext
	}
	plaintext, err := gcm.Open(nil, sealed[:n], sealed[n:], []byte(deviceID))
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

// SealString seals s and returns standard base64.
func SealString(appKey []byte, deviceID, s string) (string, error) {
	sealed, err := Seal(appKey, deviceID, []byte(s))
	if err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(sealed), nil
}

// OpenString reverses SealString.
func OpenString(appKey []byte, deviceID, sealed string) (string, error) {
	raw, err := base64.StdEncoding.DecodeString(sealed)
	if err != nil {
		return "", errors.Join(ErrInvalidCiphertext, err)
	}
	plaintext, err := Open(appKey, deviceID, raw)
	if err != nil {
		return "", err
	}
	return string(plaintext), nil
}

func newGCM(appKey []byte, deviceID string) (cipher.AEAD, error) {
	if err := validate(appKey, deviceID); err != nil {
		return nil, err
	}
	key, err := deriveKey(appKey, deviceID)
	if err != nil {
		return nil, err
	}
	defer clear(key)

	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
