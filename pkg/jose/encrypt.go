package jose

import (
	"context"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"slices"
)

const (
	cekSize = 32 // A256GCM content encryption key
	ivSize  = 12
	tagSize = 16
)

// Encrypter produces RSA-OAEP-256 / A256GCM compact encryptions for a
// recipient public key.
type Encrypter struct {
	key    *rsa.PublicKey
	header []byte
}

// NewEncrypter creates an encryption stage for the recipient key.
// The "cty" header defaults to JSON.
func NewEncrypter(key *rsa.PublicKey, opts ...Option) (*Encrypter, error) {
	if err := checkPublicKey(key); err != nil {
		return nil, err
	}
	o := newOptions(ContentTypeJSON, opts)
	header, err := json.Marshal(Header{
		Algorithm:   AlgRSAOAEP256,
		Encryption:  EncA256GCM,
		ContentType: o.contentType,
	})
	if err != nil {
		return nil, err
	}
	return &Encrypter{key: key, header: header}, nil
}

// Encrypt seals plaintext under a fresh content key wrapped for the recipient.
func (e *Encrypter) Encrypt(ctx context.Context, plaintext []byte) (Compact, error) {
	if err := ctx.Err(); err != nil {
		return Compact{}, err
	}

	cek := make([]byte, cekSize)
	if _, err := rand.Read(cek); err != nil {
		return Compact{}, errors.Join(ErrEncryptionFailed, err)
	}
	defer clear(cek)

	wrapped, err := rsa.EncryptOAEP(sha256.New(), rand.Reader, e.key, cek, nil)
	if err != nil {
		return Compact{}, errors.Join(ErrEncryptionFailed, err)
	}

	gcm, err := newGCM(cek)
	if err != nil {
		return Compact{}, errors.Join(ErrEncryptionFailed, err)
	}

	iv := make([]byte, ivSize)
	if _, err := rand.Read(iv); err != nil {
		return Compact{}, errors.Join(ErrEncryptionFailed, err)
	}

	c := NewCompact(e.header)
	sealed := gcm.Seal(nil, iv, plaintext, []byte(c.Protected()))
	ciphertext, tag := sealed[:len(sealed)-tagSize], sealed[len(sealed)-tagSize:]

	return c.with(wrapped, iv, ciphertext, tag), nil
}

// Decrypter opens RSA-OAEP-256 / A256GCM compact encryptions with the
// recipient private key.
type Decrypter struct {
	key *rsa.PrivateKey
}

// NewDecrypter creates a decryption stage.
func NewDecrypter(key *rsa.PrivateKey) (*Decrypter, error) {
	if key == nil {
		return nil, ErrMissingKey
	}
	if err := checkPublicKey(&key.PublicKey); err != nil {
		return nil, err
	}
	return &Decrypter{key: key}, nil
}

// Decrypt parses s, unwraps the content key and authenticates the ciphertext.
// No plaintext is returned unless the tag verifies.
func (d *Decrypter) Decrypt(ctx context.Context, s string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := ParseCompact(s, EncryptedSegments)
	if err != nil {
		return nil, err
	}
	h, err := c.Header()
	if err != nil {
		return nil, err
	}
	if h.Algorithm != AlgRSAOAEP256 || h.Encryption != EncA256GCM {
		return nil, ErrUnsupportedAlgorithm
	}

	parts := make([][]byte, 0, 4)
	for i := 1; i < EncryptedSegments; i++ {
		p, err := c.Segment(i)
		if err != nil {
			return nil, err
		}
		parts = append(parts, p)
	}
	wrapped, iv, ciphertext, tag := parts[0], parts[1], parts[2], parts[3]
	if len(iv) != ivSize || len(tag) != tagSize {
		return nil, ErrMalformed
	}

	cek, err := rsa.DecryptOAEP(sha256.New(), nil, d.key, wrapped, nil)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	defer clear(cek)
	if len(cek) != cekSize {
		return nil, ErrDecryptionFailed
	}

	gcm, err := newGCM(cek)
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}

	plaintext, err := gcm.Open(nil, iv, slices.Concat(ciphertext, tag), []byte(c.Protected()))
	if err != nil {
		return nil, errors.Join(ErrDecryptionFailed, err)
	}
	return plaintext, nil
}

func newGCM(key []byte) (cipher.AEAD, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, err
	}
	return cipher.NewGCM(block)
}
