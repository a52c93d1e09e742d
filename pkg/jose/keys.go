package jose

import (
	"crypto/rsa"
	"crypto/x509"
	"encoding/pem"
	"errors"
)

// MinKeyBits is the smallest accepted RSA modulus.
const MinKeyBits = 2048

// ParsePublicKeyPEM imports an RSA public key from the first PEM block of
// data. CERTIFICATE (X.509) and PUBLIC KEY (SPKI) blocks are accepted.
func ParsePublicKeyPEM(data []byte) (*rsa.PublicKey, error) {
	block, _ := pem.Decode(data)
	if block == nil {
		return nil, ErrInvalidPEM
	}

	var pub any
	switch block.Type {
	case "CERTIFICATE":
		cert, err := x509.ParseCertificate(block.Bytes)
		if err != nil {
			return nil, errors.Join(ErrInvalidPEM, err)
		}
		pub = cert.PublicKey
	case "PUBLIC KEY":
		key, err := x509.ParsePKIXPublicKey(block.Bytes)
		if err != nil {
			return nil, errors.Join(ErrInvalidPEM, err)
		}
		pub = key
	default:
		return nil, ErrInvalidPEM
	}

	key, ok := pub.(*rsa.PublicKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	if key.N.BitLen() < MinKeyBits {
		return nil, ErrKeyTooSmall
	}
	return key, nil
}

// ParsePrivateKeyPEM imports an RSA private key from a PKCS#8 PRIVATE KEY block.
func ParsePrivateKeyPEM(data []byte) (*rsa.PrivateKey, error) {
	block, _ := pem.Decode(data)
	if block == nil || block.Type != "PRIVATE KEY" {
		return nil, ErrInvalidPEM
	}

	parsed, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		return nil, errors.Join(ErrInvalidPEM, err)
	}

	key, ok := parsed.(*rsa.PrivateKey)
	if !ok {
		return nil, ErrUnsupportedKey
	}
	if key.N.BitLen() < MinKeyBits {
		return nil, ErrKeyTooSmall
	}
	return key, nil
}

func checkPublicKey(key *rsa.PublicKey) error {
	if key == nil {
		return ErrMissingKey
	}
	if key.N == nil || key.N.BitLen() < MinKeyBits {
		return ErrKeyTooSmall
	}
	return nil
}
