package jose

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/json"
	"errors"
)

var pssOptions = &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthEqualsHash, Hash: crypto.SHA256}

// Signer produces PS256 compact signatures.
type Signer struct {
	key    *rsa.PrivateKey
	header []byte
}

// NewSigner creates a signing stage. The "typ" header is JOSE and "cty"
// defaults to JWE, declaring that the payload is an encrypted compact value.
func NewSigner(key *rsa.PrivateKey, opts ...Option) (*Signer, error) {
	if key == nil {
		return nil, ErrMissingKey
	}
	if err := checkPublicKey(&key.PublicKey); err != nil {
		return nil, err
	}
	o := newOptions(ContentTypeJWE, opts)
	header, err := json.Marshal(Header{
		Algorithm:   AlgPS256,
		Type:        TypeJOSE,
		ContentType: o.contentType,
	})
	if err != nil {
		return nil, err
	}
	return &Signer{key: key, header: header}, nil
}

// Sign returns header.payload.signature over payload.
func (s *Signer) Sign(ctx context.Context, payload []byte) (Compact, error) {
	if err := ctx.Err(); err != nil {
		return Compact{}, err
	}

	c := NewCompact(s.header, payload)
	digest := sha256.Sum256([]byte(c.SigningInput()))

	sig, err := rsa.SignPSS(rand.Reader, s.key, crypto.SHA256, digest[:], pssOptions)
	if err != nil {
		return Compact{}, errors.Join(ErrSigningFailed, err)
	}
	return c.with(sig), nil
}

// Verifier checks PS256 compact signatures against a sender public key.
type Verifier struct {
	key *rsa.PublicKey
}

// NewVerifier creates a verification stage.
func NewVerifier(key *rsa.PublicKey) (*Verifier, error) {
	if err := checkPublicKey(key); err != nil {
		return nil, err
	}
	return &Verifier{key: key}, nil
}

// Verify parses s, checks the signature and returns the payload.
func (v *Verifier) Verify(ctx context.Context, s string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c, err := ParseCompact(s, SignedSegments)
	if err != nil {
		return nil, err
	}
	h, err := c.Header()
	if err != nil {
		return nil, err
	}
	// Only PS256 is accepted regardless of what the header asks for.
	if h.Algorithm != AlgPS256 {
		return nil, ErrUnsupportedAlgorithm
	}

	sig, err := c.Segment(2)
	if err != nil {
		return nil, err
	}
	digest := sha256.Sum256([]byte(c.SigningInput()))
	if err := rsa.VerifyPSS(v.key, crypto.SHA256, digest[:], sig, &rsa.PSSOptions{SaltLength: rsa.PSSSaltLengthAuto}); err != nil {
		return nil, errors.Join(ErrInvalidSignature, err)
	}

	return c.Segment(1)
}
