package envelope

import (
	"context"

	"github.com/dmitrymomot/deviceauth/pkg/jose"
)

// Encrypter produces the inner compact JWE.
type Encrypter interface {
	Encrypt(ctx context.Context, plaintext []byte) (jose.Compact, error)
}

// Signer produces the outer compact JWS over the JWE string.
type Signer interface {
	Sign(ctx context.Context, payload []byte) (jose.Compact, error)
}

// Verifier checks a compact JWS and returns its payload.
type Verifier interface {
	Verify(ctx context.Context, compact string) ([]byte, error)
}

// Decrypter opens a compact JWE and returns its plaintext.
type Decrypter interface {
	Decrypt(ctx context.Context, compact string) ([]byte, error)
}

var (
	_ Encrypter = (*jose.Encrypter)(nil)
	_ Signer    = (*jose.Signer)(nil)
	_ Verifier  = (*jose.Verifier)(nil)
	_ Decrypter = (*jose.Decrypter)(nil)
)

// Stage names reported in logs.
const (
	StageSerialize = "serialize"
	StageEncrypt   = "encrypt"
	StageSign      = "sign"
	StageVerify    = "verify"
	StageDecrypt   = "decrypt"
	StageUnwrap    = "unwrap"
)
