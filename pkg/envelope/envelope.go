package envelope

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"

	"github.com/dmitrymomot/deviceauth/pkg/jose"
	"github.com/dmitrymomot/deviceauth/pkg/logger"
)

// Keys is the PEM key material of one side of the exchange.
//
// PeerCertificatePEM holds the other side's public key as a CERTIFICATE or
// PUBLIC KEY block; it encrypts outgoing bodies and verifies incoming ones.
// PrivateKeyPEM holds this side's PKCS#8 RSA key; it signs outgoing bodies
// and decrypts incoming ones.
type Keys struct {
	PeerCertificatePEM []byte
	PrivateKeyPEM      []byte
}

// Body is the wire form of an envelope.
type Body struct {
	JWS string `json:"jws"`
}

// Envelope builds and opens signed, encrypted bodies. It is safe for
// concurrent use.
type Envelope struct {
	encrypter Encrypter
	signer    Signer
	verifier  Verifier
	decrypter Decrypter
	logger    *slog.Logger
}

// New imports keys and prepares the four stages. Stages supplied through
// options take precedence and make the matching key optional.
func New(keys Keys, opts ...Option) (*Envelope, error) {
	e := &Envelope{logger: slog.Default()}
	for _, opt := range opts {
		opt(e)
	}

	if e.encrypter == nil || e.verifier == nil {
		pub, err := jose.ParsePublicKeyPEM(keys.PeerCertificatePEM)
		if err != nil {
			return nil, errors.Join(ErrInvalidKeyMaterial, err)
		}
		if e.encrypter == nil {
			if e.encrypter, err = jose.NewEncrypter(pub); err != nil {
				return nil, errors.Join(ErrInvalidKeyMaterial, err)
			}
		}
		if e.verifier == nil {
			if e.verifier, err = jose.NewVerifier(pub); err != nil {
				return nil, errors.Join(ErrInvalidKeyMaterial, err)
			}
		}
	}

	if e.signer == nil || e.decrypter == nil {
		priv, err := jose.ParsePrivateKeyPEM(keys.PrivateKeyPEM)
		if err != nil {
			return nil, errors.Join(ErrInvalidKeyMaterial, err)
		}
		if e.signer == nil {
			if e.signer, err = jose.NewSigner(priv); err != nil {
				return nil, errors.Join(ErrInvalidKeyMaterial, err)
			}
		}
		if e.decrypter == nil {
			if e.decrypter, err = jose.NewDecrypter(priv); err != nil {
				return nil, errors.Join(ErrInvalidKeyMaterial, err)
			}
		}
	}

	e.logger = e.logger.With(logger.Component("envelope"))
	return e, nil
}

// Build serializes params and returns the {"jws":"..."} request body.
func (e *Envelope) Build(ctx context.Context, params any) ([]byte, error) {
	plaintext, err := json.Marshal(params)
	if err != nil {
		e.logStage(ctx, StageSerialize, err)
		return nil, errors.Join(ErrBadParameter, err)
	}

	jws, err := e.Seal(ctx, plaintext)
	if err != nil {
		return nil, err
	}

	body, err := json.Marshal(Body{JWS: jws})
	if err != nil {
		return nil, errors.Join(ErrBadParameter, err)
	}
	return body, nil
}

// Seal encrypts plaintext for the peer and signs the result, returning the
// compact JWS.
func (e *Envelope) Seal(ctx context.Context, plaintext []byte) (string, error) {
	jwe, err := e.encrypter.Encrypt(ctx, plaintext)
	if err != nil {
		return "", e.fail(ctx, StageEncrypt, err)
	}

	jws, err := e.signer.Sign(ctx, []byte(jwe.String()))
	if err != nil {
		return "", e.fail(ctx, StageSign, err)
	}
	return jws.String(), nil
}

// Open verifies a compact JWS from the peer and decrypts its payload,
// returning the plaintext JSON text.
func (e *Envelope) Open(ctx context.Context, jws string) (string, error) {
	jwe, err := e.verifier.Verify(ctx, jws)
	if err != nil {
		return "", e.fail(ctx, StageVerify, err)
	}

	plaintext, err := e.decrypter.Decrypt(ctx, string(jwe))
	if err != nil {
		return "", e.fail(ctx, StageDecrypt, err)
	}
	return string(plaintext), nil
}

// OpenBody unwraps a {"jws":"..."} body and opens it.
func (e *Envelope) OpenBody(ctx context.Context, body []byte) (string, error) {
	var b Body
	if err := json.Unmarshal(body, &b); err != nil {
		return "", e.fail(ctx, StageUnwrap, err)
	}
	if b.JWS == "" {
		return "", e.fail(ctx, StageUnwrap, jose.ErrMalformed)
	}
	return e.Open(ctx, b.JWS)
}

// fail logs the stage and cause, then returns the coarse error. Context
// errors stay matchable so callers can tell cancellation apart.
func (e *Envelope) fail(ctx context.Context, stage string, err error) error {
	e.logStage(ctx, stage, err)
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		return errors.Join(ErrSignature, ctxErr)
	}
	return ErrSignature
}

func (e *Envelope) logStage(ctx context.Context, stage string, err error) {
	e.logger.WarnContext(ctx, "envelope stage failed", logger.Stage(stage), logger.Error(err))
}
