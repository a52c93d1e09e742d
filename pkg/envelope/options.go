package envelope

import "log/slog"

// Option configures an Envelope.
type Option func(*Envelope)

// WithLogger sets the logger used for stage diagnostics.
// Nil loggers are ignored.
func WithLogger(l *slog.Logger) Option {
	return func(e *Envelope) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithEncrypter replaces the encryption stage built from the peer certificate.
func WithEncrypter(enc Encrypter) Option {
	return func(e *Envelope) { e.encrypter = enc }
}

// WithSigner replaces the signing stage built from the private key.
func WithSigner(s Signer) Option {
	return func(e *Envelope) { e.signer = s }
}

// WithVerifier replaces the verification stage built from the peer certificate.
func WithVerifier(v Verifier) Option {
	return func(e *Envelope) { e.verifier = v }
}

// WithDecrypter replaces the decryption stage built from the private key.
func WithDecrypter(d Decrypter) Option {
	return func(e *Envelope) { e.decrypter = d }
}
