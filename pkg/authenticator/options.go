package authenticator

import (
	"log/slog"
	"time"

	"github.com/dmitrymomot/deviceauth/pkg/envelope"
)

// Option configures an Authenticator.
type Option func(*Authenticator)

// WithLogger sets the logger. It is also handed to the envelope.
func WithLogger(l *slog.Logger) Option {
	return func(a *Authenticator) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithClock overrides the time source used for codes.
func WithClock(now func() time.Time) Option {
	return func(a *Authenticator) {
		if now != nil {
			a.now = now
		}
	}
}

// WithEnvelopeOptions passes options through to envelope.New, for example
// hardware-backed signing stages.
func WithEnvelopeOptions(opts ...envelope.Option) Option {
	return func(a *Authenticator) {
		a.envelopeOpts = append(a.envelopeOpts, opts...)
	}
}
