package authenticator

import (
	"context"
	"log/slog"
	"maps"
	"time"

	"github.com/dmitrymomot/deviceauth/pkg/envelope"
	"github.com/dmitrymomot/deviceauth/pkg/logger"
	"github.com/dmitrymomot/deviceauth/pkg/totp"
)

// Session is the device state the authenticator reads. *device.State
// implements it.
type Session interface {
	Secret() string
	IsRegistered() bool
	DeviceID() string
}

// ParamTOTP is the request parameter carrying the one-time code.
const ParamTOTP = "totp"

// Authenticator builds authenticated request bodies for one device.
type Authenticator struct {
	envelope     *envelope.Envelope
	envelopeOpts []envelope.Option
	otp          totp.Params
	session      Session
	logger       *slog.Logger
	now          func() time.Time
}

// New imports the key material in cfg and validates the TOTP settings.
// session may be nil for callers that only build unauthenticated bodies.
func New(cfg Config, session Session, opts ...Option) (*Authenticator, error) {
	a := &Authenticator{
		session: session,
		logger:  slog.Default(),
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	base := a.logger
	a.logger = base.With(logger.Component("authenticator"))

	params, err := cfg.Params()
	if err != nil {
		return nil, err
	}
	a.otp = params
	if params.PerSecond {
		a.logger.Warn("totp per-second counter enabled")
	}

	keys, err := cfg.Keys()
	if err != nil {
		return nil, err
	}
	env, err := envelope.New(keys, append([]envelope.Option{envelope.WithLogger(base)}, a.envelopeOpts...)...)
	if err != nil {
		return nil, err
	}
	a.envelope = env
	return a, nil
}

// NewFromEnv loads Config from the environment and calls New.
func NewFromEnv(session Session, opts ...Option) (*Authenticator, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, err
	}
	return New(cfg, session, opts...)
}

// Params returns the TOTP parameters in use.
func (a *Authenticator) Params() totp.Params { return a.otp }

// Envelope returns the underlying envelope.
func (a *Authenticator) Envelope() *envelope.Envelope { return a.envelope }

// BuildSignedEncryptedBody returns the request body for params.
// Cryptographic failures are envelope.ErrSignature; unserializable params
// are envelope.ErrBadParameter.
func (a *Authenticator) BuildSignedEncryptedBody(ctx context.Context, params map[string]any) ([]byte, error) {
	if params == nil {
		params = map[string]any{}
	}
	return a.envelope.Build(ctx, params)
}

// CurrentOTP returns the code for secret at the current time. Digits of zero
// or less use the configured width.
func (a *Authenticator) CurrentOTP(secret string, digits int) (string, error) {
	p := a.otp
	if digits > 0 {
		p.Digits = digits
	}
	code, err := totp.GenerateFromBase32(secret, p, a.now())
	if err != nil {
		a.logger.Debug("otp generation failed", logger.Error(err))
		return "", err
	}
	return code, nil
}

// OTPFromSession returns the current code for the registered session.
func (a *Authenticator) OTPFromSession() (string, error) {
	if a.session == nil || !a.session.IsRegistered() {
		return "", ErrDeviceNotRegistered
	}
	return a.CurrentOTP(a.session.Secret(), 0)
}

// AuthenticatedBody adds the session's current code to a copy of params
// under "totp" and builds the request body. An existing "totp" entry is
// replaced.
func (a *Authenticator) AuthenticatedBody(ctx context.Context, params map[string]any) ([]byte, error) {
	code, err := a.OTPFromSession()
	if err != nil {
		return nil, err
	}
	withCode := make(map[string]any, len(params)+1)
	maps.Copy(withCode, params)
	withCode[ParamTOTP] = code
	return a.envelope.Build(ctx, withCode)
}

// Open verifies and decrypts a {"jws":"..."} response body.
func (a *Authenticator) Open(ctx context.Context, body []byte) (string, error) {
	return a.envelope.OpenBody(ctx, body)
}
