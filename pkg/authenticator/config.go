package authenticator

import (
	"errors"

	"github.com/dmitrymomot/deviceauth/pkg/config"
	"github.com/dmitrymomot/deviceauth/pkg/envelope"
	"github.com/dmitrymomot/deviceauth/pkg/totp"
)

// Config is the authenticator configuration. Inline PEM values take
// precedence over the *_FILE variants, which name files to read.
type Config struct {
	PeerCert       string `env:"DEVICEAUTH_PEER_CERT"`
	PeerCertFile   string `env:"DEVICEAUTH_PEER_CERT_FILE,file"`
	PrivateKey     string `env:"DEVICEAUTH_PRIVATE_KEY"`
	PrivateKeyFile string `env:"DEVICEAUTH_PRIVATE_KEY_FILE,file"`

	// TOTP reads DEVICEAUTH_TOTP_DIGITS, DEVICEAUTH_TOTP_PERIOD and
	// DEVICEAUTH_TOTP_PER_SECOND.
	TOTP totp.Config `envPrefix:"DEVICEAUTH_"`
}

// LoadConfig reads Config from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Keys returns the envelope key material.
func (c Config) Keys() (envelope.Keys, error) {
	peer := firstNonEmpty(c.PeerCert, c.PeerCertFile)
	priv := firstNonEmpty(c.PrivateKey, c.PrivateKeyFile)

	var errs []error
	if peer == "" {
		errs = append(errs, errors.New("peer certificate: set DEVICEAUTH_PEER_CERT or DEVICEAUTH_PEER_CERT_FILE"))
	}
	if priv == "" {
		errs = append(errs, errors.New("private key: set DEVICEAUTH_PRIVATE_KEY or DEVICEAUTH_PRIVATE_KEY_FILE"))
	}
	if len(errs) > 0 {
		return envelope.Keys{}, errors.Join(append([]error{ErrMissingKeyMaterial}, errs...)...)
	}

	return envelope.Keys{
		PeerCertificatePEM: []byte(peer),
		PrivateKeyPEM:      []byte(priv),
	}, nil
}

// Params returns validated TOTP parameters.
func (c Config) Params() (totp.Params, error) {
	p := c.TOTP.Params()
	if err := p.Validate(); err != nil {
		return totp.Params{}, errors.Join(ErrInvalidConfig, err)
	}
	return p, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
