package logger

import (
	"errors"
	"log/slog"

	"github.com/dmitrymomot/deviceauth/pkg/config"
)

var (
	// ErrInvalidLevel is returned for a level name slog cannot parse.
	ErrInvalidLevel = errors.New("logger: invalid log level")
	// ErrInvalidFormat is returned for a format other than json or text.
	ErrInvalidFormat = errors.New("logger: invalid log format")
)

// Config is the environment-driven logger configuration.
type Config struct {
	Env     string `env:"DEVICEAUTH_ENV" envDefault:"development"`
	Service string `env:"DEVICEAUTH_SERVICE" envDefault:"deviceauth"`
	Level   string `env:"DEVICEAUTH_LOG_LEVEL"`
	Format  string `env:"DEVICEAUTH_LOG_FORMAT"`
}

// Options converts cfg to factory options. An explicit level or format
// overrides the environment preset.
func (cfg Config) Options() ([]Option, error) {
	opts := []Option{WithEnvironment(cfg.Env, cfg.Service)}
	if cfg.Level != "" {
		var l slog.Level
		if err := l.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, errors.Join(ErrInvalidLevel, err)
		}
		opts = append(opts, WithLevel(l))
	}
	if cfg.Format != "" {
		f, err := ParseFormat(cfg.Format)
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithFormat(f))
	}
	return opts, nil
}

// NewFromEnv loads Config from the environment and builds a logger.
// Extra options are applied after the configured ones.
func NewFromEnv(opts ...Option) (*slog.Logger, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	base, err := cfg.Options()
	if err != nil {
		return nil, err
	}
	return New(append(base, opts...)...), nil
}
