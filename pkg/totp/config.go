package totp

// Config holds code generation settings. The env tags are relative: embed it
// with an envPrefix (authenticator reads DEVICEAUTH_TOTP_*). A zero Period
// selects the 30 second default; the per-second counter is only enabled
// through PerSecond.
type Config struct {
	Digits    int   `env:"TOTP_DIGITS" envDefault:"6"`
	Period    int64 `env:"TOTP_PERIOD" envDefault:"30"`
	PerSecond bool  `env:"TOTP_PER_SECOND"`
}

// Params converts the configuration into generation parameters.
func (c Config) Params() Params {
	return Params{
		Digits:    c.Digits,
		Period:    c.Period,
		PerSecond: c.PerSecond,
	}.GetDefaults()
}
