package config

import (
	"errors"
	"fmt"
	"reflect"
	"sync"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

// cache holds one parsed value per configuration type.
type cache struct {
	mu     sync.Mutex
	values map[reflect.Type]any
}

var (
	global = &cache{values: make(map[reflect.Type]any)}

	defaultEnvLoaded sync.Once
)

// Load parses environment variables into v using `env` struct tags.
// The optional ./.env file is read once per process before the first parse.
// Each configuration type is parsed once; later calls copy the cached value.
//
//	type Config struct {
//	    PeerCert string `env:"DEVICEAUTH_PEER_CERT_FILE,file"`
//	    Digits   int    `env:"DEVICEAUTH_TOTP_DIGITS" envDefault:"6"`
//	}
//
//	var cfg Config
//	if err := config.Load(&cfg); err != nil { ... }
func Load[T any](v *T) error {
	if v == nil {
		return ErrNilPointer
	}
	defaultEnvLoaded.Do(func() {
		// Missing .env is not an error.
		_ = godotenv.Load()
	})

	key := typeOf[T]()

	global.mu.Lock()
	defer global.mu.Unlock()

	if cached, ok := global.values[key]; ok {
		*v = cached.(T)
		return nil
	}

	var parsed T
	if err := env.Parse(&parsed); err != nil {
		return errors.Join(ErrParsingConfig, err)
	}
	global.values[key] = parsed
	*v = parsed
	return nil
}

// MustLoad is like Load but panics on failure.
func MustLoad[T any](v *T) {
	if err := Load(v); err != nil {
		panic(fmt.Sprintf("config: load %s: %v", typeOf[T](), err))
	}
}

// Reload drops the cached value of T and parses the environment again.
func Reload[T any](v *T) error {
	global.mu.Lock()
	delete(global.values, typeOf[T]())
	global.mu.Unlock()
	return Load(v)
}

// LoadEnv reads the given .env files into the process environment without
// overriding variables that are already set. Earlier files win. With no
// paths it reads ./.env.
func LoadEnv(paths ...string) error {
	if err := godotenv.Load(paths...); err != nil {
		return errors.Join(ErrEnvFile, err)
	}
	return nil
}

// ResetCache forgets every cached configuration.
func ResetCache() {
	global.mu.Lock()
	clear(global.values)
	global.mu.Unlock()
}

func typeOf[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}
