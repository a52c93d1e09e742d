// Package testkeys provides shared RSA key material for tests.
package testkeys

import (
	"sync"
	"testing"
	"time"

	"github.com/dmitrymomot/deviceauth/internal/keygen"
)

// Pair is an RSA key with its self-signed certificate in every form the
// envelope accepts.
type Pair = keygen.Pair

var (
	mu    sync.Mutex
	pairs = map[string]Pair{}
)

// Device returns the shared device key pair.
func Device(tb testing.TB) Pair { return Named(tb, "device") }

// Server returns the shared backend key pair.
func Server(tb testing.TB) Pair { return Named(tb, "server") }

// Named returns a 2048-bit pair for name, generating it on first use.
func Named(tb testing.TB, name string) Pair {
	tb.Helper()
	mu.Lock()
	defer mu.Unlock()

	if p, ok := pairs[name]; ok {
		return p
	}
	p, err := Generate(name, 2048)
	if err != nil {
		tb.Fatalf("generate %s key pair: %v", name, err)
	}
	pairs[name] = p
	return p
}

// Generate creates a fresh, uncached pair valid for a day.
func Generate(commonName string, bits int) (Pair, error) {
	return keygen.Generate(commonName, bits, 24*time.Hour)
}
