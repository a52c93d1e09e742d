package jose_test

import (
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"encoding/pem"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/deviceauth/internal/testkeys"
	"github.com/dmitrymomot/deviceauth/pkg/jose"
)

func TestParsePublicKeyPEM(t *testing.T) {
	t.Parallel()
	pair := testkeys.Server(t)

	fromCert, err := jose.ParsePublicKeyPEM(pair.CertPEM)
	require.NoError(t, err)
	assert.True(t, fromCert.Equal(&pair.Key.PublicKey))

	fromSPKI, err := jose.ParsePublicKeyPEM(pair.PublicKeyPEM)
	require.NoError(t, err)
	assert.True(t, fromSPKI.Equal(&pair.Key.PublicKey))
}

func TestParsePrivateKeyPEM(t *testing.T) {
	t.Parallel()
	pair := testkeys.Device(t)

	key, err := jose.ParsePrivateKeyPEM(pair.KeyPEM)
	require.NoError(t, err)
	assert.True(t, key.Equal(pair.Key))
}

func TestParseKeys_Errors(t *testing.T) {
	t.Parallel()
	pair := testkeys.Device(t)

	_, err := jose.ParsePublicKeyPEM([]byte("not pem"))
	assert.ErrorIs(t, err, jose.ErrInvalidPEM)

	_, err = jose.ParsePublicKeyPEM(pair.KeyPEM)
	assert.ErrorIs(t, err, jose.ErrInvalidPEM)

	_, err = jose.ParsePrivateKeyPEM(pair.CertPEM)
	assert.ErrorIs(t, err, jose.ErrInvalidPEM)

	_, err = jose.ParsePrivateKeyPEM(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: []byte("garbage")}))
	assert.ErrorIs(t, err, jose.ErrInvalidPEM)

	ec, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	require.NoError(t, err)
	der, err := x509.MarshalPKCS8PrivateKey(ec)
	require.NoError(t, err)
	_, err = jose.ParsePrivateKeyPEM(pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: der}))
	assert.ErrorIs(t, err, jose.ErrUnsupportedKey)

	spki, err := x509.MarshalPKIXPublicKey(&ec.PublicKey)
	require.NoError(t, err)
	_, err = jose.ParsePublicKeyPEM(pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: spki}))
	assert.ErrorIs(t, err, jose.ErrUnsupportedKey)
}

func TestParseKeys_TooSmall(t *testing.T) {
	t.Parallel()
	small, err := testkeys.Generate("small", 1024)
	require.NoError(t, err)

	_, err = jose.ParsePrivateKeyPEM(small.KeyPEM)
	assert.ErrorIs(t, err, jose.ErrKeyTooSmall)
	_, err = jose.ParsePublicKeyPEM(small.CertPEM)
	assert.ErrorIs(t, err, jose.ErrKeyTooSmall)
}
