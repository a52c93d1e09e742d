package jose_test

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"strings"
	"testing"

	gojose "github.com/go-jose/go-jose/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/deviceauth/internal/testkeys"
	"github.com/dmitrymomot/deviceauth/pkg/jose"
)

// flipSegmentByte flips one decoded byte of segment i and re-encodes it.
func flipSegmentByte(t *testing.T, compact string, i, at int) string {
	t.Helper()
	parts := strings.Split(compact, ".")
	raw, err := base64.RawURLEncoding.DecodeString(parts[i])
	require.NoError(t, err)
	require.NotEmpty(t, raw)
	raw[at%len(raw)] ^= 0x01
	parts[i] = base64.RawURLEncoding.EncodeToString(raw)
	return strings.Join(parts, ".")
}

func decodeHeader(t *testing.T, compact string) map[string]any {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(strings.SplitN(compact, ".", 2)[0])
	require.NoError(t, err)
	var h map[string]any
	require.NoError(t, json.Unmarshal(raw, &h))
	return h
}

func TestEncryptDecrypt(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := testkeys.Server(t)

	enc, err := jose.NewEncrypter(&server.Key.PublicKey)
	require.NoError(t, err)
	dec, err := jose.NewDecrypter(server.Key)
	require.NoError(t, err)

	plaintext := []byte(`{"deviceId":"d1","period":6000}`)
	c, err := enc.Encrypt(ctx, plaintext)
	require.NoError(t, err)
	require.Equal(t, jose.EncryptedSegments, c.Len())

	rawHeader, err := c.Segment(0)
	require.NoError(t, err)
	assert.Equal(t, `{"alg":"RSA-OAEP-256","enc":"A256GCM","cty":"JSON"}`, string(rawHeader))

	iv, err := c.Segment(2)
	require.NoError(t, err)
	assert.Len(t, iv, 12)
	tag, err := c.Segment(4)
	require.NoError(t, err)
	assert.Len(t, tag, 16)
	wrapped, err := c.Segment(1)
	require.NoError(t, err)
	assert.Len(t, wrapped, 256)

	got, err := dec.Decrypt(ctx, c.String())
	require.NoError(t, err)
	assert.Equal(t, plaintext, got)

	// Fresh key and IV per call.
	again, err := enc.Encrypt(ctx, plaintext)
	require.NoError(t, err)
	assert.NotEqual(t, c.String(), again.String())
}

func TestDecrypt_Tampered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	server := testkeys.Server(t)

	enc, err := jose.NewEncrypter(&server.Key.PublicKey)
	require.NoError(t, err)
	dec, err := jose.NewDecrypter(server.Key)
	require.NoError(t, err)

	c, err := enc.Encrypt(ctx, []byte(`{"a":1}`))
	require.NoError(t, err)
	s := c.String()

	for _, at := range []int{0, 3, 6} {
		got, err := dec.Decrypt(ctx, flipSegmentByte(t, s, 3, at))
		assert.ErrorIs(t, err, jose.ErrDecryptionFailed, "ciphertext byte %d", at)
		assert.Nil(t, got)
	}

	got, err := dec.Decrypt(ctx, flipSegmentByte(t, s, 4, 0))
	assert.ErrorIs(t, err, jose.ErrDecryptionFailed)
	assert.Nil(t, got)

	got, err = dec.Decrypt(ctx, flipSegmentByte(t, s, 2, 0))
	assert.ErrorIs(t, err, jose.ErrDecryptionFailed)
	assert.Nil(t, got)

	// The protected header is authenticated as additional data.
	parts := strings.Split(s, ".")
	parts[0] = base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"RSA-OAEP-256","enc":"A256GCM"}`))
	got, err = dec.Decrypt(ctx, strings.Join(parts, "."))
	assert.ErrorIs(t, err, jose.ErrDecryptionFailed)
	assert.Nil(t, got)
}

func TestDecrypt_WrongKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	enc, err := jose.NewEncrypter(&testkeys.Server(t).Key.PublicKey)
	require.NoError(t, err)
	dec, err := jose.NewDecrypter(testkeys.Device(t).Key)
	require.NoError(t, err)

	c, err := enc.Encrypt(ctx, []byte("secret"))
	require.NoError(t, err)
	_, err = dec.Decrypt(ctx, c.String())
	assert.ErrorIs(t, err, jose.ErrDecryptionFailed)
}

func TestDecrypt_UnsupportedAlgorithm(t *testing.T) {
	t.Parallel()
	dec, err := jose.NewDecrypter(testkeys.Server(t).Key)
	require.NoError(t, err)

	c := jose.NewCompact([]byte(`{"alg":"RSA1_5","enc":"A256GCM"}`), []byte("k"), make([]byte, 12), []byte("c"), make([]byte, 16))
	_, err = dec.Decrypt(context.Background(), c.String())
	assert.ErrorIs(t, err, jose.ErrUnsupportedAlgorithm)
}

func TestSignVerify(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device := testkeys.Device(t)

	signer, err := jose.NewSigner(device.Key)
	require.NoError(t, err)
	verifier, err := jose.NewVerifier(&device.Key.PublicKey)
	require.NoError(t, err)

	c, err := signer.Sign(ctx, []byte("a.b.c.d.e"))
	require.NoError(t, err)
	require.Equal(t, jose.SignedSegments, c.Len())
	assert.Equal(t, map[string]any{"alg": "PS256", "typ": "JOSE", "cty": "JWE"}, decodeHeader(t, c.String()))

	rawHeader, err := c.Segment(0)
	require.NoError(t, err)
	assert.Equal(t, `{"alg":"PS256","typ":"JOSE","cty":"JWE"}`, string(rawHeader))

	payload, err := verifier.Verify(ctx, c.String())
	require.NoError(t, err)
	assert.Equal(t, "a.b.c.d.e", string(payload))
}

func TestVerify_Tampered(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device := testkeys.Device(t)

	signer, err := jose.NewSigner(device.Key)
	require.NoError(t, err)
	verifier, err := jose.NewVerifier(&device.Key.PublicKey)
	require.NoError(t, err)

	c, err := signer.Sign(ctx, []byte("payload"))
	require.NoError(t, err)
	s := c.String()

	for _, at := range []int{0, 17, 128, 255} {
		got, err := verifier.Verify(ctx, flipSegmentByte(t, s, 2, at))
		assert.ErrorIs(t, err, jose.ErrInvalidSignature, "signature byte %d", at)
		assert.Nil(t, got)
	}

	got, err := verifier.Verify(ctx, flipSegmentByte(t, s, 1, 0))
	assert.ErrorIs(t, err, jose.ErrInvalidSignature)
	assert.Nil(t, got)
}

func TestVerify_WrongKeyAndAlgorithm(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	signer, err := jose.NewSigner(testkeys.Device(t).Key)
	require.NoError(t, err)
	verifier, err := jose.NewVerifier(&testkeys.Server(t).Key.PublicKey)
	require.NoError(t, err)

	c, err := signer.Sign(ctx, []byte("payload"))
	require.NoError(t, err)
	_, err = verifier.Verify(ctx, c.String())
	assert.ErrorIs(t, err, jose.ErrInvalidSignature)

	none := jose.NewCompact([]byte(`{"alg":"none"}`), []byte("payload"), nil)
	_, err = verifier.Verify(ctx, none.String())
	assert.ErrorIs(t, err, jose.ErrUnsupportedAlgorithm)
}

func TestStages_Cancelled(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	device := testkeys.Device(t)
	signer, err := jose.NewSigner(device.Key)
	require.NoError(t, err)
	_, err = signer.Sign(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)

	enc, err := jose.NewEncrypter(&device.Key.PublicKey)
	require.NoError(t, err)
	_, err = enc.Encrypt(ctx, []byte("x"))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWithContentType(t *testing.T) {
	t.Parallel()
	enc, err := jose.NewEncrypter(&testkeys.Server(t).Key.PublicKey, jose.WithContentType(""))
	require.NoError(t, err)
	c, err := enc.Encrypt(context.Background(), []byte("{}"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"alg": "RSA-OAEP-256", "enc": "A256GCM"}, decodeHeader(t, c.String()))
}

func TestNewStages_MissingKey(t *testing.T) {
	t.Parallel()
	_, err := jose.NewEncrypter(nil)
	assert.ErrorIs(t, err, jose.ErrMissingKey)
	_, err = jose.NewDecrypter(nil)
	assert.ErrorIs(t, err, jose.ErrMissingKey)
	_, err = jose.NewSigner(nil)
	assert.ErrorIs(t, err, jose.ErrMissingKey)
	_, err = jose.NewVerifier(nil)
	assert.ErrorIs(t, err, jose.ErrMissingKey)
}

// The nested output must be readable by an independent JOSE implementation.
func TestInterop_GoJoseReadsOurEnvelope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, server := testkeys.Device(t), testkeys.Server(t)

	enc, err := jose.NewEncrypter(&server.Key.PublicKey)
	require.NoError(t, err)
	signer, err := jose.NewSigner(device.Key)
	require.NoError(t, err)

	inner, err := enc.Encrypt(ctx, []byte(`{"deviceId":"d1"}`))
	require.NoError(t, err)
	outer, err := signer.Sign(ctx, []byte(inner.String()))
	require.NoError(t, err)

	jws, err := gojose.ParseSigned(outer.String(), []gojose.SignatureAlgorithm{gojose.PS256})
	require.NoError(t, err)
	payload, err := jws.Verify(&device.Key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, inner.String(), string(payload))

	jwe, err := gojose.ParseEncrypted(string(payload), []gojose.KeyAlgorithm{gojose.RSA_OAEP_256}, []gojose.ContentEncryption{gojose.A256GCM})
	require.NoError(t, err)
	plaintext, err := jwe.Decrypt(server.Key)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deviceId":"d1"}`, string(plaintext))
}

func TestInterop_WeReadGoJoseEnvelope(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, server := testkeys.Device(t), testkeys.Server(t)

	encrypter, err := gojose.NewEncrypter(gojose.A256GCM, gojose.Recipient{Algorithm: gojose.RSA_OAEP_256, Key: &device.Key.PublicKey}, nil)
	require.NoError(t, err)
	obj, err := encrypter.Encrypt([]byte(`{"status":200}`))
	require.NoError(t, err)
	inner, err := obj.CompactSerialize()
	require.NoError(t, err)

	signer, err := gojose.NewSigner(gojose.SigningKey{Algorithm: gojose.PS256, Key: server.Key}, (&gojose.SignerOptions{}).WithContentType("JWE"))
	require.NoError(t, err)
	signed, err := signer.Sign([]byte(inner))
	require.NoError(t, err)
	outer, err := signed.CompactSerialize()
	require.NoError(t, err)

	verifier, err := jose.NewVerifier(&server.Key.PublicKey)
	require.NoError(t, err)
	payload, err := verifier.Verify(ctx, outer)
	require.NoError(t, err)

	dec, err := jose.NewDecrypter(device.Key)
	require.NoError(t, err)
	plaintext, err := dec.Decrypt(ctx, string(payload))
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200}`, string(plaintext))
}
