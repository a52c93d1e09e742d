package envelope_test

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"log/slog"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/deviceauth/internal/testkeys"
	"github.com/dmitrymomot/deviceauth/pkg/envelope"
	"github.com/dmitrymomot/deviceauth/pkg/jose"
)

// pair returns the device-side and backend-side envelopes of one exchange.
func pair(t *testing.T, opts ...envelope.Option) (device, server *envelope.Envelope) {
	t.Helper()
	d, s := testkeys.Device(t), testkeys.Server(t)

	device, err := envelope.New(envelope.Keys{PeerCertificatePEM: s.CertPEM, PrivateKeyPEM: d.KeyPEM}, opts...)
	require.NoError(t, err)
	server, err = envelope.New(envelope.Keys{PeerCertificatePEM: d.CertPEM, PrivateKeyPEM: s.KeyPEM}, opts...)
	require.NoError(t, err)
	return device, server
}

func flip(t *testing.T, segment string, at int) string {
	t.Helper()
	raw, err := base64.RawURLEncoding.DecodeString(segment)
	require.NoError(t, err)
	raw[at%len(raw)] ^= 0x80
	return base64.RawURLEncoding.EncodeToString(raw)
}

func unwrap(t *testing.T, body []byte) string {
	t.Helper()
	var b envelope.Body
	require.NoError(t, json.Unmarshal(body, &b))
	return b.JWS
}

func TestBuildOpen_RegisterDeviceScenario(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, server := pair(t)

	body, err := device.Build(ctx, map[string]any{"deviceId": "d1", "period": 6000})
	require.NoError(t, err)

	var wire map[string]any
	require.NoError(t, json.Unmarshal(body, &wire))
	require.Len(t, wire, 1)
	jws, ok := wire["jws"].(string)
	require.True(t, ok)
	require.Len(t, strings.Split(jws, "."), 3)

	plaintext, err := server.OpenBody(ctx, body)
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal([]byte(plaintext), &got))
	assert.Equal(t, map[string]any{"deviceId": "d1", "period": float64(6000)}, got)
}

func TestBuildOpen_RoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, server := pair(t)

	tests := []struct {
		name   string
		params any
	}{
		{"empty map", map[string]any{}},
		{"strings", map[string]any{"transactionId": "tx-1", "totp": "012345"}},
		{"nested", map[string]any{"card": map[string]any{"dg1": "AQID", "sod": []any{"a", "b"}}, "ok": true}},
		{"unicode", map[string]any{"name": "NGUYỄN VĂN A", "note": "<&>"}},
		{"null value", map[string]any{"face": nil}},
		{"struct", struct {
			DeviceID string `json:"deviceId"`
			Period   int    `json:"period"`
		}{"d2", 30}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			body, err := device.Build(ctx, tt.params)
			require.NoError(t, err)

			plaintext, err := server.OpenBody(ctx, body)
			require.NoError(t, err)

			want, err := json.Marshal(tt.params)
			require.NoError(t, err)
			assert.JSONEq(t, string(want), plaintext)
		})
	}
}

func TestOpen_BothDirections(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, server := pair(t)

	jws, err := server.Seal(ctx, []byte(`{"status":200,"secret":"HVR4CFHAFOWFGGFC"}`))
	require.NoError(t, err)

	plaintext, err := device.Open(ctx, jws)
	require.NoError(t, err)
	assert.JSONEq(t, `{"status":200,"secret":"HVR4CFHAFOWFGGFC"}`, plaintext)

	// A side cannot open what it sealed for its peer.
	own, err := device.Seal(ctx, []byte(`{}`))
	require.NoError(t, err)
	_, err = device.Open(ctx, own)
	assert.ErrorIs(t, err, envelope.ErrSignature)
}

func TestOpen_TamperedSignature(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, server := pair(t)

	body, err := device.Build(ctx, map[string]any{"deviceId": "d1", "period": 6000})
	require.NoError(t, err)
	parts := strings.Split(unwrap(t, body), ".")

	for _, at := range []int{0, 1, 64, 127, 200, 255} {
		tampered := slicesWith(parts, 2, flip(t, parts[2], at))
		plaintext, err := server.Open(ctx, strings.Join(tampered, "."))
		assert.ErrorIs(t, err, envelope.ErrSignature, "signature byte %d", at)
		assert.Empty(t, plaintext)
	}
}

func TestOpen_TamperedCiphertext(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, server := pair(t)

	body, err := device.Build(ctx, map[string]any{"deviceId": "d1", "period": 6000})
	require.NoError(t, err)
	outer := strings.Split(unwrap(t, body), ".")

	payload, err := base64.RawURLEncoding.DecodeString(outer[1])
	require.NoError(t, err)
	inner := strings.Split(string(payload), ".")
	require.Len(t, inner, 5)

	// Re-sign the tampered JWE so that only the authenticated cipher can object.
	signer, err := jose.NewSigner(testkeys.Device(t).Key)
	require.NoError(t, err)

	for _, at := range []int{0, 5, 10, 20} {
		jwe := strings.Join(slicesWith(inner, 3, flip(t, inner[3], at)), ".")
		jws, err := signer.Sign(ctx, []byte(jwe))
		require.NoError(t, err)

		plaintext, err := server.Open(ctx, jws.String())
		assert.ErrorIs(t, err, envelope.ErrSignature, "ciphertext byte %d", at)
		assert.Empty(t, plaintext)
	}

	// Without re-signing the outer layer rejects it first.
	jwe := strings.Join(slicesWith(inner, 3, flip(t, inner[3], 0)), ".")
	outer[1] = base64.RawURLEncoding.EncodeToString([]byte(jwe))
	_, err = server.Open(ctx, strings.Join(outer, "."))
	assert.ErrorIs(t, err, envelope.ErrSignature)
}

func TestOpen_WrongKeys(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	device, _ := pair(t)

	stranger := testkeys.Named(t, "stranger")
	other, err := envelope.New(envelope.Keys{
		PeerCertificatePEM: testkeys.Device(t).CertPEM,
		PrivateKeyPEM:      stranger.KeyPEM,
	})
	require.NoError(t, err)

	body, err := device.Build(ctx, map[string]any{"a": 1})
	require.NoError(t, err)
	_, err = other.OpenBody(ctx, body)
	assert.ErrorIs(t, err, envelope.ErrSignature)
}

func TestOpenBody_Malformed(t *testing.T) {
	t.Parallel()
	_, server := pair(t)

	for _, body := range []string{"", "not json", `{}`, `{"jws":""}`, `{"jws":"a.b"}`, `{"jws":"a.b.c"}`, `{"jws":1}`} {
		plaintext, err := server.OpenBody(context.Background(), []byte(body))
		assert.ErrorIs(t, err, envelope.ErrSignature, body)
		assert.Empty(t, plaintext)
	}
}

func TestBuild_BadParameter(t *testing.T) {
	t.Parallel()
	enc := &countingEncrypter{}
	device, err := envelope.New(envelope.Keys{PrivateKeyPEM: testkeys.Device(t).KeyPEM},
		envelope.WithEncrypter(enc),
		envelope.WithVerifier(failingVerifier{}),
	)
	require.NoError(t, err)

	body, err := device.Build(context.Background(), map[string]any{"ch": make(chan int)})
	assert.ErrorIs(t, err, envelope.ErrBadParameter)
	assert.NotErrorIs(t, err, envelope.ErrSignature)
	assert.Nil(t, body)
	assert.Zero(t, enc.calls.Load(), "no cryptography after a serialization failure")
}

func TestBuild_StageFailureIsCoarse(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	log := slog.New(slog.NewJSONHandler(&logs, nil))
	d := testkeys.Device(t)

	env, err := envelope.New(envelope.Keys{PeerCertificatePEM: testkeys.Server(t).CertPEM},
		envelope.WithSigner(failingSigner{}),
		envelope.WithDecrypter(failingDecrypter{}),
		envelope.WithLogger(log),
	)
	require.NoError(t, err)

	body, err := env.Build(context.Background(), map[string]any{"secret": "HVR4CFHAFOWFGGFC"})
	assert.ErrorIs(t, err, envelope.ErrSignature)
	assert.NotErrorIs(t, err, errHSM)
	assert.Nil(t, body)

	assert.Contains(t, logs.String(), `"stage":"sign"`)
	assert.NotContains(t, logs.String(), "HVR4CFHAFOWFGGFC")
	assert.NotContains(t, logs.String(), string(d.KeyPEM))
}

func TestOpen_LogsFailingStage(t *testing.T) {
	t.Parallel()
	var logs bytes.Buffer
	device, _ := pair(t, envelope.WithLogger(slog.New(slog.NewJSONHandler(&logs, nil))))

	_, err := device.Open(context.Background(), "e30.e30.AA")
	require.ErrorIs(t, err, envelope.ErrSignature)
	assert.Contains(t, logs.String(), `"stage":"verify"`)
	assert.Contains(t, logs.String(), `"component":"envelope"`)
}

func TestBuild_Cancelled(t *testing.T) {
	t.Parallel()
	device, _ := pair(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := device.Build(ctx, map[string]any{"a": 1})
	assert.ErrorIs(t, err, envelope.ErrSignature)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestNew_InvalidKeyMaterial(t *testing.T) {
	t.Parallel()
	d, s := testkeys.Device(t), testkeys.Server(t)
	small, err := testkeys.Generate("small", 1024)
	require.NoError(t, err)

	tests := []struct {
		name string
		keys envelope.Keys
	}{
		{"empty", envelope.Keys{}},
		{"missing private key", envelope.Keys{PeerCertificatePEM: s.CertPEM}},
		{"missing certificate", envelope.Keys{PrivateKeyPEM: d.KeyPEM}},
		{"swapped", envelope.Keys{PeerCertificatePEM: d.KeyPEM, PrivateKeyPEM: s.CertPEM}},
		{"garbage", envelope.Keys{PeerCertificatePEM: []byte("-----BEGIN CERTIFICATE-----\nAAAA\n-----END CERTIFICATE-----\n"), PrivateKeyPEM: d.KeyPEM}},
		{"small key", envelope.Keys{PeerCertificatePEM: s.CertPEM, PrivateKeyPEM: small.KeyPEM}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			env, err := envelope.New(tt.keys)
			assert.ErrorIs(t, err, envelope.ErrInvalidKeyMaterial)
			assert.Nil(t, env)
		})
	}
}

func TestNew_SPKIPeerKey(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	d, s := testkeys.Device(t), testkeys.Server(t)

	device, err := envelope.New(envelope.Keys{PeerCertificatePEM: s.PublicKeyPEM, PrivateKeyPEM: d.KeyPEM})
	require.NoError(t, err)
	_, server := pair(t)

	body, err := device.Build(ctx, map[string]any{"deviceId": "d1"})
	require.NoError(t, err)
	plaintext, err := server.OpenBody(ctx, body)
	require.NoError(t, err)
	assert.JSONEq(t, `{"deviceId":"d1"}`, plaintext)
}

var errHSM = errors.New("hsm unavailable")

type countingEncrypter struct{ calls atomic.Int32 }

func (c *countingEncrypter) Encrypt(context.Context, []byte) (jose.Compact, error) {
	c.calls.Add(1)
	return jose.Compact{}, errHSM
}

type failingSigner struct{}

func (failingSigner) Sign(context.Context, []byte) (jose.Compact, error) {
	return jose.Compact{}, errHSM
}

type failingVerifier struct{}

func (failingVerifier) Verify(context.Context, string) ([]byte, error) { return nil, errHSM }

type failingDecrypter struct{}

func (failingDecrypter) Decrypt(context.Context, string) ([]byte, error) { return nil, errHSM }

func slicesWith(parts []string, i int, v string) []string {
	out := append([]string(nil), parts...)
	out[i] = v
	return out
}
