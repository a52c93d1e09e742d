// Package envelope builds and opens the encrypt-then-sign request bodies
// exchanged between a registered device and the eKYC backend.
//
// A body is produced in four stages:
//
//  1. the parameters are serialized to JSON;
//  2. the JSON is encrypted for the backend (RSA-OAEP-256 key wrapping,
//     A256GCM content encryption) into a five-segment compact JWE;
//  3. the JWE string is signed with the device key (PS256) into a
//     three-segment compact JWS whose "cty" header is "JWE";
//  4. the JWS is wrapped as {"jws":"<compact>"}.
//
// Opening a response runs the inverse: verify with the backend certificate,
// then decrypt with the device key.
//
// # Error Handling
//
// Every failure in the cryptographic stages is reported as ErrSignature,
// whatever the stage. The failing stage is logged at warn level together with
// the underlying error; key material and plaintext are never logged.
// Serialization failures are reported as ErrBadParameter before any
// cryptography runs. Invalid key material is rejected by New with
// ErrInvalidKeyMaterial.
//
// # Usage
//
//	env, err := envelope.New(envelope.Keys{
//	    PeerCertificatePEM: serverCert,
//	    PrivateKeyPEM:      deviceKey,
//	}, envelope.WithLogger(log))
//	if err != nil {
//	    // misconfigured keys, fail at startup
//	}
//
//	body, err := env.Build(ctx, map[string]any{"deviceId": id, "period": 6000})
//
// # Custom Stages
//
// The four stages are interfaces. Hardware-backed or remote key stores can be
// plugged in with WithEncrypter, WithSigner, WithVerifier and WithDecrypter;
// the corresponding PEM field of Keys may then be left empty.
package envelope
