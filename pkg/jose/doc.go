// Package jose implements the two compact JOSE stages of the request
// envelope: RSA-OAEP-256 / A256GCM encryption (JWE, RFC 7516) and PS256
// signatures (JWS, RFC 7515).
//
// Only the protocol lives here: protected headers, segment layout and
// base64url encoding. Primitives come from the Go standard crypto packages.
//
// Every stage is a separate type (Encrypter, Decrypter, Signer, Verifier)
// operating on Compact values, so each can be tested in isolation and
// composed by package envelope. Stage methods accept a context.Context and
// return early when it is already cancelled.
//
// Keys are imported from PEM with ParsePublicKeyPEM (X.509 certificate or
// SPKI) and ParsePrivateKeyPEM (PKCS#8). RSA keys shorter than 2048 bits are
// rejected.
package jose
