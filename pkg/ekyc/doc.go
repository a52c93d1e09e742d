// Package ekyc is the request layer for the eKYC backend's device API.
//
// Client wraps the five /eid/v3 endpoints used by the identity-verification
// flow. Every request body is built by the authenticator as a signed,
// encrypted envelope; calls that prove possession of the device secret
// (ReadCard, UpdateDeviceSecret) also carry the current one-time code.
//
// Request composition follows fixed rules:
//
//   - Content-Type and appid headers are always set and cannot be replaced by
//     caller headers (case-insensitive).
//   - Caller parameters are merged in only for keys the call does not set
//     itself.
//
// Responses are decoded from plain JSON, or opened first when the backend
// answers with a {"jws":"..."} envelope. A non-200 status in the response
// body is returned as an error matching one of the sentinels in errors.go;
// ValidationError maps a raw backend code the same way.
//
// The client performs no retries.
package ekyc
