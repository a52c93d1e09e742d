// Package secrets seals device secrets for storage by collaborators that
// must never see them in plaintext.
//
// A per-device 32-byte key is derived with HKDF-SHA-256 from an application
// key, salted with the device identifier. The derived key encrypts with
// AES-256-GCM; the random nonce is prepended to the ciphertext and the device
// identifier is bound as additional data, so a sealed secret cannot be
// replayed under another device.
//
//	appKey, _ := secrets.GenerateKey()
//	sealed, err := secrets.SealString(appKey, deviceID, "HVR4CFHAFOWFGGFC")
//	...
//	secret, err := secrets.OpenString(appKey, deviceID, sealed)
//
// Errors wrap the sentinels in errors.go and can be matched with errors.Is.
package secrets
