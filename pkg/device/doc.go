// Package device holds the registration state of the running device.
//
// State is the process-wide record the request layer consults before every
// authenticated call: the shared TOTP secret issued by the backend, the
// device identifier and whether registration has completed. It is safe for
// concurrent use.
//
// State never writes anything to disk. Seal exports an encrypted snapshot
// (see pkg/secrets) that a persistence collaborator can store, and Restore
// loads it back.
package device
