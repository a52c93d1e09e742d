// Package logger builds log/slog loggers for deviceauth components.
//
// New takes functional options for format, level, output and static
// attributes; WithEnvironment applies a development, staging or production
// preset. Config and NewFromEnv read the same settings from DEVICEAUTH_*
// variables through pkg/config.
//
// Every logger built by New runs a ContextHandler that copies request ids
// stored with WithRequestID into each record, so stage failures logged deep in
// the envelope can be correlated with the backend call that triggered them.
//
// The attribute helpers (Stage, DeviceID, Component, Error, ...) keep key
// names consistent. None of them is meant for secrets: device secrets, OTP
// codes, key material and plaintext bodies must never be logged.
//
//	log := logger.New(logger.WithEnvironment("production", "ekyc-gateway"))
//	ctx = logger.WithRequestID(ctx, uuid.NewString())
//	log.WarnContext(ctx, "envelope stage failed", logger.Stage("verify"), logger.Error(err))
package logger
