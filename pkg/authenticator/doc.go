// Package authenticator is the composition root of the device
// request-authentication pipeline.
//
// An Authenticator combines the device session (secret and registration
// flag), the TOTP parameters and the encrypt-then-sign envelope. The request
// layer uses it to:
//
//   - compute the current one-time code from the registered secret;
//   - turn a parameter map into the {"jws":"..."} request body;
//   - open signed, encrypted response bodies.
//
// Key material is imported once, in New, so misconfiguration surfaces at
// startup instead of on the first request.
//
//	state := device.New(device.Info{Name: "Pixel 8", OS: "Android 15"})
//	auth, err := authenticator.NewFromEnv(state, authenticator.WithLogger(log))
//	if err != nil {
//	    return err
//	}
//	body, err := auth.AuthenticatedBody(ctx, map[string]any{"transactionId": tx})
//
// Configuration is read from DEVICEAUTH_* variables; see Config.
package authenticator
