// Package config loads typed configuration from environment variables.
//
// It combines github.com/joho/godotenv for optional .env files with
// github.com/caarlos0/env/v11 for struct-tag parsing. Each configuration type
// is parsed once and cached for the life of the process; Reload and
// ResetCache exist for tests and for operators that rotate key files.
//
// Key material is usually supplied through the ",file" tag option, which
// reads the file named by the variable:
//
//	type Keys struct {
//	    PeerCert   string `env:"DEVICEAUTH_PEER_CERT_FILE,file"`
//	    PrivateKey string `env:"DEVICEAUTH_PRIVATE_KEY_FILE,file"`
//	}
//
// Errors wrap ErrParsingConfig, ErrEnvFile or ErrNilPointer and can be matched
// with errors.Is.
package config
