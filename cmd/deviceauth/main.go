// Command deviceauth is an operator tool for the device authentication
// pipeline: it computes one-time codes, converts base32, seals and opens
// request envelopes and generates test key pairs.
//
//	deviceauth otp [-digits 6] [-period 30] [-per-second] [-at unix] SECRET
//	deviceauth secret
//	deviceauth encode [-hex] < data
//	deviceauth decode [-hex] TEXT > data
//	deviceauth seal -peer server.pem -key device.key < params.json
//	deviceauth open -peer device.pem -key server.key < body.json
//	deviceauth keygen [-cn name] [-bits 2048] [-days 365] -out DIR
//
// Diagnostics go to stderr and follow DEVICEAUTH_ENV, DEVICEAUTH_LOG_LEVEL
// and DEVICEAUTH_LOG_FORMAT.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"time"

	"github.com/dmitrymomot/deviceauth/internal/keygen"
	"github.com/dmitrymomot/deviceauth/pkg/base32"
	"github.com/dmitrymomot/deviceauth/pkg/envelope"
	"github.com/dmitrymomot/deviceauth/pkg/logger"
	"github.com/dmitrymomot/deviceauth/pkg/totp"
)

var errUsage = errors.New("usage: deviceauth otp|secret|encode|decode|seal|open|keygen [flags]")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	log, err := logger.NewFromEnv(logger.WithOutput(os.Stderr))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	logger.SetAsDefault(log)

	if err := run(ctx, os.Args[1:], os.Stdin, os.Stdout, log); err != nil {
		log.Error("command failed", logger.Error(err))
		if errors.Is(err, errUsage) || errors.Is(err, flag.ErrHelp) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdin io.Reader, stdout io.Writer, log *slog.Logger) error {
	if len(args) == 0 {
		return errUsage
	}
	cmd, args := args[0], args[1:]

	switch cmd {
	case "otp":
		return otpCmd(args, stdout)
	case "secret":
		s, err := totp.GenerateSecretKey()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, s)
		return err
	case "encode":
		return encodeCmd(args, stdin, stdout)
	case "decode":
		return decodeCmd(args, stdout)
	case "seal", "open":
		return envelopeCmd(ctx, cmd, args, stdin, stdout, log)
	case "keygen":
		return keygenCmd(args, stdout)
	default:
		return fmt.Errorf("%w: unknown command %q", errUsage, cmd)
	}
}

func newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func otpCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("otp")
	digits := fs.Int("digits", totp.DefaultDigits, "code width")
	period := fs.Int64("period", totp.DefaultPeriod, "time step in seconds")
	perSecond := fs.Bool("per-second", false, "count absolute unix seconds instead of time steps")
	at := fs.Int64("at", 0, "unix time, defaults to now")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: otp needs exactly one SECRET", errUsage)
	}

	t := time.Now()
	if *at != 0 {
		t = time.Unix(*at, 0)
	}
	p := totp.Config{Digits: *digits, Period: *period, PerSecond: *perSecond}.Params()
	code, err := totp.GenerateFromBase32(fs.Arg(0), p, t)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(stdout, "%s\t%ds\n", code, totp.Remaining(t, p.Period))
	return err
}

func alphabet(hex bool) *base32.Alphabet {
	if hex {
		return base32.Hex
	}
	return base32.Std
}

func encodeCmd(args []string, stdin io.Reader, stdout io.Writer) error {
	fs := newFlagSet("encode")
	hex := fs.Bool("hex", false, "use the extended hex alphabet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, base32.Encode(data, alphabet(*hex)))
	return err
}

func decodeCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("decode")
	hex := fs.Bool("hex", false, "use the extended hex alphabet")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return fmt.Errorf("%w: decode needs exactly one TEXT", errUsage)
	}
	data, err := base32.Decode(strings.TrimSpace(fs.Arg(0)), alphabet(*hex))
	if err != nil {
		return err
	}
	_, err = stdout.Write(data)
	return err
}

func envelopeCmd(ctx context.Context, cmd string, args []string, stdin io.Reader, stdout io.Writer, log *slog.Logger) error {
	fs := newFlagSet(cmd)
	peer := fs.String("peer", "", "peer certificate or public key PEM file")
	key := fs.String("key", "", "own PKCS#8 private key PEM file")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *peer == "" || *key == "" {
		return fmt.Errorf("%w: %s needs -peer and -key", errUsage, cmd)
	}

	var keys envelope.Keys
	var err error
	if keys.PeerCertificatePEM, err = os.ReadFile(*peer); err != nil {
		return err
	}
	if keys.PrivateKeyPEM, err = os.ReadFile(*key); err != nil {
		return err
	}
	env, err := envelope.New(keys, envelope.WithLogger(log))
	if err != nil {
		return err
	}

	input, err := io.ReadAll(stdin)
	if err != nil {
		return err
	}

	if cmd == "open" {
		plaintext, err := env.OpenBody(ctx, input)
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(stdout, plaintext)
		return err
	}

	var params map[string]any
	if err := jsonUnmarshal(input, &params); err != nil {
		return errors.Join(envelope.ErrBadParameter, err)
	}
	body, err := env.Build(ctx, params)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(stdout, string(body))
	return err
}

func keygenCmd(args []string, stdout io.Writer) error {
	fs := newFlagSet("keygen")
	cn := fs.String("cn", "deviceauth", "certificate common name")
	bits := fs.Int("bits", 2048, "RSA modulus size")
	days := fs.Int("days", 365, "certificate validity in days")
	out := fs.String("out", "", "output directory")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *out == "" {
		return fmt.Errorf("%w: keygen needs -out", errUsage)
	}

	pair, err := keygen.Generate(*cn, *bits, time.Duration(*days)*24*time.Hour)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(*out, 0o700); err != nil {
		return err
	}

	files := []struct {
		name string
		data []byte
		perm os.FileMode
	}{
		{*cn + ".key", pair.KeyPEM, 0o600},
		{*cn + ".pem", pair.CertPEM, 0o644},
		{*cn + ".pub", pair.PublicKeyPEM, 0o644},
	}
	for _, f := range files {
		path := filepath.Join(*out, f.name)
		if err := os.WriteFile(path, f.data, f.perm); err != nil {
			return err
		}
		if _, err := fmt.Fprintln(stdout, path); err != nil {
			return err
		}
	}
	return nil
}
