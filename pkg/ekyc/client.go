package ekyc

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/deviceauth/pkg/authenticator"
	"github.com/dmitrymomot/deviceauth/pkg/config"
	"github.com/dmitrymomot/deviceauth/pkg/device"
	"github.com/dmitrymomot/deviceauth/pkg/logger"
)

// Endpoint paths relative to the base URL.
const (
	PathRegisterDevice     = "/eid/v3/registerDevice"
	PathUpdateDeviceSecret = "/eid/v3/updateDeviceSecret"
	PathInitTransaction    = "/eid/v3/initTransaction"
	PathReadCard           = "/eid/v3/read"
	PathVerifyFace         = "/eid/v3/verifyFace"
)

// Default request values.
const (
	DefaultPeriod   = 30
	DefaultDuration = 30
)

const maxResponseSize = 8 << 20

// Config configures the client.
type Config struct {
	BaseURL    string        `env:"DEVICEAUTH_BASE_URL"`
	AppID      string        `env:"DEVICEAUTH_APP_ID"`
	DeviceType string        `env:"DEVICEAUTH_DEVICE_TYPE" envDefault:"ios"`
	Timeout    time.Duration `env:"DEVICEAUTH_HTTP_TIMEOUT" envDefault:"30s"`
}

// Client calls the eKYC device API on behalf of one device.
type Client struct {
	cfg    Config
	http   *http.Client
	auth   *authenticator.Authenticator
	state  *device.State
	logger *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the default client built from Config.Timeout.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		if hc != nil {
			c.http = hc
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

// New creates a client. auth must have been created for state.
func New(cfg Config, auth *authenticator.Authenticator, state *device.State, opts ...Option) (*Client, error) {
	if cfg.BaseURL == "" || cfg.AppID == "" {
		return nil, errors.Join(ErrMissingConfig, errors.New("base url and app id are required"))
	}
	if auth == nil || state == nil {
		return nil, errors.Join(ErrMissingConfig, errors.New("authenticator and device state are required"))
	}
	c := &Client{
		cfg:    cfg,
		http:   &http.Client{Timeout: cfg.Timeout},
		auth:   auth,
		state:  state,
		logger: slog.Default(),
	}
	c.cfg.BaseURL = strings.TrimRight(cfg.BaseURL, "/")
	for _, opt := range opts {
		opt(c)
	}
	c.logger = c.logger.With(logger.Component("ekyc"))
	return c, nil
}

// NewFromEnv loads Config from the environment and calls New.
func NewFromEnv(auth *authenticator.Authenticator, state *device.State, opts ...Option) (*Client, error) {
	var cfg Config
	if err := config.Load(&cfg); err != nil {
		return nil, err
	}
	return New(cfg, auth, state, opts...)
}

// RequestOption adds caller parameters or headers to a single call.
type RequestOption func(*request)

// WithParams adds parameters the call does not set itself.
func WithParams(params map[string]any) RequestOption {
	return func(r *request) {
		for k, v := range params {
			r.extraParams[k] = v
		}
	}
}

// WithHeaders adds headers. appid and Content-Type cannot be overridden.
func WithHeaders(headers map[string]string) RequestOption {
	return func(r *request) {
		for k, v := range headers {
			r.extraHeaders[k] = v
		}
	}
}

type request struct {
	path         string
	params       map[string]any
	headers      http.Header
	extraParams  map[string]any
	extraHeaders map[string]string
	withOTP      bool
}

func (c *Client) newRequest(path string, params map[string]any, opts []RequestOption) *request {
	r := &request{
		path:         path,
		params:       params,
		headers:      http.Header{},
		extraParams:  map[string]any{},
		extraHeaders: map[string]string{},
	}
	for _, opt := range opts {
		opt(r)
	}
	for k, v := range r.extraParams {
		if _, ok := r.params[k]; !ok {
			r.params[k] = v
		}
	}
	for k, v := range r.extraHeaders {
		switch strings.ToLower(k) {
		case "appid", "content-type":
			continue
		}
		r.headers.Set(k, v)
	}
	r.headers.Set("Content-Type", "application/json")
	r.setHeader("appid", c.cfg.AppID)
	return r
}

// setHeader sets name with the exact casing the backend expects.
func (r *request) setHeader(name, value string) {
	r.headers.Del(name)
	r.headers[name] = []string{value}
}

// RegisterDevice registers the device and stores the issued secret in the
// device state. An already registered device returns its current secret
// without a request.
func (c *Client) RegisterDevice(ctx context.Context, period int, opts ...RequestOption) (*RegisterResult, error) {
	if c.state.IsRegistered() {
		return &RegisterResult{
			Response: Response{Status: http.StatusOK},
			Secret:   c.state.Secret(),
			Cached:   true,
		}, nil
	}
	if period <= 0 {
		period = DefaultPeriod
	}

	params := c.state.Information()
	params["period"] = period
	r := c.newRequest(PathRegisterDevice, params, opts)
	deviceID, _ := r.params["deviceId"].(string)
	if deviceID != "" {
		r.setHeader("deviceId", deviceID)
	}

	var resp Response
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	secret, err := decodeSecret(resp.Data)
	if err != nil {
		return nil, err
	}
	if err := c.state.Register(secret, deviceID); err != nil {
		return nil, errors.Join(ErrBadResponse, err)
	}
	c.logger.InfoContext(ctx, "device registered", logger.DeviceID(c.state.DeviceID()))
	return &RegisterResult{Response: resp, Secret: secret}, nil
}

// UpdateDeviceSecret asks the backend to rotate the secret of a registered
// device and stores the new one.
func (c *Client) UpdateDeviceSecret(ctx context.Context, opts ...RequestOption) (*RegisterResult, error) {
	params := map[string]any{"deviceId": c.state.EncryptedDeviceID()}
	r := c.newRequest(PathUpdateDeviceSecret, params, opts)
	r.withOTP = true
	r.setHeader("deviceId", c.state.EncryptedDeviceID())

	var resp Response
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	secret, err := decodeSecret(resp.Data)
	if err != nil {
		return nil, err
	}
	if err := c.state.UpdateSecret(secret); err != nil {
		return nil, errors.Join(ErrBadResponse, err)
	}
	c.logger.InfoContext(ctx, "device secret rotated", logger.DeviceID(c.state.DeviceID()))
	return &RegisterResult{Response: resp, Secret: secret}, nil
}

// InitTransaction opens a verification transaction valid for duration
// seconds. Options such as withToken or clientTransactionId are passed with
// WithParams.
func (c *Client) InitTransaction(ctx context.Context, duration int, opts ...RequestOption) (*Transaction, error) {
	if duration <= 0 {
		duration = DefaultDuration
	}
	params := map[string]any{
		"deviceId": c.state.EncryptedDeviceID(),
		"duration": duration,
	}
	r := c.newRequest(PathInitTransaction, params, opts)

	var resp Response
	if err := c.do(ctx, r, &resp); err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}

	var tx Transaction
	if err := json.Unmarshal(resp.Data, &tx); err != nil {
		return nil, errors.Join(ErrBadResponse, err)
	}
	return &tx, nil
}

// ReadCard submits chip data for transactionID together with the current
// one-time code.
func (c *Client) ReadCard(ctx context.Context, card CardData, transactionID string, opts ...RequestOption) (*CardResult, error) {
	enc := base64.StdEncoding.EncodeToString
	params := map[string]any{
		"sodData":       enc(card.SOD),
		"dg1DataB64":    enc(card.DG1),
		"dg13DataB64":   enc(card.DG13),
		"dg14DataB64":   enc(card.DG14),
		"transactionId": transactionID,
	}
	if len(card.DG2) > 0 {
		params["dg2DataB64"] = enc(card.DG2)
	}
	if card.BackCardImage != "" {
		params["backCardImage"] = card.BackCardImage
	}

	r := c.newRequest(PathReadCard, params, opts)
	r.withOTP = true
	r.setHeader("devicetype", c.cfg.DeviceType)
	r.setHeader("deviceId", c.state.EncryptedDeviceID())

	var res CardResult
	if err := c.do(ctx, r, &res); err != nil {
		return nil, err
	}
	if err := (Response{Status: res.Status, Code: res.Code, Message: res.Message}).Err(); err != nil {
		return &res, err
	}
	return &res, nil
}

// VerifyFace fetches the liveness and face matching result of a transaction.
func (c *Client) VerifyFace(ctx context.Context, transactionID string, opts ...RequestOption) (*LivenessResult, error) {
	r := c.newRequest(PathVerifyFace, map[string]any{"transaction_id": transactionID}, opts)

	var res LivenessResult
	if err := c.do(ctx, r, &res); err != nil {
		return nil, err
	}
	if err := (Response{Status: res.Status, Code: res.Code, Message: res.Message}).Err(); err != nil {
		return &res, err
	}
	return &res, nil
}

// do builds the envelope, posts it and decodes the response into out.
func (c *Client) do(ctx context.Context, r *request, out any) error {
	ctx = logger.WithRequestID(ctx, uuid.NewString())
	log := c.logger.With(logger.Endpoint(r.path))
	start := time.Now()

	var (
		body []byte
		err  error
	)
	if r.withOTP {
		body, err = c.auth.AuthenticatedBody(ctx, r.params)
	} else {
		body, err = c.auth.BuildSignedEncryptedBody(ctx, r.params)
	}
	if err != nil {
		log.WarnContext(ctx, "request body not built", logger.Error(err))
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.cfg.BaseURL+r.path, bytes.NewReader(body))
	if err != nil {
		return errors.Join(ErrRequest, err)
	}
	req.Header = r.headers

	res, err := c.http.Do(req)
	if err != nil {
		log.WarnContext(ctx, "request failed", logger.Error(err))
		return errors.Join(ErrRequest, err)
	}
	defer res.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(res.Body, maxResponseSize))
	if err != nil {
		return errors.Join(ErrRequest, err)
	}
	log.DebugContext(ctx, "response received", logger.Status(res.StatusCode), logger.Duration(time.Since(start)))

	if res.StatusCode < 200 || res.StatusCode >= 300 {
		// Error bodies still follow the response shape when the backend
		// rejected the request itself.
		var resp Response
		if json.Unmarshal(raw, &resp) == nil && resp.Status != 0 && resp.Status != http.StatusOK {
			return errors.Join(fmt.Errorf("%w: %d", ErrHTTPStatus, res.StatusCode), resp.Err())
		}
		return fmt.Errorf("%w: %d", ErrHTTPStatus, res.StatusCode)
	}

	raw, err = c.unwrap(ctx, raw)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return errors.Join(ErrBadResponse, err)
	}
	return nil
}

// unwrap opens {"jws":"..."} responses and passes anything else through.
func (c *Client) unwrap(ctx context.Context, raw []byte) ([]byte, error) {
	var probe map[string]json.RawMessage
	if err := json.Unmarshal(raw, &probe); err != nil {
		return nil, errors.Join(ErrBadResponse, err)
	}
	if _, ok := probe["jws"]; !ok || len(probe) != 1 {
		return raw, nil
	}
	plaintext, err := c.auth.Open(ctx, raw)
	if err != nil {
		return nil, err
	}
	return []byte(plaintext), nil
}

func decodeSecret(data json.RawMessage) (string, error) {
	var secret string
	if err := json.Unmarshal(data, &secret); err != nil {
		return "", errors.Join(ErrBadResponse, err)
	}
	if secret == "" {
		return "", errors.Join(ErrBadResponse, errors.New("empty secret"))
	}
	return secret, nil
}
