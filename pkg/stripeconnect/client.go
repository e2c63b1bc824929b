package stripeconnect

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

const (
	testEnv = "test"
	liveEnv = "live"

	defaultAPIBase     = "https://api.stripe.com/v1"
	defaultConnectBase = "https://connect.stripe.com"
	requestTimeout     = 15 * time.Second
)

var (
	errSecretKeyRequired     = errors.New("stripe secret key is required")
	errWebhookSecretRequired = errors.New("stripe webhook signing secret is required")
	errInvalidEnv            = fmt.Errorf("stripe environment must be %q or %q", testEnv, liveEnv)
)

// Config carries everything a Client needs. ClientID is only required for
// the OAuth account-linking surface; DefaultFee may be nil for platforms
// that do not split charges.
type Config struct {
	SecretKey     string
	ClientID      string
	WebhookSecret string
	Environment   string
	DefaultFee    *FeePolicy
}

// Client wraps Stripe's REST API for connected-account platforms: OAuth
// onboarding, destination-charge checkout sessions, webhook verification,
// and refunds.
type Client struct {
	httpClient    *http.Client
	secretKey     string
	clientID      string
	webhookSecret string
	environment   string
	defaultFee    *FeePolicy
	apiBase       string
	connectBase   string
	logger        *logger.Logger
}

// Option customizes a Client; used mainly by tests to point at a stub server.
type Option func(*Client)

// WithAPIBase overrides the main API base URL.
func WithAPIBase(base string) Option {
	return func(c *Client) { c.apiBase = strings.TrimRight(base, "/") }
}

// WithConnectBase overrides the OAuth base URL.
func WithConnectBase(base string) Option {
	return func(c *Client) { c.connectBase = strings.TrimRight(base, "/") }
}

// WithHTTPClient swaps the underlying HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient validates the configuration and builds the SDK client. Unknown
// fee policies are rejected here rather than silently charging zero later.
func NewClient(ctx context.Context, cfg Config, logg *logger.Logger, opts ...Option) (*Client, error) {
	env, err := normalizeEnv(cfg.Environment)
	if err != nil {
		return nil, err
	}

	secretKey := strings.TrimSpace(cfg.SecretKey)
	if secretKey == "" {
		return nil, errSecretKeyRequired
	}
	if err := validateSecretKey(env, secretKey); err != nil {
		return nil, err
	}

	webhookSecret := strings.TrimSpace(cfg.WebhookSecret)
	if webhookSecret == "" {
		return nil, errWebhookSecretRequired
	}

	if cfg.DefaultFee != nil {
		if err := cfg.DefaultFee.Validate(); err != nil {
			return nil, err
		}
	}

	c := &Client{
		httpClient:    &http.Client{Timeout: requestTimeout},
		secretKey:     secretKey,
		clientID:      strings.TrimSpace(cfg.ClientID),
		webhookSecret: webhookSecret,
		environment:   env,
		defaultFee:    cfg.DefaultFee,
		apiBase:       defaultAPIBase,
		connectBase:   defaultConnectBase,
		logger:        logg,
	}
	for _, opt := range opts {
		opt(c)
	}

	if logg != nil {
		logg.Info(ctx, fmt.Sprintf("stripe connect client initialized (%s)", env))
	}
	return c, nil
}

// Environment reports the normalized Stripe environment in use.
func (c *Client) Environment() string {
	if c == nil {
		return ""
	}
	return c.environment
}

// SigningSecret returns the webhook signing secret.
func (c *Client) SigningSecret() string {
	if c == nil {
		return ""
	}
	return c.webhookSecret
}

func normalizeEnv(raw string) (string, error) {
	env := strings.TrimSpace(strings.ToLower(raw))
	if env == "" {
		env = testEnv
	}
	switch env {
	case testEnv, liveEnv:
		return env, nil
	default:
		return "", errInvalidEnv
	}
}

func validateSecretKey(env, key string) error {
	switch env {
	case testEnv:
		if strings.HasPrefix(key, "sk_test") || strings.HasPrefix(key, "rk_test") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a test secret key (sk_test/rk_test)", testEnv)
	case liveEnv:
		if strings.HasPrefix(key, "sk_live") || strings.HasPrefix(key, "rk_live") {
			return nil
		}
		return fmt.Errorf("stripe environment %q requires a live secret key (sk_live/rk_live)", liveEnv)
	default:
		return errInvalidEnv
	}
}

// postForm sends a form-encoded request and decodes the JSON response into
// dest. Non-2xx responses become typed dependency/validation errors carrying
// Stripe's error message.
func (c *Client) postForm(ctx context.Context, rawURL string, form url.Values, headers map[string]string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, strings.NewReader(form.Encode()))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build stripe request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, dest)
}

func (c *Client) getJSON(ctx context.Context, rawURL string, headers map[string]string, dest any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build stripe request")
	}
	req.Header.Set("Authorization", "Bearer "+c.secretKey)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	return c.do(req, dest)
}

func (c *Client) do(req *http.Request, dest any) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "stripe request failed")
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "read stripe response")
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return stripeError(resp.StatusCode, body)
	}

	if dest == nil {
		return nil
	}
	if err := json.Unmarshal(body, dest); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "decode stripe response")
	}
	return nil
}

func stripeError(status int, body []byte) error {
	var payload struct {
		Error struct {
			Message string `json:"message"`
			Type    string `json:"type"`
			Code    string `json:"code"`
		} `json:"error"`
		ErrorDescription string `json:"error_description"`
	}
	_ = json.Unmarshal(body, &payload)

	msg := payload.Error.Message
	if msg == "" {
		msg = payload.ErrorDescription
	}
	if msg == "" {
		msg = strings.TrimSpace(string(body))
	}
	if len(msg) > 512 {
		msg = msg[:512]
	}

	code := pkgerrors.CodeDependency
	switch {
	case status == http.StatusUnauthorized:
		code = pkgerrors.CodeUnauthorized
	case status == http.StatusNotFound:
		code = pkgerrors.CodeNotFound
	case status >= 400 && status < 500:
		code = pkgerrors.CodeValidation
	}

	return pkgerrors.New(code, fmt.Sprintf("stripe returned %d: %s", status, msg))
}

func (c *Client) log(ctx context.Context, op string, fields map[string]any) {
	if c == nil || c.logger == nil {
		return
	}
	logFields := map[string]any{"operation": op}
	for k, v := range fields {
		logFields[k] = redact(k, v)
	}
	c.logger.Info(c.logger.WithFields(ctx, logFields), "stripe "+op)
}

func redact(key string, value any) any {
	lower := strings.ToLower(key)
	for _, sensitive := range []string{"secret", "key", "email", "code", "token"} {
		if strings.Contains(lower, sensitive) {
			return "[REDACTED]"
		}
	}
	return value
}
