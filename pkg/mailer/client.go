package mailer

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/sethvargo/go-retry"

	"github.com/trndfy/samplevault-backend/pkg/config"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

const (
	sendEndpoint   = "https://api.resend.com/emails"
	requestTimeout = 10 * time.Second
	maxAttempts    = 3
	retryBase      = 500 * time.Millisecond
)

var (
	errAPIKeyRequired = errors.New("resend api key is required")
	errFromRequired   = errors.New("sender address is required")
)

// Sender is the notification surface fulfillment depends on.
type Sender interface {
	SendPurchaseEmail(ctx context.Context, params PurchaseEmailParams) error
}

// PurchaseEmailParams describe the post-payment vault notification.
type PurchaseEmailParams struct {
	To        string
	VaultURL  string
	ItemCount int
}

// Client sends transactional email through Resend's REST API.
type Client struct {
	httpClient *http.Client
	apiKey     string
	from       string
	logger     *logger.Logger
}

// NewClient validates the mail credentials and builds the sender.
func NewClient(ctx context.Context, cfg config.MailConfig, logg *logger.Logger) (*Client, error) {
	apiKey := strings.TrimSpace(cfg.ResendAPIKey)
	if apiKey == "" {
		return nil, errAPIKeyRequired
	}
	from := strings.TrimSpace(cfg.From)
	if from == "" {
		return nil, errFromRequired
	}

	c := &Client{
		httpClient: &http.Client{Timeout: requestTimeout},
		apiKey:     apiKey,
		from:       from,
		logger:     logg,
	}

	if logg != nil {
		logg.Info(ctx, "mailer client initialized")
	}
	return c, nil
}

// SendPurchaseEmail notifies a customer that their purchases are ready in the
// vault. Transient upstream failures (429/5xx) are retried with backoff;
// anything else fails immediately.
func (c *Client) SendPurchaseEmail(ctx context.Context, params PurchaseEmailParams) error {
	if params.To == "" {
		return errors.New("recipient is required")
	}
	if params.VaultURL == "" {
		return errors.New("vault url is required")
	}

	plural := "s"
	if params.ItemCount == 1 {
		plural = ""
	}
	payload := map[string]any{
		"from":    c.from,
		"to":      params.To,
		"subject": fmt.Sprintf("Your TRNDFY purchase is ready (%d item%s)", params.ItemCount, plural),
		"html":    purchaseHTML(params.VaultURL),
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encoding email payload: %w", err)
	}

	backoff := retry.WithMaxRetries(maxAttempts-1, retry.NewExponential(retryBase))
	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		return c.post(ctx, body)
	})
}

func (c *Client) post(ctx context.Context, body []byte) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, sendEndpoint, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return retry.RetryableError(err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
	sendErr := fmt.Errorf("email send failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))

	if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= 500 {
		return retry.RetryableError(sendErr)
	}
	return sendErr
}

func purchaseHTML(vaultURL string) string {
	return fmt.Sprintf(`<div style="font-family: Inter, Arial, sans-serif; line-height: 1.5;">
  <h2>Thanks for your purchase</h2>
  <p>Your samples are waiting in your Vault:</p>
  <p><a href="%s">%s</a></p>
  <p style="color:#666;">If you didn't make this purchase, ignore this email.</p>
</div>`, vaultURL, vaultURL)
}
