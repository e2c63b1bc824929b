// Package gcs talks to Google Cloud Storage over its JSON API and signs
// short-lived download URLs for private objects. Credentials come from a
// service-account JSON blob or, on GCP, the metadata server; only the
// former can sign URLs.
package gcs

import (
	"context"
	"crypto"
	"crypto/rand"
	"crypto/rsa"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/trndfy/samplevault-backend/pkg/config"
	"github.com/trndfy/samplevault-backend/pkg/logger"
)

const (
	storageHost = "https://storage.googleapis.com"
	pingTimeout = 5 * time.Second
)

// Client holds the bucket pair: the private bucket with purchasable assets
// and the public one with low-fidelity previews.
type Client struct {
	httpClient     *http.Client
	fullBucket     string
	previewBucket  string
	tokenSource    *tokenSource
	serviceAccount *serviceAccountInfo
}

// Pinger exposes the health-check surface.
type Pinger interface {
	Ping(ctx context.Context) error
}

// URLSigner is the surface download issuers depend on.
type URLSigner interface {
	SignedReadURL(bucket, object string, expires time.Duration) (string, error)
}

type serviceAccountInfo struct {
	clientEmail string
	privateKey  *rsa.PrivateKey
}

func NewClient(ctx context.Context, cfg config.GCSConfig, gcp config.GCPConfig, logg *logger.Logger) (*Client, error) {
	if cfg.FullBucket == "" {
		return nil, errors.New("gcs full-asset bucket name is required")
	}

	httpClient := &http.Client{Timeout: 10 * time.Second}

	var ts *tokenSource
	var sa *serviceAccountInfo
	var err error
	switch {
	case gcp.CredentialsJSON != "":
		ts, sa, err = newServiceAccountCredentials(httpClient, gcp.CredentialsJSON)
	case gcp.ApplicationCredentials != "":
		raw, readErr := os.ReadFile(gcp.ApplicationCredentials)
		if readErr != nil {
			return nil, fmt.Errorf("reading credentials file: %w", readErr)
		}
		ts, sa, err = newServiceAccountCredentials(httpClient, string(raw))
	default:
		// Metadata tokens can authenticate API calls but cannot sign URLs.
		ts = newMetadataTokenSource(httpClient)
	}
	if err != nil {
		return nil, err
	}

	client := &Client{
		httpClient:     httpClient,
		fullBucket:     cfg.FullBucket,
		previewBucket:  cfg.PreviewBucket,
		tokenSource:    ts,
		serviceAccount: sa,
	}

	if err := client.Ping(ctx); err != nil {
		return nil, fmt.Errorf("gcs health check failed: %w", err)
	}

	if logg != nil {
		logg.Info(ctx, "gcs client initialized")
	}
	return client, nil
}

// FullBucket returns the private bucket holding purchasable assets.
func (c *Client) FullBucket() string {
	if c == nil {
		return ""
	}
	return c.fullBucket
}

// PreviewBucket returns the public bucket holding low-fidelity previews.
func (c *Client) PreviewBucket() string {
	if c == nil {
		return ""
	}
	return c.previewBucket
}

func (c *Client) Close() error {
	return nil
}

// Ping lists at most one object in the full bucket, which proves both
// connectivity and read permission in a single call.
func (c *Client) Ping(ctx context.Context) error {
	if c == nil || c.tokenSource == nil {
		return errors.New("gcs client not initialized")
	}
	if c.fullBucket == "" {
		return errors.New("gcs bucket not configured")
	}

	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	token, err := c.tokenSource.Token(ctx)
	if err != nil {
		return err
	}

	listURL := fmt.Sprintf("%s/storage/v1/b/%s/o?maxResults=1", storageHost, url.PathEscape(c.fullBucket))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+token)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
		if len(b) > 0 {
			return fmt.Errorf("gcs object check failed: %s: %s", resp.Status, strings.TrimSpace(string(b)))
		}
		return fmt.Errorf("gcs object check failed: %s", resp.Status)
	}
	return nil
}

// SignedReadURL produces a time-limited GET URL for a private object using
// the query-signature scheme (GoogleAccessId/Expires/Signature).
func (c *Client) SignedReadURL(bucket, object string, expires time.Duration) (string, error) {
	if c == nil || c.serviceAccount == nil {
		return "", errors.New("gcs url signing requires service account credentials")
	}
	if bucket == "" {
		bucket = c.fullBucket
	}
	if object == "" {
		return "", errors.New("object key is required")
	}
	if expires <= 0 {
		return "", errors.New("expiry must be positive")
	}

	expiration := time.Now().Add(expires).Unix()
	payload := fmt.Sprintf("GET\n\n\n%d\n/%s/%s", expiration, bucket, object)

	signature, err := c.serviceAccount.sign(payload)
	if err != nil {
		return "", err
	}

	values := url.Values{}
	values.Set("GoogleAccessId", c.serviceAccount.clientEmail)
	values.Set("Expires", fmt.Sprintf("%d", expiration))
	values.Set("Signature", signature)

	return fmt.Sprintf("%s/%s/%s?%s", storageHost, bucket, object, values.Encode()), nil
}

func (s *serviceAccountInfo) sign(payload string) (string, error) {
	hash := sha256.Sum256([]byte(payload))
	signature, err := rsa.SignPKCS1v15(rand.Reader, s.privateKey, crypto.SHA256, hash[:])
	if err != nil {
		return "", fmt.Errorf("signing url payload: %w", err)
	}
	return base64.StdEncoding.EncodeToString(signature), nil
}
