package stripeconnect

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"strings"
	"time"

	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
)

// EventTypeCheckoutCompleted is the single actionable event type for order
// fulfillment; every other type is acknowledged and ignored.
const EventTypeCheckoutCompleted = "checkout.session.completed"

// Event is a verified, decoded webhook payload.
type Event struct {
	ID      string    `json:"id"`
	Type    string    `json:"type"`
	Created int64     `json:"created"`
	Data    EventData `json:"data"`
}

// EventData wraps the provider object the event describes.
type EventData struct {
	Object EventObject `json:"object"`
}

// EventObject carries the checkout-session fields fulfillment cares about.
type EventObject struct {
	ID            string            `json:"id"`
	CustomerEmail string            `json:"customer_email"`
	Metadata      map[string]string `json:"metadata"`
}

// OrderID returns the correlation key planted in session metadata at
// checkout-creation time, or "" when absent.
func (e *Event) OrderID() string {
	if e == nil {
		return ""
	}
	return e.Data.Object.Metadata["order_id"]
}

// OccurredAt converts the provider's unix timestamp.
func (e *Event) OccurredAt() time.Time {
	if e == nil || e.Created == 0 {
		return time.Time{}
	}
	return time.Unix(e.Created, 0)
}

// VerifySignature checks a raw webhook payload against its signature header.
// The header is comma-separated key=value pairs and must contain a timestamp
// (t=) and at least one v1= signature. The expected signature is
// hex(HMAC-SHA256(secret, "{t}.{payload}")), compared in constant time.
// Any malformed input yields false, never an error.
func VerifySignature(payload []byte, signatureHeader, secret string) bool {
	if signatureHeader == "" || secret == "" {
		return false
	}

	var timestamp string
	var candidates []string
	for _, part := range strings.Split(signatureHeader, ",") {
		part = strings.TrimSpace(part)
		switch {
		case strings.HasPrefix(part, "t="):
			timestamp = part[len("t="):]
		case strings.HasPrefix(part, "v1="):
			candidates = append(candidates, part[len("v1="):])
		}
	}
	if timestamp == "" || len(candidates) == 0 {
		return false
	}

	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(timestamp))
	mac.Write([]byte("."))
	mac.Write(payload)
	expected := hex.EncodeToString(mac.Sum(nil))

	for _, candidate := range candidates {
		// hmac.Equal is constant-time; hex digest lengths are fixed and
		// public, so the length check leaks nothing useful.
		if hmac.Equal([]byte(expected), []byte(candidate)) {
			return true
		}
	}
	return false
}

// ConstructEvent verifies the payload signature and decodes the event.
// Callers must pass the raw request body, unparsed, or the signature check
// cannot succeed.
func (c *Client) ConstructEvent(payload []byte, signatureHeader string) (*Event, error) {
	return ConstructEvent(payload, signatureHeader, c.webhookSecret)
}

// ConstructEvent is the package-level variant for callers holding their own
// signing secret.
func ConstructEvent(payload []byte, signatureHeader, secret string) (*Event, error) {
	if !VerifySignature(payload, signatureHeader, secret) {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "webhook signature verification failed")
	}

	var event Event
	if err := json.Unmarshal(payload, &event); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode webhook payload")
	}
	return &event, nil
}
