package stripeconnect

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pkgerrors "github.com/trndfy/samplevault-backend/pkg/errors"
)

func signPayload(t *testing.T, secret, timestamp string, payload []byte) string {
	t.Helper()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%s.%s", timestamp, payload)
	return hex.EncodeToString(mac.Sum(nil))
}

func TestVerifySignature(t *testing.T) {
	const secret = "whsec_test_secret"
	payload := []byte(`{"id":"evt_1","type":"checkout.session.completed"}`)
	sig := signPayload(t, secret, "1700000000", payload)

	tests := []struct {
		name   string
		header string
		want   bool
	}{
		{name: "valid", header: "t=1700000000,v1=" + sig, want: true},
		{name: "valid with spaces", header: "t=1700000000, v1=" + sig, want: true},
		{name: "valid among multiple v1", header: "t=1700000000,v1=deadbeef,v1=" + sig, want: true},
		{name: "wrong secret digest", header: "t=1700000000,v1=" + signPayload(t, "whsec_other", "1700000000", payload), want: false},
		{name: "timestamp mismatch", header: "t=1700000001,v1=" + sig, want: false},
		{name: "missing v1", header: "t=1700000000", want: false},
		{name: "missing timestamp", header: "v1=" + sig, want: false},
		{name: "empty header", header: "", want: false},
		{name: "garbage header", header: "not-a-signature", want: false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, VerifySignature(payload, tc.header, secret))
		})
	}
}

func TestVerifySignatureEmptySecret(t *testing.T) {
	payload := []byte(`{}`)
	sig := signPayload(t, "", "1700000000", payload)
	assert.False(t, VerifySignature(payload, "t=1700000000,v1="+sig, ""))
}

func TestVerifySignatureTamperedPayload(t *testing.T) {
	const secret = "whsec_test_secret"
	payload := []byte(`{"amount":1000}`)
	header := "t=1700000000,v1=" + signPayload(t, secret, "1700000000", payload)

	require.True(t, VerifySignature(payload, header, secret))
	assert.False(t, VerifySignature([]byte(`{"amount":9000}`), header, secret))
}

func TestConstructEvent(t *testing.T) {
	const secret = "whsec_test_secret"
	payload := []byte(`{
		"id": "evt_123",
		"type": "checkout.session.completed",
		"created": 1700000000,
		"data": {
			"object": {
				"id": "cs_test_abc",
				"customer_email": "buyer@example.com",
				"metadata": {"order_id": "ord-1"}
			}
		}
	}`)
	header := "t=1700000000,v1=" + signPayload(t, secret, "1700000000", payload)

	event, err := ConstructEvent(payload, header, secret)
	require.NoError(t, err)
	assert.Equal(t, "evt_123", event.ID)
	assert.Equal(t, EventTypeCheckoutCompleted, event.Type)
	assert.Equal(t, "cs_test_abc", event.Data.Object.ID)
	assert.Equal(t, "buyer@example.com", event.Data.Object.CustomerEmail)
	assert.Equal(t, "ord-1", event.OrderID())
	assert.Equal(t, int64(1700000000), event.OccurredAt().Unix())
}

func TestConstructEventBadSignature(t *testing.T) {
	payload := []byte(`{"id":"evt_123"}`)

	_, err := ConstructEvent(payload, "t=1,v1=deadbeef", "whsec_test_secret")
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeUnauthorized, appErr.Code())
}

func TestConstructEventMalformedJSON(t *testing.T) {
	const secret = "whsec_test_secret"
	payload := []byte(`{not json`)
	header := "t=1700000000,v1=" + signPayload(t, secret, "1700000000", payload)

	_, err := ConstructEvent(payload, header, secret)
	require.Error(t, err)

	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestEventOrderIDMissingMetadata(t *testing.T) {
	event := &Event{}
	assert.Empty(t, event.OrderID())
}
