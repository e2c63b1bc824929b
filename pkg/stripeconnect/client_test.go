package stripeconnect

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewClientValidation(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr string
	}{
		{
			name: "valid test config",
			cfg:  Config{SecretKey: "sk_test_abc", WebhookSecret: "whsec_x", Environment: "test"},
		},
		{
			name: "env defaults to test",
			cfg:  Config{SecretKey: "sk_test_abc", WebhookSecret: "whsec_x"},
		},
		{
			name: "restricted key accepted",
			cfg:  Config{SecretKey: "rk_test_abc", WebhookSecret: "whsec_x", Environment: "test"},
		},
		{
			name:    "missing secret key",
			cfg:     Config{WebhookSecret: "whsec_x", Environment: "test"},
			wantErr: "secret key is required",
		},
		{
			name:    "missing webhook secret",
			cfg:     Config{SecretKey: "sk_test_abc", Environment: "test"},
			wantErr: "webhook signing secret is required",
		},
		{
			name:    "live key in test env",
			cfg:     Config{SecretKey: "sk_live_abc", WebhookSecret: "whsec_x", Environment: "test"},
			wantErr: "requires a test secret key",
		},
		{
			name:    "test key in live env",
			cfg:     Config{SecretKey: "sk_test_abc", WebhookSecret: "whsec_x", Environment: "live"},
			wantErr: "requires a live secret key",
		},
		{
			name:    "unknown environment",
			cfg:     Config{SecretKey: "sk_test_abc", WebhookSecret: "whsec_x", Environment: "staging"},
			wantErr: "stripe environment must be",
		},
		{
			name: "invalid default fee rejected",
			cfg: Config{
				SecretKey:     "sk_test_abc",
				WebhookSecret: "whsec_x",
				Environment:   "test",
				DefaultFee:    &FeePolicy{Kind: "tiered"},
			},
			wantErr: "unknown fee policy kind",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			client, err := NewClient(context.Background(), tc.cfg, nil)
			if tc.wantErr == "" {
				require.NoError(t, err)
				require.NotNil(t, client)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
			assert.Nil(t, client)
		})
	}
}

func TestNewClientNormalizesEnvironment(t *testing.T) {
	client, err := NewClient(context.Background(), Config{
		SecretKey:     "sk_test_abc",
		WebhookSecret: "whsec_x",
		Environment:   " Test ",
	}, nil)
	require.NoError(t, err)
	assert.Equal(t, "test", client.Environment())
	assert.Equal(t, "whsec_x", client.SigningSecret())
}
