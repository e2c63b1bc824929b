package stripeconnect

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFeePolicyValidate(t *testing.T) {
	tests := []struct {
		name    string
		policy  FeePolicy
		wantErr string
	}{
		{name: "fixed ok", policy: FeePolicy{Kind: FeeFixed, FixedCents: 50}},
		{name: "percentage ok", policy: FeePolicy{Kind: FeePercentage, Rate: 0.025}},
		{name: "combined ok", policy: FeePolicy{Kind: FeeFixedPlusPercentage, FixedCents: 50, Rate: 0.1}},
		{name: "zero rate ok", policy: FeePolicy{Kind: FeePercentage, Rate: 0}},
		{
			name:    "unknown kind",
			policy:  FeePolicy{Kind: "tiered", Rate: 0.1},
			wantErr: `unknown fee policy kind "tiered"`,
		},
		{
			name:    "negative fixed",
			policy:  FeePolicy{Kind: FeeFixed, FixedCents: -1},
			wantErr: "fixed fee must be non-negative",
		},
		{
			name:    "negative rate",
			policy:  FeePolicy{Kind: FeePercentage, Rate: -0.01},
			wantErr: "fee rate must be in [0,1)",
		},
		{
			name:    "rate of one",
			policy:  FeePolicy{Kind: FeePercentage, Rate: 1},
			wantErr: "fee rate must be in [0,1)",
		},
		{
			name:    "combined bad rate",
			policy:  FeePolicy{Kind: FeeFixedPlusPercentage, FixedCents: 50, Rate: 1.5},
			wantErr: "fee rate must be in [0,1)",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.policy.Validate()
			if tc.wantErr == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}

func TestFeePolicyFee(t *testing.T) {
	tests := []struct {
		name   string
		policy FeePolicy
		total  int
		want   int
	}{
		{name: "fixed ignores total", policy: FeePolicy{Kind: FeeFixed, FixedCents: 50}, total: 10000, want: 50},
		{name: "fixed on zero total", policy: FeePolicy{Kind: FeeFixed, FixedCents: 50}, total: 0, want: 50},
		{name: "percentage rounds up", policy: FeePolicy{Kind: FeePercentage, Rate: 0.025}, total: 999, want: 25},
		{name: "percentage rounds down", policy: FeePolicy{Kind: FeePercentage, Rate: 0.025}, total: 978, want: 24},
		{name: "percentage exact", policy: FeePolicy{Kind: FeePercentage, Rate: 0.1}, total: 1000, want: 100},
		{name: "combined", policy: FeePolicy{Kind: FeeFixedPlusPercentage, FixedCents: 50, Rate: 0.1}, total: 1000, want: 150},
		{name: "combined rounds independently", policy: FeePolicy{Kind: FeeFixedPlusPercentage, FixedCents: 30, Rate: 0.029}, total: 999, want: 59},
		{name: "zero total percentage", policy: FeePolicy{Kind: FeePercentage, Rate: 0.5}, total: 0, want: 0},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, tc.policy.Fee(tc.total))
		})
	}
}

func TestFeeNeverExceedsTotal(t *testing.T) {
	policy := FeePolicy{Kind: FeePercentage, Rate: 0.999}
	for _, total := range []int{1, 99, 100, 999, 123456} {
		fee := policy.Fee(total)
		assert.LessOrEqual(t, fee, total, "total=%d", total)
		assert.GreaterOrEqual(t, fee, 0, "total=%d", total)
	}
}
