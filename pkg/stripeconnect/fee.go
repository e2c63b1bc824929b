package stripeconnect

import (
	"fmt"
	"math"
)

// FeeKind selects how the platform's cut of a charge is computed.
type FeeKind string

const (
	FeeFixed               FeeKind = "fixed"
	FeePercentage          FeeKind = "percentage"
	FeeFixedPlusPercentage FeeKind = "fixed_plus_percentage"
)

// FeePolicy describes the platform fee retained from a destination charge.
// Rate is a decimal fraction (0.025 = 2.5%).
type FeePolicy struct {
	Kind       FeeKind
	FixedCents int
	Rate       float64
}

// Validate rejects malformed policies. Unknown kinds fail here instead of
// silently computing a zero fee at charge time.
func (p FeePolicy) Validate() error {
	switch p.Kind {
	case FeeFixed:
		if p.FixedCents < 0 {
			return fmt.Errorf("fixed fee must be non-negative, got %d", p.FixedCents)
		}
	case FeePercentage:
		if p.Rate < 0 || p.Rate >= 1 {
			return fmt.Errorf("fee rate must be in [0,1), got %v", p.Rate)
		}
	case FeeFixedPlusPercentage:
		if p.FixedCents < 0 {
			return fmt.Errorf("fixed fee must be non-negative, got %d", p.FixedCents)
		}
		if p.Rate < 0 || p.Rate >= 1 {
			return fmt.Errorf("fee rate must be in [0,1), got %v", p.Rate)
		}
	default:
		return fmt.Errorf("unknown fee policy kind %q", p.Kind)
	}
	return nil
}

// Fee returns the platform's cut of totalCents in minor units. Percentage
// components round to the nearest cent.
func (p FeePolicy) Fee(totalCents int) int {
	switch p.Kind {
	case FeeFixed:
		return p.FixedCents
	case FeePercentage:
		return roundCents(float64(totalCents) * p.Rate)
	case FeeFixedPlusPercentage:
		return p.FixedCents + roundCents(float64(totalCents)*p.Rate)
	default:
		// Unreachable for policies accepted by Validate.
		return 0
	}
}

func roundCents(v float64) int {
	return int(math.Round(v))
}
