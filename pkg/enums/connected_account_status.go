package enums

import "fmt"

// ConnectedAccountStatus mirrors the provider-side state of a linked
// merchant account.
type ConnectedAccountStatus string

const (
	ConnectedAccountStatusPending  ConnectedAccountStatus = "pending"
	ConnectedAccountStatusActive   ConnectedAccountStatus = "active"
	ConnectedAccountStatusDisabled ConnectedAccountStatus = "disabled"
	ConnectedAccountStatusRejected ConnectedAccountStatus = "rejected"
)

var validConnectedAccountStatuses = []ConnectedAccountStatus{
	ConnectedAccountStatusPending,
	ConnectedAccountStatusActive,
	ConnectedAccountStatusDisabled,
	ConnectedAccountStatusRejected,
}

// String implements fmt.Stringer.
func (s ConnectedAccountStatus) String() string {
	return string(s)
}

// IsValid reports whether the value is a known ConnectedAccountStatus.
func (s ConnectedAccountStatus) IsValid() bool {
	for _, candidate := range validConnectedAccountStatuses {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseConnectedAccountStatus converts raw input into a ConnectedAccountStatus.
func ParseConnectedAccountStatus(value string) (ConnectedAccountStatus, error) {
	for _, candidate := range validConnectedAccountStatuses {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid connected account status %q", value)
}
