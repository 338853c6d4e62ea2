package enums

import "fmt"

// PaymentStatus tracks the seller subscription payment state.
type PaymentStatus string

const (
	PaymentStatusInactive   PaymentStatus = "inactive"
	PaymentStatusActive     PaymentStatus = "active"
	PaymentStatusDelinquent PaymentStatus = "delinquent"
)

var validPaymentStatuss = []PaymentStatus{
	PaymentStatusInactive,
	PaymentStatusActive,
	PaymentStatusDelinquent,
}

// String implements fmt.Stringer.
func (p PaymentStatus) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PaymentStatus.
func (p PaymentStatus) IsValid() bool {
	for _, candidate := range validPaymentStatuss {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePaymentStatus converts raw input into a PaymentStatus.
func ParsePaymentStatus(value string) (PaymentStatus, error) {
	for _, candidate := range validPaymentStatuss {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid payment status %q", value)
}
