package enums

import "fmt"

// PrincipalKind identifies which principal table an identity belongs to.
type PrincipalKind string

const (
	PrincipalKindAdmin    PrincipalKind = "admin"
	PrincipalKindSeller   PrincipalKind = "seller"
	PrincipalKindCustomer PrincipalKind = "customer"
)

var validPrincipalKinds = []PrincipalKind{
	PrincipalKindAdmin,
	PrincipalKindSeller,
	PrincipalKindCustomer,
}

// String implements fmt.Stringer.
func (p PrincipalKind) String() string {
	return string(p)
}

// IsValid reports whether the value is a known PrincipalKind.
func (p PrincipalKind) IsValid() bool {
	for _, candidate := range validPrincipalKinds {
		if candidate == p {
			return true
		}
	}
	return false
}

// ParsePrincipalKind converts raw input into a PrincipalKind.
func ParsePrincipalKind(value string) (PrincipalKind, error) {
	for _, candidate := range validPrincipalKinds {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid principal kind %q", value)
}
