package enums

import "fmt"

// SellerRole is the role stored on seller records.
type SellerRole string

const (
	SellerRoleSeller SellerRole = "seller"
	SellerRoleAdmin  SellerRole = "admin"
)

var validSellerRoles = []SellerRole{
	SellerRoleSeller,
	SellerRoleAdmin,
}

// String implements fmt.Stringer.
func (s SellerRole) String() string {
	return string(s)
}

// IsValid reports whether the value is a known SellerRole.
func (s SellerRole) IsValid() bool {
	for _, candidate := range validSellerRoles {
		if candidate == s {
			return true
		}
	}
	return false
}

// ParseSellerRole converts raw input into a SellerRole.
func ParseSellerRole(value string) (SellerRole, error) {
	for _, candidate := range validSellerRoles {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid seller role %q", value)
}
