package enums

import "fmt"

// RegistrationMethod records how a seller or customer account was created.
type RegistrationMethod string

const (
	RegistrationMethodManual RegistrationMethod = "manual"
	RegistrationMethodOAuth  RegistrationMethod = "oauth"
)

var validRegistrationMethods = []RegistrationMethod{
	RegistrationMethodManual,
	RegistrationMethodOAuth,
}

// String implements fmt.Stringer.
func (r RegistrationMethod) String() string {
	return string(r)
}

// IsValid reports whether the value is a known RegistrationMethod.
func (r RegistrationMethod) IsValid() bool {
	for _, candidate := range validRegistrationMethods {
		if candidate == r {
			return true
		}
	}
	return false
}

// ParseRegistrationMethod converts raw input into a RegistrationMethod.
func ParseRegistrationMethod(value string) (RegistrationMethod, error) {
	for _, candidate := range validRegistrationMethods {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid registration method %q", value)
}
