package enums

import "fmt"

// HashScheme names the algorithm a stored credential was produced with.
type HashScheme string

const (
	HashSchemePBKDF2SHA512 HashScheme = "pbkdf2-sha512"
	HashSchemeHMACSHA256   HashScheme = "hmac-sha256"
)

var validHashSchemes = []HashScheme{
	HashSchemePBKDF2SHA512,
	HashSchemeHMACSHA256,
}

// String implements fmt.Stringer.
func (h HashScheme) String() string {
	return string(h)
}

// IsValid reports whether the value is a known HashScheme.
func (h HashScheme) IsValid() bool {
	for _, candidate := range validHashSchemes {
		if candidate == h {
			return true
		}
	}
	return false
}

// ParseHashScheme converts raw input into a HashScheme.
func ParseHashScheme(value string) (HashScheme, error) {
	for _, candidate := range validHashSchemes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid hash scheme %q", value)
}
