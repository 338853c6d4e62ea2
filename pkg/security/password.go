package security

import (
	"crypto/hmac"
	"crypto/rand"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"fmt"

	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"golang.org/x/crypto/pbkdf2"
)

var (
	// ErrEmptyPassword is returned when hashing or verifying an empty password.
	ErrEmptyPassword = fmt.Errorf("password cannot be empty")
	// ErrInvalidHash signals a stored credential that cannot be decoded.
	ErrInvalidHash = fmt.Errorf("invalid credential hash")
	// ErrSchemeUnavailable signals a scheme the hasher was not configured for.
	ErrSchemeUnavailable = fmt.Errorf("hash scheme unavailable")
)

// Credential is the stored form of a password.
type Credential struct {
	Hash   string
	Salt   string
	Scheme enums.HashScheme
}

// Empty reports whether no credential is stored, as for oauth accounts.
func (c Credential) Empty() bool {
	return c.Hash == ""
}

// EffectiveScheme resolves records written before the scheme column existed:
// salted hashes are pbkdf2, unsalted ones are the keyed hmac.
func (c Credential) EffectiveScheme() enums.HashScheme {
	if c.Scheme != "" {
		return c.Scheme
	}
	if c.Salt != "" {
		return enums.HashSchemePBKDF2SHA512
	}
	return enums.HashSchemeHMACSHA256
}

// Hasher hashes and verifies passwords. It is immutable after construction and
// safe for concurrent use.
type Hasher struct {
	iterations int
	keyLen     int
	saltLen    int
	secret     []byte
}

func NewHasher(cfg config.PasswordConfig) *Hasher {
	return &Hasher{
		iterations: clampInt(cfg.Iterations, 1, 10_000_000),
		keyLen:     clampInt(cfg.KeyLen, 16, 128),
		saltLen:    clampInt(cfg.SaltLen, 8, 64),
		secret:     []byte(cfg.LegacySecret),
	}
}

// Hash produces a credential for password using scheme. A non-empty salt is reused
// for pbkdf2; otherwise a random hex salt is generated.
func (h *Hasher) Hash(scheme enums.HashScheme, password, salt string) (Credential, error) {
	if password == "" {
		return Credential{}, ErrEmptyPassword
	}

	switch scheme {
	case enums.HashSchemePBKDF2SHA512:
		if salt == "" {
			generated, err := h.newSalt()
			if err != nil {
				return Credential{}, err
			}
			salt = generated
		}
		return Credential{
			Hash:   hex.EncodeToString(h.pbkdf2(password, salt)),
			Salt:   salt,
			Scheme: scheme,
		}, nil
	case enums.HashSchemeHMACSHA256:
		sum, err := h.hmac(password)
		if err != nil {
			return Credential{}, err
		}
		return Credential{Hash: hex.EncodeToString(sum), Scheme: scheme}, nil
	}
	return Credential{}, fmt.Errorf("%w: %q", ErrSchemeUnavailable, scheme)
}

// Verify returns (true, nil) on match, (false, nil) on mismatch and an error when the
// stored credential is unusable.
func (h *Hasher) Verify(password string, cred Credential) (bool, error) {
	if password == "" {
		return false, ErrEmptyPassword
	}
	if cred.Empty() {
		return false, ErrInvalidHash
	}

	expected, err := hex.DecodeString(cred.Hash)
	if err != nil {
		return false, ErrInvalidHash
	}

	var computed []byte
	switch scheme := cred.EffectiveScheme(); scheme {
	case enums.HashSchemePBKDF2SHA512:
		if cred.Salt == "" {
			return false, ErrInvalidHash
		}
		computed = pbkdf2.Key([]byte(password), []byte(cred.Salt), h.iterations, len(expected), sha512.New)
	case enums.HashSchemeHMACSHA256:
		computed, err = h.hmac(password)
		if err != nil {
			return false, err
		}
	default:
		return false, fmt.Errorf("%w: %q", ErrSchemeUnavailable, scheme)
	}

	return subtle.ConstantTimeCompare(computed, expected) == 1, nil
}

// NeedsUpgrade reports whether cred was produced by a legacy scheme.
func (h *Hasher) NeedsUpgrade(cred Credential) bool {
	return cred.EffectiveScheme() != enums.HashSchemePBKDF2SHA512
}

func (h *Hasher) pbkdf2(password, salt string) []byte {
	return pbkdf2.Key([]byte(password), []byte(salt), h.iterations, h.keyLen, sha512.New)
}

func (h *Hasher) hmac(password string) ([]byte, error) {
	if len(h.secret) == 0 {
		return nil, fmt.Errorf("%w: %s requires %s", ErrSchemeUnavailable, enums.HashSchemeHMACSHA256, config.EnvPasswordSecret)
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write([]byte(password))
	return mac.Sum(nil), nil
}

func (h *Hasher) newSalt() (string, error) {
	buf := make([]byte, h.saltLen)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

func clampInt(value, min, max int) int {
	if value < min {
		return min
	}
	if value > max {
		return max
	}
	return value
}
