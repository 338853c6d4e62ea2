package models

import (
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRole is the role claim carried by customer sessions.
const CustomerRole = "customer"

// Customer buys from sellers. Oauth customers carry no credential.
type Customer struct {
	ID           uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Name         string                   `gorm:"column:name;not null"`
	Email        string                   `gorm:"column:email;not null;uniqueIndex:customers_email_key"`
	PasswordHash *string                  `gorm:"column:password_hash" json:"-"`
	Salt         *string                  `gorm:"column:salt" json:"-"`
	HashScheme   *enums.HashScheme        `gorm:"column:hash_scheme" json:"-"`
	Method       enums.RegistrationMethod `gorm:"column:method;not null;default:'manual'"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// CustomerPublicColumns lists every column except the credential.
var CustomerPublicColumns = []string{"id", "name", "email", "method", "created_at", "updated_at"}

func (c *Customer) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	if c.Method == "" {
		c.Method = enums.RegistrationMethodManual
	}
	c.Email = NormalizeEmail(c.Email)
	return nil
}

// SetCredential stores cred on the record, clearing fields the scheme does not use.
func (c *Customer) SetCredential(cred security.Credential) {
	hash, scheme := cred.Hash, cred.Scheme
	c.PasswordHash = &hash
	c.HashScheme = &scheme
	c.Salt = nil
	if cred.Salt != "" {
		salt := cred.Salt
		c.Salt = &salt
	}
}

func (c *Customer) PrincipalID() uuid.UUID { return c.ID }
func (c *Customer) PrincipalEmail() string { return c.Email }
func (c *Customer) PrincipalName() string { return c.Name }
func (c *Customer) Kind() enums.PrincipalKind { return enums.PrincipalKindCustomer }
func (c *Customer) RoleName() string { return CustomerRole }
func (c *Customer) Credential() security.Credential {
	var cred security.Credential
	if c.PasswordHash != nil {
		cred.Hash = *c.PasswordHash
	}
	if c.Salt != nil {
		cred.Salt = *c.Salt
	}
	if c.HashScheme != nil {
		cred.Scheme = *c.HashScheme
	}
	return cred
}
