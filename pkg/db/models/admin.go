package models

import (
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Admin is a platform operator.
type Admin struct {
	ID           uuid.UUID        `gorm:"type:uuid;primaryKey"`
	Name         string           `gorm:"column:name;not null"`
	Email        string           `gorm:"column:email;not null;uniqueIndex:admins_email_key"`
	PasswordHash string           `gorm:"column:password_hash;not null" json:"-"`
	Salt         string           `gorm:"column:salt;not null;default:''" json:"-"`
	HashScheme   enums.HashScheme `gorm:"column:hash_scheme;not null;default:'pbkdf2-sha512'" json:"-"`
	Role         enums.AdminRole  `gorm:"column:role;not null;default:'admin'"`
	Image        string           `gorm:"column:image;not null;default:''"`
	CreatedAt    time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

// AdminPublicColumns lists every column except the credential.
var AdminPublicColumns = []string{"id", "name", "email", "role", "image", "created_at", "updated_at"}

func (a *Admin) BeforeCreate(*gorm.DB) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	if a.Role == "" {
		a.Role = enums.AdminRoleAdmin
	}
	a.Email = NormalizeEmail(a.Email)
	return nil
}

func (a *Admin) PrincipalID() uuid.UUID { return a.ID }
func (a *Admin) PrincipalEmail() string { return a.Email }
func (a *Admin) PrincipalName() string { return a.Name }
func (a *Admin) Kind() enums.PrincipalKind { return enums.PrincipalKindAdmin }
func (a *Admin) RoleName() string { return string(a.Role) }
func (a *Admin) Credential() security.Credential {
	return security.Credential{Hash: a.PasswordHash, Salt: a.Salt, Scheme: a.HashScheme}
}
