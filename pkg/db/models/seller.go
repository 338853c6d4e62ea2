package models

import (
	"time"

	dbtypes "github.com/angelmondragon/marketplace-backend/pkg/db/types"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Seller owns a shop on the marketplace.
type Seller struct {
	ID           uuid.UUID                `gorm:"type:uuid;primaryKey"`
	Name         string                   `gorm:"column:name;not null"`
	Email        string                   `gorm:"column:email;not null;uniqueIndex:sellers_email_key"`
	PasswordHash string                   `gorm:"column:password_hash;not null;default:''" json:"-"`
	Salt         string                   `gorm:"column:salt;not null;default:''" json:"-"`
	HashScheme   enums.HashScheme         `gorm:"column:hash_scheme;not null;default:'pbkdf2-sha512'" json:"-"`
	Role         enums.SellerRole         `gorm:"column:role;not null;default:'seller'"`
	Status       enums.SellerStatus       `gorm:"column:status;not null;default:'pending'"`
	Payment      enums.PaymentStatus      `gorm:"column:payment;not null;default:'inactive'"`
	Method       enums.RegistrationMethod `gorm:"column:method;not null"`
	ShopInfo     dbtypes.StringMap        `gorm:"column:shop_info;not null"`
	Image        string                   `gorm:"column:image;not null;default:''"`
	CreatedAt    time.Time                `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt    time.Time                `gorm:"column:updated_at;autoUpdateTime"`
}

// SellerPublicColumns lists every column except the credential.
var SellerPublicColumns = []string{
	"id", "name", "email", "role", "status", "payment", "method", "shop_info", "image", "created_at", "updated_at",
}

func (s *Seller) BeforeCreate(*gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	if s.Role == "" {
		s.Role = enums.SellerRoleSeller
	}
	if s.Status == "" {
		s.Status = enums.SellerStatusPending
	}
	if s.Payment == "" {
		s.Payment = enums.PaymentStatusInactive
	}
	if s.ShopInfo == nil {
		s.ShopInfo = dbtypes.StringMap{}
	}
	s.Email = NormalizeEmail(s.Email)
	return nil
}

func (s *Seller) PrincipalID() uuid.UUID { return s.ID }
func (s *Seller) PrincipalEmail() string { return s.Email }
func (s *Seller) PrincipalName() string { return s.Name }
func (s *Seller) Kind() enums.PrincipalKind { return enums.PrincipalKindSeller }
func (s *Seller) RoleName() string { return string(s.Role) }
func (s *Seller) Credential() security.Credential {
	return security.Credential{Hash: s.PasswordHash, Salt: s.Salt, Scheme: s.HashScheme}
}
