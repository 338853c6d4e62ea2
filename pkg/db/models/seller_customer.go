package models

import (
	"time"

	dbtypes "github.com/angelmondragon/marketplace-backend/pkg/db/types"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SellerCustomerLink is a principal's node in the seller/customer messaging graph.
type SellerCustomerLink struct {
	ID        uuid.UUID        `gorm:"type:uuid;primaryKey"`
	MyID      uuid.UUID        `gorm:"column:my_id;type:uuid;not null;uniqueIndex:seller_customers_my_id_key"`
	Friends   dbtypes.UUIDList `gorm:"column:friends;not null"`
	CreatedAt time.Time        `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time        `gorm:"column:updated_at;autoUpdateTime"`
}

func (SellerCustomerLink) TableName() string {
	return "seller_customers"
}

func (l *SellerCustomerLink) BeforeCreate(*gorm.DB) error {
	if l.ID == uuid.Nil {
		l.ID = uuid.New()
	}
	if l.Friends == nil {
		l.Friends = dbtypes.UUIDList{}
	}
	return nil
}
