package links

import (
	"context"
	"fmt"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Repository manages the seller/customer messaging graph.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	Create(ctx context.Context, myID uuid.UUID) error
	FindByMyID(ctx context.Context, myID uuid.UUID) (*models.SellerCustomerLink, error)
	ListMissing(ctx context.Context, kind enums.PrincipalKind, limit int) ([]uuid.UUID, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository returns a link repository bound to the provided database.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// Create inserts the empty link for myID. An existing link is left untouched.
func (r *repository) Create(ctx context.Context, myID uuid.UUID) error {
	if myID == uuid.Nil {
		return fmt.Errorf("link owner id required")
	}
	link := &models.SellerCustomerLink{MyID: myID}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "my_id"}}, DoNothing: true}).
		Create(link).Error
}

func (r *repository) FindByMyID(ctx context.Context, myID uuid.UUID) (*models.SellerCustomerLink, error) {
	var link models.SellerCustomerLink
	if err := r.db.WithContext(ctx).
		Where("my_id = ?", myID).
		First(&link).Error; err != nil {
		return nil, err
	}
	return &link, nil
}

// ListMissing returns up to limit ids of sellers or customers that have no link, oldest first.
func (r *repository) ListMissing(ctx context.Context, kind enums.PrincipalKind, limit int) ([]uuid.UUID, error) {
	var table string
	switch kind {
	case enums.PrincipalKindSeller:
		table = "sellers"
	case enums.PrincipalKindCustomer:
		table = "customers"
	default:
		return nil, fmt.Errorf("principal kind %q has no links", kind)
	}
	if limit <= 0 {
		limit = 100
	}

	var ids []uuid.UUID
	err := r.db.WithContext(ctx).
		Table(table+" AS p").
		Joins("LEFT JOIN seller_customers sc ON sc.my_id = p.id").
		Where("sc.id IS NULL").
		Order("p.created_at ASC").
		Limit(limit).
		Pluck("p.id", &ids).Error
	if err != nil {
		return nil, err
	}
	return ids, nil
}
