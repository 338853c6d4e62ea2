package principals

import (
	"context"
	"strings"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	dbtypes "github.com/angelmondragon/marketplace-backend/pkg/db/types"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// SellerRepository exposes seller persistence operations.
type SellerRepository struct {
	db *gorm.DB
}

// NewSellerRepository constructs a seller repo bound to the provided GORM DB.
func NewSellerRepository(db *gorm.DB) *SellerRepository {
	return &SellerRepository{db: db}
}

// Create inserts a new seller.
func (r *SellerRepository) Create(ctx context.Context, seller *models.Seller) error {
	return r.db.WithContext(ctx).Create(seller).Error
}

// FindByEmail retrieves the seller matching email without credential columns.
func (r *SellerRepository) FindByEmail(ctx context.Context, email string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).
		Select(models.SellerPublicColumns).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&seller).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// FindByEmailWithCredentials retrieves the seller matching email including the credential.
func (r *SellerRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&seller).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// FindByID loads a seller by id without credential columns.
func (r *SellerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error) {
	var seller models.Seller
	if err := r.db.WithContext(ctx).
		Select(models.SellerPublicColumns).
		First(&seller, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &seller, nil
}

// UpdateShopInfo overwrites the seller's shop info and returns the refreshed record.
func (r *SellerRepository) UpdateShopInfo(ctx context.Context, id uuid.UUID, info map[string]string) (*models.Seller, error) {
	res := r.db.WithContext(ctx).
		Model(&models.Seller{}).
		Where("id = ?", id).
		Update("shop_info", dbtypes.StringMap(info))
	if res.Error != nil {
		return nil, res.Error
	}
	if res.RowsAffected == 0 {
		return nil, gorm.ErrRecordNotFound
	}
	return r.FindByID(ctx, id)
}

// SearchParams filters the admin seller listing.
type SearchParams struct {
	Query  string
	Status *enums.SellerStatus
	pagination.Params
}

// Search lists sellers newest first. On Postgres the query matches the weighted
// name/email search vector; other dialects fall back to a substring match.
func (r *SellerRepository) Search(ctx context.Context, params SearchParams) ([]models.Seller, string, error) {
	cursor, err := pagination.ParseCursor(params.Cursor)
	if err != nil {
		return nil, "", err
	}

	q := r.db.WithContext(ctx).Model(&models.Seller{}).Select(models.SellerPublicColumns)

	if term := strings.TrimSpace(params.Query); term != "" {
		if r.db.Dialector.Name() == "postgres" {
			q = q.Where("search_vector @@ plainto_tsquery('simple', ?)", term)
		} else {
			like := "%" + strings.ToLower(term) + "%"
			q = q.Where("(LOWER(name) LIKE ? OR LOWER(email) LIKE ?)", like, like)
		}
	}
	if params.Status != nil {
		q = q.Where("status = ?", *params.Status)
	}
	if cursor != nil {
		q = q.Where("(created_at < ? OR (created_at = ? AND id < ?))", cursor.CreatedAt, cursor.CreatedAt, cursor.ID)
	}

	var rows []models.Seller
	if err := q.Order("created_at DESC").Order("id DESC").
		Limit(pagination.LimitWithBuffer(params.Limit)).
		Find(&rows).Error; err != nil {
		return nil, "", err
	}

	rows, next := pagination.Trim(rows, params.Limit, func(s models.Seller) pagination.Cursor {
		return pagination.Cursor{CreatedAt: s.CreatedAt, ID: s.ID}
	})
	return rows, next, nil
}
