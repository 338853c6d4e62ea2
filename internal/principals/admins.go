package principals

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AdminRepository exposes admin persistence operations.
type AdminRepository struct {
	db *gorm.DB
}

// NewAdminRepository constructs an admin repo bound to the provided GORM DB.
func NewAdminRepository(db *gorm.DB) *AdminRepository {
	return &AdminRepository{db: db}
}

// Create inserts a new admin.
func (r *AdminRepository) Create(ctx context.Context, admin *models.Admin) error {
	return r.db.WithContext(ctx).Create(admin).Error
}

// FindByEmail retrieves the admin matching email without credential columns.
func (r *AdminRepository) FindByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).
		Select(models.AdminPublicColumns).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByEmailWithCredentials retrieves the admin matching email including the credential.
func (r *AdminRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&admin).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}

// FindByID loads an admin by id without credential columns.
func (r *AdminRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error) {
	var admin models.Admin
	if err := r.db.WithContext(ctx).
		Select(models.AdminPublicColumns).
		First(&admin, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &admin, nil
}
