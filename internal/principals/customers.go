package principals

import (
	"context"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// CustomerRepository exposes customer persistence operations.
type CustomerRepository struct {
	db *gorm.DB
}

// NewCustomerRepository constructs a customer repo bound to the provided GORM DB.
func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

// Create inserts a new customer.
func (r *CustomerRepository) Create(ctx context.Context, customer *models.Customer) error {
	return r.db.WithContext(ctx).Create(customer).Error
}

// FindByEmail retrieves the customer matching email without credential columns.
func (r *CustomerRepository) FindByEmail(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Select(models.CustomerPublicColumns).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByEmailWithCredentials retrieves the customer matching email including the credential.
func (r *CustomerRepository) FindByEmailWithCredentials(ctx context.Context, email string) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Where("email = ?", models.NormalizeEmail(email)).
		First(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// FindByID loads a customer by id without credential columns.
func (r *CustomerRepository) FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error) {
	var customer models.Customer
	if err := r.db.WithContext(ctx).
		Select(models.CustomerPublicColumns).
		First(&customer, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateCredential replaces the stored credential, used when upgrading legacy hashes.
func (r *CustomerRepository) UpdateCredential(ctx context.Context, id uuid.UUID, cred security.Credential) error {
	var salt any
	if cred.Salt != "" {
		salt = cred.Salt
	}
	return r.db.WithContext(ctx).
		Model(&models.Customer{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"password_hash": cred.Hash,
			"salt":          salt,
			"hash_scheme":   string(cred.Scheme),
		}).Error
}
