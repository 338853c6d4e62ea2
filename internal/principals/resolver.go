package principals

import (
	"context"
	"fmt"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/google/uuid"
)

type adminFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Admin, error)
}

type sellerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Seller, error)
}

type customerFinder interface {
	FindByID(ctx context.Context, id uuid.UUID) (*models.Customer, error)
}

// Resolver loads the public profile of an authenticated principal.
type Resolver struct {
	admins    adminFinder
	sellers   sellerFinder
	customers customerFinder
}

// NewResolver builds a resolver over the three principal stores.
func NewResolver(admins adminFinder, sellers sellerFinder, customers customerFinder) (*Resolver, error) {
	if admins == nil || sellers == nil || customers == nil {
		return nil, fmt.Errorf("admin, seller and customer repositories are required")
	}
	return &Resolver{admins: admins, sellers: sellers, customers: customers}, nil
}

// Resolve returns the credential-free DTO for the principal of kind with id.
func (r *Resolver) Resolve(ctx context.Context, kind enums.PrincipalKind, id uuid.UUID) (any, error) {
	var (
		dto any
		err error
	)
	switch kind {
	case enums.PrincipalKindAdmin:
		var admin *models.Admin
		if admin, err = r.admins.FindByID(ctx, id); err == nil {
			dto = FromAdmin(admin)
		}
	case enums.PrincipalKindSeller:
		var seller *models.Seller
		if seller, err = r.sellers.FindByID(ctx, id); err == nil {
			dto = FromSeller(seller)
		}
	case enums.PrincipalKindCustomer:
		var customer *models.Customer
		if customer, err = r.customers.FindByID(ctx, id); err == nil {
			dto = FromCustomer(customer)
		}
	default:
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "unknown principal kind")
	}
	if err != nil {
		if db.IsRecordNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, "User not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "load user")
	}
	return dto, nil
}
