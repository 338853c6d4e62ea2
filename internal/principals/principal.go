package principals

import (
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/google/uuid"
)

// Principal is an authenticated identity. It is implemented by *models.Admin,
// *models.Seller and *models.Customer; callers switch on Kind rather than the role.
type Principal interface {
	PrincipalID() uuid.UUID
	PrincipalEmail() string
	PrincipalName() string
	Kind() enums.PrincipalKind
	RoleName() string
	Credential() security.Credential
}

var (
	_ Principal = (*models.Admin)(nil)
	_ Principal = (*models.Seller)(nil)
	_ Principal = (*models.Customer)(nil)
)

// ToDTO returns the public view of p, or nil for an unknown variant.
func ToDTO(p Principal) any {
	switch v := p.(type) {
	case *models.Admin:
		return FromAdmin(v)
	case *models.Seller:
		return FromSeller(v)
	case *models.Customer:
		return FromCustomer(v)
	}
	return nil
}
