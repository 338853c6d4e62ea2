package principals

import (
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	"github.com/google/uuid"
)

// AdminDTO is the transport shape that omits credentials.
type AdminDTO struct {
	ID        uuid.UUID       `json:"id"`
	Name      string          `json:"name"`
	Email     string          `json:"email"`
	Role      enums.AdminRole `json:"role"`
	Image     string          `json:"image"`
	CreatedAt time.Time       `json:"createdAt"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// SellerDTO is the transport shape that omits credentials.
type SellerDTO struct {
	ID        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	Email     string                   `json:"email"`
	Role      enums.SellerRole         `json:"role"`
	Status    enums.SellerStatus       `json:"status"`
	Payment   enums.PaymentStatus      `json:"payment"`
	Method    enums.RegistrationMethod `json:"method"`
	ShopInfo  map[string]string        `json:"shopInfo"`
	Image     string                   `json:"image"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

// CustomerDTO is the transport shape that omits credentials.
type CustomerDTO struct {
	ID        uuid.UUID                `json:"id"`
	Name      string                   `json:"name"`
	Email     string                   `json:"email"`
	Method    enums.RegistrationMethod `json:"method"`
	CreatedAt time.Time                `json:"createdAt"`
	UpdatedAt time.Time                `json:"updatedAt"`
}

func FromAdmin(a *models.Admin) *AdminDTO {
	if a == nil {
		return nil
	}
	return &AdminDTO{
		ID:        a.ID,
		Name:      a.Name,
		Email:     a.Email,
		Role:      a.Role,
		Image:     a.Image,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
}

func FromSeller(s *models.Seller) *SellerDTO {
	if s == nil {
		return nil
	}
	shopInfo := make(map[string]string, len(s.ShopInfo))
	for k, v := range s.ShopInfo {
		shopInfo[k] = v
	}
	return &SellerDTO{
		ID:        s.ID,
		Name:      s.Name,
		Email:     s.Email,
		Role:      s.Role,
		Status:    s.Status,
		Payment:   s.Payment,
		Method:    s.Method,
		ShopInfo:  shopInfo,
		Image:     s.Image,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
}

func FromCustomer(c *models.Customer) *CustomerDTO {
	if c == nil {
		return nil
	}
	return &CustomerDTO{
		ID:        c.ID,
		Name:      c.Name,
		Email:     c.Email,
		Method:    c.Method,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}
