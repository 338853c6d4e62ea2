package principals

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/pagination"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestAdminRepositoryHidesCredentialByDefault(t *testing.T) {
	conn := newTestDB(t)
	repo := NewAdminRepository(conn)
	ctx := context.Background()

	admin := &models.Admin{Name: "Root", Email: " Root@Example.com ", PasswordHash: "abcd", Salt: "ef01", HashScheme: enums.HashSchemePBKDF2SHA512}
	require.NoError(t, repo.Create(ctx, admin))
	assert.Equal(t, "root@example.com", admin.Email)

	found, err := repo.FindByEmail(ctx, "ROOT@example.com")
	require.NoError(t, err)
	assert.Equal(t, admin.ID, found.ID)
	assert.Empty(t, found.PasswordHash)
	assert.Empty(t, found.Salt)
	assert.Equal(t, enums.AdminRoleAdmin, found.Role)

	withCred, err := repo.FindByEmailWithCredentials(ctx, "root@example.com")
	require.NoError(t, err)
	assert.Equal(t, "abcd", withCred.PasswordHash)
	assert.Equal(t, "ef01", withCred.Salt)

	byID, err := repo.FindByID(ctx, admin.ID)
	require.NoError(t, err)
	assert.Empty(t, byID.PasswordHash)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestDuplicateEmailIsUniqueViolation(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSellerRepository(conn)
	ctx := context.Background()

	first := &models.Seller{Name: "A", Email: "shop@example.com", Method: enums.RegistrationMethodManual, PasswordHash: "aa", Salt: "bb"}
	require.NoError(t, repo.Create(ctx, first))

	dup := &models.Seller{Name: "B", Email: "SHOP@example.com", Method: enums.RegistrationMethodManual, PasswordHash: "aa", Salt: "bb"}
	err := repo.Create(ctx, dup)
	require.Error(t, err)
	assert.True(t, db.IsUniqueViolation(err, ""))
}

func TestSellerUpdateShopInfo(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSellerRepository(conn)
	ctx := context.Background()

	seller := &models.Seller{Name: "Shop", Email: "shop@example.com", Method: enums.RegistrationMethodManual, PasswordHash: "aa", Salt: "bb"}
	require.NoError(t, repo.Create(ctx, seller))

	updated, err := repo.UpdateShopInfo(ctx, seller.ID, map[string]string{"shopName": "Corner", "district": "Dhaka"})
	require.NoError(t, err)
	assert.Equal(t, "Corner", updated.ShopInfo["shopName"])
	assert.Equal(t, "Dhaka", updated.ShopInfo["district"])
	assert.Empty(t, updated.PasswordHash)

	_, err = repo.UpdateShopInfo(ctx, uuid.New(), map[string]string{"shopName": "x"})
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestSellerSearchFiltersAndPaginates(t *testing.T) {
	conn := newTestDB(t)
	repo := NewSellerRepository(conn)
	ctx := context.Background()

	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	names := []string{"Green Grocer", "Green Tea House", "Blue Books", "Greenfield Farm"}
	for i, name := range names {
		seller := &models.Seller{
			Name:         name,
			Email:        uuid.NewString() + "@example.com",
			Method:       enums.RegistrationMethodManual,
			PasswordHash: "aa",
			Salt:         "bb",
			CreatedAt:    base.Add(time.Duration(i) * time.Hour),
		}
		if i == 3 {
			seller.Status = enums.SellerStatusActive
		}
		require.NoError(t, repo.Create(ctx, seller))
	}

	page, next, err := repo.Search(ctx, SearchParams{Query: "green", Params: pagination.Params{Limit: 2}})
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, "Greenfield Farm", page[0].Name)
	assert.Equal(t, "Green Tea House", page[1].Name)
	require.NotEmpty(t, next)

	page, next, err = repo.Search(ctx, SearchParams{Query: "green", Params: pagination.Params{Limit: 2, Cursor: next}})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Green Grocer", page[0].Name)
	assert.Empty(t, next)

	active := enums.SellerStatusActive
	page, _, err = repo.Search(ctx, SearchParams{Status: &active})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Greenfield Farm", page[0].Name)

	_, _, err = repo.Search(ctx, SearchParams{Params: pagination.Params{Cursor: "%%%"}})
	assert.Error(t, err)
}

func TestCustomerUpdateCredential(t *testing.T) {
	conn := newTestDB(t)
	repo := NewCustomerRepository(conn)
	ctx := context.Background()

	customer := &models.Customer{Name: "Ava", Email: "ava@x.com"}
	customer.SetCredential(security.Credential{Hash: "legacy", Scheme: enums.HashSchemeHMACSHA256})
	require.NoError(t, repo.Create(ctx, customer))

	require.NoError(t, repo.UpdateCredential(ctx, customer.ID, security.Credential{Hash: "new", Salt: "salt", Scheme: enums.HashSchemePBKDF2SHA512}))

	found, err := repo.FindByEmailWithCredentials(ctx, "ava@x.com")
	require.NoError(t, err)
	cred := found.Credential()
	assert.Equal(t, "new", cred.Hash)
	assert.Equal(t, "salt", cred.Salt)
	assert.Equal(t, enums.HashSchemePBKDF2SHA512, cred.Scheme)
	assert.Equal(t, enums.RegistrationMethodManual, found.Method)

	public, err := repo.FindByID(ctx, customer.ID)
	require.NoError(t, err)
	assert.True(t, public.Credential().Empty())
}

func TestResolverDispatchesOnKind(t *testing.T) {
	conn := newTestDB(t)
	ctx := context.Background()
	admins, sellers, customers := NewAdminRepository(conn), NewSellerRepository(conn), NewCustomerRepository(conn)

	seller := &models.Seller{Name: "Shop", Email: "shop@example.com", Role: enums.SellerRoleAdmin, Method: enums.RegistrationMethodManual, PasswordHash: "aa", Salt: "bb"}
	require.NoError(t, sellers.Create(ctx, seller))
	customer := &models.Customer{Name: "Ava", Email: "ava@x.com"}
	require.NoError(t, customers.Create(ctx, customer))

	resolver, err := NewResolver(admins, sellers, customers)
	require.NoError(t, err)

	info, err := resolver.Resolve(ctx, enums.PrincipalKindSeller, seller.ID)
	require.NoError(t, err)
	dto, ok := info.(*SellerDTO)
	require.True(t, ok, "expected seller dto, got %T", info)
	assert.Equal(t, enums.SellerRoleAdmin, dto.Role)

	info, err = resolver.Resolve(ctx, enums.PrincipalKindCustomer, customer.ID)
	require.NoError(t, err)
	assert.IsType(t, &CustomerDTO{}, info)

	_, err = resolver.Resolve(ctx, enums.PrincipalKindAdmin, seller.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeNotFound))

	_, err = resolver.Resolve(ctx, "vendor", seller.ID)
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeUnauthorized))
}
