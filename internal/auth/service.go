package auth

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/links"
	"github.com/angelmondragon/marketplace-backend/internal/principals"
	pkgAuth "github.com/angelmondragon/marketplace-backend/pkg/auth"
	"github.com/angelmondragon/marketplace-backend/pkg/config"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/logger"
	"github.com/angelmondragon/marketplace-backend/pkg/metrics"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	opRegister = "register"
	opLogin    = "login"
)

// Service defines the register and login flows for every principal kind.
type Service interface {
	RegisterAdmin(ctx context.Context, req RegisterRequest) (*Session, error)
	RegisterSeller(ctx context.Context, req RegisterRequest) (*Session, error)
	RegisterCustomer(ctx context.Context, req RegisterRequest) (*Session, error)
	LoginAdmin(ctx context.Context, req LoginRequest) (*Session, error)
	LoginSeller(ctx context.Context, req LoginRequest) (*Session, error)
	LoginCustomer(ctx context.Context, req LoginRequest) (*Session, error)
}

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type adminRepository interface {
	Create(ctx context.Context, admin *models.Admin) error
	FindByEmail(ctx context.Context, email string) (*models.Admin, error)
	FindByEmailWithCredentials(ctx context.Context, email string) (*models.Admin, error)
}

type sellerRepository interface {
	Create(ctx context.Context, seller *models.Seller) error
	FindByEmail(ctx context.Context, email string) (*models.Seller, error)
	FindByEmailWithCredentials(ctx context.Context, email string) (*models.Seller, error)
}

type customerRepository interface {
	Create(ctx context.Context, customer *models.Customer) error
	FindByEmail(ctx context.Context, email string) (*models.Customer, error)
	FindByEmailWithCredentials(ctx context.Context, email string) (*models.Customer, error)
	UpdateCredential(ctx context.Context, id uuid.UUID, cred security.Credential) error
}

type linkRepository interface {
	Create(ctx context.Context, myID uuid.UUID) error
}

// ServiceParams bundles the dependencies required to build the auth service. The
// repo factories bind repositories to the registration transaction; when nil they
// default to the gorm-backed repositories.
type ServiceParams struct {
	TxRunner            txRunner
	Admins              adminRepository
	Sellers             sellerRepository
	Customers           customerRepository
	AdminRepoFactory    func(tx *gorm.DB) adminRepository
	SellerRepoFactory   func(tx *gorm.DB) sellerRepository
	CustomerRepoFactory func(tx *gorm.DB) customerRepository
	LinkRepoFactory     func(tx *gorm.DB) linkRepository
	Hasher              *security.Hasher
	PasswordConfig      config.PasswordConfig
	JWTConfig           config.JWTConfig
	SessionLifetime     time.Duration
	Metrics             *metrics.AuthMetrics
	Logger              *logger.Logger
	Now                 func() time.Time
}

type service struct {
	tx             txRunner
	admins         adminRepository
	sellers        sellerRepository
	customers      customerRepository
	adminRepo      func(tx *gorm.DB) adminRepository
	sellerRepo     func(tx *gorm.DB) sellerRepository
	customerRepo   func(tx *gorm.DB) customerRepository
	linkRepo       func(tx *gorm.DB) linkRepository
	hasher         *security.Hasher
	customerScheme enums.HashScheme
	upgradeLegacy  bool
	jwtCfg         config.JWTConfig
	lifetime       time.Duration
	metrics        *metrics.AuthMetrics
	logg           *logger.Logger
	now            func() time.Time
}

// NewService constructs the auth service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.TxRunner == nil {
		return nil, fmt.Errorf("tx runner is required")
	}
	if params.Admins == nil || params.Sellers == nil || params.Customers == nil {
		return nil, fmt.Errorf("admin, seller and customer repositories are required")
	}
	if params.Hasher == nil {
		return nil, fmt.Errorf("password hasher is required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}
	scheme := enums.HashSchemePBKDF2SHA512
	if params.PasswordConfig.CustomerScheme != "" {
		parsed, err := enums.ParseHashScheme(strings.ToLower(strings.TrimSpace(params.PasswordConfig.CustomerScheme)))
		if err != nil {
			return nil, err
		}
		scheme = parsed
	}

	svc := &service{
		tx:             params.TxRunner,
		admins:         params.Admins,
		sellers:        params.Sellers,
		customers:      params.Customers,
		adminRepo:      params.AdminRepoFactory,
		sellerRepo:     params.SellerRepoFactory,
		customerRepo:   params.CustomerRepoFactory,
		linkRepo:       params.LinkRepoFactory,
		hasher:         params.Hasher,
		customerScheme: scheme,
		upgradeLegacy:  params.PasswordConfig.UpgradeLegacy,
		jwtCfg:         params.JWTConfig,
		lifetime:       params.SessionLifetime,
		metrics:        params.Metrics,
		logg:           params.Logger,
		now:            params.Now,
	}
	if svc.adminRepo == nil {
		svc.adminRepo = func(tx *gorm.DB) adminRepository { return principals.NewAdminRepository(tx) }
	}
	if svc.sellerRepo == nil {
		svc.sellerRepo = func(tx *gorm.DB) sellerRepository { return principals.NewSellerRepository(tx) }
	}
	if svc.customerRepo == nil {
		svc.customerRepo = func(tx *gorm.DB) customerRepository { return principals.NewCustomerRepository(tx) }
	}
	if svc.linkRepo == nil {
		svc.linkRepo = func(tx *gorm.DB) linkRepository { return links.NewRepository(tx) }
	}
	if svc.lifetime <= 0 {
		svc.lifetime = 7 * 24 * time.Hour
	}
	if svc.now == nil {
		svc.now = time.Now
	}
	return svc, nil
}

// issue mints the session token for p and wraps it with its public DTO.
func (s *service) issue(p principals.Principal) (*Session, error) {
	now := s.now().UTC()
	payload := pkgAuth.AccessTokenPayload{
		PrincipalID: p.PrincipalID(),
		Kind:        p.Kind(),
		Role:        p.RoleName(),
		JTI:         uuid.NewString(),
	}
	if customer, ok := p.(*models.Customer); ok {
		payload.Name = customer.Name
		payload.Email = customer.Email
		payload.Method = customer.Method
	}
	token, err := pkgAuth.MintAccessToken(s.jwtCfg, s.lifetime, now, payload)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint jwt")
	}
	return &Session{
		Token:     token,
		ExpiresAt: now.Add(s.lifetime),
		Kind:      p.Kind(),
		Principal: principals.ToDTO(p),
	}, nil
}

func (s *service) record(kind enums.PrincipalKind, op string, err error) {
	s.metrics.IncAttempt(string(kind), op, outcomeFor(err))
}

func outcomeFor(err error) string {
	if err == nil {
		return metrics.OutcomeSuccess
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		return metrics.OutcomeError
	}
	switch typed.Code() {
	case pkgerrors.CodeValidation:
		return metrics.OutcomeInvalid
	case pkgerrors.CodeNotFound:
		return metrics.OutcomeNotFound
	case pkgerrors.CodeConflict:
		return metrics.OutcomeConflict
	case pkgerrors.CodeInvalidCredential, pkgerrors.CodeUnauthorized:
		return metrics.OutcomeMismatch
	}
	return metrics.OutcomeError
}

func (s *service) logContext(ctx context.Context, kind enums.PrincipalKind, op, email string) context.Context {
	return s.logg.WithFields(ctx, map[string]any{
		"principal_kind": string(kind),
		"operation":      op,
		"email_domain":   emailDomain(email),
	})
}

func emailDomain(email string) string {
	if at := strings.LastIndex(email, "@"); at >= 0 {
		return email[at+1:]
	}
	return ""
}
