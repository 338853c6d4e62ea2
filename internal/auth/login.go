package auth

import (
	"context"
	"errors"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/principals"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
)

const (
	emailNotFoundMessage    = "Email not found"
	passwordIncorrect       = "Password incorrect"
	customerPasswordMessage = "Password is incorrect"
)

func (s *service) LoginAdmin(ctx context.Context, req LoginRequest) (*Session, error) {
	return s.login(ctx, enums.PrincipalKindAdmin, req, func(ctx context.Context, email string) (principals.Principal, error) {
		admin, err := s.admins.FindByEmailWithCredentials(ctx, email)
		if err != nil {
			return nil, err
		}
		return admin, nil
	})
}

func (s *service) LoginSeller(ctx context.Context, req LoginRequest) (*Session, error) {
	return s.login(ctx, enums.PrincipalKindSeller, req, func(ctx context.Context, email string) (principals.Principal, error) {
		seller, err := s.sellers.FindByEmailWithCredentials(ctx, email)
		if err != nil {
			return nil, err
		}
		return seller, nil
	})
}

func (s *service) LoginCustomer(ctx context.Context, req LoginRequest) (*Session, error) {
	return s.login(ctx, enums.PrincipalKindCustomer, req, func(ctx context.Context, email string) (principals.Principal, error) {
		customer, err := s.customers.FindByEmailWithCredentials(ctx, email)
		if err != nil {
			return nil, err
		}
		return customer, nil
	})
}

// login loads the principal with its credential, verifies the password and mints a
// session. Admin and seller mismatches are 400s while customer mismatches are 401s.
func (s *service) login(ctx context.Context, kind enums.PrincipalKind, req LoginRequest, load func(context.Context, string) (principals.Principal, error)) (session *Session, err error) {
	email := models.NormalizeEmail(req.Email)
	ctx = s.logContext(ctx, kind, opLogin, email)
	defer func() { s.record(kind, opLogin, err) }()

	if email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, LoginFieldsRequired)
	}

	principal, err := load(ctx, email)
	if err != nil {
		if db.IsRecordNotFound(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeNotFound, err, emailNotFoundMessage)
		}
		s.logg.Error(ctx, "login lookup failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "lookup principal")
	}
	ctx = s.logg.WithUserID(ctx, principal.PrincipalID().String())

	cred := principal.Credential()
	start := time.Now()
	ok, err := s.hasher.Verify(req.Password, cred)
	s.metrics.ObserveHash(string(cred.EffectiveScheme()), time.Since(start))
	if err != nil && !errors.Is(err, security.ErrInvalidHash) {
		s.logg.Error(ctx, "password verification failed", err)
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !ok {
		// Oauth accounts without a stored credential fall through as a mismatch.
		s.logg.Warn(ctx, "password mismatch")
		if kind == enums.PrincipalKindCustomer {
			return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, customerPasswordMessage)
		}
		return nil, pkgerrors.New(pkgerrors.CodeInvalidCredential, passwordIncorrect)
	}

	if customer, isCustomer := principal.(*models.Customer); isCustomer {
		s.upgradeCredential(ctx, customer, req.Password)
	}

	session, err = s.issue(principal)
	if err != nil {
		s.logg.Error(ctx, "login token failed", err)
		return nil, err
	}
	s.logg.Info(ctx, "principal logged in")
	return session, nil
}

// upgradeCredential rewrites a legacy customer credential after a successful login.
// Failures are logged and never fail the login.
func (s *service) upgradeCredential(ctx context.Context, customer *models.Customer, password string) {
	if !s.upgradeLegacy || !s.hasher.NeedsUpgrade(customer.Credential()) {
		return
	}
	cred, err := s.hash(enums.HashSchemePBKDF2SHA512, password)
	if err != nil {
		s.logg.Error(ctx, "legacy credential rehash failed", err)
		return
	}
	if err := s.customers.UpdateCredential(ctx, customer.ID, cred); err != nil {
		s.logg.Error(ctx, "legacy credential upgrade failed", err)
		return
	}
	customer.SetCredential(cred)
	s.logg.Info(ctx, "legacy credential upgraded")
}
