package auth

import (
	"context"
	"strings"
	"time"

	"github.com/angelmondragon/marketplace-backend/internal/principals"
	"github.com/angelmondragon/marketplace-backend/pkg/db"
	"github.com/angelmondragon/marketplace-backend/pkg/db/models"
	"github.com/angelmondragon/marketplace-backend/pkg/enums"
	pkgerrors "github.com/angelmondragon/marketplace-backend/pkg/errors"
	"github.com/angelmondragon/marketplace-backend/pkg/security"
	"gorm.io/gorm"
)

const (
	adminExistsMessage = "Admin with this email already exists"
	emailExistsMessage = "Email already exists"
)

// createFunc persists the principal for cred inside tx.
type createFunc func(ctx context.Context, tx *gorm.DB, name, email string, cred security.Credential) (principals.Principal, error)

func (s *service) RegisterAdmin(ctx context.Context, req RegisterRequest) (*Session, error) {
	return s.register(ctx, enums.PrincipalKindAdmin, enums.HashSchemePBKDF2SHA512, req,
		func(ctx context.Context, tx *gorm.DB, name, email string, cred security.Credential) (principals.Principal, error) {
			repo := s.adminRepo(tx)
			_, lookupErr := repo.FindByEmail(ctx, email)
			if err := ensureEmailFree(lookupErr, adminExistsMessage); err != nil {
				return nil, err
			}
			admin := &models.Admin{
				Name:         name,
				Email:        email,
				PasswordHash: cred.Hash,
				Salt:         cred.Salt,
				HashScheme:   cred.Scheme,
				Role:         enums.AdminRoleAdmin,
			}
			if err := repo.Create(ctx, admin); err != nil {
				return nil, createError(err, adminExistsMessage, "create admin")
			}
			return admin, nil
		})
}

func (s *service) RegisterSeller(ctx context.Context, req RegisterRequest) (*Session, error) {
	return s.register(ctx, enums.PrincipalKindSeller, enums.HashSchemePBKDF2SHA512, req,
		func(ctx context.Context, tx *gorm.DB, name, email string, cred security.Credential) (principals.Principal, error) {
			repo := s.sellerRepo(tx)
			_, lookupErr := repo.FindByEmail(ctx, email)
			if err := ensureEmailFree(lookupErr, emailExistsMessage); err != nil {
				return nil, err
			}
			seller := &models.Seller{
				Name:         name,
				Email:        email,
				PasswordHash: cred.Hash,
				Salt:         cred.Salt,
				HashScheme:   cred.Scheme,
				Method:       enums.RegistrationMethodManual,
			}
			if err := repo.Create(ctx, seller); err != nil {
				return nil, createError(err, emailExistsMessage, "create seller")
			}
			if err := s.linkRepo(tx).Create(ctx, seller.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create seller link")
			}
			return seller, nil
		})
}

func (s *service) RegisterCustomer(ctx context.Context, req RegisterRequest) (*Session, error) {
	return s.register(ctx, enums.PrincipalKindCustomer, s.customerScheme, req,
		func(ctx context.Context, tx *gorm.DB, name, email string, cred security.Credential) (principals.Principal, error) {
			repo := s.customerRepo(tx)
			_, lookupErr := repo.FindByEmail(ctx, email)
			if err := ensureEmailFree(lookupErr, emailExistsMessage); err != nil {
				return nil, err
			}
			customer := &models.Customer{
				Name:   name,
				Email:  email,
				Method: enums.RegistrationMethodManual,
			}
			customer.SetCredential(cred)
			if err := repo.Create(ctx, customer); err != nil {
				return nil, createError(err, emailExistsMessage, "create customer")
			}
			if err := s.linkRepo(tx).Create(ctx, customer.ID); err != nil {
				return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "create customer link")
			}
			return customer, nil
		})
}

// register validates req, hashes the password outside the transaction and runs create
// and the link insert atomically before minting the session token.
func (s *service) register(ctx context.Context, kind enums.PrincipalKind, scheme enums.HashScheme, req RegisterRequest, create createFunc) (session *Session, err error) {
	name := strings.TrimSpace(req.Name)
	email := models.NormalizeEmail(req.Email)
	ctx = s.logContext(ctx, kind, opRegister, email)
	defer func() { s.record(kind, opRegister, err) }()

	if name == "" || email == "" || req.Password == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, RegisterFieldsRequired)
	}

	cred, err := s.hash(scheme, req.Password)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	var principal principals.Principal
	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		created, err := create(ctx, tx, name, email, cred)
		if err != nil {
			return err
		}
		principal = created
		return nil
	})
	if err != nil {
		if pkgerrors.As(err) == nil {
			err = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "register")
		}
		if pkgerrors.IsCode(err, pkgerrors.CodeInternal) {
			s.logg.Error(ctx, "registration failed", err)
		} else {
			s.logg.Warn(ctx, "registration rejected")
		}
		return nil, err
	}

	session, err = s.issue(principal)
	if err != nil {
		s.logg.Error(ctx, "registration token failed", err)
		return nil, err
	}
	ctx = s.logg.WithUserID(ctx, principal.PrincipalID().String())
	s.logg.Info(ctx, "principal registered")
	return session, nil
}

func (s *service) hash(scheme enums.HashScheme, password string) (security.Credential, error) {
	start := time.Now()
	cred, err := s.hasher.Hash(scheme, password, "")
	s.metrics.ObserveHash(string(scheme), time.Since(start))
	return cred, err
}

// ensureEmailFree maps the error of an email lookup: a hit is a conflict and a miss is nil.
func ensureEmailFree(lookupErr error, conflictMessage string) error {
	if lookupErr == nil {
		return pkgerrors.New(pkgerrors.CodeConflict, conflictMessage)
	}
	if !db.IsRecordNotFound(lookupErr) {
		return pkgerrors.Wrap(pkgerrors.CodeInternal, lookupErr, "check email")
	}
	return nil
}

// createError maps a lost insert race on the email unique index to a conflict.
func createError(err error, conflictMessage, action string) error {
	if db.IsUniqueViolation(err, "") {
		return pkgerrors.Wrap(pkgerrors.CodeConflict, err, conflictMessage)
	}
	return pkgerrors.Wrap(pkgerrors.CodeInternal, err, action)
}
