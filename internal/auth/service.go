package auth

import (
	"context"
	"strings"
	"time"

	"github.com/agropazar/agropazar-backend/internal/applications"
	"github.com/agropazar/agropazar-backend/internal/companies"
	"github.com/agropazar/agropazar-backend/internal/farms"
	"github.com/agropazar/agropazar-backend/internal/users"
	pkgauth "github.com/agropazar/agropazar-backend/pkg/auth"
	"github.com/agropazar/agropazar-backend/pkg/config"
	"github.com/agropazar/agropazar-backend/pkg/db"
	"github.com/agropazar/agropazar-backend/pkg/db/models"
	"github.com/agropazar/agropazar-backend/pkg/enums"
	pkgerrors "github.com/agropazar/agropazar-backend/pkg/errors"
	"github.com/agropazar/agropazar-backend/pkg/logger"
	"github.com/agropazar/agropazar-backend/pkg/security"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service handles registration, login, and the authenticated identity view.
type Service struct {
	conn      *gorm.DB
	users     *users.Repository
	farms     *farms.Repository
	companies *companies.Repository
	apps      *applications.Service
	jwtCfg    config.JWTConfig
	pwCfg     config.PasswordConfig
	logg      *logger.Logger
	now       func() time.Time
}

// NewService wires the auth service.
func NewService(conn *gorm.DB, userRepo *users.Repository, farmRepo *farms.Repository, companyRepo *companies.Repository, apps *applications.Service, jwtCfg config.JWTConfig, pwCfg config.PasswordConfig, logg *logger.Logger) (*Service, error) {
	if conn == nil || userRepo == nil || farmRepo == nil || companyRepo == nil || apps == nil {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "auth service dependencies missing")
	}
	return &Service{
		conn:      conn,
		users:     userRepo,
		farms:     farmRepo,
		companies: companyRepo,
		apps:      apps,
		jwtCfg:    jwtCfg,
		pwCfg:     pwCfg,
		logg:      logg,
		now:       time.Now,
	}, nil
}

// RegisterFarmerInput is the farmer sign-up payload. Documents reference
// files already accepted by the upload layer. UserID is pre-generated by the
// controller so uploaded files land under the new account's directory before
// the row exists.
type RegisterFarmerInput struct {
	UserID    uuid.UUID `json:"-"`
	Email     string    `json:"email" validate:"required,email"`
	Password  string    `json:"password" validate:"required,min=8,max=128"`
	FirstName string    `json:"firstName" validate:"required,min=2,max=60"`
	LastName  string    `json:"lastName" validate:"required,min=2,max=60"`
	Phone     *string   `json:"phone" validate:"omitempty,min=7,max=20"`
	FarmName  string    `json:"farmName" validate:"required,min=2,max=120"`
	Province  string    `json:"province" validate:"required,min=2,max=60"`
	District  *string   `json:"district" validate:"omitempty,max=60"`
	Documents []applications.DocumentInput
}

// RegisterResult is the account created by a registration call.
type RegisterResult struct {
	User        *users.UserDTO      `json:"user"`
	Application *models.Application `json:"application,omitempty"`
}

// RegisterFarmer creates a pending farmer account, its farm shell, and the
// farm review application in one transaction.
func (s *Service) RegisterFarmer(ctx context.Context, input RegisterFarmerInput) (*RegisterResult, error) {
	email := normalizeEmail(input.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		ID:           input.UserID,
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         enums.UserRoleFarmer,
		Status:       enums.UserStatusPending,
	}
	farm := models.Farm{
		Name:     input.FarmName,
		Province: input.Province,
		District: input.District,
	}

	var app *models.Application
	err = db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(ctx, &user); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "this email address is already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		farm.OwnerID = user.ID
		if err := s.farms.WithTx(tx).Create(ctx, &farm); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create farm")
		}

		created, err := s.apps.SubmitTx(ctx, tx, applications.SubmitInput{
			Type:        enums.ApplicationTypeFarm,
			SubjectID:   farm.ID,
			ApplicantID: user.ID,
			Documents:   input.Documents,
		})
		if err != nil {
			return err
		}
		app = created
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "farmer registered")
	}
	return &RegisterResult{User: users.FromModel(&user), Application: app}, nil
}

// RegisterCompanyInput is the company sign-up payload.
type RegisterCompanyInput struct {
	Email        string  `json:"email" validate:"required,email"`
	Password     string  `json:"password" validate:"required,min=8,max=128"`
	FirstName    string  `json:"firstName" validate:"required,min=2,max=60"`
	LastName     string  `json:"lastName" validate:"required,min=2,max=60"`
	Phone        *string `json:"phone" validate:"omitempty,min=7,max=20"`
	TradeName    string  `json:"tradeName" validate:"required,min=2,max=160"`
	TaxNumber    string  `json:"taxNumber" validate:"required,min=10,max=11,numeric"`
	Website      *string `json:"website" validate:"omitempty,url,max=200"`
	ContactEmail *string `json:"contactEmail" validate:"omitempty,email"`
	ContactPhone *string `json:"contactPhone" validate:"omitempty,min=7,max=20"`
}

// RegisterCompany creates a pending company account and its profile shell in
// one transaction. The agricultural authority activates the account from the
// user management panel.
func (s *Service) RegisterCompany(ctx context.Context, input RegisterCompanyInput) (*RegisterResult, error) {
	email := normalizeEmail(input.Email)
	if err := s.ensureEmailFree(ctx, email); err != nil {
		return nil, err
	}

	hash, err := security.HashPassword(input.Password, s.pwCfg)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "hash password")
	}

	user := models.User{
		Email:        email,
		PasswordHash: hash,
		FirstName:    input.FirstName,
		LastName:     input.LastName,
		Phone:        input.Phone,
		Role:         enums.UserRoleCompany,
		Status:       enums.UserStatusPending,
	}
	company := models.Company{
		TradeName:    input.TradeName,
		TaxNumber:    input.TaxNumber,
		Website:      input.Website,
		ContactEmail: input.ContactEmail,
		ContactPhone: input.ContactPhone,
	}

	err = db.WithTx(ctx, s.conn, func(tx *gorm.DB) error {
		if err := s.users.WithTx(tx).Create(ctx, &user); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "this email address is already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create user")
		}

		company.OwnerID = user.ID
		if err := s.companies.WithTx(tx).Create(ctx, &company); err != nil {
			if db.IsUniqueViolation(err) {
				return pkgerrors.New(pkgerrors.CodeConflict, "this tax number is already registered")
			}
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create company")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil {
		s.logg.Info(s.logg.WithUserID(ctx, user.ID.String()), "company registered")
	}
	return &RegisterResult{User: users.FromModel(&user)}, nil
}

// LoginInput is the credential payload.
type LoginInput struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

// LoginResult carries the bearer token and its subject. The user is shaped
// through the transport DTO so credentials never reach the wire.
type LoginResult struct {
	Token     string         `json:"token"`
	ExpiresAt time.Time      `json:"expiresAt"`
	User      *users.UserDTO `json:"user"`
}

// Login verifies credentials and mints an access token. Pending accounts may
// log in; route access for them is decided by the auth middleware. Deleted
// accounts are treated as unknown.
func (s *Service) Login(ctx context.Context, input LoginInput) (*LoginResult, error) {
	user, err := s.users.FindByEmail(ctx, normalizeEmail(input.Email))
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil || user.Status == enums.UserStatusDeleted {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	match, err := security.VerifyPassword(input.Password, user.PasswordHash)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid email or password")
	}

	now := s.now().UTC()
	token, err := pkgauth.MintAccessToken(s.jwtCfg, now, pkgauth.AccessTokenPayload{
		UserID: user.ID,
		Role:   user.Role,
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "mint token")
	}

	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil && s.logg != nil {
		s.logg.Warn(ctx, "failed to update last login timestamp")
	}

	return &LoginResult{
		Token:     token,
		ExpiresAt: now.Add(time.Duration(s.jwtCfg.ExpirationMinutes) * time.Minute),
		User:      users.FromModel(user),
	}, nil
}

// Profile is the authenticated identity plus the role-specific profile.
type Profile struct {
	User    *users.UserDTO  `json:"user"`
	Farm    *models.Farm    `json:"farm,omitempty"`
	Company *models.Company `json:"company,omitempty"`
}

// Me resolves the caller's profile by role.
func (s *Service) Me(ctx context.Context, userID uuid.UUID) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load user")
	}
	if user == nil {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}

	profile := Profile{User: users.FromModel(user)}
	switch user.Role {
	case enums.UserRoleFarmer:
		farm, err := s.farms.FindByOwner(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load farm")
		}
		profile.Farm = farm
	case enums.UserRoleCompany:
		company, err := s.companies.FindByOwner(ctx, userID)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load company")
		}
		profile.Company = company
	}
	return &profile, nil
}

func (s *Service) ensureEmailFree(ctx context.Context, email string) error {
	existing, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "check email")
	}
	if existing != nil {
		return pkgerrors.New(pkgerrors.CodeConflict, "this email address is already registered")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
