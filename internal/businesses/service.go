package businesses

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
	"gorm.io/gorm"

	"github.com/rvaldezc/poscloud-backend/pkg/db"
	"github.com/rvaldezc/poscloud-backend/pkg/db/models"
	"github.com/rvaldezc/poscloud-backend/pkg/enums"
	pkgerrors "github.com/rvaldezc/poscloud-backend/pkg/errors"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

// Service manages tenant lifecycle and membership.
type Service interface {
	Create(ctx context.Context, ownerUserID uuid.UUID, input CreateInput) (*models.Business, error)
	GetByID(ctx context.Context, actorUserID, businessID uuid.UUID) (*models.Business, error)
	ListMine(ctx context.Context, userID uuid.UUID) ([]models.Business, error)
	ListUsers(ctx context.Context, actorUserID, businessID uuid.UUID) ([]models.UserBusiness, error)
	AddUser(ctx context.Context, actorUserID, businessID uuid.UUID, input AddUserInput) (*models.UserBusiness, error)
}

// CreateInput carries the fields needed to open a new business.
type CreateInput struct {
	Name string
	Plan string
}

// AddUserInput attaches an existing user to a business by email.
type AddUserInput struct {
	Email string
	Role  string
}

type service struct {
	repo              Repository
	tx                txRunner
	defaultMaxDevices int
}

// NewService builds a businesses service with the required dependencies.
func NewService(repo Repository, tx txRunner, defaultMaxDevices int) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("businesses repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if defaultMaxDevices <= 0 {
		defaultMaxDevices = 3
	}
	return &service{repo: repo, tx: tx, defaultMaxDevices: defaultMaxDevices}, nil
}

// Create opens a business and makes the caller its OWNER. Both rows land in
// one transaction so a failed membership insert never leaves an orphan
// tenant.
func (s *service) Create(ctx context.Context, ownerUserID uuid.UUID, input CreateInput) (*models.Business, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "business name is required")
	}

	businessSlug := slug.Make(name)
	exists, err := s.repo.SlugExists(ctx, businessSlug)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "checking slug")
	}
	if exists {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "a business with this name already exists")
	}

	plan := input.Plan
	if plan == "" {
		plan = "BASIC"
	}

	business := &models.Business{
		Name:          name,
		Slug:          businessSlug,
		Active:        true,
		Plan:          plan,
		LicenseStatus: enums.LicenseStatusActive,
		MaxDevices:    s.defaultMaxDevices,
	}

	err = s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.CreateBusiness(ctx, business); err != nil {
			return err
		}
		return repo.CreateMembership(ctx, &models.UserBusiness{
			UserID:     ownerUserID,
			BusinessID: business.ID,
			Role:       enums.MemberRoleOwner,
		})
	})
	if err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "a business with this name already exists")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating business")
	}
	return business, nil
}

func (s *service) GetByID(ctx context.Context, actorUserID, businessID uuid.UUID) (*models.Business, error) {
	if _, err := s.repo.FindMembership(ctx, actorUserID, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this business")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up membership")
	}

	business, err := s.repo.FindBusinessByID(ctx, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "business not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up business")
	}
	return business, nil
}

func (s *service) ListMine(ctx context.Context, userID uuid.UUID) ([]models.Business, error) {
	businesses, err := s.repo.ListForUser(ctx, userID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing businesses")
	}
	return businesses, nil
}

func (s *service) ListUsers(ctx context.Context, actorUserID, businessID uuid.UUID) ([]models.UserBusiness, error) {
	if _, err := s.repo.FindMembership(ctx, actorUserID, businessID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this business")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up membership")
	}

	memberships, err := s.repo.ListMemberships(ctx, businessID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing members")
	}
	return memberships, nil
}

// AddUser attaches an existing user by email. Only owners and admins may
// grow the membership list.
func (s *service) AddUser(ctx context.Context, actorUserID, businessID uuid.UUID, input AddUserInput) (*models.UserBusiness, error) {
	actor, err := s.repo.FindMembership(ctx, actorUserID, businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeForbidden, "not a member of this business")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up membership")
	}
	if !actor.Role.CanManageDevices() {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "only owners and admins can add members")
	}

	email := strings.ToLower(strings.TrimSpace(input.Email))
	if email == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "email is required")
	}
	role, err := enums.ParseMemberRole(input.Role)
	if err != nil {
		role = enums.MemberRoleMember
	}
	if role == enums.MemberRoleOwner {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "ownership cannot be granted this way")
	}

	user, err := s.repo.FindUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "no user with this email")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up user")
	}

	if _, err := s.repo.FindMembership(ctx, user.ID, businessID); err == nil {
		return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member")
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "looking up membership")
	}

	membership := &models.UserBusiness{
		UserID:     user.ID,
		BusinessID: businessID,
		Role:       role,
	}
	if err := s.repo.CreateMembership(ctx, membership); err != nil {
		if db.IsUniqueViolation(err, "") {
			return nil, pkgerrors.New(pkgerrors.CodeConflict, "user is already a member")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding member")
	}
	membership.User = user
	return membership, nil
}
