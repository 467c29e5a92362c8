package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// UserRepository stores user accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Get(ctx context.Context, orgID, id uuid.UUID) (*models.User, error)
	List(ctx context.Context, orgID uuid.UUID, filter models.UserFilter) ([]*models.User, int, error)
	Update(ctx context.Context, user *models.User) error
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	TouchLastLogin(ctx context.Context, id uuid.UUID) error
	GetUserFromCache(ctx context.Context, id uuid.UUID) (*models.User, error)
	SetUserCache(ctx context.Context, user *models.User) error
	InvalidateUserCache(ctx context.Context, id uuid.UUID) error
}

// UserService manages the users of an organization.
type UserService interface {
	CreateUser(ctx context.Context, orgID uuid.UUID, user *models.User, password string) error
	GetUser(ctx context.Context, orgID, id uuid.UUID) (*models.User, error)
	ListUsers(ctx context.Context, orgID uuid.UUID, filter models.UserFilter) (models.Page[*models.User], error)
	UpdateUser(ctx context.Context, orgID, id uuid.UUID, update models.UserUpdate) (*models.User, error)
	DeactivateUser(ctx context.Context, orgID, id uuid.UUID) error
	ResetPassword(ctx context.Context, orgID, id uuid.UUID, password string) error
	EnsureSystemAdmin(ctx context.Context, email, password string) error
}

type userService struct {
	repo     UserRepository
	licenses LicenseService
	audit    AuditService
	logger   *logrus.Logger
}

func NewUserService(repo UserRepository, licenses LicenseService, audit AuditService, logger *logrus.Logger) UserService {
	return &userService{repo: repo, licenses: licenses, audit: audit, logger: logger}
}

func (s *userService) CreateUser(ctx context.Context, orgID uuid.UUID, user *models.User, password string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "user",
		"method":          "CreateUser",
		"organization_id": orgID,
	})
	log.Info("Attempting to create a new user")

	if !models.ValidRole(user.Role) {
		return fmt.Errorf("service: unknown role %q: %w", user.Role, models.ErrValidation)
	}
	if user.Role == models.RoleOwner && !models.RoleAtLeast(actorFrom(ctx).Role, models.RoleOwner) && !actorFrom(ctx).IsSystemAdmin {
		return fmt.Errorf("service: only owners can create owners: %w", models.ErrForbidden)
	}
	if err := s.licenses.CheckLimit(ctx, orgID, models.ResourceUsers); err != nil {
		log.WithError(err).Warn("User creation rejected by license")
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service: could not hash password: %w", err)
	}

	user.OrganizationID = orgPtr(orgID)
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	user.PasswordHash = string(hash)
	user.IsSystemAdmin = false
	user.Active = true
	if err := s.repo.Create(ctx, user); err != nil {
		log.WithError(err).Error("Failed to create user in repository")
		return fmt.Errorf("service: could not create user: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "user.create",
		ResourceType:   "user",
		ResourceID:     user.ID.String(),
		Metadata:       map[string]any{"email": user.Email, "role": user.Role},
	})
	log.WithField("user_id", user.ID).Info("User created successfully")
	return nil
}

func (s *userService) GetUser(ctx context.Context, orgID, id uuid.UUID) (*models.User, error) {
	user, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "user",
			"method":  "GetUser",
			"user_id": id,
		}).WithError(err).Warn("Failed to get user from repository")
		return nil, fmt.Errorf("service: could not get user: %w", err)
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, orgID uuid.UUID, filter models.UserFilter) (models.Page[*models.User], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service":         "user",
		"method":          "ListUsers",
		"organization_id": orgID,
		"page":            filter.Page,
	})
	log.Info("Listing users")

	users, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list users from repository")
		return models.Page[*models.User]{}, fmt.Errorf("service: could not list users: %w", err)
	}
	return models.NewPage(users, total, filter.PageRequest), nil
}

// UpdateUser applies update. Only owners may change another owner, and nobody
// may deactivate or demote themselves.
func (s *userService) UpdateUser(ctx context.Context, orgID, id uuid.UUID, update models.UserUpdate) (*models.User, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "UpdateUser",
		"user_id": id,
	})
	log.Info("Attempting to update user")

	user, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent user")
		return nil, fmt.Errorf("service: user with id %s not found for update: %w", id, err)
	}
	if err := s.authorizeChange(ctx, user, update); err != nil {
		log.WithError(err).Warn("User update rejected")
		return nil, err
	}
	if update.Active != nil && *update.Active && !user.Active {
		if err := s.licenses.CheckLimit(ctx, orgID, models.ResourceUsers); err != nil {
			log.WithError(err).Warn("User reactivation rejected by license")
			return nil, err
		}
	}

	if update.Name != nil {
		user.Name = *update.Name
	}
	if update.Role != nil {
		if !models.ValidRole(*update.Role) {
			return nil, fmt.Errorf("service: unknown role %q: %w", *update.Role, models.ErrValidation)
		}
		user.Role = *update.Role
	}
	if update.Active != nil {
		user.Active = *update.Active
	}

	if err := s.repo.Update(ctx, user); err != nil {
		log.WithError(err).Error("Failed to update user in repository")
		return nil, fmt.Errorf("service: could not update user: %w", err)
	}
	if err := s.repo.InvalidateUserCache(ctx, user.ID); err != nil {
		log.WithError(err).Warn("Failed to invalidate user cache")
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "user.update",
		ResourceType:   "user",
		ResourceID:     user.ID.String(),
		Metadata:       map[string]any{"role": user.Role, "active": user.Active},
	})
	log.Info("User updated successfully")
	return user, nil
}

func (s *userService) authorizeChange(ctx context.Context, target *models.User, update models.UserUpdate) error {
	actor := actorFrom(ctx)
	if actor.IsSystemAdmin {
		return nil
	}
	if target.Role == models.RoleOwner && actor.Role != models.RoleOwner {
		return fmt.Errorf("service: only owners can modify owners: %w", models.ErrForbidden)
	}
	if update.Role != nil && *update.Role == models.RoleOwner && actor.Role != models.RoleOwner {
		return fmt.Errorf("service: only owners can grant owner: %w", models.ErrForbidden)
	}
	if target.ID == actor.UserID {
		if update.Active != nil && !*update.Active {
			return fmt.Errorf("service: cannot deactivate yourself: %w", models.ErrForbidden)
		}
		if update.Role != nil && *update.Role != target.Role {
			return fmt.Errorf("service: cannot change your own role: %w", models.ErrForbidden)
		}
	}
	return nil
}

func (s *userService) DeactivateUser(ctx context.Context, orgID, id uuid.UUID) error {
	active := false
	_, err := s.UpdateUser(ctx, orgID, id, models.UserUpdate{Active: &active})
	return err
}

func (s *userService) ResetPassword(ctx context.Context, orgID, id uuid.UUID, password string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "ResetPassword",
		"user_id": id,
	})
	user, err := s.repo.Get(ctx, orgID, id)
	if err != nil {
		log.WithError(err).Warn("Attempted to reset password of a non-existent user")
		return fmt.Errorf("service: user with id %s not found for password reset: %w", id, err)
	}
	if err := s.authorizeChange(ctx, user, models.UserUpdate{}); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service: could not hash password: %w", err)
	}
	if err := s.repo.UpdatePassword(ctx, id, string(hash)); err != nil {
		log.WithError(err).Error("Failed to update password in repository")
		return fmt.Errorf("service: could not reset password: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "user.password_reset",
		ResourceType:   "user",
		ResourceID:     id.String(),
	})
	log.Info("Password reset successfully")
	return nil
}

// EnsureSystemAdmin creates the platform administrator when no account with email exists.
func (s *userService) EnsureSystemAdmin(ctx context.Context, email, password string) error {
	email = strings.ToLower(strings.TrimSpace(email))
	log := s.logger.WithFields(logrus.Fields{
		"service": "user",
		"method":  "EnsureSystemAdmin",
		"email":   email,
	})

	_, err := s.repo.GetByEmail(ctx, email)
	if err == nil {
		log.Debug("System admin already exists")
		return nil
	}
	if !errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("service: could not look up system admin: %w", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("service: could not hash password: %w", err)
	}
	admin := &models.User{
		Email:         email,
		Name:          "System Administrator",
		PasswordHash:  string(hash),
		IsSystemAdmin: true,
		Active:        true,
	}
	if err := s.repo.Create(ctx, admin); err != nil {
		return fmt.Errorf("service: could not create system admin: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		Action:       "system.bootstrap_admin",
		ResourceType: "user",
		ResourceID:   admin.ID.String(),
		ActorEmail:   "system",
	})
	log.Info("System admin created")
	return nil
}
