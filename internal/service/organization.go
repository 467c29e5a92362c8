package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
)

// OrganizationRepository stores tenants.
type OrganizationRepository interface {
	Provision(ctx context.Context, org *models.Organization, license *models.License, owner *models.User, dropdowns []models.Dropdown) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	List(ctx context.Context, filter models.OrganizationFilter) ([]*models.Organization, int, error)
	Update(ctx context.Context, org *models.Organization) error
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

// OrganizationService covers tenant provisioning and administration.
type OrganizationService interface {
	Provision(ctx context.Context, req models.ProvisionRequest) (*models.Organization, error)
	GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error)
	ListOrganizations(ctx context.Context, filter models.OrganizationFilter) (models.Page[*models.Organization], error)
	UpdateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error)
	SetStatus(ctx context.Context, id uuid.UUID, status string) error
	PlatformStats(ctx context.Context) (*models.PlatformStats, error)
}

type organizationService struct {
	repo        OrganizationRepository
	audit       AuditService
	logger      *logrus.Logger
	defaultPlan string
	now         Clock
}

func NewOrganizationService(repo OrganizationRepository, audit AuditService, logger *logrus.Logger, defaultPlan string) OrganizationService {
	return &organizationService{
		repo:        repo,
		audit:       audit,
		logger:      logger,
		defaultPlan: defaultPlan,
		now:         time.Now,
	}
}

// Provision creates the organization, its license, its owner and the default
// dropdowns in one repository transaction.
func (s *organizationService) Provision(ctx context.Context, req models.ProvisionRequest) (*models.Organization, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service": "organization",
		"method":  "Provision",
		"slug":    req.Slug,
	})
	log.Info("Attempting to provision organization")

	plan := req.Plan
	if plan == "" {
		plan = s.defaultPlan
	}
	if !models.ValidPlan(plan) {
		return nil, fmt.Errorf("service: unknown plan %q: %w", plan, models.ErrValidation)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.AdminPassword), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("service: could not hash password: %w", err)
	}

	org := &models.Organization{
		Name:         strings.TrimSpace(req.Name),
		Slug:         strings.ToLower(strings.TrimSpace(req.Slug)),
		ContactEmail: req.ContactEmail,
		Status:       models.OrganizationStatusActive,
	}
	license := models.NewLicenseForPlan(uuid.Nil, plan, s.now())
	owner := &models.User{
		Email:        strings.ToLower(strings.TrimSpace(req.AdminEmail)),
		Name:         req.AdminName,
		PasswordHash: string(hash),
		Role:         models.RoleOwner,
		Active:       true,
	}

	if err := s.repo.Provision(ctx, org, license, owner, models.DefaultDropdowns()); err != nil {
		log.WithError(err).Error("Failed to provision organization in repository")
		return nil, fmt.Errorf("service: could not provision organization: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(org.ID),
		Action:         "organization.provision",
		ResourceType:   "organization",
		ResourceID:     org.ID.String(),
		Metadata:       map[string]any{"slug": org.Slug, "plan": plan, "owner_email": owner.Email},
	})
	log.WithField("organization_id", org.ID).Info("Organization provisioned successfully")
	return org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	org, err := s.repo.GetByID(ctx, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":         "organization",
			"method":          "GetOrganization",
			"organization_id": id,
		}).WithError(err).Warn("Failed to get organization from repository")
		return nil, fmt.Errorf("service: could not get organization: %w", err)
	}
	return org, nil
}

func (s *organizationService) ListOrganizations(ctx context.Context, filter models.OrganizationFilter) (models.Page[*models.Organization], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service": "organization",
		"method":  "ListOrganizations",
		"page":    filter.Page,
	})
	log.Info("Listing organizations")

	orgs, total, err := s.repo.List(ctx, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list organizations from repository")
		return models.Page[*models.Organization]{}, fmt.Errorf("service: could not list organizations: %w", err)
	}
	return models.NewPage(orgs, total, filter.PageRequest), nil
}

func (s *organizationService) UpdateOrganization(ctx context.Context, org *models.Organization) (*models.Organization, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "organization",
		"method":          "UpdateOrganization",
		"organization_id": org.ID,
	})
	log.Info("Attempting to update organization")

	existing, err := s.repo.GetByID(ctx, org.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent organization")
		return nil, fmt.Errorf("service: organization with id %s not found for update: %w", org.ID, err)
	}
	existing.Name = strings.TrimSpace(org.Name)
	existing.ContactEmail = org.ContactEmail

	if err := s.repo.Update(ctx, existing); err != nil {
		log.WithError(err).Error("Failed to update organization in repository")
		return nil, fmt.Errorf("service: could not update organization: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(existing.ID),
		Action:         "organization.update",
		ResourceType:   "organization",
		ResourceID:     existing.ID.String(),
		Metadata:       map[string]any{"name": existing.Name},
	})
	log.Info("Organization updated successfully")
	return existing, nil
}

func (s *organizationService) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "organization",
		"method":          "SetStatus",
		"organization_id": id,
		"status":          status,
	})
	if status != models.OrganizationStatusActive && status != models.OrganizationStatusSuspended {
		return fmt.Errorf("service: unknown organization status %q: %w", status, models.ErrValidation)
	}
	log.Info("Attempting to change organization status")

	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		log.WithError(err).Error("Failed to change organization status in repository")
		return fmt.Errorf("service: could not change organization status: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(id),
		Action:         "organization.status_change",
		ResourceType:   "organization",
		ResourceID:     id.String(),
		Metadata:       map[string]any{"status": status},
	})
	log.Info("Organization status changed successfully")
	return nil
}

func (s *organizationService) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	stats, err := s.repo.PlatformStats(ctx)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service": "organization",
			"method":  "PlatformStats",
		}).WithError(err).Error("Failed to get platform stats")
		return nil, fmt.Errorf("service: could not get platform stats: %w", err)
	}
	return stats, nil
}
