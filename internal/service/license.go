package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

// LicenseRepository stores tenant licenses and counts licensed resources.
type LicenseRepository interface {
	GetByOrganization(ctx context.Context, orgID uuid.UUID) (*models.License, error)
	Update(ctx context.Context, license *models.License) error
	CountResource(ctx context.Context, orgID uuid.UUID, resource string) (int, error)
	GetLicenseFromCache(ctx context.Context, orgID uuid.UUID) (*models.License, error)
	SetLicenseCache(ctx context.Context, license *models.License) error
	InvalidateLicenseCache(ctx context.Context, orgID uuid.UUID) error
}

// LicenseService answers licensing questions for other services.
type LicenseService interface {
	GetLicense(ctx context.Context, orgID uuid.UUID) (*models.License, error)
	GetUsage(ctx context.Context, orgID uuid.UUID) (*models.LicenseUsage, error)
	UpdateLicense(ctx context.Context, orgID uuid.UUID, update models.LicenseUpdate) (*models.License, error)
	CheckLimit(ctx context.Context, orgID uuid.UUID, resource string) error
	RequireFeature(ctx context.Context, orgID uuid.UUID, feature string) error
}

type licenseService struct {
	repo   LicenseRepository
	audit  AuditService
	logger *logrus.Logger
	now    Clock
}

func NewLicenseService(repo LicenseRepository, audit AuditService, logger *logrus.Logger) LicenseService {
	return &licenseService{repo: repo, audit: audit, logger: logger, now: time.Now}
}

// GetLicense reads through the Redis cache. Cache errors only degrade to a database read.
func (s *licenseService) GetLicense(ctx context.Context, orgID uuid.UUID) (*models.License, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "license",
		"method":          "GetLicense",
		"organization_id": orgID,
	})

	cached, err := s.repo.GetLicenseFromCache(ctx, orgID)
	if err != nil {
		log.WithError(err).Warn("Failed to read license from cache")
	}
	if cached != nil {
		return cached, nil
	}

	license, err := s.repo.GetByOrganization(ctx, orgID)
	if err != nil {
		log.WithError(err).Warn("Failed to get license from repository")
		return nil, fmt.Errorf("service: could not get license: %w", err)
	}
	if err := s.repo.SetLicenseCache(ctx, license); err != nil {
		log.WithError(err).Warn("Failed to cache license")
	}
	return license, nil
}

func (s *licenseService) GetUsage(ctx context.Context, orgID uuid.UUID) (*models.LicenseUsage, error) {
	license, err := s.GetLicense(ctx, orgID)
	if err != nil {
		return nil, err
	}
	usage := &models.LicenseUsage{
		License: license,
		Usage:   make(map[string]int, 3),
		Expired: license.IsExpired(s.now()),
	}
	for _, resource := range []string{models.ResourceUsers, models.ResourceAssets, models.ResourceRunbooks} {
		n, err := s.repo.CountResource(ctx, orgID, resource)
		if err != nil {
			return nil, fmt.Errorf("service: could not count %s: %w", resource, err)
		}
		usage.Usage[resource] = n
	}
	return usage, nil
}

func (s *licenseService) UpdateLicense(ctx context.Context, orgID uuid.UUID, update models.LicenseUpdate) (*models.License, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "license",
		"method":          "UpdateLicense",
		"organization_id": orgID,
	})
	log.Info("Attempting to update license")

	license, err := s.repo.GetByOrganization(ctx, orgID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update license of unknown organization")
		return nil, fmt.Errorf("service: license for organization %s not found for update: %w", orgID, err)
	}

	if update.Plan != nil && *update.Plan != license.Plan {
		if !models.ValidPlan(*update.Plan) {
			return nil, fmt.Errorf("service: unknown plan %q: %w", *update.Plan, models.ErrValidation)
		}
		defaults := models.NewLicenseForPlan(orgID, *update.Plan, s.now())
		license.Plan = defaults.Plan
		license.MaxUsers = defaults.MaxUsers
		license.MaxAssets = defaults.MaxAssets
		license.MaxRunbooks = defaults.MaxRunbooks
		license.Features = defaults.Features
		license.IssuedAt = defaults.IssuedAt
		license.ExpiresAt = defaults.ExpiresAt
	}
	if update.MaxUsers != nil {
		license.MaxUsers = *update.MaxUsers
	}
	if update.MaxAssets != nil {
		license.MaxAssets = *update.MaxAssets
	}
	if update.MaxRunbooks != nil {
		license.MaxRunbooks = *update.MaxRunbooks
	}
	if update.Features != nil {
		license.Features = update.Features
	}
	if update.ExpiresAt != nil {
		license.ExpiresAt = *update.ExpiresAt
	}

	if err := s.repo.Update(ctx, license); err != nil {
		log.WithError(err).Error("Failed to update license in repository")
		return nil, fmt.Errorf("service: could not update license: %w", err)
	}
	if err := s.repo.InvalidateLicenseCache(ctx, orgID); err != nil {
		log.WithError(err).Warn("Failed to invalidate license cache")
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "license.update",
		ResourceType:   "license",
		ResourceID:     license.ID.String(),
		Metadata: map[string]any{
			"plan":         license.Plan,
			"max_users":    license.MaxUsers,
			"max_assets":   license.MaxAssets,
			"max_runbooks": license.MaxRunbooks,
			"expires_at":   license.ExpiresAt,
		},
	})
	log.Info("License updated successfully")
	return license, nil
}

// CheckLimit fails with ErrLicenseExpired or ErrLicenseLimit when another resource
// of the given kind may not be created.
func (s *licenseService) CheckLimit(ctx context.Context, orgID uuid.UUID, resource string) error {
	license, err := s.GetLicense(ctx, orgID)
	if err != nil {
		return err
	}
	if license.IsExpired(s.now()) {
		return fmt.Errorf("service: license expired on %s: %w", license.ExpiresAt.Format(time.DateOnly), models.ErrLicenseExpired)
	}
	if license.Limit(resource) == 0 {
		return nil
	}
	current, err := s.repo.CountResource(ctx, orgID, resource)
	if err != nil {
		return fmt.Errorf("service: could not count %s: %w", resource, err)
	}
	if !license.Allows(resource, current) {
		s.logger.WithFields(logrus.Fields{
			"service":         "license",
			"method":          "CheckLimit",
			"organization_id": orgID,
			"resource":        resource,
			"limit":           license.Limit(resource),
		}).Warn("License limit reached")
		return fmt.Errorf("service: %s limit of %d reached: %w", resource, license.Limit(resource), models.ErrLicenseLimit)
	}
	return nil
}

func (s *licenseService) RequireFeature(ctx context.Context, orgID uuid.UUID, feature string) error {
	license, err := s.GetLicense(ctx, orgID)
	if err != nil {
		return err
	}
	if license.IsExpired(s.now()) {
		return fmt.Errorf("service: license expired: %w", models.ErrLicenseExpired)
	}
	if !license.HasFeature(feature) {
		return fmt.Errorf("service: feature %q: %w", feature, models.ErrFeatureNotLicensed)
	}
	return nil
}
