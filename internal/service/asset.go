package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/sirupsen/logrus"
)

type AssetRepository interface {
	Create(ctx context.Context, asset *models.Asset) error
	GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Asset, error)
	Update(ctx context.Context, asset *models.Asset) error
	Delete(ctx context.Context, orgID, id uuid.UUID) error
	List(ctx context.Context, orgID uuid.UUID, filter models.AssetFilter) ([]*models.Asset, int, error)
}

type AssetService interface {
	CreateAsset(ctx context.Context, orgID uuid.UUID, asset *models.Asset) error
	GetAsset(ctx context.Context, orgID, id uuid.UUID) (*models.Asset, error)
	ListAssets(ctx context.Context, orgID uuid.UUID, filter models.AssetFilter) (models.Page[*models.Asset], error)
	UpdateAsset(ctx context.Context, orgID uuid.UUID, asset *models.Asset) (*models.Asset, error)
	DeleteAsset(ctx context.Context, orgID, id uuid.UUID) error
}

type assetService struct {
	repo     AssetRepository
	licenses LicenseService
	audit    AuditService
	logger   *logrus.Logger
}

func NewAssetService(repo AssetRepository, licenses LicenseService, audit AuditService, logger *logrus.Logger) AssetService {
	return &assetService{repo: repo, licenses: licenses, audit: audit, logger: logger}
}

func (s *assetService) CreateAsset(ctx context.Context, orgID uuid.UUID, asset *models.Asset) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":         "asset",
		"method":          "CreateAsset",
		"organization_id": orgID,
		"name":            asset.Name,
	})
	log.Info("Attempting to create a new asset")

	if err := s.licenses.CheckLimit(ctx, orgID, models.ResourceAssets); err != nil {
		log.WithError(err).Warn("Asset creation rejected by license")
		return err
	}

	asset.OrganizationID = orgID
	asset.Tags = normalizeTags(asset.Tags)
	if err := s.repo.Create(ctx, asset); err != nil {
		logFailure(log, err, "Failed to create asset in repository")
		return fmt.Errorf("service: could not create asset: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "asset.create",
		ResourceType:   "asset",
		ResourceID:     asset.ID.String(),
		Metadata:       map[string]any{"name": asset.Name, "type": asset.Type},
	})
	log.WithField("asset_id", asset.ID).Info("Asset created successfully")
	return nil
}

func (s *assetService) GetAsset(ctx context.Context, orgID, id uuid.UUID) (*models.Asset, error) {
	asset, err := s.repo.GetByID(ctx, orgID, id)
	if err != nil {
		s.logger.WithFields(logrus.Fields{
			"service":  "asset",
			"method":   "GetAsset",
			"asset_id": id,
		}).WithError(err).Warn("Failed to get asset from repository")
		return nil, fmt.Errorf("service: could not get asset: %w", err)
	}
	return asset, nil
}

func (s *assetService) ListAssets(ctx context.Context, orgID uuid.UUID, filter models.AssetFilter) (models.Page[*models.Asset], error) {
	filter.PageRequest = filter.PageRequest.Normalize()
	log := s.logger.WithFields(logrus.Fields{
		"service": "asset",
		"method":  "ListAssets",
		"page":    filter.Page,
	})
	log.Info("Listing assets")

	assets, total, err := s.repo.List(ctx, orgID, filter)
	if err != nil {
		log.WithError(err).Error("Failed to list assets from repository")
		return models.Page[*models.Asset]{}, fmt.Errorf("service: could not list assets: %w", err)
	}
	return models.NewPage(assets, total, filter.PageRequest), nil
}

func (s *assetService) UpdateAsset(ctx context.Context, orgID uuid.UUID, asset *models.Asset) (*models.Asset, error) {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "asset",
		"method":   "UpdateAsset",
		"asset_id": asset.ID,
	})
	log.Info("Attempting to update asset")

	existing, err := s.repo.GetByID(ctx, orgID, asset.ID)
	if err != nil {
		log.WithError(err).Warn("Attempted to update a non-existent asset")
		return nil, fmt.Errorf("service: asset with id %s not found for update: %w", asset.ID, err)
	}
	existing.Name = asset.Name
	existing.Type = asset.Type
	existing.Criticality = asset.Criticality
	existing.Owner = asset.Owner
	existing.Hostname = asset.Hostname
	existing.IPAddress = asset.IPAddress
	existing.Description = asset.Description
	existing.Tags = normalizeTags(asset.Tags)

	if err := s.repo.Update(ctx, existing); err != nil {
		logFailure(log, err, "Failed to update asset in repository")
		return nil, fmt.Errorf("service: could not update asset: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "asset.update",
		ResourceType:   "asset",
		ResourceID:     existing.ID.String(),
	})
	log.Info("Asset updated successfully")
	return existing, nil
}

func (s *assetService) DeleteAsset(ctx context.Context, orgID, id uuid.UUID) error {
	log := s.logger.WithFields(logrus.Fields{
		"service":  "asset",
		"method":   "DeleteAsset",
		"asset_id": id,
	})
	if err := s.repo.Delete(ctx, orgID, id); err != nil {
		logFailure(log, err, "Failed to delete asset in repository")
		return fmt.Errorf("service: could not delete asset: %w", err)
	}

	s.audit.Record(ctx, &models.AuditLog{
		OrganizationID: orgPtr(orgID),
		Action:         "asset.delete",
		ResourceType:   "asset",
		ResourceID:     id.String(),
	})
	log.Info("Asset deleted successfully")
	return nil
}
