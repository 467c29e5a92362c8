package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func TestCreateAsset_NormalizesTags(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAssetRepository(ctrl)
	licenseMock := mocks.NewMockLicenseService(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	svc := NewAssetService(repoMock, licenseMock, auditMock, newTestLogger())

	ctx := context.Background()
	orgID := uuid.New()
	asset := &models.Asset{Name: "db-01", Type: models.AssetTypeDatabase, Tags: []string{" PCI ", "pci", "", "prod"}}

	licenseMock.EXPECT().CheckLimit(ctx, orgID, models.ResourceAssets).Return(nil)
	repoMock.EXPECT().Create(ctx, asset).DoAndReturn(func(_ context.Context, a *models.Asset) error {
		assert.Equal(t, orgID, a.OrganizationID)
		assert.Equal(t, []string{"pci", "prod"}, a.Tags)
		a.ID = uuid.New()
		return nil
	})
	auditMock.EXPECT().Record(ctx, auditAction("asset.create"))

	require.NoError(t, svc.CreateAsset(ctx, orgID, asset))
}

func TestCreateAsset_LicenseLimit(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAssetRepository(ctrl)
	licenseMock := mocks.NewMockLicenseService(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	svc := NewAssetService(repoMock, licenseMock, auditMock, newTestLogger())

	ctx := context.Background()
	orgID := uuid.New()

	licenseMock.EXPECT().CheckLimit(ctx, orgID, models.ResourceAssets).
		Return(fmt.Errorf("service: assets limit 25 reached: %w", models.ErrLicenseLimit))
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)
	auditMock.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	err := svc.CreateAsset(ctx, orgID, &models.Asset{Name: "db-01"})

	assert.ErrorIs(t, err, models.ErrLicenseLimit)
}

func TestUpdateAsset_KeepsOwnership(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAssetRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	svc := NewAssetService(repoMock, mocks.NewMockLicenseService(ctrl), auditMock, newTestLogger())

	ctx := context.Background()
	orgID := uuid.New()
	existing := &models.Asset{ID: uuid.New(), OrganizationID: orgID, Name: "old", Type: models.AssetTypeServer}
	update := &models.Asset{ID: existing.ID, OrganizationID: uuid.New(), Name: "web-01", Type: models.AssetTypeCloud}

	repoMock.EXPECT().GetByID(ctx, orgID, existing.ID).Return(existing, nil)
	repoMock.EXPECT().Update(ctx, existing).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("asset.update"))

	updated, err := svc.UpdateAsset(ctx, orgID, update)

	require.NoError(t, err)
	assert.Equal(t, orgID, updated.OrganizationID)
	assert.Equal(t, "web-01", updated.Name)
	assert.Equal(t, models.AssetTypeCloud, updated.Type)
}

func TestUpdateAsset_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockAssetRepository(ctrl)
	svc := NewAssetService(repoMock, mocks.NewMockLicenseService(ctrl), mocks.NewMockAuditService(ctrl), newTestLogger())

	repoMock.EXPECT().GetByID(gomock.Any(), gomock.Any(), gomock.Any()).Return(nil, models.ErrNotFound)
	repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpdateAsset(context.Background(), uuid.New(), &models.Asset{ID: uuid.New()})

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCreateTag_LowercasesName(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockTagRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	svc := NewTagService(repoMock, auditMock, newTestLogger())

	ctx := context.Background()
	orgID := uuid.New()
	tag := &models.Tag{Name: "  Ransomware ", Color: "#ff0000"}

	repoMock.EXPECT().Create(ctx, tag).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("tag.create"))

	require.NoError(t, svc.CreateTag(ctx, orgID, tag))
	assert.Equal(t, "ransomware", tag.Name)
	assert.Equal(t, orgID, tag.OrganizationID)
}

func TestCreateTag_Duplicate(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockTagRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	svc := NewTagService(repoMock, auditMock, newTestLogger())

	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Return(fmt.Errorf("insert tag: %w", models.ErrConflict))
	auditMock.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	err := svc.CreateTag(context.Background(), uuid.New(), &models.Tag{Name: "phishing"})

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestDeleteTag_RepositoryFailure(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockTagRepository(ctrl)
	svc := NewTagService(repoMock, mocks.NewMockAuditService(ctrl), newTestLogger())

	dbErr := errors.New("connection reset")
	repoMock.EXPECT().Delete(gomock.Any(), gomock.Any(), gomock.Any()).Return(dbErr)

	err := svc.DeleteTag(context.Background(), uuid.New(), uuid.New())

	assert.ErrorIs(t, err, dbErr)
	assert.Contains(t, err.Error(), "service: could not delete tag")
}

func TestSaveDropdown_NormalizesOptions(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockDropdownRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	svc := NewDropdownService(repoMock, auditMock, newTestLogger())

	ctx := context.Background()
	orgID := uuid.New()
	dropdown := &models.Dropdown{
		Key:     " Incident_Category ",
		Options: []models.DropdownOption{{Value: " malware "}, {Value: "phishing", Label: "Phishing"}},
	}

	repoMock.EXPECT().Upsert(ctx, dropdown).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("dropdown.save"))

	require.NoError(t, svc.SaveDropdown(ctx, orgID, dropdown))
	assert.Equal(t, "incident_category", dropdown.Key)
	assert.Equal(t, "incident_category", dropdown.Label)
	assert.Equal(t, orgID, dropdown.OrganizationID)
	assert.Equal(t, []models.DropdownOption{
		{Value: "malware", Label: "malware"},
		{Value: "phishing", Label: "Phishing"},
	}, dropdown.Options)
}

func TestSaveDropdown_RejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		name    string
		options []models.DropdownOption
	}{
		{name: "empty value", options: []models.DropdownOption{{Value: " "}}},
		{name: "duplicate value", options: []models.DropdownOption{{Value: "p1"}, {Value: "p1 "}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repoMock := mocks.NewMockDropdownRepository(ctrl)
			svc := NewDropdownService(repoMock, mocks.NewMockAuditService(ctrl), newTestLogger())

			repoMock.EXPECT().Upsert(gomock.Any(), gomock.Any()).Times(0)

			err := svc.SaveDropdown(context.Background(), uuid.New(), &models.Dropdown{Key: "severity", Options: tt.options})

			assert.ErrorIs(t, err, models.ErrValidation)
		})
	}
}

func TestGetDropdown_NotFound(t *testing.T) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockDropdownRepository(ctrl)
	svc := NewDropdownService(repoMock, mocks.NewMockAuditService(ctrl), newTestLogger())

	repoMock.EXPECT().GetByKey(gomock.Any(), gomock.Any(), "missing").Return(nil, models.ErrNotFound)

	_, err := svc.GetDropdown(context.Background(), uuid.New(), "missing")

	assert.ErrorIs(t, err, models.ErrNotFound)
}
