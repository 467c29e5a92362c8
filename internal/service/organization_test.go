package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

func newTestOrganizationService(t *testing.T) (*organizationService, *mocks.MockOrganizationRepository, *mocks.MockAuditService) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockOrganizationRepository(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)

	svc := NewOrganizationService(repoMock, auditMock, newTestLogger(), models.PlanTrial).(*organizationService)
	svc.now = fixedClock
	return svc, repoMock, auditMock
}

func TestProvision_Success(t *testing.T) {
	svc, repoMock, auditMock := newTestOrganizationService(t)
	ctx := context.Background()
	orgID := uuid.New()

	req := models.ProvisionRequest{
		Name:          " Acme Corp ",
		Slug:          "ACME",
		ContactEmail:  "security@acme.test",
		AdminEmail:    "Owner@Acme.test",
		AdminName:     "Olga Owner",
		AdminPassword: "initial-pass",
	}

	repoMock.EXPECT().
		Provision(ctx, gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, org *models.Organization, lic *models.License, owner *models.User, dropdowns []models.Dropdown) error {
			assert.Equal(t, "Acme Corp", org.Name)
			assert.Equal(t, "acme", org.Slug)
			assert.Equal(t, models.OrganizationStatusActive, org.Status)
			assert.Equal(t, models.PlanTrial, lic.Plan)
			assert.Equal(t, 5, lic.MaxUsers)
			assert.Equal(t, models.RoleOwner, owner.Role)
			assert.Equal(t, "owner@acme.test", owner.Email)
			assert.NotEmpty(t, owner.PasswordHash)
			assert.Len(t, dropdowns, len(models.DefaultDropdowns()))
			org.ID = orgID
			return nil
		})
	auditMock.EXPECT().Record(ctx, auditAction("organization.provision"))

	org, err := svc.Provision(ctx, req)

	require.NoError(t, err)
	assert.Equal(t, orgID, org.ID)
}

func TestProvision_UnknownPlan(t *testing.T) {
	svc, repoMock, _ := newTestOrganizationService(t)
	repoMock.EXPECT().Provision(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Provision(context.Background(), models.ProvisionRequest{Plan: "gold"})

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestProvision_SlugTaken(t *testing.T) {
	svc, repoMock, auditMock := newTestOrganizationService(t)
	repoMock.EXPECT().
		Provision(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return(models.ErrConflict)
	auditMock.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.Provision(context.Background(), models.ProvisionRequest{Slug: "acme", Plan: models.PlanStandard})

	assert.ErrorIs(t, err, models.ErrConflict)
}

func TestSetStatus(t *testing.T) {
	svc, repoMock, auditMock := newTestOrganizationService(t)
	ctx := context.Background()
	id := uuid.New()

	assert.ErrorIs(t, svc.SetStatus(ctx, id, "deleted"), models.ErrValidation)

	repoMock.EXPECT().SetStatus(ctx, id, models.OrganizationStatusSuspended).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("organization.status_change"))

	assert.NoError(t, svc.SetStatus(ctx, id, models.OrganizationStatusSuspended))
}

func TestUpdateOrganization_OnlyEditableFields(t *testing.T) {
	svc, repoMock, auditMock := newTestOrganizationService(t)
	ctx := context.Background()
	existing := &models.Organization{ID: uuid.New(), Name: "Old", Slug: "old", Status: models.OrganizationStatusActive}

	repoMock.EXPECT().GetByID(ctx, existing.ID).Return(existing, nil)
	repoMock.EXPECT().Update(ctx, existing).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("organization.update"))

	got, err := svc.UpdateOrganization(ctx, &models.Organization{
		ID:           existing.ID,
		Name:         "New name",
		Slug:         "hijack",
		ContactEmail: "soc@new.test",
		Status:       models.OrganizationStatusSuspended,
	})

	require.NoError(t, err)
	assert.Equal(t, "New name", got.Name)
	assert.Equal(t, "old", got.Slug)
	assert.Equal(t, models.OrganizationStatusActive, got.Status)
	assert.Equal(t, "soc@new.test", got.ContactEmail)
}
