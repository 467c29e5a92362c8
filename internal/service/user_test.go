package service

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/auth"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

func newTestUserService(t *testing.T) (UserService, *mocks.MockUserRepository, *mocks.MockLicenseService, *mocks.MockAuditService) {
	ctrl := gomock.NewController(t)
	repoMock := mocks.NewMockUserRepository(ctrl)
	licenseMock := mocks.NewMockLicenseService(ctrl)
	auditMock := mocks.NewMockAuditService(ctrl)
	return NewUserService(repoMock, licenseMock, auditMock, newTestLogger()), repoMock, licenseMock, auditMock
}

func TestCreateUser_Success(t *testing.T) {
	svc, repoMock, licenseMock, auditMock := newTestUserService(t)
	orgID := uuid.New()
	ctx, _ := actorContext(orgID, models.RoleAdmin)
	user := &models.User{Email: " New.Analyst@Acme.test", Name: "New Analyst", Role: models.RoleResponder}

	licenseMock.EXPECT().CheckLimit(ctx, orgID, models.ResourceUsers).Return(nil)
	repoMock.EXPECT().Create(ctx, user).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("user.create"))

	err := svc.CreateUser(ctx, orgID, user, "correct horse")

	require.NoError(t, err)
	assert.Equal(t, "new.analyst@acme.test", user.Email)
	assert.True(t, user.Active)
	require.NotNil(t, user.OrganizationID)
	assert.Equal(t, orgID, *user.OrganizationID)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte("correct horse")))
}

func TestCreateUser_LicenseLimit(t *testing.T) {
	svc, repoMock, licenseMock, _ := newTestUserService(t)
	orgID := uuid.New()
	ctx, _ := actorContext(orgID, models.RoleAdmin)

	licenseMock.EXPECT().CheckLimit(ctx, orgID, models.ResourceUsers).Return(models.ErrLicenseLimit)
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	err := svc.CreateUser(ctx, orgID, &models.User{Role: models.RoleViewer}, "pw")

	assert.ErrorIs(t, err, models.ErrLicenseLimit)
}

func TestCreateUser_RoleRules(t *testing.T) {
	svc, _, _, _ := newTestUserService(t)
	orgID := uuid.New()
	ctx, _ := actorContext(orgID, models.RoleAdmin)

	err := svc.CreateUser(ctx, orgID, &models.User{Role: "superuser"}, "pw")
	assert.ErrorIs(t, err, models.ErrValidation)

	err = svc.CreateUser(ctx, orgID, &models.User{Role: models.RoleOwner}, "pw")
	assert.ErrorIs(t, err, models.ErrForbidden)
}

func TestUpdateUser_Authorization(t *testing.T) {
	deactivate := false
	owner := models.RoleOwner
	viewer := models.RoleViewer

	tests := []struct {
		name       string
		actorRole  string
		targetRole string
		self       bool
		update     models.UserUpdate
		wantErr    error
	}{
		{name: "admin cannot touch owner", actorRole: models.RoleAdmin, targetRole: models.RoleOwner, update: models.UserUpdate{Role: &viewer}, wantErr: models.ErrForbidden},
		{name: "admin cannot grant owner", actorRole: models.RoleAdmin, targetRole: models.RoleResponder, update: models.UserUpdate{Role: &owner}, wantErr: models.ErrForbidden},
		{name: "cannot deactivate self", actorRole: models.RoleOwner, targetRole: models.RoleOwner, self: true, update: models.UserUpdate{Active: &deactivate}, wantErr: models.ErrForbidden},
		{name: "cannot change own role", actorRole: models.RoleAdmin, targetRole: models.RoleAdmin, self: true, update: models.UserUpdate{Role: &viewer}, wantErr: models.ErrForbidden},
		{name: "admin demotes responder", actorRole: models.RoleAdmin, targetRole: models.RoleResponder, update: models.UserUpdate{Role: &viewer}},
		{name: "owner demotes owner", actorRole: models.RoleOwner, targetRole: models.RoleOwner, update: models.UserUpdate{Role: &viewer}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, repoMock, _, auditMock := newTestUserService(t)
			orgID := uuid.New()
			ctx, actor := actorContext(orgID, tt.actorRole)
			target := &models.User{ID: uuid.New(), Role: tt.targetRole, Active: true}
			if tt.self {
				target.ID = actor.UserID
			}

			repoMock.EXPECT().Get(ctx, orgID, target.ID).Return(target, nil)
			if tt.wantErr == nil {
				repoMock.EXPECT().Update(ctx, target).Return(nil)
				repoMock.EXPECT().InvalidateUserCache(ctx, target.ID).Return(nil)
				auditMock.EXPECT().Record(ctx, auditAction("user.update"))
			}

			got, err := svc.UpdateUser(ctx, orgID, target.ID, tt.update)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, models.RoleViewer, got.Role)
		})
	}
}

func TestDeactivateUser_SystemAdminBypassesRules(t *testing.T) {
	svc, repoMock, _, auditMock := newTestUserService(t)
	orgID := uuid.New()
	ctx := auth.WithActor(context.Background(), models.Actor{IsSystemAdmin: true, Email: "root@platform"})
	target := &models.User{ID: uuid.New(), Role: models.RoleOwner, Active: true}

	repoMock.EXPECT().Get(ctx, orgID, target.ID).Return(target, nil)
	repoMock.EXPECT().Update(ctx, target).Return(nil)
	repoMock.EXPECT().InvalidateUserCache(ctx, target.ID).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("user.update"))

	require.NoError(t, svc.DeactivateUser(ctx, orgID, target.ID))
	assert.False(t, target.Active)
}

func TestUpdateUser_ReactivationRespectsLicense(t *testing.T) {
	activate := true
	orgID := uuid.New()

	t.Run("limit reached", func(t *testing.T) {
		svc, repoMock, licenseMock, auditMock := newTestUserService(t)
		ctx, _ := actorContext(orgID, models.RoleAdmin)
		target := &models.User{ID: uuid.New(), Role: models.RoleResponder, Active: false}

		repoMock.EXPECT().Get(ctx, orgID, target.ID).Return(target, nil)
		licenseMock.EXPECT().CheckLimit(ctx, orgID, models.ResourceUsers).
			Return(fmt.Errorf("service: users limit 5 reached: %w", models.ErrLicenseLimit))
		repoMock.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)
		auditMock.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

		_, err := svc.UpdateUser(ctx, orgID, target.ID, models.UserUpdate{Active: &activate})

		assert.ErrorIs(t, err, models.ErrLicenseLimit)
		assert.False(t, target.Active)
	})

	t.Run("within limit", func(t *testing.T) {
		svc, repoMock, licenseMock, auditMock := newTestUserService(t)
		ctx, _ := actorContext(orgID, models.RoleAdmin)
		target := &models.User{ID: uuid.New(), Role: models.RoleResponder, Active: false}

		repoMock.EXPECT().Get(ctx, orgID, target.ID).Return(target, nil)
		licenseMock.EXPECT().CheckLimit(ctx, orgID, models.ResourceUsers).Return(nil)
		repoMock.EXPECT().Update(ctx, target).Return(nil)
		repoMock.EXPECT().InvalidateUserCache(ctx, target.ID).Return(nil)
		auditMock.EXPECT().Record(ctx, auditAction("user.update"))

		got, err := svc.UpdateUser(ctx, orgID, target.ID, models.UserUpdate{Active: &activate})

		require.NoError(t, err)
		assert.True(t, got.Active)
	})

	t.Run("already active skips the check", func(t *testing.T) {
		svc, repoMock, licenseMock, auditMock := newTestUserService(t)
		ctx, _ := actorContext(orgID, models.RoleAdmin)
		target := &models.User{ID: uuid.New(), Role: models.RoleResponder, Active: true}

		repoMock.EXPECT().Get(ctx, orgID, target.ID).Return(target, nil)
		licenseMock.EXPECT().CheckLimit(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)
		repoMock.EXPECT().Update(ctx, target).Return(nil)
		repoMock.EXPECT().InvalidateUserCache(ctx, target.ID).Return(errors.New("redis down"))
		auditMock.EXPECT().Record(ctx, auditAction("user.update"))

		_, err := svc.UpdateUser(ctx, orgID, target.ID, models.UserUpdate{Active: &activate})

		require.NoError(t, err)
	})
}

func TestEnsureSystemAdmin(t *testing.T) {
	t.Run("already exists", func(t *testing.T) {
		svc, repoMock, _, _ := newTestUserService(t)
		repoMock.EXPECT().GetByEmail(gomock.Any(), "root@platform.test").Return(&models.User{}, nil)
		repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		assert.NoError(t, svc.EnsureSystemAdmin(context.Background(), "Root@Platform.test", "pw"))
	})

	t.Run("created", func(t *testing.T) {
		svc, repoMock, _, auditMock := newTestUserService(t)
		repoMock.EXPECT().GetByEmail(gomock.Any(), "root@platform.test").Return(nil, models.ErrNotFound)
		repoMock.EXPECT().
			Create(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, u *models.User) error {
				assert.True(t, u.IsSystemAdmin)
				assert.Nil(t, u.OrganizationID)
				return nil
			})
		auditMock.EXPECT().Record(gomock.Any(), auditAction("system.bootstrap_admin"))

		assert.NoError(t, svc.EnsureSystemAdmin(context.Background(), "root@platform.test", "pw"))
	})
}
