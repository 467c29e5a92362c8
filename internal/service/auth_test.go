package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"golang.org/x/crypto/bcrypt"
)

type authMocks struct {
	users  *mocks.MockUserRepository
	orgs   *mocks.MockOrganizationRepository
	tokens *mocks.MockTokenIssuer
	audit  *mocks.MockAuditService
}

func newTestAuthService(t *testing.T) (AuthService, authMocks) {
	ctrl := gomock.NewController(t)
	m := authMocks{
		users:  mocks.NewMockUserRepository(ctrl),
		orgs:   mocks.NewMockOrganizationRepository(ctrl),
		tokens: mocks.NewMockTokenIssuer(ctrl),
		audit:  mocks.NewMockAuditService(ctrl),
	}
	return NewAuthService(m.users, m.orgs, m.tokens, m.audit, newTestLogger()), m
}

func testUser(t *testing.T, password string) *models.User {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(t, err)
	orgID := uuid.New()
	return &models.User{
		ID:             uuid.New(),
		OrganizationID: &orgID,
		Email:          "owner@acme.test",
		PasswordHash:   string(hash),
		Role:           models.RoleOwner,
		Active:         true,
	}
}

func expectAudit(m *mocks.MockAuditService, action string) {
	m.EXPECT().Record(gomock.Any(), auditAction(action))
}

func TestLogin_Success(t *testing.T) {
	svc, m := newTestAuthService(t)
	ctx := context.Background()
	user := testUser(t, "s3cret-pass")
	expires := time.Now().Add(time.Hour)

	m.users.EXPECT().GetByEmail(ctx, "owner@acme.test").Return(user, nil)
	m.orgs.EXPECT().GetByID(ctx, *user.OrganizationID).Return(&models.Organization{Status: models.OrganizationStatusActive}, nil)
	m.tokens.EXPECT().Generate(user).Return("token-value", expires, nil)
	m.users.EXPECT().TouchLastLogin(ctx, user.ID).Return(nil)
	expectAudit(m.audit, "auth.login")

	session, err := svc.Login(ctx, "  Owner@Acme.test ", "s3cret-pass")

	require.NoError(t, err)
	assert.Equal(t, "token-value", session.Token)
	assert.Equal(t, expires, session.ExpiresAt)
	assert.Equal(t, user, session.User)
}

func TestLogin_Failures(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(m authMocks, user *models.User)
		pass    string
		wantErr error
	}{
		{
			name: "unknown email",
			setup: func(m authMocks, _ *models.User) {
				m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, models.ErrNotFound)
				expectAudit(m.audit, "auth.login_failed")
			},
			pass:    "whatever",
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name: "wrong password",
			setup: func(m authMocks, user *models.User) {
				m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
				expectAudit(m.audit, "auth.login_failed")
			},
			pass:    "wrong",
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name: "inactive account",
			setup: func(m authMocks, user *models.User) {
				user.Active = false
				m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
				expectAudit(m.audit, "auth.login_failed")
			},
			pass:    "s3cret-pass",
			wantErr: models.ErrInvalidCredentials,
		},
		{
			name: "suspended organization",
			setup: func(m authMocks, user *models.User) {
				m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
				m.orgs.EXPECT().GetByID(gomock.Any(), *user.OrganizationID).
					Return(&models.Organization{Status: models.OrganizationStatusSuspended}, nil)
				expectAudit(m.audit, "auth.login_failed")
			},
			pass:    "s3cret-pass",
			wantErr: models.ErrOrganizationSuspended,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestAuthService(t)
			user := testUser(t, "s3cret-pass")
			tt.setup(m, user)
			m.tokens.EXPECT().Generate(gomock.Any()).Times(0)

			_, err := svc.Login(context.Background(), user.Email, tt.pass)

			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLogin_RepositoryError(t *testing.T) {
	svc, m := newTestAuthService(t)

	m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(nil, errors.New("db down"))

	_, err := svc.Login(context.Background(), "a@b.c", "x")

	require.Error(t, err)
	assert.NotErrorIs(t, err, models.ErrInvalidCredentials)
}

func TestLogin_SystemAdminWithoutOrganization(t *testing.T) {
	svc, m := newTestAuthService(t)
	user := testUser(t, "root-pass")
	user.OrganizationID = nil
	user.IsSystemAdmin = true

	m.users.EXPECT().GetByEmail(gomock.Any(), gomock.Any()).Return(user, nil)
	m.orgs.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)
	m.tokens.EXPECT().Generate(user).Return("t", time.Now(), nil)
	m.users.EXPECT().TouchLastLogin(gomock.Any(), user.ID).Return(nil)
	expectAudit(m.audit, "auth.login")

	_, err := svc.Login(context.Background(), user.Email, "root-pass")
	assert.NoError(t, err)
}

func TestResolveActor(t *testing.T) {
	orgID := uuid.New()
	stored := &models.User{ID: uuid.New(), OrganizationID: &orgID, Email: "rita@acme.test", Role: models.RoleViewer, Active: true}
	tokenActor := models.Actor{UserID: stored.ID, OrganizationID: orgID, Email: "rita@acme.test", Role: models.RoleAdmin}

	t.Run("cache hit takes stored role", func(t *testing.T) {
		svc, m := newTestAuthService(t)
		m.users.EXPECT().GetUserFromCache(gomock.Any(), stored.ID).Return(stored, nil)
		m.users.EXPECT().GetByID(gomock.Any(), gomock.Any()).Times(0)

		got, err := svc.ResolveActor(context.Background(), tokenActor)

		require.NoError(t, err)
		assert.Equal(t, models.RoleViewer, got.Role)
		assert.Equal(t, orgID, got.OrganizationID)
	})

	t.Run("cache miss loads and caches", func(t *testing.T) {
		svc, m := newTestAuthService(t)
		m.users.EXPECT().GetUserFromCache(gomock.Any(), stored.ID).Return(nil, nil)
		m.users.EXPECT().GetByID(gomock.Any(), stored.ID).Return(stored, nil)
		m.users.EXPECT().SetUserCache(gomock.Any(), stored).Return(nil)

		got, err := svc.ResolveActor(context.Background(), tokenActor)

		require.NoError(t, err)
		assert.Equal(t, models.RoleViewer, got.Role)
	})

	t.Run("cache error falls back to database", func(t *testing.T) {
		svc, m := newTestAuthService(t)
		m.users.EXPECT().GetUserFromCache(gomock.Any(), stored.ID).Return(nil, errors.New("redis down"))
		m.users.EXPECT().GetByID(gomock.Any(), stored.ID).Return(stored, nil)
		m.users.EXPECT().SetUserCache(gomock.Any(), stored).Return(errors.New("redis down"))

		_, err := svc.ResolveActor(context.Background(), tokenActor)

		require.NoError(t, err)
	})

	t.Run("inactive user", func(t *testing.T) {
		svc, m := newTestAuthService(t)
		inactive := *stored
		inactive.Active = false
		m.users.EXPECT().GetUserFromCache(gomock.Any(), stored.ID).Return(&inactive, nil)

		_, err := svc.ResolveActor(context.Background(), tokenActor)

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("removed user", func(t *testing.T) {
		svc, m := newTestAuthService(t)
		m.users.EXPECT().GetUserFromCache(gomock.Any(), stored.ID).Return(nil, nil)
		m.users.EXPECT().GetByID(gomock.Any(), stored.ID).Return(nil, models.ErrNotFound)

		_, err := svc.ResolveActor(context.Background(), tokenActor)

		assert.ErrorIs(t, err, models.ErrInvalidCredentials)
	})

	t.Run("database failure", func(t *testing.T) {
		svc, m := newTestAuthService(t)
		dbErr := errors.New("connection reset")
		m.users.EXPECT().GetUserFromCache(gomock.Any(), stored.ID).Return(nil, nil)
		m.users.EXPECT().GetByID(gomock.Any(), stored.ID).Return(nil, dbErr)

		_, err := svc.ResolveActor(context.Background(), tokenActor)

		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, models.ErrInvalidCredentials)
	})
}
