package auth

import (
	"context"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	orgID := uuid.New()
	user := &models.User{ID: uuid.New(), OrganizationID: &orgID, Email: "jane@acme.test", Role: models.RoleAdmin}

	token, expiresAt, err := m.Generate(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, time.Minute)

	actor, err := m.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID, actor.UserID)
	assert.Equal(t, orgID, actor.OrganizationID)
	assert.Equal(t, models.RoleAdmin, actor.Role)
	assert.False(t, actor.IsSystemAdmin)
}

func TestTokenManager_SystemAdminWithoutOrganization(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "root@platform.test", IsSystemAdmin: true}

	token, _, err := m.Generate(user)
	require.NoError(t, err)

	actor, err := m.Parse(token)
	require.NoError(t, err)
	assert.True(t, actor.IsSystemAdmin)
	assert.False(t, actor.HasOrganization())
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager("test-secret", time.Hour)
	user := &models.User{ID: uuid.New(), Email: "jane@acme.test"}
	token, _, err := m.Generate(user)
	require.NoError(t, err)

	_, err = NewTokenManager("other-secret", time.Hour).Parse(token)
	assert.Error(t, err)

	expired := NewTokenManager("test-secret", time.Hour)
	expired.now = func() time.Time { return time.Now().Add(2 * time.Hour) }
	_, err = expired.Parse(token)
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = m.Parse("garbage")
	assert.Error(t, err)

	_, _, err = NewTokenManager("", time.Hour).Generate(user)
	assert.Error(t, err)
}

func TestActorContext(t *testing.T) {
	_, ok := ActorFromContext(context.Background())
	assert.False(t, ok)

	actor := models.Actor{UserID: uuid.New(), Email: "a@b.test"}
	got, ok := ActorFromContext(WithActor(context.Background(), actor))
	require.True(t, ok)
	assert.Equal(t, actor, got)
}
