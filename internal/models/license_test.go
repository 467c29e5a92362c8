package models

import (
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestNewLicenseForPlan(t *testing.T) {
	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	orgID := uuid.New()

	trial := NewLicenseForPlan(orgID, PlanTrial, now)
	assert.Equal(t, 5, trial.MaxUsers)
	assert.Equal(t, now.Add(30*24*time.Hour), trial.ExpiresAt)
	assert.False(t, trial.HasFeature(FeatureExercises))

	enterprise := NewLicenseForPlan(orgID, PlanEnterprise, now)
	assert.Zero(t, enterprise.MaxUsers)
	assert.True(t, enterprise.HasFeature(FeatureAPIAccess))

	unknown := NewLicenseForPlan(orgID, "platinum", now)
	assert.Equal(t, PlanTrial, unknown.Plan)
}

func TestLicense_Allows(t *testing.T) {
	l := &License{MaxUsers: 2, MaxAssets: 0}

	tests := []struct {
		name     string
		resource string
		current  int
		want     bool
	}{
		{"below limit", ResourceUsers, 1, true},
		{"at limit", ResourceUsers, 2, false},
		{"unlimited", ResourceAssets, 10000, true},
		{"unknown resource", "widgets", 5, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, l.Allows(tt.resource, tt.current))
		})
	}
}

func TestLicense_IsExpired(t *testing.T) {
	now := time.Now()
	assert.True(t, (&License{ExpiresAt: now.Add(-time.Minute)}).IsExpired(now))
	assert.True(t, (&License{ExpiresAt: now}).IsExpired(now))
	assert.False(t, (&License{ExpiresAt: now.Add(time.Minute)}).IsExpired(now))
	assert.False(t, (&License{}).IsExpired(now))
}
