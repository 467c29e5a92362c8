package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanTransitionIncident(t *testing.T) {
	tests := []struct {
		from, to string
		want     bool
	}{
		{IncidentStatusOpen, IncidentStatusInvestigating, true},
		{IncidentStatusOpen, IncidentStatusRecovered, true},
		{IncidentStatusOpen, IncidentStatusClosed, true},
		{IncidentStatusContained, IncidentStatusInvestigating, false},
		{IncidentStatusOpen, IncidentStatusOpen, false},
		{IncidentStatusClosed, IncidentStatusInvestigating, true},
		{IncidentStatusClosed, IncidentStatusOpen, false},
		{IncidentStatusOpen, "archived", false},
	}
	for _, tt := range tests {
		t.Run(tt.from+"->"+tt.to, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransitionIncident(tt.from, tt.to))
		})
	}
}

func TestIncident_ApplyStatus(t *testing.T) {
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	inc := &Incident{Status: IncidentStatusOpen}

	require.NoError(t, inc.ApplyStatus(IncidentStatusContained, now))
	assert.Nil(t, inc.ResolvedAt)

	require.NoError(t, inc.ApplyStatus(IncidentStatusClosed, now))
	require.NotNil(t, inc.ResolvedAt)
	require.NotNil(t, inc.ClosedAt)
	assert.Equal(t, now, *inc.ClosedAt)

	later := now.Add(time.Hour)
	require.NoError(t, inc.ApplyStatus(IncidentStatusInvestigating, later))
	assert.Nil(t, inc.ClosedAt)
	assert.Nil(t, inc.ResolvedAt)
	assert.Equal(t, IncidentStatusInvestigating, inc.Status)

	err := inc.ApplyStatus(IncidentStatusOpen, later)
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
