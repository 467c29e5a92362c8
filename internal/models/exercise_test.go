package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExercise_Lifecycle(t *testing.T) {
	now := time.Now()
	ex := &Exercise{Status: ExerciseStatusPlanned}

	assert.ErrorIs(t, ex.Complete("early", now), ErrInvalidTransition)
	require.NoError(t, ex.Start(now))
	assert.ErrorIs(t, ex.Start(now), ErrInvalidTransition)
	require.NoError(t, ex.Complete("backups untested", now))

	assert.Equal(t, ExerciseStatusCompleted, ex.Status)
	assert.Equal(t, "backups untested", ex.Findings)
	assert.ErrorIs(t, ex.Cancel(), ErrInvalidTransition)
}

func TestExercise_Cancel(t *testing.T) {
	ex := &Exercise{Status: ExerciseStatusPlanned}
	require.NoError(t, ex.Cancel())
	assert.Equal(t, ExerciseStatusCancelled, ex.Status)
	assert.ErrorIs(t, ex.Start(time.Now()), ErrInvalidTransition)
}
