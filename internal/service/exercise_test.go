package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type exerciseMocks struct {
	repo     *mocks.MockExerciseRepository
	runbooks *mocks.MockRunbookRepository
	users    *mocks.MockUserRepository
	licenses *mocks.MockLicenseService
	audit    *mocks.MockAuditService
}

func newTestExerciseService(t *testing.T) (*exerciseService, *mocks.MockExerciseRepository, *mocks.MockRunbookRepository, *mocks.MockLicenseService, *mocks.MockAuditService) {
	svc, m := newTestExerciseServiceWithUsers(t)
	return svc, m.repo, m.runbooks, m.licenses, m.audit
}

func newTestExerciseServiceWithUsers(t *testing.T) (*exerciseService, exerciseMocks) {
	ctrl := gomock.NewController(t)
	m := exerciseMocks{
		repo:     mocks.NewMockExerciseRepository(ctrl),
		runbooks: mocks.NewMockRunbookRepository(ctrl),
		users:    mocks.NewMockUserRepository(ctrl),
		licenses: mocks.NewMockLicenseService(ctrl),
		audit:    mocks.NewMockAuditService(ctrl),
	}

	svc := NewExerciseService(m.repo, m.runbooks, m.users, m.licenses, m.audit, newTestLogger()).(*exerciseService)
	svc.now = fixedClock
	return svc, m
}

func TestCreateExercise_FeatureNotLicensed(t *testing.T) {
	svc, repoMock, _, licenseMock, _ := newTestExerciseService(t)
	orgID := uuid.New()

	licenseMock.EXPECT().RequireFeature(gomock.Any(), orgID, models.FeatureExercises).Return(models.ErrFeatureNotLicensed)
	repoMock.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	err := svc.CreateExercise(context.Background(), orgID, &models.Exercise{Title: "Tabletop"})

	assert.ErrorIs(t, err, models.ErrFeatureNotLicensed)
}

func TestCreateExercise_Planned(t *testing.T) {
	svc, repoMock, runbookMock, licenseMock, auditMock := newTestExerciseService(t)
	ctx := context.Background()
	orgID := uuid.New()
	runbookID := uuid.New()
	ex := &models.Exercise{
		Title:       "Q3 ransomware tabletop",
		Type:        models.ExerciseTypeTabletop,
		Status:      models.ExerciseStatusCompleted,
		RunbookID:   &runbookID,
		ScheduledAt: fixedNow.Add(7 * 24 * time.Hour),
	}

	licenseMock.EXPECT().RequireFeature(ctx, orgID, models.FeatureExercises).Return(nil)
	runbookMock.EXPECT().GetByID(ctx, orgID, runbookID).Return(&models.Runbook{ID: runbookID}, nil)
	repoMock.EXPECT().Create(ctx, ex).Return(nil)
	auditMock.EXPECT().Record(ctx, auditAction("exercise.create"))

	require.NoError(t, svc.CreateExercise(ctx, orgID, ex))
	assert.Equal(t, models.ExerciseStatusPlanned, ex.Status)
	assert.Equal(t, orgID, ex.OrganizationID)
	assert.NotNil(t, ex.Participants)
}

func TestExerciseLifecycle(t *testing.T) {
	svc, repoMock, _, licenseMock, auditMock := newTestExerciseService(t)
	ctx := context.Background()
	orgID := uuid.New()
	ex := &models.Exercise{ID: uuid.New(), OrganizationID: orgID, Status: models.ExerciseStatusPlanned}

	licenseMock.EXPECT().RequireFeature(ctx, orgID, models.FeatureExercises).Return(nil).AnyTimes()
	repoMock.EXPECT().GetByID(ctx, orgID, ex.ID).Return(ex, nil).AnyTimes()
	repoMock.EXPECT().Update(ctx, ex).Return(nil).Times(2)
	auditMock.EXPECT().Record(ctx, auditAction("exercise.start"))
	auditMock.EXPECT().Record(ctx, auditAction("exercise.complete"))

	got, err := svc.StartExercise(ctx, orgID, ex.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ExerciseStatusInProgress, got.Status)

	got, err = svc.CompleteExercise(ctx, orgID, ex.ID, "Escalation path unclear")
	require.NoError(t, err)
	assert.Equal(t, models.ExerciseStatusCompleted, got.Status)
	assert.Equal(t, "Escalation path unclear", got.Findings)
	require.NotNil(t, got.CompletedAt)
	assert.Equal(t, fixedNow, *got.CompletedAt)

	_, err = svc.CancelExercise(ctx, orgID, ex.ID)
	assert.ErrorIs(t, err, models.ErrInvalidTransition)

	_, err = svc.UpdateExercise(ctx, orgID, &models.Exercise{ID: ex.ID, Title: "late edit"})
	assert.ErrorIs(t, err, models.ErrInvalidState)
}

func TestCreateExercise_RejectsForeignParticipant(t *testing.T) {
	svc, m := newTestExerciseServiceWithUsers(t)
	ctx := context.Background()
	orgID := uuid.New()
	member, outsider := uuid.New(), uuid.New()

	m.licenses.EXPECT().RequireFeature(ctx, orgID, models.FeatureExercises).Return(nil)
	m.users.EXPECT().Get(ctx, orgID, member).Return(&models.User{ID: member}, nil)
	m.users.EXPECT().Get(ctx, orgID, outsider).Return(nil, models.ErrNotFound)
	m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

	err := svc.CreateExercise(ctx, orgID, &models.Exercise{Title: "Tabletop", Participants: []uuid.UUID{member, outsider}})

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Contains(t, err.Error(), outsider.String())
}

func TestUpdateExercise_RejectsForeignParticipant(t *testing.T) {
	svc, m := newTestExerciseServiceWithUsers(t)
	ctx := context.Background()
	orgID := uuid.New()
	outsider := uuid.New()
	existing := &models.Exercise{ID: uuid.New(), OrganizationID: orgID, Status: models.ExerciseStatusPlanned}

	m.licenses.EXPECT().RequireFeature(ctx, orgID, models.FeatureExercises).Return(nil)
	m.repo.EXPECT().GetByID(ctx, orgID, existing.ID).Return(existing, nil)
	m.users.EXPECT().Get(ctx, orgID, outsider).Return(nil, models.ErrNotFound)
	m.repo.EXPECT().Update(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.UpdateExercise(ctx, orgID, &models.Exercise{ID: existing.ID, Title: "Tabletop", Participants: []uuid.UUID{outsider}})

	assert.ErrorIs(t, err, models.ErrValidation)
	assert.Empty(t, existing.Participants)
}
