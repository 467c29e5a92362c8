package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
)

type runbookMocks struct {
	repo      *mocks.MockRunbookRepository
	incidents *mocks.MockIncidentRepository
	licenses  *mocks.MockLicenseService
	audit     *mocks.MockAuditService
}

func newTestRunbookService(t *testing.T) (*runbookService, runbookMocks) {
	ctrl := gomock.NewController(t)
	m := runbookMocks{
		repo:      mocks.NewMockRunbookRepository(ctrl),
		incidents: mocks.NewMockIncidentRepository(ctrl),
		licenses:  mocks.NewMockLicenseService(ctrl),
		audit:     mocks.NewMockAuditService(ctrl),
	}
	svc := NewRunbookService(m.repo, m.incidents, m.licenses, m.audit, newTestLogger()).(*runbookService)
	svc.now = fixedClock
	return svc, m
}

func TestCreateRunbook_NormalizesSteps(t *testing.T) {
	svc, m := newTestRunbookService(t)
	orgID := uuid.New()
	ctx, _ := actorContext(orgID, models.RoleAdmin)
	rb := &models.Runbook{
		Name: "Ransomware",
		Steps: []models.RunbookStep{
			{Phase: models.PhaseRecovery, Order: 1, Title: "Restore backups"},
			{Phase: models.PhaseDetection, Order: 9, Title: "Confirm encryption"},
			{Phase: models.PhaseDetection, Order: 2, Title: "Identify patient zero"},
		},
	}

	m.licenses.EXPECT().CheckLimit(ctx, orgID, models.ResourceRunbooks).Return(nil)
	m.repo.EXPECT().Create(ctx, rb).Return(nil)
	m.audit.EXPECT().Record(ctx, auditAction("runbook.create"))

	require.NoError(t, svc.CreateRunbook(ctx, orgID, rb))
	require.Len(t, rb.Steps, 3)
	assert.Equal(t, "Identify patient zero", rb.Steps[0].Title)
	assert.Equal(t, 1, rb.Steps[0].Order)
	assert.Equal(t, "Confirm encryption", rb.Steps[1].Title)
	assert.Equal(t, 2, rb.Steps[1].Order)
	assert.Equal(t, "Restore backups", rb.Steps[2].Title)
	for _, s := range rb.Steps {
		assert.NotEmpty(t, s.ID)
	}
}

func TestCreateRunbook_Rejected(t *testing.T) {
	t.Run("license limit", func(t *testing.T) {
		svc, m := newTestRunbookService(t)
		orgID := uuid.New()
		m.licenses.EXPECT().CheckLimit(gomock.Any(), orgID, models.ResourceRunbooks).Return(models.ErrLicenseLimit)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		err := svc.CreateRunbook(context.Background(), orgID, &models.Runbook{})
		assert.ErrorIs(t, err, models.ErrLicenseLimit)
	})

	t.Run("unknown phase", func(t *testing.T) {
		svc, m := newTestRunbookService(t)
		orgID := uuid.New()
		m.licenses.EXPECT().CheckLimit(gomock.Any(), orgID, models.ResourceRunbooks).Return(nil)
		m.repo.EXPECT().Create(gomock.Any(), gomock.Any()).Times(0)

		err := svc.CreateRunbook(context.Background(), orgID, &models.Runbook{
			Steps: []models.RunbookStep{{Phase: "lessons", Title: "x"}},
		})
		assert.ErrorIs(t, err, models.ErrValidation)
	})
}

func testRunbook(orgID uuid.UUID) *models.Runbook {
	return &models.Runbook{
		ID:             uuid.New(),
		OrganizationID: orgID,
		Steps: []models.RunbookStep{
			{ID: "detect", Phase: models.PhaseDetection, Order: 1, Title: "Detect"},
			{ID: "contain", Phase: models.PhaseContainment, Order: 1, Title: "Contain"},
		},
	}
}

func TestStartExecution(t *testing.T) {
	svc, m := newTestRunbookService(t)
	orgID := uuid.New()
	ctx, actor := actorContext(orgID, models.RoleResponder)
	rb := testRunbook(orgID)
	incidentID := uuid.New()

	m.repo.EXPECT().GetByID(ctx, orgID, rb.ID).Return(rb, nil)
	m.incidents.EXPECT().GetByID(ctx, orgID, incidentID).Return(&models.Incident{ID: incidentID}, nil)
	m.repo.EXPECT().CreateExecution(ctx, gomock.Any()).Return(nil)
	m.audit.EXPECT().Record(ctx, auditAction("runbook_execution.start"))

	exec, err := svc.StartExecution(ctx, orgID, rb.ID, &incidentID)

	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, exec.Status)
	assert.Equal(t, fixedNow, exec.StartedAt)
	require.NotNil(t, exec.StartedBy)
	assert.Equal(t, actor.UserID, *exec.StartedBy)
	assert.Len(t, exec.Steps, 2)
}

func TestStartExecution_EmptyRunbook(t *testing.T) {
	svc, m := newTestRunbookService(t)
	orgID := uuid.New()
	rb := &models.Runbook{ID: uuid.New(), OrganizationID: orgID}

	m.repo.EXPECT().GetByID(gomock.Any(), orgID, rb.ID).Return(rb, nil)
	m.repo.EXPECT().CreateExecution(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.StartExecution(context.Background(), orgID, rb.ID, nil)

	assert.ErrorIs(t, err, models.ErrValidation)
}

func TestCompleteStep_LastStepCompletesExecution(t *testing.T) {
	svc, m := newTestRunbookService(t)
	orgID := uuid.New()
	ctx, _ := actorContext(orgID, models.RoleResponder)
	exec := models.NewRunbookExecution(testRunbook(orgID), nil, nil, fixedNow.Add(-10*time.Minute))
	exec.ID = uuid.New()

	m.repo.EXPECT().GetExecution(ctx, orgID, exec.ID).Return(exec, nil).Times(2)
	m.repo.EXPECT().UpdateExecution(ctx, exec).Return(nil).Times(2)

	// The first step is skipped, the second completes the run.
	m.audit.EXPECT().Record(ctx, auditAction("runbook_execution.skip_step"))
	_, err := svc.SkipStep(ctx, orgID, exec.ID, "detect", "not applicable")
	require.NoError(t, err)
	assert.Equal(t, models.ExecutionStatusRunning, exec.Status)

	m.audit.EXPECT().Record(ctx, auditAction("runbook_execution.complete_step"))
	m.audit.EXPECT().Record(ctx, auditAction("runbook_execution.complete"))
	got, err := svc.CompleteStep(ctx, orgID, exec.ID, "contain", "host isolated")
	require.NoError(t, err)

	assert.Equal(t, models.ExecutionStatusCompleted, got.Status)
	require.NotNil(t, got.FinishedAt)
	progress := got.Progress(fixedNow)
	assert.Equal(t, 100, progress.Percent)
	assert.Equal(t, int64(600), progress.ElapsedSeconds)
}

func TestExecutionStateChanges(t *testing.T) {
	tests := []struct {
		name    string
		status  string
		act     func(s *runbookService, ctx context.Context, orgID, id uuid.UUID) (*models.RunbookExecution, error)
		want    string
		wantErr error
	}{
		{name: "pause running", status: models.ExecutionStatusRunning, act: (*runbookService).PauseExecution, want: models.ExecutionStatusPaused},
		{name: "pause paused", status: models.ExecutionStatusPaused, act: (*runbookService).PauseExecution, wantErr: models.ErrInvalidState},
		{name: "resume paused", status: models.ExecutionStatusPaused, act: (*runbookService).ResumeExecution, want: models.ExecutionStatusRunning},
		{name: "abort paused", status: models.ExecutionStatusPaused, act: (*runbookService).AbortExecution, want: models.ExecutionStatusAborted},
		{name: "abort completed", status: models.ExecutionStatusCompleted, act: (*runbookService).AbortExecution, wantErr: models.ErrInvalidState},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, m := newTestRunbookService(t)
			ctx := context.Background()
			orgID := uuid.New()
			exec := models.NewRunbookExecution(testRunbook(orgID), nil, nil, fixedNow.Add(-time.Hour))
			exec.ID = uuid.New()
			exec.Status = tt.status
			if tt.status == models.ExecutionStatusPaused {
				pausedAt := fixedNow.Add(-time.Minute)
				exec.PausedAt = &pausedAt
			}

			m.repo.EXPECT().GetExecution(ctx, orgID, exec.ID).Return(exec, nil)
			if tt.wantErr == nil {
				m.repo.EXPECT().UpdateExecution(ctx, exec).Return(nil)
				m.audit.EXPECT().Record(ctx, gomock.Any())
			}

			got, err := tt.act(svc, ctx, orgID, exec.ID)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Status)
		})
	}
}

func TestCompleteStep_UnknownStep(t *testing.T) {
	svc, m := newTestRunbookService(t)
	orgID := uuid.New()
	exec := models.NewRunbookExecution(testRunbook(orgID), nil, nil, fixedNow)
	exec.ID = uuid.New()

	m.repo.EXPECT().GetExecution(gomock.Any(), orgID, exec.ID).Return(exec, nil)
	m.repo.EXPECT().UpdateExecution(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.CompleteStep(context.Background(), orgID, exec.ID, "missing", "")

	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestCompleteStep_ReplaysOnConcurrentWrite(t *testing.T) {
	svc, m := newTestRunbookService(t)
	orgID := uuid.New()
	ctx, _ := actorContext(orgID, models.RoleResponder)
	stale := models.NewRunbookExecution(testRunbook(orgID), nil, nil, fixedNow.Add(-time.Hour))
	stale.ID = uuid.New()
	stale.UpdatedAt = fixedNow.Add(-time.Hour)

	// Another responder finished "detect" between our read and our write.
	fresh := models.NewRunbookExecution(testRunbook(orgID), nil, nil, fixedNow.Add(-time.Hour))
	fresh.ID = stale.ID
	doneAt := fixedNow.Add(-time.Minute)
	fresh.Steps[0].CompletedAt = &doneAt
	fresh.UpdatedAt = doneAt

	gomock.InOrder(
		m.repo.EXPECT().GetExecution(ctx, orgID, stale.ID).Return(stale, nil),
		m.repo.EXPECT().UpdateExecution(ctx, stale).Return(fmt.Errorf("failed to update runbook execution: %w", models.ErrConflict)),
		m.repo.EXPECT().GetExecution(ctx, orgID, stale.ID).Return(fresh, nil),
		m.repo.EXPECT().UpdateExecution(ctx, fresh).Return(nil),
	)
	m.audit.EXPECT().Record(ctx, auditAction("runbook_execution.complete_step"))
	m.audit.EXPECT().Record(ctx, auditAction("runbook_execution.complete"))

	got, err := svc.CompleteStep(ctx, orgID, stale.ID, "contain", "")

	require.NoError(t, err)
	assert.Same(t, fresh, got)
	assert.Equal(t, models.ExecutionStatusCompleted, got.Status)
	assert.Equal(t, &doneAt, got.Steps[0].CompletedAt)
}

func TestPauseExecution_GivesUpAfterRepeatedConflicts(t *testing.T) {
	svc, m := newTestRunbookService(t)
	orgID := uuid.New()
	ctx := context.Background()
	id := uuid.New()

	m.repo.EXPECT().GetExecution(ctx, orgID, id).DoAndReturn(func(context.Context, uuid.UUID, uuid.UUID) (*models.RunbookExecution, error) {
		exec := models.NewRunbookExecution(testRunbook(orgID), nil, nil, fixedNow.Add(-time.Hour))
		exec.ID = id
		return exec, nil
	}).Times(writeAttempts)
	m.repo.EXPECT().UpdateExecution(ctx, gomock.Any()).
		Return(fmt.Errorf("failed to update runbook execution: %w", models.ErrConflict)).Times(writeAttempts)
	m.audit.EXPECT().Record(gomock.Any(), gomock.Any()).Times(0)

	_, err := svc.PauseExecution(ctx, orgID, id)

	assert.ErrorIs(t, err, models.ErrConflict)
}
