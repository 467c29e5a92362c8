package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service"
)

const (
	runbookColumns   = `id, organization_id, name, description, incident_category, steps, created_by, created_at, updated_at`
	executionColumns = `id, organization_id, runbook_id, incident_id, started_by, status, steps,
		started_at, paused_at, paused_millis, finished_at, updated_at`
)

// RunbookRepository stores runbook steps and execution progress as JSONB.
type RunbookRepository struct {
	db *pgxpool.Pool
}

func NewRunbookRepository(db *pgxpool.Pool) service.RunbookRepository {
	return &RunbookRepository{db: db}
}

func scanRunbook(row pgx.Row) (*models.Runbook, error) {
	rb := &models.Runbook{}
	err := row.Scan(
		&rb.ID,
		&rb.OrganizationID,
		&rb.Name,
		&rb.Description,
		&rb.IncidentCategory,
		&rb.Steps,
		&rb.CreatedBy,
		&rb.CreatedAt,
		&rb.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return rb, nil
}

func scanExecution(row pgx.Row) (*models.RunbookExecution, error) {
	e := &models.RunbookExecution{}
	err := row.Scan(
		&e.ID,
		&e.OrganizationID,
		&e.RunbookID,
		&e.IncidentID,
		&e.StartedBy,
		&e.Status,
		&e.Steps,
		&e.StartedAt,
		&e.PausedAt,
		&e.PausedMillis,
		&e.FinishedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *RunbookRepository) Create(ctx context.Context, runbook *models.Runbook) error {
	query := `
		INSERT INTO runbooks (organization_id, name, description, incident_category, steps, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		runbook.OrganizationID,
		runbook.Name,
		runbook.Description,
		runbook.IncidentCategory,
		nonNil(runbook.Steps),
		runbook.CreatedBy,
	).Scan(&runbook.ID, &runbook.CreatedAt, &runbook.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create runbook", err)
	}
	return nil
}

func (r *RunbookRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Runbook, error) {
	query := `SELECT ` + runbookColumns + ` FROM runbooks WHERE organization_id = $1 AND id = $2;`
	rb, err := scanRunbook(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get runbook %s", id), err)
	}
	return rb, nil
}

func (r *RunbookRepository) Update(ctx context.Context, runbook *models.Runbook) error {
	query := `
		UPDATE runbooks SET
			name = $1,
			description = $2,
			incident_category = $3,
			steps = $4,
			updated_at = NOW()
		WHERE organization_id = $5 AND id = $6
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		runbook.Name,
		runbook.Description,
		runbook.IncidentCategory,
		nonNil(runbook.Steps),
		runbook.OrganizationID,
		runbook.ID,
	).Scan(&runbook.UpdatedAt)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update runbook %s", runbook.ID), err)
	}
	return nil
}

func (r *RunbookRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM runbooks WHERE organization_id = $1 AND id = $2;`, orgID, id)
	if err != nil {
		return wrapErr("failed to delete runbook", err)
	}
	return expectAffected(cmdTag, "runbook", id)
}

func (r *RunbookRepository) List(ctx context.Context, orgID uuid.UUID, filter models.RunbookFilter) ([]*models.Runbook, int, error) {
	w := &where{}
	w.add("organization_id = ?", orgID)
	if filter.IncidentCategory != "" {
		w.add("incident_category = ?", filter.IncidentCategory)
	}
	w.addSearch(filter.Search, "name", "description")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM runbooks`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count runbooks", err)
	}

	limit, args := w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, `SELECT `+runbookColumns+` FROM runbooks`+w.String()+` ORDER BY name`+limit, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list runbooks", err)
	}
	defer rows.Close()

	runbooks := make([]*models.Runbook, 0)
	for rows.Next() {
		rb, err := scanRunbook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan runbook row: %w", err)
		}
		runbooks = append(runbooks, rb)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return runbooks, total, nil
}

func (r *RunbookRepository) CreateExecution(ctx context.Context, execution *models.RunbookExecution) error {
	query := `
		INSERT INTO runbook_executions (organization_id, runbook_id, incident_id, started_by, status, steps, started_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		execution.OrganizationID,
		execution.RunbookID,
		execution.IncidentID,
		execution.StartedBy,
		execution.Status,
		nonNil(execution.Steps),
		execution.StartedAt,
	).Scan(&execution.ID, &execution.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create runbook execution", err)
	}
	return nil
}

func (r *RunbookRepository) GetExecution(ctx context.Context, orgID, id uuid.UUID) (*models.RunbookExecution, error) {
	query := `SELECT ` + executionColumns + ` FROM runbook_executions WHERE organization_id = $1 AND id = $2;`
	e, err := scanExecution(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get runbook execution %s", id), err)
	}
	return e, nil
}

// UpdateExecution writes execution only if it still carries the updated_at it was read with.
func (r *RunbookRepository) UpdateExecution(ctx context.Context, execution *models.RunbookExecution) error {
	query := `
		UPDATE runbook_executions SET
			status = $1,
			steps = $2,
			paused_at = $3,
			paused_millis = $4,
			finished_at = $5,
			updated_at = NOW()
		WHERE organization_id = $6 AND id = $7 AND updated_at = $8
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		execution.Status,
		nonNil(execution.Steps),
		execution.PausedAt,
		execution.PausedMillis,
		execution.FinishedAt,
		execution.OrganizationID,
		execution.ID,
		execution.UpdatedAt,
	).Scan(&execution.UpdatedAt)
	if err != nil {
		return staleWrite(fmt.Sprintf("failed to update runbook execution %s", execution.ID), err)
	}
	return nil
}

// ListExecutions returns the executions of a runbook, most recent first.
func (r *RunbookRepository) ListExecutions(ctx context.Context, orgID, runbookID uuid.UUID) ([]*models.RunbookExecution, error) {
	query := `SELECT ` + executionColumns + `
		FROM runbook_executions
		WHERE organization_id = $1 AND runbook_id = $2
		ORDER BY started_at DESC;`
	rows, err := r.db.Query(ctx, query, orgID, runbookID)
	if err != nil {
		return nil, wrapErr("failed to list runbook executions", err)
	}
	defer rows.Close()

	executions := make([]*models.RunbookExecution, 0)
	for rows.Next() {
		e, err := scanExecution(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan runbook execution row: %w", err)
		}
		executions = append(executions, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return executions, nil
}
