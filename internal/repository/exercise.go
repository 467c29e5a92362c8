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

const exerciseColumns = `id, organization_id, title, scenario, type, status, runbook_id, participants,
	scheduled_at, started_at, completed_at, findings, created_at, updated_at`

type ExerciseRepository struct {
	db *pgxpool.Pool
}

func NewExerciseRepository(db *pgxpool.Pool) service.ExerciseRepository {
	return &ExerciseRepository{db: db}
}

func scanExercise(row pgx.Row) (*models.Exercise, error) {
	e := &models.Exercise{}
	err := row.Scan(
		&e.ID,
		&e.OrganizationID,
		&e.Title,
		&e.Scenario,
		&e.Type,
		&e.Status,
		&e.RunbookID,
		&e.Participants,
		&e.ScheduledAt,
		&e.StartedAt,
		&e.CompletedAt,
		&e.Findings,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return e, nil
}

func (r *ExerciseRepository) Create(ctx context.Context, exercise *models.Exercise) error {
	query := `
		INSERT INTO exercises (organization_id, title, scenario, type, status, runbook_id, participants, scheduled_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		exercise.OrganizationID,
		exercise.Title,
		exercise.Scenario,
		exercise.Type,
		exercise.Status,
		exercise.RunbookID,
		nonNil(exercise.Participants),
		exercise.ScheduledAt,
	).Scan(&exercise.ID, &exercise.CreatedAt, &exercise.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create exercise", err)
	}
	return nil
}

func (r *ExerciseRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Exercise, error) {
	query := `SELECT ` + exerciseColumns + ` FROM exercises WHERE organization_id = $1 AND id = $2;`
	e, err := scanExercise(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get exercise %s", id), err)
	}
	return e, nil
}

func (r *ExerciseRepository) Update(ctx context.Context, exercise *models.Exercise) error {
	query := `
		UPDATE exercises SET
			title = $1,
			scenario = $2,
			type = $3,
			status = $4,
			runbook_id = $5,
			participants = $6,
			scheduled_at = $7,
			started_at = $8,
			completed_at = $9,
			findings = $10,
			updated_at = NOW()
		WHERE organization_id = $11 AND id = $12
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		exercise.Title,
		exercise.Scenario,
		exercise.Type,
		exercise.Status,
		exercise.RunbookID,
		nonNil(exercise.Participants),
		exercise.ScheduledAt,
		exercise.StartedAt,
		exercise.CompletedAt,
		exercise.Findings,
		exercise.OrganizationID,
		exercise.ID,
	).Scan(&exercise.UpdatedAt)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update exercise %s", exercise.ID), err)
	}
	return nil
}

func (r *ExerciseRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM exercises WHERE organization_id = $1 AND id = $2;`, orgID, id)
	if err != nil {
		return wrapErr("failed to delete exercise", err)
	}
	return expectAffected(cmdTag, "exercise", id)
}

func (r *ExerciseRepository) List(ctx context.Context, orgID uuid.UUID, filter models.ExerciseFilter) ([]*models.Exercise, int, error) {
	w := &where{}
	w.add("organization_id = ?", orgID)
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Type != "" {
		w.add("type = ?", filter.Type)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM exercises`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count exercises", err)
	}

	limit, args := w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, `SELECT `+exerciseColumns+` FROM exercises`+w.String()+` ORDER BY scheduled_at DESC`+limit, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list exercises", err)
	}
	defer rows.Close()

	exercises := make([]*models.Exercise, 0)
	for rows.Next() {
		e, err := scanExercise(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan exercise row: %w", err)
		}
		exercises = append(exercises, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return exercises, total, nil
}
