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

const templateColumns = `id, organization_id, name, category, subject, body, variables, created_by, created_at, updated_at`

type TemplateRepository struct {
	db *pgxpool.Pool
}

func NewTemplateRepository(db *pgxpool.Pool) service.TemplateRepository {
	return &TemplateRepository{db: db}
}

func scanTemplate(row pgx.Row) (*models.Template, error) {
	t := &models.Template{}
	err := row.Scan(
		&t.ID,
		&t.OrganizationID,
		&t.Name,
		&t.Category,
		&t.Subject,
		&t.Body,
		&t.Variables,
		&t.CreatedBy,
		&t.CreatedAt,
		&t.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return t, nil
}

func (r *TemplateRepository) Create(ctx context.Context, tmpl *models.Template) error {
	query := `
		INSERT INTO templates (organization_id, name, category, subject, body, variables, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		tmpl.OrganizationID,
		tmpl.Name,
		tmpl.Category,
		tmpl.Subject,
		tmpl.Body,
		nonNil(tmpl.Variables),
		tmpl.CreatedBy,
	).Scan(&tmpl.ID, &tmpl.CreatedAt, &tmpl.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create template", err)
	}
	return nil
}

func (r *TemplateRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Template, error) {
	query := `SELECT ` + templateColumns + ` FROM templates WHERE organization_id = $1 AND id = $2;`
	tmpl, err := scanTemplate(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get template %s", id), err)
	}
	return tmpl, nil
}

func (r *TemplateRepository) Update(ctx context.Context, tmpl *models.Template) error {
	query := `
		UPDATE templates SET
			name = $1,
			category = $2,
			subject = $3,
			body = $4,
			variables = $5,
			updated_at = NOW()
		WHERE organization_id = $6 AND id = $7
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		tmpl.Name,
		tmpl.Category,
		tmpl.Subject,
		tmpl.Body,
		nonNil(tmpl.Variables),
		tmpl.OrganizationID,
		tmpl.ID,
	).Scan(&tmpl.UpdatedAt)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update template %s", tmpl.ID), err)
	}
	return nil
}

func (r *TemplateRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM templates WHERE organization_id = $1 AND id = $2;`, orgID, id)
	if err != nil {
		return wrapErr("failed to delete template", err)
	}
	return expectAffected(cmdTag, "template", id)
}

func (r *TemplateRepository) List(ctx context.Context, orgID uuid.UUID, filter models.TemplateFilter) ([]*models.Template, int, error) {
	w := &where{}
	w.add("organization_id = ?", orgID)
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	w.addSearch(filter.Search, "name", "subject")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM templates`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count templates", err)
	}

	limit, args := w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, `SELECT `+templateColumns+` FROM templates`+w.String()+` ORDER BY name`+limit, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list templates", err)
	}
	defer rows.Close()

	templates := make([]*models.Template, 0)
	for rows.Next() {
		tmpl, err := scanTemplate(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan template row: %w", err)
		}
		templates = append(templates, tmpl)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return templates, total, nil
}
