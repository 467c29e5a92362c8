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

// DropdownRepository keeps dropdown options as an ordered JSONB array.
type DropdownRepository struct {
	db *pgxpool.Pool
}

func NewDropdownRepository(db *pgxpool.Pool) service.DropdownRepository {
	return &DropdownRepository{db: db}
}

func scanDropdown(row pgx.Row) (*models.Dropdown, error) {
	d := &models.Dropdown{}
	if err := row.Scan(&d.ID, &d.OrganizationID, &d.Key, &d.Label, &d.Options, &d.CreatedAt, &d.UpdatedAt); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *DropdownRepository) List(ctx context.Context, orgID uuid.UUID) ([]*models.Dropdown, error) {
	query := `
		SELECT id, organization_id, key, label, options, created_at, updated_at
		FROM dropdowns
		WHERE organization_id = $1
		ORDER BY key;
	`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, wrapErr("failed to list dropdowns", err)
	}
	defer rows.Close()

	dropdowns := make([]*models.Dropdown, 0)
	for rows.Next() {
		d, err := scanDropdown(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan dropdown row: %w", err)
		}
		dropdowns = append(dropdowns, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return dropdowns, nil
}

func (r *DropdownRepository) GetByKey(ctx context.Context, orgID uuid.UUID, key string) (*models.Dropdown, error) {
	query := `
		SELECT id, organization_id, key, label, options, created_at, updated_at
		FROM dropdowns
		WHERE organization_id = $1 AND key = $2;
	`
	d, err := scanDropdown(r.db.QueryRow(ctx, query, orgID, key))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get dropdown %q", key), err)
	}
	return d, nil
}

// Upsert creates the dropdown or replaces label and options of the existing key.
func (r *DropdownRepository) Upsert(ctx context.Context, dropdown *models.Dropdown) error {
	query := `
		INSERT INTO dropdowns (organization_id, key, label, options)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (organization_id, key) DO UPDATE SET
			label = EXCLUDED.label,
			options = EXCLUDED.options,
			updated_at = NOW()
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		dropdown.OrganizationID,
		dropdown.Key,
		dropdown.Label,
		nonNil(dropdown.Options),
	).Scan(&dropdown.ID, &dropdown.CreatedAt, &dropdown.UpdatedAt)
	if err != nil {
		return wrapErr("failed to save dropdown", err)
	}
	return nil
}

func (r *DropdownRepository) Delete(ctx context.Context, orgID uuid.UUID, key string) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM dropdowns WHERE organization_id = $1 AND key = $2;`, orgID, key)
	if err != nil {
		return wrapErr("failed to delete dropdown", err)
	}
	if cmdTag.RowsAffected() == 0 {
		return fmt.Errorf("dropdown %q not found: %w", key, models.ErrNotFound)
	}
	return nil
}
