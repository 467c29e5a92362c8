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

const organizationColumns = `id, name, slug, contact_email, status, created_at, updated_at`

type OrganizationRepository struct {
	db *pgxpool.Pool
}

func NewOrganizationRepository(db *pgxpool.Pool) service.OrganizationRepository {
	return &OrganizationRepository{db: db}
}

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	o := &models.Organization{}
	if err := row.Scan(&o.ID, &o.Name, &o.Slug, &o.ContactEmail, &o.Status, &o.CreatedAt, &o.UpdatedAt); err != nil {
		return nil, err
	}
	return o, nil
}

// Provision creates the organization together with its license, owner and
// default dropdowns in a single transaction.
func (r *OrganizationRepository) Provision(ctx context.Context, org *models.Organization, license *models.License, owner *models.User, dropdowns []models.Dropdown) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	err = tx.QueryRow(ctx, `
		INSERT INTO organizations (name, slug, contact_email, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at;`,
		org.Name, org.Slug, org.ContactEmail, org.Status,
	).Scan(&org.ID, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create organization", err)
	}

	license.OrganizationID = org.ID
	err = tx.QueryRow(ctx, `
		INSERT INTO licenses (organization_id, plan, max_users, max_assets, max_runbooks, features, issued_at, expires_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at, updated_at;`,
		license.OrganizationID, license.Plan, license.MaxUsers, license.MaxAssets, license.MaxRunbooks,
		nonNil(license.Features), license.IssuedAt, license.ExpiresAt,
	).Scan(&license.ID, &license.CreatedAt, &license.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create license", err)
	}

	owner.OrganizationID = &org.ID
	err = tx.QueryRow(ctx, insertUserQuery, insertUserArgs(owner)...).
		Scan(&owner.ID, &owner.CreatedAt, &owner.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create owner", err)
	}

	batch := &pgx.Batch{}
	for _, d := range dropdowns {
		batch.Queue(`INSERT INTO dropdowns (organization_id, key, label, options) VALUES ($1, $2, $3, $4);`,
			org.ID, d.Key, d.Label, nonNil(d.Options))
	}
	if batch.Len() > 0 {
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return wrapErr("failed to seed dropdowns", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("failed to commit provisioning: %w", err)
	}
	return nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	o, err := scanOrganization(r.db.QueryRow(ctx, `SELECT `+organizationColumns+` FROM organizations WHERE id = $1;`, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get organization %s", id), err)
	}
	return o, nil
}

func (r *OrganizationRepository) List(ctx context.Context, filter models.OrganizationFilter) ([]*models.Organization, int, error) {
	w := &where{}
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	w.addSearch(filter.Search, "name", "slug")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM organizations`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count organizations", err)
	}

	limit, args := w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, `SELECT `+organizationColumns+` FROM organizations`+w.String()+` ORDER BY name`+limit, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list organizations", err)
	}
	defer rows.Close()

	orgs := make([]*models.Organization, 0)
	for rows.Next() {
		o, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan organization row: %w", err)
		}
		orgs = append(orgs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return orgs, total, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations SET
			name = $1,
			contact_email = $2,
			updated_at = NOW()
		WHERE id = $3
		RETURNING slug, status, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query, org.Name, org.ContactEmail, org.ID).
		Scan(&org.Slug, &org.Status, &org.CreatedAt, &org.UpdatedAt)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update organization %s", org.ID), err)
	}
	return nil
}

func (r *OrganizationRepository) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE organizations SET status = $1, updated_at = NOW() WHERE id = $2;`, status, id)
	if err != nil {
		return wrapErr("failed to set organization status", err)
	}
	return expectAffected(cmdTag, "organization", id)
}

func (r *OrganizationRepository) PlatformStats(ctx context.Context) (*models.PlatformStats, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM organizations),
			(SELECT COUNT(*) FROM organizations WHERE status = 'active'),
			(SELECT COUNT(*) FROM users WHERE organization_id IS NOT NULL),
			(SELECT COUNT(*) FROM incidents),
			(SELECT COUNT(*) FROM incidents WHERE status <> 'closed');
	`
	stats := &models.PlatformStats{}
	err := r.db.QueryRow(ctx, query).Scan(
		&stats.OrganizationsTotal,
		&stats.OrganizationsActive,
		&stats.UsersTotal,
		&stats.IncidentsTotal,
		&stats.IncidentsOpen,
	)
	if err != nil {
		return nil, wrapErr("failed to get platform stats", err)
	}
	return stats, nil
}
