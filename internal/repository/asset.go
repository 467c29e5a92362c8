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

const assetColumns = `id, organization_id, name, type, criticality, owner, hostname, ip_address,
	description, tags, created_at, updated_at`

type AssetRepository struct {
	db *pgxpool.Pool
}

func NewAssetRepository(db *pgxpool.Pool) service.AssetRepository {
	return &AssetRepository{db: db}
}

func scanAsset(row pgx.Row) (*models.Asset, error) {
	a := &models.Asset{}
	err := row.Scan(
		&a.ID,
		&a.OrganizationID,
		&a.Name,
		&a.Type,
		&a.Criticality,
		&a.Owner,
		&a.Hostname,
		&a.IPAddress,
		&a.Description,
		&a.Tags,
		&a.CreatedAt,
		&a.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return a, nil
}

func (r *AssetRepository) Create(ctx context.Context, asset *models.Asset) error {
	query := `
		INSERT INTO assets (organization_id, name, type, criticality, owner, hostname, ip_address, description, tags)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		asset.OrganizationID,
		asset.Name,
		asset.Type,
		asset.Criticality,
		asset.Owner,
		asset.Hostname,
		asset.IPAddress,
		asset.Description,
		nonNil(asset.Tags),
	).Scan(&asset.ID, &asset.CreatedAt, &asset.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create asset", err)
	}
	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Asset, error) {
	query := `SELECT ` + assetColumns + ` FROM assets WHERE organization_id = $1 AND id = $2;`
	asset, err := scanAsset(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get asset %s", id), err)
	}
	return asset, nil
}

func (r *AssetRepository) Update(ctx context.Context, asset *models.Asset) error {
	query := `
		UPDATE assets SET
			name = $1,
			type = $2,
			criticality = $3,
			owner = $4,
			hostname = $5,
			ip_address = $6,
			description = $7,
			tags = $8,
			updated_at = NOW()
		WHERE organization_id = $9 AND id = $10
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		asset.Name,
		asset.Type,
		asset.Criticality,
		asset.Owner,
		asset.Hostname,
		asset.IPAddress,
		asset.Description,
		nonNil(asset.Tags),
		asset.OrganizationID,
		asset.ID,
	).Scan(&asset.UpdatedAt)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update asset %s", asset.ID), err)
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM assets WHERE organization_id = $1 AND id = $2;`, orgID, id)
	if err != nil {
		return wrapErr("failed to delete asset", err)
	}
	return expectAffected(cmdTag, "asset", id)
}

func (r *AssetRepository) List(ctx context.Context, orgID uuid.UUID, filter models.AssetFilter) ([]*models.Asset, int, error) {
	w := &where{}
	w.add("organization_id = ?", orgID)
	if filter.Type != "" {
		w.add("type = ?", filter.Type)
	}
	if filter.Criticality != "" {
		w.add("criticality = ?", filter.Criticality)
	}
	w.addSearch(filter.Search, "name", "hostname", "ip_address", "owner")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM assets`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count assets", err)
	}

	limit, args := w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, `SELECT `+assetColumns+` FROM assets`+w.String()+` ORDER BY name`+limit, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list assets", err)
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan asset row: %w", err)
		}
		assets = append(assets, asset)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return assets, total, nil
}
