package repository

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service"
)

type TagRepository struct {
	db *pgxpool.Pool
}

func NewTagRepository(db *pgxpool.Pool) service.TagRepository {
	return &TagRepository{db: db}
}

func (r *TagRepository) Create(ctx context.Context, tag *models.Tag) error {
	query := `
		INSERT INTO tags (organization_id, name, color)
		VALUES ($1, $2, $3)
		RETURNING id, created_at;
	`
	if err := r.db.QueryRow(ctx, query, tag.OrganizationID, tag.Name, tag.Color).Scan(&tag.ID, &tag.CreatedAt); err != nil {
		return wrapErr("failed to create tag", err)
	}
	return nil
}

func (r *TagRepository) List(ctx context.Context, orgID uuid.UUID) ([]*models.Tag, error) {
	query := `
		SELECT id, organization_id, name, color, created_at
		FROM tags
		WHERE organization_id = $1
		ORDER BY name;
	`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, wrapErr("failed to list tags", err)
	}
	defer rows.Close()

	tags := make([]*models.Tag, 0)
	for rows.Next() {
		tag := &models.Tag{}
		if err := rows.Scan(&tag.ID, &tag.OrganizationID, &tag.Name, &tag.Color, &tag.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan tag row: %w", err)
		}
		tags = append(tags, tag)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error list iteration: %w", err)
	}
	return tags, nil
}

func (r *TagRepository) Update(ctx context.Context, tag *models.Tag) error {
	query := `
		UPDATE tags SET name = $1, color = $2
		WHERE organization_id = $3 AND id = $4
		RETURNING created_at;
	`
	if err := r.db.QueryRow(ctx, query, tag.Name, tag.Color, tag.OrganizationID, tag.ID).Scan(&tag.CreatedAt); err != nil {
		return wrapErr(fmt.Sprintf("failed to update tag %s", tag.ID), err)
	}
	return nil
}

func (r *TagRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM tags WHERE organization_id = $1 AND id = $2;`, orgID, id)
	if err != nil {
		return wrapErr("failed to delete tag", err)
	}
	return expectAffected(cmdTag, "tag", id)
}
