package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service"
)

type AuditRepository struct {
	db *pgxpool.Pool
}

func NewAuditRepository(db *pgxpool.Pool) service.AuditRepository {
	return &AuditRepository{db: db}
}

func (r *AuditRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	metadata := entry.Metadata
	if metadata == nil {
		metadata = map[string]any{}
	}
	query := `
		INSERT INTO audit_logs (organization_id, actor_id, actor_email, action, category,
			resource_type, resource_id, metadata, ip_address, user_agent)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at;
	`
	err := r.db.QueryRow(ctx, query,
		entry.OrganizationID,
		entry.ActorID,
		entry.ActorEmail,
		entry.Action,
		entry.Category,
		entry.ResourceType,
		entry.ResourceID,
		metadata,
		entry.IPAddress,
		entry.UserAgent,
	).Scan(&entry.ID, &entry.CreatedAt)
	if err != nil {
		return wrapErr("failed to create audit log", err)
	}
	return nil
}

// List pages audit entries newest first. A nil OrganizationID lists every tenant.
func (r *AuditRepository) List(ctx context.Context, filter models.AuditFilter) ([]*models.AuditLog, int, error) {
	w := &where{}
	if filter.OrganizationID != nil {
		w.add("organization_id = ?", *filter.OrganizationID)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.Action != "" {
		w.add("action = ?", filter.Action)
	}
	if filter.ActorID != nil {
		w.add("actor_id = ?", *filter.ActorID)
	}
	if filter.ResourceType != "" {
		w.add("resource_type = ?", filter.ResourceType)
	}
	if filter.From != nil {
		w.add("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		w.add("created_at < ?", *filter.To)
	}

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count audit logs", err)
	}

	limit, args := w.page(filter.PageRequest)
	query := `
		SELECT id, organization_id, actor_id, actor_email, action, category,
			resource_type, resource_id, metadata, ip_address, user_agent, created_at
		FROM audit_logs` + w.String() + ` ORDER BY created_at DESC, id DESC` + limit
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list audit logs", err)
	}
	defer rows.Close()

	entries := make([]*models.AuditLog, 0)
	for rows.Next() {
		e := &models.AuditLog{}
		if err := rows.Scan(
			&e.ID,
			&e.OrganizationID,
			&e.ActorID,
			&e.ActorEmail,
			&e.Action,
			&e.Category,
			&e.ResourceType,
			&e.ResourceID,
			&e.Metadata,
			&e.IPAddress,
			&e.UserAgent,
			&e.CreatedAt,
		); err != nil {
			return nil, 0, fmt.Errorf("failed to scan audit log row: %w", err)
		}
		entries = append(entries, e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return entries, total, nil
}
