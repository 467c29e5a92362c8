package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service"
)

const incidentColumns = `
	id, organization_id, title, description, severity, status, category,
	assignee_id, reported_by, tags, asset_ids, detected_at, resolved_at, closed_at,
	created_at, updated_at`

type IncidentRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewIncidentRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.IncidentRepository {
	return &IncidentRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func scanIncident(row pgx.Row) (*models.Incident, error) {
	incident := &models.Incident{}
	err := row.Scan(
		&incident.ID,
		&incident.OrganizationID,
		&incident.Title,
		&incident.Description,
		&incident.Severity,
		&incident.Status,
		&incident.Category,
		&incident.AssigneeID,
		&incident.ReportedBy,
		&incident.Tags,
		&incident.AssetIDs,
		&incident.DetectedAt,
		&incident.ResolvedAt,
		&incident.ClosedAt,
		&incident.CreatedAt,
		&incident.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return incident, nil
}

// Create inserts the incident and fills its generated fields.
func (r *IncidentRepository) Create(ctx context.Context, incident *models.Incident) error {
	query := `
		INSERT INTO incidents (organization_id, title, description, severity, status, category,
			assignee_id, reported_by, tags, asset_ids, detected_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING id, created_at, updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.OrganizationID,
		incident.Title,
		incident.Description,
		incident.Severity,
		incident.Status,
		incident.Category,
		incident.AssigneeID,
		incident.ReportedBy,
		nonNil(incident.Tags),
		nonNil(incident.AssetIDs),
		incident.DetectedAt,
	).Scan(&incident.ID, &incident.CreatedAt, &incident.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create incident", err)
	}
	return nil
}

func (r *IncidentRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Incident, error) {
	query := `SELECT ` + incidentColumns + ` FROM incidents WHERE organization_id = $1 AND id = $2;`
	incident, err := scanIncident(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get incident %s", id), err)
	}
	return incident, nil
}

// Update writes incident only if it still carries the updated_at it was read with.
func (r *IncidentRepository) Update(ctx context.Context, incident *models.Incident) error {
	query := `
		UPDATE incidents SET
			title = $1,
			description = $2,
			severity = $3,
			status = $4,
			category = $5,
			assignee_id = $6,
			tags = $7,
			asset_ids = $8,
			detected_at = $9,
			resolved_at = $10,
			closed_at = $11,
			updated_at = NOW()
		WHERE organization_id = $12 AND id = $13 AND updated_at = $14
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		incident.Title,
		incident.Description,
		incident.Severity,
		incident.Status,
		incident.Category,
		incident.AssigneeID,
		nonNil(incident.Tags),
		nonNil(incident.AssetIDs),
		incident.DetectedAt,
		incident.ResolvedAt,
		incident.ClosedAt,
		incident.OrganizationID,
		incident.ID,
		incident.UpdatedAt,
	).Scan(&incident.UpdatedAt)
	if err != nil {
		return staleWrite(fmt.Sprintf("failed to update incident %s", incident.ID), err)
	}
	return nil
}

func (r *IncidentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `DELETE FROM incidents WHERE organization_id = $1 AND id = $2;`, orgID, id)
	if err != nil {
		return wrapErr("failed to delete incident", err)
	}
	return expectAffected(cmdTag, "incident", id)
}

func incidentWhere(orgID uuid.UUID, filter models.IncidentFilter) *where {
	w := &where{}
	w.add("organization_id = ?", orgID)
	if filter.Status != "" {
		w.add("status = ?", filter.Status)
	}
	if filter.Severity != "" {
		w.add("severity = ?", filter.Severity)
	}
	if filter.Category != "" {
		w.add("category = ?", filter.Category)
	}
	if filter.AssigneeID != nil {
		w.add("assignee_id = ?", *filter.AssigneeID)
	}
	if filter.Tag != "" {
		w.add("? = ANY(tags)", filter.Tag)
	}
	w.addSearch(filter.Search, "title", "description")
	return w
}

// List returns one page of incidents, newest first, and the total match count.
func (r *IncidentRepository) List(ctx context.Context, orgID uuid.UUID, filter models.IncidentFilter) ([]*models.Incident, int, error) {
	w := incidentWhere(orgID, filter)

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM incidents`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count incidents", err)
	}

	limit, args := w.page(filter.PageRequest)
	query := `SELECT ` + incidentColumns + ` FROM incidents` + w.String() + ` ORDER BY created_at DESC` + limit
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list incidents", err)
	}
	defer rows.Close()

	incidents := make([]*models.Incident, 0)
	for rows.Next() {
		incident, err := scanIncident(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan incident row: %w", err)
		}
		incidents = append(incidents, incident)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return incidents, total, nil
}

// Stats counts incidents of an organization by status and severity.
func (r *IncidentRepository) Stats(ctx context.Context, orgID uuid.UUID) (*models.IncidentStats, error) {
	query := `
		SELECT status, severity, COUNT(*)
		FROM incidents
		WHERE organization_id = $1
		GROUP BY status, severity;
	`
	rows, err := r.db.Query(ctx, query, orgID)
	if err != nil {
		return nil, wrapErr("failed to get incident stats", err)
	}
	defer rows.Close()

	stats := &models.IncidentStats{
		ByStatus:   make(map[string]int),
		BySeverity: make(map[string]int),
	}
	for _, s := range models.IncidentStatuses() {
		stats.ByStatus[s] = 0
	}
	for rows.Next() {
		var status, severity string
		var n int
		if err := rows.Scan(&status, &severity, &n); err != nil {
			return nil, fmt.Errorf("failed to scan incident stats row: %w", err)
		}
		stats.Total += n
		stats.ByStatus[status] += n
		stats.BySeverity[severity] += n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error stats iteration: %w", err)
	}
	return stats, nil
}

func incidentCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("incident:%s", id.String())
}

// GetIncidentFromCache returns nil without error on a cache miss.
func (r *IncidentRepository) GetIncidentFromCache(ctx context.Context, id uuid.UUID) (*models.Incident, error) {
	val, err := r.redisClient.Get(ctx, incidentCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get incident from cache: %w", err)
	}

	incident := &models.Incident{}
	if err := json.Unmarshal(val, incident); err != nil {
		return nil, fmt.Errorf("failed to unmarshal incident from cache: %w", err)
	}
	return incident, nil
}

func (r *IncidentRepository) SetIncidentCache(ctx context.Context, incident *models.Incident) error {
	val, err := json.Marshal(incident)
	if err != nil {
		return fmt.Errorf("failed to marshal incident for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, incidentCacheKey(incident.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set incident in cache: %w", err)
	}
	return nil
}

func (r *IncidentRepository) InvalidateIncidentCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, incidentCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate incident cache: %w", err)
	}
	return nil
}
