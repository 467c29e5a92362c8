package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/shenikar/irdesk/internal/models"
	"github.com/shenikar/irdesk/internal/service"
)

type LicenseRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewLicenseRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.LicenseRepository {
	return &LicenseRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func (r *LicenseRepository) GetByOrganization(ctx context.Context, orgID uuid.UUID) (*models.License, error) {
	query := `
		SELECT id, organization_id, plan, max_users, max_assets, max_runbooks, features,
			issued_at, expires_at, created_at, updated_at
		FROM licenses
		WHERE organization_id = $1;
	`
	l := &models.License{}
	err := r.db.QueryRow(ctx, query, orgID).Scan(
		&l.ID,
		&l.OrganizationID,
		&l.Plan,
		&l.MaxUsers,
		&l.MaxAssets,
		&l.MaxRunbooks,
		&l.Features,
		&l.IssuedAt,
		&l.ExpiresAt,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get license for organization %s", orgID), err)
	}
	return l, nil
}

func (r *LicenseRepository) Update(ctx context.Context, license *models.License) error {
	query := `
		UPDATE licenses SET
			plan = $1,
			max_users = $2,
			max_assets = $3,
			max_runbooks = $4,
			features = $5,
			issued_at = $6,
			expires_at = $7,
			updated_at = NOW()
		WHERE organization_id = $8
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query,
		license.Plan,
		license.MaxUsers,
		license.MaxAssets,
		license.MaxRunbooks,
		nonNil(license.Features),
		license.IssuedAt,
		license.ExpiresAt,
		license.OrganizationID,
	).Scan(&license.UpdatedAt)
	if err != nil {
		return wrapErr("failed to update license", err)
	}
	return nil
}

var resourceCountQueries = map[string]string{
	models.ResourceUsers:    `SELECT COUNT(*) FROM users WHERE organization_id = $1 AND active;`,
	models.ResourceAssets:   `SELECT COUNT(*) FROM assets WHERE organization_id = $1;`,
	models.ResourceRunbooks: `SELECT COUNT(*) FROM runbooks WHERE organization_id = $1;`,
}

// CountResource returns the current usage of a licensed resource.
func (r *LicenseRepository) CountResource(ctx context.Context, orgID uuid.UUID, resource string) (int, error) {
	query, ok := resourceCountQueries[resource]
	if !ok {
		return 0, fmt.Errorf("unknown licensed resource %q: %w", resource, models.ErrValidation)
	}
	var n int
	if err := r.db.QueryRow(ctx, query, orgID).Scan(&n); err != nil {
		return 0, wrapErr(fmt.Sprintf("failed to count %s", resource), err)
	}
	return n, nil
}

func licenseCacheKey(orgID uuid.UUID) string {
	return fmt.Sprintf("license:%s", orgID.String())
}

// GetLicenseFromCache returns nil without error on a cache miss.
func (r *LicenseRepository) GetLicenseFromCache(ctx context.Context, orgID uuid.UUID) (*models.License, error) {
	val, err := r.redisClient.Get(ctx, licenseCacheKey(orgID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get license from cache: %w", err)
	}

	license := &models.License{}
	if err := json.Unmarshal(val, license); err != nil {
		return nil, fmt.Errorf("failed to unmarshal license from cache: %w", err)
	}
	return license, nil
}

func (r *LicenseRepository) SetLicenseCache(ctx context.Context, license *models.License) error {
	val, err := json.Marshal(license)
	if err != nil {
		return fmt.Errorf("failed to marshal license for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, licenseCacheKey(license.OrganizationID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set license in cache: %w", err)
	}
	return nil
}

func (r *LicenseRepository) InvalidateLicenseCache(ctx context.Context, orgID uuid.UUID) error {
	if err := r.redisClient.Del(ctx, licenseCacheKey(orgID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate license cache: %w", err)
	}
	return nil
}
