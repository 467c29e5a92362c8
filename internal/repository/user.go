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

const userColumns = `id, organization_id, email, name, password_hash, role, is_system_admin, active,
	last_login_at, created_at, updated_at`

type UserRepository struct {
	db          *pgxpool.Pool
	redisClient *redis.Client
	cacheTTL    time.Duration
}

func NewUserRepository(db *pgxpool.Pool, redisClient *redis.Client, cacheTTL time.Duration) service.UserRepository {
	return &UserRepository{
		db:          db,
		redisClient: redisClient,
		cacheTTL:    cacheTTL,
	}
}

func scanUser(row pgx.Row) (*models.User, error) {
	u := &models.User{}
	err := row.Scan(
		&u.ID,
		&u.OrganizationID,
		&u.Email,
		&u.Name,
		&u.PasswordHash,
		&u.Role,
		&u.IsSystemAdmin,
		&u.Active,
		&u.LastLoginAt,
		&u.CreatedAt,
		&u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return u, nil
}

const insertUserQuery = `
	INSERT INTO users (organization_id, email, name, password_hash, role, is_system_admin, active)
	VALUES ($1, $2, $3, $4, $5, $6, $7)
	RETURNING id, created_at, updated_at;
`

func insertUserArgs(u *models.User) []any {
	return []any{u.OrganizationID, u.Email, u.Name, u.PasswordHash, u.Role, u.IsSystemAdmin, u.Active}
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	err := r.db.QueryRow(ctx, insertUserQuery, insertUserArgs(user)...).
		Scan(&user.ID, &user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		return wrapErr("failed to create user", err)
	}
	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE id = $1;`, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get user %s", id), err)
	}
	return u, nil
}

// GetByEmail matches the address case-insensitively.
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	u, err := scanUser(r.db.QueryRow(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1);`, email))
	if err != nil {
		return nil, wrapErr("failed to get user by email", err)
	}
	return u, nil
}

func (r *UserRepository) Get(ctx context.Context, orgID, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE organization_id = $1 AND id = $2;`
	u, err := scanUser(r.db.QueryRow(ctx, query, orgID, id))
	if err != nil {
		return nil, wrapErr(fmt.Sprintf("failed to get user %s", id), err)
	}
	return u, nil
}

func (r *UserRepository) List(ctx context.Context, orgID uuid.UUID, filter models.UserFilter) ([]*models.User, int, error) {
	w := &where{}
	w.add("organization_id = ?", orgID)
	if filter.Role != "" {
		w.add("role = ?", filter.Role)
	}
	w.addSearch(filter.Search, "name", "email")

	var total int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM users`+w.String(), w.args...).Scan(&total); err != nil {
		return nil, 0, wrapErr("failed to count users", err)
	}

	limit, args := w.page(filter.PageRequest)
	rows, err := r.db.Query(ctx, `SELECT `+userColumns+` FROM users`+w.String()+` ORDER BY email`+limit, args...)
	if err != nil {
		return nil, 0, wrapErr("failed to list users", err)
	}
	defer rows.Close()

	users := make([]*models.User, 0)
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan user row: %w", err)
		}
		users = append(users, u)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error list iteration: %w", err)
	}
	return users, total, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users SET
			name = $1,
			role = $2,
			active = $3,
			updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at;
	`
	err := r.db.QueryRow(ctx, query, user.Name, user.Role, user.Active, user.ID).Scan(&user.UpdatedAt)
	if err != nil {
		return wrapErr(fmt.Sprintf("failed to update user %s", user.ID), err)
	}
	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2;`, hash, id)
	if err != nil {
		return wrapErr("failed to update password", err)
	}
	return expectAffected(cmdTag, "user", id)
}

func (r *UserRepository) TouchLastLogin(ctx context.Context, id uuid.UUID) error {
	cmdTag, err := r.db.Exec(ctx, `UPDATE users SET last_login_at = NOW() WHERE id = $1;`, id)
	if err != nil {
		return wrapErr("failed to update last login", err)
	}
	return expectAffected(cmdTag, "user", id)
}

func userCacheKey(id uuid.UUID) string {
	return fmt.Sprintf("user:%s", id.String())
}

// GetUserFromCache returns nil without error on a cache miss. Cached users
// carry no password hash.
func (r *UserRepository) GetUserFromCache(ctx context.Context, id uuid.UUID) (*models.User, error) {
	val, err := r.redisClient.Get(ctx, userCacheKey(id)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user from cache: %w", err)
	}

	user := &models.User{}
	if err := json.Unmarshal(val, user); err != nil {
		return nil, fmt.Errorf("failed to unmarshal user from cache: %w", err)
	}
	return user, nil
}

func (r *UserRepository) SetUserCache(ctx context.Context, user *models.User) error {
	val, err := json.Marshal(user)
	if err != nil {
		return fmt.Errorf("failed to marshal user for cache: %w", err)
	}
	if err := r.redisClient.Set(ctx, userCacheKey(user.ID), val, r.cacheTTL).Err(); err != nil {
		return fmt.Errorf("failed to set user in cache: %w", err)
	}
	return nil
}

func (r *UserRepository) InvalidateUserCache(ctx context.Context, id uuid.UUID) error {
	if err := r.redisClient.Del(ctx, userCacheKey(id)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate user cache: %w", err)
	}
	return nil
}
