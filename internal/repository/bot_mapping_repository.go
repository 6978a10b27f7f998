package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// BotUserMapping links a chat-platform account to a CRM user.
type BotUserMapping struct {
	ID             string
	Platform       string
	PlatformUserID string
	CRMUserID      string
	IsActive       bool
	CreatedAt      time.Time
}

type BotMappingRepository interface {
	Upsert(ctx context.Context, mapping *BotUserMapping) error
	FindByPlatformUser(ctx context.Context, platform, platformUserID string) (*BotUserMapping, error)
	Deactivate(ctx context.Context, platform, platformUserID string) error
}

type pgBotMappingRepository struct {
	pool *pgxpool.Pool
}

func NewBotMappingRepository(pool *pgxpool.Pool) BotMappingRepository {
	return &pgBotMappingRepository{pool: pool}
}

// Upsert relinks an existing platform account to a (possibly different) CRM
// user and reactivates it.
func (r *pgBotMappingRepository) Upsert(ctx context.Context, mapping *BotUserMapping) error {
	query := `
		INSERT INTO bot_user_mappings (platform, platform_user_id, crm_user_id, is_active)
		VALUES ($1, $2, $3, TRUE)
		ON CONFLICT (platform, platform_user_id) DO UPDATE
		SET crm_user_id = EXCLUDED.crm_user_id, is_active = TRUE
		RETURNING id, is_active, created_at
	`
	return r.pool.QueryRow(ctx, query,
		mapping.Platform, mapping.PlatformUserID, mapping.CRMUserID,
	).Scan(&mapping.ID, &mapping.IsActive, &mapping.CreatedAt)
}

func (r *pgBotMappingRepository) FindByPlatformUser(ctx context.Context, platform, platformUserID string) (*BotUserMapping, error) {
	query := `
		SELECT id, platform, platform_user_id, crm_user_id, is_active, created_at
		FROM bot_user_mappings
		WHERE platform = $1 AND platform_user_id = $2
	`
	mapping := &BotUserMapping{}
	err := r.pool.QueryRow(ctx, query, platform, platformUserID).Scan(
		&mapping.ID, &mapping.Platform, &mapping.PlatformUserID,
		&mapping.CRMUserID, &mapping.IsActive, &mapping.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return mapping, nil
}

func (r *pgBotMappingRepository) Deactivate(ctx context.Context, platform, platformUserID string) error {
	_, err := r.pool.Exec(ctx,
		`UPDATE bot_user_mappings SET is_active = FALSE WHERE platform = $1 AND platform_user_id = $2`,
		platform, platformUserID)
	return err
}
