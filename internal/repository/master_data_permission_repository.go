package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

// MasterDataPermission tracks a user's view access to the master-data
// directory. One row per user; revoking keeps the row so a later re-request
// updates requested_at in place.
type MasterDataPermission struct {
	ID            string     `db:"id"`
	UserID        string     `db:"user_id"`
	HasViewAccess bool       `db:"has_view_access"`
	RequestedAt   *time.Time `db:"requested_at"`
	ApprovedAt    *time.Time `db:"approved_at"`
	ApprovedBy    *string    `db:"approved_by"`
	CreatedAt     time.Time  `db:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at"`
}

type MasterDataPermissionRepository interface {
	Upsert(ctx context.Context, perm *MasterDataPermission) error
	FindByUser(ctx context.Context, userID string) (*MasterDataPermission, error)
	FindAll(ctx context.Context) ([]*MasterDataPermission, error)
	Update(ctx context.Context, perm *MasterDataPermission) error
}

type sqlxMasterDataPermissionRepository struct {
	db *sqlx.DB
}

func NewMasterDataPermissionRepository(db *sqlx.DB) MasterDataPermissionRepository {
	return &sqlxMasterDataPermissionRepository{db: db}
}

// Upsert inserts the permission row for a user or refreshes requested_at on
// the existing one.
func (r *sqlxMasterDataPermissionRepository) Upsert(ctx context.Context, perm *MasterDataPermission) error {
	query := `
		INSERT INTO user_master_data_permissions (user_id, has_view_access, requested_at)
		VALUES ($1, $2, $3)
		ON CONFLICT (user_id) DO UPDATE
		SET requested_at = EXCLUDED.requested_at, updated_at = NOW()
		RETURNING id, has_view_access, approved_at, approved_by, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		perm.UserID, perm.HasViewAccess, perm.RequestedAt,
	).Scan(&perm.ID, &perm.HasViewAccess, &perm.ApprovedAt, &perm.ApprovedBy,
		&perm.CreatedAt, &perm.UpdatedAt)
}

func (r *sqlxMasterDataPermissionRepository) FindByUser(ctx context.Context, userID string) (*MasterDataPermission, error) {
	perm := &MasterDataPermission{}
	err := r.db.GetContext(ctx, perm,
		`SELECT * FROM user_master_data_permissions WHERE user_id = $1`, userID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return perm, nil
}

func (r *sqlxMasterDataPermissionRepository) FindAll(ctx context.Context) ([]*MasterDataPermission, error) {
	var perms []*MasterDataPermission
	err := r.db.SelectContext(ctx, &perms,
		`SELECT * FROM user_master_data_permissions ORDER BY requested_at DESC NULLS LAST`)
	return perms, err
}

func (r *sqlxMasterDataPermissionRepository) Update(ctx context.Context, perm *MasterDataPermission) error {
	query := `
		UPDATE user_master_data_permissions
		SET has_view_access = $2, requested_at = $3, approved_at = $4, approved_by = $5,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		perm.ID, perm.HasViewAccess, perm.RequestedAt, perm.ApprovedAt, perm.ApprovedBy,
	).Scan(&perm.UpdatedAt)
}
