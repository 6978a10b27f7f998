package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// TeamMember populates the lead/co-lead assignment pickers. Inactive members
// stay on historical records but are not offered for new assignments.
type TeamMember struct {
	ID        string
	Name      string
	Email     string
	Position  string
	IsActive  bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

type TeamMemberRepository interface {
	Create(ctx context.Context, member *TeamMember) error
	FindByID(ctx context.Context, id string) (*TeamMember, error)
	FindAll(ctx context.Context) ([]*TeamMember, error)
	FindActive(ctx context.Context) ([]*TeamMember, error)
	Update(ctx context.Context, member *TeamMember) error
	Delete(ctx context.Context, id string) error
}

type pgTeamMemberRepository struct {
	pool *pgxpool.Pool
}

func NewTeamMemberRepository(pool *pgxpool.Pool) TeamMemberRepository {
	return &pgTeamMemberRepository{pool: pool}
}

const teamMemberColumns = `id, name, email, position, is_active, created_at, updated_at`

func (r *pgTeamMemberRepository) Create(ctx context.Context, member *TeamMember) error {
	query := `
		INSERT INTO team_members (name, email, position, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		member.Name, member.Email, member.Position, member.IsActive,
	).Scan(&member.ID, &member.CreatedAt, &member.UpdatedAt)
}

func (r *pgTeamMemberRepository) FindByID(ctx context.Context, id string) (*TeamMember, error) {
	query := `SELECT ` + teamMemberColumns + ` FROM team_members WHERE id = $1`
	member := &TeamMember{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&member.ID, &member.Name, &member.Email, &member.Position,
		&member.IsActive, &member.CreatedAt, &member.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return member, nil
}

func (r *pgTeamMemberRepository) FindAll(ctx context.Context) ([]*TeamMember, error) {
	return r.query(ctx, `SELECT `+teamMemberColumns+` FROM team_members ORDER BY name`)
}

func (r *pgTeamMemberRepository) FindActive(ctx context.Context) ([]*TeamMember, error) {
	return r.query(ctx, `SELECT `+teamMemberColumns+` FROM team_members WHERE is_active ORDER BY name`)
}

func (r *pgTeamMemberRepository) query(ctx context.Context, query string) ([]*TeamMember, error) {
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var members []*TeamMember
	for rows.Next() {
		member := &TeamMember{}
		if err := rows.Scan(
			&member.ID, &member.Name, &member.Email, &member.Position,
			&member.IsActive, &member.CreatedAt, &member.UpdatedAt,
		); err != nil {
			return nil, err
		}
		members = append(members, member)
	}
	return members, rows.Err()
}

func (r *pgTeamMemberRepository) Update(ctx context.Context, member *TeamMember) error {
	query := `
		UPDATE team_members
		SET name = $2, email = $3, position = $4, is_active = $5, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		member.ID, member.Name, member.Email, member.Position, member.IsActive,
	).Scan(&member.UpdatedAt)
}

func (r *pgTeamMemberRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM team_members WHERE id = $1`, id)
	return err
}
