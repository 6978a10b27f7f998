package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Partner struct {
	ID        string
	Name      string
	Company   string
	Email     string
	Phone     string
	Notes     string
	CreatedAt time.Time
	UpdatedAt time.Time
}

type PartnerRepository interface {
	Create(ctx context.Context, partner *Partner) error
	FindByID(ctx context.Context, id string) (*Partner, error)
	FindAll(ctx context.Context) ([]*Partner, error)
	Update(ctx context.Context, partner *Partner) error
	Delete(ctx context.Context, id string) error
}

type pgPartnerRepository struct {
	pool *pgxpool.Pool
}

func NewPartnerRepository(pool *pgxpool.Pool) PartnerRepository {
	return &pgPartnerRepository{pool: pool}
}

func (r *pgPartnerRepository) Create(ctx context.Context, partner *Partner) error {
	query := `
		INSERT INTO partners (name, company, email, phone, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		partner.Name, partner.Company, partner.Email, partner.Phone, partner.Notes,
	).Scan(&partner.ID, &partner.CreatedAt, &partner.UpdatedAt)
}

func (r *pgPartnerRepository) FindByID(ctx context.Context, id string) (*Partner, error) {
	query := `SELECT id, name, company, email, phone, notes, created_at, updated_at FROM partners WHERE id = $1`
	partner := &Partner{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&partner.ID, &partner.Name, &partner.Company, &partner.Email,
		&partner.Phone, &partner.Notes, &partner.CreatedAt, &partner.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return partner, nil
}

func (r *pgPartnerRepository) FindAll(ctx context.Context) ([]*Partner, error) {
	query := `SELECT id, name, company, email, phone, notes, created_at, updated_at FROM partners ORDER BY name`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var partners []*Partner
	for rows.Next() {
		partner := &Partner{}
		if err := rows.Scan(
			&partner.ID, &partner.Name, &partner.Company, &partner.Email,
			&partner.Phone, &partner.Notes, &partner.CreatedAt, &partner.UpdatedAt,
		); err != nil {
			return nil, err
		}
		partners = append(partners, partner)
	}
	return partners, rows.Err()
}

func (r *pgPartnerRepository) Update(ctx context.Context, partner *Partner) error {
	query := `
		UPDATE partners
		SET name = $2, company = $3, email = $4, phone = $5, notes = $6, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		partner.ID, partner.Name, partner.Company, partner.Email, partner.Phone, partner.Notes,
	).Scan(&partner.UpdatedAt)
}

func (r *pgPartnerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM partners WHERE id = $1`, id)
	return err
}
