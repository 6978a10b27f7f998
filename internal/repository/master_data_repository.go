package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

type ClientMasterData struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	Designation string    `db:"designation"`
	Company     string    `db:"company"`
	Industry    string    `db:"industry"`
	Address     string    `db:"address"`
	Phone       string    `db:"phone"`
	Email       string    `db:"email"`
	Notes       string    `db:"notes"`
	AddedBy     string    `db:"added_by"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

type MasterDataRepository interface {
	Create(ctx context.Context, entry *ClientMasterData) error
	BulkCreate(ctx context.Context, entries []*ClientMasterData) (int, error)
	FindByID(ctx context.Context, id string) (*ClientMasterData, error)
	FindAll(ctx context.Context) ([]*ClientMasterData, error)
	FindByName(ctx context.Context, name string) (*ClientMasterData, error)
	Update(ctx context.Context, entry *ClientMasterData) error
	Delete(ctx context.Context, id string) error
}

type sqlxMasterDataRepository struct {
	db *sqlx.DB
}

func NewMasterDataRepository(db *sqlx.DB) MasterDataRepository {
	return &sqlxMasterDataRepository{db: db}
}

const masterDataInsert = `
	INSERT INTO client_master_data (name, designation, company, industry, address, phone, email, notes, added_by)
	VALUES (:name, :designation, :company, :industry, :address, :phone, :email, :notes, :added_by)`

func (r *sqlxMasterDataRepository) Create(ctx context.Context, entry *ClientMasterData) error {
	query := `
		INSERT INTO client_master_data (name, designation, company, industry, address, phone, email, notes, added_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		entry.Name, entry.Designation, entry.Company, entry.Industry,
		entry.Address, entry.Phone, entry.Email, entry.Notes, entry.AddedBy,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
}

func (r *sqlxMasterDataRepository) BulkCreate(ctx context.Context, entries []*ClientMasterData) (int, error) {
	if len(entries) == 0 {
		return 0, nil
	}
	result, err := r.db.NamedExecContext(ctx, masterDataInsert, entries)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return len(entries), nil
	}
	return int(affected), nil
}

func (r *sqlxMasterDataRepository) FindByID(ctx context.Context, id string) (*ClientMasterData, error) {
	entry := &ClientMasterData{}
	err := r.db.GetContext(ctx, entry, `SELECT * FROM client_master_data WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *sqlxMasterDataRepository) FindAll(ctx context.Context) ([]*ClientMasterData, error) {
	var entries []*ClientMasterData
	err := r.db.SelectContext(ctx, &entries, `SELECT * FROM client_master_data ORDER BY name`)
	return entries, err
}

func (r *sqlxMasterDataRepository) FindByName(ctx context.Context, name string) (*ClientMasterData, error) {
	entry := &ClientMasterData{}
	query := `
		SELECT * FROM client_master_data
		WHERE LOWER(TRIM(name)) = LOWER(TRIM($1))
		LIMIT 1
	`
	err := r.db.GetContext(ctx, entry, query, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return entry, nil
}

func (r *sqlxMasterDataRepository) Update(ctx context.Context, entry *ClientMasterData) error {
	query := `
		UPDATE client_master_data
		SET name = $2, designation = $3, company = $4, industry = $5, address = $6,
		    phone = $7, email = $8, notes = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		entry.ID, entry.Name, entry.Designation, entry.Company, entry.Industry,
		entry.Address, entry.Phone, entry.Email, entry.Notes,
	).Scan(&entry.UpdatedAt)
}

func (r *sqlxMasterDataRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM client_master_data WHERE id = $1`, id)
	return err
}
