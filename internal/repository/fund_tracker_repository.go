package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type FundTracker struct {
	ID             string           `db:"id"`
	FundName       string           `db:"fund_name"`
	Website        string           `db:"website"`
	FundType       string           `db:"fund_type"`
	Stages         pq.StringArray   `db:"stages"`
	Source         string           `db:"source"`
	TicketSize     *decimal.Decimal `db:"ticket_size"`
	ContactPerson1 string           `db:"contact_person1"`
	Designation1   string           `db:"designation1"`
	Email1         string           `db:"email1"`
	Phone1         string           `db:"phone1"`
	ContactPerson2 string           `db:"contact_person2"`
	Designation2   string           `db:"designation2"`
	Email2         string           `db:"email2"`
	Phone2         string           `db:"phone2"`
	Notes          string           `db:"notes"`
	CreatedAt      time.Time        `db:"created_at"`
	UpdatedAt      time.Time        `db:"updated_at"`
}

type FundTrackerRepository interface {
	Create(ctx context.Context, fund *FundTracker) error
	BulkCreate(ctx context.Context, funds []*FundTracker) (int, error)
	FindByID(ctx context.Context, id string) (*FundTracker, error)
	FindAll(ctx context.Context) ([]*FundTracker, error)
	FindByName(ctx context.Context, name string) (*FundTracker, error)
	Update(ctx context.Context, fund *FundTracker) error
	Delete(ctx context.Context, id string) error
}

type sqlxFundTrackerRepository struct {
	db *sqlx.DB
}

func NewFundTrackerRepository(db *sqlx.DB) FundTrackerRepository {
	return &sqlxFundTrackerRepository{db: db}
}

const fundInsert = `
	INSERT INTO fund_trackers (
		fund_name, website, fund_type, stages, source, ticket_size,
		contact_person1, designation1, email1, phone1,
		contact_person2, designation2, email2, phone2, notes
	)
	VALUES (
		:fund_name, :website, :fund_type, :stages, :source, :ticket_size,
		:contact_person1, :designation1, :email1, :phone1,
		:contact_person2, :designation2, :email2, :phone2, :notes
	)`

func (r *sqlxFundTrackerRepository) Create(ctx context.Context, fund *FundTracker) error {
	query := `
		INSERT INTO fund_trackers (
			fund_name, website, fund_type, stages, source, ticket_size,
			contact_person1, designation1, email1, phone1,
			contact_person2, designation2, email2, phone2, notes
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id, created_at, updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		fund.FundName, fund.Website, fund.FundType, fund.Stages, fund.Source,
		fund.TicketSize, fund.ContactPerson1, fund.Designation1, fund.Email1,
		fund.Phone1, fund.ContactPerson2, fund.Designation2, fund.Email2,
		fund.Phone2, fund.Notes,
	).Scan(&fund.ID, &fund.CreatedAt, &fund.UpdatedAt)
}

// BulkCreate inserts every row in one statement. It is deliberately not
// transactional with the caller's validation pass; partial batches are the
// import pipeline's reported outcome, not a rollback case.
func (r *sqlxFundTrackerRepository) BulkCreate(ctx context.Context, funds []*FundTracker) (int, error) {
	if len(funds) == 0 {
		return 0, nil
	}
	result, err := r.db.NamedExecContext(ctx, fundInsert, funds)
	if err != nil {
		return 0, err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return len(funds), nil
	}
	return int(affected), nil
}

func (r *sqlxFundTrackerRepository) FindByID(ctx context.Context, id string) (*FundTracker, error) {
	fund := &FundTracker{}
	err := r.db.GetContext(ctx, fund, `SELECT * FROM fund_trackers WHERE id = $1`, id)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fund, nil
}

func (r *sqlxFundTrackerRepository) FindAll(ctx context.Context) ([]*FundTracker, error) {
	var funds []*FundTracker
	err := r.db.SelectContext(ctx, &funds, `SELECT * FROM fund_trackers ORDER BY updated_at DESC`)
	return funds, err
}

// FindByName matches case-insensitively on the trimmed fund name. This backs
// the advisory duplicate check; there is no unique constraint on purpose.
func (r *sqlxFundTrackerRepository) FindByName(ctx context.Context, name string) (*FundTracker, error) {
	fund := &FundTracker{}
	query := `
		SELECT * FROM fund_trackers
		WHERE LOWER(TRIM(fund_name)) = LOWER(TRIM($1))
		LIMIT 1
	`
	err := r.db.GetContext(ctx, fund, query, name)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return fund, nil
}

func (r *sqlxFundTrackerRepository) Update(ctx context.Context, fund *FundTracker) error {
	query := `
		UPDATE fund_trackers
		SET fund_name = $2, website = $3, fund_type = $4, stages = $5, source = $6,
		    ticket_size = $7, contact_person1 = $8, designation1 = $9, email1 = $10,
		    phone1 = $11, contact_person2 = $12, designation2 = $13, email2 = $14,
		    phone2 = $15, notes = $16, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.db.QueryRowxContext(ctx, query,
		fund.ID, fund.FundName, fund.Website, fund.FundType, fund.Stages, fund.Source,
		fund.TicketSize, fund.ContactPerson1, fund.Designation1, fund.Email1,
		fund.Phone1, fund.ContactPerson2, fund.Designation2, fund.Email2,
		fund.Phone2, fund.Notes,
	).Scan(&fund.UpdatedAt)
}

func (r *sqlxFundTrackerRepository) Delete(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM fund_trackers WHERE id = $1`, id)
	return err
}
