package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/maple-advisory/crm-backend/internal/types"
)

type Client struct {
	ID                    string
	CompanyName           string
	Sector                string
	CustomSector          *string
	TransactionType       string
	CustomTransactionType *string
	ClientPOC             string
	PhoneNumber           string
	EmailID               string
	Status                string
	DealSize              *decimal.Decimal
	LastContacted         *time.Time
	Notes                 *string
	ConvertedFromLeadID   *string
	OwnerID               string
	LeadAssignment        *string
	CoLeadAssignment      *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// visibility.Record implementation

func (c *Client) RecordID() string      { return c.ID }
func (c *Client) RecordOwnerID() string { return c.OwnerID }

func (c *Client) AssignedNames() (string, string) {
	var lead, coLead string
	if c.LeadAssignment != nil {
		lead = *c.LeadAssignment
	}
	if c.CoLeadAssignment != nil {
		coLead = *c.CoLeadAssignment
	}
	return lead, coLead
}

func (c *Client) Terminal() bool {
	return types.IsValid(c.Status, types.TerminalClientStatuses)
}

func (c *Client) LastUpdated() time.Time { return c.UpdatedAt }

type ClientRepository interface {
	Create(ctx context.Context, client *Client) error
	FindByID(ctx context.Context, id string) (*Client, error)
	FindAllActive(ctx context.Context) ([]*Client, error)
	Update(ctx context.Context, client *Client) error
	Delete(ctx context.Context, id string) error
}

type pgClientRepository struct {
	pool *pgxpool.Pool
}

func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &pgClientRepository{pool: pool}
}

const clientColumns = `
	id, company_name, sector, custom_sector, transaction_type, custom_transaction_type,
	client_poc, phone_number, email_id, status, deal_size, last_contacted, notes,
	converted_from_lead_id, owner_id, lead_assignment, co_lead_assignment,
	created_at, updated_at`

func scanClient(row pgx.Row) (*Client, error) {
	client := &Client{}
	err := row.Scan(
		&client.ID, &client.CompanyName, &client.Sector, &client.CustomSector,
		&client.TransactionType, &client.CustomTransactionType, &client.ClientPOC,
		&client.PhoneNumber, &client.EmailID, &client.Status, &client.DealSize,
		&client.LastContacted, &client.Notes, &client.ConvertedFromLeadID,
		&client.OwnerID, &client.LeadAssignment, &client.CoLeadAssignment,
		&client.CreatedAt, &client.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return client, nil
}

func (r *pgClientRepository) Create(ctx context.Context, client *Client) error {
	query := `
		INSERT INTO clients (
			company_name, sector, custom_sector, transaction_type, custom_transaction_type,
			client_poc, phone_number, email_id, status, deal_size, last_contacted, notes,
			converted_from_lead_id, owner_id, lead_assignment, co_lead_assignment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		client.CompanyName, client.Sector, client.CustomSector, client.TransactionType,
		client.CustomTransactionType, client.ClientPOC, client.PhoneNumber, client.EmailID,
		client.Status, client.DealSize, client.LastContacted, client.Notes,
		client.ConvertedFromLeadID, client.OwnerID, client.LeadAssignment,
		client.CoLeadAssignment,
	).Scan(&client.ID, &client.CreatedAt, &client.UpdatedAt)
}

func (r *pgClientRepository) FindByID(ctx context.Context, id string) (*Client, error) {
	query := `SELECT` + clientColumns + ` FROM clients WHERE id = $1`
	return scanClient(r.pool.QueryRow(ctx, query, id))
}

// FindAllActive excludes closed and dropped clients and orders by most
// recently updated.
func (r *pgClientRepository) FindAllActive(ctx context.Context) ([]*Client, error) {
	query := `SELECT` + clientColumns + `
		FROM clients
		WHERE status <> $1 AND status <> $2
		ORDER BY updated_at DESC`
	rows, err := r.pool.Query(ctx, query, types.ClientStatusClosed, types.ClientStatusDropped)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var clients []*Client
	for rows.Next() {
		client := &Client{}
		if err := rows.Scan(
			&client.ID, &client.CompanyName, &client.Sector, &client.CustomSector,
			&client.TransactionType, &client.CustomTransactionType, &client.ClientPOC,
			&client.PhoneNumber, &client.EmailID, &client.Status, &client.DealSize,
			&client.LastContacted, &client.Notes, &client.ConvertedFromLeadID,
			&client.OwnerID, &client.LeadAssignment, &client.CoLeadAssignment,
			&client.CreatedAt, &client.UpdatedAt,
		); err != nil {
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, rows.Err()
}

func (r *pgClientRepository) Update(ctx context.Context, client *Client) error {
	query := `
		UPDATE clients
		SET company_name = $2, sector = $3, custom_sector = $4, transaction_type = $5,
		    custom_transaction_type = $6, client_poc = $7, phone_number = $8, email_id = $9,
		    status = $10, deal_size = $11, last_contacted = $12, notes = $13,
		    lead_assignment = $14, co_lead_assignment = $15, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		client.ID, client.CompanyName, client.Sector, client.CustomSector,
		client.TransactionType, client.CustomTransactionType, client.ClientPOC,
		client.PhoneNumber, client.EmailID, client.Status, client.DealSize,
		client.LastContacted, client.Notes, client.LeadAssignment, client.CoLeadAssignment,
	).Scan(&client.UpdatedAt)
}

func (r *pgClientRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	return err
}
