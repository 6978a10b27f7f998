package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/maple-advisory/crm-backend/internal/types"
)

type Lead struct {
	ID                    string
	CompanyName           string
	Sector                string
	CustomSector          *string
	TransactionType       string
	CustomTransactionType *string
	ClientPOC             string
	PhoneNumber           string
	EmailID               string
	SourceType            string
	InboundSource         *string
	CustomInboundSource   *string
	OutboundSource        *string
	AcceptanceStage       string
	Status                string
	DealSize              *decimal.Decimal
	LastContacted         *time.Time
	Notes                 *string
	OwnerID               string
	LeadAssignment        *string
	CoLeadAssignment      *string
	IsConverted           bool
	ConvertedClientID     *string
	CreatedAt             time.Time
	UpdatedAt             time.Time
}

// visibility.Record implementation

func (l *Lead) RecordID() string      { return l.ID }
func (l *Lead) RecordOwnerID() string { return l.OwnerID }

func (l *Lead) AssignedNames() (string, string) {
	var lead, coLead string
	if l.LeadAssignment != nil {
		lead = *l.LeadAssignment
	}
	if l.CoLeadAssignment != nil {
		coLead = *l.CoLeadAssignment
	}
	return lead, coLead
}

func (l *Lead) Terminal() bool          { return l.AcceptanceStage == types.AcceptanceRejected }
func (l *Lead) LastUpdated() time.Time  { return l.UpdatedAt }

type LeadStats struct {
	Total       int
	Converted   int
	ThisMonth   int
	ByStatus    map[string]int
}

type LeadRepository interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, id string) (*Lead, error)
	FindAllActive(ctx context.Context) ([]*Lead, error)
	FindByConvertedClientID(ctx context.Context, clientID string) ([]*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, id string) error
	MarkConverted(ctx context.Context, leadID, clientID string) error
	ClearConvertedClient(ctx context.Context, clientID string) error
	StatsByOwner(ctx context.Context, ownerID string) (*LeadStats, error)
}

type pgLeadRepository struct {
	pool *pgxpool.Pool
}

func NewLeadRepository(pool *pgxpool.Pool) LeadRepository {
	return &pgLeadRepository{pool: pool}
}

const leadColumns = `
	id, company_name, sector, custom_sector, transaction_type, custom_transaction_type,
	client_poc, phone_number, email_id, source_type, inbound_source, custom_inbound_source,
	outbound_source, acceptance_stage, status, deal_size, last_contacted, notes, owner_id,
	lead_assignment, co_lead_assignment, is_converted, converted_client_id,
	created_at, updated_at`

func scanLead(row pgx.Row) (*Lead, error) {
	lead := &Lead{}
	err := row.Scan(
		&lead.ID, &lead.CompanyName, &lead.Sector, &lead.CustomSector,
		&lead.TransactionType, &lead.CustomTransactionType, &lead.ClientPOC,
		&lead.PhoneNumber, &lead.EmailID, &lead.SourceType, &lead.InboundSource,
		&lead.CustomInboundSource, &lead.OutboundSource, &lead.AcceptanceStage,
		&lead.Status, &lead.DealSize, &lead.LastContacted, &lead.Notes, &lead.OwnerID,
		&lead.LeadAssignment, &lead.CoLeadAssignment, &lead.IsConverted,
		&lead.ConvertedClientID, &lead.CreatedAt, &lead.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return lead, nil
}

func (r *pgLeadRepository) Create(ctx context.Context, lead *Lead) error {
	query := `
		INSERT INTO leads (
			company_name, sector, custom_sector, transaction_type, custom_transaction_type,
			client_poc, phone_number, email_id, source_type, inbound_source,
			custom_inbound_source, outbound_source, acceptance_stage, status, deal_size,
			last_contacted, notes, owner_id, lead_assignment, co_lead_assignment
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $19, $20)
		RETURNING id, is_converted, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		lead.CompanyName, lead.Sector, lead.CustomSector, lead.TransactionType,
		lead.CustomTransactionType, lead.ClientPOC, lead.PhoneNumber, lead.EmailID,
		lead.SourceType, lead.InboundSource, lead.CustomInboundSource, lead.OutboundSource,
		lead.AcceptanceStage, lead.Status, lead.DealSize, lead.LastContacted, lead.Notes,
		lead.OwnerID, lead.LeadAssignment, lead.CoLeadAssignment,
	).Scan(&lead.ID, &lead.IsConverted, &lead.CreatedAt, &lead.UpdatedAt)
}

func (r *pgLeadRepository) FindByID(ctx context.Context, id string) (*Lead, error) {
	query := `SELECT` + leadColumns + ` FROM leads WHERE id = $1`
	return scanLead(r.pool.QueryRow(ctx, query, id))
}

// FindAllActive excludes rejected leads and orders by most recently updated.
func (r *pgLeadRepository) FindAllActive(ctx context.Context) ([]*Lead, error) {
	query := `SELECT` + leadColumns + `
		FROM leads
		WHERE acceptance_stage <> $1
		ORDER BY updated_at DESC`
	return r.queryLeads(ctx, query, types.AcceptanceRejected)
}

func (r *pgLeadRepository) FindByConvertedClientID(ctx context.Context, clientID string) ([]*Lead, error) {
	query := `SELECT` + leadColumns + ` FROM leads WHERE converted_client_id = $1`
	return r.queryLeads(ctx, query, clientID)
}

func (r *pgLeadRepository) queryLeads(ctx context.Context, query string, args ...interface{}) ([]*Lead, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var leads []*Lead
	for rows.Next() {
		lead := &Lead{}
		if err := rows.Scan(
			&lead.ID, &lead.CompanyName, &lead.Sector, &lead.CustomSector,
			&lead.TransactionType, &lead.CustomTransactionType, &lead.ClientPOC,
			&lead.PhoneNumber, &lead.EmailID, &lead.SourceType, &lead.InboundSource,
			&lead.CustomInboundSource, &lead.OutboundSource, &lead.AcceptanceStage,
			&lead.Status, &lead.DealSize, &lead.LastContacted, &lead.Notes, &lead.OwnerID,
			&lead.LeadAssignment, &lead.CoLeadAssignment, &lead.IsConverted,
			&lead.ConvertedClientID, &lead.CreatedAt, &lead.UpdatedAt,
		); err != nil {
			return nil, err
		}
		leads = append(leads, lead)
	}
	return leads, rows.Err()
}

func (r *pgLeadRepository) Update(ctx context.Context, lead *Lead) error {
	query := `
		UPDATE leads
		SET company_name = $2, sector = $3, custom_sector = $4, transaction_type = $5,
		    custom_transaction_type = $6, client_poc = $7, phone_number = $8, email_id = $9,
		    source_type = $10, inbound_source = $11, custom_inbound_source = $12,
		    outbound_source = $13, acceptance_stage = $14, status = $15, deal_size = $16,
		    last_contacted = $17, notes = $18, lead_assignment = $19, co_lead_assignment = $20,
		    updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		lead.ID, lead.CompanyName, lead.Sector, lead.CustomSector, lead.TransactionType,
		lead.CustomTransactionType, lead.ClientPOC, lead.PhoneNumber, lead.EmailID,
		lead.SourceType, lead.InboundSource, lead.CustomInboundSource, lead.OutboundSource,
		lead.AcceptanceStage, lead.Status, lead.DealSize, lead.LastContacted, lead.Notes,
		lead.LeadAssignment, lead.CoLeadAssignment,
	).Scan(&lead.UpdatedAt)
}

func (r *pgLeadRepository) Delete(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM leads WHERE id = $1`, id)
	return err
}

func (r *pgLeadRepository) MarkConverted(ctx context.Context, leadID, clientID string) error {
	query := `
		UPDATE leads
		SET is_converted = TRUE, converted_client_id = $2, updated_at = NOW()
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, leadID, clientID)
	return err
}

// ClearConvertedClient detaches every lead that points at the given client.
func (r *pgLeadRepository) ClearConvertedClient(ctx context.Context, clientID string) error {
	query := `
		UPDATE leads
		SET converted_client_id = NULL, updated_at = NOW()
		WHERE converted_client_id = $1
	`
	_, err := r.pool.Exec(ctx, query, clientID)
	return err
}

func (r *pgLeadRepository) StatsByOwner(ctx context.Context, ownerID string) (*LeadStats, error) {
	stats := &LeadStats{ByStatus: make(map[string]int)}

	query := `
		SELECT COUNT(*),
		       COUNT(*) FILTER (WHERE is_converted),
		       COUNT(*) FILTER (WHERE created_at >= date_trunc('month', NOW()))
		FROM leads WHERE owner_id = $1
	`
	if err := r.pool.QueryRow(ctx, query, ownerID).
		Scan(&stats.Total, &stats.Converted, &stats.ThisMonth); err != nil {
		return nil, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT status, COUNT(*) FROM leads WHERE owner_id = $1 GROUP BY status`, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var status string
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, err
		}
		stats.ByStatus[status] = count
	}
	return stats, rows.Err()
}
