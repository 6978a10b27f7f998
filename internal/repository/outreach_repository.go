package repository

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type OutreachCampaign struct {
	ID          string
	Name        string
	Subject     string
	Body        string
	Status      string
	ScheduledAt *time.Time
	SentAt      *time.Time
	CreatedBy   string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

type OutreachEmail struct {
	ID             string
	CampaignID     string
	RecipientName  string
	RecipientEmail string
	Status         string
	Error          *string
	SentAt         *time.Time
	CreatedAt      time.Time
}

type OutreachRepository interface {
	CreateCampaign(ctx context.Context, campaign *OutreachCampaign) error
	FindCampaignByID(ctx context.Context, id string) (*OutreachCampaign, error)
	FindAllCampaigns(ctx context.Context) ([]*OutreachCampaign, error)
	FindDueCampaigns(ctx context.Context) ([]*OutreachCampaign, error)
	UpdateCampaign(ctx context.Context, campaign *OutreachCampaign) error
	DeleteCampaign(ctx context.Context, id string) error

	AddEmail(ctx context.Context, email *OutreachEmail) error
	FindEmailsByCampaign(ctx context.Context, campaignID string) ([]*OutreachEmail, error)
	UpdateEmailStatus(ctx context.Context, emailID, status string, sendErr *string) error
	DeleteEmailsByCampaign(ctx context.Context, campaignID string) error
}

type pgOutreachRepository struct {
	pool *pgxpool.Pool
}

func NewOutreachRepository(pool *pgxpool.Pool) OutreachRepository {
	return &pgOutreachRepository{pool: pool}
}

const campaignColumns = `id, name, subject, body, status, scheduled_at, sent_at, created_by, created_at, updated_at`

func (r *pgOutreachRepository) CreateCampaign(ctx context.Context, campaign *OutreachCampaign) error {
	query := `
		INSERT INTO outreach_campaigns (name, subject, body, status, scheduled_at, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`
	return r.pool.QueryRow(ctx, query,
		campaign.Name, campaign.Subject, campaign.Body, campaign.Status,
		campaign.ScheduledAt, campaign.CreatedBy,
	).Scan(&campaign.ID, &campaign.CreatedAt, &campaign.UpdatedAt)
}

func (r *pgOutreachRepository) FindCampaignByID(ctx context.Context, id string) (*OutreachCampaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM outreach_campaigns WHERE id = $1`
	campaign := &OutreachCampaign{}
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&campaign.ID, &campaign.Name, &campaign.Subject, &campaign.Body,
		&campaign.Status, &campaign.ScheduledAt, &campaign.SentAt,
		&campaign.CreatedBy, &campaign.CreatedAt, &campaign.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return campaign, nil
}

func (r *pgOutreachRepository) FindAllCampaigns(ctx context.Context) ([]*OutreachCampaign, error) {
	query := `SELECT ` + campaignColumns + ` FROM outreach_campaigns ORDER BY created_at DESC`
	return r.queryCampaigns(ctx, query)
}

// FindDueCampaigns returns scheduled campaigns whose send time has passed.
func (r *pgOutreachRepository) FindDueCampaigns(ctx context.Context) ([]*OutreachCampaign, error) {
	query := `SELECT ` + campaignColumns + `
		FROM outreach_campaigns
		WHERE status = 'scheduled' AND scheduled_at IS NOT NULL AND scheduled_at <= NOW()
		ORDER BY scheduled_at`
	return r.queryCampaigns(ctx, query)
}

func (r *pgOutreachRepository) queryCampaigns(ctx context.Context, query string, args ...interface{}) ([]*OutreachCampaign, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var campaigns []*OutreachCampaign
	for rows.Next() {
		campaign := &OutreachCampaign{}
		if err := rows.Scan(
			&campaign.ID, &campaign.Name, &campaign.Subject, &campaign.Body,
			&campaign.Status, &campaign.ScheduledAt, &campaign.SentAt,
			&campaign.CreatedBy, &campaign.CreatedAt, &campaign.UpdatedAt,
		); err != nil {
			return nil, err
		}
		campaigns = append(campaigns, campaign)
	}
	return campaigns, rows.Err()
}

func (r *pgOutreachRepository) UpdateCampaign(ctx context.Context, campaign *OutreachCampaign) error {
	query := `
		UPDATE outreach_campaigns
		SET name = $2, subject = $3, body = $4, status = $5, scheduled_at = $6,
		    sent_at = $7, updated_at = NOW()
		WHERE id = $1
		RETURNING updated_at
	`
	return r.pool.QueryRow(ctx, query,
		campaign.ID, campaign.Name, campaign.Subject, campaign.Body,
		campaign.Status, campaign.ScheduledAt, campaign.SentAt,
	).Scan(&campaign.UpdatedAt)
}

func (r *pgOutreachRepository) DeleteCampaign(ctx context.Context, id string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM outreach_campaigns WHERE id = $1`, id)
	return err
}

func (r *pgOutreachRepository) AddEmail(ctx context.Context, email *OutreachEmail) error {
	query := `
		INSERT INTO outreach_emails (campaign_id, recipient_name, recipient_email, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at
	`
	return r.pool.QueryRow(ctx, query,
		email.CampaignID, email.RecipientName, email.RecipientEmail, email.Status,
	).Scan(&email.ID, &email.CreatedAt)
}

func (r *pgOutreachRepository) FindEmailsByCampaign(ctx context.Context, campaignID string) ([]*OutreachEmail, error) {
	query := `
		SELECT id, campaign_id, recipient_name, recipient_email, status, error, sent_at, created_at
		FROM outreach_emails
		WHERE campaign_id = $1
		ORDER BY created_at
	`
	rows, err := r.pool.Query(ctx, query, campaignID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var emails []*OutreachEmail
	for rows.Next() {
		email := &OutreachEmail{}
		if err := rows.Scan(
			&email.ID, &email.CampaignID, &email.RecipientName, &email.RecipientEmail,
			&email.Status, &email.Error, &email.SentAt, &email.CreatedAt,
		); err != nil {
			return nil, err
		}
		emails = append(emails, email)
	}
	return emails, rows.Err()
}

func (r *pgOutreachRepository) UpdateEmailStatus(ctx context.Context, emailID, status string, sendErr *string) error {
	query := `
		UPDATE outreach_emails
		SET status = $2, error = $3,
		    sent_at = CASE WHEN $2 = 'sent' THEN NOW() ELSE sent_at END
		WHERE id = $1
	`
	_, err := r.pool.Exec(ctx, query, emailID, status, sendErr)
	return err
}

func (r *pgOutreachRepository) DeleteEmailsByCampaign(ctx context.Context, campaignID string) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM outreach_emails WHERE campaign_id = $1`, campaignID)
	return err
}
