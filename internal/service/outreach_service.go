package service

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/maple-advisory/crm-backend/internal/importer"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

type OutreachService interface {
	CreateCampaign(ctx context.Context, campaign *repository.OutreachCampaign) (*repository.OutreachCampaign, error)
	GetCampaign(ctx context.Context, id string) (*repository.OutreachCampaign, error)
	ListCampaigns(ctx context.Context) ([]*repository.OutreachCampaign, error)
	UpdateCampaign(ctx context.Context, id string, update CampaignUpdate) (*repository.OutreachCampaign, error)
	DeleteCampaign(ctx context.Context, id string) error

	AddRecipients(ctx context.Context, campaignID string, recipients []Recipient) ([]*repository.OutreachEmail, error)
	ListRecipients(ctx context.Context, campaignID string) ([]*repository.OutreachEmail, error)

	SendCampaign(ctx context.Context, id string) (*repository.OutreachCampaign, error)
	DispatchDue(ctx context.Context) error
}

type CampaignUpdate struct {
	Name        *string
	Subject     *string
	Body        *string
	Status      *string
	ScheduledAt *time.Time
}

type Recipient struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
}

type outreachService struct {
	outreachRepo repository.OutreachRepository
	emailSvc     EmailSender
}

func NewOutreachService(outreachRepo repository.OutreachRepository, emailSvc EmailSender) OutreachService {
	return &outreachService{outreachRepo: outreachRepo, emailSvc: emailSvc}
}

func (s *outreachService) CreateCampaign(ctx context.Context, campaign *repository.OutreachCampaign) (*repository.OutreachCampaign, error) {
	if campaign.Name == "" || campaign.Subject == "" || campaign.Body == "" {
		return nil, fmt.Errorf("%w: name, subject and body are required", ErrInvalidInput)
	}
	if campaign.Status == "" {
		campaign.Status = types.CampaignDraft
	}
	if campaign.ScheduledAt != nil {
		campaign.Status = types.CampaignScheduled
	}
	if err := s.outreachRepo.CreateCampaign(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *outreachService) GetCampaign(ctx context.Context, id string) (*repository.OutreachCampaign, error) {
	campaign, err := s.outreachRepo.FindCampaignByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign == nil {
		return nil, ErrNotFound
	}
	return campaign, nil
}

func (s *outreachService) ListCampaigns(ctx context.Context) ([]*repository.OutreachCampaign, error) {
	return s.outreachRepo.FindAllCampaigns(ctx)
}

func (s *outreachService) UpdateCampaign(ctx context.Context, id string, update CampaignUpdate) (*repository.OutreachCampaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status == types.CampaignSent || campaign.Status == types.CampaignSending {
		return nil, fmt.Errorf("%w: campaign has already been sent", ErrInvalidInput)
	}

	applyString(&campaign.Name, update.Name)
	applyString(&campaign.Subject, update.Subject)
	applyString(&campaign.Body, update.Body)
	if update.ScheduledAt != nil {
		campaign.ScheduledAt = update.ScheduledAt
		campaign.Status = types.CampaignScheduled
	}
	if update.Status != nil {
		if *update.Status != types.CampaignDraft && *update.Status != types.CampaignScheduled {
			return nil, fmt.Errorf("%w: status can only be set to draft or scheduled", ErrInvalidInput)
		}
		campaign.Status = *update.Status
	}

	if err := s.outreachRepo.UpdateCampaign(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

func (s *outreachService) DeleteCampaign(ctx context.Context, id string) error {
	if _, err := s.GetCampaign(ctx, id); err != nil {
		return err
	}
	if err := s.outreachRepo.DeleteEmailsByCampaign(ctx, id); err != nil {
		return fmt.Errorf("failed to delete campaign emails: %w", err)
	}
	return s.outreachRepo.DeleteCampaign(ctx, id)
}

func (s *outreachService) AddRecipients(ctx context.Context, campaignID string, recipients []Recipient) ([]*repository.OutreachEmail, error) {
	campaign, err := s.GetCampaign(ctx, campaignID)
	if err != nil {
		return nil, err
	}
	if campaign.Status == types.CampaignSent || campaign.Status == types.CampaignSending {
		return nil, fmt.Errorf("%w: campaign has already been sent", ErrInvalidInput)
	}

	var added []*repository.OutreachEmail
	for _, recipient := range recipients {
		address := strings.TrimSpace(recipient.Email)
		if !importer.ValidEmail(address) {
			continue
		}
		email := &repository.OutreachEmail{
			CampaignID:     campaignID,
			RecipientName:  recipient.Name,
			RecipientEmail: address,
			Status:         types.EmailPending,
		}
		if err := s.outreachRepo.AddEmail(ctx, email); err != nil {
			return nil, err
		}
		added = append(added, email)
	}
	if len(added) == 0 {
		return nil, fmt.Errorf("%w: no valid recipient addresses", ErrInvalidInput)
	}
	return added, nil
}

func (s *outreachService) ListRecipients(ctx context.Context, campaignID string) ([]*repository.OutreachEmail, error) {
	if _, err := s.GetCampaign(ctx, campaignID); err != nil {
		return nil, err
	}
	return s.outreachRepo.FindEmailsByCampaign(ctx, campaignID)
}

// SendCampaign sends a campaign immediately, regardless of its schedule.
func (s *outreachService) SendCampaign(ctx context.Context, id string) (*repository.OutreachCampaign, error) {
	campaign, err := s.GetCampaign(ctx, id)
	if err != nil {
		return nil, err
	}
	if campaign.Status == types.CampaignSent || campaign.Status == types.CampaignSending {
		return nil, fmt.Errorf("%w: campaign has already been sent", ErrInvalidInput)
	}
	if err := s.dispatch(ctx, campaign); err != nil {
		return nil, err
	}
	return campaign, nil
}

// DispatchDue sends every scheduled campaign whose send time has passed. It is
// the cron entry point; per-recipient failures are recorded, not fatal.
func (s *outreachService) DispatchDue(ctx context.Context) error {
	due, err := s.outreachRepo.FindDueCampaigns(ctx)
	if err != nil {
		return err
	}
	for _, campaign := range due {
		if err := s.dispatch(ctx, campaign); err != nil {
			log.Printf("[Outreach] failed to dispatch campaign %s: %v", campaign.ID, err)
		}
	}
	return nil
}

func (s *outreachService) dispatch(ctx context.Context, campaign *repository.OutreachCampaign) error {
	emails, err := s.outreachRepo.FindEmailsByCampaign(ctx, campaign.ID)
	if err != nil {
		return err
	}

	campaign.Status = types.CampaignSending
	if err := s.outreachRepo.UpdateCampaign(ctx, campaign); err != nil {
		return err
	}

	var failed int
	for _, email := range emails {
		if email.Status == types.EmailSent {
			continue
		}
		if err := s.emailSvc.Send([]string{email.RecipientEmail}, campaign.Subject, campaign.Body); err != nil {
			failed++
			msg := err.Error()
			if updateErr := s.outreachRepo.UpdateEmailStatus(ctx, email.ID, types.EmailFailed, &msg); updateErr != nil {
				log.Printf("[Outreach] failed to record send error for %s: %v", email.ID, updateErr)
			}
			continue
		}
		if err := s.outreachRepo.UpdateEmailStatus(ctx, email.ID, types.EmailSent, nil); err != nil {
			log.Printf("[Outreach] failed to mark %s sent: %v", email.ID, err)
		}
	}

	now := time.Now()
	campaign.SentAt = &now
	if failed == len(emails) && len(emails) > 0 {
		campaign.Status = types.CampaignFailed
	} else {
		campaign.Status = types.CampaignSent
	}
	return s.outreachRepo.UpdateCampaign(ctx, campaign)
}
