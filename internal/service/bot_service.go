package service

import (
	"context"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"github.com/maple-advisory/crm-backend/internal/repository"
)

// BotLeadInput is the lead shape the chat bot collects step by step.
type BotLeadInput struct {
	CompanyName string
	Sector      string
	ClientPOC   string
	PhoneNumber string
	EmailID     string
	SourceType  string
	Notes       string
}

// BotService backs the chat-bot endpoints. Every call is keyed by the chat
// platform and the platform-side user id; resolution to a CRM user goes
// through the account mapping.
type BotService interface {
	LinkAccount(ctx context.Context, platform, platformUserID, email, password string) (*repository.BotUserMapping, *repository.User, error)
	UnlinkAccount(ctx context.Context, platform, platformUserID string) error
	ResolveUser(ctx context.Context, platform, platformUserID string) (*repository.User, error)
	CreateLead(ctx context.Context, platform, platformUserID string, input BotLeadInput) (*repository.Lead, error)
	ConvertLead(ctx context.Context, platform, platformUserID, leadID string) (*repository.Lead, *repository.Client, error)
	MyLeads(ctx context.Context, platform, platformUserID string) ([]*repository.Lead, error)
	MyStats(ctx context.Context, platform, platformUserID string) (*repository.LeadStats, error)
}

type botService struct {
	mappingRepo repository.BotMappingRepository
	userRepo    repository.UserRepository
	leadRepo    repository.LeadRepository
	leadSvc     LeadService
}

func NewBotService(
	mappingRepo repository.BotMappingRepository,
	userRepo repository.UserRepository,
	leadRepo repository.LeadRepository,
	leadSvc LeadService,
) BotService {
	return &botService{
		mappingRepo: mappingRepo,
		userRepo:    userRepo,
		leadRepo:    leadRepo,
		leadSvc:     leadSvc,
	}
}

// LinkAccount verifies CRM credentials and binds the chat account to that
// user. Linking again replaces the previous binding.
func (s *botService) LinkAccount(ctx context.Context, platform, platformUserID, email, password string) (*repository.BotUserMapping, *repository.User, error) {
	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, nil, ErrInvalidCredentials
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, nil, ErrInvalidCredentials
	}

	mapping := &repository.BotUserMapping{
		Platform:       platform,
		PlatformUserID: platformUserID,
		CRMUserID:      user.ID,
	}
	if err := s.mappingRepo.Upsert(ctx, mapping); err != nil {
		return nil, nil, err
	}
	return mapping, user, nil
}

func (s *botService) UnlinkAccount(ctx context.Context, platform, platformUserID string) error {
	mapping, err := s.mappingRepo.FindByPlatformUser(ctx, platform, platformUserID)
	if err != nil {
		return err
	}
	if mapping == nil || !mapping.IsActive {
		return ErrNotLinked
	}
	return s.mappingRepo.Deactivate(ctx, platform, platformUserID)
}

func (s *botService) ResolveUser(ctx context.Context, platform, platformUserID string) (*repository.User, error) {
	mapping, err := s.mappingRepo.FindByPlatformUser(ctx, platform, platformUserID)
	if err != nil {
		return nil, err
	}
	if mapping == nil || !mapping.IsActive {
		return nil, ErrNotLinked
	}
	user, err := s.userRepo.FindByID(ctx, mapping.CRMUserID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotLinked
	}
	return user, nil
}

// CreateLead records a lead on behalf of the linked CRM user. Validation and
// defaulting are the same as the web form's.
func (s *botService) CreateLead(ctx context.Context, platform, platformUserID string, input BotLeadInput) (*repository.Lead, error) {
	user, err := s.ResolveUser(ctx, platform, platformUserID)
	if err != nil {
		return nil, err
	}
	if input.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}

	lead := &repository.Lead{
		CompanyName: input.CompanyName,
		Sector:      input.Sector,
		ClientPOC:   input.ClientPOC,
		PhoneNumber: input.PhoneNumber,
		EmailID:     input.EmailID,
		SourceType:  input.SourceType,
		OwnerID:     user.ID,
	}
	if input.Notes != "" {
		lead.Notes = &input.Notes
	}

	created, _, err := s.leadSvc.Create(ctx, lead, false)
	return created, err
}

func (s *botService) ConvertLead(ctx context.Context, platform, platformUserID, leadID string) (*repository.Lead, *repository.Client, error) {
	if _, err := s.ResolveUser(ctx, platform, platformUserID); err != nil {
		return nil, nil, err
	}
	return s.leadSvc.ConvertToClient(ctx, leadID)
}

func (s *botService) MyLeads(ctx context.Context, platform, platformUserID string) ([]*repository.Lead, error) {
	user, err := s.ResolveUser(ctx, platform, platformUserID)
	if err != nil {
		return nil, err
	}
	return s.leadSvc.ListVisible(ctx, user.ID, user.Role)
}

func (s *botService) MyStats(ctx context.Context, platform, platformUserID string) (*repository.LeadStats, error) {
	user, err := s.ResolveUser(ctx, platform, platformUserID)
	if err != nil {
		return nil, err
	}
	return s.leadRepo.StatsByOwner(ctx, user.ID)
}
