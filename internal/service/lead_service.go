package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
	"github.com/maple-advisory/crm-backend/internal/visibility"
)

type LeadService interface {
	Create(ctx context.Context, lead *repository.Lead, convertImmediately bool) (*repository.Lead, *repository.Client, error)
	GetByID(ctx context.Context, id string) (*repository.Lead, error)
	ListVisible(ctx context.Context, userID, userRole string) ([]*repository.Lead, error)
	Update(ctx context.Context, id string, update LeadUpdate) (*repository.Lead, error)
	Delete(ctx context.Context, id string) error
	ConvertToClient(ctx context.Context, leadID string) (*repository.Lead, *repository.Client, error)
	StatsByOwner(ctx context.Context, ownerID string) (*repository.LeadStats, error)
}

// LeadUpdate carries the PATCH semantics: nil fields are left untouched.
type LeadUpdate struct {
	CompanyName           *string
	Sector                *string
	CustomSector          *string
	TransactionType       *string
	CustomTransactionType *string
	ClientPOC             *string
	PhoneNumber           *string
	EmailID               *string
	SourceType            *string
	InboundSource         *string
	CustomInboundSource   *string
	OutboundSource        *string
	AcceptanceStage       *string
	Status                *string
	DealSize              *decimal.Decimal
	LastContacted         *time.Time
	Notes                 *string
	LeadAssignment        *string
	CoLeadAssignment      *string
}

// statsCacheTTL bounds how stale the dashboard lead stats can get; every lead
// write invalidates the owner's entry anyway.
const statsCacheTTL = 5 * time.Minute

type leadService struct {
	leadRepo    repository.LeadRepository
	clientRepo  repository.ClientRepository
	userRepo    repository.UserRepository
	roster      []string
	notifSvc    *notification.Service
	cache       StatsCache
	broadcaster Broadcaster
}

func NewLeadService(
	leadRepo repository.LeadRepository,
	clientRepo repository.ClientRepository,
	userRepo repository.UserRepository,
	roster []string,
	notifSvc *notification.Service,
	cache StatsCache,
	broadcaster Broadcaster,
) LeadService {
	return &leadService{
		leadRepo:    leadRepo,
		clientRepo:  clientRepo,
		userRepo:    userRepo,
		roster:      roster,
		notifSvc:    notifSvc,
		cache:       cache,
		broadcaster: broadcaster,
	}
}

func (s *leadService) Create(ctx context.Context, lead *repository.Lead, convertImmediately bool) (*repository.Lead, *repository.Client, error) {
	if lead.CompanyName == "" {
		return nil, nil, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	if lead.SourceType == "" {
		lead.SourceType = types.SourceInbound
	}
	if !types.IsValid(lead.SourceType, types.ValidSourceTypes) {
		return nil, nil, fmt.Errorf("%w: unknown source type %q", ErrInvalidInput, lead.SourceType)
	}
	if lead.AcceptanceStage == "" {
		lead.AcceptanceStage = types.AcceptanceUndecided
	}
	if lead.Status == "" {
		lead.Status = types.LeadStatusInitialDiscussion
	}
	if !types.IsValid(lead.Status, types.ValidLeadStatuses) {
		return nil, nil, fmt.Errorf("%w: unknown lead status %q", ErrInvalidInput, lead.Status)
	}

	if err := s.leadRepo.Create(ctx, lead); err != nil {
		return nil, nil, err
	}
	s.invalidateStats(ctx, lead.OwnerID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadCreated(leadEvent(lead))
	}

	if !convertImmediately {
		return lead, nil, nil
	}
	return s.ConvertToClient(ctx, lead.ID)
}

func (s *leadService) GetByID(ctx context.Context, id string) (*repository.Lead, error) {
	lead, err := s.leadRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if lead == nil {
		return nil, ErrNotFound
	}
	return lead, nil
}

// ListVisible applies the ownership/assignment rule: admins see every
// non-rejected lead; other users see what they own plus what is assigned to
// their roster name.
func (s *leadService) ListVisible(ctx context.Context, userID, userRole string) ([]*repository.Lead, error) {
	leads, err := s.leadRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	if userRole == types.RoleAdmin {
		return leads, nil
	}

	var firstName string
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil && user != nil {
		firstName = user.FirstName
	}
	return visibility.Resolve(leads, userID, firstName, s.roster, userRole), nil
}

func (s *leadService) Update(ctx context.Context, id string, update LeadUpdate) (*repository.Lead, error) {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	previousAssignment := lead.LeadAssignment

	applyString(&lead.CompanyName, update.CompanyName)
	applyString(&lead.Sector, update.Sector)
	applyOptional(&lead.CustomSector, update.CustomSector)
	applyString(&lead.TransactionType, update.TransactionType)
	applyOptional(&lead.CustomTransactionType, update.CustomTransactionType)
	applyString(&lead.ClientPOC, update.ClientPOC)
	applyString(&lead.PhoneNumber, update.PhoneNumber)
	applyString(&lead.EmailID, update.EmailID)
	applyString(&lead.SourceType, update.SourceType)
	applyOptional(&lead.InboundSource, update.InboundSource)
	applyOptional(&lead.CustomInboundSource, update.CustomInboundSource)
	applyOptional(&lead.OutboundSource, update.OutboundSource)
	applyOptional(&lead.Notes, update.Notes)
	applyOptional(&lead.LeadAssignment, update.LeadAssignment)
	applyOptional(&lead.CoLeadAssignment, update.CoLeadAssignment)
	if update.DealSize != nil {
		lead.DealSize = update.DealSize
	}
	if update.LastContacted != nil {
		lead.LastContacted = update.LastContacted
	}
	if update.AcceptanceStage != nil {
		if !types.IsValid(*update.AcceptanceStage, types.ValidAcceptanceStages) {
			return nil, fmt.Errorf("%w: unknown acceptance stage %q", ErrInvalidInput, *update.AcceptanceStage)
		}
		lead.AcceptanceStage = *update.AcceptanceStage
	}
	if update.Status != nil {
		if !types.IsValid(*update.Status, types.ValidLeadStatuses) {
			return nil, fmt.Errorf("%w: unknown lead status %q", ErrInvalidInput, *update.Status)
		}
		lead.Status = *update.Status
	}

	if err := s.leadRepo.Update(ctx, lead); err != nil {
		return nil, err
	}
	s.invalidateStats(ctx, lead.OwnerID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadUpdated(leadEvent(lead))
	}

	s.notifyAssignmentChange(ctx, lead, previousAssignment)
	return lead, nil
}

// Delete removes a lead and, when it was converted, the linked client. The
// store has no cascading constraint on the conversion link so the order
// matters: detach the back-reference, delete the client, then the lead, and
// confirm each is actually gone before reporting success.
func (s *leadService) Delete(ctx context.Context, id string) error {
	lead, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if lead.ConvertedClientID != nil {
		clientID := *lead.ConvertedClientID
		if err := s.leadRepo.ClearConvertedClient(ctx, clientID); err != nil {
			return fmt.Errorf("failed to detach converted client: %w", err)
		}
		if err := s.clientRepo.Delete(ctx, clientID); err != nil {
			return fmt.Errorf("failed to delete converted client: %w", err)
		}
		if remaining, err := s.clientRepo.FindByID(ctx, clientID); err != nil {
			return err
		} else if remaining != nil {
			return ErrDeleteUnverified
		}
	}

	if err := s.leadRepo.Delete(ctx, id); err != nil {
		return err
	}
	if remaining, err := s.leadRepo.FindByID(ctx, id); err != nil {
		return err
	} else if remaining != nil {
		return ErrDeleteUnverified
	}
	s.invalidateStats(ctx, lead.OwnerID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadDeleted(id)
	}
	return nil
}

// ConvertToClient materializes a client from the lead's current field values
// and marks the lead converted. Converting an already-converted lead returns
// the existing client rather than minting a duplicate.
func (s *leadService) ConvertToClient(ctx context.Context, leadID string) (*repository.Lead, *repository.Client, error) {
	lead, err := s.GetByID(ctx, leadID)
	if err != nil {
		return nil, nil, err
	}

	if lead.IsConverted && lead.ConvertedClientID != nil {
		existing, err := s.clientRepo.FindByID(ctx, *lead.ConvertedClientID)
		if err != nil {
			return nil, nil, err
		}
		if existing != nil {
			return lead, existing, nil
		}
		// The linked client is gone; fall through and convert again.
	}

	notes := lead.Notes
	if notes == nil || *notes == "" {
		generated := fmt.Sprintf("copied on %s", time.Now().Format(time.RFC3339))
		notes = &generated
	}

	client := &repository.Client{
		CompanyName:           lead.CompanyName,
		Sector:                lead.Sector,
		CustomSector:          lead.CustomSector,
		TransactionType:       lead.TransactionType,
		CustomTransactionType: lead.CustomTransactionType,
		ClientPOC:             lead.ClientPOC,
		PhoneNumber:           lead.PhoneNumber,
		EmailID:               lead.EmailID,
		Status:                types.ClientStatusNDAShared,
		DealSize:              lead.DealSize,
		LastContacted:         lead.LastContacted,
		Notes:                 notes,
		ConvertedFromLeadID:   &lead.ID,
		OwnerID:               lead.OwnerID,
		LeadAssignment:        lead.LeadAssignment,
		CoLeadAssignment:      lead.CoLeadAssignment,
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, nil, fmt.Errorf("failed to create client: %w", err)
	}

	if err := s.leadRepo.MarkConverted(ctx, leadID, client.ID); err != nil {
		return nil, nil, fmt.Errorf("failed to mark lead converted: %w", err)
	}
	s.invalidateStats(ctx, lead.OwnerID)
	if s.broadcaster != nil {
		s.broadcaster.BroadcastLeadConverted(leadID, client.ID)
	}

	updated, err := s.leadRepo.FindByID(ctx, leadID)
	if err != nil || updated == nil {
		return lead, client, err
	}

	if s.notifSvc != nil {
		entityType := "client"
		s.notifSvc.Notify(ctx, lead.OwnerID, notification.TypeLeadConverted,
			"Lead converted",
			fmt.Sprintf("%s is now a client", lead.CompanyName),
			&entityType, &client.ID)
	}

	return updated, client, nil
}

// StatsByOwner serves the dashboard counters, through the cache when one is
// configured.
func (s *leadService) StatsByOwner(ctx context.Context, ownerID string) (*repository.LeadStats, error) {
	key := statsCacheKey(ownerID)
	if s.cache != nil {
		var cached repository.LeadStats
		if err := s.cache.GetCache(ctx, key, &cached); err == nil {
			return &cached, nil
		}
	}

	stats, err := s.leadRepo.StatsByOwner(ctx, ownerID)
	if err != nil {
		return nil, err
	}
	if s.cache != nil {
		if err := s.cache.SetCache(ctx, key, stats, statsCacheTTL); err != nil {
			log.Printf("[Lead] Failed to cache stats for owner %s: %v", ownerID, err)
		}
	}
	return stats, nil
}

func statsCacheKey(ownerID string) string {
	return "lead-stats:" + ownerID
}

func (s *leadService) invalidateStats(ctx context.Context, ownerID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateCache(ctx, statsCacheKey(ownerID)); err != nil {
		log.Printf("[Lead] Failed to invalidate stats cache for owner %s: %v", ownerID, err)
	}
}

func leadEvent(lead *repository.Lead) map[string]interface{} {
	return map[string]interface{}{
		"id":          lead.ID,
		"companyName": lead.CompanyName,
		"status":      lead.Status,
		"ownerId":     lead.OwnerID,
	}
}

func (s *leadService) notifyAssignmentChange(ctx context.Context, lead *repository.Lead, previous *string) {
	if s.notifSvc == nil || lead.LeadAssignment == nil {
		return
	}
	if previous != nil && *previous == *lead.LeadAssignment {
		return
	}
	entityType := "lead"
	s.notifSvc.Notify(ctx, lead.OwnerID, notification.TypeLeadAssigned,
		"Lead assignment changed",
		fmt.Sprintf("%s is now assigned to %s", lead.CompanyName, *lead.LeadAssignment),
		&entityType, &lead.ID)
}

func applyString(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

func applyOptional(dst **string, src *string) {
	if src != nil {
		*dst = src
	}
}
