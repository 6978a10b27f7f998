package service

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
	"github.com/maple-advisory/crm-backend/internal/visibility"
)

type ClientService interface {
	Create(ctx context.Context, client *repository.Client) (*repository.Client, error)
	GetByID(ctx context.Context, id string) (*repository.Client, error)
	ListVisible(ctx context.Context, userID, userRole string) ([]*repository.Client, error)
	Update(ctx context.Context, id string, update ClientUpdate) (*repository.Client, error)
	Delete(ctx context.Context, id string) error

	AddComment(ctx context.Context, comment *repository.Comment) (*repository.Comment, error)
	ListComments(ctx context.Context, clientID string) ([]*repository.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type ClientUpdate struct {
	CompanyName           *string
	Sector                *string
	CustomSector          *string
	TransactionType       *string
	CustomTransactionType *string
	ClientPOC             *string
	PhoneNumber           *string
	EmailID               *string
	Status                *string
	DealSize              *decimal.Decimal
	LastContacted         *time.Time
	Notes                 *string
	LeadAssignment        *string
	CoLeadAssignment      *string
}

type clientService struct {
	clientRepo  repository.ClientRepository
	leadRepo    repository.LeadRepository
	commentRepo repository.CommentRepository
	userRepo    repository.UserRepository
	roster      []string
	notifSvc    *notification.Service
	broadcaster Broadcaster
}

func NewClientService(
	clientRepo repository.ClientRepository,
	leadRepo repository.LeadRepository,
	commentRepo repository.CommentRepository,
	userRepo repository.UserRepository,
	roster []string,
	notifSvc *notification.Service,
	broadcaster Broadcaster,
) ClientService {
	return &clientService{
		clientRepo:  clientRepo,
		leadRepo:    leadRepo,
		commentRepo: commentRepo,
		userRepo:    userRepo,
		roster:      roster,
		notifSvc:    notifSvc,
		broadcaster: broadcaster,
	}
}

func (s *clientService) Create(ctx context.Context, client *repository.Client) (*repository.Client, error) {
	if client.CompanyName == "" {
		return nil, fmt.Errorf("%w: company name is required", ErrInvalidInput)
	}
	if client.Status == "" {
		client.Status = types.ClientStatusNDAShared
	}
	if !types.IsValid(client.Status, types.ValidClientStatuses) {
		return nil, fmt.Errorf("%w: unknown client status %q", ErrInvalidInput, client.Status)
	}
	if err := s.clientRepo.Create(ctx, client); err != nil {
		return nil, err
	}
	return client, nil
}

func (s *clientService) GetByID(ctx context.Context, id string) (*repository.Client, error) {
	client, err := s.clientRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if client == nil {
		return nil, ErrNotFound
	}
	return client, nil
}

func (s *clientService) ListVisible(ctx context.Context, userID, userRole string) ([]*repository.Client, error) {
	clients, err := s.clientRepo.FindAllActive(ctx)
	if err != nil {
		return nil, err
	}
	if userRole == types.RoleAdmin {
		return clients, nil
	}

	var firstName string
	if user, err := s.userRepo.FindByID(ctx, userID); err == nil && user != nil {
		firstName = user.FirstName
	}
	return visibility.Resolve(clients, userID, firstName, s.roster, userRole), nil
}

func (s *clientService) Update(ctx context.Context, id string, update ClientUpdate) (*repository.Client, error) {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyString(&client.CompanyName, update.CompanyName)
	applyString(&client.Sector, update.Sector)
	applyOptional(&client.CustomSector, update.CustomSector)
	applyString(&client.TransactionType, update.TransactionType)
	applyOptional(&client.CustomTransactionType, update.CustomTransactionType)
	applyString(&client.ClientPOC, update.ClientPOC)
	applyString(&client.PhoneNumber, update.PhoneNumber)
	applyString(&client.EmailID, update.EmailID)
	applyOptional(&client.Notes, update.Notes)
	applyOptional(&client.LeadAssignment, update.LeadAssignment)
	applyOptional(&client.CoLeadAssignment, update.CoLeadAssignment)
	if update.DealSize != nil {
		client.DealSize = update.DealSize
	}
	if update.LastContacted != nil {
		client.LastContacted = update.LastContacted
	}
	if update.Status != nil {
		if !types.IsValid(*update.Status, types.ValidClientStatuses) {
			return nil, fmt.Errorf("%w: unknown client status %q", ErrInvalidInput, *update.Status)
		}
		client.Status = *update.Status
	}

	if err := s.clientRepo.Update(ctx, client); err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastClientUpdated(map[string]interface{}{
			"id":          client.ID,
			"companyName": client.CompanyName,
			"status":      client.Status,
			"ownerId":     client.OwnerID,
		})
	}
	return client, nil
}

// Delete removes a client after detaching any lead whose conversion link
// points at it, then verifies the row is gone.
func (s *clientService) Delete(ctx context.Context, id string) error {
	client, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}

	if err := s.leadRepo.ClearConvertedClient(ctx, client.ID); err != nil {
		return fmt.Errorf("failed to detach leads: %w", err)
	}
	if err := s.commentRepo.DeleteByEntity(ctx, client.ID); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := s.clientRepo.Delete(ctx, id); err != nil {
		return err
	}
	if remaining, err := s.clientRepo.FindByID(ctx, id); err != nil {
		return err
	} else if remaining != nil {
		return ErrDeleteUnverified
	}
	return nil
}

func (s *clientService) AddComment(ctx context.Context, comment *repository.Comment) (*repository.Comment, error) {
	if comment.Content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	if comment.CommentType == "" {
		comment.CommentType = types.CommentUpdate
	}
	if !types.IsValid(comment.CommentType, types.ValidCommentTypes) {
		return nil, fmt.Errorf("%w: unknown comment type %q", ErrInvalidInput, comment.CommentType)
	}

	if _, err := s.GetByID(ctx, comment.EntityID); err != nil {
		return nil, err
	}

	// Replies nest one level only.
	if comment.ParentCommentID != nil {
		parent, err := s.commentRepo.FindByID(ctx, *comment.ParentCommentID)
		if err != nil {
			return nil, err
		}
		if parent == nil || parent.EntityID != comment.EntityID {
			return nil, fmt.Errorf("%w: parent comment not found", ErrInvalidInput)
		}
		if parent.ParentCommentID != nil {
			return nil, fmt.Errorf("%w: replies cannot be nested further", ErrInvalidInput)
		}
	}

	if err := s.commentRepo.Create(ctx, comment); err != nil {
		return nil, err
	}
	if s.broadcaster != nil {
		s.broadcaster.BroadcastCommentAdded("client", comment.EntityID, commentEvent(comment))
	}
	return comment, nil
}

func commentEvent(comment *repository.Comment) map[string]interface{} {
	return map[string]interface{}{
		"id":          comment.ID,
		"commentType": comment.CommentType,
		"content":     comment.Content,
		"authorId":    comment.AuthorID,
	}
}

func (s *clientService) ListComments(ctx context.Context, clientID string) ([]*repository.Comment, error) {
	if _, err := s.GetByID(ctx, clientID); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByEntity(ctx, clientID)
}

func (s *clientService) DeleteComment(ctx context.Context, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	return s.commentRepo.Delete(ctx, commentID)
}
