package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

type ProjectService interface {
	Create(ctx context.Context, project *repository.Project) (*repository.Project, error)
	GetByID(ctx context.Context, id string) (*repository.Project, error)
	List(ctx context.Context) ([]*repository.Project, error)
	Update(ctx context.Context, id string, update ProjectUpdate) (*repository.Project, error)
	Delete(ctx context.Context, id string) error

	AddMember(ctx context.Context, projectID, userID string) (*repository.ProjectMember, error)
	ListMembers(ctx context.Context, projectID string) ([]*repository.ProjectMember, error)
	RemoveMember(ctx context.Context, projectID, userID string) error

	AddComment(ctx context.Context, comment *repository.Comment) (*repository.Comment, error)
	ListComments(ctx context.Context, projectID string) ([]*repository.Comment, error)
	DeleteComment(ctx context.Context, commentID string) error
}

type ProjectUpdate struct {
	Name        *string
	Description *string
	Status      *string
	Priority    *string
	StartDate   *time.Time
	DueDate     *time.Time
	ClientID    *string
}

type projectService struct {
	projectRepo repository.ProjectRepository
	commentRepo repository.CommentRepository
	notifSvc    *notification.Service
	broadcaster Broadcaster
}

func NewProjectService(
	projectRepo repository.ProjectRepository,
	commentRepo repository.CommentRepository,
	notifSvc *notification.Service,
	broadcaster Broadcaster,
) ProjectService {
	return &projectService{projectRepo: projectRepo, commentRepo: commentRepo, notifSvc: notifSvc, broadcaster: broadcaster}
}

func (s *projectService) Create(ctx context.Context, project *repository.Project) (*repository.Project, error) {
	if project.Name == "" {
		return nil, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}
	if project.Status == "" {
		project.Status = types.ProjectPlanning
	}
	if project.Priority == "" {
		project.Priority = types.PriorityMedium
	}
	if !types.IsValid(project.Status, types.ValidProjectStatuses) {
		return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, project.Status)
	}
	if !types.IsValid(project.Priority, types.ValidPriorities) {
		return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, project.Priority)
	}
	if err := s.projectRepo.Create(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

func (s *projectService) GetByID(ctx context.Context, id string) (*repository.Project, error) {
	project, err := s.projectRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if project == nil {
		return nil, ErrNotFound
	}
	return project, nil
}

func (s *projectService) List(ctx context.Context) ([]*repository.Project, error) {
	return s.projectRepo.FindAll(ctx)
}

func (s *projectService) Update(ctx context.Context, id string, update ProjectUpdate) (*repository.Project, error) {
	project, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	applyString(&project.Name, update.Name)
	applyOptional(&project.Description, update.Description)
	applyOptional(&project.ClientID, update.ClientID)
	if update.StartDate != nil {
		project.StartDate = update.StartDate
	}
	if update.DueDate != nil {
		project.DueDate = update.DueDate
	}
	if update.Status != nil {
		if !types.IsValid(*update.Status, types.ValidProjectStatuses) {
			return nil, fmt.Errorf("%w: unknown project status %q", ErrInvalidInput, *update.Status)
		}
		project.Status = *update.Status
	}
	if update.Priority != nil {
		if !types.IsValid(*update.Priority, types.ValidPriorities) {
			return nil, fmt.Errorf("%w: unknown priority %q", ErrInvalidInput, *update.Priority)
		}
		project.Priority = *update.Priority
	}

	if err := s.projectRepo.Update(ctx, project); err != nil {
		return nil, err
	}
	return project, nil
}

// Delete removes the project's comments and members first, then the project
// itself, and confirms removal.
func (s *projectService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}

	if err := s.commentRepo.DeleteByEntity(ctx, id); err != nil {
		return fmt.Errorf("failed to delete comments: %w", err)
	}
	if err := s.projectRepo.DeleteMembersByProject(ctx, id); err != nil {
		return fmt.Errorf("failed to delete members: %w", err)
	}
	if err := s.projectRepo.Delete(ctx, id); err != nil {
		return err
	}
	if remaining, err := s.projectRepo.FindByID(ctx, id); err != nil {
		return err
	} else if remaining != nil {
		return ErrDeleteUnverified
	}
	return nil
}

func (s *projectService) AddMember(ctx context.Context, projectID, userID string) (*repository.ProjectMember, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	member := &repository.ProjectMember{ProjectID: projectID, UserID: userID}
	if err := s.projectRepo.AddMember(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *projectService) ListMembers(ctx context.Context, projectID string) ([]*repository.ProjectMember, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.projectRepo.FindMembers(ctx, projectID)
}

func (s *projectService) RemoveMember(ctx context.Context, projectID, userID string) error {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return err
	}
	return s.projectRepo.RemoveMember(ctx, projectID, userID)
}

func (s *projectService) AddComment(ctx context.Context, comment *repository.Comment) (*repository.Comment, error) {
	if comment.Content == "" {
		return nil, fmt.Errorf("%w: comment content is required", ErrInvalidInput)
	}
	if comment.CommentType == "" {
		comment.CommentType = types.CommentUpdate
	}
	if !types.IsValid(comment.CommentType, types.ValidCommentTypes) {
		return nil, fmt.Errorf("%w: unknown comment type %q", ErrInvalidInput, comment.CommentType)
	}

	project, err := s.GetByID(ctx, comment.EntityID)
	if err != nil {
		return nil, err
	}

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
		s.broadcaster.BroadcastCommentAdded("project", comment.EntityID, commentEvent(comment))
	}

	if s.notifSvc != nil && project.OwnerID != comment.AuthorID {
		entityType := "project"
		s.notifSvc.Notify(ctx, project.OwnerID, notification.TypeCommentAdded,
			"New comment",
			fmt.Sprintf("New %s comment on %s", comment.CommentType, project.Name),
			&entityType, &project.ID)
	}
	return comment, nil
}

func (s *projectService) ListComments(ctx context.Context, projectID string) ([]*repository.Comment, error) {
	if _, err := s.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.commentRepo.FindByEntity(ctx, projectID)
}

func (s *projectService) DeleteComment(ctx context.Context, commentID string) error {
	comment, err := s.commentRepo.FindByID(ctx, commentID)
	if err != nil {
		return err
	}
	if comment == nil {
		return ErrNotFound
	}
	return s.commentRepo.Delete(ctx, commentID)
}
