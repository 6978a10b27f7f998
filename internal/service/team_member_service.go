package service

import (
	"context"
	"fmt"

	"github.com/maple-advisory/crm-backend/internal/importer"
	"github.com/maple-advisory/crm-backend/internal/repository"
)

type TeamMemberService interface {
	Create(ctx context.Context, member *repository.TeamMember) (*repository.TeamMember, error)
	GetByID(ctx context.Context, id string) (*repository.TeamMember, error)
	List(ctx context.Context, activeOnly bool) ([]*repository.TeamMember, error)
	Update(ctx context.Context, id string, update TeamMemberUpdate) (*repository.TeamMember, error)
	Delete(ctx context.Context, id string) error
}

type TeamMemberUpdate struct {
	Name     *string
	Email    *string
	Position *string
	IsActive *bool
}

type teamMemberService struct {
	teamMemberRepo repository.TeamMemberRepository
}

func NewTeamMemberService(teamMemberRepo repository.TeamMemberRepository) TeamMemberService {
	return &teamMemberService{teamMemberRepo: teamMemberRepo}
}

func (s *teamMemberService) Create(ctx context.Context, member *repository.TeamMember) (*repository.TeamMember, error) {
	if member.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if member.Email != "" && !importer.ValidEmail(member.Email) {
		return nil, fmt.Errorf("%w: email must be valid", ErrInvalidInput)
	}
	member.IsActive = true
	if err := s.teamMemberRepo.Create(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *teamMemberService) GetByID(ctx context.Context, id string) (*repository.TeamMember, error) {
	member, err := s.teamMemberRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if member == nil {
		return nil, ErrNotFound
	}
	return member, nil
}

func (s *teamMemberService) List(ctx context.Context, activeOnly bool) ([]*repository.TeamMember, error) {
	if activeOnly {
		return s.teamMemberRepo.FindActive(ctx)
	}
	return s.teamMemberRepo.FindAll(ctx)
}

func (s *teamMemberService) Update(ctx context.Context, id string, update TeamMemberUpdate) (*repository.TeamMember, error) {
	member, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyString(&member.Name, update.Name)
	applyString(&member.Email, update.Email)
	applyString(&member.Position, update.Position)
	if update.IsActive != nil {
		member.IsActive = *update.IsActive
	}
	if member.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if member.Email != "" && !importer.ValidEmail(member.Email) {
		return nil, fmt.Errorf("%w: email must be valid", ErrInvalidInput)
	}
	if err := s.teamMemberRepo.Update(ctx, member); err != nil {
		return nil, err
	}
	return member, nil
}

func (s *teamMemberService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.teamMemberRepo.Delete(ctx, id)
}
