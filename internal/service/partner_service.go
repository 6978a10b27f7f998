package service

import (
	"context"
	"fmt"

	"github.com/maple-advisory/crm-backend/internal/importer"
	"github.com/maple-advisory/crm-backend/internal/repository"
)

type PartnerService interface {
	Create(ctx context.Context, partner *repository.Partner) (*repository.Partner, error)
	GetByID(ctx context.Context, id string) (*repository.Partner, error)
	List(ctx context.Context) ([]*repository.Partner, error)
	Update(ctx context.Context, id string, update PartnerUpdate) (*repository.Partner, error)
	Delete(ctx context.Context, id string) error
}

type PartnerUpdate struct {
	Name    *string
	Company *string
	Email   *string
	Phone   *string
	Notes   *string
}

type partnerService struct {
	partnerRepo repository.PartnerRepository
}

func NewPartnerService(partnerRepo repository.PartnerRepository) PartnerService {
	return &partnerService{partnerRepo: partnerRepo}
}

func (s *partnerService) Create(ctx context.Context, partner *repository.Partner) (*repository.Partner, error) {
	if partner.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if partner.Email != "" && !importer.ValidEmail(partner.Email) {
		return nil, fmt.Errorf("%w: email must be valid", ErrInvalidInput)
	}
	if err := s.partnerRepo.Create(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *partnerService) GetByID(ctx context.Context, id string) (*repository.Partner, error) {
	partner, err := s.partnerRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if partner == nil {
		return nil, ErrNotFound
	}
	return partner, nil
}

func (s *partnerService) List(ctx context.Context) ([]*repository.Partner, error) {
	return s.partnerRepo.FindAll(ctx)
}

func (s *partnerService) Update(ctx context.Context, id string, update PartnerUpdate) (*repository.Partner, error) {
	partner, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	applyString(&partner.Name, update.Name)
	applyString(&partner.Company, update.Company)
	applyString(&partner.Email, update.Email)
	applyString(&partner.Phone, update.Phone)
	applyString(&partner.Notes, update.Notes)
	if partner.Email != "" && !importer.ValidEmail(partner.Email) {
		return nil, fmt.Errorf("%w: email must be valid", ErrInvalidInput)
	}
	if err := s.partnerRepo.Update(ctx, partner); err != nil {
		return nil, err
	}
	return partner, nil
}

func (s *partnerService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.partnerRepo.Delete(ctx, id)
}
