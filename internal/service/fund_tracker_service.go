package service

import (
	"context"
	"fmt"

	"github.com/lib/pq"

	"github.com/maple-advisory/crm-backend/internal/importer"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

// maxReportedRowErrors caps the row errors echoed back from an import; the
// full count is still reflected in the skipped total.
const maxReportedRowErrors = 10

// ImportReport summarizes one spreadsheet import.
type ImportReport struct {
	Imported  int                 `json:"imported"`
	Skipped   int                 `json:"skipped"`
	RowErrors []importer.RowError `json:"rowErrors,omitempty"`
}

// ImportPreviewResult is what the preview endpoint returns before anything is
// written: the parsed headers plus validation outcome per row.
type ImportPreviewResult struct {
	Headers   []string            `json:"headers"`
	TotalRows int                 `json:"totalRows"`
	ValidRows int                 `json:"validRows"`
	RowErrors []importer.RowError `json:"rowErrors,omitempty"`
}

// DuplicateResolution tells a create call what to do when a record with the
// same name already exists.
type DuplicateResolution struct {
	Force       bool
	OverwriteID string
}

type FundTrackerService interface {
	Create(ctx context.Context, fund *repository.FundTracker, resolution DuplicateResolution) (*repository.FundTracker, error)
	GetByID(ctx context.Context, id string) (*repository.FundTracker, error)
	List(ctx context.Context) ([]*repository.FundTracker, error)
	Update(ctx context.Context, fund *repository.FundTracker) (*repository.FundTracker, error)
	Delete(ctx context.Context, id string) error
	ImportPreview(ctx context.Context, fileData string) (*ImportPreviewResult, error)
	ImportCommit(ctx context.Context, fileData string) (*ImportReport, error)
}

type fundTrackerService struct {
	fundRepo repository.FundTrackerRepository
}

func NewFundTrackerService(fundRepo repository.FundTrackerRepository) FundTrackerService {
	return &fundTrackerService{fundRepo: fundRepo}
}

func (s *fundTrackerService) validate(fund *repository.FundTracker) error {
	if fund.FundName == "" {
		return fmt.Errorf("%w: fund name is required", ErrInvalidInput)
	}
	if fund.ContactPerson1 == "" {
		return fmt.Errorf("%w: primary contact is required", ErrInvalidInput)
	}
	if fund.Email1 == "" || !importer.ValidEmail(fund.Email1) {
		return fmt.Errorf("%w: primary email is required and must be valid", ErrInvalidInput)
	}
	if fund.Email2 != "" && !importer.ValidEmail(fund.Email2) {
		return fmt.Errorf("%w: secondary email must be valid", ErrInvalidInput)
	}
	if fund.FundType != "" && !types.IsValid(fund.FundType, types.ValidFundTypes) {
		return fmt.Errorf("%w: unknown fund type %q", ErrInvalidInput, fund.FundType)
	}
	if fund.Source != "" && !types.IsValid(fund.Source, types.ValidFundSources) {
		return fmt.Errorf("%w: unknown source %q", ErrInvalidInput, fund.Source)
	}
	for _, stage := range fund.Stages {
		if !types.IsValid(stage, types.ValidFundStages) {
			return fmt.Errorf("%w: unknown stage %q", ErrInvalidInput, stage)
		}
	}
	return nil
}

// Create checks for an existing fund with the same name before inserting. The
// check is advisory: callers can force a second record with the same name or
// overwrite the existing one.
func (s *fundTrackerService) Create(ctx context.Context, fund *repository.FundTracker, resolution DuplicateResolution) (*repository.FundTracker, error) {
	if err := s.validate(fund); err != nil {
		return nil, err
	}

	if resolution.OverwriteID != "" {
		existing, err := s.fundRepo.FindByID(ctx, resolution.OverwriteID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		fund.ID = existing.ID
		if err := s.fundRepo.Update(ctx, fund); err != nil {
			return nil, err
		}
		return fund, nil
	}

	if !resolution.Force {
		existing, err := s.fundRepo.FindByName(ctx, fund.FundName)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, fmt.Errorf("%w: a fund named %q already exists", ErrDuplicateName, existing.FundName)
		}
	}

	if err := s.fundRepo.Create(ctx, fund); err != nil {
		return nil, err
	}
	return fund, nil
}

func (s *fundTrackerService) GetByID(ctx context.Context, id string) (*repository.FundTracker, error) {
	fund, err := s.fundRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if fund == nil {
		return nil, ErrNotFound
	}
	return fund, nil
}

func (s *fundTrackerService) List(ctx context.Context) ([]*repository.FundTracker, error) {
	return s.fundRepo.FindAll(ctx)
}

func (s *fundTrackerService) Update(ctx context.Context, fund *repository.FundTracker) (*repository.FundTracker, error) {
	existing, err := s.GetByID(ctx, fund.ID)
	if err != nil {
		return nil, err
	}
	fund.CreatedAt = existing.CreatedAt
	if err := s.validate(fund); err != nil {
		return nil, err
	}
	if err := s.fundRepo.Update(ctx, fund); err != nil {
		return nil, err
	}
	return fund, nil
}

func (s *fundTrackerService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.fundRepo.Delete(ctx, id)
}

func (s *fundTrackerService) ImportPreview(ctx context.Context, fileData string) (*ImportPreviewResult, error) {
	sheet, err := importer.ParseBase64(fileData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	valid, rowErrors := importer.BuildFundTrackerRows(sheet.Rows)
	return &ImportPreviewResult{
		Headers:   sheet.Headers,
		TotalRows: len(sheet.Rows),
		ValidRows: len(valid),
		RowErrors: capRowErrors(rowErrors),
	}, nil
}

func (s *fundTrackerService) ImportCommit(ctx context.Context, fileData string) (*ImportReport, error) {
	sheet, err := importer.ParseBase64(fileData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	valid, rowErrors := importer.BuildFundTrackerRows(sheet.Rows)

	funds := make([]*repository.FundTracker, 0, len(valid))
	for _, row := range valid {
		funds = append(funds, &repository.FundTracker{
			FundName:       row.FundName,
			Website:        row.Website,
			FundType:       row.FundType,
			Stages:         pq.StringArray(row.Stages),
			Source:         row.Source,
			ContactPerson1: row.ContactPerson1,
			Designation1:   row.Designation1,
			Email1:         row.Email1,
			Phone1:         row.Phone1,
			ContactPerson2: row.ContactPerson2,
			Designation2:   row.Designation2,
			Email2:         row.Email2,
			Phone2:         row.Phone2,
			Notes:          row.Notes,
		})
	}

	imported, err := s.fundRepo.BulkCreate(ctx, funds)
	if err != nil {
		return nil, err
	}
	return &ImportReport{
		Imported:  imported,
		Skipped:   len(sheet.Rows) - imported,
		RowErrors: capRowErrors(rowErrors),
	}, nil
}

func capRowErrors(errs []importer.RowError) []importer.RowError {
	if len(errs) > maxReportedRowErrors {
		return errs[:maxReportedRowErrors]
	}
	return errs
}
