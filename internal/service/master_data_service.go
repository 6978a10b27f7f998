package service

import (
	"context"
	"fmt"
	"time"

	"github.com/maple-advisory/crm-backend/internal/importer"
	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

// PermissionStatus is the caller-facing view of a user's master-data access.
type PermissionStatus struct {
	Status      string     `json:"status"` // "none", "pending" or "approved"
	RequestedAt *time.Time `json:"requestedAt,omitempty"`
	ApprovedAt  *time.Time `json:"approvedAt,omitempty"`
}

type MasterDataService interface {
	Create(ctx context.Context, entry *repository.ClientMasterData, resolution DuplicateResolution) (*repository.ClientMasterData, error)
	GetByID(ctx context.Context, id string) (*repository.ClientMasterData, error)
	List(ctx context.Context, userID, role string) ([]*repository.ClientMasterData, error)
	Update(ctx context.Context, entry *repository.ClientMasterData) (*repository.ClientMasterData, error)
	Delete(ctx context.Context, id string) error
	ImportPreview(ctx context.Context, fileData string) (*ImportPreviewResult, error)
	ImportCommit(ctx context.Context, fileData, addedBy string) (*ImportReport, error)

	RequestAccess(ctx context.Context, userID string) (*repository.MasterDataPermission, error)
	ApproveAccess(ctx context.Context, userID, approverID string) (*repository.MasterDataPermission, error)
	RevokeAccess(ctx context.Context, userID, revokerID string) (*repository.MasterDataPermission, error)
	MyStatus(ctx context.Context, userID string) (*PermissionStatus, error)
	ListPermissions(ctx context.Context) ([]*repository.MasterDataPermission, error)
}

type masterDataService struct {
	masterDataRepo repository.MasterDataRepository
	permissionRepo repository.MasterDataPermissionRepository
	userRepo       repository.UserRepository
	notifSvc       *notification.Service
	broadcaster    Broadcaster
}

func NewMasterDataService(
	masterDataRepo repository.MasterDataRepository,
	permissionRepo repository.MasterDataPermissionRepository,
	userRepo repository.UserRepository,
	notifSvc *notification.Service,
	broadcaster Broadcaster,
) MasterDataService {
	return &masterDataService{
		masterDataRepo: masterDataRepo,
		permissionRepo: permissionRepo,
		userRepo:       userRepo,
		notifSvc:       notifSvc,
		broadcaster:    broadcaster,
	}
}

func (s *masterDataService) Create(ctx context.Context, entry *repository.ClientMasterData, resolution DuplicateResolution) (*repository.ClientMasterData, error) {
	if entry.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if entry.Email != "" && !importer.ValidEmail(entry.Email) {
		return nil, fmt.Errorf("%w: email must be valid", ErrInvalidInput)
	}

	if resolution.OverwriteID != "" {
		existing, err := s.masterDataRepo.FindByID(ctx, resolution.OverwriteID)
		if err != nil {
			return nil, err
		}
		if existing == nil {
			return nil, ErrNotFound
		}
		entry.ID = existing.ID
		if err := s.masterDataRepo.Update(ctx, entry); err != nil {
			return nil, err
		}
		return entry, nil
	}

	if !resolution.Force {
		existing, err := s.masterDataRepo.FindByName(ctx, entry.Name)
		if err != nil {
			return nil, err
		}
		if existing != nil {
			return existing, fmt.Errorf("%w: an entry named %q already exists", ErrDuplicateName, existing.Name)
		}
	}

	if err := s.masterDataRepo.Create(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *masterDataService) GetByID(ctx context.Context, id string) (*repository.ClientMasterData, error) {
	entry, err := s.masterDataRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, ErrNotFound
	}
	return entry, nil
}

// List returns the directory for admins and for users with approved view
// access. Everyone else gets an empty list, not an error.
func (s *masterDataService) List(ctx context.Context, userID, role string) ([]*repository.ClientMasterData, error) {
	if role != types.RoleAdmin {
		perm, err := s.permissionRepo.FindByUser(ctx, userID)
		if err != nil {
			return nil, err
		}
		if perm == nil || !perm.HasViewAccess {
			return []*repository.ClientMasterData{}, nil
		}
	}
	return s.masterDataRepo.FindAll(ctx)
}

func (s *masterDataService) Update(ctx context.Context, entry *repository.ClientMasterData) (*repository.ClientMasterData, error) {
	existing, err := s.GetByID(ctx, entry.ID)
	if err != nil {
		return nil, err
	}
	if entry.Name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}
	if entry.Email != "" && !importer.ValidEmail(entry.Email) {
		return nil, fmt.Errorf("%w: email must be valid", ErrInvalidInput)
	}
	entry.AddedBy = existing.AddedBy
	entry.CreatedAt = existing.CreatedAt
	if err := s.masterDataRepo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *masterDataService) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.masterDataRepo.Delete(ctx, id)
}

func (s *masterDataService) ImportPreview(ctx context.Context, fileData string) (*ImportPreviewResult, error) {
	sheet, err := importer.ParseBase64(fileData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	valid, rowErrors := importer.BuildMasterDataRows(sheet.Rows)
	return &ImportPreviewResult{
		Headers:   sheet.Headers,
		TotalRows: len(sheet.Rows),
		ValidRows: len(valid),
		RowErrors: capRowErrors(rowErrors),
	}, nil
}

func (s *masterDataService) ImportCommit(ctx context.Context, fileData, addedBy string) (*ImportReport, error) {
	sheet, err := importer.ParseBase64(fileData)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	valid, rowErrors := importer.BuildMasterDataRows(sheet.Rows)

	entries := make([]*repository.ClientMasterData, 0, len(valid))
	for _, row := range valid {
		entries = append(entries, &repository.ClientMasterData{
			Name:        row.Name,
			Designation: row.Designation,
			Company:     row.Company,
			Industry:    row.Industry,
			Address:     row.Address,
			Phone:       row.Phone,
			Email:       row.Email,
			Notes:       row.Notes,
			AddedBy:     addedBy,
		})
	}

	imported, err := s.masterDataRepo.BulkCreate(ctx, entries)
	if err != nil {
		return nil, err
	}
	return &ImportReport{
		Imported:  imported,
		Skipped:   len(sheet.Rows) - imported,
		RowErrors: capRowErrors(rowErrors),
	}, nil
}

// RequestAccess records a pending request. A repeat request refreshes the
// requested_at timestamp; an already-approved user keeps their access.
func (s *masterDataService) RequestAccess(ctx context.Context, userID string) (*repository.MasterDataPermission, error) {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	perm := &repository.MasterDataPermission{
		UserID:      userID,
		RequestedAt: &now,
	}
	if err := s.permissionRepo.Upsert(ctx, perm); err != nil {
		return nil, err
	}

	if s.notifSvc != nil && !perm.HasViewAccess {
		entityType := "master_data_permission"
		s.notifSvc.NotifyAdmins(ctx, notification.TypePermissionRequested,
			"Master data access requested",
			fmt.Sprintf("%s %s requested access to the master data directory", user.FirstName, user.LastName),
			&entityType, &perm.ID)
	}
	return perm, nil
}

func (s *masterDataService) ApproveAccess(ctx context.Context, userID, approverID string) (*repository.MasterDataPermission, error) {
	perm, err := s.permissionRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return nil, ErrNotFound
	}

	now := time.Now()
	perm.HasViewAccess = true
	perm.ApprovedAt = &now
	perm.ApprovedBy = &approverID
	if err := s.permissionRepo.Update(ctx, perm); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.SendPermissionApproved(userID)
	}
	if s.notifSvc != nil {
		entityType := "master_data_permission"
		s.notifSvc.Notify(ctx, userID, notification.TypePermissionApproved,
			"Master data access approved",
			"Your master data access request was approved",
			&entityType, &perm.ID)
	}
	return perm, nil
}

// RevokeAccess clears the grant but keeps the row, requested_at included, so
// the request history survives and a later request reuses the same row.
func (s *masterDataService) RevokeAccess(ctx context.Context, userID, revokerID string) (*repository.MasterDataPermission, error) {
	perm, err := s.permissionRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	if perm == nil {
		return nil, ErrNotFound
	}

	perm.HasViewAccess = false
	perm.ApprovedAt = nil
	perm.ApprovedBy = nil
	if err := s.permissionRepo.Update(ctx, perm); err != nil {
		return nil, err
	}

	if s.broadcaster != nil {
		s.broadcaster.SendPermissionRevoked(userID)
	}
	if s.notifSvc != nil {
		entityType := "master_data_permission"
		s.notifSvc.Notify(ctx, userID, notification.TypePermissionRevoked,
			"Master data access revoked",
			"Your master data access was revoked",
			&entityType, &perm.ID)
	}
	return perm, nil
}

func (s *masterDataService) MyStatus(ctx context.Context, userID string) (*PermissionStatus, error) {
	perm, err := s.permissionRepo.FindByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	status := &PermissionStatus{Status: "none"}
	if perm == nil {
		return status, nil
	}
	status.RequestedAt = perm.RequestedAt
	status.ApprovedAt = perm.ApprovedAt
	switch {
	case perm.HasViewAccess:
		status.Status = "approved"
	case perm.RequestedAt != nil:
		status.Status = "pending"
	}
	return status, nil
}

func (s *masterDataService) ListPermissions(ctx context.Context) ([]*repository.MasterDataPermission, error) {
	return s.permissionRepo.FindAll(ctx)
}
