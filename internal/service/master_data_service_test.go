package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

func TestMasterDataListHiddenWithoutApproval(t *testing.T) {
	entries := []*repository.ClientMasterData{{ID: "md-1", Name: "A. Banerjee"}}
	data := &fakeMasterDataRepo{
		findAllFn: func(context.Context) ([]*repository.ClientMasterData, error) { return entries, nil },
	}
	perms := &fakePermissionRepo{
		findByUserFn: func(context.Context, string) (*repository.MasterDataPermission, error) {
			return nil, nil
		},
	}
	svc := NewMasterDataService(data, perms, &fakeUserRepo{}, nil, nil)

	got, err := svc.List(context.Background(), "user-1", types.RoleUser)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty list without approval, got %d entries", len(got))
	}

	admin, err := svc.List(context.Background(), "admin-1", types.RoleAdmin)
	if err != nil {
		t.Fatalf("List() admin error = %v", err)
	}
	if len(admin) != 1 {
		t.Fatalf("expected admin to see entries, got %d", len(admin))
	}
}

func TestMasterDataListVisibleWithApproval(t *testing.T) {
	entries := []*repository.ClientMasterData{{ID: "md-1", Name: "A. Banerjee"}}
	data := &fakeMasterDataRepo{
		findAllFn: func(context.Context) ([]*repository.ClientMasterData, error) { return entries, nil },
	}
	perms := &fakePermissionRepo{
		findByUserFn: func(context.Context, string) (*repository.MasterDataPermission, error) {
			return &repository.MasterDataPermission{UserID: "user-1", HasViewAccess: true}, nil
		},
	}
	svc := NewMasterDataService(data, perms, &fakeUserRepo{}, nil, nil)

	got, err := svc.List(context.Background(), "user-1", types.RoleUser)
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected approved user to see entries, got %d", len(got))
	}
}

func TestPermissionLifecycle(t *testing.T) {
	var stored *repository.MasterDataPermission
	perms := &fakePermissionRepo{
		upsertFn: func(_ context.Context, perm *repository.MasterDataPermission) error {
			if stored != nil {
				// Upsert keeps the existing grant and refreshes requested_at.
				perm.ID = stored.ID
				perm.HasViewAccess = stored.HasViewAccess
			} else {
				perm.ID = "perm-1"
			}
			stored = perm
			return nil
		},
		findByUserFn: func(context.Context, string) (*repository.MasterDataPermission, error) {
			return stored, nil
		},
		updateFn: func(_ context.Context, perm *repository.MasterDataPermission) error {
			stored = perm
			return nil
		},
	}
	users := &fakeUserRepo{
		findByIDFn: func(context.Context, string) (*repository.User, error) {
			return &repository.User{ID: "user-1", FirstName: "Priya", LastName: "Nair"}, nil
		},
	}
	svc := NewMasterDataService(&fakeMasterDataRepo{}, perms, users, nil, nil)
	ctx := context.Background()

	// none -> pending
	status, err := svc.MyStatus(ctx, "user-1")
	if err != nil {
		t.Fatalf("MyStatus() error = %v", err)
	}
	if status.Status != "none" {
		t.Fatalf("expected status none before any request, got %q", status.Status)
	}

	if _, err := svc.RequestAccess(ctx, "user-1"); err != nil {
		t.Fatalf("RequestAccess() error = %v", err)
	}
	status, _ = svc.MyStatus(ctx, "user-1")
	if status.Status != "pending" {
		t.Fatalf("expected status pending after request, got %q", status.Status)
	}
	if status.RequestedAt == nil {
		t.Fatal("expected requestedAt to be set")
	}

	// pending -> approved
	perm, err := svc.ApproveAccess(ctx, "user-1", "admin-1")
	if err != nil {
		t.Fatalf("ApproveAccess() error = %v", err)
	}
	if !perm.HasViewAccess || perm.ApprovedAt == nil || perm.ApprovedBy == nil || *perm.ApprovedBy != "admin-1" {
		t.Fatalf("unexpected approved permission: %+v", perm)
	}
	status, _ = svc.MyStatus(ctx, "user-1")
	if status.Status != "approved" {
		t.Fatalf("expected status approved, got %q", status.Status)
	}

	// approved -> revoked: the grant goes, the row and its request history stay
	perm, err = svc.RevokeAccess(ctx, "user-1", "admin-1")
	if err != nil {
		t.Fatalf("RevokeAccess() error = %v", err)
	}
	if perm.HasViewAccess || perm.ApprovedAt != nil || perm.ApprovedBy != nil {
		t.Fatalf("expected revoke to clear the grant, got %+v", perm)
	}
	if perm.RequestedAt == nil {
		t.Fatal("expected revoke to keep requestedAt")
	}
	status, _ = svc.MyStatus(ctx, "user-1")
	if status.Status == "approved" {
		t.Fatalf("expected access gone after revoke, got %q", status.Status)
	}
	if status.RequestedAt == nil {
		t.Fatal("expected request history to survive revoke")
	}

	// a fresh request is accepted again and refreshes requestedAt
	firstRequest := *perm.RequestedAt
	time.Sleep(time.Millisecond)
	again, err := svc.RequestAccess(ctx, "user-1")
	if err != nil {
		t.Fatalf("RequestAccess() after revoke error = %v", err)
	}
	if again.RequestedAt == nil || !again.RequestedAt.After(firstRequest) {
		t.Fatalf("expected re-request to refresh requestedAt, got %v", again.RequestedAt)
	}
}

func TestApproveAccessWithoutRequestFails(t *testing.T) {
	svc := NewMasterDataService(&fakeMasterDataRepo{}, &fakePermissionRepo{}, &fakeUserRepo{}, nil, nil)

	_, err := svc.ApproveAccess(context.Background(), "user-1", "admin-1")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for a user with no permission row, got %v", err)
	}
}

func TestMasterDataCreateFlagsDuplicateName(t *testing.T) {
	existing := &repository.ClientMasterData{ID: "md-1", Name: "A. Banerjee"}
	data := &fakeMasterDataRepo{
		findByNameFn: func(_ context.Context, name string) (*repository.ClientMasterData, error) {
			if name == existing.Name {
				return existing, nil
			}
			return nil, nil
		},
	}
	svc := NewMasterDataService(data, &fakePermissionRepo{}, &fakeUserRepo{}, nil, nil)

	got, err := svc.Create(context.Background(), &repository.ClientMasterData{Name: "A. Banerjee"}, DuplicateResolution{})
	if !errors.Is(err, ErrDuplicateName) {
		t.Fatalf("expected ErrDuplicateName, got %v", err)
	}
	if got == nil || got.ID != "md-1" {
		t.Fatalf("expected the existing entry alongside the error, got %v", got)
	}
}

func TestMasterDataCreateForceBypassesDuplicateCheck(t *testing.T) {
	lookups := 0
	created := 0
	data := &fakeMasterDataRepo{
		findByNameFn: func(context.Context, string) (*repository.ClientMasterData, error) {
			lookups++
			return &repository.ClientMasterData{ID: "md-1", Name: "A. Banerjee"}, nil
		},
		createFn: func(_ context.Context, entry *repository.ClientMasterData) error {
			created++
			entry.ID = "md-2"
			return nil
		},
	}
	svc := NewMasterDataService(data, &fakePermissionRepo{}, &fakeUserRepo{}, nil, nil)

	got, err := svc.Create(context.Background(), &repository.ClientMasterData{Name: "A. Banerjee"}, DuplicateResolution{Force: true})
	if err != nil {
		t.Fatalf("Create() with force error = %v", err)
	}
	if lookups != 0 {
		t.Fatalf("expected force to skip the name lookup, got %d lookups", lookups)
	}
	if created != 1 || got.ID != "md-2" {
		t.Fatalf("expected a new entry, got %v (creates=%d)", got, created)
	}
}

func TestMasterDataCreateOverwriteUpdatesExisting(t *testing.T) {
	existing := &repository.ClientMasterData{
		ID: "md-1", Name: "A. Banerjee", AddedBy: "user-0",
		CreatedAt: time.Now().Add(-24 * time.Hour),
	}
	var updated *repository.ClientMasterData
	data := &fakeMasterDataRepo{
		findByIDFn: func(_ context.Context, id string) (*repository.ClientMasterData, error) {
			if id == existing.ID {
				return existing, nil
			}
			return nil, nil
		},
		updateFn: func(_ context.Context, entry *repository.ClientMasterData) error {
			updated = entry
			return nil
		},
	}
	svc := NewMasterDataService(data, &fakePermissionRepo{}, &fakeUserRepo{}, nil, nil)

	got, err := svc.Create(context.Background(), &repository.ClientMasterData{Name: "Anita Banerjee"},
		DuplicateResolution{OverwriteID: "md-1"})
	if err != nil {
		t.Fatalf("Create() with overwrite error = %v", err)
	}
	if updated == nil {
		t.Fatal("expected Update to be called")
	}
	if got.ID != "md-1" || got.Name != "Anita Banerjee" {
		t.Fatalf("expected the existing row overwritten in place, got %+v", got)
	}
}

func TestMasterDataUpdatePreservesProvenance(t *testing.T) {
	createdAt := time.Now().Add(-72 * time.Hour)
	existing := &repository.ClientMasterData{
		ID: "md-1", Name: "A. Banerjee", AddedBy: "user-0", CreatedAt: createdAt,
	}
	data := &fakeMasterDataRepo{
		findByIDFn: func(context.Context, string) (*repository.ClientMasterData, error) { return existing, nil },
	}
	svc := NewMasterDataService(data, &fakePermissionRepo{}, &fakeUserRepo{}, nil, nil)

	got, err := svc.Update(context.Background(), &repository.ClientMasterData{
		ID: "md-1", Name: "Anita Banerjee", AddedBy: "someone-else",
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if got.AddedBy != "user-0" {
		t.Fatalf("expected addedBy to be preserved, got %q", got.AddedBy)
	}
	if !got.CreatedAt.Equal(createdAt) {
		t.Fatalf("expected createdAt to be preserved, got %v", got.CreatedAt)
	}
}

func TestPermissionDecisionsNotifyTheUser(t *testing.T) {
	stored := &repository.MasterDataPermission{
		ID:          "perm-1",
		UserID:      "user-1",
		RequestedAt: timePtr(time.Now()),
	}
	perms := &fakePermissionRepo{
		findByUserFn: func(context.Context, string) (*repository.MasterDataPermission, error) {
			return stored, nil
		},
		updateFn: func(_ context.Context, perm *repository.MasterDataPermission) error {
			stored = perm
			return nil
		},
	}
	events := &fakeBroadcaster{}
	svc := NewMasterDataService(&fakeMasterDataRepo{}, perms, &fakeUserRepo{}, nil, events)
	ctx := context.Background()

	if _, err := svc.ApproveAccess(ctx, "user-1", "admin-1"); err != nil {
		t.Fatalf("ApproveAccess() error = %v", err)
	}
	if _, err := svc.RevokeAccess(ctx, "user-1", "admin-1"); err != nil {
		t.Fatalf("RevokeAccess() error = %v", err)
	}

	want := []string{"permission:approved:user-1", "permission:revoked:user-1"}
	if len(events.events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), events.events)
	}
	for i, event := range want {
		if events.events[i] != event {
			t.Fatalf("event %d = %q, want %q", i, events.events[i], event)
		}
	}
}
