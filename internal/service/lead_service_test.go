package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
	"github.com/shopspring/decimal"
)

func TestCreateLeadAppliesDefaults(t *testing.T) {
	var created *repository.Lead
	leads := &fakeLeadRepo{
		createFn: func(_ context.Context, lead *repository.Lead) error {
			lead.ID = "lead-1"
			created = lead
			return nil
		},
	}
	svc := NewLeadService(leads, &fakeClientRepo{}, &fakeUserRepo{}, nil, nil, nil, nil)

	lead, client, err := svc.Create(context.Background(), &repository.Lead{
		CompanyName: "Acme Capital",
		OwnerID:     "user-1",
	}, false)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if client != nil {
		t.Fatalf("expected no client without immediate conversion, got %v", client)
	}
	if created == nil {
		t.Fatal("expected lead repo Create to be called")
	}
	if lead.SourceType != types.SourceInbound {
		t.Fatalf("expected default source %q, got %q", types.SourceInbound, lead.SourceType)
	}
	if lead.AcceptanceStage != types.AcceptanceUndecided {
		t.Fatalf("expected default acceptance stage, got %q", lead.AcceptanceStage)
	}
	if lead.Status != types.LeadStatusInitialDiscussion {
		t.Fatalf("expected default status, got %q", lead.Status)
	}
}

func TestCreateLeadRejectsUnknownSourceType(t *testing.T) {
	svc := NewLeadService(&fakeLeadRepo{}, &fakeClientRepo{}, &fakeUserRepo{}, nil, nil, nil, nil)

	_, _, err := svc.Create(context.Background(), &repository.Lead{
		CompanyName: "Acme Capital",
		SourceType:  "Carrier Pigeon",
	}, false)
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestConvertCopiesLeadFieldsToClient(t *testing.T) {
	deal := decimal.NewFromInt(5000000)
	contacted := time.Now().Add(-48 * time.Hour)
	stored := &repository.Lead{
		ID:               "lead-1",
		CompanyName:      "Acme Capital",
		Sector:           "Fintech",
		TransactionType:  "Fundraise",
		ClientPOC:        "Jane Kapoor",
		PhoneNumber:      "+91 98000 11111",
		EmailID:          "jane@acme.example",
		SourceType:       types.SourceInbound,
		AcceptanceStage:  types.AcceptanceAccepted,
		Status:           types.LeadStatusEngagement,
		DealSize:         &deal,
		LastContacted:    &contacted,
		Notes:            strPtr("came via referral"),
		OwnerID:          "user-1",
		LeadAssignment:   strPtr("Rahul Mehta"),
		CoLeadAssignment: strPtr("Priya Nair"),
	}

	var createdClient *repository.Client
	markedLead, markedClient := "", ""
	leads := &fakeLeadRepo{
		findByIDFn: func(_ context.Context, id string) (*repository.Lead, error) {
			if id != "lead-1" {
				t.Fatalf("unexpected lead lookup %q", id)
			}
			return stored, nil
		},
		markConvertedFn: func(_ context.Context, leadID, clientID string) error {
			markedLead, markedClient = leadID, clientID
			stored.IsConverted = true
			stored.ConvertedClientID = &clientID
			return nil
		},
	}
	clients := &fakeClientRepo{
		createFn: func(_ context.Context, client *repository.Client) error {
			client.ID = "client-9"
			createdClient = client
			return nil
		},
	}
	svc := NewLeadService(leads, clients, &fakeUserRepo{}, nil, nil, nil, nil)

	lead, client, err := svc.ConvertToClient(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("ConvertToClient() error = %v", err)
	}
	if createdClient == nil {
		t.Fatal("expected a client to be created")
	}
	if client.Status != types.ClientStatusNDAShared {
		t.Fatalf("expected client to start at %q, got %q", types.ClientStatusNDAShared, client.Status)
	}
	if client.CompanyName != stored.CompanyName || client.EmailID != stored.EmailID {
		t.Fatalf("client did not copy lead fields: %+v", client)
	}
	if client.DealSize == nil || !client.DealSize.Equal(deal) {
		t.Fatalf("expected deal size %s to carry over, got %v", deal, client.DealSize)
	}
	if client.ConvertedFromLeadID == nil || *client.ConvertedFromLeadID != "lead-1" {
		t.Fatalf("expected back-reference to lead-1, got %v", client.ConvertedFromLeadID)
	}
	if client.LeadAssignment == nil || *client.LeadAssignment != "Rahul Mehta" {
		t.Fatalf("expected assignment to carry over, got %v", client.LeadAssignment)
	}
	if markedLead != "lead-1" || markedClient != "client-9" {
		t.Fatalf("expected MarkConverted(lead-1, client-9), got (%s, %s)", markedLead, markedClient)
	}
	if !lead.IsConverted {
		t.Fatal("expected returned lead to be marked converted")
	}
}

func TestConvertIsIdempotent(t *testing.T) {
	clientID := "client-9"
	stored := &repository.Lead{
		ID:                "lead-1",
		CompanyName:       "Acme Capital",
		OwnerID:           "user-1",
		IsConverted:       true,
		ConvertedClientID: &clientID,
	}
	existing := &repository.Client{ID: clientID, CompanyName: "Acme Capital"}

	createCalls := 0
	leads := &fakeLeadRepo{
		findByIDFn: func(context.Context, string) (*repository.Lead, error) { return stored, nil },
	}
	clients := &fakeClientRepo{
		createFn: func(context.Context, *repository.Client) error {
			createCalls++
			return nil
		},
		findByIDFn: func(_ context.Context, id string) (*repository.Client, error) {
			if id != clientID {
				t.Fatalf("unexpected client lookup %q", id)
			}
			return existing, nil
		},
	}
	svc := NewLeadService(leads, clients, &fakeUserRepo{}, nil, nil, nil, nil)

	_, client, err := svc.ConvertToClient(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("ConvertToClient() error = %v", err)
	}
	if createCalls != 0 {
		t.Fatalf("expected no new client for an already-converted lead, got %d creates", createCalls)
	}
	if client == nil || client.ID != clientID {
		t.Fatalf("expected the existing client back, got %v", client)
	}
}

func TestConvertRebuildsWhenLinkedClientIsGone(t *testing.T) {
	clientID := "client-gone"
	stored := &repository.Lead{
		ID:                "lead-1",
		CompanyName:       "Acme Capital",
		OwnerID:           "user-1",
		IsConverted:       true,
		ConvertedClientID: &clientID,
	}

	createCalls := 0
	leads := &fakeLeadRepo{
		findByIDFn: func(context.Context, string) (*repository.Lead, error) { return stored, nil },
	}
	clients := &fakeClientRepo{
		findByIDFn: func(context.Context, string) (*repository.Client, error) { return nil, nil },
		createFn: func(_ context.Context, client *repository.Client) error {
			createCalls++
			client.ID = "client-new"
			return nil
		},
	}
	svc := NewLeadService(leads, clients, &fakeUserRepo{}, nil, nil, nil, nil)

	_, client, err := svc.ConvertToClient(context.Background(), "lead-1")
	if err != nil {
		t.Fatalf("ConvertToClient() error = %v", err)
	}
	if createCalls != 1 {
		t.Fatalf("expected a fresh client when the linked one is gone, got %d creates", createCalls)
	}
	if client.ID != "client-new" {
		t.Fatalf("expected the new client, got %v", client)
	}
}

func TestDeleteLeadRemovesConvertedClientFirst(t *testing.T) {
	clientID := "client-9"
	stored := &repository.Lead{
		ID:                "lead-1",
		CompanyName:       "Acme Capital",
		IsConverted:       true,
		ConvertedClientID: &clientID,
	}

	var order []string
	leadDeleted := false
	leads := &fakeLeadRepo{
		findByIDFn: func(_ context.Context, id string) (*repository.Lead, error) {
			if leadDeleted {
				return nil, nil
			}
			return stored, nil
		},
		clearConvertedClientFn: func(_ context.Context, id string) error {
			order = append(order, "clear:"+id)
			return nil
		},
		deleteFn: func(_ context.Context, id string) error {
			order = append(order, "deleteLead:"+id)
			leadDeleted = true
			return nil
		},
	}
	clientDeleted := false
	clients := &fakeClientRepo{
		deleteFn: func(_ context.Context, id string) error {
			order = append(order, "deleteClient:"+id)
			clientDeleted = true
			return nil
		},
		findByIDFn: func(context.Context, string) (*repository.Client, error) {
			if clientDeleted {
				return nil, nil
			}
			return &repository.Client{ID: clientID}, nil
		},
	}
	svc := NewLeadService(leads, clients, &fakeUserRepo{}, nil, nil, nil, nil)

	if err := svc.Delete(context.Background(), "lead-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	want := []string{"clear:client-9", "deleteClient:client-9", "deleteLead:lead-1"}
	if len(order) != len(want) {
		t.Fatalf("expected operations %v, got %v", want, order)
	}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("expected operations %v, got %v", want, order)
		}
	}
}

func TestDeleteLeadFailsWhenRowSurvives(t *testing.T) {
	stored := &repository.Lead{ID: "lead-1", CompanyName: "Acme Capital"}
	leads := &fakeLeadRepo{
		findByIDFn: func(context.Context, string) (*repository.Lead, error) { return stored, nil },
	}
	svc := NewLeadService(leads, &fakeClientRepo{}, &fakeUserRepo{}, nil, nil, nil, nil)

	err := svc.Delete(context.Background(), "lead-1")
	if !errors.Is(err, ErrDeleteUnverified) {
		t.Fatalf("expected ErrDeleteUnverified when the lead survives, got %v", err)
	}
}

func TestListVisibleFiltersByOwnershipAndAssignment(t *testing.T) {
	now := time.Now()
	all := []*repository.Lead{
		{ID: "owned", OwnerID: "user-1", AcceptanceStage: types.AcceptanceUndecided, UpdatedAt: now},
		{ID: "assigned", OwnerID: "user-2", LeadAssignment: strPtr("Priya Nair"), AcceptanceStage: types.AcceptanceUndecided, UpdatedAt: now.Add(-time.Hour)},
		{ID: "other", OwnerID: "user-2", AcceptanceStage: types.AcceptanceUndecided, UpdatedAt: now.Add(-2 * time.Hour)},
	}
	leads := &fakeLeadRepo{
		findAllActiveFn: func(context.Context) ([]*repository.Lead, error) { return all, nil },
	}
	users := &fakeUserRepo{
		findByIDFn: func(context.Context, string) (*repository.User, error) {
			return &repository.User{ID: "user-1", FirstName: "Priya"}, nil
		},
	}
	names := []string{"Rahul Mehta", "Priya Nair"}
	svc := NewLeadService(leads, &fakeClientRepo{}, users, names, nil, nil, nil)

	visible, err := svc.ListVisible(context.Background(), "user-1", types.RoleUser)
	if err != nil {
		t.Fatalf("ListVisible() error = %v", err)
	}
	if len(visible) != 2 {
		t.Fatalf("expected 2 visible leads, got %d", len(visible))
	}
	if visible[0].ID != "owned" || visible[1].ID != "assigned" {
		t.Fatalf("unexpected visible set: %s, %s", visible[0].ID, visible[1].ID)
	}

	admin, err := svc.ListVisible(context.Background(), "admin-1", types.RoleAdmin)
	if err != nil {
		t.Fatalf("ListVisible() admin error = %v", err)
	}
	if len(admin) != 3 {
		t.Fatalf("expected admins to see all 3 leads, got %d", len(admin))
	}
}

func TestUpdateLeadRejectsUnknownStatus(t *testing.T) {
	stored := &repository.Lead{ID: "lead-1", CompanyName: "Acme Capital"}
	leads := &fakeLeadRepo{
		findByIDFn: func(context.Context, string) (*repository.Lead, error) { return stored, nil },
	}
	svc := NewLeadService(leads, &fakeClientRepo{}, &fakeUserRepo{}, nil, nil, nil, nil)

	_, err := svc.Update(context.Background(), "lead-1", LeadUpdate{Status: strPtr("Signed And Sealed")})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestStatsByOwnerCachesResult(t *testing.T) {
	repoHits := 0
	leads := &fakeLeadRepo{
		statsByOwnerFn: func(_ context.Context, ownerID string) (*repository.LeadStats, error) {
			repoHits++
			return &repository.LeadStats{
				Total:     4,
				Converted: 1,
				ByStatus:  map[string]int{types.LeadStatusInitialDiscussion: 3},
			}, nil
		},
	}
	cache := newFakeStatsCache()
	svc := NewLeadService(leads, &fakeClientRepo{}, &fakeUserRepo{}, nil, nil, cache, nil)
	ctx := context.Background()

	first, err := svc.StatsByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("StatsByOwner() error = %v", err)
	}
	second, err := svc.StatsByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("StatsByOwner() second call error = %v", err)
	}
	if repoHits != 1 {
		t.Fatalf("expected one repo hit with a warm cache, got %d", repoHits)
	}
	if second.Total != first.Total || second.Converted != first.Converted {
		t.Fatalf("cached stats diverged: %+v vs %+v", second, first)
	}
	if second.ByStatus[types.LeadStatusInitialDiscussion] != 3 {
		t.Fatalf("unexpected cached status counts: %+v", second.ByStatus)
	}
}

func TestLeadWritesInvalidateStatsCache(t *testing.T) {
	repoHits := 0
	stored := &repository.Lead{ID: "lead-1", CompanyName: "Acme Capital", OwnerID: "user-1"}
	leads := &fakeLeadRepo{
		findByIDFn: func(context.Context, string) (*repository.Lead, error) { return stored, nil },
		statsByOwnerFn: func(context.Context, string) (*repository.LeadStats, error) {
			repoHits++
			return &repository.LeadStats{Total: repoHits, ByStatus: map[string]int{}}, nil
		},
	}
	cache := newFakeStatsCache()
	svc := NewLeadService(leads, &fakeClientRepo{}, &fakeUserRepo{}, nil, nil, cache, nil)
	ctx := context.Background()

	if _, err := svc.StatsByOwner(ctx, "user-1"); err != nil {
		t.Fatalf("StatsByOwner() error = %v", err)
	}

	if _, err := svc.Update(ctx, "lead-1", LeadUpdate{Status: strPtr(types.LeadStatusNDA)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	refreshed, err := svc.StatsByOwner(ctx, "user-1")
	if err != nil {
		t.Fatalf("StatsByOwner() after update error = %v", err)
	}
	if repoHits != 2 {
		t.Fatalf("expected the update to evict the cached stats, repo hits = %d", repoHits)
	}
	if refreshed.Total != 2 {
		t.Fatalf("expected refreshed stats, got %+v", refreshed)
	}
}

func TestLeadLifecycleBroadcastsEvents(t *testing.T) {
	var stored *repository.Lead
	leads := &fakeLeadRepo{
		createFn: func(_ context.Context, lead *repository.Lead) error {
			lead.ID = "lead-1"
			stored = lead
			return nil
		},
		findByIDFn: func(context.Context, string) (*repository.Lead, error) { return stored, nil },
		markConvertedFn: func(_ context.Context, leadID, clientID string) error {
			stored.IsConverted = true
			stored.ConvertedClientID = &clientID
			return nil
		},
		deleteFn: func(context.Context, string) error { stored = nil; return nil },
	}
	clients := &fakeClientRepo{
		createFn: func(_ context.Context, client *repository.Client) error {
			client.ID = "client-1"
			return nil
		},
	}
	events := &fakeBroadcaster{}
	svc := NewLeadService(leads, clients, &fakeUserRepo{}, nil, nil, nil, events)
	ctx := context.Background()

	if _, _, err := svc.Create(ctx, &repository.Lead{CompanyName: "Acme Capital", OwnerID: "user-1"}, false); err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if _, err := svc.Update(ctx, "lead-1", LeadUpdate{Status: strPtr(types.LeadStatusNDA)}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if _, _, err := svc.ConvertToClient(ctx, "lead-1"); err != nil {
		t.Fatalf("ConvertToClient() error = %v", err)
	}

	want := []string{
		"lead:created:lead-1",
		"lead:updated:lead-1",
		"lead:converted:lead-1:client-1",
	}
	if len(events.events) != len(want) {
		t.Fatalf("expected %d events, got %v", len(want), events.events)
	}
	for i, event := range want {
		if events.events[i] != event {
			t.Fatalf("event %d = %q, want %q", i, events.events[i], event)
		}
	}
}

func TestDeleteLeadBroadcastsRemoval(t *testing.T) {
	stored := &repository.Lead{ID: "lead-1", CompanyName: "Acme Capital", OwnerID: "user-1"}
	leads := &fakeLeadRepo{
		findByIDFn: func(context.Context, string) (*repository.Lead, error) { return stored, nil },
		deleteFn: func(context.Context, string) error {
			stored = nil
			return nil
		},
	}
	events := &fakeBroadcaster{}
	svc := NewLeadService(leads, &fakeClientRepo{}, &fakeUserRepo{}, nil, nil, nil, events)

	if err := svc.Delete(context.Background(), "lead-1"); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(events.events) != 1 || events.events[0] != "lead:deleted:lead-1" {
		t.Fatalf("unexpected events: %v", events.events)
	}
}
