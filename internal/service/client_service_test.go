package service

import (
	"context"
	"errors"
	"testing"

	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

func TestCreateClientAppliesDefaultStatus(t *testing.T) {
	var created *repository.Client
	clients := &fakeClientRepo{
		createFn: func(_ context.Context, client *repository.Client) error {
			client.ID = "client-1"
			created = client
			return nil
		},
	}
	svc := NewClientService(clients, &fakeLeadRepo{}, &fakeCommentRepo{}, &fakeUserRepo{}, nil, nil, nil)

	got, err := svc.Create(context.Background(), &repository.Client{
		CompanyName: "Acme Capital",
		OwnerID:     "user-1",
	})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if got.Status != types.ClientStatusNDAShared {
		t.Fatalf("expected default status %q, got %q", types.ClientStatusNDAShared, got.Status)
	}
	if created == nil || created.OwnerID != "user-1" {
		t.Fatalf("unexpected stored client: %+v", created)
	}
}

func TestCreateClientRequiresCompanyName(t *testing.T) {
	svc := NewClientService(&fakeClientRepo{}, &fakeLeadRepo{}, &fakeCommentRepo{}, &fakeUserRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), &repository.Client{OwnerID: "user-1"})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestCreateClientRejectsUnknownStatus(t *testing.T) {
	svc := NewClientService(&fakeClientRepo{}, &fakeLeadRepo{}, &fakeCommentRepo{}, &fakeUserRepo{}, nil, nil, nil)

	_, err := svc.Create(context.Background(), &repository.Client{
		CompanyName: "Acme Capital",
		Status:      "Closed Won",
	})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestUpdateClientBroadcastsChange(t *testing.T) {
	stored := &repository.Client{
		ID:          "client-1",
		CompanyName: "Acme Capital",
		Status:      types.ClientStatusNDAShared,
		OwnerID:     "user-1",
	}
	clients := &fakeClientRepo{
		findByIDFn: func(context.Context, string) (*repository.Client, error) { return stored, nil },
	}
	events := &fakeBroadcaster{}
	svc := NewClientService(clients, &fakeLeadRepo{}, &fakeCommentRepo{}, &fakeUserRepo{}, nil, nil, events)

	if _, err := svc.Update(context.Background(), "client-1", ClientUpdate{ClientPOC: strPtr("R. Kapoor")}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if len(events.events) != 1 || events.events[0] != "client:updated:client-1" {
		t.Fatalf("unexpected events: %v", events.events)
	}
}

func TestClientCommentBroadcastsAddition(t *testing.T) {
	stored := &repository.Client{ID: "client-1", CompanyName: "Acme Capital"}
	clients := &fakeClientRepo{
		findByIDFn: func(context.Context, string) (*repository.Client, error) { return stored, nil },
	}
	events := &fakeBroadcaster{}
	svc := NewClientService(clients, &fakeLeadRepo{}, &fakeCommentRepo{}, &fakeUserRepo{}, nil, nil, events)

	if _, err := svc.AddComment(context.Background(), &repository.Comment{
		EntityID: "client-1",
		AuthorID: "user-1",
		Content:  "NDA countersigned",
	}); err != nil {
		t.Fatalf("AddComment() error = %v", err)
	}
	if len(events.events) != 1 || events.events[0] != "comment:added:client:client-1" {
		t.Fatalf("unexpected events: %v", events.events)
	}
}
