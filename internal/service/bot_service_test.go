package service

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/types"
)

func hashPassword(t *testing.T, plain string) string {
	t.Helper()
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.MinCost)
	if err != nil {
		t.Fatalf("bcrypt: %v", err)
	}
	return string(hash)
}

func TestLinkAccountVerifiesPassword(t *testing.T) {
	user := &repository.User{ID: "u1", Email: "priya@mapleadvisory.in", Password: hashPassword(t, "correct"), FirstName: "Priya"}
	var upserted *repository.BotUserMapping
	mappings := &fakeBotMappingRepo{
		upsertFn: func(_ context.Context, m *repository.BotUserMapping) error {
			upserted = m
			return nil
		},
	}
	users := &fakeUserRepo{
		findByEmailFn: func(_ context.Context, email string) (*repository.User, error) {
			if email == user.Email {
				return user, nil
			}
			return nil, nil
		},
	}
	svc := NewBotService(mappings, users, &fakeLeadRepo{}, nil)

	mapping, got, err := svc.LinkAccount(context.Background(), "telegram", "555", user.Email, "correct")
	if err != nil {
		t.Fatalf("LinkAccount failed: %v", err)
	}
	if got.ID != "u1" {
		t.Fatalf("expected linked user u1, got %q", got.ID)
	}
	if mapping.Platform != "telegram" || mapping.PlatformUserID != "555" || mapping.CRMUserID != "u1" {
		t.Fatalf("unexpected mapping %+v", mapping)
	}
	if upserted == nil {
		t.Fatal("mapping was not persisted")
	}
}

func TestLinkAccountRejectsWrongPassword(t *testing.T) {
	user := &repository.User{ID: "u1", Email: "priya@mapleadvisory.in", Password: hashPassword(t, "correct")}
	users := &fakeUserRepo{
		findByEmailFn: func(context.Context, string) (*repository.User, error) { return user, nil },
	}
	svc := NewBotService(&fakeBotMappingRepo{}, users, &fakeLeadRepo{}, nil)

	_, _, err := svc.LinkAccount(context.Background(), "telegram", "555", user.Email, "wrong")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestLinkAccountRejectsUnknownEmail(t *testing.T) {
	svc := NewBotService(&fakeBotMappingRepo{}, &fakeUserRepo{}, &fakeLeadRepo{}, nil)

	_, _, err := svc.LinkAccount(context.Background(), "telegram", "555", "nobody@mapleadvisory.in", "pw")
	if !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestResolveUserRequiresActiveMapping(t *testing.T) {
	svc := NewBotService(&fakeBotMappingRepo{}, &fakeUserRepo{}, &fakeLeadRepo{}, nil)

	_, err := svc.ResolveUser(context.Background(), "telegram", "555")
	if !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked for no mapping, got %v", err)
	}

	inactive := &fakeBotMappingRepo{
		findByPlatformUserFn: func(context.Context, string, string) (*repository.BotUserMapping, error) {
			return &repository.BotUserMapping{CRMUserID: "u1", IsActive: false}, nil
		},
	}
	svc = NewBotService(inactive, &fakeUserRepo{}, &fakeLeadRepo{}, nil)
	_, err = svc.ResolveUser(context.Background(), "telegram", "555")
	if !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked for inactive mapping, got %v", err)
	}
}

func TestResolveUserWithDeletedCRMUser(t *testing.T) {
	mappings := &fakeBotMappingRepo{
		findByPlatformUserFn: func(context.Context, string, string) (*repository.BotUserMapping, error) {
			return &repository.BotUserMapping{CRMUserID: "gone", IsActive: true}, nil
		},
	}
	svc := NewBotService(mappings, &fakeUserRepo{}, &fakeLeadRepo{}, nil)

	_, err := svc.ResolveUser(context.Background(), "telegram", "555")
	if !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked when the CRM user is gone, got %v", err)
	}
}

func TestUnlinkAccountDeactivatesMapping(t *testing.T) {
	var deactivated bool
	mappings := &fakeBotMappingRepo{
		findByPlatformUserFn: func(context.Context, string, string) (*repository.BotUserMapping, error) {
			return &repository.BotUserMapping{CRMUserID: "u1", IsActive: true}, nil
		},
		deactivateFn: func(context.Context, string, string) error {
			deactivated = true
			return nil
		},
	}
	svc := NewBotService(mappings, &fakeUserRepo{}, &fakeLeadRepo{}, nil)

	if err := svc.UnlinkAccount(context.Background(), "telegram", "555"); err != nil {
		t.Fatalf("UnlinkAccount failed: %v", err)
	}
	if !deactivated {
		t.Fatal("mapping was not deactivated")
	}
}

func TestUnlinkAccountWithoutLinkFails(t *testing.T) {
	svc := NewBotService(&fakeBotMappingRepo{}, &fakeUserRepo{}, &fakeLeadRepo{}, nil)

	if err := svc.UnlinkAccount(context.Background(), "telegram", "555"); !errors.Is(err, ErrNotLinked) {
		t.Fatalf("expected ErrNotLinked, got %v", err)
	}
}

func TestBotCreateLeadRunsThroughLeadService(t *testing.T) {
	mappings := &fakeBotMappingRepo{
		findByPlatformUserFn: func(context.Context, string, string) (*repository.BotUserMapping, error) {
			return &repository.BotUserMapping{CRMUserID: "u1", IsActive: true}, nil
		},
	}
	users := &fakeUserRepo{
		findByIDFn: func(context.Context, string) (*repository.User, error) {
			return &repository.User{ID: "u1", FirstName: "Priya", Role: types.RoleUser}, nil
		},
	}
	leads := &fakeLeadRepo{}
	leadSvc := NewLeadService(leads, &fakeClientRepo{}, users, nil, nil, nil, nil)
	svc := NewBotService(mappings, users, leads, leadSvc)

	lead, err := svc.CreateLead(context.Background(), "telegram", "555", BotLeadInput{
		CompanyName: "Veda Healthtech",
		Notes:       "met at conference",
	})
	if err != nil {
		t.Fatalf("CreateLead failed: %v", err)
	}
	if lead.OwnerID != "u1" {
		t.Fatalf("expected lead owned by the linked user, got %q", lead.OwnerID)
	}
	if lead.SourceType != types.SourceInbound {
		t.Fatalf("expected source defaulting to apply, got %q", lead.SourceType)
	}
	if lead.Notes == nil || *lead.Notes != "met at conference" {
		t.Fatalf("notes not carried: %v", lead.Notes)
	}
}

func TestBotCreateLeadRequiresCompanyName(t *testing.T) {
	mappings := &fakeBotMappingRepo{
		findByPlatformUserFn: func(context.Context, string, string) (*repository.BotUserMapping, error) {
			return &repository.BotUserMapping{CRMUserID: "u1", IsActive: true}, nil
		},
	}
	users := &fakeUserRepo{
		findByIDFn: func(context.Context, string) (*repository.User, error) {
			return &repository.User{ID: "u1"}, nil
		},
	}
	svc := NewBotService(mappings, users, &fakeLeadRepo{}, nil)

	_, err := svc.CreateLead(context.Background(), "telegram", "555", BotLeadInput{})
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
