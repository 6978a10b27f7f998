package bot

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/maple-advisory/crm-backend/internal/api/middleware"
	"github.com/maple-advisory/crm-backend/internal/models"
)

func TestAPIClientSendsSecretHeader(t *testing.T) {
	var gotSecret, gotPath string
	var gotBody models.BotLinkRequest

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get(middleware.BotSecretHeader)
		gotPath = r.URL.Path
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(models.BotLinkResponse{Linked: true})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "s3cret")
	resp, err := client.Link(context.Background(), "12345", "priya@mapleadvisory.in", "pw")
	if err != nil {
		t.Fatalf("Link failed: %v", err)
	}

	if gotSecret != "s3cret" {
		t.Fatalf("expected secret header, got %q", gotSecret)
	}
	if gotPath != "/api/bot/link" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotBody.Platform != PlatformTelegram || gotBody.PlatformUserID != "12345" {
		t.Fatalf("unexpected identity: %+v", gotBody)
	}
	if !resp.Linked {
		t.Fatal("expected linked response")
	}
}

func TestAPIClientSurfacesServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"error": "invalid credentials"})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "s3cret")
	_, err := client.WhoAmI(context.Background(), "12345")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "invalid credentials" {
		t.Fatalf("expected server message to be surfaced, got %q", err)
	}
}

func TestAPIClientFallsBackToStatusCode(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "s3cret")
	err := client.Unlink(context.Background(), "12345")
	if err == nil {
		t.Fatal("expected error")
	}
	if err.Error() != "request failed with status 500" {
		t.Fatalf("unexpected error %q", err)
	}
}

func TestAPIClientDecodesLeadList(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode([]models.LeadResponse{
			{ID: "lead-1", CompanyName: "Veda Healthtech"},
			{ID: "lead-2", CompanyName: "Kosmos Logistics"},
		})
	}))
	defer srv.Close()

	client := NewAPIClient(srv.URL, "s3cret")
	leads, err := client.MyLeads(context.Background(), "12345")
	if err != nil {
		t.Fatalf("MyLeads failed: %v", err)
	}
	if len(leads) != 2 {
		t.Fatalf("expected 2 leads, got %d", len(leads))
	}
	if leads[0].CompanyName != "Veda Healthtech" {
		t.Fatalf("unexpected first lead %q", leads[0].CompanyName)
	}
}
