package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/maple-advisory/crm-backend/internal/api/middleware"
	"github.com/maple-advisory/crm-backend/internal/models"
)

// PlatformTelegram is the platform tag stored on account mappings created by
// this process.
const PlatformTelegram = "telegram"

// APIClient calls the CRM's bot endpoints. Every request carries the shared
// secret header and identifies the Telegram user in the body.
type APIClient struct {
	baseURL string
	secret  string
	http    *http.Client
}

func NewAPIClient(baseURL, secret string) *APIClient {
	return &APIClient{
		baseURL: baseURL,
		secret:  secret,
		http:    &http.Client{Timeout: 15 * time.Second},
	}
}

type apiError struct {
	Error string `json:"error"`
}

func (c *APIClient) post(ctx context.Context, path string, body, out interface{}) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+path, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.BotSecretHeader, c.secret)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr apiError
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err == nil && apiErr.Error != "" {
			return fmt.Errorf("%s", apiErr.Error)
		}
		return fmt.Errorf("request failed with status %d", resp.StatusCode)
	}

	if out == nil {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

func (c *APIClient) Link(ctx context.Context, platformUserID, email, password string) (*models.BotLinkResponse, error) {
	out := &models.BotLinkResponse{}
	err := c.post(ctx, "/api/bot/link", models.BotLinkRequest{
		Platform:       PlatformTelegram,
		PlatformUserID: platformUserID,
		Email:          email,
		Password:       password,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) Unlink(ctx context.Context, platformUserID string) error {
	return c.post(ctx, "/api/bot/unlink", models.BotIdentityRequest{
		Platform:       PlatformTelegram,
		PlatformUserID: platformUserID,
	}, nil)
}

func (c *APIClient) WhoAmI(ctx context.Context, platformUserID string) (*models.UserResponse, error) {
	out := &models.UserResponse{}
	err := c.post(ctx, "/api/bot/whoami", models.BotIdentityRequest{
		Platform:       PlatformTelegram,
		PlatformUserID: platformUserID,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) CreateLead(ctx context.Context, platformUserID string, draft LeadDraft) (*models.LeadResponse, error) {
	out := &models.LeadResponse{}
	err := c.post(ctx, "/api/bot/leads", models.BotCreateLeadRequest{
		Platform:       PlatformTelegram,
		PlatformUserID: platformUserID,
		CompanyName:    draft.CompanyName,
		Sector:         draft.Sector,
		ClientPOC:      draft.ClientPOC,
		PhoneNumber:    draft.PhoneNumber,
		EmailID:        draft.EmailID,
		SourceType:     draft.SourceType,
		Notes:          draft.Notes,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) ConvertLead(ctx context.Context, platformUserID, leadID string) (*models.ConversionResponse, error) {
	out := &models.ConversionResponse{}
	err := c.post(ctx, "/api/bot/leads/convert", models.BotConvertRequest{
		Platform:       PlatformTelegram,
		PlatformUserID: platformUserID,
		LeadID:         leadID,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) MyLeads(ctx context.Context, platformUserID string) ([]models.LeadResponse, error) {
	var out []models.LeadResponse
	err := c.post(ctx, "/api/bot/leads/mine", models.BotIdentityRequest{
		Platform:       PlatformTelegram,
		PlatformUserID: platformUserID,
	}, &out)
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (c *APIClient) MyStats(ctx context.Context, platformUserID string) (*models.LeadStatsResponse, error) {
	out := &models.LeadStatsResponse{}
	err := c.post(ctx, "/api/bot/stats", models.BotIdentityRequest{
		Platform:       PlatformTelegram,
		PlatformUserID: platformUserID,
	}, out)
	if err != nil {
		return nil, err
	}
	return out, nil
}
