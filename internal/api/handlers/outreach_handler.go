package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maple-advisory/crm-backend/internal/api/middleware"
	"github.com/maple-advisory/crm-backend/internal/models"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/service"
)

// ============================================
// Outreach Handler
// ============================================

type OutreachHandler struct {
	outreachService service.OutreachService
}

func (h *OutreachHandler) CreateCampaign(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.outreachService.CreateCampaign(c.Request.Context(), &repository.OutreachCampaign{
		Name:        req.Name,
		Subject:     req.Subject,
		Body:        req.Body,
		ScheduledAt: req.ScheduledAt,
		CreatedBy:   userID,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToCampaignResponse(campaign))
}

func (h *OutreachHandler) ListCampaigns(c *gin.Context) {
	campaigns, err := h.outreachService.ListCampaigns(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCampaignResponses(campaigns))
}

func (h *OutreachHandler) GetCampaign(c *gin.Context) {
	campaign, err := h.outreachService.GetCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCampaignResponse(campaign))
}

func (h *OutreachHandler) UpdateCampaign(c *gin.Context) {
	var req models.UpdateCampaignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	campaign, err := h.outreachService.UpdateCampaign(c.Request.Context(), c.Param("id"), service.CampaignUpdate{
		Name:        req.Name,
		Subject:     req.Subject,
		Body:        req.Body,
		Status:      req.Status,
		ScheduledAt: req.ScheduledAt,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCampaignResponse(campaign))
}

func (h *OutreachHandler) DeleteCampaign(c *gin.Context) {
	if err := h.outreachService.DeleteCampaign(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Campaign deleted"})
}

func (h *OutreachHandler) AddRecipients(c *gin.Context) {
	var req models.AddRecipientsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	recipients := make([]service.Recipient, len(req.Recipients))
	for i, r := range req.Recipients {
		recipients[i] = service.Recipient{Name: r.Name, Email: r.Email}
	}

	added, err := h.outreachService.AddRecipients(c.Request.Context(), c.Param("id"), recipients)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToOutreachEmailResponses(added))
}

func (h *OutreachHandler) ListRecipients(c *gin.Context) {
	emails, err := h.outreachService.ListRecipients(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToOutreachEmailResponses(emails))
}

func (h *OutreachHandler) SendCampaign(c *gin.Context) {
	campaign, err := h.outreachService.SendCampaign(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCampaignResponse(campaign))
}
