package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maple-advisory/crm-backend/internal/models"
	"github.com/maple-advisory/crm-backend/internal/service"
)

// ============================================
// Bot Handler
// ============================================

// BotHandler serves the chat-bot process. Requests arrive authenticated by
// the shared secret middleware and carry the platform user identity in the
// body rather than a JWT.
type BotHandler struct {
	botService service.BotService
}

func (h *BotHandler) Link(c *gin.Context) {
	var req models.BotLinkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	_, user, err := h.botService.LinkAccount(c.Request.Context(), req.Platform, req.PlatformUserID, req.Email, req.Password)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.BotLinkResponse{
		Linked: true,
		User:   models.ToUserResponse(user),
	})
}

func (h *BotHandler) Unlink(c *gin.Context) {
	var req models.BotIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	if err := h.botService.UnlinkAccount(c.Request.Context(), req.Platform, req.PlatformUserID); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Account unlinked"})
}

func (h *BotHandler) WhoAmI(c *gin.Context) {
	var req models.BotIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	user, err := h.botService.ResolveUser(c.Request.Context(), req.Platform, req.PlatformUserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToUserResponse(user))
}

func (h *BotHandler) CreateLead(c *gin.Context) {
	var req models.BotCreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.botService.CreateLead(c.Request.Context(), req.Platform, req.PlatformUserID, service.BotLeadInput{
		CompanyName: req.CompanyName,
		Sector:      req.Sector,
		ClientPOC:   req.ClientPOC,
		PhoneNumber: req.PhoneNumber,
		EmailID:     req.EmailID,
		SourceType:  req.SourceType,
		Notes:       req.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToLeadResponse(lead))
}

func (h *BotHandler) ConvertLead(c *gin.Context) {
	var req models.BotConvertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, client, err := h.botService.ConvertLead(c.Request.Context(), req.Platform, req.PlatformUserID, req.LeadID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConversionResponse{
		Lead:   models.ToLeadResponse(lead),
		Client: models.ToClientResponse(client),
	})
}

func (h *BotHandler) MyLeads(c *gin.Context) {
	var req models.BotIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	leads, err := h.botService.MyLeads(c.Request.Context(), req.Platform, req.PlatformUserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToLeadResponses(leads))
}

func (h *BotHandler) MyStats(c *gin.Context) {
	var req models.BotIdentityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	stats, err := h.botService.MyStats(c.Request.Context(), req.Platform, req.PlatformUserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.LeadStatsResponse{
		Total:     stats.Total,
		Converted: stats.Converted,
		ThisMonth: stats.ThisMonth,
		ByStatus:  stats.ByStatus,
	})
}
