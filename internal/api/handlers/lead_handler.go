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
// Lead Handler
// ============================================

type LeadHandler struct {
	leadService service.LeadService
}

func (h *LeadHandler) CreateLead(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead := &repository.Lead{
		CompanyName:           req.CompanyName,
		Sector:                req.Sector,
		CustomSector:          req.CustomSector,
		TransactionType:       req.TransactionType,
		CustomTransactionType: req.CustomTransactionType,
		ClientPOC:             req.ClientPOC,
		PhoneNumber:           req.PhoneNumber,
		EmailID:               req.EmailID,
		SourceType:            req.SourceType,
		InboundSource:         req.InboundSource,
		CustomInboundSource:   req.CustomInboundSource,
		OutboundSource:        req.OutboundSource,
		AcceptanceStage:       req.AcceptanceStage,
		Status:                req.Status,
		DealSize:              req.DealSize,
		LastContacted:         req.LastContacted,
		Notes:                 req.Notes,
		OwnerID:               userID,
		LeadAssignment:        req.LeadAssignment,
		CoLeadAssignment:      req.CoLeadAssignment,
	}

	created, client, err := h.leadService.Create(c.Request.Context(), lead, req.ConvertImmediately)
	if err != nil {
		handleServiceError(c, err)
		return
	}

	if client != nil {
		c.JSON(http.StatusCreated, models.ConversionResponse{
			Lead:   models.ToLeadResponse(created),
			Client: models.ToClientResponse(client),
		})
		return
	}
	c.JSON(http.StatusCreated, models.ToLeadResponse(created))
}

func (h *LeadHandler) ListLeads(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	leads, err := h.leadService.ListVisible(c.Request.Context(), userID, middleware.GetUserRole(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToLeadResponses(leads))
}

func (h *LeadHandler) GetLead(c *gin.Context) {
	lead, err := h.leadService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToLeadResponse(lead))
}

func (h *LeadHandler) UpdateLead(c *gin.Context) {
	var req models.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	lead, err := h.leadService.Update(c.Request.Context(), c.Param("id"), service.LeadUpdate{
		CompanyName:           req.CompanyName,
		Sector:                req.Sector,
		CustomSector:          req.CustomSector,
		TransactionType:       req.TransactionType,
		CustomTransactionType: req.CustomTransactionType,
		ClientPOC:             req.ClientPOC,
		PhoneNumber:           req.PhoneNumber,
		EmailID:               req.EmailID,
		SourceType:            req.SourceType,
		InboundSource:         req.InboundSource,
		CustomInboundSource:   req.CustomInboundSource,
		OutboundSource:        req.OutboundSource,
		AcceptanceStage:       req.AcceptanceStage,
		Status:                req.Status,
		DealSize:              req.DealSize,
		LastContacted:         req.LastContacted,
		Notes:                 req.Notes,
		LeadAssignment:        req.LeadAssignment,
		CoLeadAssignment:      req.CoLeadAssignment,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToLeadResponse(lead))
}

func (h *LeadHandler) DeleteLead(c *gin.Context) {
	if err := h.leadService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Lead deleted"})
}

func (h *LeadHandler) ConvertLead(c *gin.Context) {
	lead, client, err := h.leadService.ConvertToClient(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ConversionResponse{
		Lead:   models.ToLeadResponse(lead),
		Client: models.ToClientResponse(client),
	})
}

func (h *LeadHandler) GetStats(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	stats, err := h.leadService.StatsByOwner(c.Request.Context(), userID)
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
