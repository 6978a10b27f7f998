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
// Client Handler
// ============================================

type ClientHandler struct {
	clientService service.ClientService
}

// CreateClient records a client directly, without going through a lead.
func (h *ClientHandler) CreateClient(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.Create(c.Request.Context(), &repository.Client{
		CompanyName:           req.CompanyName,
		Sector:                req.Sector,
		CustomSector:          req.CustomSector,
		TransactionType:       req.TransactionType,
		CustomTransactionType: req.CustomTransactionType,
		ClientPOC:             req.ClientPOC,
		PhoneNumber:           req.PhoneNumber,
		EmailID:               req.EmailID,
		Status:                req.Status,
		DealSize:              req.DealSize,
		LastContacted:         req.LastContacted,
		Notes:                 req.Notes,
		OwnerID:               userID,
		LeadAssignment:        req.LeadAssignment,
		CoLeadAssignment:      req.CoLeadAssignment,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToClientResponse(client))
}

func (h *ClientHandler) ListClients(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	clients, err := h.clientService.ListVisible(c.Request.Context(), userID, middleware.GetUserRole(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToClientResponses(clients))
}

func (h *ClientHandler) GetClient(c *gin.Context) {
	client, err := h.clientService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToClientResponse(client))
}

func (h *ClientHandler) UpdateClient(c *gin.Context) {
	var req models.UpdateClientRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	client, err := h.clientService.Update(c.Request.Context(), c.Param("id"), service.ClientUpdate{
		CompanyName:           req.CompanyName,
		Sector:                req.Sector,
		CustomSector:          req.CustomSector,
		TransactionType:       req.TransactionType,
		CustomTransactionType: req.CustomTransactionType,
		ClientPOC:             req.ClientPOC,
		PhoneNumber:           req.PhoneNumber,
		EmailID:               req.EmailID,
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
	c.JSON(http.StatusOK, models.ToClientResponse(client))
}

func (h *ClientHandler) DeleteClient(c *gin.Context) {
	if err := h.clientService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Client deleted"})
}

func (h *ClientHandler) AddComment(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.CreateCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	comment, err := h.clientService.AddComment(c.Request.Context(), &repository.Comment{
		EntityID:        c.Param("id"),
		AuthorID:        userID,
		ParentCommentID: req.ParentCommentID,
		CommentType:     req.CommentType,
		Content:         req.Content,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToCommentResponse(comment))
}

func (h *ClientHandler) ListComments(c *gin.Context) {
	comments, err := h.clientService.ListComments(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToCommentResponses(comments))
}

func (h *ClientHandler) DeleteComment(c *gin.Context) {
	if err := h.clientService.DeleteComment(c.Request.Context(), c.Param("commentId")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Comment deleted"})
}
