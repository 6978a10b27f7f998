package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maple-advisory/crm-backend/internal/models"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/service"
)

// ============================================
// Team Member Handler
// ============================================

type TeamMemberHandler struct {
	teamMemberService service.TeamMemberService
}

func (h *TeamMemberHandler) CreateMember(c *gin.Context) {
	var req models.CreateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.teamMemberService.Create(c.Request.Context(), &repository.TeamMember{
		Name:     req.Name,
		Email:    req.Email,
		Position: req.Position,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToTeamMemberResponse(member))
}

func (h *TeamMemberHandler) ListMembers(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	members, err := h.teamMemberService.List(c.Request.Context(), activeOnly)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToTeamMemberResponses(members))
}

func (h *TeamMemberHandler) GetMember(c *gin.Context) {
	member, err := h.teamMemberService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToTeamMemberResponse(member))
}

func (h *TeamMemberHandler) UpdateMember(c *gin.Context) {
	var req models.UpdateTeamMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	member, err := h.teamMemberService.Update(c.Request.Context(), c.Param("id"), service.TeamMemberUpdate{
		Name:     req.Name,
		Email:    req.Email,
		Position: req.Position,
		IsActive: req.IsActive,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToTeamMemberResponse(member))
}

func (h *TeamMemberHandler) DeleteMember(c *gin.Context) {
	if err := h.teamMemberService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Team member deleted"})
}
