package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lib/pq"

	"github.com/maple-advisory/crm-backend/internal/models"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/service"
)

// ============================================
// Fund Tracker Handler
// ============================================

type FundTrackerHandler struct {
	fundService service.FundTrackerService
}

func (h *FundTrackerHandler) CreateFund(c *gin.Context) {
	var req models.CreateFundTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fund := &repository.FundTracker{
		FundName:       req.FundName,
		Website:        req.Website,
		FundType:       req.FundType,
		Stages:         pq.StringArray(req.Stages),
		Source:         req.Source,
		TicketSize:     req.TicketSize,
		ContactPerson1: req.ContactPerson1,
		Designation1:   req.Designation1,
		Email1:         req.Email1,
		Phone1:         req.Phone1,
		ContactPerson2: req.ContactPerson2,
		Designation2:   req.Designation2,
		Email2:         req.Email2,
		Phone2:         req.Phone2,
		Notes:          req.Notes,
	}

	created, err := h.fundService.Create(c.Request.Context(), fund, service.DuplicateResolution{
		Force:       req.Force,
		OverwriteID: req.OverwriteID,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateName) && created != nil {
			// Advisory conflict: echo the existing record so the client can
			// offer force-create or overwrite.
			c.JSON(http.StatusConflict, gin.H{
				"error":    "A fund with this name already exists",
				"existing": models.ToFundTrackerResponse(created),
			})
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToFundTrackerResponse(created))
}

func (h *FundTrackerHandler) ListFunds(c *gin.Context) {
	funds, err := h.fundService.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToFundTrackerResponses(funds))
}

func (h *FundTrackerHandler) GetFund(c *gin.Context) {
	fund, err := h.fundService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToFundTrackerResponse(fund))
}

func (h *FundTrackerHandler) UpdateFund(c *gin.Context) {
	var req models.CreateFundTrackerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	fund := &repository.FundTracker{
		ID:             c.Param("id"),
		FundName:       req.FundName,
		Website:        req.Website,
		FundType:       req.FundType,
		Stages:         pq.StringArray(req.Stages),
		Source:         req.Source,
		TicketSize:     req.TicketSize,
		ContactPerson1: req.ContactPerson1,
		Designation1:   req.Designation1,
		Email1:         req.Email1,
		Phone1:         req.Phone1,
		ContactPerson2: req.ContactPerson2,
		Designation2:   req.Designation2,
		Email2:         req.Email2,
		Phone2:         req.Phone2,
		Notes:          req.Notes,
	}

	updated, err := h.fundService.Update(c.Request.Context(), fund)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToFundTrackerResponse(updated))
}

func (h *FundTrackerHandler) DeleteFund(c *gin.Context) {
	if err := h.fundService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Fund deleted"})
}

func (h *FundTrackerHandler) ImportPreview(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.fundService.ImportPreview(c.Request.Context(), req.FileData)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *FundTrackerHandler) ImportCommit(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.fundService.ImportCommit(c.Request.Context(), req.FileData)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
