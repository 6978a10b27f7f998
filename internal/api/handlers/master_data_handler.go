package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maple-advisory/crm-backend/internal/api/middleware"
	"github.com/maple-advisory/crm-backend/internal/models"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/service"
)

// ============================================
// Master Data Handler
// ============================================

type MasterDataHandler struct {
	masterDataService service.MasterDataService
}

func (h *MasterDataHandler) CreateEntry(c *gin.Context) {
	var req models.CreateMasterDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	entry := &repository.ClientMasterData{
		Name:        req.Name,
		Designation: req.Designation,
		Company:     req.Company,
		Industry:    req.Industry,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Notes:       req.Notes,
		AddedBy:     userID,
	}

	created, err := h.masterDataService.Create(c.Request.Context(), entry, service.DuplicateResolution{
		Force:       req.Force,
		OverwriteID: req.OverwriteID,
	})
	if err != nil {
		if errors.Is(err, service.ErrDuplicateName) && created != nil {
			c.JSON(http.StatusConflict, gin.H{
				"error":    "An entry with this name already exists",
				"existing": models.ToMasterDataResponse(created),
			})
			return
		}
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToMasterDataResponse(created))
}

func (h *MasterDataHandler) ListEntries(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	entries, err := h.masterDataService.List(c.Request.Context(), userID, middleware.GetUserRole(c))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToMasterDataResponses(entries))
}

func (h *MasterDataHandler) GetEntry(c *gin.Context) {
	entry, err := h.masterDataService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToMasterDataResponse(entry))
}

func (h *MasterDataHandler) UpdateEntry(c *gin.Context) {
	var req models.CreateMasterDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	entry := &repository.ClientMasterData{
		ID:          c.Param("id"),
		Name:        req.Name,
		Designation: req.Designation,
		Company:     req.Company,
		Industry:    req.Industry,
		Address:     req.Address,
		Phone:       req.Phone,
		Email:       req.Email,
		Notes:       req.Notes,
	}

	updated, err := h.masterDataService.Update(c.Request.Context(), entry)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToMasterDataResponse(updated))
}

func (h *MasterDataHandler) DeleteEntry(c *gin.Context) {
	if err := h.masterDataService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Entry deleted"})
}

func (h *MasterDataHandler) ImportPreview(c *gin.Context) {
	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	preview, err := h.masterDataService.ImportPreview(c.Request.Context(), req.FileData)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h *MasterDataHandler) ImportCommit(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	var req models.ImportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.masterDataService.ImportCommit(c.Request.Context(), req.FileData, userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// ============================================
// Permission Workflow
// ============================================

func (h *MasterDataHandler) RequestAccess(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	perm, err := h.masterDataService.RequestAccess(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToMasterDataPermissionResponse(perm))
}

func (h *MasterDataHandler) MyAccessStatus(c *gin.Context) {
	userID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	status, err := h.masterDataService.MyStatus(c.Request.Context(), userID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, status)
}

func (h *MasterDataHandler) ListPermissions(c *gin.Context) {
	perms, err := h.masterDataService.ListPermissions(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToMasterDataPermissionResponses(perms))
}

func (h *MasterDataHandler) ApproveAccess(c *gin.Context) {
	approverID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	perm, err := h.masterDataService.ApproveAccess(c.Request.Context(), c.Param("userId"), approverID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToMasterDataPermissionResponse(perm))
}

func (h *MasterDataHandler) RevokeAccess(c *gin.Context) {
	revokerID, ok := middleware.RequireUserID(c)
	if !ok {
		return
	}

	perm, err := h.masterDataService.RevokeAccess(c.Request.Context(), c.Param("userId"), revokerID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToMasterDataPermissionResponse(perm))
}
