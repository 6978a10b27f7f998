package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maple-advisory/crm-backend/internal/models"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/service"
)

// ============================================
// Partner Handler
// ============================================

type PartnerHandler struct {
	partnerService service.PartnerService
}

func (h *PartnerHandler) CreatePartner(c *gin.Context) {
	var req models.CreatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partner, err := h.partnerService.Create(c.Request.Context(), &repository.Partner{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, models.ToPartnerResponse(partner))
}

func (h *PartnerHandler) ListPartners(c *gin.Context) {
	partners, err := h.partnerService.List(c.Request.Context())
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToPartnerResponses(partners))
}

func (h *PartnerHandler) GetPartner(c *gin.Context) {
	partner, err := h.partnerService.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToPartnerResponse(partner))
}

func (h *PartnerHandler) UpdatePartner(c *gin.Context) {
	var req models.UpdatePartnerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	partner, err := h.partnerService.Update(c.Request.Context(), c.Param("id"), service.PartnerUpdate{
		Name:    req.Name,
		Company: req.Company,
		Email:   req.Email,
		Phone:   req.Phone,
		Notes:   req.Notes,
	})
	if err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, models.ToPartnerResponse(partner))
}

func (h *PartnerHandler) DeletePartner(c *gin.Context) {
	if err := h.partnerService.Delete(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Partner deleted"})
}
