package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/service"
)

// Handlers contains all HTTP handlers
type Handlers struct {
	Auth         *AuthHandler
	User         *UserHandler
	Lead         *LeadHandler
	Client       *ClientHandler
	Project      *ProjectHandler
	FundTracker  *FundTrackerHandler
	MasterData   *MasterDataHandler
	TeamMember   *TeamMemberHandler
	Partner      *PartnerHandler
	Outreach     *OutreachHandler
	Notification *NotificationHandler
	Bot          *BotHandler
}

// NewHandlers creates all handlers
func NewHandlers(services *service.Services, notifSvc *notification.Service) *Handlers {
	return &Handlers{
		Auth:         &AuthHandler{authService: services.Auth},
		User:         &UserHandler{userService: services.User},
		Lead:         &LeadHandler{leadService: services.Lead},
		Client:       &ClientHandler{clientService: services.Client},
		Project:      &ProjectHandler{projectService: services.Project},
		FundTracker:  &FundTrackerHandler{fundService: services.FundTracker},
		MasterData:   &MasterDataHandler{masterDataService: services.MasterData},
		TeamMember:   &TeamMemberHandler{teamMemberService: services.TeamMember},
		Partner:      &PartnerHandler{partnerService: services.Partner},
		Outreach:     &OutreachHandler{outreachService: services.Outreach},
		Notification: &NotificationHandler{notifSvc: notifSvc},
		Bot:          &BotHandler{botService: services.Bot},
	}
}

// handleServiceError maps service errors to HTTP responses
func handleServiceError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Resource not found"})
	case errors.Is(err, service.ErrInvalidCredentials):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Invalid credentials"})
	case errors.Is(err, service.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"error": "Forbidden"})
	case errors.Is(err, service.ErrUserExists):
		c.JSON(http.StatusConflict, gin.H{"error": "User already exists"})
	case errors.Is(err, service.ErrInvalidToken):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid or expired token"})
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, service.ErrNotLinked):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Chat account is not linked"})
	case errors.Is(err, service.ErrDeleteUnverified):
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Delete could not be verified"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
	}
}
