package service

import (
	"context"
	"errors"
	"time"

	"github.com/maple-advisory/crm-backend/internal/config"
	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/socket"
)

var (
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserExists         = errors.New("user already exists")
	ErrInvalidToken       = errors.New("invalid token")
	ErrNotFound           = errors.New("resource not found")
	ErrForbidden          = errors.New("forbidden")
	ErrInvalidInput       = errors.New("invalid input")
	ErrDuplicateName      = errors.New("a record with this name already exists")
	ErrDeleteUnverified   = errors.New("delete could not be verified")
	ErrNotLinked          = errors.New("chat account is not linked")
)

// Broadcaster pushes typed events to connected websocket clients. All methods
// are fire-and-forget; services call them after the write has succeeded.
type Broadcaster interface {
	BroadcastLeadCreated(lead map[string]interface{})
	BroadcastLeadUpdated(lead map[string]interface{})
	BroadcastLeadDeleted(leadID string)
	BroadcastLeadConverted(leadID, clientID string)
	BroadcastClientUpdated(client map[string]interface{})
	BroadcastCommentAdded(entityType, entityID string, comment map[string]interface{})
	SendPermissionApproved(userID string)
	SendPermissionRevoked(userID string)
}

// StatsCache is the slice of the Redis cache the lead stats path uses. Values
// are JSON round-tripped; a miss is any non-nil Get error.
type StatsCache interface {
	GetCache(ctx context.Context, key string, dest interface{}) error
	SetCache(ctx context.Context, key string, value interface{}, expiration time.Duration) error
	InvalidateCache(ctx context.Context, pattern string) error
}

// ============================================
// Services Container
// ============================================

type Services struct {
	Auth        AuthService
	User        UserService
	Lead        LeadService
	Client      ClientService
	Project     ProjectService
	FundTracker FundTrackerService
	MasterData  MasterDataService
	TeamMember  TeamMemberService
	Partner     PartnerService
	Outreach    OutreachService
	Bot         BotService
}

// ServiceDeps contains all dependencies needed to create services
type ServiceDeps struct {
	Config      *config.Config
	Repos       *repository.Repositories
	Roster      []string
	NotifSvc    *notification.Service
	EmailSvc    EmailSender
	Cache       StatsCache
	Broadcaster *socket.Broadcaster
}

// EmailSender is the slice of the email service the outreach pipeline needs.
type EmailSender interface {
	Send(to []string, subject, htmlBody string) error
}

func NewServices(deps *ServiceDeps) *Services {
	// A nil *socket.Broadcaster must stay a nil interface so the services'
	// nil checks work.
	var events Broadcaster
	if deps.Broadcaster != nil {
		events = deps.Broadcaster
	}

	leadService := NewLeadService(
		deps.Repos.LeadRepo,
		deps.Repos.ClientRepo,
		deps.Repos.UserRepo,
		deps.Roster,
		deps.NotifSvc,
		deps.Cache,
		events,
	)

	return &Services{
		Auth:        NewAuthService(deps.Config, deps.Repos.UserRepo),
		User:        NewUserService(deps.Repos.UserRepo),
		Lead:        leadService,
		Client:      NewClientService(deps.Repos.ClientRepo, deps.Repos.LeadRepo, deps.Repos.ClientCommentRepo, deps.Repos.UserRepo, deps.Roster, deps.NotifSvc, events),
		Project:     NewProjectService(deps.Repos.ProjectRepo, deps.Repos.ProjectCommentRepo, deps.NotifSvc, events),
		FundTracker: NewFundTrackerService(deps.Repos.FundTrackerRepo),
		MasterData:  NewMasterDataService(deps.Repos.MasterDataRepo, deps.Repos.MasterDataPermissionRepo, deps.Repos.UserRepo, deps.NotifSvc, events),
		TeamMember:  NewTeamMemberService(deps.Repos.TeamMemberRepo),
		Partner:     NewPartnerService(deps.Repos.PartnerRepo),
		Outreach:    NewOutreachService(deps.Repos.OutreachRepo, deps.EmailSvc),
		Bot:         NewBotService(deps.Repos.BotMappingRepo, deps.Repos.UserRepo, deps.Repos.LeadRepo, leadService),
	}
}
