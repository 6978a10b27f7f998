package repository

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	// Core repositories (pgxpool)
	UserRepo           UserRepository
	LeadRepo           LeadRepository
	ClientRepo         ClientRepository
	ProjectRepo        ProjectRepository
	ProjectCommentRepo CommentRepository
	ClientCommentRepo  CommentRepository
	PartnerRepo        PartnerRepository
	TeamMemberRepo     TeamMemberRepository
	BotMappingRepo     BotMappingRepository
	OutreachRepo       OutreachRepository
	NotificationRepo   NotificationRepository

	// Tracker/master-data repositories (sqlx)
	FundTrackerRepo          FundTrackerRepository
	MasterDataRepo           MasterDataRepository
	MasterDataPermissionRepo MasterDataPermissionRepository
}

func NewRepositories(pool *pgxpool.Pool, db *sqlx.DB) *Repositories {
	return &Repositories{
		UserRepo:           NewUserRepository(pool),
		LeadRepo:           NewLeadRepository(pool),
		ClientRepo:         NewClientRepository(pool),
		ProjectRepo:        NewProjectRepository(pool),
		ProjectCommentRepo: NewProjectCommentRepository(pool),
		ClientCommentRepo:  NewClientCommentRepository(pool),
		PartnerRepo:        NewPartnerRepository(pool),
		TeamMemberRepo:     NewTeamMemberRepository(pool),
		BotMappingRepo:     NewBotMappingRepository(pool),
		OutreachRepo:       NewOutreachRepository(pool),
		NotificationRepo:   NewNotificationRepository(pool),

		FundTrackerRepo:          NewFundTrackerRepository(db),
		MasterDataRepo:           NewMasterDataRepository(db),
		MasterDataPermissionRepo: NewMasterDataPermissionRepository(db),
	}
}
