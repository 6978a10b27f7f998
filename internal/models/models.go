package models

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/maple-advisory/crm-backend/internal/repository"
)

// ============================================
// Auth DTOs
// ============================================

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email"`
	Username  string `json:"username" binding:"required,min=2"`
	Password  string `json:"password" binding:"required,min=8"`
	FirstName string `json:"firstName" binding:"required"`
	LastName  string `json:"lastName"`
	Role      string `json:"role"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

type AuthResponse struct {
	User         UserResponse `json:"user"`
	AccessToken  string       `json:"accessToken"`
	RefreshToken string       `json:"refreshToken"`
}

// ============================================
// User DTOs
// ============================================

type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Username  string    `json:"username"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      string    `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

type UpdateUserRequest struct {
	FirstName *string `json:"firstName,omitempty"`
	LastName  *string `json:"lastName,omitempty"`
	Password  *string `json:"password,omitempty"`
	Role      *string `json:"role,omitempty"`
}

func ToUserResponse(u *repository.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Email:     u.Email,
		Username:  u.Username,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================
// Lead DTOs
// ============================================

type CreateLeadRequest struct {
	CompanyName           string           `json:"companyName" binding:"required"`
	Sector                string           `json:"sector"`
	CustomSector          *string          `json:"customSector,omitempty"`
	TransactionType       string           `json:"transactionType"`
	CustomTransactionType *string          `json:"customTransactionType,omitempty"`
	ClientPOC             string           `json:"clientPoc"`
	PhoneNumber           string           `json:"phoneNumber"`
	EmailID               string           `json:"emailId"`
	SourceType            string           `json:"sourceType"`
	InboundSource         *string          `json:"inboundSource,omitempty"`
	CustomInboundSource   *string          `json:"customInboundSource,omitempty"`
	OutboundSource        *string          `json:"outboundSource,omitempty"`
	AcceptanceStage       string           `json:"acceptanceStage"`
	Status                string           `json:"status"`
	DealSize              *decimal.Decimal `json:"dealSize,omitempty"`
	LastContacted         *time.Time       `json:"lastContacted,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	LeadAssignment        *string          `json:"leadAssignment,omitempty"`
	CoLeadAssignment      *string          `json:"coLeadAssignment,omitempty"`
	ConvertImmediately    bool             `json:"convertImmediately"`
}

type UpdateLeadRequest struct {
	CompanyName           *string          `json:"companyName,omitempty"`
	Sector                *string          `json:"sector,omitempty"`
	CustomSector          *string          `json:"customSector,omitempty"`
	TransactionType       *string          `json:"transactionType,omitempty"`
	CustomTransactionType *string          `json:"customTransactionType,omitempty"`
	ClientPOC             *string          `json:"clientPoc,omitempty"`
	PhoneNumber           *string          `json:"phoneNumber,omitempty"`
	EmailID               *string          `json:"emailId,omitempty"`
	SourceType            *string          `json:"sourceType,omitempty"`
	InboundSource         *string          `json:"inboundSource,omitempty"`
	CustomInboundSource   *string          `json:"customInboundSource,omitempty"`
	OutboundSource        *string          `json:"outboundSource,omitempty"`
	AcceptanceStage       *string          `json:"acceptanceStage,omitempty"`
	Status                *string          `json:"status,omitempty"`
	DealSize              *decimal.Decimal `json:"dealSize,omitempty"`
	LastContacted         *time.Time       `json:"lastContacted,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	LeadAssignment        *string          `json:"leadAssignment,omitempty"`
	CoLeadAssignment      *string          `json:"coLeadAssignment,omitempty"`
}

type LeadResponse struct {
	ID                    string           `json:"id"`
	CompanyName           string           `json:"companyName"`
	Sector                string           `json:"sector"`
	CustomSector          *string          `json:"customSector,omitempty"`
	TransactionType       string           `json:"transactionType"`
	CustomTransactionType *string          `json:"customTransactionType,omitempty"`
	ClientPOC             string           `json:"clientPoc"`
	PhoneNumber           string           `json:"phoneNumber"`
	EmailID               string           `json:"emailId"`
	SourceType            string           `json:"sourceType"`
	InboundSource         *string          `json:"inboundSource,omitempty"`
	CustomInboundSource   *string          `json:"customInboundSource,omitempty"`
	OutboundSource        *string          `json:"outboundSource,omitempty"`
	AcceptanceStage       string           `json:"acceptanceStage"`
	Status                string           `json:"status"`
	DealSize              *decimal.Decimal `json:"dealSize,omitempty"`
	LastContacted         *time.Time       `json:"lastContacted,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	OwnerID               string           `json:"ownerId"`
	LeadAssignment        *string          `json:"leadAssignment,omitempty"`
	CoLeadAssignment      *string          `json:"coLeadAssignment,omitempty"`
	IsConverted           bool             `json:"isConverted"`
	ConvertedClientID     *string          `json:"convertedClientId,omitempty"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

type LeadStatsResponse struct {
	Total     int            `json:"total"`
	Converted int            `json:"converted"`
	ThisMonth int            `json:"thisMonth"`
	ByStatus  map[string]int `json:"byStatus"`
}

func ToLeadResponse(l *repository.Lead) LeadResponse {
	return LeadResponse{
		ID:                    l.ID,
		CompanyName:           l.CompanyName,
		Sector:                l.Sector,
		CustomSector:          l.CustomSector,
		TransactionType:       l.TransactionType,
		CustomTransactionType: l.CustomTransactionType,
		ClientPOC:             l.ClientPOC,
		PhoneNumber:           l.PhoneNumber,
		EmailID:               l.EmailID,
		SourceType:            l.SourceType,
		InboundSource:         l.InboundSource,
		CustomInboundSource:   l.CustomInboundSource,
		OutboundSource:        l.OutboundSource,
		AcceptanceStage:       l.AcceptanceStage,
		Status:                l.Status,
		DealSize:              l.DealSize,
		LastContacted:         l.LastContacted,
		Notes:                 l.Notes,
		OwnerID:               l.OwnerID,
		LeadAssignment:        l.LeadAssignment,
		CoLeadAssignment:      l.CoLeadAssignment,
		IsConverted:           l.IsConverted,
		ConvertedClientID:     l.ConvertedClientID,
		CreatedAt:             l.CreatedAt,
		UpdatedAt:             l.UpdatedAt,
	}
}

func ToLeadResponses(leads []*repository.Lead) []LeadResponse {
	out := make([]LeadResponse, 0, len(leads))
	for _, l := range leads {
		out = append(out, ToLeadResponse(l))
	}
	return out
}

// ============================================
// Client DTOs
// ============================================

type CreateClientRequest struct {
	CompanyName           string           `json:"companyName" binding:"required"`
	Sector                string           `json:"sector"`
	CustomSector          *string          `json:"customSector,omitempty"`
	TransactionType       string           `json:"transactionType"`
	CustomTransactionType *string          `json:"customTransactionType,omitempty"`
	ClientPOC             string           `json:"clientPoc"`
	PhoneNumber           string           `json:"phoneNumber"`
	EmailID               string           `json:"emailId"`
	Status                string           `json:"status"`
	DealSize              *decimal.Decimal `json:"dealSize,omitempty"`
	LastContacted         *time.Time       `json:"lastContacted,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	LeadAssignment        *string          `json:"leadAssignment,omitempty"`
	CoLeadAssignment      *string          `json:"coLeadAssignment,omitempty"`
}

type UpdateClientRequest struct {
	CompanyName           *string          `json:"companyName,omitempty"`
	Sector                *string          `json:"sector,omitempty"`
	CustomSector          *string          `json:"customSector,omitempty"`
	TransactionType       *string          `json:"transactionType,omitempty"`
	CustomTransactionType *string          `json:"customTransactionType,omitempty"`
	ClientPOC             *string          `json:"clientPoc,omitempty"`
	PhoneNumber           *string          `json:"phoneNumber,omitempty"`
	EmailID               *string          `json:"emailId,omitempty"`
	Status                *string          `json:"status,omitempty"`
	DealSize              *decimal.Decimal `json:"dealSize,omitempty"`
	LastContacted         *time.Time       `json:"lastContacted,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	LeadAssignment        *string          `json:"leadAssignment,omitempty"`
	CoLeadAssignment      *string          `json:"coLeadAssignment,omitempty"`
}

type ClientResponse struct {
	ID                    string           `json:"id"`
	CompanyName           string           `json:"companyName"`
	Sector                string           `json:"sector"`
	CustomSector          *string          `json:"customSector,omitempty"`
	TransactionType       string           `json:"transactionType"`
	CustomTransactionType *string          `json:"customTransactionType,omitempty"`
	ClientPOC             string           `json:"clientPoc"`
	PhoneNumber           string           `json:"phoneNumber"`
	EmailID               string           `json:"emailId"`
	Status                string           `json:"status"`
	DealSize              *decimal.Decimal `json:"dealSize,omitempty"`
	LastContacted         *time.Time       `json:"lastContacted,omitempty"`
	Notes                 *string          `json:"notes,omitempty"`
	ConvertedFromLeadID   *string          `json:"convertedFromLeadId,omitempty"`
	OwnerID               string           `json:"ownerId"`
	LeadAssignment        *string          `json:"leadAssignment,omitempty"`
	CoLeadAssignment      *string          `json:"coLeadAssignment,omitempty"`
	CreatedAt             time.Time        `json:"createdAt"`
	UpdatedAt             time.Time        `json:"updatedAt"`
}

func ToClientResponse(c *repository.Client) ClientResponse {
	return ClientResponse{
		ID:                    c.ID,
		CompanyName:           c.CompanyName,
		Sector:                c.Sector,
		CustomSector:          c.CustomSector,
		TransactionType:       c.TransactionType,
		CustomTransactionType: c.CustomTransactionType,
		ClientPOC:             c.ClientPOC,
		PhoneNumber:           c.PhoneNumber,
		EmailID:               c.EmailID,
		Status:                c.Status,
		DealSize:              c.DealSize,
		LastContacted:         c.LastContacted,
		Notes:                 c.Notes,
		ConvertedFromLeadID:   c.ConvertedFromLeadID,
		OwnerID:               c.OwnerID,
		LeadAssignment:        c.LeadAssignment,
		CoLeadAssignment:      c.CoLeadAssignment,
		CreatedAt:             c.CreatedAt,
		UpdatedAt:             c.UpdatedAt,
	}
}

func ToClientResponses(clients []*repository.Client) []ClientResponse {
	out := make([]ClientResponse, 0, len(clients))
	for _, c := range clients {
		out = append(out, ToClientResponse(c))
	}
	return out
}

// ============================================
// Conversion DTOs
// ============================================

type ConversionResponse struct {
	Lead   LeadResponse   `json:"lead"`
	Client ClientResponse `json:"client"`
}

// ============================================
// Comment DTOs
// ============================================

type CreateCommentRequest struct {
	Content         string  `json:"content" binding:"required"`
	CommentType     string  `json:"commentType"`
	ParentCommentID *string `json:"parentCommentId,omitempty"`
}

type CommentResponse struct {
	ID              string        `json:"id"`
	EntityID        string        `json:"entityId"`
	AuthorID        string        `json:"authorId"`
	ParentCommentID *string       `json:"parentCommentId,omitempty"`
	CommentType     string        `json:"commentType"`
	Content         string        `json:"content"`
	CreatedAt       time.Time     `json:"createdAt"`
	Author          *UserResponse `json:"author,omitempty"`
}

func ToCommentResponse(c *repository.Comment) CommentResponse {
	resp := CommentResponse{
		ID:              c.ID,
		EntityID:        c.EntityID,
		AuthorID:        c.AuthorID,
		ParentCommentID: c.ParentCommentID,
		CommentType:     c.CommentType,
		Content:         c.Content,
		CreatedAt:       c.CreatedAt,
	}
	if c.Author != nil {
		author := ToUserResponse(c.Author)
		resp.Author = &author
	}
	return resp
}

func ToCommentResponses(comments []*repository.Comment) []CommentResponse {
	out := make([]CommentResponse, 0, len(comments))
	for _, c := range comments {
		out = append(out, ToCommentResponse(c))
	}
	return out
}

// ============================================
// Project DTOs
// ============================================

type CreateProjectRequest struct {
	Name        string     `json:"name" binding:"required"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ClientID    *string    `json:"clientId,omitempty"`
}

type UpdateProjectRequest struct {
	Name        *string    `json:"name,omitempty"`
	Description *string    `json:"description,omitempty"`
	Status      *string    `json:"status,omitempty"`
	Priority    *string    `json:"priority,omitempty"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	ClientID    *string    `json:"clientId,omitempty"`
}

type AddProjectMemberRequest struct {
	UserID string `json:"userId" binding:"required"`
}

type ProjectResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Description *string    `json:"description,omitempty"`
	Status      string     `json:"status"`
	Priority    string     `json:"priority"`
	StartDate   *time.Time `json:"startDate,omitempty"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	OwnerID     string     `json:"ownerId"`
	ClientID    *string    `json:"clientId,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type ProjectMemberResponse struct {
	ID        string        `json:"id"`
	ProjectID string        `json:"projectId"`
	UserID    string        `json:"userId"`
	JoinedAt  time.Time     `json:"joinedAt"`
	User      *UserResponse `json:"user,omitempty"`
}

func ToProjectResponse(p *repository.Project) ProjectResponse {
	return ProjectResponse{
		ID:          p.ID,
		Name:        p.Name,
		Description: p.Description,
		Status:      p.Status,
		Priority:    p.Priority,
		StartDate:   p.StartDate,
		DueDate:     p.DueDate,
		OwnerID:     p.OwnerID,
		ClientID:    p.ClientID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToProjectResponses(projects []*repository.Project) []ProjectResponse {
	out := make([]ProjectResponse, 0, len(projects))
	for _, p := range projects {
		out = append(out, ToProjectResponse(p))
	}
	return out
}

func ToProjectMemberResponse(m *repository.ProjectMember) ProjectMemberResponse {
	resp := ProjectMemberResponse{
		ID:        m.ID,
		ProjectID: m.ProjectID,
		UserID:    m.UserID,
		JoinedAt:  m.JoinedAt,
	}
	if m.User != nil {
		user := ToUserResponse(m.User)
		resp.User = &user
	}
	return resp
}

func ToProjectMemberResponses(members []*repository.ProjectMember) []ProjectMemberResponse {
	out := make([]ProjectMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, ToProjectMemberResponse(m))
	}
	return out
}

// ============================================
// Fund Tracker DTOs
// ============================================

type CreateFundTrackerRequest struct {
	FundName       string           `json:"fundName" binding:"required"`
	Website        string           `json:"website"`
	FundType       string           `json:"fundType"`
	Stages         []string         `json:"stages"`
	Source         string           `json:"source"`
	TicketSize     *decimal.Decimal `json:"ticketSize,omitempty"`
	ContactPerson1 string           `json:"contactPerson1" binding:"required"`
	Designation1   string           `json:"designation1"`
	Email1         string           `json:"email1" binding:"required"`
	Phone1         string           `json:"phone1"`
	ContactPerson2 string           `json:"contactPerson2"`
	Designation2   string           `json:"designation2"`
	Email2         string           `json:"email2"`
	Phone2         string           `json:"phone2"`
	Notes          string           `json:"notes"`
	Force          bool             `json:"force"`
	OverwriteID    string           `json:"overwriteId"`
}

type FundTrackerResponse struct {
	ID             string           `json:"id"`
	FundName       string           `json:"fundName"`
	Website        string           `json:"website"`
	FundType       string           `json:"fundType"`
	Stages         []string         `json:"stages"`
	Source         string           `json:"source"`
	TicketSize     *decimal.Decimal `json:"ticketSize,omitempty"`
	ContactPerson1 string           `json:"contactPerson1"`
	Designation1   string           `json:"designation1"`
	Email1         string           `json:"email1"`
	Phone1         string           `json:"phone1"`
	ContactPerson2 string           `json:"contactPerson2"`
	Designation2   string           `json:"designation2"`
	Email2         string           `json:"email2"`
	Phone2         string           `json:"phone2"`
	Notes          string           `json:"notes"`
	CreatedAt      time.Time        `json:"createdAt"`
	UpdatedAt      time.Time        `json:"updatedAt"`
}

func ToFundTrackerResponse(f *repository.FundTracker) FundTrackerResponse {
	return FundTrackerResponse{
		ID:             f.ID,
		FundName:       f.FundName,
		Website:        f.Website,
		FundType:       f.FundType,
		Stages:         []string(f.Stages),
		Source:         f.Source,
		TicketSize:     f.TicketSize,
		ContactPerson1: f.ContactPerson1,
		Designation1:   f.Designation1,
		Email1:         f.Email1,
		Phone1:         f.Phone1,
		ContactPerson2: f.ContactPerson2,
		Designation2:   f.Designation2,
		Email2:         f.Email2,
		Phone2:         f.Phone2,
		Notes:          f.Notes,
		CreatedAt:      f.CreatedAt,
		UpdatedAt:      f.UpdatedAt,
	}
}

func ToFundTrackerResponses(funds []*repository.FundTracker) []FundTrackerResponse {
	out := make([]FundTrackerResponse, 0, len(funds))
	for _, f := range funds {
		out = append(out, ToFundTrackerResponse(f))
	}
	return out
}

// ============================================
// Master Data DTOs
// ============================================

type CreateMasterDataRequest struct {
	Name        string `json:"name" binding:"required"`
	Designation string `json:"designation"`
	Company     string `json:"company"`
	Industry    string `json:"industry"`
	Address     string `json:"address"`
	Phone       string `json:"phone"`
	Email       string `json:"email"`
	Notes       string `json:"notes"`
	Force       bool   `json:"force"`
	OverwriteID string `json:"overwriteId"`
}

type MasterDataResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Designation string    `json:"designation"`
	Company     string    `json:"company"`
	Industry    string    `json:"industry"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Email       string    `json:"email"`
	Notes       string    `json:"notes"`
	AddedBy     string    `json:"addedBy"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func ToMasterDataResponse(e *repository.ClientMasterData) MasterDataResponse {
	return MasterDataResponse{
		ID:          e.ID,
		Name:        e.Name,
		Designation: e.Designation,
		Company:     e.Company,
		Industry:    e.Industry,
		Address:     e.Address,
		Phone:       e.Phone,
		Email:       e.Email,
		Notes:       e.Notes,
		AddedBy:     e.AddedBy,
		CreatedAt:   e.CreatedAt,
		UpdatedAt:   e.UpdatedAt,
	}
}

func ToMasterDataResponses(entries []*repository.ClientMasterData) []MasterDataResponse {
	out := make([]MasterDataResponse, 0, len(entries))
	for _, e := range entries {
		out = append(out, ToMasterDataResponse(e))
	}
	return out
}

type MasterDataPermissionResponse struct {
	ID            string     `json:"id"`
	UserID        string     `json:"userId"`
	HasViewAccess bool       `json:"hasViewAccess"`
	RequestedAt   *time.Time `json:"requestedAt,omitempty"`
	ApprovedAt    *time.Time `json:"approvedAt,omitempty"`
	ApprovedBy    *string    `json:"approvedBy,omitempty"`
}

func ToMasterDataPermissionResponse(p *repository.MasterDataPermission) MasterDataPermissionResponse {
	return MasterDataPermissionResponse{
		ID:            p.ID,
		UserID:        p.UserID,
		HasViewAccess: p.HasViewAccess,
		RequestedAt:   p.RequestedAt,
		ApprovedAt:    p.ApprovedAt,
		ApprovedBy:    p.ApprovedBy,
	}
}

func ToMasterDataPermissionResponses(perms []*repository.MasterDataPermission) []MasterDataPermissionResponse {
	out := make([]MasterDataPermissionResponse, 0, len(perms))
	for _, p := range perms {
		out = append(out, ToMasterDataPermissionResponse(p))
	}
	return out
}

// ============================================
// Import DTOs
// ============================================

type ImportRequest struct {
	FileData string `json:"fileData" binding:"required"`
}

// ============================================
// Team Member DTOs
// ============================================

type CreateTeamMemberRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email"`
	Position string `json:"position"`
}

type UpdateTeamMemberRequest struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Position *string `json:"position,omitempty"`
	IsActive *bool   `json:"isActive,omitempty"`
}

type TeamMemberResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Position  string    `json:"position"`
	IsActive  bool      `json:"isActive"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToTeamMemberResponse(m *repository.TeamMember) TeamMemberResponse {
	return TeamMemberResponse{
		ID:        m.ID,
		Name:      m.Name,
		Email:     m.Email,
		Position:  m.Position,
		IsActive:  m.IsActive,
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}

func ToTeamMemberResponses(members []*repository.TeamMember) []TeamMemberResponse {
	out := make([]TeamMemberResponse, 0, len(members))
	for _, m := range members {
		out = append(out, ToTeamMemberResponse(m))
	}
	return out
}

// ============================================
// Partner DTOs
// ============================================

type CreatePartnerRequest struct {
	Name    string `json:"name" binding:"required"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Notes   string `json:"notes"`
}

type UpdatePartnerRequest struct {
	Name    *string `json:"name,omitempty"`
	Company *string `json:"company,omitempty"`
	Email   *string `json:"email,omitempty"`
	Phone   *string `json:"phone,omitempty"`
	Notes   *string `json:"notes,omitempty"`
}

type PartnerResponse struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Company   string    `json:"company"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Notes     string    `json:"notes"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func ToPartnerResponse(p *repository.Partner) PartnerResponse {
	return PartnerResponse{
		ID:        p.ID,
		Name:      p.Name,
		Company:   p.Company,
		Email:     p.Email,
		Phone:     p.Phone,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
		UpdatedAt: p.UpdatedAt,
	}
}

func ToPartnerResponses(partners []*repository.Partner) []PartnerResponse {
	out := make([]PartnerResponse, 0, len(partners))
	for _, p := range partners {
		out = append(out, ToPartnerResponse(p))
	}
	return out
}

// ============================================
// Outreach DTOs
// ============================================

type CreateCampaignRequest struct {
	Name        string     `json:"name" binding:"required"`
	Subject     string     `json:"subject" binding:"required"`
	Body        string     `json:"body" binding:"required"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

type UpdateCampaignRequest struct {
	Name        *string    `json:"name,omitempty"`
	Subject     *string    `json:"subject,omitempty"`
	Body        *string    `json:"body,omitempty"`
	Status      *string    `json:"status,omitempty"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
}

type AddRecipientsRequest struct {
	Recipients []RecipientInput `json:"recipients" binding:"required,min=1"`
}

type RecipientInput struct {
	Name  string `json:"name"`
	Email string `json:"email" binding:"required"`
}

type CampaignResponse struct {
	ID          string     `json:"id"`
	Name        string     `json:"name"`
	Subject     string     `json:"subject"`
	Body        string     `json:"body"`
	Status      string     `json:"status"`
	ScheduledAt *time.Time `json:"scheduledAt,omitempty"`
	SentAt      *time.Time `json:"sentAt,omitempty"`
	CreatedBy   string     `json:"createdBy"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

type OutreachEmailResponse struct {
	ID             string     `json:"id"`
	CampaignID     string     `json:"campaignId"`
	RecipientName  string     `json:"recipientName"`
	RecipientEmail string     `json:"recipientEmail"`
	Status         string     `json:"status"`
	Error          *string    `json:"error,omitempty"`
	SentAt         *time.Time `json:"sentAt,omitempty"`
	CreatedAt      time.Time  `json:"createdAt"`
}

func ToCampaignResponse(c *repository.OutreachCampaign) CampaignResponse {
	return CampaignResponse{
		ID:          c.ID,
		Name:        c.Name,
		Subject:     c.Subject,
		Body:        c.Body,
		Status:      c.Status,
		ScheduledAt: c.ScheduledAt,
		SentAt:      c.SentAt,
		CreatedBy:   c.CreatedBy,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func ToCampaignResponses(campaigns []*repository.OutreachCampaign) []CampaignResponse {
	out := make([]CampaignResponse, 0, len(campaigns))
	for _, c := range campaigns {
		out = append(out, ToCampaignResponse(c))
	}
	return out
}

func ToOutreachEmailResponse(e *repository.OutreachEmail) OutreachEmailResponse {
	return OutreachEmailResponse{
		ID:             e.ID,
		CampaignID:     e.CampaignID,
		RecipientName:  e.RecipientName,
		RecipientEmail: e.RecipientEmail,
		Status:         e.Status,
		Error:          e.Error,
		SentAt:         e.SentAt,
		CreatedAt:      e.CreatedAt,
	}
}

func ToOutreachEmailResponses(emails []*repository.OutreachEmail) []OutreachEmailResponse {
	out := make([]OutreachEmailResponse, 0, len(emails))
	for _, e := range emails {
		out = append(out, ToOutreachEmailResponse(e))
	}
	return out
}

// ============================================
// Notification DTOs
// ============================================

type NotificationResponse struct {
	ID         string    `json:"id"`
	UserID     string    `json:"userId"`
	Type       string    `json:"type"`
	Title      string    `json:"title"`
	Message    string    `json:"message"`
	EntityType *string   `json:"entityType,omitempty"`
	EntityID   *string   `json:"entityId,omitempty"`
	IsRead     bool      `json:"isRead"`
	CreatedAt  time.Time `json:"createdAt"`
}

type NotificationCountResponse struct {
	Unread int `json:"unread"`
}

func ToNotificationResponse(n *repository.Notification) NotificationResponse {
	return NotificationResponse{
		ID:         n.ID,
		UserID:     n.UserID,
		Type:       n.Type,
		Title:      n.Title,
		Message:    n.Message,
		EntityType: n.EntityType,
		EntityID:   n.EntityID,
		IsRead:     n.IsRead,
		CreatedAt:  n.CreatedAt,
	}
}

func ToNotificationResponses(notifications []*repository.Notification) []NotificationResponse {
	out := make([]NotificationResponse, 0, len(notifications))
	for _, n := range notifications {
		out = append(out, ToNotificationResponse(n))
	}
	return out
}

// ============================================
// Bot DTOs
// ============================================

type BotLinkRequest struct {
	Platform       string `json:"platform" binding:"required"`
	PlatformUserID string `json:"platformUserId" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required"`
}

type BotIdentityRequest struct {
	Platform       string `json:"platform" binding:"required"`
	PlatformUserID string `json:"platformUserId" binding:"required"`
}

type BotCreateLeadRequest struct {
	Platform       string `json:"platform" binding:"required"`
	PlatformUserID string `json:"platformUserId" binding:"required"`
	CompanyName    string `json:"companyName" binding:"required"`
	Sector         string `json:"sector"`
	ClientPOC      string `json:"clientPoc"`
	PhoneNumber    string `json:"phoneNumber"`
	EmailID        string `json:"emailId"`
	SourceType     string `json:"sourceType"`
	Notes          string `json:"notes"`
}

type BotConvertRequest struct {
	Platform       string `json:"platform" binding:"required"`
	PlatformUserID string `json:"platformUserId" binding:"required"`
	LeadID         string `json:"leadId" binding:"required"`
}

type BotLinkResponse struct {
	Linked bool         `json:"linked"`
	User   UserResponse `json:"user"`
}
