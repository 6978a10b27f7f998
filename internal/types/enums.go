package types

// User roles
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// Lead pipeline status values
const (
	LeadStatusInitialDiscussion = "Initial Discussion"
	LeadStatusNDA               = "NDA"
	LeadStatusEngagement        = "Engagement"
)

// Lead acceptance stage values
const (
	AcceptanceUndecided = "Undecided"
	AcceptanceAccepted  = "Accepted"
	AcceptanceRejected  = "Rejected"
)

// Lead source type values
const (
	SourceInbound  = "Inbound"
	SourceOutbound = "Outbound"
)

// Client pipeline status values
const (
	ClientStatusNDAShared    = "NDA Shared"
	ClientStatusNDASigned    = "NDA Signed"
	ClientStatusIMModel      = "IM/Financial Model"
	ClientStatusInvestor     = "Investor Tracker"
	ClientStatusTermSheet    = "Term Sheet"
	ClientStatusDueDiligence = "Due Diligence"
	ClientStatusAgreement    = "Agreement"
	ClientStatusClosed       = "Transaction closed"
	ClientStatusDropped      = "Client Dropped"
)

// Project status values
const (
	ProjectPlanning   = "planning"
	ProjectInProgress = "in_progress"
	ProjectOnHold     = "on_hold"
	ProjectCompleted  = "completed"
	ProjectCancelled  = "cancelled"
)

// Project priority values
const (
	PriorityLow    = "low"
	PriorityMedium = "medium"
	PriorityHigh   = "high"
	PriorityUrgent = "urgent"
)

// Comment type values (projects and clients)
const (
	CommentUpdate   = "update"
	CommentChange   = "change"
	CommentFeedback = "feedback"
)

// Fund tracker fund types
const (
	FundFamilyOffice = "Family Office"
	FundPEVC         = "PE/VC"
	FundStrategic    = "Strategic"
	FundAngelNetwork = "Angel Network"
)

// Fund tracker investment stages
const (
	StageSeed   = "Seed/Pre-Seed"
	StageEarly  = "Early"
	StageLate   = "Late"
	StagePreIPO = "Pre-IPO"
	StageListed = "Listed"
)

// Fund tracker sources
const (
	FundSourceMaple         = "Maple Tracker"
	FundSourceTracxn        = "Tracxn"
	FundSourcePrivateCircle = "Private Circle"
	FundSourceOthers        = "Others"
)

// Outreach campaign status values
const (
	CampaignDraft     = "draft"
	CampaignScheduled = "scheduled"
	CampaignSending   = "sending"
	CampaignSent      = "sent"
	CampaignFailed    = "failed"
)

// Outreach email status values
const (
	EmailPending = "pending"
	EmailSent    = "sent"
	EmailFailed  = "failed"
)

// Valid value slices for validation
var ValidRoles = []string{RoleAdmin, RoleUser}

var ValidLeadStatuses = []string{
	LeadStatusInitialDiscussion, LeadStatusNDA, LeadStatusEngagement,
}

var ValidAcceptanceStages = []string{
	AcceptanceUndecided, AcceptanceAccepted, AcceptanceRejected,
}

var ValidSourceTypes = []string{SourceInbound, SourceOutbound}

var ValidClientStatuses = []string{
	ClientStatusNDAShared, ClientStatusNDASigned, ClientStatusIMModel,
	ClientStatusInvestor, ClientStatusTermSheet, ClientStatusDueDiligence,
	ClientStatusAgreement, ClientStatusClosed, ClientStatusDropped,
}

var ValidProjectStatuses = []string{
	ProjectPlanning, ProjectInProgress, ProjectOnHold, ProjectCompleted, ProjectCancelled,
}

var ValidPriorities = []string{PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent}

var ValidCommentTypes = []string{CommentUpdate, CommentChange, CommentFeedback}

var ValidFundTypes = []string{FundFamilyOffice, FundPEVC, FundStrategic, FundAngelNetwork}

var ValidFundStages = []string{StageSeed, StageEarly, StageLate, StagePreIPO, StageListed}

var ValidFundSources = []string{
	FundSourceMaple, FundSourceTracxn, FundSourcePrivateCircle, FundSourceOthers,
}

// TerminalClientStatuses mark clients excluded from list views.
var TerminalClientStatuses = []string{ClientStatusClosed, ClientStatusDropped}

// IsValid reports whether value is a member of valid.
func IsValid(value string, valid []string) bool {
	for _, v := range valid {
		if v == value {
			return true
		}
	}
	return false
}
