// internal/seed/seed.go
package seed

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/lib/pq"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/roster"
	"github.com/maple-advisory/crm-backend/internal/types"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

func SeedData(repos *repository.Repositories) {
	ctx := context.Background()

	// Check if data already exists
	users, _ := repos.UserRepo.FindAll(ctx)
	if len(users) > 0 {
		log.Println("[Seed] Data already exists, skipping...")
		return
	}

	log.Println("[Seed] 🌱 Creating initial data...")

	// ============================================
	// CREATE USERS
	// ============================================
	password, _ := bcrypt.GenerateFromPassword([]byte("password123"), bcrypt.DefaultCost)

	// 1. RAHUL - Admin
	rahul := &repository.User{
		Email:     "rahul.mehta@mapleadvisory.in",
		Username:  "rahul",
		Password:  string(password),
		FirstName: "Rahul",
		LastName:  "Mehta",
		Role:      types.RoleAdmin,
	}
	repos.UserRepo.Create(ctx, rahul)

	// 2. PRIYA - Regular user
	priya := &repository.User{
		Email:     "priya.nair@mapleadvisory.in",
		Username:  "priya",
		Password:  string(password),
		FirstName: "Priya",
		LastName:  "Nair",
		Role:      types.RoleUser,
	}
	repos.UserRepo.Create(ctx, priya)

	// 3. AAKASH - Regular user
	aakash := &repository.User{
		Email:     "aakash.sharma@mapleadvisory.in",
		Username:  "aakash",
		Password:  string(password),
		FirstName: "Aakash",
		LastName:  "Sharma",
		Role:      types.RoleUser,
	}
	repos.UserRepo.Create(ctx, aakash)

	log.Printf("✅ Created 3 users: Rahul (admin), Priya, Aakash")

	// ============================================
	// CREATE TEAM MEMBER ROSTER
	// The roster drives the lead/co-lead assignment pickers.
	// ============================================
	positions := map[string]string{
		"Rahul Mehta":      "Managing Partner",
		"Aakash Sharma":    "Director",
		"Priya Nair":       "Vice President",
		"Vikram Singhania": "Associate",
		"Ananya Iyer":      "Associate",
		"Rohan Kapoor":     "Analyst",
	}
	for _, name := range roster.Default {
		member := &repository.TeamMember{
			Name:     name,
			Email:    rosterEmail(name),
			Position: positions[name],
			IsActive: true,
		}
		repos.TeamMemberRepo.Create(ctx, member)
	}
	log.Printf("✅ Created %d roster members", len(roster.Default))

	// ============================================
	// CREATE LEADS
	// One fresh inbound, one outbound that has gone stale,
	// one converted into a client.
	// ============================================
	recent := time.Now().AddDate(0, 0, -3)
	stale := time.Now().AddDate(0, 0, -45)

	fresh := &repository.Lead{
		CompanyName:     "Veda Healthtech",
		Sector:          "Healthcare",
		TransactionType: "Fundraise",
		ClientPOC:       "Nisha Reddy",
		PhoneNumber:     "+91 98200 11223",
		EmailID:         "nisha@vedahealthtech.com",
		SourceType:      types.SourceInbound,
		InboundSource:   stringPtr("Website"),
		AcceptanceStage: types.AcceptanceUndecided,
		Status:          types.LeadStatusInitialDiscussion,
		DealSize:        decimalPtr("75000000"),
		LastContacted:   &recent,
		OwnerID:         priya.ID,
		LeadAssignment:  stringPtr("Priya Nair"),
	}
	repos.LeadRepo.Create(ctx, fresh)

	dormant := &repository.Lead{
		CompanyName:      "Kosmos Logistics",
		Sector:           "Logistics",
		TransactionType:  "M&A",
		ClientPOC:        "Arjun Malhotra",
		PhoneNumber:      "+91 99870 44556",
		EmailID:          "arjun@kosmoslogistics.in",
		SourceType:       types.SourceOutbound,
		OutboundSource:   stringPtr("Conference"),
		AcceptanceStage:  types.AcceptanceAccepted,
		Status:           types.LeadStatusNDA,
		LastContacted:    &stale,
		OwnerID:          aakash.ID,
		LeadAssignment:   stringPtr("Aakash Sharma"),
		CoLeadAssignment: stringPtr("Rohan Kapoor"),
	}
	repos.LeadRepo.Create(ctx, dormant)

	won := &repository.Lead{
		CompanyName:     "Surya Renewables",
		Sector:          "Energy",
		TransactionType: "Fundraise",
		ClientPOC:       "Meera Joshi",
		PhoneNumber:     "+91 98111 77889",
		EmailID:         "meera@suryarenewables.com",
		SourceType:      types.SourceInbound,
		InboundSource:   stringPtr("Referral"),
		AcceptanceStage: types.AcceptanceAccepted,
		Status:          types.LeadStatusEngagement,
		DealSize:        decimalPtr("250000000"),
		LastContacted:   &recent,
		OwnerID:         rahul.ID,
		LeadAssignment:  stringPtr("Rahul Mehta"),
	}
	repos.LeadRepo.Create(ctx, won)

	// Convert Surya Renewables into a client, keeping the backlink.
	client := &repository.Client{
		CompanyName:         won.CompanyName,
		Sector:              won.Sector,
		TransactionType:     won.TransactionType,
		ClientPOC:           won.ClientPOC,
		PhoneNumber:         won.PhoneNumber,
		EmailID:             won.EmailID,
		Status:              types.ClientStatusNDASigned,
		DealSize:            won.DealSize,
		LastContacted:       won.LastContacted,
		ConvertedFromLeadID: &won.ID,
		OwnerID:             won.OwnerID,
		LeadAssignment:      won.LeadAssignment,
	}
	repos.ClientRepo.Create(ctx, client)
	repos.LeadRepo.MarkConverted(ctx, won.ID, client.ID)

	log.Printf("✅ Created 3 leads (1 converted to client)")

	// ============================================
	// CREATE A PROJECT WITH MEMBERS AND A COMMENT
	// ============================================
	due := time.Now().AddDate(0, 1, 0)
	project := &repository.Project{
		Name:        "Surya Renewables Series B",
		Description: stringPtr("Fundraise mandate for Surya Renewables"),
		Status:      types.ProjectInProgress,
		Priority:    types.PriorityHigh,
		DueDate:     &due,
		OwnerID:     rahul.ID,
		ClientID:    &client.ID,
	}
	repos.ProjectRepo.Create(ctx, project)
	repos.ProjectRepo.AddMember(ctx, &repository.ProjectMember{
		ProjectID: project.ID,
		UserID:    priya.ID,
	})
	repos.ProjectCommentRepo.Create(ctx, &repository.Comment{
		EntityID:    project.ID,
		AuthorID:    rahul.ID,
		CommentType: types.CommentUpdate,
		Content:     "Kickoff call done, data room access requested.",
	})

	log.Printf("✅ Created project: Surya Renewables Series B")

	// ============================================
	// CREATE A FUND TRACKER ENTRY AND A PARTNER
	// ============================================
	repos.FundTrackerRepo.Create(ctx, &repository.FundTracker{
		FundName:       "Banyan Growth Partners",
		Website:        "https://banyangrowth.com",
		FundType:       types.FundPEVC,
		Stages:         pq.StringArray{types.StageEarly, types.StageLate},
		Source:         types.FundSourceMaple,
		TicketSize:     decimalPtr("500000000"),
		ContactPerson1: "Sanjay Kulkarni",
		Designation1:   "Partner",
		Email1:         "sanjay@banyangrowth.com",
		Phone1:         "+91 98922 33445",
	})

	repos.PartnerRepo.Create(ctx, &repository.Partner{
		Name:    "Devika Rao",
		Company: "Rao & Associates",
		Email:   "devika@raoassociates.in",
		Phone:   "+91 98765 66778",
		Notes:   "Legal counsel for M&A mandates",
	})

	log.Println("[Seed] ✅ Initial data created")
}

func rosterEmail(name string) string {
	first := strings.ToLower(strings.Fields(name)[0])
	return first + "@mapleadvisory.in"
}

func stringPtr(s string) *string { return &s }

func decimalPtr(s string) *decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return nil
	}
	return &d
}
