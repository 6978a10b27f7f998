package cron

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/maple-advisory/crm-backend/internal/email"
	"github.com/maple-advisory/crm-backend/internal/notification"
	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/service"
	"github.com/robfig/cron/v3"
)

// staleAfter is how long a lead can go without contact before reminders start.
const staleAfter = 30 * 24 * time.Hour

// Scheduler handles scheduled tasks
type Scheduler struct {
	cron        *cron.Cron
	services    *service.Services
	notifSvc    *notification.Service
	emailSvc    *email.Service
	leadRepo    repository.LeadRepository
	projectRepo repository.ProjectRepository
	userRepo    repository.UserRepository
	notifRepo   repository.NotificationRepository
	frontendURL string
}

// NewScheduler creates a new scheduler
func NewScheduler(
	services *service.Services,
	notifSvc *notification.Service,
	emailSvc *email.Service,
	leadRepo repository.LeadRepository,
	projectRepo repository.ProjectRepository,
	userRepo repository.UserRepository,
	notifRepo repository.NotificationRepository,
	frontendURL string,
) *Scheduler {
	return &Scheduler{
		cron:        cron.New(),
		services:    services,
		notifSvc:    notifSvc,
		emailSvc:    emailSvc,
		leadRepo:    leadRepo,
		projectRepo: projectRepo,
		userRepo:    userRepo,
		notifRepo:   notifRepo,
		frontendURL: frontendURL,
	}
}

// Start starts the scheduler
func (s *Scheduler) Start() {
	// Run every day at 9 AM - stale lead reminders
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running stale lead check...")
		s.checkStaleLeads()
	})

	// Run every day at 9 AM - overdue project check
	s.cron.AddFunc("0 9 * * *", func() {
		log.Println("[Cron] Running overdue project check...")
		s.checkOverdueProjects()
	})

	// Dispatch scheduled outreach campaigns - every 5 minutes
	s.cron.AddFunc("*/5 * * * *", func() {
		s.dispatchOutreach()
	})

	// Clean up old notifications - Run every Sunday at midnight
	s.cron.AddFunc("0 0 * * 0", func() {
		log.Println("[Cron] Running notification cleanup...")
		s.cleanupOldNotifications()
	})

	s.cron.Start()
	log.Println("[Cron] Scheduler started")
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.cron.Stop()
	log.Println("[Cron] Scheduler stopped")
}

// checkStaleLeads reminds owners about active leads with no recent contact.
func (s *Scheduler) checkStaleLeads() {
	ctx := context.Background()

	leads, err := s.leadRepo.FindAllActive(ctx)
	if err != nil {
		log.Printf("[Cron] Error finding active leads: %v", err)
		return
	}

	now := time.Now()
	for _, lead := range leads {
		if lead.IsConverted {
			continue
		}

		// Leads never contacted fall back to their creation time.
		lastTouch := lead.CreatedAt
		if lead.LastContacted != nil {
			lastTouch = *lead.LastContacted
		}
		if now.Sub(lastTouch) < staleAfter {
			continue
		}

		daysSince := int(now.Sub(lastTouch).Hours() / 24)
		entityType := "lead"
		s.notifSvc.Notify(ctx, lead.OwnerID, notification.TypeLeadStale,
			"Lead needs a follow-up",
			fmt.Sprintf("%s has had no contact for %d days", lead.CompanyName, daysSince),
			&entityType, &lead.ID)

		owner, err := s.userRepo.FindByID(ctx, lead.OwnerID)
		if err != nil || owner == nil {
			continue
		}
		if err := s.emailSvc.SendStaleLeadReminder(owner.Email, email.StaleLeadData{
			OwnerName:     owner.FirstName,
			CompanyName:   lead.CompanyName,
			DaysSinceLast: daysSince,
			LeadURL:       fmt.Sprintf("%s/leads/%s", s.frontendURL, lead.ID),
		}); err != nil {
			log.Printf("[Cron] Error sending stale lead email for %s: %v", lead.ID, err)
		}
	}
}

// checkOverdueProjects notifies owners about unfinished projects past their due date.
func (s *Scheduler) checkOverdueProjects() {
	ctx := context.Background()

	projects, err := s.projectRepo.FindOverdue(ctx)
	if err != nil {
		log.Printf("[Cron] Error finding overdue projects: %v", err)
		return
	}

	now := time.Now()
	for _, project := range projects {
		if project.DueDate == nil {
			continue
		}
		daysOverdue := int(now.Sub(*project.DueDate).Hours() / 24)
		if daysOverdue < 1 {
			continue
		}

		entityType := "project"
		s.notifSvc.Notify(ctx, project.OwnerID, notification.TypeProjectOverdue,
			"Project overdue",
			fmt.Sprintf("%s is %d days past its due date", project.Name, daysOverdue),
			&entityType, &project.ID)
	}
}

// dispatchOutreach sends any scheduled campaigns whose send time has passed.
func (s *Scheduler) dispatchOutreach() {
	ctx := context.Background()

	if err := s.services.Outreach.DispatchDue(ctx); err != nil {
		log.Printf("[Cron] Error dispatching outreach campaigns: %v", err)
	}
}

// cleanupOldNotifications removes read notifications older than 30 days.
func (s *Scheduler) cleanupOldNotifications() {
	ctx := context.Background()

	deleted, err := s.notifRepo.DeleteReadOlderThan(ctx, time.Now().AddDate(0, 0, -30))
	if err != nil {
		log.Printf("[Cron] Error cleaning up notifications: %v", err)
		return
	}
	if deleted > 0 {
		log.Printf("[Cron] Removed %d old notifications", deleted)
	}
}

// ManualTrigger allows manual triggering of scheduled checks (for testing)
func (s *Scheduler) ManualTrigger(checkType string) {
	switch checkType {
	case "stale_leads":
		s.checkStaleLeads()
	case "overdue_projects":
		s.checkOverdueProjects()
	case "outreach":
		s.dispatchOutreach()
	case "cleanup":
		s.cleanupOldNotifications()
	case "all":
		s.checkStaleLeads()
		s.checkOverdueProjects()
		s.dispatchOutreach()
		s.cleanupOldNotifications()
	}
}
