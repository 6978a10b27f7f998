// Package notification records and delivers in-app notifications.
package notification

import (
	"context"
	"log"

	"github.com/maple-advisory/crm-backend/internal/repository"
	"github.com/maple-advisory/crm-backend/internal/socket"
	"github.com/maple-advisory/crm-backend/internal/types"
)

// Notification types
const (
	TypeLeadAssigned        = "LEAD_ASSIGNED"
	TypeLeadConverted       = "LEAD_CONVERTED"
	TypeLeadStale           = "LEAD_STALE"
	TypeProjectOverdue      = "PROJECT_OVERDUE"
	TypeCommentAdded        = "COMMENT_ADDED"
	TypePermissionRequested = "PERMISSION_REQUESTED"
	TypePermissionApproved  = "PERMISSION_APPROVED"
	TypePermissionRevoked   = "PERMISSION_REVOKED"
)

// Service persists notifications and pushes them over the websocket hub when
// a broadcaster is attached.
type Service struct {
	notificationRepo repository.NotificationRepository
	userRepo         repository.UserRepository
	broadcaster      *socket.Broadcaster
}

func NewService(notificationRepo repository.NotificationRepository, userRepo repository.UserRepository) *Service {
	return &Service{notificationRepo: notificationRepo, userRepo: userRepo}
}

func (s *Service) SetBroadcaster(b *socket.Broadcaster) {
	s.broadcaster = b
}

// Notify stores a notification for one user and pushes it live. Delivery
// failures are logged, never propagated: notifications are best-effort.
func (s *Service) Notify(ctx context.Context, userID, notifType, title, message string, entityType, entityID *string) {
	n := &repository.Notification{
		UserID:     userID,
		Type:       notifType,
		Title:      title,
		Message:    message,
		EntityType: entityType,
		EntityID:   entityID,
	}
	if err := s.notificationRepo.Create(ctx, n); err != nil {
		log.Printf("[Notification] Failed to store notification for user %s: %v", userID, err)
		return
	}

	if s.broadcaster != nil {
		s.broadcaster.SendNotification(userID, map[string]interface{}{
			"id":      n.ID,
			"type":    n.Type,
			"title":   n.Title,
			"message": n.Message,
		})
		if unread, err := s.notificationRepo.CountUnread(ctx, userID); err == nil {
			s.broadcaster.SendNotificationCount(userID, unread, unread)
		}
	}
}

// NotifyAdmins sends the notification to every admin user.
func (s *Service) NotifyAdmins(ctx context.Context, notifType, title, message string, entityType, entityID *string) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		log.Printf("[Notification] Failed to list users: %v", err)
		return
	}
	for _, u := range users {
		if u.Role == types.RoleAdmin {
			s.Notify(ctx, u.ID, notifType, title, message, entityType, entityID)
		}
	}
}

func (s *Service) List(ctx context.Context, userID string, limit int) ([]*repository.Notification, error) {
	return s.notificationRepo.FindByUser(ctx, userID, limit)
}

func (s *Service) CountUnread(ctx context.Context, userID string) (int, error) {
	return s.notificationRepo.CountUnread(ctx, userID)
}

func (s *Service) MarkRead(ctx context.Context, id string) error {
	return s.notificationRepo.MarkRead(ctx, id)
}

func (s *Service) MarkAllRead(ctx context.Context, userID string) error {
	return s.notificationRepo.MarkAllRead(ctx, userID)
}
