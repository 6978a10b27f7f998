package socket

// Broadcaster is the typed facade services use to push events to connected
// clients.
type Broadcaster struct {
	hub *Hub
}

func NewBroadcaster(hub *Hub) *Broadcaster {
	return &Broadcaster{hub: hub}
}

func (b *Broadcaster) SendNotification(userID string, notification map[string]interface{}) {
	b.hub.SendToUser(userID, NewMessage(MessageNotification, notification))
}

func (b *Broadcaster) SendNotificationCount(userID string, total, unread int) {
	b.hub.SendToUser(userID, NewMessage(MessageNotificationCount, map[string]interface{}{
		"total":  total,
		"unread": unread,
	}))
}

func (b *Broadcaster) BroadcastLeadCreated(lead map[string]interface{}) {
	b.hub.Broadcast(NewMessage(MessageLeadCreated, lead))
}

func (b *Broadcaster) BroadcastLeadUpdated(lead map[string]interface{}) {
	b.hub.Broadcast(NewMessage(MessageLeadUpdated, lead))
}

func (b *Broadcaster) BroadcastLeadDeleted(leadID string) {
	b.hub.Broadcast(NewMessage(MessageLeadDeleted, map[string]interface{}{"id": leadID}))
}

func (b *Broadcaster) BroadcastLeadConverted(leadID, clientID string) {
	b.hub.Broadcast(NewMessage(MessageLeadConverted, map[string]interface{}{
		"leadId":   leadID,
		"clientId": clientID,
	}))
}

func (b *Broadcaster) BroadcastClientUpdated(client map[string]interface{}) {
	b.hub.Broadcast(NewMessage(MessageClientUpdated, client))
}

func (b *Broadcaster) BroadcastCommentAdded(entityType, entityID string, comment map[string]interface{}) {
	payload := map[string]interface{}{
		"entityType": entityType,
		"entityId":   entityID,
		"comment":    comment,
	}
	b.hub.Broadcast(NewMessage(MessageCommentAdded, payload))
}

func (b *Broadcaster) SendPermissionApproved(userID string) {
	b.hub.SendToUser(userID, NewMessage(MessagePermissionApproved, nil))
}

func (b *Broadcaster) SendPermissionRevoked(userID string) {
	b.hub.SendToUser(userID, NewMessage(MessagePermissionRevoked, nil))
}
