package service

import (
	"Haven/internal/model"
	"time"
)

type EventType string

const (
	EventConversationCreated  EventType = "conversation.created"
	EventConversationRead     EventType = "conversation.read"
	EventConversationArchived EventType = "conversation.archived"
	EventConversationDeleted  EventType = "conversation.deleted"
	EventMessageSent          EventType = "message.sent"
	EventMessageStatus        EventType = "message.status"
	EventRequestSent          EventType = "request.sent"
	EventRequestAccepted      EventType = "request.accepted"
	EventRequestRefused       EventType = "request.refused"
	EventCommunityCreated     EventType = "community.created"
	EventCommunityJoined      EventType = "community.joined"
	EventCommunityLeft        EventType = "community.left"
	EventCommunityNotify      EventType = "community.notifications"
	EventCommunityCatalog     EventType = "community.catalog"
	EventProfileUpdated       EventType = "profile.updated"
)

// Event 总线广播的变更通知，UserIDs 为空表示面向所有用户
type Event struct {
	Type           EventType           `json:"type"`
	UserIDs        []string            `json:"userIds,omitempty"`
	ConversationID string              `json:"conversationId,omitempty"`
	MessageID      string              `json:"messageId,omitempty"`
	RequestID      string              `json:"requestId,omitempty"`
	CommunityID    string              `json:"communityId,omitempty"`
	Status         model.MessageStatus `json:"status,omitempty"`
	At             time.Time           `json:"at"`
}

// Targets 判断事件是否需要推送给该用户
func (e Event) Targets(userID string) bool {
	if len(e.UserIDs) == 0 {
		return true
	}
	for _, id := range e.UserIDs {
		if id == userID {
			return true
		}
	}
	return false
}
