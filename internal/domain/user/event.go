package user

import "github.com/google/uuid"

type AccountEventType string

const (
	AccountEventCreated AccountEventType = "account.created"
	AccountEventDeleted AccountEventType = "account.deleted"
)

type AccountEvent struct {
	EventType AccountEventType `json:"event_type"`
	UserID    uuid.UUID        `json:"user_id"`
	Email     string           `json:"email,omitempty"`
	Avatar    string           `json:"avatar,omitempty"`
}
