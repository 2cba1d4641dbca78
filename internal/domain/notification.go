package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notification struct {
	ID          uuid.UUID        `json:"id" db:"id"`
	EventID     uuid.UUID        `json:"-" db:"event_id"`
	RecipientID uuid.UUID        `json:"recipient_id" db:"recipient_id"`
	Type        NotificationType `json:"type" db:"type"`
	Title       string           `json:"title" db:"title"`
	Message     string           `json:"message" db:"message"`
	RelatedID   *uuid.UUID       `json:"related_id,omitempty" db:"related_id"`
	IsRead      bool             `json:"read" db:"is_read"`
	ReadAt      *time.Time       `json:"read_at,omitempty" db:"read_at"`
	CreatedAt   time.Time        `json:"created_at" db:"created_at"`
}

type NotificationType string

const (
	NotifNotice       NotificationType = "notice"
	NotifMessage      NotificationType = "message"
	NotifAnnouncement NotificationType = "announcement"
)
