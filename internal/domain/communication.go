package domain

import (
	"time"

	"github.com/google/uuid"
)

type Communication struct {
	ID          uuid.UUID    `json:"id" db:"id"`
	Title       string       `json:"title" db:"title"`
	Description string       `json:"description" db:"description"`
	CreatedBy   uuid.UUID    `json:"created_by" db:"created_by"`
	Status      ThreadStatus `json:"status" db:"status"`
	CreatedAt   time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at" db:"updated_at"`

	Participants []uuid.UUID            `json:"participants" db:"-"`
	Messages     []CommunicationMessage `json:"messages,omitempty" db:"-"`
}

type CommunicationMessage struct {
	ID              uuid.UUID `json:"id" db:"id"`
	CommunicationID uuid.UUID `json:"communication_id" db:"communication_id"`
	SenderID        uuid.UUID `json:"sender_id" db:"sender_id"`
	Text            string    `json:"text" db:"text"`
	CreatedAt       time.Time `json:"created_at" db:"created_at"`
}

type ThreadStatus string

const (
	ThreadOpen   ThreadStatus = "open"
	ThreadClosed ThreadStatus = "closed"
)

type CreateCommunicationInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

func (in *CreateCommunicationInput) Validate() error {
	if in.Title == "" {
		return Validation("title is required")
	}
	if in.Description == "" {
		return Validation("description is required")
	}
	return nil
}
