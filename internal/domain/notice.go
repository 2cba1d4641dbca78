package domain

import (
	"time"

	"github.com/google/uuid"
)

type Notice struct {
	ID        uuid.UUID      `json:"id" db:"id"`
	Title     string         `json:"title" db:"title"`
	Body      string         `json:"body" db:"body"`
	Category  NoticeCategory `json:"category" db:"category"`
	Priority  NoticePriority `json:"priority" db:"priority"`
	VisibleTo NoticeAudience `json:"visible_to" db:"visible_to"`
	PostedBy  uuid.UUID      `json:"posted_by" db:"posted_by"`
	ViewCount int64          `json:"view_count" db:"view_count"`
	Version   int64          `json:"-" db:"version"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt time.Time      `json:"updated_at" db:"updated_at"`

	// Loaded from the attachments table, ordered by link time.
	AttachmentIDs []uuid.UUID `json:"attachment_ids" db:"-"`
}

type NoticeCategory string

const (
	CategoryGeneral  NoticeCategory = "general"
	CategoryAcademic NoticeCategory = "academic"
	CategoryEvent    NoticeCategory = "event"
	CategoryUrgent   NoticeCategory = "urgent"
	CategoryExam     NoticeCategory = "exam"
)

func (c NoticeCategory) IsValid() bool {
	switch c {
	case CategoryGeneral, CategoryAcademic, CategoryEvent, CategoryUrgent, CategoryExam:
		return true
	default:
		return false
	}
}

type NoticePriority string

const (
	PriorityLow    NoticePriority = "low"
	PriorityMedium NoticePriority = "medium"
	PriorityHigh   NoticePriority = "high"
)

func (p NoticePriority) IsValid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	default:
		return false
	}
}

// NoticeAudience is the single source of truth for who may read a notice
// and everything attached to it.
type NoticeAudience string

const (
	AudienceAll      NoticeAudience = "all"
	AudienceStudents NoticeAudience = "students"
	AudienceFaculty  NoticeAudience = "faculty"
	AudienceAdmin    NoticeAudience = "admin"
)

func (a NoticeAudience) IsValid() bool {
	switch a {
	case AudienceAll, AudienceStudents, AudienceFaculty, AudienceAdmin:
		return true
	default:
		return false
	}
}

type NoticeInput struct {
	Title     string         `json:"title"`
	Body      string         `json:"body"`
	Category  NoticeCategory `json:"category"`
	Priority  NoticePriority `json:"priority"`
	VisibleTo NoticeAudience `json:"visible_to"`
}

func (in *NoticeInput) Validate() error {
	if in.Title == "" {
		return Validation("title is required")
	}
	if in.Body == "" {
		return Validation("body is required")
	}
	if in.Category == "" {
		in.Category = CategoryGeneral
	}
	if !in.Category.IsValid() {
		return Validation("invalid category")
	}
	if in.Priority == "" {
		in.Priority = PriorityMedium
	}
	if !in.Priority.IsValid() {
		return Validation("invalid priority")
	}
	if in.VisibleTo == "" {
		in.VisibleTo = AudienceAll
	}
	if !in.VisibleTo.IsValid() {
		return Validation("invalid visibility")
	}
	return nil
}
