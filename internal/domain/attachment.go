package domain

import (
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Attachment struct {
	ID           uuid.UUID  `json:"id" db:"id"`
	NoticeID     *uuid.UUID `json:"notice_id,omitempty" db:"notice_id"`
	OwnerID      uuid.UUID  `json:"owner_id" db:"owner_id"`
	FileName     string     `json:"file_name" db:"file_name"`
	OriginalName string     `json:"original_name" db:"original_name"`
	MimeType     string     `json:"mime_type" db:"mime_type"`
	ByteSize     int64      `json:"byte_size" db:"byte_size"`
	StoragePath  string     `json:"-" db:"storage_path"`
	IsPublic     bool       `json:"is_public" db:"is_public"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
}

// Kind classifies the attachment for presentation: image, document or other.
func (a *Attachment) Kind() string {
	switch {
	case strings.HasPrefix(a.MimeType, "image/"):
		return "image"
	case a.MimeType == "application/pdf",
		strings.Contains(a.MimeType, "word"),
		strings.Contains(a.MimeType, "document"),
		strings.Contains(a.MimeType, "sheet"),
		strings.Contains(a.MimeType, "excel"):
		return "document"
	default:
		return "other"
	}
}

// AttachmentUpload is an incoming file before it reaches storage.
type AttachmentUpload struct {
	FileName string
	MimeType string
	ByteSize int64
	IsPublic bool
	Content  io.Reader
}
