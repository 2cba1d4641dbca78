// Package storage implements the attachment store: metadata rows in Postgres,
// blobs in MinIO. Mime filtering and the byte ceiling are enforced here,
// before anything is written.
package storage

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/repository"
)

var allowedMimeTypes = map[string]bool{
	"application/pdf":    true,
	"application/msword": true,
	"application/vnd.openxmlformats-officedocument.wordprocessingml.document": true,
	"application/vnd.ms-excel": true,
	"application/vnd.openxmlformats-officedocument.spreadsheetml.sheet": true,
	"text/plain": true,
}

func mimeAllowed(mimeType string) bool {
	return strings.HasPrefix(mimeType, "image/") || allowedMimeTypes[mimeType]
}

type Store struct {
	repo     repository.AttachmentRepository
	blobs    BlobStore
	maxBytes int64
}

func NewStore(repo repository.AttachmentRepository, blobs BlobStore, maxBytes int64) *Store {
	return &Store{repo: repo, blobs: blobs, maxBytes: maxBytes}
}

// Put validates and stores one upload. Rejections happen before any write, so
// a disallowed mime type or an oversize declaration leaves no trace in either
// the blob store or the metadata table.
func (s *Store) Put(ctx context.Context, ownerID uuid.UUID, upload domain.AttachmentUpload) (*domain.Attachment, error) {
	if upload.FileName == "" {
		return nil, domain.Validation("file name is required")
	}
	if !mimeAllowed(upload.MimeType) {
		return nil, domain.Validation(fmt.Sprintf("file type %q is not allowed", upload.MimeType))
	}
	if upload.ByteSize <= 0 {
		return nil, domain.Validation("file is empty")
	}
	if upload.ByteSize > s.maxBytes {
		return nil, domain.Validation(fmt.Sprintf("file exceeds the %d byte limit", s.maxBytes))
	}

	id := uuid.New()
	now := time.Now()
	storagePath := fmt.Sprintf("attachments/%s/%s", now.Format("2006/01"), id)

	// Cap the stream at the declared size so a lying client cannot push past
	// the ceiling mid-transfer.
	limited := io.LimitReader(upload.Content, upload.ByteSize)
	if err := s.blobs.Put(ctx, storagePath, limited, upload.ByteSize, upload.MimeType); err != nil {
		return nil, domain.Unavailable("failed to store file")
	}

	att := &domain.Attachment{
		ID:           id,
		OwnerID:      ownerID,
		FileName:     fmt.Sprintf("%d-%s", now.UnixMilli(), upload.FileName),
		OriginalName: upload.FileName,
		MimeType:     upload.MimeType,
		ByteSize:     upload.ByteSize,
		StoragePath:  storagePath,
		IsPublic:     upload.IsPublic,
	}

	if err := s.repo.Create(ctx, att); err != nil {
		// Roll the blob back so a failed metadata insert leaves no orphan.
		_ = s.blobs.Remove(ctx, storagePath)
		return nil, domain.Unavailable("failed to record file metadata")
	}

	return att, nil
}

// Get returns the metadata and an open blob stream. The caller owns the
// stream and must close it.
func (s *Store) Get(ctx context.Context, id uuid.UUID) (*domain.Attachment, io.ReadCloser, error) {
	att, err := s.GetMetadata(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	rc, err := s.blobs.Get(ctx, att.StoragePath)
	if err != nil {
		return nil, nil, domain.Unavailable("failed to read file")
	}
	return att, rc, nil
}

func (s *Store) GetMetadata(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	att, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if att == nil {
		return nil, domain.NotFound("file not found")
	}
	return att, nil
}

func (s *Store) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Attachment, error) {
	return s.repo.ListByOwner(ctx, ownerID)
}

func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	att, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if att == nil {
		return domain.NotFound("file not found")
	}

	deleted, err := s.repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return domain.NotFound("file not found")
	}

	_ = s.blobs.Remove(ctx, att.StoragePath)
	return nil
}

// DeleteMany removes a batch best-effort: a missing id does not stop the rest.
func (s *Store) DeleteMany(ctx context.Context, ids []uuid.UUID) {
	for _, id := range ids {
		_ = s.Delete(ctx, id)
	}
}
