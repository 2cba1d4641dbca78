// Package attachment exposes the standalone file surface: direct uploads,
// downloads by id, and owner-scoped listing. Downloads honor the owning
// notice's visibility when the file is linked, and the standalone
// public/owner/admin rule when it is not.
package attachment

import (
	"context"
	"io"

	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/access"
	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/repository"
	"github.com/campusboard/noticeboard/internal/storage"
)

type Service interface {
	Upload(ctx context.Context, actor domain.Actor, upload domain.AttachmentUpload) (*domain.Attachment, error)
	Download(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Attachment, io.ReadCloser, error)
	GetMetadata(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Attachment, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	ListMine(ctx context.Context, actor domain.Actor) ([]domain.Attachment, error)
}

type service struct {
	store   *storage.Store
	notices repository.NoticeRepository
}

func NewService(store *storage.Store, notices repository.NoticeRepository) Service {
	return &service{store: store, notices: notices}
}

func (s *service) Upload(ctx context.Context, actor domain.Actor, upload domain.AttachmentUpload) (*domain.Attachment, error) {
	return s.store.Put(ctx, actor.ID, upload)
}

// Download fetches the file after resolving which access rule applies. A file
// linked to a notice is gated by that notice's visibility; the standalone
// public flag is irrelevant once linked.
func (s *service) Download(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Attachment, io.ReadCloser, error) {
	att, err := s.store.GetMetadata(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	if err := s.authorize(ctx, actor, att); err != nil {
		return nil, nil, err
	}

	return s.store.Get(ctx, id)
}

func (s *service) GetMetadata(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Attachment, error) {
	att, err := s.store.GetMetadata(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.authorize(ctx, actor, att); err != nil {
		return nil, err
	}
	return att, nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	att, err := s.store.GetMetadata(ctx, id)
	if err != nil {
		return err
	}
	if actor.ID != att.OwnerID && actor.Role != domain.RoleAdmin {
		return domain.Forbidden("only the uploader or an admin can delete this file")
	}
	return s.store.Delete(ctx, id)
}

func (s *service) ListMine(ctx context.Context, actor domain.Actor) ([]domain.Attachment, error) {
	return s.store.ListByOwner(ctx, actor.ID)
}

func (s *service) authorize(ctx context.Context, actor domain.Actor, att *domain.Attachment) error {
	if att.NoticeID != nil {
		notice, err := s.notices.GetByID(ctx, *att.NoticeID)
		if err != nil {
			return err
		}
		if notice != nil {
			if !access.CanReadAttachmentViaNotice(actor, notice) {
				return domain.Forbidden("you cannot access this file")
			}
			return nil
		}
		// Dangling link: the owning notice is gone. Fall through to the
		// standalone rule rather than leaking via a stale pointer.
	}

	if !access.CanReadAttachmentStandalone(actor, att) {
		return domain.Forbidden("you cannot access this file")
	}
	return nil
}
