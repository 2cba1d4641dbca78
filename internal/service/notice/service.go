// Package notice implements the notice registry: lifecycle of notices and
// their attachments, with the access policy applied on every multi-read and
// download path.
package notice

import (
	"context"
	"sort"

	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/access"
	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/event"
	"github.com/campusboard/noticeboard/internal/repository"
	"github.com/campusboard/noticeboard/internal/storage"
)

type Service interface {
	Create(ctx context.Context, actor domain.Actor, input domain.NoticeInput, uploads []domain.AttachmentUpload) (*domain.Notice, error)
	Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input domain.NoticeInput, addUploads []domain.AttachmentUpload, removeAttachmentIDs []uuid.UUID) (*domain.Notice, error)
	Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Notice, error)
	List(ctx context.Context, actor domain.Actor, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notice], error)
	ListAttachments(ctx context.Context, actor domain.Actor, noticeID uuid.UUID) ([]domain.Attachment, error)
}

type service struct {
	notices     repository.NoticeRepository
	attachments repository.AttachmentRepository
	store       *storage.Store
	bus         *event.Bus
}

func NewService(notices repository.NoticeRepository, attachments repository.AttachmentRepository, store *storage.Store, bus *event.Bus) Service {
	return &service{
		notices:     notices,
		attachments: attachments,
		store:       store,
		bus:         bus,
	}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, input domain.NoticeInput, uploads []domain.AttachmentUpload) (*domain.Notice, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleFaculty {
		return nil, domain.Forbidden("only faculty and admins can post notices")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.storeUploads(ctx, actor.ID, uploads)
	if err != nil {
		return nil, err
	}

	notice := &domain.Notice{
		ID:        uuid.New(),
		Title:     input.Title,
		Body:      input.Body,
		Category:  input.Category,
		Priority:  input.Priority,
		VisibleTo: input.VisibleTo,
		PostedBy:  actor.ID,
	}

	if err := s.notices.Create(ctx, notice); err != nil {
		s.store.DeleteMany(ctx, stored)
		return nil, err
	}

	if err := s.linkAttachments(ctx, notice.ID, stored); err != nil {
		return nil, err
	}
	notice.AttachmentIDs = stored

	s.bus.Publish(event.New(event.NoticeCreated, notice.ID, actor.ID))
	return notice, nil
}

func (s *service) Update(ctx context.Context, actor domain.Actor, id uuid.UUID, input domain.NoticeInput, addUploads []domain.AttachmentUpload, removeAttachmentIDs []uuid.UUID) (*domain.Notice, error) {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, domain.NotFound("notice not found")
	}
	if !access.CanMutateNotice(actor, notice) {
		return nil, domain.Forbidden("only the poster or an admin can modify this notice")
	}
	if err := input.Validate(); err != nil {
		return nil, err
	}

	stored, err := s.storeUploads(ctx, actor.ID, addUploads)
	if err != nil {
		return nil, err
	}

	notice.Title = input.Title
	notice.Body = input.Body
	notice.Category = input.Category
	notice.Priority = input.Priority
	notice.VisibleTo = input.VisibleTo

	// The version-guarded write decides the race. The loser must leave the
	// attachment set untouched, so all detach/link work happens after a win.
	won, err := s.notices.Update(ctx, notice, notice.Version)
	if err != nil {
		s.store.DeleteMany(ctx, stored)
		return nil, err
	}
	if !won {
		s.store.DeleteMany(ctx, stored)
		return nil, domain.Conflict("notice was modified concurrently, retry")
	}

	if len(removeAttachmentIDs) > 0 {
		owned, err := s.attachments.ListByNotice(ctx, id)
		if err != nil {
			return nil, err
		}
		ownedSet := make(map[uuid.UUID]bool, len(owned))
		for _, att := range owned {
			ownedSet[att.ID] = true
		}
		// Detaching orphans the attachment (a file has at most one owning
		// notice), so removal is deletion.
		var toDelete []uuid.UUID
		for _, attID := range removeAttachmentIDs {
			if ownedSet[attID] {
				toDelete = append(toDelete, attID)
			}
		}
		s.store.DeleteMany(ctx, toDelete)
	}

	if err := s.linkAttachments(ctx, id, stored); err != nil {
		return nil, err
	}

	if notice.AttachmentIDs, err = s.attachmentIDs(ctx, id); err != nil {
		return nil, err
	}

	s.bus.Publish(event.New(event.NoticeUpdated, id, actor.ID))
	return notice, nil
}

func (s *service) Delete(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	notice, err := s.notices.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notice == nil {
		return domain.NotFound("notice not found")
	}
	if !access.CanMutateNotice(actor, notice) {
		return domain.Forbidden("only the poster or an admin can delete this notice")
	}

	owned, err := s.attachments.ListByNotice(ctx, id)
	if err != nil {
		return err
	}

	won, err := s.notices.Delete(ctx, id, notice.Version)
	if err != nil {
		return err
	}
	if !won {
		// Either a concurrent delete removed it or a concurrent update bumped
		// the version.
		current, err := s.notices.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.NotFound("notice not found")
		}
		return domain.Conflict("notice was modified concurrently, retry")
	}

	// The row is gone; cascade to the files it exclusively owned.
	ids := make([]uuid.UUID, 0, len(owned))
	for _, att := range owned {
		ids = append(ids, att.ID)
	}
	s.store.DeleteMany(ctx, ids)

	s.bus.Publish(event.New(event.NoticeDeleted, id, actor.ID))
	return nil
}

// Get returns a single notice and bumps its view counter. Visibility is NOT
// enforced on single reads, only on the list view. Known gap, kept for client
// compatibility; raise with stakeholders before tightening.
func (s *service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Notice, error) {
	notice, err := s.notices.IncrementViews(ctx, id)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, domain.NotFound("notice not found")
	}

	if notice.AttachmentIDs, err = s.attachmentIDs(ctx, id); err != nil {
		return nil, err
	}
	return notice, nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notice], error) {
	params.Validate()

	all, err := s.notices.ListAll(ctx)
	if err != nil {
		return domain.PaginatedResponse[domain.Notice]{}, err
	}

	// Filter through the policy rather than a SQL mirror of it, so there is
	// exactly one definition of visibility.
	visible := make([]domain.Notice, 0, len(all))
	for i := range all {
		if access.CanReadNotice(actor, &all[i]) {
			visible = append(visible, all[i])
		}
	}
	sort.SliceStable(visible, func(i, j int) bool {
		return visible[i].CreatedAt.After(visible[j].CreatedAt)
	})

	total := int64(len(visible))
	start := params.Offset()
	if start > len(visible) {
		start = len(visible)
	}
	end := start + params.PageSize
	if end > len(visible) {
		end = len(visible)
	}
	page := visible[start:end]

	for i := range page {
		if page[i].AttachmentIDs, err = s.attachmentIDs(ctx, page[i].ID); err != nil {
			return domain.PaginatedResponse[domain.Notice]{}, err
		}
	}

	return domain.NewPaginatedResponse(page, params.Page, params.PageSize, total), nil
}

func (s *service) ListAttachments(ctx context.Context, actor domain.Actor, noticeID uuid.UUID) ([]domain.Attachment, error) {
	notice, err := s.notices.GetByID(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	if notice == nil {
		return nil, domain.NotFound("notice not found")
	}
	if !access.CanReadAttachmentViaNotice(actor, notice) {
		return nil, domain.Forbidden("you cannot access this notice's files")
	}
	return s.attachments.ListByNotice(ctx, noticeID)
}

// storeUploads persists a batch of uploads, rolling back the ones already
// stored if a later one fails. Files born from a notice are public for the
// standalone path; the notice link is what actually gates them.
func (s *service) storeUploads(ctx context.Context, ownerID uuid.UUID, uploads []domain.AttachmentUpload) ([]uuid.UUID, error) {
	var stored []uuid.UUID
	for _, upload := range uploads {
		upload.IsPublic = true
		att, err := s.store.Put(ctx, ownerID, upload)
		if err != nil {
			s.store.DeleteMany(ctx, stored)
			return nil, err
		}
		stored = append(stored, att.ID)
	}
	return stored, nil
}

func (s *service) linkAttachments(ctx context.Context, noticeID uuid.UUID, ids []uuid.UUID) error {
	for _, attID := range ids {
		linked, err := s.attachments.AttachNotice(ctx, attID, noticeID)
		if err != nil {
			return err
		}
		if !linked {
			return domain.Conflict("attachment already belongs to another notice")
		}
	}
	return nil
}

func (s *service) attachmentIDs(ctx context.Context, noticeID uuid.UUID) ([]uuid.UUID, error) {
	atts, err := s.attachments.ListByNotice(ctx, noticeID)
	if err != nil {
		return nil, err
	}
	ids := make([]uuid.UUID, 0, len(atts))
	for _, att := range atts {
		ids = append(ids, att.ID)
	}
	return ids, nil
}
