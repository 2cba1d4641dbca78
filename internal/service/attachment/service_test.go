package attachment_test

import (
	"context"
	"io"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/service/attachment"
	"github.com/campusboard/noticeboard/internal/storage"
	"github.com/campusboard/noticeboard/tests/mocks"
)

type fixture struct {
	attachments *mocks.AttachmentRepository
	blobs       *mocks.BlobStore
	notices     *mocks.NoticeRepository
	svc         attachment.Service
}

func newFixture() *fixture {
	f := &fixture{
		attachments: new(mocks.AttachmentRepository),
		blobs:       new(mocks.BlobStore),
		notices:     new(mocks.NoticeRepository),
	}
	store := storage.NewStore(f.attachments, f.blobs, 10*1024*1024)
	f.svc = attachment.NewService(store, f.notices)
	return f
}

func TestAttachmentService_Download(t *testing.T) {
	ctx := context.Background()

	t.Run("linked file follows the notice audience", func(t *testing.T) {
		f := newFixture()
		noticeID := uuid.New()
		att := &domain.Attachment{
			ID:          uuid.New(),
			NoticeID:    &noticeID,
			OwnerID:     uuid.New(),
			IsPublic:    true,
			StoragePath: "attachments/2026/08/x",
		}
		stored := &domain.Notice{ID: noticeID, VisibleTo: domain.AudienceFaculty, PostedBy: att.OwnerID}

		f.attachments.On("GetByID", ctx, att.ID).Return(att, nil).Once()
		f.notices.On("GetByID", ctx, noticeID).Return(stored, nil).Once()

		// Public flag on the file does not matter once a notice owns it.
		_, rc, err := f.svc.Download(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleStudent}, att.ID)

		assert.Nil(t, rc)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
		f.blobs.AssertNotCalled(t, "Get", mock.Anything, mock.Anything)
	})

	t.Run("matching audience streams the blob", func(t *testing.T) {
		f := newFixture()
		noticeID := uuid.New()
		att := &domain.Attachment{
			ID:          uuid.New(),
			NoticeID:    &noticeID,
			OwnerID:     uuid.New(),
			StoragePath: "attachments/2026/08/x",
		}
		stored := &domain.Notice{ID: noticeID, VisibleTo: domain.AudienceStudents, PostedBy: att.OwnerID}

		f.attachments.On("GetByID", ctx, att.ID).Return(att, nil).Twice()
		f.notices.On("GetByID", ctx, noticeID).Return(stored, nil).Once()
		f.blobs.On("Get", ctx, att.StoragePath).Return(io.NopCloser(strings.NewReader("data")), nil).Once()

		got, rc, err := f.svc.Download(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleStudent}, att.ID)

		assert.NoError(t, err)
		assert.Equal(t, att.ID, got.ID)
		content, _ := io.ReadAll(rc)
		rc.Close()
		assert.Equal(t, "data", string(content))
	})

	t.Run("dangling link falls back to the standalone rule", func(t *testing.T) {
		f := newFixture()
		goneNotice := uuid.New()
		owner := uuid.New()
		att := &domain.Attachment{
			ID:          uuid.New(),
			NoticeID:    &goneNotice,
			OwnerID:     owner,
			IsPublic:    false,
			StoragePath: "attachments/2026/08/x",
		}

		f.attachments.On("GetByID", ctx, att.ID).Return(att, nil).Once()
		f.notices.On("GetByID", ctx, goneNotice).Return(nil, nil).Once()

		_, rc, err := f.svc.Download(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleStudent}, att.ID)

		assert.Nil(t, rc)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
	})

	t.Run("private standalone file is owner only", func(t *testing.T) {
		f := newFixture()
		owner := uuid.New()
		att := &domain.Attachment{ID: uuid.New(), OwnerID: owner, IsPublic: false, StoragePath: "p"}

		f.attachments.On("GetByID", ctx, att.ID).Return(att, nil).Twice()
		f.blobs.On("Get", ctx, "p").Return(io.NopCloser(strings.NewReader("x")), nil).Once()

		_, rc, err := f.svc.Download(ctx, domain.Actor{ID: owner, Role: domain.RoleStudent}, att.ID)
		assert.NoError(t, err)
		rc.Close()
	})

	t.Run("unknown file is not found", func(t *testing.T) {
		f := newFixture()
		id := uuid.New()
		f.attachments.On("GetByID", ctx, id).Return(nil, nil).Once()

		_, _, err := f.svc.Download(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}, id)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestAttachmentService_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("only the uploader or an admin may delete", func(t *testing.T) {
		f := newFixture()
		att := &domain.Attachment{ID: uuid.New(), OwnerID: uuid.New(), StoragePath: "p"}

		f.attachments.On("GetByID", ctx, att.ID).Return(att, nil).Once()

		err := f.svc.Delete(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleFaculty}, att.ID)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
		f.attachments.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("admin deletes any file", func(t *testing.T) {
		f := newFixture()
		att := &domain.Attachment{ID: uuid.New(), OwnerID: uuid.New(), StoragePath: "p"}

		f.attachments.On("GetByID", ctx, att.ID).Return(att, nil).Twice()
		f.attachments.On("Delete", ctx, att.ID).Return(true, nil).Once()
		f.blobs.On("Remove", ctx, "p").Return(nil).Once()

		assert.NoError(t, f.svc.Delete(ctx, domain.Actor{ID: uuid.New(), Role: domain.RoleAdmin}, att.ID))
		f.attachments.AssertExpectations(t)
	})
}
