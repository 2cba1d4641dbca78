package storage_test

import (
	"context"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/storage"
	"github.com/campusboard/noticeboard/tests/mocks"
)

func newUpload(name, mime string, size int64) domain.AttachmentUpload {
	return domain.AttachmentUpload{
		FileName: name,
		MimeType: mime,
		ByteSize: size,
		Content:  strings.NewReader(strings.Repeat("x", int(size))),
	}
}

func TestStore_Put(t *testing.T) {
	ctx := context.Background()
	ownerID := uuid.New()

	t.Run("stores blob then metadata", func(t *testing.T) {
		repo := new(mocks.AttachmentRepository)
		blobs := new(mocks.BlobStore)
		store := storage.NewStore(repo, blobs, 1024)

		blobs.On("Put", ctx, mock.AnythingOfType("string"), mock.Anything, int64(5), "application/pdf").Return(nil).Once()
		repo.On("Create", ctx, mock.MatchedBy(func(a *domain.Attachment) bool {
			return a.OwnerID == ownerID && a.OriginalName == "syllabus.pdf" && a.ByteSize == 5
		})).Return(nil).Once()

		att, err := store.Put(ctx, ownerID, newUpload("syllabus.pdf", "application/pdf", 5))

		assert.NoError(t, err)
		assert.NotNil(t, att)
		assert.Contains(t, att.FileName, "syllabus.pdf")
		repo.AssertExpectations(t)
		blobs.AssertExpectations(t)
	})

	t.Run("disallowed mime type performs zero writes", func(t *testing.T) {
		repo := new(mocks.AttachmentRepository)
		blobs := new(mocks.BlobStore)
		store := storage.NewStore(repo, blobs, 1024)

		att, err := store.Put(ctx, ownerID, newUpload("payload.exe", "application/x-msdownload", 5))

		assert.Nil(t, att)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
		repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	})

	t.Run("oversize upload rejected before write", func(t *testing.T) {
		repo := new(mocks.AttachmentRepository)
		blobs := new(mocks.BlobStore)
		store := storage.NewStore(repo, blobs, 10)

		att, err := store.Put(ctx, ownerID, newUpload("big.png", "image/png", 11))

		assert.Nil(t, att)
		assert.Equal(t, domain.KindValidation, domain.KindOf(err))
		blobs.AssertNotCalled(t, "Put", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("metadata failure removes the stored blob", func(t *testing.T) {
		repo := new(mocks.AttachmentRepository)
		blobs := new(mocks.BlobStore)
		store := storage.NewStore(repo, blobs, 1024)

		blobs.On("Put", ctx, mock.AnythingOfType("string"), mock.Anything, int64(3), "text/plain").Return(nil).Once()
		repo.On("Create", ctx, mock.Anything).Return(assert.AnError).Once()
		blobs.On("Remove", ctx, mock.AnythingOfType("string")).Return(nil).Once()

		att, err := store.Put(ctx, ownerID, newUpload("notes.txt", "text/plain", 3))

		assert.Nil(t, att)
		assert.Equal(t, domain.KindUnavailable, domain.KindOf(err))
		blobs.AssertExpectations(t)
	})
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()

	t.Run("removes metadata then blob", func(t *testing.T) {
		repo := new(mocks.AttachmentRepository)
		blobs := new(mocks.BlobStore)
		store := storage.NewStore(repo, blobs, 1024)

		id := uuid.New()
		att := &domain.Attachment{ID: id, StoragePath: "attachments/2026/08/" + id.String()}

		repo.On("GetByID", ctx, id).Return(att, nil).Once()
		repo.On("Delete", ctx, id).Return(true, nil).Once()
		blobs.On("Remove", ctx, att.StoragePath).Return(nil).Once()

		assert.NoError(t, store.Delete(ctx, id))
		repo.AssertExpectations(t)
		blobs.AssertExpectations(t)
	})

	t.Run("unknown id is NotFound", func(t *testing.T) {
		repo := new(mocks.AttachmentRepository)
		blobs := new(mocks.BlobStore)
		store := storage.NewStore(repo, blobs, 1024)

		id := uuid.New()
		repo.On("GetByID", ctx, id).Return(nil, nil).Once()

		err := store.Delete(ctx, id)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestStore_DeleteMany_ContinuesPastNotFound(t *testing.T) {
	ctx := context.Background()
	repo := new(mocks.AttachmentRepository)
	blobs := new(mocks.BlobStore)
	store := storage.NewStore(repo, blobs, 1024)

	missing := uuid.New()
	present := uuid.New()
	att := &domain.Attachment{ID: present, StoragePath: "attachments/2026/08/" + present.String()}

	repo.On("GetByID", ctx, missing).Return(nil, nil).Once()
	repo.On("GetByID", ctx, present).Return(att, nil).Once()
	repo.On("Delete", ctx, present).Return(true, nil).Once()
	blobs.On("Remove", ctx, att.StoragePath).Return(nil).Once()

	store.DeleteMany(ctx, []uuid.UUID{missing, present})

	repo.AssertExpectations(t)
	blobs.AssertExpectations(t)
}
