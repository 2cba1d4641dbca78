package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/noticeboard/internal/domain"
)

// AttachmentRepository persists attachment metadata. The notice_id column is
// the derived owning-notice index: an attachment is linked to at most one
// notice, enforced by AttachNotice only claiming unlinked rows.
type AttachmentRepository interface {
	Create(ctx context.Context, att *domain.Attachment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error)
	ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.Attachment, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Attachment, error)
	AttachNotice(ctx context.Context, id, noticeID uuid.UUID) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

type attachmentRepository struct {
	db *sqlx.DB
}

func NewAttachmentRepository(db *sqlx.DB) AttachmentRepository {
	return &attachmentRepository{db: db}
}

func (r *attachmentRepository) Create(ctx context.Context, att *domain.Attachment) error {
	query := `
		INSERT INTO attachments (id, notice_id, owner_id, file_name, original_name, mime_type, byte_size, storage_path, is_public)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at`

	return r.db.QueryRowxContext(ctx, query,
		att.ID, att.NoticeID, att.OwnerID, att.FileName, att.OriginalName,
		att.MimeType, att.ByteSize, att.StoragePath, att.IsPublic,
	).Scan(&att.CreatedAt)
}

func (r *attachmentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Attachment, error) {
	var att domain.Attachment
	query := `SELECT * FROM attachments WHERE id = $1`
	err := r.db.GetContext(ctx, &att, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &att, err
}

func (r *attachmentRepository) ListByNotice(ctx context.Context, noticeID uuid.UUID) ([]domain.Attachment, error) {
	var atts []domain.Attachment
	query := `SELECT * FROM attachments WHERE notice_id = $1 ORDER BY created_at, id`
	err := r.db.SelectContext(ctx, &atts, query, noticeID)
	return atts, err
}

func (r *attachmentRepository) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.Attachment, error) {
	var atts []domain.Attachment
	query := `SELECT * FROM attachments WHERE owner_id = $1 ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &atts, query, ownerID)
	return atts, err
}

// AttachNotice claims an unlinked attachment for a notice. Returns false when
// the attachment is missing or already owned by another notice.
func (r *attachmentRepository) AttachNotice(ctx context.Context, id, noticeID uuid.UUID) (bool, error) {
	query := `
		UPDATE attachments SET notice_id = $2
		WHERE id = $1 AND (notice_id IS NULL OR notice_id = $2)`
	result, err := r.db.ExecContext(ctx, query, id, noticeID)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

func (r *attachmentRepository) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM attachments WHERE id = $1`, id)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}
