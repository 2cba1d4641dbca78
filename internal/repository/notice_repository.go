package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/noticeboard/internal/domain"
)

// NoticeRepository persists notices. Update and Delete are guarded by the
// notice's version column: a stale version touches zero rows, which the
// service surfaces as Conflict. This serializes concurrent mutations of one
// notice without any cross-id locking.
type NoticeRepository interface {
	Create(ctx context.Context, notice *domain.Notice) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error)
	ListAll(ctx context.Context) ([]domain.Notice, error)
	Update(ctx context.Context, notice *domain.Notice, expectedVersion int64) (bool, error)
	Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) (bool, error)
	IncrementViews(ctx context.Context, id uuid.UUID) (*domain.Notice, error)
}

type noticeRepository struct {
	db *sqlx.DB
}

func NewNoticeRepository(db *sqlx.DB) NoticeRepository {
	return &noticeRepository{db: db}
}

func (r *noticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	query := `
		INSERT INTO notices (id, title, body, category, priority, visible_to, posted_by, version)
		VALUES ($1, $2, $3, $4, $5, $6, $7, 1)
		RETURNING version, created_at, updated_at`

	return r.db.QueryRowxContext(ctx, query,
		notice.ID, notice.Title, notice.Body, notice.Category, notice.Priority, notice.VisibleTo, notice.PostedBy,
	).Scan(&notice.Version, &notice.CreatedAt, &notice.UpdatedAt)
}

func (r *noticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	var notice domain.Notice
	query := `SELECT * FROM notices WHERE id = $1`
	err := r.db.GetContext(ctx, &notice, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &notice, err
}

func (r *noticeRepository) ListAll(ctx context.Context) ([]domain.Notice, error) {
	var notices []domain.Notice
	query := `SELECT * FROM notices ORDER BY created_at DESC`
	err := r.db.SelectContext(ctx, &notices, query)
	return notices, err
}

func (r *noticeRepository) Update(ctx context.Context, notice *domain.Notice, expectedVersion int64) (bool, error) {
	query := `
		UPDATE notices
		SET title = $1, body = $2, category = $3, priority = $4, visible_to = $5,
		    version = version + 1, updated_at = NOW()
		WHERE id = $6 AND version = $7
		RETURNING version, updated_at`

	err := r.db.QueryRowxContext(ctx, query,
		notice.Title, notice.Body, notice.Category, notice.Priority, notice.VisibleTo,
		notice.ID, expectedVersion,
	).Scan(&notice.Version, &notice.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (r *noticeRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) (bool, error) {
	result, err := r.db.ExecContext(ctx, `DELETE FROM notices WHERE id = $1 AND version = $2`, id, expectedVersion)
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return rows > 0, nil
}

// IncrementViews atomically bumps the view counter and returns the fresh row,
// mirroring a find-and-update read path.
func (r *noticeRepository) IncrementViews(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	var notice domain.Notice
	query := `
		UPDATE notices SET view_count = view_count + 1
		WHERE id = $1
		RETURNING *`
	err := r.db.GetContext(ctx, &notice, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return &notice, err
}
