package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/campusboard/noticeboard/internal/domain"
)

type CommunicationRepository interface {
	Create(ctx context.Context, comm *domain.Communication) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Communication, error)
	List(ctx context.Context, params domain.PaginationParams) ([]domain.Communication, int64, error)
	AddMessage(ctx context.Context, msg *domain.CommunicationMessage) error
	AddParticipant(ctx context.Context, commID, userID uuid.UUID) error
	ListParticipants(ctx context.Context, commID uuid.UUID) ([]uuid.UUID, error)
	IsParticipant(ctx context.Context, commID, userID uuid.UUID) (bool, error)
	SetStatus(ctx context.Context, commID uuid.UUID, status domain.ThreadStatus) error
}

type communicationRepository struct {
	db *sqlx.DB
}

func NewCommunicationRepository(db *sqlx.DB) CommunicationRepository {
	return &communicationRepository{db: db}
}

func (r *communicationRepository) Create(ctx context.Context, comm *domain.Communication) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO communications (id, title, description, created_by, status)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`
	if err := tx.QueryRowxContext(ctx, query,
		comm.ID, comm.Title, comm.Description, comm.CreatedBy, comm.Status,
	).Scan(&comm.CreatedAt, &comm.UpdatedAt); err != nil {
		return err
	}

	// The creator is always the first participant.
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO communication_participants (communication_id, user_id) VALUES ($1, $2)`,
		comm.ID, comm.CreatedBy,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *communicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Communication, error) {
	var comm domain.Communication
	err := r.db.GetContext(ctx, &comm, `SELECT * FROM communications WHERE id = $1`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if comm.Participants, err = r.ListParticipants(ctx, id); err != nil {
		return nil, err
	}

	query := `SELECT * FROM communication_messages WHERE communication_id = $1 ORDER BY created_at, id`
	if err := r.db.SelectContext(ctx, &comm.Messages, query, id); err != nil {
		return nil, err
	}

	return &comm, nil
}

func (r *communicationRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Communication, int64, error) {
	params.Validate()

	var total int64
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM communications`); err != nil {
		return nil, 0, err
	}

	var comms []domain.Communication
	query := `
		SELECT * FROM communications
		ORDER BY updated_at DESC
		LIMIT $1 OFFSET $2`
	if err := r.db.SelectContext(ctx, &comms, query, params.PageSize, params.Offset()); err != nil {
		return nil, 0, err
	}

	for i := range comms {
		participants, err := r.ListParticipants(ctx, comms[i].ID)
		if err != nil {
			return nil, 0, err
		}
		comms[i].Participants = participants
	}

	return comms, total, nil
}

func (r *communicationRepository) AddMessage(ctx context.Context, msg *domain.CommunicationMessage) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	query := `
		INSERT INTO communication_messages (id, communication_id, sender_id, text)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at`
	if err := tx.QueryRowxContext(ctx, query,
		msg.ID, msg.CommunicationID, msg.SenderID, msg.Text,
	).Scan(&msg.CreatedAt); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx,
		`UPDATE communications SET updated_at = NOW() WHERE id = $1`, msg.CommunicationID,
	); err != nil {
		return err
	}

	return tx.Commit()
}

func (r *communicationRepository) AddParticipant(ctx context.Context, commID, userID uuid.UUID) error {
	query := `
		INSERT INTO communication_participants (communication_id, user_id)
		VALUES ($1, $2)
		ON CONFLICT DO NOTHING`
	_, err := r.db.ExecContext(ctx, query, commID, userID)
	return err
}

func (r *communicationRepository) ListParticipants(ctx context.Context, commID uuid.UUID) ([]uuid.UUID, error) {
	var ids []uuid.UUID
	query := `SELECT user_id FROM communication_participants WHERE communication_id = $1 ORDER BY joined_at`
	err := r.db.SelectContext(ctx, &ids, query, commID)
	return ids, err
}

func (r *communicationRepository) IsParticipant(ctx context.Context, commID, userID uuid.UUID) (bool, error) {
	var exists bool
	query := `SELECT EXISTS(SELECT 1 FROM communication_participants WHERE communication_id = $1 AND user_id = $2)`
	err := r.db.GetContext(ctx, &exists, query, commID, userID)
	return exists, err
}

func (r *communicationRepository) SetStatus(ctx context.Context, commID uuid.UUID, status domain.ThreadStatus) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE communications SET status = $2, updated_at = NOW() WHERE id = $1`, commID, status)
	return err
}
