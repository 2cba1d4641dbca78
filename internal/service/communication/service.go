// Package communication implements threaded discussions between users.
// Posting a message publishes message.created so the notification fan-out can
// reach the other participants.
package communication

import (
	"context"

	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/event"
	"github.com/campusboard/noticeboard/internal/repository"
)

type Service interface {
	Create(ctx context.Context, actor domain.Actor, input domain.CreateCommunicationInput) (*domain.Communication, error)
	List(ctx context.Context, actor domain.Actor, params domain.PaginationParams) (domain.PaginatedResponse[domain.Communication], error)
	Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Communication, error)
	PostMessage(ctx context.Context, actor domain.Actor, commID uuid.UUID, text string) (*domain.CommunicationMessage, error)
	AddParticipant(ctx context.Context, actor domain.Actor, commID, userID uuid.UUID) error
	Close(ctx context.Context, actor domain.Actor, commID uuid.UUID) error
}

type service struct {
	comms repository.CommunicationRepository
	users repository.UserRepository
	bus   *event.Bus
}

func NewService(comms repository.CommunicationRepository, users repository.UserRepository, bus *event.Bus) Service {
	return &service{comms: comms, users: users, bus: bus}
}

func (s *service) Create(ctx context.Context, actor domain.Actor, input domain.CreateCommunicationInput) (*domain.Communication, error) {
	if err := input.Validate(); err != nil {
		return nil, err
	}

	comm := &domain.Communication{
		ID:          uuid.New(),
		Title:       input.Title,
		Description: input.Description,
		CreatedBy:   actor.ID,
		Status:      domain.ThreadOpen,
	}
	if err := s.comms.Create(ctx, comm); err != nil {
		return nil, err
	}
	comm.Participants = []uuid.UUID{actor.ID}
	return comm, nil
}

func (s *service) List(ctx context.Context, actor domain.Actor, params domain.PaginationParams) (domain.PaginatedResponse[domain.Communication], error) {
	params.Validate()
	comms, total, err := s.comms.List(ctx, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Communication]{}, err
	}
	return domain.NewPaginatedResponse(comms, params.Page, params.PageSize, total), nil
}

func (s *service) Get(ctx context.Context, actor domain.Actor, id uuid.UUID) (*domain.Communication, error) {
	comm, err := s.comms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if comm == nil {
		return nil, domain.NotFound("communication not found")
	}
	return comm, nil
}

func (s *service) PostMessage(ctx context.Context, actor domain.Actor, commID uuid.UUID, text string) (*domain.CommunicationMessage, error) {
	if text == "" {
		return nil, domain.Validation("message text is required")
	}

	comm, err := s.comms.GetByID(ctx, commID)
	if err != nil {
		return nil, err
	}
	if comm == nil {
		return nil, domain.NotFound("communication not found")
	}
	if comm.Status == domain.ThreadClosed {
		return nil, domain.Conflict("this thread is closed")
	}

	isParticipant, err := s.comms.IsParticipant(ctx, commID, actor.ID)
	if err != nil {
		return nil, err
	}
	if !isParticipant && actor.Role != domain.RoleAdmin {
		return nil, domain.Forbidden("only participants can post to this thread")
	}

	msg := &domain.CommunicationMessage{
		ID:              uuid.New(),
		CommunicationID: commID,
		SenderID:        actor.ID,
		Text:            text,
	}
	if err := s.comms.AddMessage(ctx, msg); err != nil {
		return nil, err
	}

	s.bus.Publish(event.New(event.MessageCreated, commID, actor.ID))
	return msg, nil
}

func (s *service) AddParticipant(ctx context.Context, actor domain.Actor, commID, userID uuid.UUID) error {
	comm, err := s.comms.GetByID(ctx, commID)
	if err != nil {
		return err
	}
	if comm == nil {
		return domain.NotFound("communication not found")
	}

	isParticipant, err := s.comms.IsParticipant(ctx, commID, actor.ID)
	if err != nil {
		return err
	}
	if !isParticipant && actor.Role != domain.RoleAdmin {
		return domain.Forbidden("only participants can invite others")
	}

	user, err := s.users.GetByID(ctx, userID)
	if err != nil {
		return err
	}
	if user == nil {
		return domain.NotFound("user not found")
	}

	return s.comms.AddParticipant(ctx, commID, userID)
}

func (s *service) Close(ctx context.Context, actor domain.Actor, commID uuid.UUID) error {
	comm, err := s.comms.GetByID(ctx, commID)
	if err != nil {
		return err
	}
	if comm == nil {
		return domain.NotFound("communication not found")
	}
	if actor.ID != comm.CreatedBy && actor.Role != domain.RoleAdmin {
		return domain.Forbidden("only the creator or an admin can close this thread")
	}
	return s.comms.SetStatus(ctx, commID, domain.ThreadClosed)
}
