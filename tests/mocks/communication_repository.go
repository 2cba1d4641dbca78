package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campusboard/noticeboard/internal/domain"
)

type CommunicationRepository struct {
	mock.Mock
}

func (m *CommunicationRepository) Create(ctx context.Context, comm *domain.Communication) error {
	args := m.Called(ctx, comm)
	return args.Error(0)
}

func (m *CommunicationRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Communication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Communication), args.Error(1)
}

func (m *CommunicationRepository) List(ctx context.Context, params domain.PaginationParams) ([]domain.Communication, int64, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]domain.Communication), args.Get(1).(int64), args.Error(2)
}

func (m *CommunicationRepository) AddMessage(ctx context.Context, msg *domain.CommunicationMessage) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}

func (m *CommunicationRepository) AddParticipant(ctx context.Context, commID, userID uuid.UUID) error {
	args := m.Called(ctx, commID, userID)
	return args.Error(0)
}

func (m *CommunicationRepository) ListParticipants(ctx context.Context, commID uuid.UUID) ([]uuid.UUID, error) {
	args := m.Called(ctx, commID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]uuid.UUID), args.Error(1)
}

func (m *CommunicationRepository) IsParticipant(ctx context.Context, commID, userID uuid.UUID) (bool, error) {
	args := m.Called(ctx, commID, userID)
	return args.Bool(0), args.Error(1)
}

func (m *CommunicationRepository) SetStatus(ctx context.Context, commID uuid.UUID, status domain.ThreadStatus) error {
	args := m.Called(ctx, commID, status)
	return args.Error(0)
}
