package mocks

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/campusboard/noticeboard/internal/domain"
)

type NoticeRepository struct {
	mock.Mock
}

func (m *NoticeRepository) Create(ctx context.Context, notice *domain.Notice) error {
	args := m.Called(ctx, notice)
	return args.Error(0)
}

func (m *NoticeRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}

func (m *NoticeRepository) ListAll(ctx context.Context) ([]domain.Notice, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Notice), args.Error(1)
}

func (m *NoticeRepository) Update(ctx context.Context, notice *domain.Notice, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, notice, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *NoticeRepository) Delete(ctx context.Context, id uuid.UUID, expectedVersion int64) (bool, error) {
	args := m.Called(ctx, id, expectedVersion)
	return args.Bool(0), args.Error(1)
}

func (m *NoticeRepository) IncrementViews(ctx context.Context, id uuid.UUID) (*domain.Notice, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Notice), args.Error(1)
}
