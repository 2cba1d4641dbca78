package mocks

import (
	"context"
	"io"

	"github.com/stretchr/testify/mock"
)

type BlobStore struct {
	mock.Mock
}

func (m *BlobStore) Put(ctx context.Context, path string, r io.Reader, size int64, contentType string) error {
	args := m.Called(ctx, path, r, size, contentType)
	return args.Error(0)
}

func (m *BlobStore) Get(ctx context.Context, path string) (io.ReadCloser, error) {
	args := m.Called(ctx, path)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(io.ReadCloser), args.Error(1)
}

func (m *BlobStore) Remove(ctx context.Context, path string) error {
	args := m.Called(ctx, path)
	return args.Error(0)
}
