package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type EmailService struct {
	mock.Mock
}

func (m *EmailService) SendUrgentNotice(ctx context.Context, toEmail, recipientName, noticeTitle string) error {
	args := m.Called(ctx, toEmail, recipientName, noticeTitle)
	return args.Error(0)
}
