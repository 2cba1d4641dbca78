package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/service"
)

type Handlers struct {
	Auth          *AuthHandler
	Notice        *NoticeHandler
	Attachment    *AttachmentHandler
	Notification  *NotificationHandler
	Communication *CommunicationHandler
}

func NewHandlers(services *service.Services) *Handlers {
	return &Handlers{
		Auth:          NewAuthHandler(services.Auth),
		Notice:        NewNoticeHandler(services.Notice),
		Attachment:    NewAttachmentHandler(services.Attachment),
		Notification:  NewNotificationHandler(services.Notification),
		Communication: NewCommunicationHandler(services.Communication),
	}
}

func getPaginationParams(c *fiber.Ctx) domain.PaginationParams {
	params := domain.DefaultPagination()
	if err := c.QueryParser(&params); err != nil {
		return domain.DefaultPagination()
	}
	params.Validate()
	return params
}
