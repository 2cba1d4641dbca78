package repository

import (
	"github.com/jmoiron/sqlx"
)

type Repositories struct {
	User          UserRepository
	Session       SessionRepository
	Notice        NoticeRepository
	Attachment    AttachmentRepository
	Notification  NotificationRepository
	Communication CommunicationRepository
}

func NewRepositories(db *sqlx.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Session:       NewSessionRepository(db),
		Notice:        NewNoticeRepository(db),
		Attachment:    NewAttachmentRepository(db),
		Notification:  NewNotificationRepository(db),
		Communication: NewCommunicationRepository(db),
	}
}
