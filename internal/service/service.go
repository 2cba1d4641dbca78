package service

import (
	"github.com/minio/minio-go/v7"

	"github.com/campusboard/noticeboard/internal/config"
	"github.com/campusboard/noticeboard/internal/event"
	"github.com/campusboard/noticeboard/internal/realtime"
	"github.com/campusboard/noticeboard/internal/repository"
	"github.com/campusboard/noticeboard/internal/service/attachment"
	"github.com/campusboard/noticeboard/internal/service/auth"
	"github.com/campusboard/noticeboard/internal/service/communication"
	"github.com/campusboard/noticeboard/internal/service/email"
	"github.com/campusboard/noticeboard/internal/service/notice"
	"github.com/campusboard/noticeboard/internal/service/notification"
	"github.com/campusboard/noticeboard/internal/storage"
)

type Services struct {
	Auth          auth.Service
	Notice        notice.Service
	Attachment    attachment.Service
	Notification  notification.Service
	Communication communication.Service
	Email         email.Service

	Bus *event.Bus
}

func NewServices(repos *repository.Repositories, minioClient *minio.Client, sessions realtime.SessionRegistry, cfg *config.Config) *Services {
	bus := event.NewBus()

	blobs := storage.NewMinIOBlobStore(minioClient, cfg.MinIOBucket)
	store := storage.NewStore(repos.Attachment, blobs, cfg.MaxUploadBytes)

	emailService := email.NewService(cfg)
	authService := auth.NewService(repos.User, repos.Session, cfg)
	noticeService := notice.NewService(repos.Notice, repos.Attachment, store, bus)
	attachmentService := attachment.NewService(store, repos.Notice)
	communicationService := communication.NewService(repos.Communication, repos.User, bus)
	notificationService := notification.NewService(repos.Notification, repos.User, repos.Notice, repos.Communication, sessions, emailService)

	// The fan-out must be subscribed before any mutation can publish, so it
	// never misses an event for the life of the process.
	notificationService.Start(bus)

	return &Services{
		Auth:          authService,
		Notice:        noticeService,
		Attachment:    attachmentService,
		Notification:  notificationService,
		Communication: communicationService,
		Email:         emailService,
		Bus:           bus,
	}
}
