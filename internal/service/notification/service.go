// Package notification materializes per-recipient notification records from
// domain events and serves each actor's inbox. The inbox row is the durable
// product; the live push on top of it is a latency optimization that may
// silently fail.
package notification

import (
	"context"
	"log"
	"time"

	"github.com/google/uuid"

	"github.com/campusboard/noticeboard/internal/access"
	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/event"
	"github.com/campusboard/noticeboard/internal/realtime"
	"github.com/campusboard/noticeboard/internal/repository"
	"github.com/campusboard/noticeboard/internal/service/email"
)

const fanoutTimeout = 30 * time.Second

type Service interface {
	List(ctx context.Context, actor domain.Actor, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error)
	UnreadCount(ctx context.Context, actor domain.Actor) (int64, error)
	MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error
	MarkAllRead(ctx context.Context, actor domain.Actor) error

	// Start subscribes the fan-out to the bus. It must run for the whole
	// process lifetime; events published while nothing is subscribed are lost
	// by design.
	Start(bus *event.Bus) *event.Subscription
	HandleEvent(ev event.Event)
}

type service struct {
	notifRepo repository.NotificationRepository
	userRepo  repository.UserRepository
	notices   repository.NoticeRepository
	comms     repository.CommunicationRepository
	sessions  realtime.SessionRegistry
	emailSvc  email.Service
}

func NewService(
	notifRepo repository.NotificationRepository,
	userRepo repository.UserRepository,
	notices repository.NoticeRepository,
	comms repository.CommunicationRepository,
	sessions realtime.SessionRegistry,
	emailSvc email.Service,
) Service {
	return &service{
		notifRepo: notifRepo,
		userRepo:  userRepo,
		notices:   notices,
		comms:     comms,
		sessions:  sessions,
		emailSvc:  emailSvc,
	}
}

func (s *service) List(ctx context.Context, actor domain.Actor, unreadOnly bool, params domain.PaginationParams) (domain.PaginatedResponse[domain.Notification], error) {
	notifications, total, err := s.notifRepo.ListByRecipient(ctx, actor.ID, unreadOnly, params)
	if err != nil {
		return domain.PaginatedResponse[domain.Notification]{}, err
	}
	return domain.NewPaginatedResponse(notifications, params.Page, params.PageSize, total), nil
}

func (s *service) UnreadCount(ctx context.Context, actor domain.Actor) (int64, error) {
	return s.notifRepo.CountUnread(ctx, actor.ID)
}

func (s *service) MarkRead(ctx context.Context, actor domain.Actor, id uuid.UUID) error {
	notif, err := s.notifRepo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if notif == nil {
		return domain.NotFound("notification not found")
	}
	if notif.RecipientID != actor.ID {
		return domain.Forbidden("this notification belongs to another user")
	}
	return s.notifRepo.MarkRead(ctx, id)
}

func (s *service) MarkAllRead(ctx context.Context, actor domain.Actor) error {
	return s.notifRepo.MarkAllRead(ctx, actor.ID)
}

func (s *service) Start(bus *event.Bus) *event.Subscription {
	return bus.Subscribe(s.HandleEvent,
		event.NoticeCreated, event.NoticeUpdated, event.MessageCreated)
}

// HandleEvent runs on the bus delivery goroutine. Re-delivery of an event id
// is harmless: the (event, recipient) unique key deduplicates the append.
func (s *service) HandleEvent(ev event.Event) {
	ctx, cancel := context.WithTimeout(context.Background(), fanoutTimeout)
	defer cancel()

	var err error
	switch ev.Kind {
	case event.NoticeCreated, event.NoticeUpdated:
		err = s.fanoutNotice(ctx, ev)
	case event.MessageCreated:
		err = s.fanoutMessage(ctx, ev)
	}
	if err != nil {
		log.Printf("notification fanout for %s %s failed: %v", ev.Kind, ev.ID, err)
	}
}

func (s *service) fanoutNotice(ctx context.Context, ev event.Event) error {
	notice, err := s.notices.GetByID(ctx, ev.SubjectID)
	if err != nil {
		return err
	}
	if notice == nil {
		// Deleted between commit and fan-out; nothing left to announce.
		return nil
	}

	users, err := s.userRepo.ListAll(ctx)
	if err != nil {
		return err
	}

	title := "New notice posted"
	if ev.Kind == event.NoticeUpdated {
		title = "Notice updated"
	}

	for i := range users {
		user := &users[i]
		if user.ID == ev.ActorID {
			continue
		}
		if !access.CanReadNotice(user.Actor(), notice) {
			continue
		}

		notif := &domain.Notification{
			ID:          uuid.New(),
			EventID:     ev.ID,
			RecipientID: user.ID,
			Type:        domain.NotifNotice,
			Title:       title,
			Message:     notice.Title,
			RelatedID:   &notice.ID,
		}
		inserted, err := s.notifRepo.Create(ctx, notif)
		if err != nil {
			log.Printf("failed to create notification for user %s: %v", user.ID, err)
			continue
		}
		if !inserted {
			continue
		}

		s.push(ctx, user.ID, realtime.Message{
			Kind:      realtime.KindNoticeAlert,
			Title:     title,
			Body:      notice.Title,
			RelatedID: notice.ID,
		})
		s.push(ctx, user.ID, realtime.Message{
			Kind:      realtime.KindNotificationReceived,
			Title:     title,
			Body:      notice.Title,
			RelatedID: notif.ID,
		})

		if ev.Kind == event.NoticeCreated && notice.Category == domain.CategoryUrgent && user.Email != "" {
			go func(toEmail, name, noticeTitle string) {
				ctx, cancel := context.WithTimeout(context.Background(), fanoutTimeout)
				defer cancel()
				if err := s.emailSvc.SendUrgentNotice(ctx, toEmail, name, noticeTitle); err != nil {
					log.Printf("failed to send urgent notice email to %s: %v", toEmail, err)
				}
			}(user.Email, user.Name, notice.Title)
		}
	}

	return nil
}

func (s *service) fanoutMessage(ctx context.Context, ev event.Event) error {
	comm, err := s.comms.GetByID(ctx, ev.SubjectID)
	if err != nil {
		return err
	}
	if comm == nil {
		return nil
	}

	for _, participantID := range comm.Participants {
		if participantID == ev.ActorID {
			continue
		}

		notif := &domain.Notification{
			ID:          uuid.New(),
			EventID:     ev.ID,
			RecipientID: participantID,
			Type:        domain.NotifMessage,
			Title:       "New message",
			Message:     comm.Title,
			RelatedID:   &comm.ID,
		}
		inserted, err := s.notifRepo.Create(ctx, notif)
		if err != nil {
			log.Printf("failed to create notification for user %s: %v", participantID, err)
			continue
		}
		if !inserted {
			continue
		}

		s.push(ctx, participantID, realtime.Message{
			Kind:      realtime.KindMessageReceived,
			Title:     "New message",
			Body:      comm.Title,
			RelatedID: comm.ID,
		})
	}

	return nil
}

// push is fire-and-forget: no retry, errors swallowed. The inbox row already
// exists, so a missed push only costs immediacy.
func (s *service) push(ctx context.Context, recipientID uuid.UUID, msg realtime.Message) {
	if err := s.sessions.Push(ctx, recipientID, msg); err != nil {
		log.Printf("live push to %s dropped: %v", recipientID, err)
	}
}
