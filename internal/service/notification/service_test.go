package notification_test

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/campusboard/noticeboard/internal/domain"
	"github.com/campusboard/noticeboard/internal/event"
	"github.com/campusboard/noticeboard/internal/realtime"
	"github.com/campusboard/noticeboard/internal/service/notification"
	"github.com/campusboard/noticeboard/tests/mocks"
)

// recorder captures pushes so tests can assert who got which wire kinds.
type recorder struct {
	mu     sync.Mutex
	pushes map[uuid.UUID][]realtime.Message
}

func newRecorder() *recorder {
	return &recorder{pushes: make(map[uuid.UUID][]realtime.Message)}
}

func (r *recorder) Push(_ context.Context, recipientID uuid.UUID, msg realtime.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.pushes[recipientID] = append(r.pushes[recipientID], msg)
	return nil
}

func (r *recorder) kindsFor(id uuid.UUID) []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	kinds := make([]string, 0, len(r.pushes[id]))
	for _, msg := range r.pushes[id] {
		kinds = append(kinds, msg.Kind)
	}
	return kinds
}

type fanoutFixture struct {
	notifs  *mocks.NotificationRepository
	users   *mocks.UserRepository
	notices *mocks.NoticeRepository
	comms   *mocks.CommunicationRepository
	email   *mocks.EmailService
	pushes  *recorder
	svc     notification.Service
}

func newFanoutFixture() *fanoutFixture {
	f := &fanoutFixture{
		notifs:  new(mocks.NotificationRepository),
		users:   new(mocks.UserRepository),
		notices: new(mocks.NoticeRepository),
		comms:   new(mocks.CommunicationRepository),
		email:   new(mocks.EmailService),
		pushes:  newRecorder(),
	}
	f.svc = notification.NewService(f.notifs, f.users, f.notices, f.comms, f.pushes, f.email)
	return f
}

func TestFanout_NoticeCreated_AudienceFilter(t *testing.T) {
	f := newFanoutFixture()

	poster := domain.User{ID: uuid.New(), Role: domain.RoleFaculty}
	student := domain.User{ID: uuid.New(), Role: domain.RoleStudent}
	otherFaculty := domain.User{ID: uuid.New(), Role: domain.RoleFaculty}
	admin := domain.User{ID: uuid.New(), Role: domain.RoleAdmin}

	noticeID := uuid.New()
	stored := &domain.Notice{
		ID:        noticeID,
		Title:     "Lab closed Friday",
		VisibleTo: domain.AudienceStudents,
		PostedBy:  poster.ID,
	}

	f.notices.On("GetByID", mock.Anything, noticeID).Return(stored, nil).Once()
	f.users.On("ListAll", mock.Anything).Return([]domain.User{poster, student, otherFaculty, admin}, nil).Once()
	f.notifs.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.Type == domain.NotifNotice && n.Message == "Lab closed Friday"
	})).Return(true, nil).Twice()

	f.svc.HandleEvent(event.Event{
		ID:        uuid.New(),
		Kind:      event.NoticeCreated,
		SubjectID: noticeID,
		ActorID:   poster.ID,
	})

	// Student and admin are in the audience; the poster is skipped even though
	// an admin-equivalent rule would admit them, and other faculty are out.
	f.notifs.AssertExpectations(t)
	assert.Equal(t, []string{realtime.KindNoticeAlert, realtime.KindNotificationReceived}, f.pushes.kindsFor(student.ID))
	assert.Equal(t, []string{realtime.KindNoticeAlert, realtime.KindNotificationReceived}, f.pushes.kindsFor(admin.ID))
	assert.Empty(t, f.pushes.kindsFor(poster.ID))
	assert.Empty(t, f.pushes.kindsFor(otherFaculty.ID))
}

func TestFanout_RepublishIsIdempotent(t *testing.T) {
	f := newFanoutFixture()

	poster := uuid.New()
	student := domain.User{ID: uuid.New(), Role: domain.RoleStudent}
	noticeID := uuid.New()
	stored := &domain.Notice{ID: noticeID, Title: "t", VisibleTo: domain.AudienceAll, PostedBy: poster}

	ev := event.Event{ID: uuid.New(), Kind: event.NoticeCreated, SubjectID: noticeID, ActorID: poster}

	f.notices.On("GetByID", mock.Anything, noticeID).Return(stored, nil).Twice()
	f.users.On("ListAll", mock.Anything).Return([]domain.User{student}, nil).Twice()
	f.notifs.On("Create", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.notifs.On("Create", mock.Anything, mock.Anything).Return(false, nil).Once()

	f.svc.HandleEvent(ev)
	f.svc.HandleEvent(ev)

	// The second delivery deduplicates on (event, recipient) and must not push.
	f.notifs.AssertExpectations(t)
	assert.Len(t, f.pushes.kindsFor(student.ID), 2)
}

func TestFanout_UrgentNoticeSendsEmail(t *testing.T) {
	f := newFanoutFixture()

	poster := uuid.New()
	student := domain.User{ID: uuid.New(), Role: domain.RoleStudent, Name: "Asha", Email: "asha@example.edu"}
	noticeID := uuid.New()
	stored := &domain.Notice{
		ID:        noticeID,
		Title:     "Campus closed",
		Category:  domain.CategoryUrgent,
		VisibleTo: domain.AudienceAll,
		PostedBy:  poster,
	}

	sent := make(chan struct{})
	f.notices.On("GetByID", mock.Anything, noticeID).Return(stored, nil).Once()
	f.users.On("ListAll", mock.Anything).Return([]domain.User{student}, nil).Once()
	f.notifs.On("Create", mock.Anything, mock.Anything).Return(true, nil).Once()
	f.email.On("SendUrgentNotice", mock.Anything, "asha@example.edu", "Asha", "Campus closed").
		Run(func(mock.Arguments) { close(sent) }).Return(nil).Once()

	f.svc.HandleEvent(event.Event{ID: uuid.New(), Kind: event.NoticeCreated, SubjectID: noticeID, ActorID: poster})

	<-sent
	f.email.AssertExpectations(t)
}

func TestFanout_NoticeDeletedBeforeFanout(t *testing.T) {
	f := newFanoutFixture()
	noticeID := uuid.New()

	f.notices.On("GetByID", mock.Anything, noticeID).Return(nil, nil).Once()

	f.svc.HandleEvent(event.Event{ID: uuid.New(), Kind: event.NoticeCreated, SubjectID: noticeID, ActorID: uuid.New()})

	f.users.AssertNotCalled(t, "ListAll", mock.Anything)
	f.notifs.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestFanout_MessageCreated_NotifiesOtherParticipants(t *testing.T) {
	f := newFanoutFixture()

	sender := uuid.New()
	other := uuid.New()
	commID := uuid.New()
	comm := &domain.Communication{
		ID:           commID,
		Title:        "Grading question",
		Participants: []uuid.UUID{sender, other},
	}

	f.comms.On("GetByID", mock.Anything, commID).Return(comm, nil).Once()
	f.notifs.On("Create", mock.Anything, mock.MatchedBy(func(n *domain.Notification) bool {
		return n.RecipientID == other && n.Type == domain.NotifMessage
	})).Return(true, nil).Once()

	f.svc.HandleEvent(event.Event{ID: uuid.New(), Kind: event.MessageCreated, SubjectID: commID, ActorID: sender})

	f.notifs.AssertExpectations(t)
	assert.Equal(t, []string{realtime.KindMessageReceived}, f.pushes.kindsFor(other))
	assert.Empty(t, f.pushes.kindsFor(sender))
}

func TestInbox_MarkRead(t *testing.T) {
	ctx := context.Background()

	t.Run("recipient marks own notification", func(t *testing.T) {
		f := newFanoutFixture()
		actor := domain.Actor{ID: uuid.New(), Role: domain.RoleStudent}
		id := uuid.New()
		stored := &domain.Notification{ID: id, RecipientID: actor.ID}

		f.notifs.On("GetByID", ctx, id).Return(stored, nil).Once()
		f.notifs.On("MarkRead", ctx, id).Return(nil).Once()

		assert.NoError(t, f.svc.MarkRead(ctx, actor, id))
		f.notifs.AssertExpectations(t)
	})

	t.Run("someone else's notification is forbidden", func(t *testing.T) {
		f := newFanoutFixture()
		actor := domain.Actor{ID: uuid.New(), Role: domain.RoleStudent}
		id := uuid.New()
		stored := &domain.Notification{ID: id, RecipientID: uuid.New()}

		f.notifs.On("GetByID", ctx, id).Return(stored, nil).Once()

		err := f.svc.MarkRead(ctx, actor, id)
		assert.Equal(t, domain.KindForbidden, domain.KindOf(err))
		f.notifs.AssertNotCalled(t, "MarkRead", mock.Anything, mock.Anything)
	})

	t.Run("unknown notification is not found", func(t *testing.T) {
		f := newFanoutFixture()
		id := uuid.New()
		f.notifs.On("GetByID", ctx, id).Return(nil, nil).Once()

		err := f.svc.MarkRead(ctx, domain.Actor{ID: uuid.New()}, id)
		assert.Equal(t, domain.KindNotFound, domain.KindOf(err))
	})
}

func TestInbox_MarkAllRead(t *testing.T) {
	ctx := context.Background()
	f := newFanoutFixture()
	actor := domain.Actor{ID: uuid.New(), Role: domain.RoleStudent}

	// Repeated calls are safe; the repository only touches unread rows.
	f.notifs.On("MarkAllRead", ctx, actor.ID).Return(nil).Twice()

	assert.NoError(t, f.svc.MarkAllRead(ctx, actor))
	assert.NoError(t, f.svc.MarkAllRead(ctx, actor))
	f.notifs.AssertExpectations(t)
}
