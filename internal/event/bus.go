// Package event provides the process-wide in-memory publish/subscribe channel
// for domain events. There is no persistence and no replay: a subscriber that
// attaches after an event was published never sees it.
package event

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

type Kind string

const (
	NoticeCreated  Kind = "notice.created"
	NoticeUpdated  Kind = "notice.updated"
	NoticeDeleted  Kind = "notice.deleted"
	MessageCreated Kind = "message.created"
)

// Event is a transient record of a committed domain mutation. Publishers must
// only publish after the triggering write is durable.
type Event struct {
	ID         uuid.UUID
	Kind       Kind
	SubjectID  uuid.UUID
	ActorID    uuid.UUID
	OccurredAt time.Time
}

func New(kind Kind, subjectID, actorID uuid.UUID) Event {
	return Event{
		ID:         uuid.New(),
		Kind:       kind,
		SubjectID:  subjectID,
		ActorID:    actorID,
		OccurredAt: time.Now(),
	}
}

type Handler func(Event)

// Subscription is the handle returned by Subscribe. Each subscription owns a
// buffered FIFO queue drained by a single goroutine, so one subscriber always
// receives events in publish order.
type Subscription struct {
	kinds map[Kind]struct{}
	queue chan Event
	done  chan struct{}
}

func (s *Subscription) wants(k Kind) bool {
	if len(s.kinds) == 0 {
		return true
	}
	_, ok := s.kinds[k]
	return ok
}

type Bus struct {
	mu     sync.Mutex
	subs   map[*Subscription]struct{}
	closed bool
}

func NewBus() *Bus {
	return &Bus{subs: make(map[*Subscription]struct{})}
}

// Subscribe registers handler for the given kinds (all kinds when none are
// given) and starts its delivery goroutine.
func (b *Bus) Subscribe(handler Handler, kinds ...Kind) *Subscription {
	sub := &Subscription{
		queue: make(chan Event, 256),
		done:  make(chan struct{}),
	}
	if len(kinds) > 0 {
		sub.kinds = make(map[Kind]struct{}, len(kinds))
		for _, k := range kinds {
			sub.kinds[k] = struct{}{}
		}
	}

	go func() {
		defer close(sub.done)
		for ev := range sub.queue {
			handler(ev)
		}
	}()

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		close(sub.queue)
		return sub
	}
	b.subs[sub] = struct{}{}
	return sub
}

// Unsubscribe detaches the subscription and waits for its queue to drain.
func (b *Bus) Unsubscribe(sub *Subscription) {
	b.mu.Lock()
	_, ok := b.subs[sub]
	if ok {
		delete(b.subs, sub)
		close(sub.queue)
	}
	b.mu.Unlock()
	if ok {
		<-sub.done
	}
}

// Publish enqueues the event for every current subscriber interested in its
// kind. Delivery order across subscribers is unspecified; per subscriber it is
// publish order.
func (b *Bus) Publish(ev Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	for sub := range b.subs {
		if sub.wants(ev.Kind) {
			sub.queue <- ev
		}
	}
}

// Close detaches all subscribers and drops further publishes.
func (b *Bus) Close() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	b.closed = true
	subs := make([]*Subscription, 0, len(b.subs))
	for sub := range b.subs {
		subs = append(subs, sub)
		close(sub.queue)
	}
	b.subs = make(map[*Subscription]struct{})
	b.mu.Unlock()

	for _, sub := range subs {
		<-sub.done
	}
}
