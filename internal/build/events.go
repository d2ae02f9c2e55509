package build

import (
	"context"
	"sync"
	"time"

	"github.com/slok/appforge/internal/log"
	"github.com/slok/appforge/internal/model"
)

// EventKind is the kind of a build event.
type EventKind string

const (
	// EventProgress is sent after a tick persisted a new progress.
	EventProgress EventKind = "progress"
	// EventReady is sent when the build finished and the project is ready.
	EventReady EventKind = "ready"
	// EventCancelled is sent when the simulation was stopped before finishing.
	EventCancelled EventKind = "cancelled"
	// EventAbandoned is sent when the project was removed or left the building status
	// by other means while being simulated.
	EventAbandoned EventKind = "abandoned"
)

// Event is a project state change produced by a build simulation.
type Event struct {
	Kind EventKind
	// Project is the last known state of the project.
	Project model.Project
	At      time.Time
}

// Notifier receives build events. Notify is called from the simulation goroutine
// so implementations must not block.
type Notifier interface {
	Notify(ctx context.Context, e Event)
}

// NotifierFunc is a helper to use functions as Notifier.
type NotifierFunc func(ctx context.Context, e Event)

// Notify satisfies Notifier.
func (f NotifierFunc) Notify(ctx context.Context, e Event) { f(ctx, e) }

// NoopNotifier discards all the events.
var NoopNotifier = NotifierFunc(func(context.Context, Event) {})

// Broadcaster is a Notifier that fans out events to subscribers.
// Subscribers that are not keeping up lose events instead of blocking the builds.
type Broadcaster struct {
	mu     sync.RWMutex
	subs   map[int]chan Event
	nextID int
	logger log.Logger
}

// NewBroadcaster returns a new Broadcaster.
func NewBroadcaster(logger log.Logger) *Broadcaster {
	if logger == nil {
		logger = log.Noop
	}

	return &Broadcaster{
		subs:   map[int]chan Event{},
		logger: logger.WithValues(log.Kv{"svc": "build.Broadcaster"}),
	}
}

// Subscribe returns a channel that receives the events and a function to unsubscribe.
// Unsubscribing closes the channel.
func (b *Broadcaster) Subscribe(buffer int) (<-chan Event, func()) {
	if buffer < 0 {
		buffer = 0
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	id := b.nextID
	b.nextID++
	ch := make(chan Event, buffer)
	b.subs[id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			b.mu.Lock()
			defer b.mu.Unlock()
			delete(b.subs, id)
			close(ch)
		})
	}

	return ch, cancel
}

// Notify satisfies Notifier.
func (b *Broadcaster) Notify(ctx context.Context, e Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	for id, ch := range b.subs {
		select {
		case ch <- e:
		default:
			b.logger.Debugf("Subscriber %d is full, dropping %s event of project %s", id, e.Kind, e.Project.ID)
		}
	}
}
