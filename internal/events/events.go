package events

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/whatever-x/couple-backend/internal/logger"
)

// Event is a domain event. Events are enqueued during a transaction and
// dispatched only after that transaction commits.
type Event interface {
	Name() string
}

// CoupleStartDateChanged is published after a couple's start date commits.
type CoupleStartDateChanged struct {
	CoupleID  uuid.UUID
	OldDate   *time.Time
	NewDate   time.Time
	MemberIDs []uuid.UUID
}

func (CoupleStartDateChanged) Name() string { return "couple.start_date_changed" }

// CoupleMemberLeave is published after a member removal commits.
type CoupleMemberLeave struct {
	CoupleID uuid.UUID
	UserID   uuid.UUID
}

func (CoupleMemberLeave) Name() string { return "couple.member_leave" }

type Handler func(ctx context.Context, e Event) error

// Bus dispatches events synchronously to subscribers, in subscription order.
// Handler errors are logged, not propagated; a failing subscriber must not
// suppress the others.
type Bus struct {
	mu   sync.RWMutex
	subs map[string][]Handler
	log  *logger.Logger
}

func NewBus(baseLog *logger.Logger) *Bus {
	return &Bus{
		subs: make(map[string][]Handler),
		log:  baseLog.With("component", "EventBus"),
	}
}

func (b *Bus) Subscribe(name string, h Handler) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.subs[name] = append(b.subs[name], h)
}

func (b *Bus) Publish(ctx context.Context, e Event) {
	b.mu.RLock()
	handlers := b.subs[e.Name()]
	b.mu.RUnlock()

	for _, h := range handlers {
		if err := h(ctx, e); err != nil {
			b.log.Error("event handler failed", "event", e.Name(), "error", err)
		}
	}
}
