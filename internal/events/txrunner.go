package events

import (
	"context"
	"sync"

	"gorm.io/gorm"
)

// Queue buffers events raised inside a transaction. It is drained onto the
// bus only after the transaction commits and discarded on rollback.
type Queue struct {
	mu      sync.Mutex
	pending []Event
}

func (q *Queue) Enqueue(e Event) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.pending = append(q.pending, e)
}

func (q *Queue) Drain(ctx context.Context, bus *Bus) {
	q.mu.Lock()
	pending := q.pending
	q.pending = nil
	q.mu.Unlock()

	for _, e := range pending {
		bus.Publish(ctx, e)
	}
}

// TxRunner runs a function inside a database transaction with a commit-gated
// event queue attached.
type TxRunner interface {
	InTx(ctx context.Context, fn func(tx *gorm.DB, q *Queue) error) error
}

type gormTxRunner struct {
	db  *gorm.DB
	bus *Bus
}

func NewGormTxRunner(db *gorm.DB, bus *Bus) TxRunner {
	return &gormTxRunner{db: db, bus: bus}
}

// InTx opens a transaction and hands fn a fresh queue. Events reach the bus
// only when the transaction commits; on error the queue dies with the
// rollback and nothing downstream fires.
func (r *gormTxRunner) InTx(ctx context.Context, fn func(tx *gorm.DB, q *Queue) error) error {
	q := &Queue{}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(tx, q)
	})
	if err != nil {
		return err
	}
	q.Drain(ctx, r.bus)
	return nil
}
