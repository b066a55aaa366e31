package services

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/whatever-x/couple-backend/internal/apperr"
	"github.com/whatever-x/couple-backend/internal/events"
	"github.com/whatever-x/couple-backend/internal/logger"
)

const (
	cleanupMaxAttempts = 3
	cleanupBackoffBase = 100 * time.Millisecond
	cleanupBackoffCap  = 300 * time.Millisecond
)

// CleanupWorker soft-deletes one domain's records owned by a departing user.
// Each implementation runs in its own transaction; soft delete is idempotent
// so repeating an attempt is always safe.
type CleanupWorker interface {
	DomainName() string
	CleanupEntity(ctx context.Context, userID uuid.UUID) (int64, error)
}

// RecoveryHook fires once a worker has exhausted its retries. It may log or
// alert but the error is re-raised regardless.
type RecoveryHook func(ctx context.Context, userID uuid.UUID, domain string, err error)

// CleanupService fans a member-leave event out to the domain cleanup
// workers. Workers are failure-isolated: one failing does not undo what the
// others already committed. There is deliberately no compensation step.
type CleanupService struct {
	workers  []CleanupWorker
	log      *logger.Logger
	parallel bool
	recovery RecoveryHook
	sleep    func(time.Duration)
}

// NewCleanupService builds the orchestrator. parallel=false runs workers in
// registration order on the publishing goroutine, which tests rely on.
func NewCleanupService(baseLog *logger.Logger, parallel bool, workers ...CleanupWorker) *CleanupService {
	s := &CleanupService{
		workers:  workers,
		log:      baseLog.With("service", "CleanupService"),
		parallel: parallel,
		sleep:    time.Sleep,
	}
	s.recovery = func(_ context.Context, userID uuid.UUID, domain string, err error) {
		s.log.Error("cleanup retries exhausted",
			"user_id", userID.String(), "domain", domain, "error", err)
	}
	return s
}

// SetRecoveryHook replaces the default logging hook.
func (s *CleanupService) SetRecoveryHook(hook RecoveryHook) {
	if hook != nil {
		s.recovery = hook
	}
}

func (s *CleanupService) Register(bus *events.Bus) {
	bus.Subscribe(events.CoupleMemberLeave{}.Name(), s.HandleMemberLeave)
}

func (s *CleanupService) HandleMemberLeave(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.CoupleMemberLeave)
	if !ok {
		return nil
	}
	return s.CleanupOwnedRecords(ctx, ev.UserID)
}

// CleanupOwnedRecords runs every worker for the user. All workers run even
// when some fail; their errors are joined. The parallel branch deliberately
// shares the caller's context untouched: one domain failing must not cancel
// its siblings' in-flight transactions.
func (s *CleanupService) CleanupOwnedRecords(ctx context.Context, userID uuid.UUID) error {
	if s.parallel {
		var g errgroup.Group
		errs := make([]error, len(s.workers))
		for i, w := range s.workers {
			i, worker := i, w
			g.Go(func() error {
				errs[i] = s.cleanupOne(ctx, worker, userID)
				return nil
			})
		}
		_ = g.Wait()
		return errors.Join(errs...)
	}

	var errs []error
	for _, w := range s.workers {
		if err := s.cleanupOne(ctx, w, userID); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *CleanupService) cleanupOne(ctx context.Context, w CleanupWorker, userID uuid.UUID) error {
	rows, err := s.runWithRetry(ctx, w, userID)
	if err != nil {
		return err
	}
	s.log.Info("cleanup finished",
		"user_id", userID.String(), "domain", w.DomainName(), "rows", rows)
	return nil
}

// runWithRetry retries transient failures with bounded backoff. Anything
// non-transient propagates immediately. On exhaustion the recovery hook
// fires and the last failure is re-raised.
func (s *CleanupService) runWithRetry(ctx context.Context, w CleanupWorker, userID uuid.UUID) (int64, error) {
	backoff := cleanupBackoffBase
	var lastErr error
	for attempt := 1; attempt <= cleanupMaxAttempts; attempt++ {
		rows, err := w.CleanupEntity(ctx, userID)
		if err == nil {
			return rows, nil
		}
		if !apperr.IsTransient(err) {
			return 0, err
		}
		lastErr = err
		s.log.Warn("transient cleanup failure",
			"user_id", userID.String(), "domain", w.DomainName(), "attempt", attempt, "error", err)
		if attempt < cleanupMaxAttempts {
			s.sleep(backoff)
			backoff *= 2
			if backoff > cleanupBackoffCap {
				backoff = cleanupBackoffCap
			}
		}
	}
	s.recovery(ctx, userID, w.DomainName(), lastErr)
	return 0, lastErr
}
