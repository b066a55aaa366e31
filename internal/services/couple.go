package services

import (
	"context"
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/apperr"
	"github.com/whatever-x/couple-backend/internal/events"
	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/repos"
	"github.com/whatever-x/couple-backend/internal/types"
)

const (
	// MaxSharedMessageRunes bounds the shared message in codepoints.
	MaxSharedMessageRunes = 24

	coupleWriteAttempts = 3
)

// CoupleService is the only path allowed to flip couple membership and
// status. Lifecycle: empty -> active (two members) -> inactive (one member)
// -> soft-deleted (none).
type CoupleService interface {
	CreateCouple(ctx context.Context) (*types.Couple, error)
	AddMembers(ctx context.Context, coupleID, firstUserID, secondUserID uuid.UUID) error
	RemoveMember(ctx context.Context, coupleID, userID uuid.UUID) error
	UpdateStartDate(ctx context.Context, coupleID uuid.UUID, newDate time.Time, requesterZone *time.Location) error
	UpdateSharedMessage(ctx context.Context, coupleID uuid.UUID, message string) error
}

type coupleService struct {
	runner  events.TxRunner
	couples repos.CoupleRepo
	users   repos.UserRepo
	log     *logger.Logger
	now     func() time.Time
}

func NewCoupleService(runner events.TxRunner, couples repos.CoupleRepo, users repos.UserRepo, baseLog *logger.Logger) CoupleService {
	return &coupleService{
		runner:  runner,
		couples: couples,
		users:   users,
		log:     baseLog.With("service", "CoupleService"),
		now:     time.Now,
	}
}

func (s *coupleService) CreateCouple(ctx context.Context) (*types.Couple, error) {
	now := time.Now().UTC()
	couple := &types.Couple{
		ID:        uuid.New(),
		Status:    types.CoupleStatusActive,
		Version:   0,
		CreatedAt: now,
		UpdatedAt: now,
	}
	var created *types.Couple
	err := s.runner.InTx(ctx, func(tx *gorm.DB, _ *events.Queue) error {
		c, err := s.couples.Create(ctx, tx, couple)
		if err != nil {
			return err
		}
		created = c
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// AddMembers pairs exactly two distinct users onto an empty couple.
func (s *coupleService) AddMembers(ctx context.Context, coupleID, firstUserID, secondUserID uuid.UUID) error {
	if firstUserID == secondUserID {
		return apperr.New(apperr.KindInvalidArgument, "DUPLICATE_MEMBER", "cannot pair a user with themselves")
	}
	return s.withVersionRetry(ctx, "AddMembers", func() error {
		return s.runner.InTx(ctx, func(tx *gorm.DB, _ *events.Queue) error {
			couple, err := s.couples.GetByID(ctx, tx, coupleID)
			if err != nil {
				return err
			}
			if couple == nil {
				return apperr.New(apperr.KindNotFound, "COUPLE_NOT_FOUND", "couple not found")
			}

			existing, err := s.users.ListByCoupleID(ctx, tx, coupleID)
			if err != nil {
				return err
			}
			if len(existing) > 0 {
				return apperr.New(apperr.KindIllegalState, "COUPLE_ALREADY_POPULATED", "couple already has members")
			}

			members, err := s.users.GetByIDs(ctx, tx, []uuid.UUID{firstUserID, secondUserID})
			if err != nil {
				return err
			}
			if len(members) != 2 {
				return apperr.New(apperr.KindNotFound, "USER_NOT_FOUND", "one or both users not found")
			}
			for _, m := range members {
				if m.CoupleID != nil {
					return apperr.New(apperr.KindIllegalState, "USER_ALREADY_COUPLED", "user already belongs to a couple")
				}
			}

			for _, m := range members {
				if err := s.users.UpdateFields(ctx, tx, m.ID, map[string]interface{}{
					"couple_id": coupleID,
					"status":    types.UserStatusCoupled,
				}); err != nil {
					return err
				}
			}
			return s.couples.UpdateVersioned(ctx, tx, coupleID, couple.Version, map[string]interface{}{
				"status": types.CoupleStatusActive,
			})
		})
	})
}

// RemoveMember unlinks a member, deactivates the couple and publishes a
// member-leave event after commit. Removing the last member soft-deletes
// the couple.
func (s *coupleService) RemoveMember(ctx context.Context, coupleID, userID uuid.UUID) error {
	return s.withVersionRetry(ctx, "RemoveMember", func() error {
		return s.runner.InTx(ctx, func(tx *gorm.DB, q *events.Queue) error {
			couple, err := s.couples.GetByID(ctx, tx, coupleID)
			if err != nil {
				return err
			}
			if couple == nil {
				return apperr.New(apperr.KindNotFound, "COUPLE_NOT_FOUND", "couple not found")
			}

			user, err := s.users.GetByID(ctx, tx, userID)
			if err != nil {
				return err
			}
			if user == nil || user.CoupleID == nil || *user.CoupleID != coupleID {
				return apperr.New(apperr.KindIllegalState, "NOT_A_MEMBER", "user is not a member of this couple")
			}

			if err := s.users.UpdateFields(ctx, tx, userID, map[string]interface{}{
				"couple_id": nil,
				"status":    types.UserStatusSingle,
			}); err != nil {
				return err
			}

			if err := s.couples.UpdateVersioned(ctx, tx, coupleID, couple.Version, map[string]interface{}{
				"status": types.CoupleStatusInactive,
			}); err != nil {
				return err
			}

			remaining, err := s.users.ListByCoupleID(ctx, tx, coupleID)
			if err != nil {
				return err
			}
			if len(remaining) == 0 {
				if err := s.couples.SoftDelete(ctx, tx, coupleID); err != nil {
					return err
				}
			}

			q.Enqueue(events.CoupleMemberLeave{CoupleID: coupleID, UserID: userID})
			return nil
		})
	})
}

// UpdateStartDate rejects dates that are still in the future for the
// requester's zone; "today" elsewhere on the globe is fine.
func (s *coupleService) UpdateStartDate(ctx context.Context, coupleID uuid.UUID, newDate time.Time, requesterZone *time.Location) error {
	if requesterZone == nil {
		requesterZone = time.UTC
	}
	return s.withVersionRetry(ctx, "UpdateStartDate", func() error {
		return s.runner.InTx(ctx, func(tx *gorm.DB, q *events.Queue) error {
			couple, err := s.couples.GetByID(ctx, tx, coupleID)
			if err != nil {
				return err
			}
			if couple == nil {
				return apperr.New(apperr.KindNotFound, "COUPLE_NOT_FOUND", "couple not found")
			}
			if couple.Status == types.CoupleStatusInactive {
				return apperr.New(apperr.KindIllegalState, "COUPLE_INACTIVE", "inactive couple is read-only")
			}

			localNow := s.now().In(requesterZone)
			localToday := time.Date(localNow.Year(), localNow.Month(), localNow.Day(), 0, 0, 0, 0, time.UTC)
			if dateUTC(newDate).After(localToday) {
				return apperr.New(apperr.KindInvalidArgument, "START_DATE_IN_FUTURE", "start date cannot be in the future")
			}

			normalized := dateUTC(newDate)
			if err := s.couples.UpdateVersioned(ctx, tx, coupleID, couple.Version, map[string]interface{}{
				"start_date": normalized,
			}); err != nil {
				return err
			}

			members, err := s.users.ListByCoupleID(ctx, tx, coupleID)
			if err != nil {
				return err
			}
			memberIDs := make([]uuid.UUID, 0, len(members))
			for _, m := range members {
				memberIDs = append(memberIDs, m.ID)
			}

			q.Enqueue(events.CoupleStartDateChanged{
				CoupleID:  coupleID,
				OldDate:   couple.StartDate,
				NewDate:   normalized,
				MemberIDs: memberIDs,
			})
			return nil
		})
	})
}

// UpdateSharedMessage enforces the codepoint cap and normalizes a blank
// message to "no message".
func (s *coupleService) UpdateSharedMessage(ctx context.Context, coupleID uuid.UUID, message string) error {
	trimmed := strings.TrimSpace(message)
	if utf8.RuneCountInString(trimmed) > MaxSharedMessageRunes {
		return apperr.New(apperr.KindInvalidArgument, "SHARED_MESSAGE_TOO_LONG", "shared message exceeds maximum length")
	}

	var value interface{}
	if trimmed != "" {
		value = trimmed
	}

	return s.withVersionRetry(ctx, "UpdateSharedMessage", func() error {
		return s.runner.InTx(ctx, func(tx *gorm.DB, _ *events.Queue) error {
			couple, err := s.couples.GetByID(ctx, tx, coupleID)
			if err != nil {
				return err
			}
			if couple == nil {
				return apperr.New(apperr.KindNotFound, "COUPLE_NOT_FOUND", "couple not found")
			}
			if couple.Status == types.CoupleStatusInactive {
				return apperr.New(apperr.KindIllegalState, "COUPLE_INACTIVE", "inactive couple is read-only")
			}
			return s.couples.UpdateVersioned(ctx, tx, coupleID, couple.Version, map[string]interface{}{
				"shared_message": value,
			})
		})
	})
}

// withVersionRetry re-runs fn on optimistic-lock misses, up to the bound.
// Concurrent writers each reload and reapply, so all of them land; a
// persistent conflict surfaces as a domain update failure.
func (s *coupleService) withVersionRetry(ctx context.Context, op string, fn func() error) error {
	var err error
	for attempt := 1; attempt <= coupleWriteAttempts; attempt++ {
		err = fn()
		if err == nil || !errors.Is(err, apperr.ErrStaleVersion) {
			return err
		}
		s.log.Debug("couple version conflict, retrying", "op", op, "attempt", attempt)
	}
	return apperr.Wrap(apperr.KindConflict, "COUPLE_UPDATE_FAILED", err)
}

func dateUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
