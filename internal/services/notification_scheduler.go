package services

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/anniversary"
	"github.com/whatever-x/couple-backend/internal/apperr"
	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

// SchedulingStore is the scheduled-notification persistence boundary.
// repos.ScheduledNotificationRepo satisfies it.
type SchedulingStore interface {
	ScheduleNotifications(ctx context.Context, tx *gorm.DB, messages map[uuid.UUID]string, notifType types.NotificationType, notifyAt time.Time) error
	DeleteScheduledNotifications(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, notifTypes []types.NotificationType) (int64, error)
}

// Recipient is a couple member as the dispatcher sees it.
type Recipient struct {
	ID       uuid.UUID
	Nickname string
}

// ScheduleParams is the per-occurrence dispatch input. BirthdayOwner is
// required for birthday occurrences and ignored for everything else.
type ScheduleParams struct {
	Occurrence    anniversary.Occurrence
	Recipients    []Recipient
	BirthdayOwner *Recipient
}

type messageBuilder func(p ScheduleParams) (map[uuid.UUID]string, error)

// NotificationScheduler turns anniversary occurrences into per-recipient
// scheduled notifications through a type-keyed builder table.
type NotificationScheduler struct {
	store    SchedulingStore
	builders map[anniversary.Type]messageBuilder
	log      *logger.Logger
}

func NewNotificationScheduler(store SchedulingStore, baseLog *logger.Logger) (*NotificationScheduler, error) {
	ns := &NotificationScheduler{
		store: store,
		log:   baseLog.With("service", "NotificationScheduler"),
	}
	ns.builders = map[anniversary.Type]messageBuilder{
		anniversary.TypeIntervalDay: ns.buildIntervalDayMessages,
		anniversary.TypeYearly:      ns.buildYearlyMessages,
		anniversary.TypeBirthday:    ns.buildBirthdayMessages,
	}
	for _, t := range anniversary.AllTypes {
		if _, ok := ns.builders[t]; !ok {
			return nil, apperr.New(apperr.KindIllegalState, "UNREGISTERED_ANNIVERSARY_TYPE",
				fmt.Sprintf("no message builder registered for %s", t))
		}
	}
	return ns, nil
}

// Schedule builds the messages for one occurrence and hands them to the
// store. An occurrence whose type has no builder is logged and skipped so a
// single bad entry cannot abort a batch.
func (ns *NotificationScheduler) Schedule(ctx context.Context, p ScheduleParams, notifyAt time.Time) error {
	builder, ok := ns.builders[p.Occurrence.Type]
	if !ok {
		ns.log.Warn("unsupported anniversary type, skipping occurrence",
			"type", string(p.Occurrence.Type),
			"date", p.Occurrence.Date.Format("2006-01-02"),
		)
		return nil
	}
	messages, err := builder(p)
	if err != nil {
		return err
	}
	return ns.store.ScheduleNotifications(ctx, nil, messages, NotificationTypeFor(p.Occurrence.Type), notifyAt)
}

// Cancel removes pending notifications of the given anniversary types for
// the given members.
func (ns *NotificationScheduler) Cancel(ctx context.Context, memberIDs []uuid.UUID, annTypes []anniversary.Type) (int64, error) {
	if len(annTypes) == 0 {
		return 0, nil
	}
	notifTypes := make([]types.NotificationType, 0, len(annTypes))
	for _, t := range annTypes {
		notifTypes = append(notifTypes, NotificationTypeFor(t))
	}
	return ns.store.DeleteScheduledNotifications(ctx, nil, memberIDs, notifTypes)
}

func (ns *NotificationScheduler) buildIntervalDayMessages(p ScheduleParams) (map[uuid.UUID]string, error) {
	messages := make(map[uuid.UUID]string, len(p.Recipients))
	for _, r := range p.Recipients {
		messages[r.ID] = fmt.Sprintf("Today marks %d days together 💗", p.Occurrence.Nth)
	}
	return messages, nil
}

func (ns *NotificationScheduler) buildYearlyMessages(p ScheduleParams) (map[uuid.UUID]string, error) {
	messages := make(map[uuid.UUID]string, len(p.Recipients))
	for _, r := range p.Recipients {
		messages[r.ID] = fmt.Sprintf("Happy %s! Today is your anniversary 🎉", p.Occurrence.Label)
	}
	return messages, nil
}

// buildBirthdayMessages needs the birthday owner's identity to word the
// messages. A missing owner is a programming error, not missing data.
func (ns *NotificationScheduler) buildBirthdayMessages(p ScheduleParams) (map[uuid.UUID]string, error) {
	owner := p.BirthdayOwner
	if owner == nil || owner.ID == uuid.Nil || owner.Nickname == "" {
		return nil, apperr.New(apperr.KindIllegalState, "BIRTHDAY_OWNER_MISSING",
			"birthday occurrence dispatched without owner id and nickname")
	}
	messages := make(map[uuid.UUID]string, len(p.Recipients))
	for _, r := range p.Recipients {
		if r.ID == owner.ID {
			messages[r.ID] = "Happy birthday! Today is all about you 🎂"
		} else {
			messages[r.ID] = fmt.Sprintf("Today is %s's birthday. Don't forget to celebrate 🎂", owner.Nickname)
		}
	}
	return messages, nil
}

// NotificationTypeFor maps an anniversary type onto its stored
// notification type.
func NotificationTypeFor(t anniversary.Type) types.NotificationType {
	switch t {
	case anniversary.TypeIntervalDay:
		return types.NotificationIntervalDay
	case anniversary.TypeYearly:
		return types.NotificationYearly
	case anniversary.TypeBirthday:
		return types.NotificationBirthday
	default:
		return types.NotificationType(string(t))
	}
}
