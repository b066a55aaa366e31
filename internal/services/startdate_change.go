package services

import (
	"context"
	"time"

	"github.com/whatever-x/couple-backend/internal/anniversary"
	"github.com/whatever-x/couple-backend/internal/events"
	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/repos"
)

// AnniversaryChangeHandler keeps today's scheduled couple notifications in
// sync when a start date changes: occurrences computed under the old date
// are cancelled, occurrences under the new date are (re)scheduled.
type AnniversaryChangeHandler struct {
	users      repos.UserRepo
	sched      *NotificationScheduler
	log        *logger.Logger
	now        func() time.Time
	notifyHour int
}

func NewAnniversaryChangeHandler(users repos.UserRepo, sched *NotificationScheduler, baseLog *logger.Logger, notifyHour int) *AnniversaryChangeHandler {
	return &AnniversaryChangeHandler{
		users:      users,
		sched:      sched,
		log:        baseLog.With("service", "AnniversaryChangeHandler"),
		now:        func() time.Time { return time.Now().UTC() },
		notifyHour: notifyHour,
	}
}

func (h *AnniversaryChangeHandler) Register(bus *events.Bus) {
	bus.Subscribe(events.CoupleStartDateChanged{}.Name(), h.HandleStartDateChanged)
}

func (h *AnniversaryChangeHandler) HandleStartDateChanged(ctx context.Context, e events.Event) error {
	ev, ok := e.(events.CoupleStartDateChanged)
	if !ok {
		return nil
	}

	today := anniversary.DateOf(h.now())

	if ev.OldDate != nil {
		oldOccs := anniversary.OnDate(*ev.OldDate, today)
		if len(oldOccs) > 0 {
			annTypes := make([]anniversary.Type, 0, len(oldOccs))
			for _, occ := range oldOccs {
				annTypes = append(annTypes, occ.Type)
			}
			deleted, err := h.sched.Cancel(ctx, ev.MemberIDs, annTypes)
			if err != nil {
				return err
			}
			h.log.Info("cancelled notifications scheduled under previous start date",
				"couple_id", ev.CoupleID.String(), "deleted", deleted)
		}
	}

	newOccs := anniversary.OnDate(ev.NewDate, today)
	if len(newOccs) == 0 {
		return nil
	}

	members, err := h.users.GetByIDs(ctx, nil, ev.MemberIDs)
	if err != nil {
		return err
	}
	recipients := make([]Recipient, 0, len(members))
	for _, m := range members {
		recipients = append(recipients, Recipient{ID: m.ID, Nickname: m.Nickname})
	}

	notifyAt := today.Add(time.Duration(h.notifyHour) * time.Hour)
	for _, occ := range newOccs {
		if err := h.sched.Schedule(ctx, ScheduleParams{Occurrence: occ, Recipients: recipients}, notifyAt); err != nil {
			return err
		}
	}
	return nil
}
