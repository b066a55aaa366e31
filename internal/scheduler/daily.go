package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/whatever-x/couple-backend/internal/anniversary"
	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/repos"
	"github.com/whatever-x/couple-backend/internal/services"
)

// DailyNotifier walks every active couple shortly after midnight and
// schedules notifications for anniversaries and birthdays landing today.
type DailyNotifier struct {
	cron       *cron.Cron
	couples    repos.CoupleRepo
	users      repos.UserRepo
	sched      *services.NotificationScheduler
	log        *logger.Logger
	now        func() time.Time
	notifyHour int
}

func NewDailyNotifier(couples repos.CoupleRepo, users repos.UserRepo, sched *services.NotificationScheduler, baseLog *logger.Logger, notifyHour int) *DailyNotifier {
	return &DailyNotifier{
		cron:       cron.New(),
		couples:    couples,
		users:      users,
		sched:      sched,
		log:        baseLog.With("component", "DailyNotifier"),
		now:        func() time.Time { return time.Now().UTC() },
		notifyHour: notifyHour,
	}
}

func (d *DailyNotifier) Start() error {
	if _, err := d.cron.AddFunc("5 0 * * *", d.RunOnce); err != nil {
		return err
	}
	d.cron.Start()
	d.log.Info("daily anniversary notifier started")
	return nil
}

func (d *DailyNotifier) Stop() {
	ctx := d.cron.Stop()
	<-ctx.Done()
}

// RunOnce is one full sweep. Failures are per-couple: one broken couple
// must not starve the rest of the sweep.
func (d *DailyNotifier) RunOnce() {
	ctx := context.Background()
	today := anniversary.DateOf(d.now())
	notifyAt := today.Add(time.Duration(d.notifyHour) * time.Hour)

	couples, err := d.couples.ListActiveWithStartDate(ctx, nil)
	if err != nil {
		d.log.Error("failed to list active couples", "error", err)
		return
	}

	for _, couple := range couples {
		members, err := d.users.ListByCoupleID(ctx, nil, couple.ID)
		if err != nil {
			d.log.Error("failed to load couple members", "couple_id", couple.ID.String(), "error", err)
			continue
		}
		recipients := make([]services.Recipient, 0, len(members))
		for _, m := range members {
			recipients = append(recipients, services.Recipient{ID: m.ID, Nickname: m.Nickname})
		}

		for _, occ := range anniversary.OnDate(*couple.StartDate, today) {
			if err := d.sched.Schedule(ctx, services.ScheduleParams{Occurrence: occ, Recipients: recipients}, notifyAt); err != nil {
				d.log.Error("failed to schedule couple anniversary",
					"couple_id", couple.ID.String(), "type", string(occ.Type), "error", err)
			}
		}

		for _, m := range members {
			if m.BirthDate == nil {
				continue
			}
			for _, occ := range anniversary.FindYearlyAnniversaries(*m.BirthDate, today, today, &anniversary.Feb28) {
				occ.Type = anniversary.TypeBirthday
				owner := services.Recipient{ID: m.ID, Nickname: m.Nickname}
				params := services.ScheduleParams{Occurrence: occ, Recipients: recipients, BirthdayOwner: &owner}
				if err := d.sched.Schedule(ctx, params, notifyAt); err != nil {
					d.log.Error("failed to schedule birthday notification",
						"couple_id", couple.ID.String(), "user_id", m.ID.String(), "error", err)
				}
			}
		}
	}
}
