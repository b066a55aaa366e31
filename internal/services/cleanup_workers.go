package services

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/repos"
)

// Each worker opens its own transaction so one domain's failure cannot roll
// back another domain's committed cleanup.

type calendarEventCleanupWorker struct {
	db   *gorm.DB
	repo repos.CalendarEventRepo
}

func NewCalendarEventCleanupWorker(db *gorm.DB, repo repos.CalendarEventRepo) CleanupWorker {
	return &calendarEventCleanupWorker{db: db, repo: repo}
}

func (w *calendarEventCleanupWorker) DomainName() string { return "calendar_event" }

func (w *calendarEventCleanupWorker) CleanupEntity(ctx context.Context, userID uuid.UUID) (int64, error) {
	var rows int64
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := w.repo.SoftDeleteByOwner(ctx, tx, userID)
		rows = n
		return err
	})
	return rows, err
}

type memoCleanupWorker struct {
	db   *gorm.DB
	repo repos.MemoRepo
}

func NewMemoCleanupWorker(db *gorm.DB, repo repos.MemoRepo) CleanupWorker {
	return &memoCleanupWorker{db: db, repo: repo}
}

func (w *memoCleanupWorker) DomainName() string { return "memo" }

func (w *memoCleanupWorker) CleanupEntity(ctx context.Context, userID uuid.UUID) (int64, error) {
	var rows int64
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := w.repo.SoftDeleteByAuthor(ctx, tx, userID)
		rows = n
		return err
	})
	return rows, err
}

type tagContentMapCleanupWorker struct {
	db   *gorm.DB
	repo repos.TagContentMapRepo
}

func NewTagContentMapCleanupWorker(db *gorm.DB, repo repos.TagContentMapRepo) CleanupWorker {
	return &tagContentMapCleanupWorker{db: db, repo: repo}
}

func (w *tagContentMapCleanupWorker) DomainName() string { return "tag_content_map" }

func (w *tagContentMapCleanupWorker) CleanupEntity(ctx context.Context, userID uuid.UUID) (int64, error) {
	var rows int64
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := w.repo.SoftDeleteByOwner(ctx, tx, userID)
		rows = n
		return err
	})
	return rows, err
}

type balanceChoiceCleanupWorker struct {
	db   *gorm.DB
	repo repos.BalanceChoiceRepo
}

func NewBalanceChoiceCleanupWorker(db *gorm.DB, repo repos.BalanceChoiceRepo) CleanupWorker {
	return &balanceChoiceCleanupWorker{db: db, repo: repo}
}

func (w *balanceChoiceCleanupWorker) DomainName() string { return "balance_choice" }

func (w *balanceChoiceCleanupWorker) CleanupEntity(ctx context.Context, userID uuid.UUID) (int64, error) {
	var rows int64
	err := w.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		n, err := w.repo.SoftDeleteByUser(ctx, tx, userID)
		rows = n
		return err
	})
	return rows, err
}
