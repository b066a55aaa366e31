package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

type CalendarEventRepo interface {
	Create(ctx context.Context, tx *gorm.DB, events []*types.CalendarEvent) ([]*types.CalendarEvent, error)
	ListByCoupleID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) ([]*types.CalendarEvent, error)
	SoftDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (int64, error)
}

type calendarEventRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCalendarEventRepo(db *gorm.DB, baseLog *logger.Logger) CalendarEventRepo {
	repoLog := baseLog.With("repo", "CalendarEventRepo")
	return &calendarEventRepo{db: db, log: repoLog}
}

func (cr *calendarEventRepo) Create(ctx context.Context, tx *gorm.DB, events []*types.CalendarEvent) ([]*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if len(events) == 0 {
		return []*types.CalendarEvent{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&events).Error; err != nil {
		return nil, err
	}
	return events, nil
}

func (cr *calendarEventRepo) ListByCoupleID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) ([]*types.CalendarEvent, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.CalendarEvent
	if err := transaction.WithContext(ctx).
		Where("couple_id = ?", coupleID).
		Order("starts_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *calendarEventRepo) SoftDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	res := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&types.CalendarEvent{})
	return res.RowsAffected, res.Error
}
