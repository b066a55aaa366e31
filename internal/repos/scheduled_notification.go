package repos

import (
	"context"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

type ScheduledNotificationRepo interface {
	// ScheduleNotifications inserts one pending notification per recipient.
	ScheduleNotifications(ctx context.Context, tx *gorm.DB, messages map[uuid.UUID]string, notifType types.NotificationType, notifyAt time.Time) error
	// DeleteScheduledNotifications soft-deletes unsent notifications of the
	// given types for the given users and returns how many rows it touched.
	DeleteScheduledNotifications(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, notifTypes []types.NotificationType) (int64, error)
	ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ScheduledNotification, error)
}

type scheduledNotificationRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewScheduledNotificationRepo(db *gorm.DB, baseLog *logger.Logger) ScheduledNotificationRepo {
	repoLog := baseLog.With("repo", "ScheduledNotificationRepo")
	return &scheduledNotificationRepo{db: db, log: repoLog}
}

func (nr *scheduledNotificationRepo) ScheduleNotifications(ctx context.Context, tx *gorm.DB, messages map[uuid.UUID]string, notifType types.NotificationType, notifyAt time.Time) error {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(messages) == 0 {
		return nil
	}

	payload, err := json.Marshal(map[string]string{"type": string(notifType)})
	if err != nil {
		return err
	}

	now := time.Now().UTC()
	rows := make([]*types.ScheduledNotification, 0, len(messages))
	for userID, message := range messages {
		rows = append(rows, &types.ScheduledNotification{
			ID:        uuid.New(),
			UserID:    userID,
			Type:      notifType,
			Message:   message,
			Payload:   datatypes.JSON(payload),
			NotifyAt:  notifyAt,
			CreatedAt: now,
			UpdatedAt: now,
		})
	}
	return transaction.WithContext(ctx).Create(&rows).Error
}

func (nr *scheduledNotificationRepo) DeleteScheduledNotifications(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID, notifTypes []types.NotificationType) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}
	if len(userIDs) == 0 || len(notifTypes) == 0 {
		return 0, nil
	}

	res := transaction.WithContext(ctx).
		Where("user_id IN ? AND type IN ? AND sent_at IS NULL", userIDs, notifTypes).
		Delete(&types.ScheduledNotification{})
	return res.RowsAffected, res.Error
}

func (nr *scheduledNotificationRepo) ListPendingByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) ([]*types.ScheduledNotification, error) {
	transaction := tx
	if transaction == nil {
		transaction = nr.db
	}

	var results []*types.ScheduledNotification
	if err := transaction.WithContext(ctx).
		Where("user_id = ? AND sent_at IS NULL", userID).
		Order("notify_at ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
