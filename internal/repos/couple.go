package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/apperr"
	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

type CoupleRepo interface {
	Create(ctx context.Context, tx *gorm.DB, couple *types.Couple) (*types.Couple, error)
	// GetByID returns (nil, nil) when the couple is absent or soft-deleted.
	GetByID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) (*types.Couple, error)
	ListActiveWithStartDate(ctx context.Context, tx *gorm.DB) ([]*types.Couple, error)
	// UpdateVersioned applies fields only if the stored version still equals
	// expectedVersion, bumping it in the same statement. A miss returns
	// apperr.ErrStaleVersion; retrying is the caller's job.
	UpdateVersioned(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID, expectedVersion int64, fields map[string]interface{}) error
	SoftDelete(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) error
}

type coupleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewCoupleRepo(db *gorm.DB, baseLog *logger.Logger) CoupleRepo {
	repoLog := baseLog.With("repo", "CoupleRepo")
	return &coupleRepo{db: db, log: repoLog}
}

func (cr *coupleRepo) Create(ctx context.Context, tx *gorm.DB, couple *types.Couple) (*types.Couple, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	if err := transaction.WithContext(ctx).Create(couple).Error; err != nil {
		return nil, err
	}
	return couple, nil
}

func (cr *coupleRepo) GetByID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) (*types.Couple, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var result types.Couple
	err := transaction.WithContext(ctx).
		Where("id = ?", coupleID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (cr *coupleRepo) ListActiveWithStartDate(ctx context.Context, tx *gorm.DB) ([]*types.Couple, error) {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	var results []*types.Couple
	if err := transaction.WithContext(ctx).
		Where("status = ? AND start_date IS NOT NULL", types.CoupleStatusActive).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (cr *coupleRepo) UpdateVersioned(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID, expectedVersion int64, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}

	updates := make(map[string]interface{}, len(fields)+1)
	for k, v := range fields {
		updates[k] = v
	}
	updates["version"] = expectedVersion + 1

	res := transaction.WithContext(ctx).
		Model(&types.Couple{}).
		Where("id = ? AND version = ?", coupleID, expectedVersion).
		Updates(updates)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperr.ErrStaleVersion
	}
	return nil
}

func (cr *coupleRepo) SoftDelete(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = cr.db
	}
	return transaction.WithContext(ctx).
		Where("id = ?", coupleID).
		Delete(&types.Couple{}).Error
}
