package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

type TagContentMapRepo interface {
	Create(ctx context.Context, tx *gorm.DB, mappings []*types.TagContentMap) ([]*types.TagContentMap, error)
	ListByMemoID(ctx context.Context, tx *gorm.DB, memoID uuid.UUID) ([]*types.TagContentMap, error)
	SoftDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (int64, error)
}

type tagContentMapRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewTagContentMapRepo(db *gorm.DB, baseLog *logger.Logger) TagContentMapRepo {
	repoLog := baseLog.With("repo", "TagContentMapRepo")
	return &tagContentMapRepo{db: db, log: repoLog}
}

func (tr *tagContentMapRepo) Create(ctx context.Context, tx *gorm.DB, mappings []*types.TagContentMap) ([]*types.TagContentMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	if len(mappings) == 0 {
		return []*types.TagContentMap{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&mappings).Error; err != nil {
		return nil, err
	}
	return mappings, nil
}

func (tr *tagContentMapRepo) ListByMemoID(ctx context.Context, tx *gorm.DB, memoID uuid.UUID) ([]*types.TagContentMap, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}

	var results []*types.TagContentMap
	if err := transaction.WithContext(ctx).
		Where("memo_id = ?", memoID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (tr *tagContentMapRepo) SoftDeleteByOwner(ctx context.Context, tx *gorm.DB, ownerID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = tr.db
	}
	res := transaction.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Delete(&types.TagContentMap{})
	return res.RowsAffected, res.Error
}
