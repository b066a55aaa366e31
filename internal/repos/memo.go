package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

type MemoRepo interface {
	Create(ctx context.Context, tx *gorm.DB, memos []*types.Memo) ([]*types.Memo, error)
	ListByCoupleID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) ([]*types.Memo, error)
	// SoftDeleteByAuthor marks every memo written by the user as deleted and
	// returns the number of rows touched. Re-running it is a no-op.
	SoftDeleteByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error)
}

type memoRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewMemoRepo(db *gorm.DB, baseLog *logger.Logger) MemoRepo {
	repoLog := baseLog.With("repo", "MemoRepo")
	return &memoRepo{db: db, log: repoLog}
}

func (mr *memoRepo) Create(ctx context.Context, tx *gorm.DB, memos []*types.Memo) ([]*types.Memo, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	if len(memos) == 0 {
		return []*types.Memo{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&memos).Error; err != nil {
		return nil, err
	}
	return memos, nil
}

func (mr *memoRepo) ListByCoupleID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) ([]*types.Memo, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}

	var results []*types.Memo
	if err := transaction.WithContext(ctx).
		Where("couple_id = ?", coupleID).
		Order("created_at DESC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (mr *memoRepo) SoftDeleteByAuthor(ctx context.Context, tx *gorm.DB, authorID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = mr.db
	}
	res := transaction.WithContext(ctx).
		Where("author_id = ?", authorID).
		Delete(&types.Memo{})
	return res.RowsAffected, res.Error
}
