package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

type BalanceChoiceRepo interface {
	Create(ctx context.Context, tx *gorm.DB, choices []*types.BalanceChoice) ([]*types.BalanceChoice, error)
	ListByGameID(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) ([]*types.BalanceChoice, error)
	SoftDeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error)
}

type balanceChoiceRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewBalanceChoiceRepo(db *gorm.DB, baseLog *logger.Logger) BalanceChoiceRepo {
	repoLog := baseLog.With("repo", "BalanceChoiceRepo")
	return &balanceChoiceRepo{db: db, log: repoLog}
}

func (br *balanceChoiceRepo) Create(ctx context.Context, tx *gorm.DB, choices []*types.BalanceChoice) ([]*types.BalanceChoice, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	if len(choices) == 0 {
		return []*types.BalanceChoice{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&choices).Error; err != nil {
		return nil, err
	}
	return choices, nil
}

func (br *balanceChoiceRepo) ListByGameID(ctx context.Context, tx *gorm.DB, gameID uuid.UUID) ([]*types.BalanceChoice, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}

	var results []*types.BalanceChoice
	if err := transaction.WithContext(ctx).
		Where("game_id = ?", gameID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (br *balanceChoiceRepo) SoftDeleteByUser(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (int64, error) {
	transaction := tx
	if transaction == nil {
		transaction = br.db
	}
	res := transaction.WithContext(ctx).
		Where("user_id = ?", userID).
		Delete(&types.BalanceChoice{})
	return res.RowsAffected, res.Error
}
