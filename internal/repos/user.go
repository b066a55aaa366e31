package repos

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/whatever-x/couple-backend/internal/logger"
	"github.com/whatever-x/couple-backend/internal/types"
)

type UserRepo interface {
	Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error)
	GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error)
	ListByCoupleID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) ([]*types.User, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]interface{}) error
}

type userRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewUserRepo(db *gorm.DB, baseLog *logger.Logger) UserRepo {
	repoLog := baseLog.With("repo", "UserRepo")
	return &userRepo{db: db, log: repoLog}
}

func (ur *userRepo) Create(ctx context.Context, tx *gorm.DB, users []*types.User) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	if len(users) == 0 {
		return []*types.User{}, nil
	}
	if err := transaction.WithContext(ctx).Create(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (ur *userRepo) GetByID(ctx context.Context, tx *gorm.DB, userID uuid.UUID) (*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var result types.User
	err := transaction.WithContext(ctx).
		Where("id = ?", userID).
		First(&result).Error
	if err == gorm.ErrRecordNotFound {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &result, nil
}

func (ur *userRepo) GetByIDs(ctx context.Context, tx *gorm.DB, userIDs []uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if len(userIDs) == 0 {
		return results, nil
	}
	if err := transaction.WithContext(ctx).
		Where("id IN ?", userIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) ListByCoupleID(ctx context.Context, tx *gorm.DB, coupleID uuid.UUID) ([]*types.User, error) {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}

	var results []*types.User
	if err := transaction.WithContext(ctx).
		Where("couple_id = ?", coupleID).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (ur *userRepo) UpdateFields(ctx context.Context, tx *gorm.DB, userID uuid.UUID, fields map[string]interface{}) error {
	transaction := tx
	if transaction == nil {
		transaction = ur.db
	}
	return transaction.WithContext(ctx).
		Model(&types.User{}).
		Where("id = ?", userID).
		Updates(fields).Error
}
