package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"english_hub/internal/middleware"
	"english_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ProgressRepository interface {
	Upsert(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error
	FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.UserProgress, error)
	CountCompletedByType(ctx context.Context, db *gorm.DB, userID uuid.UUID, contentType string) (int64, error)
}

type gormProgressRepository struct{}

func NewGormProgressRepository() ProgressRepository {
	return &gormProgressRepository{}
}

// Upsert は (user_id, content_type, content_id) をキーに進捗を登録または更新します。
// 既存行がある場合は completed_at だけを更新します。
func (r *gormProgressRepository) Upsert(ctx context.Context, tx *gorm.DB, progress *model.UserProgress) error {
	result := tx.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{
			{Name: "user_id"},
			{Name: "content_type"},
			{Name: "content_id"},
		},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"completed_at": progress.CompletedAt,
			"updated_at":   time.Now(),
		}),
	}).Create(progress)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error upserting user progress in DB",
			"error", result.Error,
			"user_id", progress.UserID.String(),
		)
		return fmt.Errorf("gormProgressRepository.Upsert: %w", result.Error)
	}
	return nil
}

func (r *gormProgressRepository) FindByUser(ctx context.Context, db *gorm.DB, userID uuid.UUID) ([]*model.UserProgress, error) {
	var rows []*model.UserProgress
	result := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("completed_at DESC").
		Find(&rows)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		middleware.GetLogger(ctx).Error("Error finding user progress in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormProgressRepository.FindByUser: %w", result.Error)
	}
	return rows, nil
}

func (r *gormProgressRepository) CountCompletedByType(ctx context.Context, db *gorm.DB, userID uuid.UUID, contentType string) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.UserProgress{}).
		Where("user_id = ? AND content_type = ?", userID, contentType).
		Count(&count)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error counting user progress in DB",
			"error", result.Error,
			"user_id", userID.String(),
			"content_type", contentType,
		)
		return 0, fmt.Errorf("gormProgressRepository.CountCompletedByType: %w", result.Error)
	}
	return count, nil
}
