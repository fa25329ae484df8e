package repository

import (
	"context"
	"errors"
	"fmt"

	"english_hub/internal/middleware"
	"english_hub/internal/model"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SpeakingRepository interface {
	Create(ctx context.Context, tx *gorm.DB, practice *model.SpeakingPractice) error
	FindByID(ctx context.Context, db *gorm.DB, practiceID uuid.UUID) (*model.SpeakingPractice, error)
	FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.SpeakingPractice, error)
}

type gormSpeakingRepository struct{}

func NewGormSpeakingRepository() SpeakingRepository {
	return &gormSpeakingRepository{}
}

func (r *gormSpeakingRepository) Create(ctx context.Context, tx *gorm.DB, practice *model.SpeakingPractice) error {
	result := tx.WithContext(ctx).Create(practice)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error creating speaking practice in DB",
			"error", result.Error,
			"user_id", practice.UserID.String(),
		)
		return fmt.Errorf("gormSpeakingRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormSpeakingRepository) FindByID(ctx context.Context, db *gorm.DB, practiceID uuid.UUID) (*model.SpeakingPractice, error) {
	var practice model.SpeakingPractice
	result := db.WithContext(ctx).Where("practice_id = ?", practiceID).First(&practice)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding speaking practice by ID in DB",
			"error", result.Error,
			"practice_id", practiceID.String(),
		)
		return nil, fmt.Errorf("gormSpeakingRepository.FindByID: %w", result.Error)
	}
	return &practice, nil
}

func (r *gormSpeakingRepository) FindByUserID(ctx context.Context, db *gorm.DB, userID uuid.UUID, limit int) ([]*model.SpeakingPractice, error) {
	var practices []*model.SpeakingPractice
	query := db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	result := query.Find(&practices)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding speaking practices by user in DB",
			"error", result.Error,
			"user_id", userID.String(),
		)
		return nil, fmt.Errorf("gormSpeakingRepository.FindByUserID: %w", result.Error)
	}
	return practices, nil
}
