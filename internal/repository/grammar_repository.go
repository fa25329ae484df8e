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

type GrammarRepository interface {
	Create(ctx context.Context, tx *gorm.DB, lesson *model.GrammarLesson) error
	FindByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.GrammarLesson, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.GrammarLesson, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, lesson *model.GrammarLesson) error
	Delete(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error
}

type gormGrammarRepository struct{}

func NewGormGrammarRepository() GrammarRepository {
	return &gormGrammarRepository{}
}

func (r *gormGrammarRepository) Create(ctx context.Context, tx *gorm.DB, lesson *model.GrammarLesson) error {
	result := tx.WithContext(ctx).Create(lesson)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error creating grammar lesson in DB", "error", result.Error)
		return fmt.Errorf("gormGrammarRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormGrammarRepository) FindByID(ctx context.Context, db *gorm.DB, lessonID uuid.UUID) (*model.GrammarLesson, error) {
	var lesson model.GrammarLesson
	result := db.WithContext(ctx).Where("lesson_id = ?", lessonID).First(&lesson)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding grammar lesson by ID in DB",
			"error", result.Error,
			"lesson_id", lessonID.String(),
		)
		return nil, fmt.Errorf("gormGrammarRepository.FindByID: %w", result.Error)
	}
	return &lesson, nil
}

func (r *gormGrammarRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.GrammarLesson, error) {
	var lessons []*model.GrammarLesson
	result := db.WithContext(ctx).Order("created_at ASC").Find(&lessons)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding all grammar lessons in DB", "error", result.Error)
		return nil, fmt.Errorf("gormGrammarRepository.FindAll: %w", result.Error)
	}
	return lessons, nil
}

func (r *gormGrammarRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.GrammarLesson{}).Count(&count)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error counting grammar lessons in DB", "error", result.Error)
		return 0, fmt.Errorf("gormGrammarRepository.Count: %w", result.Error)
	}
	return count, nil
}

func (r *gormGrammarRepository) Update(ctx context.Context, tx *gorm.DB, lesson *model.GrammarLesson) error {
	result := tx.WithContext(ctx).Model(&model.GrammarLesson{}).
		Where("lesson_id = ?", lesson.LessonID).
		Updates(map[string]interface{}{
			"title":     lesson.Title,
			"content":   lesson.Content,
			"video_url": lesson.VideoURL,
		})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating grammar lesson in DB",
			"error", result.Error,
			"lesson_id", lesson.LessonID.String(),
		)
		return fmt.Errorf("gormGrammarRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormGrammarRepository) Delete(ctx context.Context, tx *gorm.DB, lessonID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("lesson_id = ?", lessonID).Delete(&model.GrammarLesson{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting grammar lesson in DB",
			"error", result.Error,
			"lesson_id", lessonID.String(),
		)
		return fmt.Errorf("gormGrammarRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
