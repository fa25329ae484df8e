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

type FlashcardRepository interface {
	Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	FindByID(ctx context.Context, db *gorm.DB, cardID uuid.UUID) (*model.Flashcard, error)
	FindByTopicID(ctx context.Context, db *gorm.DB, topicID uuid.UUID) ([]*model.Flashcard, error)
	Update(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error
	Delete(ctx context.Context, tx *gorm.DB, cardID uuid.UUID) error
}

type gormFlashcardRepository struct{}

func NewGormFlashcardRepository() FlashcardRepository {
	return &gormFlashcardRepository{}
}

func (r *gormFlashcardRepository) Create(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	result := tx.WithContext(ctx).Create(card)
	if result.Error != nil {
		if IsForeignKeyViolation(result.Error) {
			// 参照先トピックが存在しない
			return model.ErrInvalidInput
		}
		middleware.GetLogger(ctx).Error("Error creating flashcard in DB", "error", result.Error)
		return fmt.Errorf("gormFlashcardRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormFlashcardRepository) FindByID(ctx context.Context, db *gorm.DB, cardID uuid.UUID) (*model.Flashcard, error) {
	var card model.Flashcard
	result := db.WithContext(ctx).Where("flashcard_id = ?", cardID).First(&card)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding flashcard by ID in DB",
			"error", result.Error,
			"flashcard_id", cardID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByID: %w", result.Error)
	}
	return &card, nil
}

func (r *gormFlashcardRepository) FindByTopicID(ctx context.Context, db *gorm.DB, topicID uuid.UUID) ([]*model.Flashcard, error) {
	var cards []*model.Flashcard
	result := db.WithContext(ctx).Where("topic_id = ?", topicID).Order("created_at ASC").Find(&cards)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding flashcards by topic in DB",
			"error", result.Error,
			"topic_id", topicID.String(),
		)
		return nil, fmt.Errorf("gormFlashcardRepository.FindByTopicID: %w", result.Error)
	}
	return cards, nil
}

func (r *gormFlashcardRepository) Update(ctx context.Context, tx *gorm.DB, card *model.Flashcard) error {
	result := tx.WithContext(ctx).Model(&model.Flashcard{}).
		Where("flashcard_id = ?", card.FlashcardID).
		Updates(map[string]interface{}{
			"vocabulary":  card.Vocabulary,
			"phonetics":   card.Phonetics,
			"meaning":     card.Meaning,
			"description": card.Description,
			"example":     card.Example,
		})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating flashcard in DB",
			"error", result.Error,
			"flashcard_id", card.FlashcardID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormFlashcardRepository) Delete(ctx context.Context, tx *gorm.DB, cardID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("flashcard_id = ?", cardID).Delete(&model.Flashcard{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting flashcard in DB",
			"error", result.Error,
			"flashcard_id", cardID.String(),
		)
		return fmt.Errorf("gormFlashcardRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
