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

type TopicRepository interface {
	Create(ctx context.Context, tx *gorm.DB, topic *model.Topic) error
	FindByID(ctx context.Context, db *gorm.DB, topicID uuid.UUID) (*model.Topic, error)
	FindByIDWithFlashcards(ctx context.Context, db *gorm.DB, topicID uuid.UUID) (*model.Topic, error)
	FindAll(ctx context.Context, db *gorm.DB) ([]*model.Topic, error)
	Count(ctx context.Context, db *gorm.DB) (int64, error)
	Update(ctx context.Context, tx *gorm.DB, topic *model.Topic) error
	Delete(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) error
}

type gormTopicRepository struct{}

func NewGormTopicRepository() TopicRepository {
	return &gormTopicRepository{}
}

func (r *gormTopicRepository) Create(ctx context.Context, tx *gorm.DB, topic *model.Topic) error {
	result := tx.WithContext(ctx).Create(topic)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error creating topic in DB", "error", result.Error)
		return fmt.Errorf("gormTopicRepository.Create: %w", result.Error)
	}
	return nil
}

func (r *gormTopicRepository) FindByID(ctx context.Context, db *gorm.DB, topicID uuid.UUID) (*model.Topic, error) {
	var topic model.Topic
	result := db.WithContext(ctx).Where("topic_id = ?", topicID).First(&topic)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding topic by ID in DB",
			"error", result.Error,
			"topic_id", topicID.String(),
		)
		return nil, fmt.Errorf("gormTopicRepository.FindByID: %w", result.Error)
	}
	return &topic, nil
}

func (r *gormTopicRepository) FindByIDWithFlashcards(ctx context.Context, db *gorm.DB, topicID uuid.UUID) (*model.Topic, error) {
	var topic model.Topic
	result := db.WithContext(ctx).
		Preload("Flashcards", func(db *gorm.DB) *gorm.DB {
			return db.Order("flashcards.created_at ASC")
		}).
		Where("topic_id = ?", topicID).
		First(&topic)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, model.ErrNotFound
		}
		middleware.GetLogger(ctx).Error("Error finding topic with flashcards in DB",
			"error", result.Error,
			"topic_id", topicID.String(),
		)
		return nil, fmt.Errorf("gormTopicRepository.FindByIDWithFlashcards: %w", result.Error)
	}
	return &topic, nil
}

func (r *gormTopicRepository) FindAll(ctx context.Context, db *gorm.DB) ([]*model.Topic, error) {
	var topics []*model.Topic
	result := db.WithContext(ctx).Order("created_at ASC").Find(&topics)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error finding all topics in DB", "error", result.Error)
		return nil, fmt.Errorf("gormTopicRepository.FindAll: %w", result.Error)
	}
	return topics, nil
}

func (r *gormTopicRepository) Count(ctx context.Context, db *gorm.DB) (int64, error) {
	var count int64
	result := db.WithContext(ctx).Model(&model.Topic{}).Count(&count)
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error counting topics in DB", "error", result.Error)
		return 0, fmt.Errorf("gormTopicRepository.Count: %w", result.Error)
	}
	return count, nil
}

func (r *gormTopicRepository) Update(ctx context.Context, tx *gorm.DB, topic *model.Topic) error {
	result := tx.WithContext(ctx).Model(&model.Topic{}).
		Where("topic_id = ?", topic.TopicID).
		Updates(map[string]interface{}{
			"name":        topic.Name,
			"description": topic.Description,
		})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error updating topic in DB",
			"error", result.Error,
			"topic_id", topic.TopicID.String(),
		)
		return fmt.Errorf("gormTopicRepository.Update: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *gormTopicRepository) Delete(ctx context.Context, tx *gorm.DB, topicID uuid.UUID) error {
	result := tx.WithContext(ctx).Where("topic_id = ?", topicID).Delete(&model.Topic{})
	if result.Error != nil {
		middleware.GetLogger(ctx).Error("Error deleting topic in DB",
			"error", result.Error,
			"topic_id", topicID.String(),
		)
		return fmt.Errorf("gormTopicRepository.Delete: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return model.ErrNotFound
	}
	return nil
}
